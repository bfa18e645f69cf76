// The pcapdump command decodes the Mana traffic in a pcap capture file and
// prints every message, named and hex dumped, the way the client's packet
// logging does.
//
// Capture with something like: tcpdump -w session.pcap port 6901 or port 6122
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/mana/mana-sub005/internal/core/debug"
	"github.com/mana/mana-sub005/internal/eathena"
	"github.com/mana/mana-sub005/internal/manaserv"
	"github.com/mana/mana-sub005/internal/network"
	"github.com/mana/mana-sub005/internal/protocol"
)

var (
	file     = flag.String("f", "", "pcap file to read")
	family   = flag.String("protocol", "eathena", "Protocol family of the capture: eathena or manaserv")
	preamble = flag.Int("preamble", 4, "Unframed bytes eathena char and map servers send on connect")
	login    = flag.Int("login-port", 6901, "Port of the eathena login server, which sends no preamble")
)

// stream is one direction of one conversation.
type stream struct {
	name      string
	direction debug.Direction
	framer    network.Framer
}

type dumper struct {
	profile *protocol.Profile
	// Ports the servers listen on, learned from SYN-ACKs and the first
	// datagram of each conversation.
	serverPorts map[uint16]bool
	streams     map[string]*stream
}

func main() {
	flag.Parse()
	if *file == "" {
		exit("no capture file specified; use -help for options")
	}

	var profile *protocol.Profile
	switch *family {
	case "eathena":
		profile = eathena.Profile
	case "manaserv":
		profile = manaserv.Profile
	default:
		exit("unknown protocol %q", *family)
	}

	f, err := os.Open(*file)
	if err != nil {
		exit("error opening capture: %v", err)
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		exit("error reading capture: %v", err)
	}

	d := &dumper{
		profile:     profile,
		serverPorts: make(map[uint16]bool),
		streams:     make(map[string]*stream),
	}
	packetSource := gopacket.NewPacketSource(reader, reader.LinkType())
	for packet := range packetSource.Packets() {
		d.handle(packet)
	}
}

func (d *dumper) handle(packet gopacket.Packet) {
	netLayer := packet.NetworkLayer()
	if netLayer == nil {
		return
	}

	switch transport := packet.TransportLayer().(type) {
	case *layers.TCP:
		if transport.SYN && transport.ACK {
			d.serverPorts[uint16(transport.SrcPort)] = true
		}
		if transport.RST || (transport.SYN && !transport.ACK) {
			return
		}
		d.feed(netLayer.NetworkFlow(), uint16(transport.SrcPort), uint16(transport.DstPort), transport.SYN, transport.Payload)

	case *layers.UDP:
		// The first datagram of a conversation comes from the client.
		src, dst := uint16(transport.SrcPort), uint16(transport.DstPort)
		if !d.serverPorts[src] && !d.serverPorts[dst] {
			d.serverPorts[dst] = true
		}
		d.feed(netLayer.NetworkFlow(), src, dst, false, transport.Payload)
	}
}

// feed appends data to its stream and prints every message that completes.
func (d *dumper) feed(flow gopacket.Flow, srcPort, dstPort uint16, opening bool, data []byte) {
	key := fmt.Sprintf("%s:%d>%s:%d", flow.Src(), srcPort, flow.Dst(), dstPort)
	s, ok := d.streams[key]
	if !ok || opening {
		s = &stream{
			name:      key,
			direction: debug.Sent,
			framer:    network.NewFramer(d.profile),
		}
		if d.serverPorts[srcPort] {
			s.direction = debug.Received
			// Only a stream seen from its SYN-ACK starts with the preamble.
			if opening && d.profile.Framing == protocol.StreamFraming && int(srcPort) != *login {
				s.framer.Skip(*preamble)
			}
		}
		d.streams[key] = s
	}
	if len(data) == 0 {
		return
	}
	s.framer.Append(data)

	for {
		msg, ok, err := s.framer.Next()
		if err != nil {
			fmt.Printf("[%s] %v\n", s.name, err)
			s.framer.Reset()
			return
		}
		if !ok {
			return
		}
		debug.PrintPacket(debug.PrintPacketParams{
			Writer:    os.Stdout,
			Link:      s.name,
			Profile:   d.profile,
			Direction: s.direction,
			ID:        msg.ID,
			Data:      msg.Payload,
		})
	}
}

func exit(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
