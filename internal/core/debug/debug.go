// Package debug holds the packet logging helpers used when
// debugging.packet_logging_enabled is set.
package debug

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/mana/mana-sub005/internal/protocol"
)

// Direction of a logged message relative to the client.
type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// PrintPacketParams describes one message to be dumped.
type PrintPacketParams struct {
	Writer    io.Writer
	Link      string
	Profile   *protocol.Profile
	Direction Direction
	ID        uint16
	// Data is the full encoded message for sent messages and the payload
	// for received ones.
	Data []byte
}

// FormatPacket renders a header line followed by a hex dump of the data.
func FormatPacket(p PrintPacketParams) string {
	return fmt.Sprintf("[%s] %s %s %s (%d bytes)\n%s",
		p.Link,
		p.Profile.Name,
		p.Direction,
		p.Profile.MessageName(p.ID),
		len(p.Data),
		spew.Sdump(p.Data),
	)
}

// PrintPacket writes FormatPacket's output to p.Writer.
func PrintPacket(p PrintPacketParams) {
	_, _ = io.WriteString(p.Writer, FormatPacket(p))
}
