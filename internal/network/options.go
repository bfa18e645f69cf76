package network

import (
	"context"
	"io/ioutil"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// Default configuration values.
const (
	defaultConnectTimeout = 10 * time.Second
	// Large enough for any datagram a packet framed server sends.
	defaultReadBufferSize = 64 * 1024
)

// DialFunc opens the transport for a connection.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type options struct {
	logger         *logrus.Logger
	dial           DialFunc
	connectTimeout time.Duration
	readBufferSize int
	packetLogging  bool
}

// Option configures a Connection.
type Option func(*options)

// WithLogger sets the logger used for connection events.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDialer replaces the dialer, which defaults to a net.Dialer.
func WithDialer(dial DialFunc) Option {
	return func(o *options) {
		o.dial = dial
	}
}

// WithConnectTimeout bounds how long Connect may stay in Connecting.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.connectTimeout = timeout
	}
}

// WithReadBufferSize sets the size of a single transport read.
func WithReadBufferSize(size int) Option {
	return func(o *options) {
		o.readBufferSize = size
	}
}

// WithPacketLogging dumps every message sent and received at debug level.
func WithPacketLogging(enabled bool) Option {
	return func(o *options) {
		o.packetLogging = enabled
	}
}

func buildOptions(opt []Option) options {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	if opts.logger == nil {
		opts.logger = discardLogger()
	}
	if opts.dial == nil {
		var d net.Dialer
		opts.dial = d.DialContext
	}
	if opts.connectTimeout <= 0 {
		opts.connectTimeout = defaultConnectTimeout
	}
	if opts.readBufferSize <= 0 {
		opts.readBufferSize = defaultReadBufferSize
	}
	return opts
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = ioutil.Discard
	return logger
}
