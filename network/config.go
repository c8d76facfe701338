package network

import (
	"time"

	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/parameter"
)

// Format selects the frame encoding for a client
type Format uint8

const (
	FormatMsgpack Format = iota // binary messages
	FormatJSON                  // text messages, used by the embedded page
)

// String returns the query parameter spelling
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "msgpack"
}

// ParseFormat maps a query value to a Format, unknown values fall back to def
func ParseFormat(s string, def Format) Format {
	switch s {
	case "json":
		return FormatJSON
	case "msgpack":
		return FormatMsgpack
	default:
		return def
	}
}

// Config holds hub configuration
type Config struct {
	// Address to bind the HTTP server to
	Address string

	// Format used when a client does not ask for one
	Format Format

	// Broadcast every Nth simulation frame
	SendEveryN int

	// Connection limits
	MaxClients    int
	SendQueueSize int

	// Timing
	WriteTimeout time.Duration
	PingInterval time.Duration
	ReadDeadline time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultConfig returns local-viewing defaults
func DefaultConfig() *Config {
	return &Config{
		Address:         parameter.StreamAddress,
		Format:          ParseFormat(parameter.StreamDefaultFormat, FormatMsgpack),
		SendEveryN:      parameter.StreamSendEveryN,
		MaxClients:      parameter.StreamMaxClients,
		SendQueueSize:   4,
		WriteTimeout:    parameter.StreamWriteTimeout,
		PingInterval:    parameter.StreamPingInterval,
		ReadDeadline:    parameter.StreamReadDeadline,
		ReadBufferSize:  parameter.StreamReadBuffer,
		WriteBufferSize: parameter.StreamWriteBuffer,
	}
}

// FromStream overlays the user-facing stream section on the defaults
func FromStream(s config.StreamConfig) *Config {
	cfg := DefaultConfig()
	if s.Address != "" {
		cfg.Address = s.Address
	}
	cfg.Format = ParseFormat(s.Format, cfg.Format)
	if s.SendEveryN > 0 {
		cfg.SendEveryN = s.SendEveryN
	}
	if s.MaxClients > 0 {
		cfg.MaxClients = s.MaxClients
	}
	return cfg
}
