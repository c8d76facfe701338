package parameter

import "time"

// Loop timing
const (
	// TickRate is the number of simulation ticks per second
	// Physics quantities are per tick, so this also fixes the perceived speed
	TickRate = 60

	// MaxCatchUpTicks bounds how many ticks the host loop runs after a stall
	MaxCatchUpTicks = 4
)

// Stream defaults
const (
	StreamAddress       = ":8080"
	StreamWriteTimeout  = 2 * time.Second
	StreamSendEveryN    = 2 // broadcast every Nth tick (30 Hz at TickRate 60)
	StreamMaxClients    = 32
	StreamWriteBuffer   = 16 * 1024
	StreamReadBuffer    = 1024
	StreamPingInterval  = 15 * time.Second
	StreamReadDeadline  = 45 * time.Second
	StreamDefaultFormat = "msgpack"
)
