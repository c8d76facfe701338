package network

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/heartfall/render"
)

// MessageType tags every message sent to viewers
type MessageType string

const (
	MsgHello MessageType = "hello" // sent once on connect
	MsgFrame MessageType = "frame" // per-frame instance snapshot
)

// Hello describes the field so a viewer can size its canvas before the first frame
type Hello struct {
	Type         MessageType `msgpack:"t" json:"t"`
	Engine       string      `msgpack:"engine" json:"engine"`
	Count        int         `msgpack:"count" json:"count"`
	VisualRadius float64     `msgpack:"radius" json:"radius"`
	TickRate     int         `msgpack:"rate" json:"rate"`
}

// Frame is one snapshot of every active heart
// Pixel fields let 2D viewers draw without a camera model
type Frame struct {
	Type      MessageType       `msgpack:"t" json:"t"`
	Frame     uint64            `msgpack:"f" json:"f"`
	State     string            `msgpack:"st" json:"st"`
	Width     float64           `msgpack:"w" json:"w"`
	Height    float64           `msgpack:"h" json:"h"`
	Instances []render.Instance `msgpack:"in" json:"in"`
}

// Encode serializes v in the given format
func Encode(f Format, v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = json.Marshal(v)
	default:
		data, err = msgpack.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return data, nil
}

// Decode is the inverse of Encode, used by tests and Go viewers
func Decode(f Format, data []byte, v any) error {
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	default:
		err = msgpack.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", f, err)
	}
	return nil
}
