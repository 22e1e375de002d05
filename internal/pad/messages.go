package pad

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

// initializeMessage is the wire form of InitRequest.
const initializeMessage = "initialize"

// Request is a message from the interactive side to the worker.
type Request interface{ isRequest() }

// InitRequest asks the worker to start the engine. It is sent once, first.
type InitRequest struct{}

// ClickRequest delivers one click in engine space.
type ClickRequest struct {
	Point Point
}

// MalformedRequest carries any message shape the protocol does not recognise.
type MalformedRequest struct {
	Raw any
}

func (InitRequest) isRequest()      {}
func (ClickRequest) isRequest()     {}
func (MalformedRequest) isRequest() {}

// Response is a message from the worker back to the interactive side.
type Response interface{ isResponse() }

// LayersResponse carries one rendered frame.
type LayersResponse struct {
	Layers DrawList
}

// ErrResponse reports a rejected request or an engine failure.
type ErrResponse struct {
	Err error
}

func (LayersResponse) isResponse() {}
func (ErrResponse) isResponse()    {}

func (r ErrResponse) Error() string {
	if r.Err == nil {
		return "<nil>"
	}
	return r.Err.Error()
}

func (r ErrResponse) Unwrap() error { return r.Err }

// RequestKind names a request variant for logs and metrics.
func RequestKind(req Request) string {
	switch req.(type) {
	case InitRequest:
		return "initialize"
	case ClickRequest:
		return "click"
	default:
		return "malformed"
	}
}

type clickPayload struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// ParseRequest maps a decoded wire value onto a Request. It accepts the
// string "initialize" and objects of the form {click: {x, y}}; coordinates
// are truncated toward zero and must fit in an int64. Anything else becomes a
// MalformedRequest.
func ParseRequest(v any) Request {
	switch m := v.(type) {
	case string:
		if m == initializeMessage {
			return InitRequest{}
		}
	case map[string]any:
		raw, ok := m["click"]
		if !ok || raw == nil {
			break
		}
		var c clickPayload
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnset: true,
			Result:     &c,
		})
		if err != nil {
			break
		}
		if err := dec.Decode(raw); err != nil {
			break
		}
		if !representable(c.X) || !representable(c.Y) {
			break
		}
		return ClickRequest{Point: Point{X: int64(c.X), Y: int64(c.Y)}}
	}
	return MalformedRequest{Raw: v}
}

// DecodeRequest parses one JSON-encoded wire message.
func DecodeRequest(data []byte) Request {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return MalformedRequest{Raw: string(data)}
	}
	return ParseRequest(v)
}

type wireResponse struct {
	Layers [][][2]int64 `json:"layers,omitempty"`
	Err    string       `json:"err,omitempty"`
}

// EncodeResponse renders a response in its JSON wire form:
// {"layers": [[[x,y],...],...]} or {"err": "..."}.
func EncodeResponse(resp Response) ([]byte, error) {
	switch r := resp.(type) {
	case LayersResponse:
		layers := make([][][2]int64, len(r.Layers))
		for i, l := range r.Layers {
			pts := make([][2]int64, len(l))
			for j, p := range l {
				pts[j] = [2]int64{p.X, p.Y}
			}
			layers[i] = pts
		}
		// A frame with no layers still encodes the key.
		if len(layers) == 0 {
			return []byte(`{"layers":[]}`), nil
		}
		return json.Marshal(wireResponse{Layers: layers})
	case ErrResponse:
		return json.Marshal(wireResponse{Err: r.Error()})
	default:
		return nil, fmt.Errorf("unknown response type %T", resp)
	}
}

// representable reports whether f truncates to an int64 without overflow.
// NaN and the infinities fail both comparisons.
func representable(f float64) bool {
	return f >= math.MinInt64 && f < math.MaxInt64
}
