package pad

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRequest_WireShapes(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Request
	}{
		{"initialize", "initialize", InitRequest{}},
		{"click floats", map[string]any{"click": map[string]any{"x": 12.0, "y": -3.0}}, ClickRequest{Point: Point{X: 12, Y: -3}}},
		{"click truncates toward zero", map[string]any{"click": map[string]any{"x": -2.7, "y": 2.7}}, ClickRequest{Point: Point{X: -2, Y: 2}}},
		{"click ints", map[string]any{"click": map[string]any{"x": 4, "y": 5}}, ClickRequest{Point: Point{X: 4, Y: 5}}},
		{"extra keys ignored", map[string]any{"click": map[string]any{"x": 1, "y": 1}, "seq": 3}, ClickRequest{Point: Point{X: 1, Y: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseRequest(tc.in))
		})
	}
}

func TestParseRequest_Malformed(t *testing.T) {
	for _, in := range []any{
		nil,
		"init",
		42,
		map[string]any{},
		map[string]any{"click": nil},
		map[string]any{"click": map[string]any{"x": 1}},
		map[string]any{"click": map[string]any{"x": "a", "y": 1}},
		map[string]any{"tap": map[string]any{"x": 1, "y": 1}},
		[]any{"initialize"},
	} {
		_, ok := ParseRequest(in).(MalformedRequest)
		assert.True(t, ok, "expected malformed for %#v", in)
	}
}

func TestParseRequest_CoordinateOutOfRange(t *testing.T) {
	click := func(x, y float64) any {
		return map[string]any{"click": map[string]any{"x": x, "y": y}}
	}
	for _, in := range []any{
		click(1e300, 0),
		click(0, -1e300),
		click(math.Exp2(63), 0),
		click(math.NaN(), 0),
		click(0, math.Inf(1)),
	} {
		assert.IsType(t, MalformedRequest{}, ParseRequest(in), "expected malformed for %v", in)
	}

	assert.Equal(t, ClickRequest{Point: Point{X: math.MinInt64, Y: 0}}, ParseRequest(click(-math.Exp2(63), 0)))
	assert.IsType(t, MalformedRequest{}, DecodeRequest([]byte(`{"click":{"x":1e300,"y":-1e300}}`)))
}

func TestDecodeRequest_JSON(t *testing.T) {
	assert.Equal(t, InitRequest{}, DecodeRequest([]byte(`"initialize"`)))
	assert.Equal(t, ClickRequest{Point: Point{X: -10, Y: 20}}, DecodeRequest([]byte(`{"click":{"x":-10,"y":20}}`)))

	req := DecodeRequest([]byte(`{click:`))
	m, ok := req.(MalformedRequest)
	require.True(t, ok)
	assert.Equal(t, "{click:", m.Raw)
}

func TestParseRequest_YAMLDocument(t *testing.T) {
	var msgs []any
	src := "- initialize\n- click: {x: 3, y: -4}\n- bogus\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &msgs))
	require.Len(t, msgs, 3)

	assert.Equal(t, InitRequest{}, ParseRequest(msgs[0]))
	assert.Equal(t, ClickRequest{Point: Point{X: 3, Y: -4}}, ParseRequest(msgs[1]))
	assert.IsType(t, MalformedRequest{}, ParseRequest(msgs[2]))
}

func TestEncodeResponse(t *testing.T) {
	b, err := EncodeResponse(LayersResponse{Layers: DrawList{{{X: 1, Y: 2}}, {}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"layers":[[[1,2]],[]]}`, string(b))

	b, err = EncodeResponse(LayersResponse{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"layers":[]}`, string(b))

	b, err = EncodeResponse(ErrResponse{Err: ErrBusy})
	require.NoError(t, err)
	assert.JSONEq(t, `{"err":"already working, ignoring message"}`, string(b))
}

func TestErrResponse_Unwraps(t *testing.T) {
	var err error = ErrResponse{Err: ErrNotStarted}
	assert.True(t, errors.Is(err, ErrNotStarted))
}

func TestRequestKind(t *testing.T) {
	assert.Equal(t, "initialize", RequestKind(InitRequest{}))
	assert.Equal(t, "click", RequestKind(ClickRequest{}))
	assert.Equal(t, "malformed", RequestKind(MalformedRequest{}))
}
