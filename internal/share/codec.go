// Package share encodes the non-zero ratings of a preference set as a compact
// URL-safe payload addressed against a starter.Index.
//
// Two wire shapes exist. The current sparse shape carries only non-zero
// (coordinate, value) tuples:
//
//	{"v":"sp-v1","tip":[[t,importance]],"dsp":[[t,d,stars]]}
//
// The legacy dense shape carries one entry per coordinate, zeros included:
//
//	{"v":"sp-v1","ti":[...],"ds":[[...]]}
//
// Decode accepts both and always returns the sparse form.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"prefset/internal/prefs"
	"prefset/internal/starter"
)

var (
	ErrMalformedPayload = errors.New("malformed share payload")
	ErrPackMismatch     = errors.New("share payload built for a different starter pack")
)

// Payload is the normalized sparse form of a share payload.
type Payload struct {
	V   string   `json:"v"`
	TIP [][2]int `json:"tip"`
	DSP [][3]int `json:"dsp"`
}

type densePayload struct {
	V  string  `json:"v"`
	TI []int   `json:"ti"`
	DS [][]int `json:"ds"`
}

// wirePayload is the union of both shapes as read off the wire. Numbers are
// decoded as floats so payloads produced by other encoders still parse.
type wirePayload struct {
	V   string      `json:"v"`
	TIP [][]float64 `json:"tip"`
	DSP [][]float64 `json:"dsp"`
	TI  []float64   `json:"ti"`
	DS  [][]float64 `json:"ds"`
}

// ApplyResult is a new topic list with decoded values written in.
type ApplyResult struct {
	Topics  []prefs.Topic
	Applied int
}

type Codec struct {
	index *starter.Index
}

func NewCodec(index *starter.Index) *Codec {
	return &Codec{index: index}
}

func (c *Codec) PackID() string { return c.index.PackID() }

func (c *Codec) Index() *starter.Index { return c.index }

// Encode builds the sparse payload for topics.
func (c *Codec) Encode(topics []prefs.Topic) (string, error) {
	payload := Payload{
		V:   c.index.PackID(),
		TIP: make([][2]int, 0),
		DSP: make([][3]int, 0),
	}

	for t := 0; t < c.index.TopicCount(); t++ {
		ti, ok := c.index.ResolveTopic(topics, t)
		if !ok {
			continue
		}
		topic := topics[ti]
		if importance := prefs.Clamp(topic.Importance); importance > 0 {
			payload.TIP = append(payload.TIP, [2]int{t, importance})
		}
		for d := 0; d < c.index.DirectionCount(t); d++ {
			di, ok := c.index.ResolveDirection(topic.Directions, t, d)
			if !ok {
				continue
			}
			if stars := prefs.Clamp(topic.Directions[di].Stars); stars > 0 {
				payload.DSP = append(payload.DSP, [3]int{t, d, stars})
			}
		}
	}

	return marshalPayload(payload)
}

// EncodeDense builds the legacy dense payload for topics. Coordinates with no
// matching topic or direction encode as 0.
func (c *Codec) EncodeDense(topics []prefs.Topic) (string, error) {
	ti, ds := c.expand(nil)
	for t := range ti {
		idx, ok := c.index.ResolveTopic(topics, t)
		if !ok {
			continue
		}
		topic := topics[idx]
		ti[t] = prefs.Clamp(topic.Importance)
		for d := range ds[t] {
			if di, ok := c.index.ResolveDirection(topic.Directions, t, d); ok {
				ds[t][d] = prefs.Clamp(topic.Directions[di].Stars)
			}
		}
	}
	return marshalPayload(densePayload{V: c.index.PackID(), TI: ti, DS: ds})
}

func marshalPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding share payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode parses an encoded payload of either shape. Any error means the
// payload carries no usable state.
func (c *Codec) Decode(encoded string) (*Payload, error) {
	data, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var wire wirePayload
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if wire.V != c.index.PackID() {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrPackMismatch, wire.V, c.index.PackID())
	}

	if wire.TIP == nil && wire.DSP == nil && (wire.TI != nil || wire.DS != nil) {
		return fromDense(wire), nil
	}
	return fromSparse(wire), nil
}

// DecodeURL extracts the share fragment from rawURL and decodes it.
func (c *Codec) DecodeURL(rawURL string) (*Payload, error) {
	fragment, ok := ExtractFragment(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: no share fragment", ErrMalformedPayload)
	}
	return c.Decode(fragment.Payload)
}

// decodeBase64 accepts url-safe or standard alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	if s == "" {
		return nil, errors.New("empty payload")
	}
	return base64.RawURLEncoding.DecodeString(s)
}

func fromSparse(wire wirePayload) *Payload {
	p := &Payload{V: wire.V, TIP: make([][2]int, 0, len(wire.TIP)), DSP: make([][3]int, 0, len(wire.DSP))}
	for _, tuple := range wire.TIP {
		if len(tuple) != 2 {
			continue
		}
		t, ok := coordinate(tuple[0])
		if !ok {
			continue
		}
		if v := clampValue(tuple[1]); v > 0 {
			p.TIP = append(p.TIP, [2]int{t, v})
		}
	}
	for _, tuple := range wire.DSP {
		if len(tuple) != 3 {
			continue
		}
		t, okT := coordinate(tuple[0])
		d, okD := coordinate(tuple[1])
		if !okT || !okD {
			continue
		}
		if v := clampValue(tuple[2]); v > 0 {
			p.DSP = append(p.DSP, [3]int{t, d, v})
		}
	}
	return p
}

func fromDense(wire wirePayload) *Payload {
	p := &Payload{V: wire.V, TIP: make([][2]int, 0), DSP: make([][3]int, 0)}
	for t, value := range wire.TI {
		if v := clampValue(value); v > 0 {
			p.TIP = append(p.TIP, [2]int{t, v})
		}
	}
	for t, row := range wire.DS {
		for d, value := range row {
			if v := clampValue(value); v > 0 {
				p.DSP = append(p.DSP, [3]int{t, d, v})
			}
		}
	}
	return p
}

func coordinate(f float64) (int, bool) {
	if math.IsNaN(f) || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func clampValue(f float64) int {
	if math.IsNaN(f) || f <= prefs.MinRating {
		return prefs.MinRating
	}
	if f >= prefs.MaxRating {
		return prefs.MaxRating
	}
	return int(math.Round(f))
}

// expand returns zeroed dense arrays shaped like the index, filled from p when
// p is non-nil. Coordinates outside the index are ignored.
func (c *Codec) expand(p *Payload) ([]int, [][]int) {
	ti := make([]int, c.index.TopicCount())
	ds := make([][]int, c.index.TopicCount())
	for t := range ds {
		ds[t] = make([]int, c.index.DirectionCount(t))
	}
	if p == nil {
		return ti, ds
	}
	for _, tuple := range p.TIP {
		if c.index.ValidTopic(tuple[0]) {
			ti[tuple[0]] = prefs.Clamp(tuple[1])
		}
	}
	for _, tuple := range p.DSP {
		if c.index.ValidDirection(tuple[0], tuple[1]) {
			ds[tuple[0]][tuple[1]] = prefs.Clamp(tuple[2])
		}
	}
	return ti, ds
}

// Apply writes the decoded values onto a copy of topics. Every topic that
// resolves to an index coordinate takes its importance and direction stars
// from the payload, 0 where the payload is silent. Other topics pass through.
func (c *Codec) Apply(p *Payload, topics []prefs.Topic) ApplyResult {
	out := prefs.CloneTopics(topics)
	if p == nil {
		return ApplyResult{Topics: out}
	}

	ti, ds := c.expand(p)
	applied := 0
	for t := range ti {
		idx, ok := c.index.ResolveTopic(out, t)
		if !ok {
			continue
		}
		topic := &out[idx]
		changed := false
		if topic.Importance != ti[t] {
			topic.Importance = ti[t]
			changed = true
		}
		for d := range ds[t] {
			di, ok := c.index.ResolveDirection(topic.Directions, t, d)
			if !ok {
				continue
			}
			if topic.Directions[di].Stars != ds[t][d] {
				topic.Directions[di].Stars = ds[t][d]
				changed = true
			}
		}
		if changed {
			applied++
		}
	}

	return ApplyResult{Topics: out, Applied: applied}
}
