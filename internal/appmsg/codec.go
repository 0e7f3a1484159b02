package appmsg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotObject is returned when a payload is not a JSON object.
var ErrNotObject = errors.New("appmsg: payload is not a JSON object")

// Decode parses a message payload. Only a payload that is not a JSON object
// is an error; known keys with non-integer values are skipped and listed in
// Update.Malformed.
func Decode(data []byte) (*Update, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, ErrNotObject
	}

	u := &Update{}
	for _, key := range Keys() {
		v, ok := raw[key]
		if !ok {
			continue
		}
		n, err := decodeInt(v)
		if err != nil {
			u.Malformed = append(u.Malformed, key)
			continue
		}
		u.Set(key, n)
	}
	return u, nil
}

// errNotInteger marks a value that is not a bare JSON number.
var errNotInteger = errors.New("appmsg: value is not an integer")

func decodeInt(v json.RawMessage) (int64, error) {
	// json.Number also accepts quoted digits.
	if t := bytes.TrimLeft(v, " \t\r\n"); len(t) == 0 || t[0] == '"' {
		return 0, errNotInteger
	}
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err != nil {
		return 0, err
	}
	return num.Int64()
}

// Message is an outbound message: key to integer value.
type Message map[string]int64

// SetColor stores a color field as a packed 0xRRGGBB integer.
func (m Message) SetColor(key string, hex int32) {
	m[key] = int64(hex)
}

// SetFlag stores a boolean field as 1 or 0.
func (m Message) SetFlag(key string, v bool) {
	if v {
		m[key] = 1
	} else {
		m[key] = 0
	}
}

// Keys returns the message keys in sorted order.
func (m Message) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode serialises the message as a JSON object.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(map[string]int64(m))
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}

// Ack is the watch's reply to one message.
type Ack struct {
	Status  string   `json:"status"`
	Applied []string `json:"applied,omitempty"`
	Ignored []string `json:"ignored,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Ack statuses.
const (
	StatusAck  = "ack"
	StatusNack = "nack"
)

// OK reports whether the message was accepted.
func (a *Ack) OK() bool {
	return a.Status == StatusAck
}
