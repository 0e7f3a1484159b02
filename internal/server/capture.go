package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/muurk/watchface/internal/appmsg"
)

// Capture is one record read back from a capture file, with its payload
// decoded the way the sync endpoint would decode it.
type Capture struct {
	MessageAnalysis
	Line   int
	Update *appmsg.Update // nil when the payload was rejected
	Err    error
}

// ReadCaptures reads a JSONL capture file written with an analysis
// directory. Lines that are not valid records are returned with Err set.
func ReadCaptures(path string) ([]Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var captures []Capture
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*maxMessageSize)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		c := Capture{Line: line}
		if err := json.Unmarshal(text, &c.MessageAnalysis); err != nil {
			c.Err = fmt.Errorf("line %d: %w", line, err)
			captures = append(captures, c)
			continue
		}

		payload := []byte(c.Payload)
		if len(payload) == 0 {
			payload = []byte(c.PayloadRaw)
		}
		c.Update, c.Err = appmsg.Decode(payload)
		captures = append(captures, c)
	}
	if err := scanner.Err(); err != nil {
		return captures, fmt.Errorf("failed to read capture file: %w", err)
	}
	return captures, nil
}
