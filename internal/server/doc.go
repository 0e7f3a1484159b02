// Package server implements the watch side of the settings sync channel.
//
// The companion connects to the /sync WebSocket endpoint and sends one JSON
// object per message. Each object maps configuration keys to integers:
//
//	{"BackgroundColor": 16711680, "showMonth": 1, "useMil": 0}
//
// Every message is decoded, handed to the Dispatcher, and answered with an
// acknowledgement:
//
//	{"status": "ack", "applied": ["BackgroundColor", "showMonth", "useMil"]}
//	{"status": "nack", "error": "appmsg: payload is not a JSON object"}
//
// Keys whose values are not integers are reported under "ignored" and leave
// the stored setting unchanged.
//
// # Threading
//
// Connections are served on their own goroutines. The server never touches
// watchface state directly: the Dispatcher is expected to hand the update to
// the UI event loop and wait for the result.
//
// # Other endpoints
//
// GET /healthz answers 200 with a small JSON document describing the watch,
// which the companion uses to confirm it found the right device.
//
// # Capture
//
// When Config.AnalysisDir is set every received payload is appended to a
// capture-<timestamp>.jsonl file in that directory.
package server
