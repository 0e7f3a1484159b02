// Package discovery finds and announces watchfaces on the local network
// over mDNS.
//
// A running watchface registers itself as a "_watchface._tcp" service in
// the "local." domain. Its TXT record carries:
//
//	path=/sync       WebSocket endpoint for settings sync
//	platform=basalt  emulated hardware platform
//	version=1.0.0    watchface build version
//	tls=0            1 when the endpoint expects wss://
//
// The companion browses for that service type and turns each entry into a
// Watch:
//
//	scanner := discovery.NewScanner()
//	watches, err := scanner.ScanForWatches()
//	for _, w := range watches {
//	    fmt.Println(w, w.SyncURL())
//	}
package discovery
