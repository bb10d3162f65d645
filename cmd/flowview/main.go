// Command flowview renders, streams and inspects link scenes.
//
// A scene file declares nodes and the links between them; flowview turns
// it into PNG frame sequences, a websocket frame stream with Prometheus
// metrics, or a single JSON frame for debugging. Run `flowview scene
// init` to get a starter file.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
