package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nodewire/flow"
	"github.com/nodewire/flow/metrics"
	"github.com/nodewire/flow/sceneio"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func serveCmd() *cobra.Command {
	var (
		addr string
		fps  int
	)

	cmd := &cobra.Command{
		Use:   "serve <scene>",
		Short: "Stream frames from a scene over websockets",
		Long: `Serve a scene as a websocket JSON frame stream. Every client that
connects to /stream gets its own engine and clock, so streams never
contend and a late joiner starts from time zero.

  flowview serve scene.yaml
  flowview serve scene.yaml --addr :9000 --fps 60

Routes: /stream (websocket), /metrics (Prometheus), /healthz`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			scene, err := sceneio.Load(args[0])
			if err != nil {
				bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if fps < 1 {
				fps = 1
			}

			rec := metrics.New()

			mux := http.NewServeMux()
			mux.HandleFunc("GET /stream", func(w http.ResponseWriter, r *http.Request) {
				streamScene(w, r, scene, rec, fps)
			})
			mux.Handle("GET /metrics", promhttp.Handler())
			mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprintf(w, "{\"status\":\"ok\",\"version\":%q}\n", version)
			})
			srv := &http.Server{Addr: addr, Handler: mux}

			banner("serve")
			fmt.Printf("  Scene:   %s (%d nodes, %d links)\n", args[0], len(scene.Nodes), len(scene.Links))
			fmt.Printf("  Listen:  %s\n", brand.Sprint(addr))
			fmt.Printf("  Clock:   %d fps per client\n", fps)
			fmt.Println("  Routes:  /stream /metrics /healthz")
			fmt.Println()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-shutdown
				fmt.Println()
				srv.Shutdown(context.Background())
			}()

			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				bad.Printf("  Server failed: %v\n", err)
				os.Exit(1)
			}
			good.Printf("  %s Server stopped\n", statusIcon(true))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().IntVar(&fps, "fps", 30, "Frames per second per client")
	return cmd
}

// streamScene runs one client connection: a dedicated engine advanced on
// a ticker, each frame marshaled and pushed as one text message. The
// connection ends when the client goes away or a write fails.
func streamScene(w http.ResponseWriter, r *http.Request, scene *sceneio.Scene, rec flow.Recorder, fps int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	eng, src, err := scene.Engine(flow.WithRecorder(rec))
	if err != nil {
		bad.Printf("  %v\n", err)
		return
	}
	subtle.Printf("  client %s connected\n", r.RemoteAddr)
	defer subtle.Printf("  client %s gone\n", r.RemoteAddr)

	// Reads are drained so close frames from the client are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()

	var enc wireEncoder
	start := time.Now()
	last := start
	for {
		select {
		case <-done:
			return
		case now := <-tick.C:
			elapsed := now.Sub(start).Seconds()
			scene.Animate(src, elapsed)
			f := eng.Advance(flow.Clock{
				Elapsed: elapsed,
				Delta:   now.Sub(last).Seconds(),
				Animate: true,
			})
			last = now
			data, err := json.Marshal(enc.frame(f, elapsed))
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
