// Command observer joins a running session as a spectator and prints
// the replicated game as it unfolds. It is a working example of the
// client replica: it holds no seat, sends nothing, and still ends up
// with the same state as every player.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/landsraad/dune-server-go/internal/client"
	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game"
	"github.com/landsraad/dune-server-go/internal/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	session := flag.String("session", "", "session id to observe; empty creates a new one")
	loopToSetup := flag.Bool("loop-to-setup", false, "must match the server's game.loop_to_setup")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	id := *session
	if id == "" {
		id, err = createSession(*addr)
		if err != nil {
			logger.Fatal("failed to create session", zap.Error(err))
		}
		logger.Info("created session", zap.String("session", id))
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws", RawQuery: "session=" + url.QueryEscape(id)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Fatal("failed to connect", zap.String("url", u.String()), zap.Error(err))
	}
	defer conn.Close()

	replica := client.NewReplica(data.Load(), *loopToSetup, logger)
	replica.OnControl(func(msg protocol.ControlMessage) {
		logger.Info("control", zap.String("type", string(msg.Type)))
	})
	replica.OnEvent(func(ev game.GameEvent) {
		st := replica.State()
		logger.Info("event",
			zap.String("kind", string(ev.Kind)),
			zap.String("phase", st.Phase.String()),
			zap.Int("turn", st.Turn),
			zap.String("active", string(st.Active)),
		)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				logger.Info("connection closed", zap.Error(err))
				return
			}
			if err := replica.HandleMessage(raw); err != nil {
				logger.Error("replica cannot continue", zap.Error(err))
				return
			}
			if st := replica.State(); st.Winner != "" {
				logger.Info("game over",
					zap.String("winner", string(st.Winner)),
					zap.String("checksum", st.ComputeChecksum().Hash),
				)
			}
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-interrupt:
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		<-done
	}
}

func createSession(addr string) (string, error) {
	resp, err := http.Post("http://"+addr+"/sessions", "application/json", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.SessionID, nil
}
