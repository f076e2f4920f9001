package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hilthontt/codeboard/internal/client"
	"github.com/hilthontt/codeboard/internal/infrastructure/executor"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/tui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "codeboard server base URL")
	room := flag.String("room", "", "room to join")
	name := flag.String("name", "", "display name")
	create := flag.Bool("create", false, "create the room if it does not exist")
	debounce := flag.Duration("debounce", client.DefaultDebounce, "document send delay")
	logDir := flag.String("log-dir", "./logs/", "directory for the client log")
	flag.Parse()

	if *room == "" {
		fmt.Fprintln(os.Stderr, "-room is required")
		os.Exit(2)
	}

	wsURL, err := roomURL(*server, *room)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		FilePath: *logDir,
		Encoding: "json",
		Level:    "info",
		Logger:   "zap",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	session := client.NewSession(*room, *name, *create)
	rec := client.NewReconciler(session, *debounce, logger)
	runner := executor.NewClient(strings.TrimRight(*server, "/")+"/api/run", 30*time.Second)

	if err := tui.Run(context.Background(), rec, wsURL, runner); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}

// roomURL maps an http(s) base URL to the room's websocket endpoint.
func roomURL(server, room string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/ws/" + url.PathEscape(room)
	return u.String(), nil
}
