package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hilthontt/codeboard/internal/client"
	"github.com/hilthontt/codeboard/internal/domain"
)

var errUsage = errors.New("usage")

// command is what one input line asks for.
type command struct {
	events []client.Event
	run    bool
	quit   bool
}

const helpText = "/code TEXT  /append TEXT  /lang L  /tool T  /color C  /draw X0 Y0 X1 Y1  " +
	"/pan DX DY  /zoom D  /undo  /redo  /clear  /invite USER  /dismiss  /terminate  /run  /quit"

// parseCommand turns an input line into session events. Lines without a
// leading slash are chat. doc is the current document text.
func parseCommand(line, doc string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return events(client.SendChat{Text: line}), nil
	}

	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "code":
		text := unescape(rest)
		return events(client.LocalEdit{Text: text, Caret: utf8.RuneCountInString(text)}), nil

	case "append":
		text := doc
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += unescape(rest)
		return events(client.LocalEdit{Text: text, Caret: utf8.RuneCountInString(text)}), nil

	case "lang":
		if rest == "" {
			return command{}, fmt.Errorf("%w: /lang LANGUAGE", errUsage)
		}
		return events(client.LocalLanguage{Language: rest}), nil

	case "tool":
		tool := domain.Tool(rest)
		if !tool.Valid() {
			return command{}, fmt.Errorf("%w: %q", domain.ErrInvalidTool, rest)
		}
		return events(client.SelectTool{Tool: tool}), nil

	case "color":
		if rest == "" {
			return command{}, fmt.Errorf("%w: /color #RRGGBB", errUsage)
		}
		return events(client.SelectColor{Color: rest}), nil

	case "draw":
		p, err := floats(rest, 4)
		if err != nil {
			return command{}, fmt.Errorf("%w: /draw X0 Y0 X1 Y1", errUsage)
		}
		return events(
			client.PointerDown{X: p[0], Y: p[1]},
			client.PointerMove{X: p[2], Y: p[3]},
			client.PointerUp{X: p[2], Y: p[3]},
		), nil

	case "pan":
		p, err := floats(rest, 2)
		if err != nil {
			return command{}, fmt.Errorf("%w: /pan DX DY", errUsage)
		}
		return events(
			client.PointerDown{Pan: true},
			client.PointerMove{X: p[0], Y: p[1]},
			client.PointerUp{X: p[0], Y: p[1]},
		), nil

	case "zoom":
		p, err := floats(rest, 1)
		if err != nil {
			return command{}, fmt.Errorf("%w: /zoom DELTA", errUsage)
		}
		return events(client.Wheel{DeltaY: p[0]}), nil

	case "undo":
		return events(client.UndoRequest{}), nil
	case "redo":
		return events(client.RedoRequest{}), nil
	case "clear":
		return events(client.ClearRequest{}), nil

	case "invite":
		return events(client.SendInvite{To: rest}), nil
	case "dismiss":
		return events(client.DismissInvite{}), nil
	case "terminate":
		return events(client.TerminateRequest{}), nil

	case "run":
		return command{run: true}, nil
	case "quit", "q":
		return command{quit: true}, nil
	}

	return command{}, fmt.Errorf("unknown command /%s", name)
}

func events(evs ...client.Event) command {
	return command{events: evs}
}

func floats(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, errUsage
	}

	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}
