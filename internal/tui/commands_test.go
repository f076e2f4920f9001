package tui

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hilthontt/codeboard/internal/client"
	"github.com/hilthontt/codeboard/internal/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		doc  string
		want []client.Event
	}{
		{"hello there", "", []client.Event{client.SendChat{Text: "hello there"}}},
		{"/code int main() {}", "", []client.Event{client.LocalEdit{Text: "int main() {}", Caret: 13}}},
		{`/code a\nb`, "", []client.Event{client.LocalEdit{Text: "a\nb", Caret: 3}}},
		{"/append y", "x", []client.Event{client.LocalEdit{Text: "x\ny", Caret: 3}}},
		{"/append é", "", []client.Event{client.LocalEdit{Text: "é", Caret: 1}}},
		{"/lang python", "", []client.Event{client.LocalLanguage{Language: "python"}}},
		{"/tool rect", "", []client.Event{client.SelectTool{Tool: domain.ToolRect}}},
		{"/color #ff0000", "", []client.Event{client.SelectColor{Color: "#ff0000"}}},
		{"/draw 0 0 10 5", "", []client.Event{
			client.PointerDown{X: 0, Y: 0},
			client.PointerMove{X: 10, Y: 5},
			client.PointerUp{X: 10, Y: 5},
		}},
		{"/pan 5 -5", "", []client.Event{
			client.PointerDown{Pan: true},
			client.PointerMove{X: 5, Y: -5},
			client.PointerUp{X: 5, Y: -5},
		}},
		{"/zoom -100", "", []client.Event{client.Wheel{DeltaY: -100}}},
		{"/undo", "", []client.Event{client.UndoRequest{}}},
		{"/redo", "", []client.Event{client.RedoRequest{}}},
		{"/clear", "", []client.Event{client.ClearRequest{}}},
		{"/invite bo", "", []client.Event{client.SendInvite{To: "bo"}}},
		{"/dismiss", "", []client.Event{client.DismissInvite{}}},
		{"/terminate", "", []client.Event{client.TerminateRequest{}}},
	}

	for _, tt := range tests {
		got, err := parseCommand(tt.line, tt.doc)
		if err != nil {
			t.Fatalf("%q: %v", tt.line, err)
		}
		if !reflect.DeepEqual(got.events, tt.want) {
			t.Fatalf("%q: events = %#v, want %#v", tt.line, got.events, tt.want)
		}
	}
}

func TestParseCommandFlags(t *testing.T) {
	if c, _ := parseCommand("/run", ""); !c.run {
		t.Fatal("/run should request a run")
	}
	if c, _ := parseCommand("/quit", ""); !c.quit {
		t.Fatal("/quit should quit")
	}
	if c, _ := parseCommand("   ", ""); c.run || c.quit || len(c.events) != 0 {
		t.Fatalf("blank line = %+v", c)
	}
}

func TestParseCommandErrors(t *testing.T) {
	if _, err := parseCommand("/tool spray", ""); !errors.Is(err, domain.ErrInvalidTool) {
		t.Fatalf("err = %v", err)
	}
	for _, line := range []string{"/draw 1 2 3", "/pan x y", "/zoom", "/lang", "/color"} {
		if _, err := parseCommand(line, ""); !errors.Is(err, errUsage) {
			t.Fatalf("%q: err = %v", line, err)
		}
	}
	if _, err := parseCommand("/nope", ""); err == nil {
		t.Fatal("unknown command should fail")
	}
}
