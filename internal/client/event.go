package client

import (
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/protocol"
)

// Event is anything that can change a Session: frames from the hub, local
// input, the debounce timer and connection changes.
type Event interface {
	event()
}

type (
	Remote struct {
		Msg protocol.Message
	}
	Connected    struct{}
	Disconnected struct {
		Err error
	}
	FlushDue struct{}

	LocalEdit struct {
		Text  string
		Caret int
	}
	LocalLanguage struct {
		Language string
	}

	// Pointer positions are screen coordinates.
	PointerDown struct {
		X, Y float64
		Pan  bool
	}
	PointerMove struct {
		X, Y float64
	}
	PointerUp struct {
		X, Y float64
	}
	Wheel struct {
		X, Y   float64
		DeltaY float64
	}
	SelectTool struct {
		Tool domain.Tool
	}
	SelectColor struct {
		Color string
	}

	UndoRequest  struct{}
	RedoRequest  struct{}
	ClearRequest struct{}

	SendChat struct {
		Text string
		At   time.Time
	}
	SendInvite struct {
		To string
	}
	DismissInvite    struct{}
	TerminateRequest struct{}

	// RunFinished shares an execution result with the room.
	RunFinished struct {
		Output string
		Time   float64
	}
)

func (Remote) event()           {}
func (Connected) event()        {}
func (Disconnected) event()     {}
func (FlushDue) event()         {}
func (LocalEdit) event()        {}
func (LocalLanguage) event()    {}
func (PointerDown) event()      {}
func (PointerMove) event()      {}
func (PointerUp) event()        {}
func (Wheel) event()            {}
func (SelectTool) event()       {}
func (SelectColor) event()      {}
func (UndoRequest) event()      {}
func (RedoRequest) event()      {}
func (ClearRequest) event()     {}
func (SendChat) event()         {}
func (SendInvite) event()       {}
func (DismissInvite) event()    {}
func (TerminateRequest) event() {}
func (RunFinished) event()      {}
