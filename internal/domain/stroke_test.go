package domain

import (
	"reflect"
	"testing"
)

func drawStroke(b *StrokeBatcher, author string, k int, start float64) {
	for i := 0; i < k; i++ {
		b.Draw(author, seg(start+float64(i)))
	}
	b.EndStroke(author)
}

func TestUndoRemovesWholeStroke(t *testing.T) {
	for _, k := range []int{1, 2, 7, 40} {
		log := NewShapeLog()
		b := NewStrokeBatcher(log)

		drawStroke(b, "a", 3, 0)
		drawStroke(b, "a", k, 100)

		removed := b.Undo()
		if len(removed) != k {
			t.Fatalf("k=%d: undo removed %d shapes", k, len(removed))
		}
		if log.Len() != 3 {
			t.Fatalf("k=%d: log len = %d, want 3", k, log.Len())
		}
	}
}

func TestUndoThenRedoRestoresLog(t *testing.T) {
	log := NewShapeLog()
	b := NewStrokeBatcher(log)

	drawStroke(b, "a", 4, 0)
	b.Draw("b", Shape{Tool: ToolRect, X0: 10, Y0: 10, X1: 50, Y1: 40})
	drawStroke(b, "a", 5, 50)

	before := log.Snapshot()

	b.Undo()
	b.Redo()

	if got := log.Snapshot(); !reflect.DeepEqual(got, before) {
		t.Fatalf("log after undo+redo differs\n got %+v\nwant %+v", got, before)
	}

	// the redone batch is again one undo unit
	if removed := b.Undo(); len(removed) != 5 {
		t.Fatalf("second undo removed %d, want 5", len(removed))
	}
}

func TestSingleShapeIsOwnUndoUnit(t *testing.T) {
	log := NewShapeLog()
	b := NewStrokeBatcher(log)

	drawStroke(b, "a", 6, 0)
	b.Draw("a", Shape{Tool: ToolCircle})

	if removed := b.Undo(); len(removed) != 1 || removed[0].Tool != ToolCircle {
		t.Fatalf("undo removed %+v, want the circle", removed)
	}
	if removed := b.Undo(); len(removed) != 6 {
		t.Fatalf("undo removed %d, want 6", len(removed))
	}
}

func TestUndoDefaultsToOneShape(t *testing.T) {
	log := NewShapeLog()
	b := NewStrokeBatcher(log)

	// segments without a closing pointer-up are not a recorded stroke yet
	b.Draw("a", seg(1))
	b.Draw("a", seg(2))

	if removed := b.Undo(); len(removed) != 1 {
		t.Fatalf("undo removed %d, want 1", len(removed))
	}
	if got := b.EndStroke("a"); got != 1 {
		t.Fatalf("EndStroke recorded %d, want 1 (clamped to what is left)", got)
	}
}

func TestNewDrawClearsRedo(t *testing.T) {
	log := NewShapeLog()
	b := NewStrokeBatcher(log)

	drawStroke(b, "a", 2, 0)
	b.Undo()
	if !b.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	b.Draw("b", seg(9))
	if b.CanRedo() {
		t.Fatal("redo survived a new draw")
	}
	if got := b.Redo(); got != nil {
		t.Fatalf("redo returned %+v", got)
	}
}

func TestClearWipesHistory(t *testing.T) {
	log := NewShapeLog()
	b := NewStrokeBatcher(log)

	drawStroke(b, "a", 3, 0)
	drawStroke(b, "a", 3, 10)
	b.Undo()
	b.Clear()

	if log.Len() != 0 {
		t.Fatalf("log len = %d after clear", log.Len())
	}
	if b.CanRedo() || len(b.Strokes()) != 0 {
		t.Fatal("history survived clear")
	}
	if removed := b.Undo(); removed != nil {
		t.Fatalf("undo after clear removed %+v", removed)
	}
}

func TestStrokeHistoryNeverExceedsLog(t *testing.T) {
	log := NewShapeLog()
	b := NewStrokeBatcher(log)

	b.Draw("a", seg(0))
	b.Draw("a", seg(1))
	b.Draw("a", seg(2))
	b.Draw("b", Shape{Tool: ToolLine})
	b.Undo() // removes b's line
	b.Undo() // history empty: removes a's last segment
	b.EndStroke("a")

	sum := 0
	for _, c := range b.Strokes() {
		sum += c
	}
	if sum > log.Len() {
		t.Fatalf("stroke history %d exceeds log length %d", sum, log.Len())
	}
}

func TestForgetCommitsPendingStroke(t *testing.T) {
	log := NewShapeLog()
	b := NewStrokeBatcher(log)

	b.Draw("a", seg(0))
	b.Draw("a", seg(1))
	b.Forget("a")

	if got := b.Strokes(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("strokes = %v, want [2]", got)
	}
}
