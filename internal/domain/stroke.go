package domain

// StrokeBatcher groups freehand segments into strokes so that one undo
// removes one gesture. It owns the undo history and redo stack for a room's
// ShapeLog. Like the log, it relies on its owner for serialization.
type StrokeBatcher struct {
	log     *ShapeLog
	pending map[string]int
	history []int
	total   int
	redo    [][]Shape
}

func NewStrokeBatcher(log *ShapeLog) *StrokeBatcher {
	return &StrokeBatcher{
		log:     log,
		pending: make(map[string]int),
		history: make([]int, 0, 64),
		redo:    make([][]Shape, 0, 16),
	}
}

// Draw appends s on behalf of author and returns the new log length. Any
// new draw invalidates pending redo batches. Single-shape tools are their
// own undo unit; segments wait for EndStroke.
func (b *StrokeBatcher) Draw(author string, s Shape) int {
	b.redo = b.redo[:0]
	n := b.log.Append(s)

	if s.Tool.IsSegment() {
		b.pending[author]++
		return n
	}

	b.history = append(b.history, 1)
	b.total++
	return n
}

// EndStroke closes author's current gesture and records it as one undo
// unit. It returns the recorded segment count, zero when nothing was drawn.
func (b *StrokeBatcher) EndStroke(author string) int {
	count := b.pending[author]
	delete(b.pending, author)
	if count <= 0 {
		return 0
	}

	// segments of this gesture may already be gone through another user's undo
	if free := b.log.Len() - b.total; count > free {
		count = free
	}
	if count <= 0 {
		return 0
	}

	b.history = append(b.history, count)
	b.total += count
	return count
}

// Forget drops author's in-flight gesture bookkeeping, committing whatever
// was drawn so far as a stroke.
func (b *StrokeBatcher) Forget(author string) {
	b.EndStroke(author)
}

// Undo removes the most recent stroke, or the single last shape when no
// stroke is recorded. It returns the removed shapes, nil when the log is
// empty.
func (b *StrokeBatcher) Undo() []Shape {
	count := 1
	if n := len(b.history); n > 0 {
		count = b.history[n-1]
		b.history = b.history[:n-1]
		b.total -= count
	}

	if count > b.log.Len() {
		count = b.log.Len()
	}
	if count == 0 {
		return nil
	}

	removed, err := b.log.PopLastN(count)
	if err != nil {
		return nil
	}

	b.redo = append(b.redo, removed)
	return removed
}

// Redo re-appends the most recently undone batch in its original order and
// records it as one stroke again.
func (b *StrokeBatcher) Redo() []Shape {
	n := len(b.redo)
	if n == 0 {
		return nil
	}

	batch := b.redo[n-1]
	b.redo = b.redo[:n-1]

	for _, s := range batch {
		b.log.Append(s)
	}
	b.history = append(b.history, len(batch))
	b.total += len(batch)

	return batch
}

// Clear empties the log together with all undo and redo state.
func (b *StrokeBatcher) Clear() {
	b.log.Clear()
	b.history = b.history[:0]
	b.total = 0
	b.redo = b.redo[:0]
	clear(b.pending)
}

func (b *StrokeBatcher) CanUndo() bool {
	return b.log.Len() > 0
}

func (b *StrokeBatcher) CanRedo() bool {
	return len(b.redo) > 0
}

// Strokes returns the recorded stroke sizes, oldest first.
func (b *StrokeBatcher) Strokes() []int {
	out := make([]int, len(b.history))
	copy(out, b.history)
	return out
}
