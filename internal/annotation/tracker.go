// Package annotation keeps classified word marks aligned with a buffer that
// is being edited.
package annotation

import (
	"sort"

	"github.com/valpere/edithints/internal/oracle"
	"github.com/valpere/edithints/internal/segment"
)

// Mark is a classified span [Start, End) of the edit buffer, in runes.
// Only the offsets ever change after creation.
type Mark struct {
	Start int                   `json:"start"`
	End   int                   `json:"end"`
	Class oracle.Classification `json:"class"`
}

// Edit is one atomic buffer mutation: Deleted runes are removed at Offset,
// then Inserted runes are added there.
type Edit struct {
	Offset   int `json:"offset" yaml:"offset"`
	Inserted int `json:"inserted" yaml:"inserted"`
	Deleted  int `json:"deleted" yaml:"deleted"`
}

type State int

const (
	Empty State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "empty"
}

// Tracker holds the marks of the latest accepted recommendation pass.
// It is not safe for concurrent use.
type Tracker struct {
	marks []Mark
	epoch uint64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) State() State {
	if len(t.marks) == 0 {
		return Empty
	}
	return Active
}

// Epoch returns the epoch of the newest pass accepted so far.
func (t *Tracker) Epoch() uint64 {
	return t.epoch
}

// Marks returns a copy of the live marks ordered by Start.
func (t *Tracker) Marks() []Mark {
	out := make([]Mark, len(t.marks))
	copy(out, t.marks)
	return out
}

// Recompute replaces every mark with one mark per word whose class is not
// None. A result older than the current epoch is discarded and Recompute
// returns false.
func (t *Tracker) Recompute(classes []oracle.Classification, words []segment.Word, epoch uint64) bool {
	if epoch < t.epoch {
		return false
	}
	t.epoch = epoch
	t.marks = t.marks[:0]
	for i, c := range classes {
		if c == oracle.None || i >= len(words) {
			continue
		}
		t.marks = append(t.marks, Mark{Start: words[i].Offset, End: words[i].End(), Class: c})
	}
	sort.SliceStable(t.marks, func(i, j int) bool { return t.marks[i].Start < t.marks[j].Start })
	return true
}

// ApplyInsert accounts for n runes inserted at offset. Marks after the
// insertion point shift right. An insertion at or inside a mark drops it.
func (t *Tracker) ApplyInsert(offset, n int) {
	if n <= 0 {
		return
	}
	t.filter(func(m *Mark) bool {
		switch {
		case offset > m.End-1:
		case offset >= m.Start:
			return false
		default:
			m.Start += n
			m.End += n
		}
		return true
	})
}

// ApplyDelete accounts for n runes removed starting at offset. Marks after
// the range shift left, marks overlapping it are dropped.
func (t *Tracker) ApplyDelete(offset, n int) {
	if n <= 0 {
		return
	}
	t.filter(func(m *Mark) bool {
		switch {
		case m.Start >= offset+n:
			m.Start -= n
			m.End -= n
		case m.End <= offset:
		default:
			return false
		}
		return true
	})
}

// Apply applies a replacement edit as a deletion followed by an insertion.
func (t *Tracker) Apply(e Edit) {
	t.ApplyDelete(e.Offset, e.Deleted)
	t.ApplyInsert(e.Offset, e.Inserted)
}

// Clear drops every mark. The epoch watermark is kept so that results of
// older passes stay stale.
func (t *Tracker) Clear() {
	t.marks = nil
}

// AdvanceEpoch raises the watermark, making every pass up to epoch stale.
func (t *Tracker) AdvanceEpoch(epoch uint64) {
	if epoch > t.epoch {
		t.epoch = epoch
	}
}

func (t *Tracker) filter(keep func(m *Mark) bool) {
	out := t.marks[:0]
	for i := range t.marks {
		m := t.marks[i]
		if keep(&m) {
			out = append(out, m)
		}
	}
	t.marks = out
}
