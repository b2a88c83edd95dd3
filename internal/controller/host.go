package controller

import (
	"github.com/valpere/edithints/internal/annotation"
	"github.com/valpere/edithints/internal/oracle"
	"github.com/valpere/edithints/internal/segment"
	"github.com/valpere/edithints/internal/translator"
)

// Match is the translation-memory match the user selected.
type Match struct {
	Index       int
	Source      string
	Translation string
}

// Host is what the editor exposes to the controller.
type Host interface {
	// ActiveMatch returns the selected match, if any.
	ActiveMatch() (Match, bool)
	// ActiveSourceText returns the source sentence of the active entry.
	ActiveSourceText() string
}

// Sink receives the full mark set after every change.
type Sink interface {
	Render(marks []annotation.Mark)
}

// MatchPainter is optionally implemented by a Sink that can also color the
// words of the match pane.
type MatchPainter interface {
	PaintMatch(match Match, words []segment.Word, classes []oracle.Classification)
	ClearMatch()
}

// Event is anything the controller loop consumes.
type Event interface {
	event()
}

// EntryActivated reports that the user moved to another entry.
type EntryActivated struct{}

// MatchSelectionChanged reports that another match became active.
type MatchSelectionChanged struct {
	Index int
}

// ProviderSetChanged replaces the set of translation providers.
type ProviderSetChanged struct {
	Providers *translator.Set
}

// FeatureToggled turns hints on or off.
type FeatureToggled struct {
	Enabled bool
}

// EditEvent reports a mutation of the translation buffer.
type EditEvent struct {
	Edit annotation.Edit
}

type passCompleted struct {
	epoch  uint64
	result Result
	err    error
}

func (EntryActivated) event()        {}
func (MatchSelectionChanged) event() {}
func (ProviderSetChanged) event()    {}
func (FeatureToggled) event()        {}
func (EditEvent) event()             {}
func (passCompleted) event()         {}
