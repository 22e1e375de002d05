package viewer

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	statusMaxEntries = 8
	statusLineHeight = 14
	statusPadding    = 6
)

// StatusKind classifies a status line for colouring.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusError
)

// StatusEntry is a single line in the status log. Repeat counts identical
// messages that arrived back to back; Frame is the latest of them.
type StatusEntry struct {
	Frame   int
	Kind    StatusKind
	Message string
	Repeat  int
}

// StatusLog keeps the newest worker errors and notices, oldest first.
type StatusLog struct {
	entries []StatusEntry
	errors  int
}

// NewStatusLog creates an empty status log.
func NewStatusLog() *StatusLog {
	return &StatusLog{entries: make([]StatusEntry, 0, statusMaxEntries)}
}

// Add records msg. A repeat of the newest line bumps its count instead of
// taking a slot, so a burst of busy rejections does not flush older lines.
func (sl *StatusLog) Add(frame int, kind StatusKind, msg string) {
	if kind == StatusError {
		sl.errors++
	}
	if n := len(sl.entries); n > 0 {
		last := &sl.entries[n-1]
		if last.Kind == kind && last.Message == msg {
			last.Repeat++
			last.Frame = frame
			return
		}
	}
	if len(sl.entries) == statusMaxEntries {
		sl.entries = append(sl.entries[:0], sl.entries[1:]...)
	}
	sl.entries = append(sl.entries, StatusEntry{Frame: frame, Kind: kind, Message: msg, Repeat: 1})
}

// Recent returns a copy of the stored lines, oldest first.
func (sl *StatusLog) Recent() []StatusEntry { return slices.Clone(sl.entries) }

// Len returns the number of stored lines.
func (sl *StatusLog) Len() int { return len(sl.entries) }

// Errors returns how many errors were ever added, including collapsed repeats.
func (sl *StatusLog) Errors() int { return sl.errors }

// Draw renders the log as a translucent panel along the bottom of the screen.
func (sl *StatusLog) Draw(screen *ebiten.Image, face text.Face, screenW, screenH int) {
	if len(sl.entries) == 0 {
		return
	}
	panelH := len(sl.entries)*statusLineHeight + 2*statusPadding
	top := screenH - panelH
	vector.FillRect(screen, 0, float32(top), float32(screenW), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 200}, false)

	for i, e := range sl.entries {
		col := color.RGBA{R: 180, G: 200, B: 180, A: 255}
		if e.Kind == StatusError {
			col = color.RGBA{R: 255, G: 110, B: 100, A: 255}
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(statusPadding, float64(top+statusPadding+i*statusLineHeight))
		op.ColorScale.ScaleWithColor(col)
		line := fmt.Sprintf("[F=%04d] %s", e.Frame, e.Message)
		if e.Repeat > 1 {
			line += fmt.Sprintf(" (x%d)", e.Repeat)
		}
		text.Draw(screen, line, face, op)
	}
}
