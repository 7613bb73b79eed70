package game

import (
	"fmt"

	"github.com/muesli/reflow/wordwrap"
)

const logWrapWidth = 80

// Log collects in-game messages shown to the player. Entries are wrapped for
// an 80-column display when added.
type Log struct {
	lines []string
}

func NewLog() *Log {
	return &Log{}
}

// Addf formats and records one message.
func (l *Log) Addf(format string, args ...any) {
	l.lines = append(l.lines, wordwrap.String(fmt.Sprintf(format, args...), logWrapWidth))
}

// Lines returns all recorded messages, oldest first.
func (l *Log) Lines() []string {
	return l.lines
}
