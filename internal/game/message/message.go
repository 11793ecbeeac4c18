// Package message carries narrative text from the combat core to whatever
// layer renders it. The core never formats for display; it only emits
// strings tagged with a mood.
package message

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Mood tags a narrative line with how it should feel to the player.
type Mood int

const (
	Neutral Mood = iota
	Good
	Bad
	Info
	Warning
)

// String returns the lower-case mood name.
func (m Mood) String() string {
	switch m {
	case Good:
		return "good"
	case Bad:
		return "bad"
	case Info:
		return "info"
	case Warning:
		return "warning"
	}
	return "neutral"
}

// Sink accepts narrative lines.
type Sink interface {
	Add(mood Mood, text string)
}

// Addf formats and emits a line to s. A nil sink discards.
func Addf(s Sink, mood Mood, format string, args ...any) {
	if s == nil {
		return
	}
	s.Add(mood, fmt.Sprintf(format, args...))
}

type discard struct{}

func (discard) Add(Mood, string) {}

// Discard is a Sink that drops every line.
var Discard Sink = discard{}

// Entry is one recorded narrative line.
type Entry struct {
	Mood Mood
	Text string
}

// Log is a Sink that records every line in order.
// Log is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// Add records a line.
func (l *Log) Add(mood Mood, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Mood: mood, Text: text})
}

// Entries returns a copy of the recorded lines.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Texts returns the recorded text lines only.
func (l *Log) Texts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Text
	}
	return out
}

// Reset drops every recorded line.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// zapSink writes narrative lines to a structured logger.
type zapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a Sink that logs each line at info level with its mood.
//
// Precondition: logger must be non-nil.
func NewZapSink(logger *zap.Logger) Sink {
	return &zapSink{logger: logger}
}

func (z *zapSink) Add(mood Mood, text string) {
	z.logger.Info(text, zap.Stringer("mood", mood))
}

// Tee fans lines out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return tee(live)
}

type tee []Sink

func (t tee) Add(mood Mood, text string) {
	for _, s := range t {
		s.Add(mood, text)
	}
}
