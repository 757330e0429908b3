// Package trace records which rule fired against which value during a
// rewrite pass, for later inspection or replay: a mutex-guarded table
// of applied rewrites plus gob-based checkpoint persistence.
package trace

import (
	"encoding/gob"
	"os"
	"sort"
	"sync"

	"github.com/oisee/ssa-rewrite/pkg/ir"
)

// Entry records that rule fired against a value, replacing it with a
// new value, or deleting it when Deleted is set (Replacement then holds
// the deleted value's own ID).
type Entry struct {
	Namespace   string
	Rule        string
	Value       ir.ValueID
	Op          ir.Opcode
	Replacement ir.ValueID
	Deleted     bool
}

func init() {
	gob.Register(Entry{})
}

// Log is a concurrency-safe append-only record of rule firings: every
// installed equivalence is attributable to the rule that installed it.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog creates an empty trace log.
func NewLog() *Log { return &Log{} }

// Record appends an entry. Safe to call from multiple goroutines
// driving independent functions concurrently.
func (l *Log) Record(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the log, ordered by Value then by the
// order recorded (stable sort preserves firing order within a value).
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Save persists the log to path via gob, so a long-running batch of
// functions can checkpoint its trace incrementally.
func (l *Log) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(l.Entries())
}

// Load reads a previously saved trace log.
func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var entries []Entry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return nil, err
	}
	return &Log{entries: entries}, nil
}
