package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded simulation event.
type SimLogEntry struct {
	Tick     int
	Entity   string  // label e.g. "P", "B2", or "--" for global events
	Team     string  // "red", "blue", or "--"
	Category string  // goal, move, combat, weapon, item, state, mode
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] B2   goal    change          attack
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-8s %-16s %s",
		e.Tick, e.Entity, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a match. It is unbounded and
// machine-readable, unlike the HUD kill feed which is a display ring
// buffer. Headless runs and tests query it; the windowed reporter
// consumes it for aggregate stats.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. Verbose mode additionally records per-tick
// position and speed entries.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, entity, team, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Entity:   entity,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, entity, team, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, entity, team, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

// Filter returns entries matching the category and/or key; empty string
// matches anything.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterEntity returns entries for a specific entity label.
func (sl *SimLog) FilterEntity(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Entity == label {
			out = append(out, e)
		}
	}
	return out
}

// Dump renders all entries as one multi-line string.
func (sl *SimLog) Dump() string {
	var b strings.Builder
	for _, e := range sl.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func teamName(team int) string {
	switch team {
	case 0:
		return "red"
	case 1:
		return "blue"
	default:
		return fmt.Sprintf("t%d", team)
	}
}
