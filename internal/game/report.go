package game

import (
	"fmt"
	"strings"
)

// Reporter summarises a match window from the simulation log and the live
// scoreboard. The front end copies its output to the clipboard on demand;
// the headless runner prints it at exit.
type Reporter struct {
	world     *World
	sinceTick int
}

// NewReporter creates a reporter over the whole match so far.
func NewReporter(w *World) *Reporter {
	return &Reporter{world: w}
}

// MarkWindow starts a fresh reporting window at the current tick.
func (r *Reporter) MarkWindow() {
	r.sinceTick = r.world.tick
}

// windowCounts tallies log entries of one category/key within the window,
// per entity label.
func (r *Reporter) windowCounts(category, key string) map[string]int {
	counts := map[string]int{}
	for _, e := range r.world.simlog.Filter(category, key) {
		if e.Tick >= r.sinceTick {
			counts[e.Entity]++
		}
	}
	return counts
}

// Report renders the current window as a plain-text block.
func (r *Reporter) Report() string {
	w := r.world
	ticks := w.tick - r.sinceTick
	seconds := float64(ticks) * w.cfg.Sim.Dt()

	var b strings.Builder
	fmt.Fprintf(&b, "match report: %s, %.1fs (%d ticks)\n", w.mode.Name(), seconds, ticks)
	b.WriteString(w.mode.Summary())
	b.WriteByte('\n')

	goalChanges := r.windowCounts("goal", "change")
	deaths := r.windowCounts("state", "death")

	fmt.Fprintf(&b, "%-5s %-5s %6s %7s %5s %6s %6s\n",
		"who", "team", "kills", "deaths", "acc", "shots", "goals")
	for _, line := range w.Scoreboard() {
		fired, hit := shotStats(w, line.Label)
		acc := "-"
		if fired > 0 {
			acc = fmt.Sprintf("%.0f%%", 100*float64(hit)/float64(fired))
		}
		fmt.Fprintf(&b, "%-5s %-5s %6d %7d %5s %6d %6d\n",
			line.Label, line.Team, line.Kills, deaths[line.Label], acc, fired, goalChanges[line.Label])
	}
	return b.String()
}

func shotStats(w *World, label string) (fired, hit int) {
	if w.player != nil && w.player.Label() == label {
		return w.player.ShotsFired, w.player.ShotsHit
	}
	for _, e := range w.enemies {
		if e.Label() == label {
			return e.ShotsFired, e.ShotsHit
		}
	}
	return 0, 0
}
