package game

import "fmt"

const killFeedEntries = 6

// HUDNotifier receives fire-and-forget UI notifications from the core.
// Implementations must never block or return errors into the simulation.
type HUDNotifier interface {
	HealthChanged(health, max float64)
	AmmoChanged(mag, reserve int)
	HitLanded()
	KillOccurred(killer, victim string)
}

// nopHUD satisfies HUDNotifier for headless runs.
type nopHUD struct{}

func (nopHUD) HealthChanged(float64, float64) {}
func (nopHUD) AmmoChanged(int, int)           {}
func (nopHUD) HitLanded()                     {}
func (nopHUD) KillOccurred(string, string)    {}

// FeedEntry is one line of the on-screen kill feed.
type FeedEntry struct {
	Tick int
	Text string
}

// HUDState is the ebiten-facing notifier: a kill-feed ring buffer plus the
// latest readout values and a hit-marker timer for the draw pass.
type HUDState struct {
	Health, MaxHealth float64
	Mag, Reserve      int
	hitMarkerUntil    int

	feed  [killFeedEntries]FeedEntry
	head  int
	count int
	tick  func() int
}

// NewHUDState creates a HUD bound to a tick source.
func NewHUDState(tick func() int) *HUDState {
	return &HUDState{tick: tick}
}

func (h *HUDState) HealthChanged(health, max float64) {
	h.Health, h.MaxHealth = health, max
}

func (h *HUDState) AmmoChanged(mag, reserve int) {
	h.Mag, h.Reserve = mag, reserve
}

func (h *HUDState) HitLanded() {
	h.hitMarkerUntil = h.tick() + 8
}

func (h *HUDState) KillOccurred(killer, victim string) {
	h.feed[h.head] = FeedEntry{
		Tick: h.tick(),
		Text: fmt.Sprintf("%s > %s", killer, victim),
	}
	h.head = (h.head + 1) % killFeedEntries
	if h.count < killFeedEntries {
		h.count++
	}
}

// HitMarkerActive reports whether the hit marker should be drawn.
func (h *HUDState) HitMarkerActive() bool {
	return h.tick() < h.hitMarkerUntil
}

// Feed returns kill feed lines, oldest first.
func (h *HUDState) Feed() []FeedEntry {
	out := make([]FeedEntry, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.feed[(h.head-h.count+i+killFeedEntries)%killFeedEntries]
	}
	return out
}
