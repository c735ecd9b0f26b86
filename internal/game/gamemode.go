package game

import (
	"fmt"
	"sort"
	"strings"
)

const waveIntermissionTicks = 300 // 5 seconds between cleared waves

// GameMode scores kills and decides when a match ends. The world reports
// deaths to it directly and consults it before respawning a bot, which is
// how wave survival keeps cleared bots down until the next wave.
type GameMode interface {
	Name() string
	RecordKill(killer, victim Entity)
	Update(w *World)
	AllowRespawn(e Entity) bool
	Hostile(a, b Entity) bool
	Over() bool
	Summary() string
}

// NewGameMode builds the mode named in the config. Unknown names fall
// back to free-for-all.
func NewGameMode(cfg *ModeConfig) GameMode {
	switch cfg.Name {
	case "tdm":
		return &TeamDeathmatch{fragLimit: cfg.FragLimit, scores: map[int]int{}}
	case "waves":
		return &WaveSurvival{waveSize: cfg.WaveSize, waveGrowth: cfg.WaveGrowth}
	default:
		return &FreeForAll{fragLimit: cfg.FragLimit, scores: map[EntityID]int{}}
	}
}

// ScoreLine is one scoreboard row.
type ScoreLine struct {
	Label  string
	Team   string
	Kills  int
	Deaths int
}

// Scoreboard collects per-combatant stats, sorted by kills descending.
func (w *World) Scoreboard() []ScoreLine {
	var lines []ScoreLine
	if w.player != nil {
		lines = append(lines, ScoreLine{
			Label: w.player.Label(), Team: teamName(w.player.Team()),
			Kills: w.player.Kills, Deaths: w.player.Deaths,
		})
	}
	for _, e := range w.enemies {
		lines = append(lines, ScoreLine{
			Label: e.Label(), Team: teamName(e.Team()),
			Kills: e.Kills, Deaths: e.Deaths,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Kills > lines[j].Kills })
	return lines
}

// --- Free-for-all ---

// FreeForAll: every combatant for themselves; first to the frag limit wins.
type FreeForAll struct {
	fragLimit int
	scores    map[EntityID]int
	winner    string
	over      bool
}

func (m *FreeForAll) Name() string { return "ffa" }

func (m *FreeForAll) RecordKill(killer, victim Entity) {
	if killer == nil || killer == victim {
		return
	}
	m.scores[killer.ID()]++
	if m.fragLimit > 0 && m.scores[killer.ID()] >= m.fragLimit {
		m.over = true
		m.winner = killer.Label()
	}
}

func (m *FreeForAll) Update(*World)            {}
func (m *FreeForAll) AllowRespawn(Entity) bool { return true }
func (m *FreeForAll) Over() bool               { return m.over }

// Hostile: everyone is a target in free-for-all.
func (m *FreeForAll) Hostile(a, b Entity) bool { return a.ID() != b.ID() }

func (m *FreeForAll) Summary() string {
	if !m.over {
		return "ffa: in progress"
	}
	return fmt.Sprintf("ffa: %s wins at %d frags", m.winner, m.fragLimit)
}

// --- Team deathmatch ---

// TeamDeathmatch pools frags per team. Friendly kills subtract a point.
type TeamDeathmatch struct {
	fragLimit int
	scores    map[int]int
	winner    int
	over      bool
}

func (m *TeamDeathmatch) Name() string { return "tdm" }

func (m *TeamDeathmatch) RecordKill(killer, victim Entity) {
	if killer == nil || killer == victim {
		return
	}
	if killer.Team() == victim.Team() {
		m.scores[killer.Team()]--
		return
	}
	m.scores[killer.Team()]++
	if m.fragLimit > 0 && m.scores[killer.Team()] >= m.fragLimit {
		m.over = true
		m.winner = killer.Team()
	}
}

func (m *TeamDeathmatch) Update(*World)            {}
func (m *TeamDeathmatch) AllowRespawn(Entity) bool { return true }
func (m *TeamDeathmatch) Over() bool               { return m.over }

func (m *TeamDeathmatch) Hostile(a, b Entity) bool { return a.Team() != b.Team() }

// TeamScore returns a team's current frag total.
func (m *TeamDeathmatch) TeamScore(team int) int { return m.scores[team] }

func (m *TeamDeathmatch) Summary() string {
	var parts []string
	for team, score := range m.scores {
		parts = append(parts, fmt.Sprintf("%s=%d", teamName(team), score))
	}
	sort.Strings(parts)
	state := "in progress"
	if m.over {
		state = teamName(m.winner) + " wins"
	}
	return fmt.Sprintf("tdm: %s (%s)", strings.Join(parts, " "), state)
}

// --- Wave survival ---

// WaveSurvival pits the player against escalating waves of bots. Bots stay
// down once killed; clearing the wave starts an intermission, then the
// next (larger) wave revives them. The match ends when the player dies.
type WaveSurvival struct {
	waveSize   int
	waveGrowth int

	wave         int
	intermission int
	over         bool
}

func (m *WaveSurvival) Name() string { return "waves" }

// Wave returns the current wave number, starting at 1.
func (m *WaveSurvival) Wave() int { return m.wave }

func (m *WaveSurvival) RecordKill(killer, victim Entity) {
	if _, isPlayer := victim.(*Player); isPlayer {
		m.over = true
	}
}

func (m *WaveSurvival) AllowRespawn(e Entity) bool {
	// Only the player self-respawns; bots wait for the next wave.
	_, isPlayer := e.(*Player)
	return isPlayer
}

func (m *WaveSurvival) Over() bool { return m.over }

func (m *WaveSurvival) Hostile(a, b Entity) bool { return a.Team() != b.Team() }

func (m *WaveSurvival) Update(w *World) {
	if m.over {
		return
	}
	if m.wave == 0 {
		m.startWave(w)
		return
	}
	for _, e := range w.enemies {
		if e.Status != StatusDead {
			return // wave still live
		}
	}
	if m.intermission == 0 {
		m.intermission = waveIntermissionTicks
		w.simlog.Add(w.tick, "--", "--", "mode", "wave_cleared", fmt.Sprintf("wave %d", m.wave), float64(m.wave))
		return
	}
	m.intermission--
	if m.intermission == 0 {
		m.startWave(w)
	}
}

func (m *WaveSurvival) startWave(w *World) {
	m.wave++
	count := m.waveSize + m.waveGrowth*(m.wave-1)
	if count > len(w.enemies) {
		count = len(w.enemies)
	}
	revived := 0
	for _, e := range w.enemies {
		if revived >= count {
			break
		}
		if e.Status != StatusAlive {
			w.reviveEnemy(e)
		}
		revived++
	}
	w.simlog.Add(w.tick, "--", "--", "mode", "wave_start", fmt.Sprintf("wave %d, %d bots", m.wave, count), float64(m.wave))
}

func (m *WaveSurvival) Summary() string {
	if m.over {
		return fmt.Sprintf("waves: fell on wave %d", m.wave)
	}
	return fmt.Sprintf("waves: wave %d", m.wave)
}
