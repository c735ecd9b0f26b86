package game

import (
	"strings"
	"testing"
)

func TestNewGameMode_Selection(t *testing.T) {
	if m := NewGameMode(&ModeConfig{Name: "tdm"}); m.Name() != "tdm" {
		t.Fatalf("mode = %q, want tdm", m.Name())
	}
	if m := NewGameMode(&ModeConfig{Name: "waves"}); m.Name() != "waves" {
		t.Fatalf("mode = %q, want waves", m.Name())
	}
	if m := NewGameMode(&ModeConfig{Name: "bogus"}); m.Name() != "ffa" {
		t.Fatalf("unknown mode = %q, want ffa fallback", m.Name())
	}
}

func TestFreeForAll_FragLimitEndsMatch(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithConfig(func(c *Config) { c.Mode.FragLimit = 2 }),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	m := ts.World.Mode().(*FreeForAll)
	killer, victim := ts.Bots[0], ts.Bots[1]

	m.RecordKill(killer, victim)
	if m.Over() {
		t.Fatal("match over after 1 of 2 frags")
	}
	m.RecordKill(killer, victim)
	if !m.Over() {
		t.Fatal("match should end at the frag limit")
	}
	if !strings.Contains(m.Summary(), killer.Label()) {
		t.Fatalf("summary %q does not name the winner", m.Summary())
	}
}

func TestFreeForAll_SelfKillDoesNotScore(t *testing.T) {
	ts := NewTestSim(WithFlatArena(30), WithBotAt("aggressive", 0, Vec3{0, 0, 0}))
	m := ts.World.Mode().(*FreeForAll)
	m.RecordKill(ts.Bots[0], ts.Bots[0])
	m.RecordKill(nil, ts.Bots[0])
	if m.Over() {
		t.Fatal("self kills and environment deaths must not score")
	}
}

func TestTeamDeathmatch_FriendlyFirePenalty(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithConfig(func(c *Config) { c.Mode.Name = "tdm"; c.Mode.FragLimit = 5 }),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 0, Vec3{2, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	m := ts.World.Mode().(*TeamDeathmatch)

	m.RecordKill(ts.Bots[0], ts.Bots[2]) // enemy kill: +1
	m.RecordKill(ts.Bots[0], ts.Bots[1]) // teammate: -1
	if got := m.TeamScore(0); got != 0 {
		t.Fatalf("team 0 score = %d, want 0 after one kill and one teamkill", got)
	}
}

func TestTeamDeathmatch_Hostility(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithConfig(func(c *Config) { c.Mode.Name = "tdm" }),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 0, Vec3{2, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	m := ts.World.Mode()
	if m.Hostile(ts.Bots[0], ts.Bots[1]) {
		t.Fatal("teammates must not be hostile")
	}
	if !m.Hostile(ts.Bots[0], ts.Bots[2]) {
		t.Fatal("opposing teams must be hostile")
	}
}

func TestFreeForAll_EveryoneHostile(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithBotAt("aggressive", 1, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	m := ts.World.Mode()
	if !m.Hostile(ts.Bots[0], ts.Bots[1]) {
		t.Fatal("same-team bots are still hostile in free-for-all")
	}
	if m.Hostile(ts.Bots[0], ts.Bots[0]) {
		t.Fatal("an entity is never hostile to itself")
	}
}

func TestWaveSurvival_BotsStayDownBetweenWaves(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithConfig(func(c *Config) { c.Mode.Name = "waves" }),
		WithPlayerAt(0, Vec3{-10, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	m := ts.World.Mode().(*WaveSurvival)
	bot := ts.Bots[0]

	if m.AllowRespawn(bot) {
		t.Fatal("wave survival must not respawn bots mid-wave")
	}
	if !m.AllowRespawn(ts.Player) {
		t.Fatal("the player still respawns in wave survival")
	}

	// Kill the bot once the first wave is running: it must remain dead
	// through the dying timer.
	ts.Step(1)
	ts.World.Bus().Dispatch(bot, Telegram{Kind: TelegramHit, Sender: ts.Player, Damage: 1000})
	ts.Step(botDyingTicks + 5)
	if bot.Status != StatusDead {
		t.Fatalf("bot status = %v, want dead until the next wave", bot.Status)
	}

	// After the intermission the next wave revives it.
	ts.Step(waveIntermissionTicks + 5)
	if bot.Status != StatusAlive {
		t.Fatalf("bot status = %v after intermission, want alive", bot.Status)
	}
	if m.Wave() < 2 {
		t.Fatalf("wave = %d, want the second wave started", m.Wave())
	}
}

func TestWaveSurvival_PlayerDeathEndsMatch(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithConfig(func(c *Config) { c.Mode.Name = "waves" }),
		WithPlayerAt(0, Vec3{-10, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	ts.World.Bus().Dispatch(ts.Player, Telegram{Kind: TelegramHit, Damage: 1000})
	if !ts.World.Mode().Over() {
		t.Fatal("the match should end when the player dies")
	}
}

func TestScoreboard_SortedByKills(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithBotAt("aggressive", 1, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	ts.Bots[1].Kills = 3
	lines := ts.World.Scoreboard()
	if len(lines) != 2 {
		t.Fatalf("scoreboard rows = %d, want 2", len(lines))
	}
	if lines[0].Kills != 3 {
		t.Fatal("scoreboard should sort by kills descending")
	}
}
