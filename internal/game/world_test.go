package game

import (
	"strings"
	"testing"
)

func TestWorld_ItemPickupHealsAndRespawns(t *testing.T) {
	arena := BuildFlatArena(30)
	ts := NewTestSim(
		WithArena(arena),
		WithSeed(2),
		WithBotAt("aggressive", 1, Vec3{0, 0, 0}),
	)
	bot := ts.Bots[0]
	bot.Health = 40

	item := NewItem(ItemHealth, Vec3{0.5, 0, 0}, 50, 120)
	ts.World.AddItem(item)
	ts.Step(1)

	if item.Available() {
		t.Fatal("item under a wounded bot should be taken")
	}
	if item.LastTakenBy != bot.ID() {
		t.Fatalf("taken by %d, want %d", item.LastTakenBy, bot.ID())
	}
	if bot.Health != 90 {
		t.Fatalf("health after pack = %.0f, want 90", bot.Health)
	}

	// Full health keeps the wandering bot from re-taking the pack the
	// moment it comes back up.
	bot.Health = bot.MaxHealth
	ts.Step(125)
	if !item.Available() {
		t.Fatal("item should respawn after its delay")
	}
}

func TestWorld_FullHealthSkipsHealthPacks(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithBotAt("aggressive", 1, Vec3{0, 0, 0}),
	)
	item := NewItem(ItemHealth, Vec3{0.5, 0, 0}, 50, 120)
	ts.World.AddItem(item)
	ts.Step(2)
	if !item.Available() {
		t.Fatal("a full-health bot should leave health packs alone")
	}
}

func TestWorld_AmmoPickupFillsReserve(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithBotAt("aggressive", 1, Vec3{0, 0, 0}),
	)
	bot := ts.Bots[0]
	bot.Weapon().Reserve = 0

	ts.World.AddItem(NewItem(ItemAmmo, Vec3{0.5, 0, 0}, 30, 120))
	ts.Step(1)
	if bot.Weapon().Reserve != 30 {
		t.Fatalf("reserve = %d after pickup, want 30", bot.Weapon().Reserve)
	}
}

func TestWorld_KillUpdatesStatsAndScore(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithSeed(4),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	killer, victim := ts.Bots[0], ts.Bots[1]

	ts.World.Bus().Dispatch(victim, Telegram{Kind: TelegramHit, Sender: killer, Damage: 1000})
	if killer.Kills != 1 {
		t.Fatalf("killer kills = %d, want 1", killer.Kills)
	}
	if victim.Deaths != 1 {
		t.Fatalf("victim deaths = %d, want 1", victim.Deaths)
	}
	if len(ts.World.Log().Filter("state", "death")) != 1 {
		t.Fatal("the death should be in the sim log")
	}
}

func TestWorld_DeadBotRespawnsSameTickAfterDying(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithSeed(4),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	victim := ts.Bots[1]
	ts.World.Bus().Dispatch(victim, Telegram{Kind: TelegramHit, Sender: ts.Bots[0], Damage: 1000})
	if victim.Status != StatusDying {
		t.Fatalf("status = %v, want dying", victim.Status)
	}

	// The dying pause runs its course, then DEAD resolves to a respawn
	// within the same tick: the bot is never observable as DEAD between
	// world steps.
	ts.Step(botDyingTicks + 1)
	if victim.Status != StatusAlive {
		t.Fatalf("status after dying pause = %v, want alive", victim.Status)
	}
	if victim.Health != victim.MaxHealth {
		t.Fatal("respawned bot should have full health")
	}
}

func TestWorld_StepAdvancesTick(t *testing.T) {
	ts := NewTestSim(WithFlatArena(30))
	ts.Step(5)
	if ts.World.Tick() != 5 {
		t.Fatalf("tick = %d after 5 steps, want 5", ts.World.Tick())
	}
}

func TestWorld_EntityByID(t *testing.T) {
	ts := NewTestSim(WithFlatArena(30), WithBotAt("aggressive", 1, Vec3{0, 0, 0}))
	bot := ts.Bots[0]
	if got := ts.World.EntityByID(bot.ID()); got != Entity(bot) {
		t.Fatal("lookup by id returned a different entity")
	}
	if ts.World.EntityByID(9999) != nil {
		t.Fatal("unknown id should resolve to nil")
	}
}

func TestWorld_BotMatchProducesKills(t *testing.T) {
	if testing.Short() {
		t.Skip("full bot match")
	}
	ts := NewTestSim(
		WithFlatArena(25),
		WithSeed(11),
		WithConfig(func(c *Config) { c.Mode.FragLimit = 1 }),
		WithBotAt("aggressive", 0, Vec3{-8, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{8, 0, 0}),
	)

	// Two rifles in an open room: somebody dies well inside a minute.
	if !ts.StepUntil(3600, func() bool { return ts.World.Mode().Over() }) {
		t.Fatal("no kill after 60 simulated seconds of open combat")
	}
	if ts.Bots[0].Kills+ts.Bots[1].Kills == 0 {
		t.Fatal("match over without a recorded kill")
	}
}

func TestReporter_WindowedReport(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithSeed(4),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	rep := NewReporter(ts.World)
	ts.World.Bus().Dispatch(ts.Bots[1], Telegram{Kind: TelegramHit, Sender: ts.Bots[0], Damage: 1000})
	ts.Step(5)

	text := rep.Report()
	if !strings.Contains(text, "match report") {
		t.Fatalf("report missing header:\n%s", text)
	}
	if !strings.Contains(text, ts.Bots[0].Label()) {
		t.Fatalf("report missing combatant rows:\n%s", text)
	}

	// A fresh window forgets the earlier death.
	rep.MarkWindow()
	ts.Step(5)
	if got := rep.windowCounts("state", "death"); len(got) != 0 {
		t.Fatalf("windowed death counts = %v, want empty after MarkWindow", got)
	}
}
