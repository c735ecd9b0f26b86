package game

import "testing"

type recordingObserver struct {
	seen []Telegram
}

func (r *recordingObserver) ObserveTelegram(to Entity, t Telegram) {
	r.seen = append(r.seen, t)
}

func TestBus_DispatchDeliversSameTick(t *testing.T) {
	ts := NewTestSim(WithFlatArena(30), WithBotAt("aggressive", 1, Vec3{0, 0, 0}))
	bot := ts.Bots[0]

	before := bot.Health
	handled := ts.World.Bus().Dispatch(bot, Telegram{Kind: TelegramHit, Damage: 10})
	if !handled {
		t.Fatal("hit telegram should be handled")
	}
	if bot.Health != before-10 {
		t.Fatal("damage must apply before Dispatch returns")
	}
}

func TestBus_DispatchToNil(t *testing.T) {
	b := NewBus()
	if b.Dispatch(nil, Telegram{Kind: TelegramHit}) {
		t.Fatal("dispatch to nil should report unhandled")
	}
}

func TestBus_ObserverSeesHandledTelegrams(t *testing.T) {
	ts := NewTestSim(WithFlatArena(30), WithBotAt("aggressive", 1, Vec3{0, 0, 0}))
	obs := &recordingObserver{}
	ts.World.Bus().Observe(obs)

	ts.World.Bus().Dispatch(ts.Bots[0], Telegram{Kind: TelegramHit, Damage: 5})
	if len(obs.seen) != 1 || obs.seen[0].Kind != TelegramHit {
		t.Fatalf("observer saw %v, want one HIT", obs.seen)
	}
}

func TestBus_BroadcastSkipsSenderAndExcluded(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithBotAt("aggressive", 1, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{5, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{10, 0, 0}),
	)
	sender, excluded, third := ts.Bots[0], ts.Bots[1], ts.Bots[2]

	// Hit telegrams damage the receiver, making delivery observable.
	ts.World.Bus().Broadcast(ts.World.Combatants(), excluded,
		Telegram{Kind: TelegramHit, Sender: sender, Damage: 10})

	if sender.Health != sender.MaxHealth {
		t.Fatal("broadcast must not deliver to the sender")
	}
	if excluded.Health != excluded.MaxHealth {
		t.Fatal("broadcast must not deliver to the excluded entity")
	}
	if third.Health != third.MaxHealth-10 {
		t.Fatal("broadcast should reach everyone else")
	}
}

func TestTelegram_DeadDropsTargetMemory(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithSeed(5),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{8, 0, 0}),
	)
	a, b := ts.Bots[0], ts.Bots[1]
	a.Yaw = 0
	ts.Step(2) // a senses b

	if a.memory.Record(b.ID()) == nil {
		t.Fatal("precondition: a should know about b")
	}
	ts.World.Bus().Dispatch(a, Telegram{Kind: TelegramDead, Sender: b})
	if a.memory.Record(b.ID()) != nil {
		t.Fatal("DEAD broadcast should clear the victim from target memory")
	}
}

func TestTelegramKind_String(t *testing.T) {
	if TelegramHit.String() != "hit" || TelegramItemTaken.String() != "item_taken" {
		t.Fatal("telegram kind labels changed")
	}
}
