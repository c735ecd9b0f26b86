package game

// Test harness: a deterministic world builder for package tests. Lives in
// a non-test file so cmd/botmatch can reuse the option plumbing for
// scripted scenarios.

type simSetup struct {
	cfg     *Config
	arena   *Arena
	seed    int64
	player  bool
	pteam   int
	pat     *Vec3
	bots    []botSetup
	tweak   []func(*Config)
}

type botSetup struct {
	archetype string
	team      int
	at        *Vec3
}

// TestSimOption configures a TestSim under construction.
type TestSimOption func(*simSetup)

// WithSeed fixes the world RNG seed.
func WithSeed(seed int64) TestSimOption {
	return func(s *simSetup) { s.seed = seed }
}

// WithArena installs a specific arena.
func WithArena(a *Arena) TestSimOption {
	return func(s *simSetup) { s.arena = a }
}

// WithFlatArena installs a single flat square room of the given half-size.
func WithFlatArena(half float64) TestSimOption {
	return func(s *simSetup) { s.arena = BuildFlatArena(half) }
}

// WithConfig applies an edit to the default config before the world is
// built.
func WithConfig(edit func(*Config)) TestSimOption {
	return func(s *simSetup) { s.tweak = append(s.tweak, edit) }
}

// WithPlayer adds the player on the given team.
func WithPlayer(team int) TestSimOption {
	return func(s *simSetup) { s.player = true; s.pteam = team }
}

// WithPlayerAt adds the player at an exact position.
func WithPlayerAt(team int, at Vec3) TestSimOption {
	return func(s *simSetup) { s.player = true; s.pteam = team; s.pat = &at }
}

// WithBot adds one bot of the named archetype.
func WithBot(archetype string, team int) TestSimOption {
	return func(s *simSetup) { s.bots = append(s.bots, botSetup{archetype: archetype, team: team}) }
}

// WithBotAt adds one bot at an exact position.
func WithBotAt(archetype string, team int, at Vec3) TestSimOption {
	return func(s *simSetup) {
		s.bots = append(s.bots, botSetup{archetype: archetype, team: team, at: &at})
	}
}

// TestSim is a fully assembled deterministic match plus direct handles to
// the pieces tests poke at.
type TestSim struct {
	World  *World
	Input  *InputState
	Player *Player
	Bots   []*Enemy
}

// NewTestSim builds a world from the options. Defaults: the standard
// arena, seed 1, no combatants.
func NewTestSim(opts ...TestSimOption) *TestSim {
	s := &simSetup{cfg: DefaultConfig(), seed: 1}
	for _, opt := range opts {
		opt(s)
	}
	for _, edit := range s.tweak {
		edit(s.cfg)
	}
	if s.arena == nil {
		s.arena = BuildArena()
	}

	ts := &TestSim{
		World: NewWorld(s.cfg, s.arena, s.seed),
		Input: &InputState{},
	}
	if s.player {
		ts.Player = ts.World.SpawnPlayer(ts.Input, s.pteam)
		if s.pat != nil {
			ts.place(&ts.Player.Kinematic, &ts.Player.region, *s.pat)
			ts.Player.spawn = *s.pat
		}
	}
	for _, bs := range s.bots {
		e := ts.World.SpawnBot(bs.archetype, bs.team)
		if bs.at != nil {
			ts.place(&e.Kinematic, &e.region, *bs.at)
			e.spawn = *bs.at
		}
		ts.Bots = append(ts.Bots, e)
	}
	return ts
}

func (ts *TestSim) place(k *Kinematic, region **Region, at Vec3) {
	*region = ts.World.mesh.RegionAt(at)
	if *region != nil {
		at = (*region).ProjectToPlane(at)
	}
	k.Pos = at
	k.Vel = Vec3{}
}

// Step advances the world n ticks.
func (ts *TestSim) Step(n int) {
	for i := 0; i < n; i++ {
		ts.World.Step()
	}
}

// StepUntil advances until the predicate holds or maxTicks elapse,
// reporting whether it held.
func (ts *TestSim) StepUntil(maxTicks int, pred func() bool) bool {
	for i := 0; i < maxTicks; i++ {
		if pred() {
			return true
		}
		ts.World.Step()
	}
	return pred()
}
