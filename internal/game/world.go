package game

import (
	"fmt"
	"math/rand"
)

// AudioSink receives spatial sound cue requests from the core. The core
// never blocks on audio and never checks whether a cue actually played.
type AudioSink interface {
	Play(name string, pos Vec3)
}

type nopAudio struct{}

func (nopAudio) Play(string, Vec3) {}

// World owns one match: the arena, every combatant, the shared services
// (planner, bus, combat, log) and the tick counter. All simulation state
// is advanced from Step on a single goroutine.
type World struct {
	cfg     *Config
	mesh    *NavMesh
	planner *PathPlanner
	bus     *Bus
	combat  *CombatManager
	simlog  *SimLog
	mode    GameMode
	rng     *rand.Rand

	audio AudioSink
	hud   HUDNotifier

	tick        int
	spawnPoints []Vec3
	items       []*Item

	player  *Player
	enemies []*Enemy
	byID    map[EntityID]Entity
	all     []Entity
	nextID  EntityID
}

// NewWorld assembles a match on the given arena. Audio and HUD default to
// no-ops; the front end installs real ones.
func NewWorld(cfg *Config, arena *Arena, seed int64) *World {
	rng := rand.New(rand.NewSource(seed))
	bus := NewBus()
	w := &World{
		cfg:         cfg,
		mesh:        arena.Mesh,
		planner:     NewPathPlanner(arena.Mesh, cfg.Sim.PathBudget),
		bus:         bus,
		combat:      NewCombatManager(arena.Obstacles, bus, rng),
		simlog:      NewSimLog(cfg.Sim.VerboseLog),
		mode:        NewGameMode(&cfg.Mode),
		rng:         rng,
		audio:       nopAudio{},
		hud:         nopHUD{},
		spawnPoints: arena.SpawnPoints,
		byID:        map[EntityID]Entity{},
		nextID:      1,
	}
	for _, it := range arena.Items {
		w.AddItem(it)
	}
	return w
}

// SetAudio installs a sound sink.
func (w *World) SetAudio(a AudioSink) {
	if a != nil {
		w.audio = a
	}
}

// SetHUD installs a HUD notifier.
func (w *World) SetHUD(h HUDNotifier) {
	if h != nil {
		w.hud = h
	}
}

// ApplyConfig swaps in a freshly loaded config mid-match. Weapon and
// archetype pointers held by live combatants are re-resolved by name so
// tuning edits take effect without a restart.
func (w *World) ApplyConfig(cfg *Config) {
	w.cfg = cfg
	w.planner.Budget = cfg.Sim.PathBudget
	if w.player != nil {
		w.player.weapon.Spec = cfg.WeaponSpec(w.player.weapon.Spec.Name)
	}
	for _, e := range w.enemies {
		e.arche = cfg.Archetype(e.arche.Name)
		e.weapon.Spec = cfg.WeaponSpec(e.weapon.Spec.Name)
	}
	w.simlog.Add(w.tick, "--", "--", "state", "config_reload", "", 0)
}

// Tick returns the current simulation tick.
func (w *World) Tick() int { return w.tick }

// Config returns the active configuration.
func (w *World) Config() *Config { return w.cfg }

// Mesh returns the arena navmesh.
func (w *World) Mesh() *NavMesh { return w.mesh }

// Bus returns the telegram bus, for observers.
func (w *World) Bus() *Bus { return w.bus }

// Combat returns the combat manager.
func (w *World) Combat() *CombatManager { return w.combat }

// Log returns the simulation log.
func (w *World) Log() *SimLog { return w.simlog }

// Mode returns the active game mode.
func (w *World) Mode() GameMode { return w.mode }

// Items returns all placed pickups.
func (w *World) Items() []*Item { return w.items }

// Player returns the local player, or nil in a bot-only match.
func (w *World) Player() *Player { return w.player }

// Enemies returns all bots.
func (w *World) Enemies() []*Enemy { return w.enemies }

// Combatants returns every combatant as the Entity interface, player first.
func (w *World) Combatants() []Entity { return w.all }

// EntityByID resolves an entity, or nil when the id is unknown.
func (w *World) EntityByID(id EntityID) Entity { return w.byID[id] }

// SpawnPlayer adds the local player, bound to a front-end input state.
func (w *World) SpawnPlayer(input *InputState, team int) *Player {
	p := NewPlayer(w, w.nextID, team, input, w.pickSpawn(team))
	w.nextID++
	w.player = p
	w.register(p)
	return p
}

// SpawnBot adds one bot of the named archetype.
func (w *World) SpawnBot(archetype string, team int) *Enemy {
	arche := w.cfg.Archetype(archetype)
	label := fmt.Sprintf("B%d", len(w.enemies)+1)
	e := NewEnemy(w, w.nextID, label, team, arche, w.pickSpawn(team))
	w.nextID++
	w.enemies = append(w.enemies, e)
	w.register(e)
	return e
}

// SpawnBots fills the arena per the bot config, cycling archetypes. In
// team modes bots alternate teams; otherwise they all oppose the player.
func (w *World) SpawnBots() {
	arches := w.cfg.Bots.Archetypes
	for i := 0; i < w.cfg.Bots.Count; i++ {
		team := 1
		if w.mode.Name() == "tdm" {
			team = i % 2
		}
		w.SpawnBot(arches[i%len(arches)].Name, team)
	}
}

// AddItem places a pickup, binding it to its navmesh region.
func (w *World) AddItem(it *Item) {
	it.Region = w.mesh.RegionAt(it.Pos)
	if it.Region != nil {
		it.Pos = it.Region.ProjectToPlane(it.Pos)
	}
	w.items = append(w.items, it)
}

func (w *World) register(e Entity) {
	w.byID[e.ID()] = e
	w.all = append(w.all, e)
	w.combat.RegisterCollider(e)
}

// Step advances the match one fixed tick: player physics, path planning,
// pickups, bot AI, combat bookkeeping, then mode scoring. Combat itself
// resolves inline when a trigger is pulled; telegrams land the same tick.
func (w *World) Step() {
	if w.player != nil {
		w.player.Update()
	}
	w.planner.Update()
	w.updateItems()
	for _, e := range w.enemies {
		e.Update()
	}
	w.combat.Update(w.tick)
	w.mode.Update(w)
	w.tick++
}

// Run steps until the mode ends the match or the tick limit is reached,
// returning the number of ticks simulated. Used by headless matches and
// tests.
func (w *World) Run(maxTicks int) int {
	start := w.tick
	for w.tick-start < maxTicks && !w.mode.Over() {
		w.Step()
	}
	return w.tick - start
}

// onDeath handles a combatant entering DYING: stats, scoring, the DEAD
// broadcast that lets bots drop the victim as a target.
func (w *World) onDeath(victim, killer Entity) {
	switch v := victim.(type) {
	case *Player:
		v.Deaths++
	case *Enemy:
		v.Deaths++
	}
	killerLabel := "--"
	if killer != nil && killer != victim {
		killerLabel = killer.Label()
		switch k := killer.(type) {
		case *Player:
			k.Kills++
		case *Enemy:
			k.Kills++
		}
	}
	w.simlog.Add(w.tick, victim.Label(), teamName(victim.Team()), "state", "death", "by "+killerLabel, 0)
	w.hud.KillOccurred(killerLabel, victim.Label())
	w.audio.Play("death", victim.Kin().Pos)
	w.mode.RecordKill(killer, victim)
	w.bus.Broadcast(w.all, victim, Telegram{Kind: TelegramDead, Sender: victim})
}

// respawnEnemy re-enters a dead bot if the mode allows it. Wave survival
// declines; the bot then stays DEAD until the mode revives it.
func (w *World) respawnEnemy(e *Enemy) {
	if !w.mode.AllowRespawn(e) {
		return
	}
	w.reviveEnemy(e)
}

// reviveEnemy unconditionally respawns a bot at a fresh spawn point and
// announces it so opponents can re-acquire the target.
func (w *World) reviveEnemy(e *Enemy) {
	e.respawn(w.pickSpawn(e.team))
	w.simlog.Add(w.tick, e.Label(), teamName(e.team), "state", "respawn", "", 0)
	w.bus.Broadcast(w.all, e, Telegram{Kind: TelegramRespawned, Sender: e})
}

// pickSpawn chooses the spawn point farthest from living opponents of the
// given team, so nobody respawns into a firefight. With no opponents alive
// (or none on another team, as in bot-only free-for-all) it spreads over
// all living combatants instead.
func (w *World) pickSpawn(team int) Vec3 {
	if len(w.spawnPoints) == 0 {
		return Vec3{}
	}
	best := w.farthestSpawn(func(ent Entity) bool { return ent.Team() != team })
	if best == nil {
		best = w.farthestSpawn(func(Entity) bool { return true })
	}
	if best == nil {
		return w.spawnPoints[w.rng.Intn(len(w.spawnPoints))]
	}
	return *best
}

func (w *World) farthestSpawn(counts func(Entity) bool) *Vec3 {
	var best *Vec3
	bestDist := 0.0
	for i := range w.spawnPoints {
		sp := w.spawnPoints[i]
		closest := -1.0
		for _, ent := range w.all {
			if ent.Life().Status != StatusAlive || !counts(ent) {
				continue
			}
			if d := ent.Kin().Pos.DistToXZ(sp); closest < 0 || d < closest {
				closest = d
			}
		}
		if closest < 0 {
			continue // nobody relevant alive; caller falls back
		}
		if best == nil || closest > bestDist {
			bestDist = closest
			best = &w.spawnPoints[i]
		}
	}
	return best
}
