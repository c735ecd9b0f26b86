package game

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

//go:embed config_default.yaml
var defaultConfigYAML []byte

// Config is the full static tunable set, loaded once at startup and treated
// as read-only by the simulation. Hot reload swaps in a whole new Config.
type Config struct {
	Sim     SimConfig    `yaml:"sim"`
	Player  PlayerConfig `yaml:"player"`
	Weapons []WeaponSpec `yaml:"weapons"`
	Bots    BotsConfig   `yaml:"bots"`
	Mode    ModeConfig   `yaml:"mode"`
}

// SimConfig controls tick cadence and per-tick work bounds.
type SimConfig struct {
	TickRate      int  `yaml:"tick_rate"`
	ThinkInterval int  `yaml:"think_interval"`
	PathBudget    int  `yaml:"path_budget"`
	VerboseLog    bool `yaml:"verbose_log"`
}

// Dt returns the fixed timestep in seconds.
func (s SimConfig) Dt() float64 {
	if s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}

// PlayerConfig holds the kinematic controller tunables.
type PlayerConfig struct {
	MaxHealth          float64 `yaml:"max_health"`
	Height             float64 `yaml:"height"`
	Radius             float64 `yaml:"radius"`
	WalkSpeed          float64 `yaml:"walk_speed"`
	SprintSpeed        float64 `yaml:"sprint_speed"`
	GroundAccel        float64 `yaml:"ground_accel"`
	AirAccel           float64 `yaml:"air_accel"`
	StopDecay          float64 `yaml:"stop_decay"`
	Gravity            float64 `yaml:"gravity"`
	JumpImpulse        float64 `yaml:"jump_impulse"`
	JumpCutMultiplier  float64 `yaml:"jump_cut_multiplier"`
	CoyoteTicks        int     `yaml:"coyote_ticks"`
	JumpBufferTicks    int     `yaml:"jump_buffer_ticks"`
	SlideBoost         float64 `yaml:"slide_boost"`
	SlideTicks         int     `yaml:"slide_ticks"`
	SlideCooldownTicks int     `yaml:"slide_cooldown_ticks"`
	SlideFriction      float64 `yaml:"slide_friction"`
	StaminaMax         float64 `yaml:"stamina_max"`
	StaminaDrain       float64 `yaml:"stamina_drain"`
	StaminaRegen       float64 `yaml:"stamina_regen"`
	DyingTicks         int     `yaml:"dying_ticks"`
	HeadBobRate        float64 `yaml:"head_bob_rate"`
}

// WeaponSpec is the immutable description of one weapon type. Weapon holds
// the mutable per-instance state.
type WeaponSpec struct {
	Name               string  `yaml:"name"`
	Damage             float64 `yaml:"damage"`
	MagSize            int     `yaml:"mag_size"`
	ReserveStart       int     `yaml:"reserve_start"`
	FireIntervalTicks  int     `yaml:"fire_interval_ticks"`
	ReloadTicks        int     `yaml:"reload_ticks"`
	Pellets            int     `yaml:"pellets"`
	SpreadBase         float64 `yaml:"spread_base"`
	SpreadPerShot      float64 `yaml:"spread_per_shot"`
	SpreadMax          float64 `yaml:"spread_max"`
	SpreadDecay        float64 `yaml:"spread_decay"`
	SpreadIdleDecayMul float64 `yaml:"spread_idle_decay_mul"`
	RecoilKick         float64 `yaml:"recoil_kick"`
	RecoilDecay        float64 `yaml:"recoil_decay"`
	Range              float64 `yaml:"range"`
	FalloffStart       float64 `yaml:"falloff_start"`
	FalloffEnd         float64 `yaml:"falloff_end"`
	FalloffMin         float64 `yaml:"falloff_min"`
}

// BotsConfig holds bot population and archetype tuning.
type BotsConfig struct {
	Count      int            `yaml:"count"`
	Archetypes []BotArchetype `yaml:"archetypes"`
}

// BotArchetype is a named desirability-tweaker set plus body stats.
type BotArchetype struct {
	Name           string  `yaml:"name"`
	MaxHealth      float64 `yaml:"max_health"`
	MoveSpeed      float64 `yaml:"move_speed"`
	PreferredRange float64 `yaml:"preferred_range"`
	AttackTweaker  float64 `yaml:"attack_tweaker"`
	ExploreTweaker float64 `yaml:"explore_tweaker"`
	HealthTweaker  float64 `yaml:"health_tweaker"`
	AmmoTweaker    float64 `yaml:"ammo_tweaker"`
	Weapon         string  `yaml:"weapon"`
}

// ModeConfig selects and tunes the game mode.
type ModeConfig struct {
	Name       string `yaml:"name"`
	FragLimit  int    `yaml:"frag_limit"`
	WaveSize   int    `yaml:"wave_size"`
	WaveGrowth int    `yaml:"wave_growth"`
}

// DefaultConfig parses the embedded default document.
func DefaultConfig() *Config {
	cfg, err := parseConfig(defaultConfigYAML)
	if err != nil {
		// The embedded document is part of the build; a parse failure is a
		// programming error, not a runtime condition.
		panic("embedded default config invalid: " + err.Error())
	}
	return cfg
}

// LoadConfig reads a YAML file layered over the defaults: the file only
// needs the keys it overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-chosen config path
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if len(c.Weapons) == 0 {
		return fmt.Errorf("at least one weapon must be defined")
	}
	for _, w := range c.Weapons {
		if w.MagSize <= 0 {
			return fmt.Errorf("weapon %q: mag_size must be positive", w.Name)
		}
		if w.Pellets <= 0 {
			return fmt.Errorf("weapon %q: pellets must be positive", w.Name)
		}
	}
	if len(c.Bots.Archetypes) == 0 {
		return fmt.Errorf("at least one bot archetype must be defined")
	}
	return nil
}

// WeaponSpec returns the named weapon, falling back to the first defined
// weapon when the name is unknown.
func (c *Config) WeaponSpec(name string) *WeaponSpec {
	for i := range c.Weapons {
		if c.Weapons[i].Name == name {
			return &c.Weapons[i]
		}
	}
	return &c.Weapons[0]
}

// Archetype returns the named bot archetype, falling back to the first.
func (c *Config) Archetype(name string) *BotArchetype {
	for i := range c.Bots.Archetypes {
		if c.Bots.Archetypes[i].Name == name {
			return &c.Bots.Archetypes[i]
		}
	}
	return &c.Bots.Archetypes[0]
}

// ConfigWatcher re-reads a config file whenever it changes on disk and
// delivers the parsed result on Updates. Parse errors go to Errors and the
// previous config stays live.
type ConfigWatcher struct {
	Updates chan *Config
	Errors  chan error
	watcher *fsnotify.Watcher
	path    string
	closeCh chan struct{}
}

// WatchConfig starts watching the directory containing path.
func WatchConfig(path string) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	cw := &ConfigWatcher{
		Updates: make(chan *Config, 1),
		Errors:  make(chan error, 1),
		watcher: w,
		path:    path,
		closeCh: make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Close stops the watcher.
func (cw *ConfigWatcher) Close() error {
	close(cw.closeCh)
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) run() {
	var last time.Time
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(cw.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Editors fire bursts of events per save; debounce.
			now := time.Now()
			if now.Sub(last) < 100*time.Millisecond {
				continue
			}
			last = now
			cfg, err := LoadConfig(cw.path)
			if err != nil {
				select {
				case cw.Errors <- err:
				default:
				}
				continue
			}
			select {
			case cw.Updates <- cfg:
			default:
				// Drop if the consumer hasn't picked up the previous one.
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case cw.Errors <- err:
			default:
			}
		case <-cw.closeCh:
			return
		}
	}
}
