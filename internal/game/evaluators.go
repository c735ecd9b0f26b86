package game

const (
	// Normalising distance for item desirability: an item this far away
	// scores half of one right next to the owner.
	itemDistanceHalf = 25.0

	// How long a failed item kind stays on the ignore list.
	itemIgnoreTicks = 900
)

// GoalEvaluator scores one candidate top-level behaviour. Evaluators are
// stateless: all per-bot state lives on the owner. SetGoal is invoked only
// for the evaluator with the maximum desirability for that think tick.
type GoalEvaluator interface {
	Name() string
	Desirability(e *Enemy) float64
	SetGoal(e *Enemy)
}

// ThinkGoal is the root of a bot's goal tree. Every think interval it
// re-scores all registered evaluators and installs the winner's goal; ties
// resolve to the earliest-registered evaluator. A bot is never left
// goal-less: when nothing scores above zero it falls back to exploring.
type ThinkGoal struct {
	CompositeGoal
	owner      *Enemy
	evaluators []GoalEvaluator
	current    GoalEvaluator
}

func NewThinkGoal(owner *Enemy) *ThinkGoal {
	t := &ThinkGoal{owner: owner}
	// Registration order doubles as the tie-break order.
	t.AddEvaluator(&AttackEvaluator{})
	t.AddEvaluator(&GetHealthEvaluator{})
	t.AddEvaluator(&GetAmmoEvaluator{})
	t.AddEvaluator(&ExploreEvaluator{})
	return t
}

func (t *ThinkGoal) Name() string { return "think" }

// AddEvaluator registers an evaluator; order matters for tie-breaking.
func (t *ThinkGoal) AddEvaluator(ev GoalEvaluator) {
	t.evaluators = append(t.evaluators, ev)
}

func (t *ThinkGoal) Activate() {
	t.status = GoalActive
	t.Arbitrate()
}

// Arbitrate picks the highest-desirability evaluator and installs its
// goal, but only when the winner differs from the evaluator that produced
// the current goal. That check is the hysteresis that prevents thrashing.
func (t *ThinkGoal) Arbitrate() {
	var best GoalEvaluator
	bestScore := 0.0
	for _, ev := range t.evaluators {
		score := clamp01(ev.Desirability(t.owner))
		if score > bestScore {
			best = ev
			bestScore = score
		}
	}
	if best == nil {
		// Nothing scored: default behaviour so the bot never stands idle.
		if t.Front() == nil {
			t.installGoal(NewExploreGoal(t.owner), nil)
		}
		return
	}
	if best == t.current && t.Front() != nil {
		return
	}
	t.current = best
	best.SetGoal(t.owner)
}

// installGoal swaps the active top-level goal.
func (t *ThinkGoal) installGoal(g Goal, ev GoalEvaluator) {
	t.RemoveAllSubgoals()
	t.PushBack(g)
	t.current = ev
	t.owner.logGoal(g.Name())
}

func (t *ThinkGoal) Execute() GoalStatus {
	w := t.owner.world
	interval := w.cfg.Sim.ThinkInterval
	if interval < 1 {
		interval = 1
	}
	if (w.tick+t.owner.thinkPhase)%interval == 0 {
		t.Arbitrate()
	}
	switch t.executeSubgoals() {
	case GoalFailed:
		t.RemoveAllSubgoals()
		t.current = nil
		t.Arbitrate()
	case GoalCompleted:
		t.current = nil
	}
	if t.Front() == nil {
		t.installGoal(NewExploreGoal(t.owner), nil)
	}
	return GoalActive // Think runs for the life of the bot
}

func (t *ThinkGoal) Terminate() {
	t.RemoveAllSubgoals()
	t.current = nil
	t.status = GoalInactive
}

// CurrentGoalName names the active top-level goal for logs and the HUD.
func (t *ThinkGoal) CurrentGoalName() string {
	if g := t.Front(); g != nil {
		return g.Name()
	}
	return "none"
}

// --- ExploreEvaluator ---

// ExploreEvaluator provides a small constant urge to wander; it wins only
// when nothing else is worth doing.
type ExploreEvaluator struct{}

func (ExploreEvaluator) Name() string { return "explore" }

func (ExploreEvaluator) Desirability(e *Enemy) float64 {
	return clamp01(0.08 * e.arche.ExploreTweaker)
}

func (ExploreEvaluator) SetGoal(e *Enemy) {
	if _, ok := e.brain.Front().(*ExploreGoal); ok {
		return // already exploring
	}
	e.brain.installGoal(NewExploreGoal(e), exploreEvaluatorOf(e))
}

// --- AttackEvaluator ---

// AttackEvaluator scores engaging the best known target: bolder with more
// health and ammo in hand.
type AttackEvaluator struct{}

func (AttackEvaluator) Name() string { return "attack" }

func (AttackEvaluator) Desirability(e *Enemy) float64 {
	_, rec := e.memory.BestTarget(e)
	if rec == nil {
		return 0
	}
	base := 0.35 + 0.45*e.HealthFrac() + 0.2*e.weapon.AmmoFrac()
	if rec.Visible {
		base += 0.15
	}
	return clamp01(base * e.arche.AttackTweaker)
}

func (AttackEvaluator) SetGoal(e *Enemy) {
	id, rec := e.memory.BestTarget(e)
	if rec == nil {
		return
	}
	if atk, ok := e.brain.Front().(*AttackGoal); ok && atk.Target() == id {
		return // already fighting this target; no churn
	}
	e.brain.installGoal(NewAttackGoal(e, id), attackEvaluatorOf(e))
}

// --- GetHealthEvaluator ---

// GetHealthEvaluator scores grabbing a health pickup: the lower the
// owner's health and the closer the item, the higher the score. Zero at
// full health and for ignored item kinds.
type GetHealthEvaluator struct{}

func (GetHealthEvaluator) Name() string { return "get_health" }

func (GetHealthEvaluator) Desirability(e *Enemy) float64 {
	if e.HealthFrac() >= 1 || e.itemIgnored(ItemHealth) {
		return 0
	}
	item := e.world.NearestItem(e, ItemHealth)
	if item == nil {
		return 0
	}
	dist := e.world.ItemDistance(e, item)
	score := e.arche.HealthTweaker * (1 - e.HealthFrac()) / (1 + dist/itemDistanceHalf)
	return clamp01(score)
}

func (GetHealthEvaluator) SetGoal(e *Enemy) {
	// Hysteresis: an in-flight health run is not restarted.
	if gi, ok := e.brain.Front().(*GetItemGoal); ok {
		if gi.Item() != nil && gi.Item().Kind == ItemHealth && gi.Item().Available() {
			return
		}
	}
	item := e.world.NearestItem(e, ItemHealth)
	if item == nil {
		return
	}
	e.brain.installGoal(NewGetItemGoal(e, item), healthEvaluatorOf(e))
}

// --- GetAmmoEvaluator ---

// GetAmmoEvaluator scores topping up reserve ammo, mirroring the health
// evaluator's shape.
type GetAmmoEvaluator struct{}

func (GetAmmoEvaluator) Name() string { return "get_ammo" }

func (GetAmmoEvaluator) Desirability(e *Enemy) float64 {
	if e.weapon.AmmoFrac() >= 1 || e.itemIgnored(ItemAmmo) {
		return 0
	}
	item := e.world.NearestItem(e, ItemAmmo)
	if item == nil {
		return 0
	}
	dist := e.world.ItemDistance(e, item)
	score := e.arche.AmmoTweaker * (1 - e.weapon.AmmoFrac()) / (1 + dist/itemDistanceHalf)
	return clamp01(score)
}

func (GetAmmoEvaluator) SetGoal(e *Enemy) {
	if gi, ok := e.brain.Front().(*GetItemGoal); ok {
		if gi.Item() != nil && gi.Item().Kind == ItemAmmo && gi.Item().Available() {
			return
		}
	}
	item := e.world.NearestItem(e, ItemAmmo)
	if item == nil {
		return
	}
	e.brain.installGoal(NewGetItemGoal(e, item), ammoEvaluatorOf(e))
}

// evaluatorOf helpers keep Think's current pointer consistent when SetGoal
// installs a goal (installGoal overwrites current with the given value).
func exploreEvaluatorOf(e *Enemy) GoalEvaluator { return e.brain.findEvaluator("explore") }
func attackEvaluatorOf(e *Enemy) GoalEvaluator  { return e.brain.findEvaluator("attack") }
func healthEvaluatorOf(e *Enemy) GoalEvaluator  { return e.brain.findEvaluator("get_health") }
func ammoEvaluatorOf(e *Enemy) GoalEvaluator    { return e.brain.findEvaluator("get_ammo") }

func (t *ThinkGoal) findEvaluator(name string) GoalEvaluator {
	for _, ev := range t.evaluators {
		if ev.Name() == name {
			return ev
		}
	}
	return nil
}
