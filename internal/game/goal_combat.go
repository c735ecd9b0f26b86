package game

const (
	dodgeTicks       = 45  // duration of one strafe leg
	huntGiveUpTicks  = 600 // abandon a stale hunt after this long
	chargeStopFactor = 0.9 // charge ends inside preferred range × this
)

// --- HuntGoal ---

// HuntGoal moves to a target's last remembered position. It completes when
// the target becomes visible, or when the position is reached (the stale
// memory is then forgotten).
type HuntGoal struct {
	CompositeGoal
	owner   *Enemy
	target  EntityID
	started int
}

func NewHuntGoal(owner *Enemy, target EntityID) *HuntGoal {
	return &HuntGoal{owner: owner, target: target}
}

func (g *HuntGoal) Name() string { return "hunt" }

func (g *HuntGoal) Activate() {
	g.RemoveAllSubgoals()
	g.status = GoalActive
	g.started = g.owner.world.tick
	rec := g.owner.memory.Record(g.target)
	if rec == nil {
		g.status = GoalFailed
		return
	}
	g.PushBack(NewFindPathGoal(g.owner, rec.LastSeenPos))
	g.PushBack(NewFollowPathGoal(g.owner))
}

func (g *HuntGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	rec := g.owner.memory.Record(g.target)
	if rec == nil {
		g.status = GoalFailed
		return g.status
	}
	if rec.Visible {
		g.status = GoalCompleted
		return g.status
	}
	if g.owner.world.tick-g.started > huntGiveUpTicks {
		g.owner.memory.Forget(g.target)
		g.status = GoalFailed
		return g.status
	}
	switch g.executeSubgoals() {
	case GoalCompleted:
		// Arrived and nobody is here: the memory is stale.
		g.owner.memory.Forget(g.target)
		g.status = GoalCompleted
	case GoalFailed:
		g.status = GoalFailed
	}
	return g.status
}

func (g *HuntGoal) Terminate() {
	g.RemoveAllSubgoals()
	g.owner.steering.Clear()
	g.status = GoalInactive
}

// --- DodgeGoal ---

// DodgeGoal strafes perpendicular to the line toward the target, flipping
// direction each leg. Facing stays on the target so the owner keeps firing.
type DodgeGoal struct {
	goalBase
	owner  *Enemy
	target EntityID
	timer  int
	sign   float64
}

func NewDodgeGoal(owner *Enemy, target EntityID) *DodgeGoal {
	return &DodgeGoal{owner: owner, target: target}
}

func (g *DodgeGoal) Name() string { return "dodge" }

func (g *DodgeGoal) Activate() {
	g.status = GoalActive
	g.timer = dodgeTicks
	g.sign = 1
	if g.owner.world.rng.Intn(2) == 0 {
		g.sign = -1
	}
}

func (g *DodgeGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	rec := g.owner.memory.Record(g.target)
	if rec == nil || !rec.Visible {
		g.status = GoalCompleted
		return g.status
	}
	to := rec.LastSeenPos.Sub(g.owner.Pos).NormXZ()
	side := Vec3{-to.Z, 0, to.X}.Scale(g.sign)
	g.owner.steering.Strafe(side)
	g.timer--
	if g.timer <= 0 {
		g.status = GoalCompleted
	}
	return g.status
}

func (g *DodgeGoal) Terminate() {
	g.owner.steering.Clear()
	g.status = GoalInactive
}

// --- ChargeGoal ---

// ChargeGoal closes straight in on the target until inside the archetype's
// preferred engagement range.
type ChargeGoal struct {
	goalBase
	owner  *Enemy
	target EntityID
}

func NewChargeGoal(owner *Enemy, target EntityID) *ChargeGoal {
	return &ChargeGoal{owner: owner, target: target}
}

func (g *ChargeGoal) Name() string { return "charge" }

func (g *ChargeGoal) Activate() {
	g.status = GoalActive
}

func (g *ChargeGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	rec := g.owner.memory.Record(g.target)
	if rec == nil {
		g.status = GoalFailed
		return g.status
	}
	if !rec.Visible {
		g.status = GoalCompleted // lost sight; Attack replans
		return g.status
	}
	dist := g.owner.Pos.DistToXZ(rec.LastSeenPos)
	if dist <= g.owner.arche.PreferredRange*chargeStopFactor {
		g.status = GoalCompleted
		return g.status
	}
	g.owner.steering.Seek(rec.LastSeenPos)
	return g.status
}

func (g *ChargeGoal) Terminate() {
	g.owner.steering.Clear()
	g.status = GoalInactive
}

// --- AttackGoal ---

// AttackGoal engages one target: charge in when too far, strafe when in
// range, hunt when sight is lost. Trigger discipline itself lives in the
// enemy controller; this goal only positions the owner.
type AttackGoal struct {
	CompositeGoal
	owner  *Enemy
	target EntityID
}

func NewAttackGoal(owner *Enemy, target EntityID) *AttackGoal {
	return &AttackGoal{owner: owner, target: target}
}

func (g *AttackGoal) Name() string { return "attack" }

func (g *AttackGoal) Activate() {
	g.RemoveAllSubgoals()
	g.status = GoalActive
	rec := g.owner.memory.Record(g.target)
	if rec == nil {
		g.status = GoalFailed
		return
	}
	switch {
	case !rec.Visible:
		g.PushBack(NewHuntGoal(g.owner, g.target))
	case g.owner.Pos.DistToXZ(rec.LastSeenPos) > g.owner.arche.PreferredRange*1.5:
		g.PushBack(NewChargeGoal(g.owner, g.target))
	default:
		g.PushBack(NewDodgeGoal(g.owner, g.target))
	}
}

func (g *AttackGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	rec := g.owner.memory.Record(g.target)
	if rec == nil {
		// Target dead or fully forgotten; nothing left to fight.
		g.status = GoalCompleted
		return g.status
	}
	switch g.executeSubgoals() {
	case GoalCompleted, GoalFailed:
		// Re-pick a tactic for the current situation.
		g.Activate()
	}
	return g.status
}

func (g *AttackGoal) Terminate() {
	g.RemoveAllSubgoals()
	g.owner.steering.Clear()
	g.status = GoalInactive
}

// Target returns the entity this goal is engaging.
func (g *AttackGoal) Target() EntityID { return g.target }

// --- GetItemGoal ---

// GetItemGoal paths to a pickup. It fails when the item is taken by
// someone else first; the evaluator then puts the item kind on the
// owner's ignore list for a while to avoid futile loops.
type GetItemGoal struct {
	CompositeGoal
	owner *Enemy
	item  *Item
}

func NewGetItemGoal(owner *Enemy, item *Item) *GetItemGoal {
	return &GetItemGoal{owner: owner, item: item}
}

func (g *GetItemGoal) Name() string { return "get_item" }

// Item returns the pickup this goal is pursuing.
func (g *GetItemGoal) Item() *Item { return g.item }

func (g *GetItemGoal) Activate() {
	g.RemoveAllSubgoals()
	g.status = GoalActive
	if g.item == nil || !g.item.Available() {
		g.status = GoalFailed
		return
	}
	g.PushBack(NewFindPathGoal(g.owner, g.item.Pos))
	g.PushBack(NewFollowPathGoal(g.owner))
}

func (g *GetItemGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	if !g.item.Available() {
		if g.item.LastTakenBy == g.owner.ID() {
			g.status = GoalCompleted
		} else {
			// Beaten to the pickup; stop chasing this kind for a while.
			g.owner.ignoreItem(g.item.Kind)
			g.status = GoalFailed
		}
		return g.status
	}
	switch g.executeSubgoals() {
	case GoalCompleted:
		// Arrived but the pickup radius check has not fired yet; nudge in.
		g.owner.steering.Seek(g.item.Pos)
	case GoalFailed:
		g.status = GoalFailed
	}
	return g.status
}

func (g *GetItemGoal) Terminate() {
	g.RemoveAllSubgoals()
	g.owner.steering.Clear()
	g.status = GoalInactive
}
