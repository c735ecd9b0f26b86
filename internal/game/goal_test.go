package game

import "testing"

// stubGoal is a scriptable leaf goal that counts lifecycle calls.
type stubGoal struct {
	goalBase
	name       string
	results    []GoalStatus // consumed one per Execute; last repeats
	activated  int
	executed   int
	terminated int
}

func (s *stubGoal) Name() string { return s.name }

func (s *stubGoal) Activate() {
	s.activated++
	s.status = GoalActive
}

func (s *stubGoal) Execute() GoalStatus {
	s.executed++
	if len(s.results) > 0 {
		s.status = s.results[0]
		if len(s.results) > 1 {
			s.results = s.results[1:]
		}
	}
	return s.status
}

func (s *stubGoal) Terminate() {
	s.terminated++
	s.status = GoalInactive
}

func TestCompositeGoal_EmptyListCompletes(t *testing.T) {
	var c CompositeGoal
	if st := c.executeSubgoals(); st != GoalCompleted {
		t.Fatalf("empty composite = %v, want completed", st)
	}
}

func TestCompositeGoal_ActivatesFrontOnFirstExecute(t *testing.T) {
	var c CompositeGoal
	g := &stubGoal{name: "a", results: []GoalStatus{GoalActive}}
	c.PushBack(g)
	c.executeSubgoals()
	if g.activated != 1 || g.executed != 1 {
		t.Fatalf("activated=%d executed=%d, want 1/1", g.activated, g.executed)
	}
	c.executeSubgoals()
	if g.activated != 1 {
		t.Fatal("an active goal must not be re-activated")
	}
}

func TestCompositeGoal_CompletedFrontPopsAndDefers(t *testing.T) {
	var c CompositeGoal
	a := &stubGoal{name: "a", results: []GoalStatus{GoalCompleted}}
	b := &stubGoal{name: "b", results: []GoalStatus{GoalActive}}
	c.PushBack(a)
	c.PushBack(b)

	// Tick 1: a completes and is popped, but b does not run yet.
	if st := c.executeSubgoals(); st != GoalActive {
		t.Fatalf("composite after pop = %v, want active", st)
	}
	if a.terminated != 1 {
		t.Fatalf("popped goal terminated %d times, want exactly 1", a.terminated)
	}
	if b.executed != 0 {
		t.Fatal("the next subgoal must wait for the next tick")
	}

	// Tick 2: b starts.
	c.executeSubgoals()
	if b.activated != 1 || b.executed != 1 {
		t.Fatalf("b activated=%d executed=%d, want 1/1", b.activated, b.executed)
	}
}

func TestCompositeGoal_LastCompletionReportsCompleted(t *testing.T) {
	var c CompositeGoal
	c.PushBack(&stubGoal{name: "only", results: []GoalStatus{GoalCompleted}})
	if st := c.executeSubgoals(); st != GoalCompleted {
		t.Fatalf("composite = %v, want completed when the last subgoal finishes", st)
	}
}

func TestCompositeGoal_FailureBubbles(t *testing.T) {
	var c CompositeGoal
	f := &stubGoal{name: "f", results: []GoalStatus{GoalFailed}}
	c.PushBack(f)
	c.PushBack(&stubGoal{name: "unreached"})
	if st := c.executeSubgoals(); st != GoalFailed {
		t.Fatalf("composite = %v, want failed", st)
	}
}

func TestCompositeGoal_RemoveAllTerminatesEverySubgoal(t *testing.T) {
	var c CompositeGoal
	a := &stubGoal{name: "a"}
	b := &stubGoal{name: "b"}
	c.PushBack(a)
	c.PushBack(b)
	c.RemoveAllSubgoals()
	if a.terminated != 1 || b.terminated != 1 {
		t.Fatalf("terminated a=%d b=%d, want 1/1", a.terminated, b.terminated)
	}
	if c.Front() != nil {
		t.Fatal("subgoal list should be empty")
	}
}

func TestCompositeGoal_PushFrontRunsFirst(t *testing.T) {
	var c CompositeGoal
	back := &stubGoal{name: "back"}
	front := &stubGoal{name: "front", results: []GoalStatus{GoalActive}}
	c.PushBack(back)
	c.PushFront(front)
	c.executeSubgoals()
	if front.executed != 1 || back.executed != 0 {
		t.Fatal("PushFront goal should pre-empt the queue")
	}
}

func TestThinkGoal_FallsBackToExplore(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithBot("aggressive", 1))
	bot := ts.Bots[0]
	ts.Step(2)
	if _, ok := bot.Brain().Front().(*ExploreGoal); !ok {
		t.Fatalf("idle bot goal = %q, want explore", bot.Brain().CurrentGoalName())
	}
}

func TestThinkGoal_AttackWinsWithVisibleTarget(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithSeed(5),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{8, 0, 0}),
	)
	a := ts.Bots[0]
	a.Yaw = 0 // facing +X, straight at the other bot
	ts.Step(6) // at least one think interval

	atk, ok := a.Brain().Front().(*AttackGoal)
	if !ok {
		t.Fatalf("goal with a visible enemy = %q, want attack", a.Brain().CurrentGoalName())
	}
	if atk.Target() != ts.Bots[1].ID() {
		t.Fatalf("attack target = %d, want %d", atk.Target(), ts.Bots[1].ID())
	}
}

func TestThinkGoal_AttackHysteresisKeepsGoalInstance(t *testing.T) {
	ts := NewTestSim(
		WithFlatArena(30),
		WithSeed(5),
		WithBotAt("aggressive", 0, Vec3{0, 0, 0}),
		WithBotAt("aggressive", 1, Vec3{12, 0, 0}),
	)
	a := ts.Bots[0]
	a.Yaw = 0
	ts.Step(6)

	first, ok := a.Brain().Front().(*AttackGoal)
	if !ok {
		t.Fatalf("expected attack goal, got %q", a.Brain().CurrentGoalName())
	}
	// Several more think intervals against the same target must not
	// replace the goal instance.
	ts.Step(10)
	second, ok := a.Brain().Front().(*AttackGoal)
	if !ok {
		t.Fatalf("attack goal dropped: %q", a.Brain().CurrentGoalName())
	}
	if first != second {
		t.Fatal("re-arbitration replaced the attack goal for the same target")
	}
}

func TestThinkGoal_GoalChangesAreLogged(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithBot("aggressive", 1))
	ts.Step(10)
	if len(ts.World.Log().Filter("goal", "change")) == 0 {
		t.Fatal("goal installs should be recorded in the sim log")
	}
}
