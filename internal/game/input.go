package game

// InputState is the raw per-tick player intent, written by the front end
// (or a test script) and consumed by the player controller. The controller
// does its own edge detection on Jump and Crouch.
type InputState struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Sprint  bool
	Jump    bool
	Crouch  bool
	Fire    bool
	Reload  bool

	// Aim, driven by the mouse in the front end.
	Yaw   float64
	Pitch float64
}

// MoveAxes returns the raw strafe/forward axes in {-1, 0, 1}.
func (in *InputState) MoveAxes() (forward, strafe float64) {
	if in.Forward {
		forward++
	}
	if in.Back {
		forward--
	}
	if in.Right {
		strafe++
	}
	if in.Left {
		strafe--
	}
	return forward, strafe
}

// HasMove reports whether any movement key is down.
func (in *InputState) HasMove() bool {
	return in.Forward || in.Back || in.Left || in.Right
}
