package game

// TelegramKind categorises entity-to-entity messages.
type TelegramKind uint8

const (
	TelegramHit       TelegramKind = iota // damage delivery; Damage + Dir set
	TelegramDead                          // broadcast on a kill; informs target reassignment
	TelegramItemTaken                     // pickup applied; Item set
	TelegramRespawned                     // sender re-entered play after death
)

func (k TelegramKind) String() string {
	switch k {
	case TelegramHit:
		return "hit"
	case TelegramDead:
		return "dead"
	case TelegramItemTaken:
		return "item_taken"
	case TelegramRespawned:
		return "respawned"
	default:
		return "unknown"
	}
}

// Telegram is one typed message between entities. Delivery is synchronous:
// a telegram sent during a tick is handled before the sender's call
// returns. Damage is only ever applied by the receiver's own handler,
// keeping a single writer per entity's health.
type Telegram struct {
	Kind   TelegramKind
	Sender Entity

	Damage   float64 // TelegramHit
	Headshot bool    // TelegramHit
	Dir      Vec3    // TelegramHit: direction the shot travelled
	Item     *Item   // TelegramItemTaken
}

// BusObserver is notified after every successful dispatch. Game modes and
// the HUD listen without being addressable entities themselves.
type BusObserver interface {
	ObserveTelegram(to Entity, t Telegram)
}

// Bus routes telegrams between entities the same tick they are sent.
// There is no cross-frame queue.
type Bus struct {
	observers []BusObserver
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Observe registers a passive listener for all delivered telegrams.
func (b *Bus) Observe(o BusObserver) {
	b.observers = append(b.observers, o)
}

// Dispatch delivers a telegram to one entity, returning whether the
// receiver handled it.
func (b *Bus) Dispatch(to Entity, t Telegram) bool {
	if to == nil {
		return false
	}
	handled := to.HandleTelegram(t)
	if handled {
		for _, o := range b.observers {
			o.ObserveTelegram(to, t)
		}
	}
	return handled
}

// Broadcast delivers a telegram to every listed entity except the sender
// and the excluded entity (either may be nil).
func (b *Bus) Broadcast(entities []Entity, except Entity, t Telegram) {
	for _, e := range entities {
		if e == t.Sender || e == except {
			continue
		}
		b.Dispatch(e, t)
	}
}
