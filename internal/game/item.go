package game

const pickupRadius = 1.2 // metres

// ItemKind distinguishes pickup types.
type ItemKind uint8

const (
	ItemHealth ItemKind = iota
	ItemAmmo
)

func (k ItemKind) String() string {
	switch k {
	case ItemHealth:
		return "health"
	case ItemAmmo:
		return "ammo"
	default:
		return "unknown"
	}
}

// Item is a pickup on the arena floor. Taken items respawn after a fixed
// delay; while down they are invisible to evaluators and pickup checks.
type Item struct {
	Kind         ItemKind
	Pos          Vec3
	Region       *Region
	Amount       float64 // heal points or ammo rounds
	RespawnTicks int

	available   bool
	respawnAt   int
	LastTakenBy EntityID
}

// NewItem places an available pickup.
func NewItem(kind ItemKind, pos Vec3, amount float64, respawnTicks int) *Item {
	return &Item{
		Kind:         kind,
		Pos:          pos,
		Amount:       amount,
		RespawnTicks: respawnTicks,
		available:    true,
	}
}

// Available reports whether the item can currently be picked up.
func (it *Item) Available() bool { return it.available }

// take marks the item consumed by the given entity.
func (it *Item) take(by EntityID, tick int) {
	it.available = false
	it.respawnAt = tick + it.RespawnTicks
	it.LastTakenBy = by
}

// updateItems respawns expired pickups and hands available ones to any
// combatant standing on them. The effect is applied by the receiver's own
// ITEM_TAKEN handler, not here.
func (w *World) updateItems() {
	for _, it := range w.items {
		if !it.available {
			if w.tick >= it.respawnAt {
				it.available = true
				it.LastTakenBy = 0
			}
			continue
		}
		for _, ent := range w.Combatants() {
			if ent.Life().Status != StatusAlive {
				continue
			}
			// 3D distance so floor traffic cannot take platform items.
			if ent.Kin().Pos.DistTo(it.Pos) > pickupRadius {
				continue
			}
			// Full-health entities leave health packs for later.
			if it.Kind == ItemHealth && ent.Life().HealthFrac() >= 1 {
				continue
			}
			it.take(ent.ID(), w.tick)
			w.bus.Dispatch(ent, Telegram{Kind: TelegramItemTaken, Item: it})
			w.simlog.Add(w.tick, ent.Label(), teamName(ent.Team()), "item", "taken", it.Kind.String(), it.Amount)
			break
		}
	}
}

// NearestItem returns the closest available item of a kind, by cost-table
// distance, or nil when none is up.
func (w *World) NearestItem(e *Enemy, kind ItemKind) *Item {
	var best *Item
	bestDist := 0.0
	for _, it := range w.items {
		if it.Kind != kind || !it.available {
			continue
		}
		d := w.ItemDistance(e, it)
		if best == nil || d < bestDist {
			best = it
			bestDist = d
		}
	}
	return best
}

// ItemDistance estimates travel distance to an item: the precomputed
// region-to-region cost plus the local straight-line legs. O(1) thanks to
// the cost table.
func (w *World) ItemDistance(e *Enemy, it *Item) float64 {
	if e.region == nil || it.Region == nil {
		return e.Pos.DistToXZ(it.Pos)
	}
	if e.region == it.Region {
		return e.Pos.DistToXZ(it.Pos)
	}
	return e.Pos.DistToXZ(e.region.Centroid) +
		w.mesh.Cost(e.region.Index, it.Region.Index) +
		it.Region.Centroid.DistToXZ(it.Pos)
}
