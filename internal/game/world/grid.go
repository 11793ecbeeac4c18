package world

import (
	"sync"
)

// Explosion records one Explode call.
type Explosion struct {
	At    Point
	Power int
}

// Event records one ScheduleEvent call.
type Event struct {
	Name  string
	At    Point
	Delay int
}

// Spawn records one SpawnCreature call.
type Spawn struct {
	At      Point
	Species string
}

// Ward records one PreventResurrection call.
type Ward struct {
	At     Point
	Radius int
}

// Grid is an in-memory World of width by height tiles on every level with
// optional solid tiles. It is used by the arena binary and by tests.
// It is thread-safe via sync.RWMutex.
type Grid struct {
	mu         sync.RWMutex
	width      int
	height     int
	solid      map[Point]bool
	items      map[Point][]Item
	fields     map[Point]map[string]int
	spawns     []Spawn
	explosions []Explosion
	events     []Event
	wards      []Ward
}

// NewGrid creates an open Grid.
//
// Precondition: width and height must be > 0.
// Postcondition: every in-bounds tile is passable.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		solid:  make(map[Point]bool),
		items:  make(map[Point][]Item),
		fields: make(map[Point]map[string]int),
	}
}

// SetSolid marks p as a wall.
func (g *Grid) SetSolid(p Point) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.solid[p] = true
}

func (g *Grid) passable(p Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= g.width || p.Y >= g.height {
		return false
	}
	return !g.solid[p]
}

// Passable reports whether p is in bounds and not solid.
func (g *Grid) Passable(p Point) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.passable(p)
}

// ClearLine walks a Bresenham line from a to b and reports whether every
// tile after a is passable. Lines between levels are never clear.
func (g *Grid) ClearLine(a, b Point) bool {
	if a.Z != b.Z {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range Line(a, b)[1:] {
		if !g.passable(p) {
			return false
		}
	}
	return true
}

// Line returns the Bresenham line from a to b, both ends included.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	out := []Point{a}
	p := a
	for p.X != b.X || p.Y != b.Y {
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
		out = append(out, p)
	}
	return out
}

// SpawnItem places item at p.
//
// Postcondition: Returns ErrBlocked and leaves the grid unchanged when p is not passable.
func (g *Grid) SpawnItem(p Point, item Item) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.passable(p) {
		return ErrBlocked
	}
	g.items[p] = append(g.items[p], item)
	return nil
}

// SpawnField adds intensity to the field of kind at p.
func (g *Grid) SpawnField(p Point, kind string, intensity int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.passable(p) {
		return ErrBlocked
	}
	if g.fields[p] == nil {
		g.fields[p] = make(map[string]int)
	}
	g.fields[p][kind] += intensity
	return nil
}

// SpawnCreature records a creature spawn at p.
func (g *Grid) SpawnCreature(p Point, species string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.passable(p) {
		return ErrBlocked
	}
	g.spawns = append(g.spawns, Spawn{At: p, Species: species})
	return nil
}

// Explode records a blast at p.
func (g *Grid) Explode(p Point, power int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.explosions = append(g.explosions, Explosion{At: p, Power: power})
	return nil
}

// ScheduleEvent records a world event.
func (g *Grid) ScheduleEvent(name string, p Point, delay int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, Event{Name: name, At: p, Delay: delay})
	return nil
}

// PreventResurrection records a ward against revival.
func (g *Grid) PreventResurrection(p Point, radius int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.wards = append(g.wards, Ward{At: p, Radius: radius})
}

// Warded reports whether p lies within any ward.
func (g *Grid) Warded(p Point) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, w := range g.wards {
		if w.At.Z == p.Z && w.At.Distance(p) <= w.Radius {
			return true
		}
	}
	return false
}

// ItemsAt returns a snapshot copy of the items at p.
//
// Postcondition: returned slice is a copy; mutations do not affect internal state.
func (g *Grid) ItemsAt(p Point) []Item {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Item, len(g.items[p]))
	copy(out, g.items[p])
	return out
}

// Items returns a snapshot of every placed item, keyed by position.
func (g *Grid) Items() map[Point][]Item {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[Point][]Item, len(g.items))
	for p, items := range g.items {
		out[p] = append([]Item(nil), items...)
	}
	return out
}

// Pickup removes and returns the item with instanceID at p.
//
// Postcondition: on failure the grid is unchanged.
func (g *Grid) Pickup(p Point, instanceID string) (Item, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	items := g.items[p]
	for i, it := range items {
		if it.InstanceID == instanceID {
			g.items[p] = append(items[:i], items[i+1:]...)
			return it, true
		}
	}
	return Item{}, false
}

// FieldAt returns the intensity of kind at p.
func (g *Grid) FieldAt(p Point, kind string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.fields[p][kind]
}

// FieldTotal returns the summed intensity of kind over the whole grid.
func (g *Grid) FieldTotal(kind string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, f := range g.fields {
		total += f[kind]
	}
	return total
}

// Spawns returns a copy of every creature spawn.
func (g *Grid) Spawns() []Spawn {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Spawn(nil), g.spawns...)
}

// Explosions returns a copy of every recorded blast.
func (g *Grid) Explosions() []Explosion {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Explosion(nil), g.explosions...)
}

// Events returns a copy of every scheduled event.
func (g *Grid) Events() []Event {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Event(nil), g.events...)
}
