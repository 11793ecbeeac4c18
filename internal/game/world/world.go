// Package world defines what the combat core needs from the map: spawning
// items, fields and creatures, world events, and line-of-travel checks.
package world

import (
	"errors"
	"fmt"
)

// ErrBlocked is returned when a spawn targets a tile that cannot hold it.
var ErrBlocked = errors.New("world: tile is blocked")

// Point is a map coordinate.
type Point struct {
	X, Y, Z int
}

// Offset returns p moved by dx, dy on the same level.
func (p Point) Offset(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}

// Distance returns the Chebyshev distance between p and q on one level.
func (p Point) Distance(q Point) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// String returns "(x,y,z)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Item is one item instance placed on the map.
type Item struct {
	InstanceID string
	DefID      string
	Name       string
	Quantity   int
	// CorpseOf is the species id when the item is a corpse.
	CorpseOf string
	// Damage is the corpse damage level.
	Damage int
}

// Field kinds spawned by death resolution.
const (
	FieldBlood  = "blood"
	FieldGibs   = "gibs"
	FieldSpores = "spores"
)

// World is the map collaborator. Implementations decide what a blocked tile is.
type World interface {
	// SpawnItem places item at p.
	SpawnItem(p Point, item Item) error
	// SpawnField adds a field of kind with the given intensity at p.
	SpawnField(p Point, kind string, intensity int) error
	// SpawnCreature places a new creature of species at p.
	SpawnCreature(p Point, species string) error
	// Explode detonates a blast of power centered on p.
	Explode(p Point, power int) error
	// ScheduleEvent queues a named world event at p after delay turns.
	ScheduleEvent(name string, p Point, delay int) error
	// PreventResurrection stops corpses within radius of p from reviving.
	PreventResurrection(p Point, radius int)
	// ClearLine reports whether every tile from a to b is passable.
	ClearLine(a, b Point) bool
	// Passable reports whether p can hold items and fields.
	Passable(p Point) bool
}
