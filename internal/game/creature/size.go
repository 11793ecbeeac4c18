package creature

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size is a creature size class.
type Size int

const (
	Tiny Size = iota
	Small
	Medium
	Large
	Huge
)

var sizeNames = [...]string{"tiny", "small", "medium", "large", "huge"}

// String returns the lower-case size name.
func (s Size) String() string {
	if s >= Tiny && s <= Huge {
		return sizeNames[s]
	}
	return fmt.Sprintf("size(%d)", int(s))
}

// ParseSize parses a size class name.
func ParseSize(s string) (Size, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range sizeNames {
		if n == s {
			return Size(i), nil
		}
	}
	return Medium, fmt.Errorf("creature: unknown size %q", s)
}

// UnmarshalYAML parses a Size from a YAML scalar.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseSize(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Material is what a body is made of. It decides how ammunition effects and
// gibbing behave.
type Material string

const (
	Flesh       Material = "flesh"
	HumanFlesh  Material = "hflesh"
	InsectFlesh Material = "iflesh"
	Vegetable   Material = "veggy"
	Bone        Material = "bone"
	Cotton      Material = "cotton"
	Wood        Material = "wood"
	Paper       Material = "paper"
	Stone       Material = "stone"
	Steel       Material = "steel"
	Liquid      Material = "water"
	Powder      Material = "powder"
)

// Fleshy reports whether m is an organic tissue that bleeds and burns.
func (m Material) Fleshy() bool {
	switch m {
	case Flesh, HumanFlesh, InsectFlesh:
		return true
	}
	return false
}

// Flammable reports whether m burns readily.
func (m Material) Flammable() bool {
	switch m {
	case Vegetable, Cotton, Wood, Paper, Powder:
		return true
	}
	return false
}

// Gibbable reports whether m leaves gibs when torn apart.
func (m Material) Gibbable() bool {
	return m.Fleshy() || m == Vegetable || m == Bone
}
