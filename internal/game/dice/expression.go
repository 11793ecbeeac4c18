package dice

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expression is a parsed "NdS+M" damage expression, as used by species
// natural attacks.
//
// Invariant: Count >= 1 and Sides >= 1 after a successful Parse.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Parse parses an expression of the form "d4", "2d6", "2d6+3" or "3d8-2".
// A bare integer such as "5" parses as a flat amount.
//
// Precondition: expr must be non-empty.
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	d := strings.IndexByte(s, 'd')
	if d < 0 {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid flat amount %q: %w", expr, err)
		}
		return Expression{Raw: expr, Modifier: flat}, nil
	}

	out := Expression{Raw: expr, Count: 1}
	if d > 0 {
		n, err := strconv.Atoi(s[:d])
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q", expr)
		}
		out.Count = n
	}

	rest := s[d+1:]
	sidesStr := rest
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr = rest[:i]
		mod, err := strconv.Atoi(rest[i:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
		out.Modifier = mod
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q", expr)
	}
	out.Sides = sides
	return out, nil
}

// MustParse parses expr and panics on error. Useful for package-level values.
//
// Precondition: expr must be a valid expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Roll evaluates the expression against src.
//
// Postcondition: Count+Modifier <= result <= Count*Sides+Modifier.
func (e Expression) Roll(src Source) int {
	return Dice(src, e.Count, e.Sides) + e.Modifier
}

// Max returns the largest value the expression can produce.
func (e Expression) Max() int {
	return e.Count*e.Sides + e.Modifier
}

// String returns the canonical form of the expression.
func (e Expression) String() string {
	if e.Count == 0 {
		return strconv.Itoa(e.Modifier)
	}
	if e.Modifier == 0 {
		return fmt.Sprintf("%dd%d", e.Count, e.Sides)
	}
	return fmt.Sprintf("%dd%d%+d", e.Count, e.Sides, e.Modifier)
}

// UnmarshalYAML parses an expression from a YAML scalar.
func (e *Expression) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
