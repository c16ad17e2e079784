// Package drive classifies the line position seen by the sensor bar and
// maps it to differential wheel speeds.
package drive

import (
	"fmt"
	"strings"

	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/sensing"
)

// DefaultThreshold separates line (below) from background.
const DefaultThreshold uint8 = 120

// TurnDivisor slows the inner wheel in a turn.
const TurnDivisor = 6

// Level is the thresholded state of one channel.
type Level uint8

// Levels
const (
	AtOrAbove Level = iota
	Below
)

// String implements fmt.Stringer.
func (l Level) String() string {
	if l == Below {
		return "B"
	}
	return "A"
}

// Pattern is the thresholded state of all channels, left to right.
type Pattern [hw.Channels]Level

// PatternOf thresholds the cancelled values.
func PatternOf(v sensing.Values, threshold uint8) (p Pattern) {
	for i, val := range v {
		if val < threshold {
			p[i] = Below
		}
	}
	return
}

// ParsePattern parses a pattern written as five letters, B for below
// and A for at or above, e.g. "AABAA".
func ParsePattern(s string) (p Pattern, err error) {
	if len(s) != len(p) {
		return p, fmt.Errorf("pattern %q: want %d levels", s, len(p))
	}
	for i, c := range strings.ToUpper(s) {
		switch c {
		case 'A':
			p[i] = AtOrAbove
		case 'B':
			p[i] = Below
		default:
			return p, fmt.Errorf("pattern %q: invalid level %q", s, c)
		}
	}
	return
}

// MustParsePattern is ParsePattern which panics on error.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String implements fmt.Stringer.
func (p Pattern) String() string {
	var sb strings.Builder
	for _, l := range p {
		sb.WriteString(l.String())
	}
	return sb.String()
}

// Category is the named line position.
type Category int

// Categories
const (
	Unclassified Category = iota
	Forward
	TurnLeft
	TurnRight
	Stop
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case Unclassified:
		return "Unclassified"
	case Forward:
		return "Forward"
	case TurnLeft:
		return "Turn Left"
	case TurnRight:
		return "Turn Right"
	case Stop:
		return "Stop"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Surface marks shown after the category on the display.
const (
	MarkLine  = "BL"
	MarkWhite = "WH"
)

// SpeedRule computes pre-clamp wheel speeds from the base speed.
type SpeedRule func(base int) (left, right int)

// Straight drives both wheels at base speed.
func Straight(base int) (int, int) { return base, base }

// PivotLeft slows the left wheel.
func PivotLeft(base int) (int, int) { return base / TurnDivisor, base }

// PivotRight slows the right wheel.
func PivotRight(base int) (int, int) { return base, base / TurnDivisor }

// Halt stops both wheels regardless of base speed.
func Halt(int) (int, int) { return 0, 0 }

// Rule maps one exact pattern to a category and speeds.
type Rule struct {
	Pattern  Pattern
	Category Category
	Mark     string
	Speeds   SpeedRule
}

// Label is the display text for the rule, e.g. "Forward      BL".
func (r *Rule) Label() string {
	return fmt.Sprintf("%-13s%s", r.Category.String(), r.Mark)
}

// Rules is the priority-ordered rule table. The two Forward entries
// are a narrow line under the center sensor and a wide line under the
// three middle sensors.
var Rules = []Rule{
	{Pattern: MustParsePattern("AABAA"), Category: Forward, Mark: MarkLine, Speeds: Straight},
	{Pattern: MustParsePattern("ABBBA"), Category: Forward, Mark: MarkLine, Speeds: Straight},
	{Pattern: MustParsePattern("BAAAA"), Category: TurnLeft, Mark: MarkLine, Speeds: PivotLeft},
	{Pattern: MustParsePattern("AAAAB"), Category: TurnRight, Mark: MarkLine, Speeds: PivotRight},
	{Pattern: MustParsePattern("AAAAA"), Category: Stop, Mark: MarkWhite, Speeds: Halt},
}

// Match returns the first rule matching p, or nil.
func Match(rules []Rule, p Pattern) *Rule {
	for n := range rules {
		if rules[n].Pattern == p {
			return &rules[n]
		}
	}
	return nil
}

// Classify is the memoryless classification of cancelled values.
// Patterns without a rule are Unclassified.
func Classify(v sensing.Values, threshold uint8) Category {
	if r := Match(Rules, PatternOf(v, threshold)); r != nil {
		return r.Category
	}
	return Unclassified
}
