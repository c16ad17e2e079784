package drive

import (
	"github.com/golang/glog"

	"github.com/robotalks/linetracer/pkg/sensing"
)

// MaxSpeed is the largest PWM duty accepted by the motor driver.
const MaxSpeed = 255

// Output is the drive state handed to the motors and the display.
type Output struct {
	Left     uint8
	Right    uint8
	Category Category
	Label    string
}

// Decision is the result of mapping one frame.
type Decision struct {
	Pattern Pattern
	// Rule is the matched rule, nil if no rule matched.
	Rule *Rule
	// Output is the effective output: freshly computed on a match,
	// otherwise carried over from the previous cycle.
	Output Output
}

// Matched indicates a rule matched in this cycle.
func (d Decision) Matched() bool {
	return d.Rule != nil
}

// Clamp bounds a computed speed to [0, MaxSpeed].
func Clamp(s int) uint8 {
	if s > MaxSpeed {
		return MaxSpeed
	}
	if s < 0 {
		return 0
	}
	return uint8(s)
}

// Mapper turns cancelled values and a base speed into wheel speeds. It
// keeps the last output, which is reused whenever no rule matches.
type Mapper struct {
	Threshold uint8
	// Rules defaults to the package rule table when nil.
	Rules []Rule

	last Output
}

// NewMapper creates a Mapper with the default rule table.
func NewMapper(threshold uint8) *Mapper {
	return &Mapper{Threshold: threshold, Rules: Rules}
}

// Map classifies v and computes the output for this cycle.
func (m *Mapper) Map(v sensing.Values, base int) Decision {
	rules := m.Rules
	if rules == nil {
		rules = Rules
	}
	d := Decision{Pattern: PatternOf(v, m.Threshold)}
	if d.Rule = Match(rules, d.Pattern); d.Rule != nil {
		left, right := d.Rule.Speeds(base)
		m.last = Output{
			Left:     Clamp(left),
			Right:    Clamp(right),
			Category: d.Rule.Category,
			Label:    d.Rule.Label(),
		}
	} else if glog.V(2) {
		glog.Infof("pattern %s unclassified, keeping %s", d.Pattern, m.last.Category)
	}
	d.Output = m.last
	return d
}

// Last returns the output of the most recent cycle.
func (m *Mapper) Last() Output {
	return m.last
}

// Reset forgets the retained output.
func (m *Mapper) Reset() {
	m.last = Output{}
}
