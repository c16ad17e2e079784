package tracer

import (
	"fmt"
	"time"

	"github.com/robotalks/linetracer/pkg/sensing"
)

// Display rows.
const (
	ValuesRow = 0
	LabelRow  = 1
)

// DefaultDisplayHold is how long each display row is held.
const DefaultDisplayHold = 100 * time.Millisecond

// ValuesLine formats the cancelled values for the display, e.g.
// "180160  0190250".
func ValuesLine(v sensing.Values) string {
	return fmt.Sprintf("%3d%3d%3d%3d%2d", v[0], v[1], v[2], v[3], v[4])
}
