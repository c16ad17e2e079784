package l1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("linetracer/rpi-01")
	require.NoError(t, err)
	assert.Equal(t, ControllerRef{Type: "linetracer", ID: "rpi-01"}, ref)
	assert.True(t, ref.IsValid())
	assert.Equal(t, "linetracer/rpi-01", ref.Name())

	for _, name := range []string{"", "linetracer", "linetracer/", "/rpi-01", "a/b/c"} {
		_, err := ParseRef(name)
		assert.Error(t, err, name)
	}
	assert.False(t, ControllerRef{Type: "linetracer"}.IsValid())
}
