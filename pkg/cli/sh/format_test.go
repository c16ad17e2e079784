package sh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/msgs"
	tracermsgs "github.com/robotalks/linetracer/pkg/tracer/msgs"
)

var discovered = []l1.ControllerInfo{
	{Ref: l1.ControllerRef{Type: "linetracer", ID: "t1"}, Meta: l1.ControllerMeta{Description: "Raspberry Pi: line tracer"}},
	{Ref: l1.ControllerRef{Type: "sim-tracer", ID: "s1"}},
	{Ref: l1.ControllerRef{Type: "joystick", ID: "j1"}},
}

func TestFormatInfos(t *testing.T) {
	out, err := formatInfos(discovered[:2], false)
	require.NoError(t, err)
	assert.Equal(t, "linetracer/t1: Raspberry Pi: line tracer\nsim-tracer/s1", out)

	out, err = formatInfos(nil, false)
	require.NoError(t, err)
	assert.Equal(t, "No controllers found", out)

	out, err = formatInfos(nil, true)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestByType(t *testing.T) {
	assert.Len(t, filterInfos(discovered, byType(nil)), 3)
	only := filterInfos(discovered, byType([]string{"sim-tracer"}))
	require.Len(t, only, 1)
	assert.Equal(t, "s1", only[0].Ref.ID)
	assert.Empty(t, filterInfos(discovered, byType([]string{"rover"})))
}

func TestFormatReply(t *testing.T) {
	out, err := formatReply(msgs.NewCommandOK(), false)
	require.NoError(t, err)
	assert.Equal(t, "OK", out)

	reply := &tracermsgs.StatusReply{Status: &tracermsgs.Status{Category: "Forward", Speed: 100}}
	out, err = formatReply(reply, false)
	require.NoError(t, err)
	assert.Contains(t, out, "StatusReply ")
	assert.Contains(t, out, `category:"Forward"`)

	out, err = formatReply(reply, true)
	require.NoError(t, err)
	assert.Contains(t, out, `"category":"Forward"`)
	assert.Contains(t, out, `"speed":100`)

	_, err = formatReply(nil, false)
	assert.Error(t, err)
}
