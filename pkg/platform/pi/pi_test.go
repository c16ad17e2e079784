package pi

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	fn := filepath.Join(t.TempDir(), "pi.yaml")
	require.NoError(t, ioutil.WriteFile(fn, []byte(content), 0644))
	return fn
}

func TestConfigLoadFile(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.LoadFile(writeFile(t, `
emitter_pin: GPIO27
fb_dev: ""
right:
  speed: 4
  dir: 5
`)))
	require.Equal(t, "GPIO27", conf.EmitterPin)
	require.Empty(t, conf.FBDev)
	require.Equal(t, MotorPorts{Speed: 4, Dir: 5}, conf.Right)
	require.Equal(t, Default().Left, conf.Left)
	require.Equal(t, Default().UARTDev, conf.UARTDev)

	require.Error(t, NewConfig().LoadFile(writeFile(t, "emiter_pin: GPIO4\n")))
	require.Error(t, NewConfig().LoadFile(writeFile(t, "right: {speed: 0, dir: 3}\n")))
}

func TestCloseEmpty(t *testing.T) {
	p := &Platform{}
	require.NoError(t, p.Close())
}
