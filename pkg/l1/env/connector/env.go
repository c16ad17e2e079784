// Package connector configures clients of L1 controllers from flags
// and environment.
package connector

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/comm"
	"github.com/robotalks/linetracer/pkg/l1/comm/mqtt"
	"github.com/robotalks/linetracer/pkg/l1/comm/stream"
	"github.com/robotalks/linetracer/pkg/l1/comm/websocket"
)

// ErrRefRequired rejects connecting through a registry without a ref.
var ErrRefRequired = errors.New("controller type and id must be specified")

// Config selects the registry and the controller on it.
type Config struct {
	Ref l1.ControllerRef

	// RegistryURL is an MQTT broker as mqtt://host:port/topic-prefix,
	// or a single controller as tcp://host:port or ws://host:port/path.
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/linetracer/",
}

func init() {
	if val := os.Getenv("LT_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
	if val := os.Getenv("LT_CONTROLLER"); val != "" {
		if err := (*refFlag)(&defaultConfig.Ref).Set(val); err != nil {
			glog.Warningf("LT_CONTROLLER ignored: %v", err)
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.RegistryURL, "registry", defaultConfig.RegistryURL, "Registry URL: mqtt://, mqtts://, tcp:// or ws://.")
	flag.Var((*refFlag)(&defaultConfig.Ref), "controller", "Controller to connect as TYPE/ID.")
}

type refFlag l1.ControllerRef

func (f *refFlag) String() string {
	if f == nil || !l1.ControllerRef(*f).IsValid() {
		return ""
	}
	return l1.ControllerRef(*f).Name()
}

func (f *refFlag) Set(val string) error {
	ref, err := l1.ParseRef(val)
	if err == nil {
		*f = refFlag(ref)
	}
	return err
}

// NewConfig copies the configuration from flags.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Direct tells RegistryURL is a single controller, which needs no ref.
func (c *Config) Direct() bool {
	scheme, err := c.scheme()
	return err == nil && (scheme == "tcp" || scheme == "ws")
}

// Validate requires a ref unless Direct.
func (c *Config) Validate() error {
	if !c.Direct() && !c.Ref.IsValid() {
		return ErrRefRequired
	}
	return nil
}

func (c *Config) scheme() (string, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return "", fmt.Errorf("invalid registry URL: %v", err)
	}
	return parsedURL.Scheme, nil
}

// NewConnector creates the Connector of the registry.
func (c *Config) NewConnector() (l1.Connector, error) {
	scheme, err := c.scheme()
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "mqtt", "mqtts":
		return mqtt.NewConnector(c.RegistryURL)
	case "tcp":
		u, _ := url.Parse(c.RegistryURL)
		return &comm.DirectConnector{Dial: stream.Dialer(u.Host)}, nil
	case "ws":
		return &comm.DirectConnector{Dial: websocket.Dialer(c.RegistryURL)}, nil
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", scheme)
	}
}

// Connect connects the configured controller.
func (c *Config) Connect(ctx context.Context) (l1.ControllerConn, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(ctx, c.Ref)
}
