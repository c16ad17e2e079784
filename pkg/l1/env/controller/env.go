// Package controller builds the registrars publishing an L1
// controller from flags and environment.
package controller

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/comm"
	"github.com/robotalks/linetracer/pkg/l1/comm/mqtt"
	"github.com/robotalks/linetracer/pkg/l1/comm/stream"
	"github.com/robotalks/linetracer/pkg/l1/comm/websocket"
	"github.com/robotalks/linetracer/pkg/l1/env"
)

var (
	errRefRequired    = errors.New("controller type and id must be specified")
	errNoRegistrar    = errors.New("at least one registrar is required")
	defaultBrokerURL  = "mqtt://localhost:1883/linetracer/"
	defaultController = Config{MQTTBrokerURL: defaultBrokerURL}
)

// Config publishes Info on an MQTT broker and on direct listeners.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL is mqtt://host:port/topic-prefix, empty disables.
	MQTTBrokerURL string

	// ListenURLs are tcp://:7000 or ws://:7001/l1 endpoints.
	ListenURLs []string
}

func init() {
	if val, ok := os.LookupEnv("LT_MQTT_URL"); ok {
		defaultController.MQTTBrokerURL = val
	}
	if val := os.Getenv("LT_LISTEN"); val != "" {
		defaultController.ListenURLs = strings.Split(val, ",")
	}
	defaultController.Info.Ref.ID = env.MachineID()
}

// SetControllerType is called from init of each controller binary.
func SetControllerType(typ string, meta l1.ControllerMeta) {
	defaultController.Info.Ref.Type = typ
	defaultController.Info.Meta = meta
}

// SetupFlags sets command line flags.
func SetupFlags() {
	c := &defaultController
	flag.StringVar(&c.Info.Ref.Type, "type", c.Info.Ref.Type, "Controller type")
	flag.StringVar(&c.Info.Ref.ID, "id", c.Info.Ref.ID, "Controller ID")
	flag.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.Var((*urlList)(&c.ListenURLs), "listen", "Serve L1 directly, e.g. tcp://:7000 or ws://:7001/l1 (repeatable)")
}

type urlList []string

func (l *urlList) String() string     { return strings.Join(*l, ",") }
func (l *urlList) Set(s string) error { *l = append(*l, s); return nil }

// Default is the configuration from flags, shared.
func Default() *Config {
	return &defaultController
}

// NewConfig copies the configuration from flags.
func NewConfig() *Config {
	conf := defaultController
	return &conf
}

// HasRegistrars tells whether NewEnv would publish anywhere.
func (c *Config) HasRegistrars() bool {
	return c.MQTTBrokerURL != "" || len(c.ListenURLs) > 0
}

// Env holds the registrars of a controller. Add it to the loop of the
// controller.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
}

// NewEnv creates the registrars. Listeners opened before a failure
// are closed.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, errRefRequired
	}
	if !c.HasRegistrars() {
		return nil, errNoRegistrar
	}
	e := &Env{Config: c, Registrar: &comm.RegistrarMux{}}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		e.add(reg, c.MQTTBrokerURL)
	}
	for _, listenURL := range c.ListenURLs {
		acceptor, err := listen(listenURL)
		if err != nil {
			e.close()
			return nil, fmt.Errorf("listen %q error: %v", listenURL, err)
		}
		e.add(comm.NewHub(acceptor), listenURL)
	}
	return e, nil
}

// MustNewEnv is NewEnv exiting on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

func (e *Env) add(reg l1.Registrar, registryURL string) {
	e.Registrar.Add(reg)
	e.RegistryURLs = append(e.RegistryURLs, registryURL)
}

func (e *Env) close() {
	for _, reg := range e.Registrar.Registrars {
		if closer, ok := reg.(io.Closer); ok {
			closer.Close()
		}
	}
}

// AddToLoop implements LoopAdder. Commands no controller takes are
// answered with an error.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar, comm.UnhandledCommands{})
}

func listen(listenURL string) (comm.Acceptor, error) {
	u, err := url.Parse(listenURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "tcp":
		return stream.Listen(u.Host)
	case "ws":
		path := u.Path
		if path == "" {
			path = "/"
		}
		return websocket.Listen(u.Host, path)
	default:
		return nil, fmt.Errorf("unknown listen URL scheme: %q", u.Scheme)
	}
}
