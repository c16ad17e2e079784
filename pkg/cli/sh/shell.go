// Package sh is the interactive shell talking to tracers and other L1
// controllers. Command sets register themselves with AddCmds.
package sh

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	env "github.com/robotalks/linetracer/pkg/l1/env/connector"
)

// DefaultCommandTimeout bounds DoCommand in case no reply nor
// expiration ever arrives.
const DefaultCommandTimeout = 3 * time.Second

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	evalOnly   bool
	outputJSON bool

	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	AddCmds(builtinCmds()...)
}

// AddCmds registers commands for every new Shell. Call it from init.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// Shell is an ishell with at most one connected controller.
type Shell struct {
	Interactive    bool
	OutputJSON     bool
	AutoConnect    bool
	CommandTimeout time.Duration

	Shell  *ishell.Shell
	Config *env.Config

	session *session
}

// session is a connection with the loop receiving its replies.
type session struct {
	ref    l1.ControllerRef
	conn   l1.ControllerConn
	cancel func()
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive:    !evalOnly,
		OutputJSON:     outputJSON,
		CommandTimeout: DefaultCommandTimeout,
		Shell:          ishell.New(),
		Config:         conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected guards commands which need a controller.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).session == nil {
			c.Err(errNotConnected)
			return
		}
		fn(c)
	}
}

var errNotConnected = fmt.Errorf("not connected")

// DoCommand sends msg to the connected controller and prints the reply.
func DoCommand(c *ishell.Context, msg fx.Message) error {
	s := ShellFrom(c)
	if s.session == nil {
		c.Err(errNotConnected)
		return errNotConnected
	}
	var err error
	select {
	case res := <-s.session.conn.DoCommand(msg).ResultChan():
		if err = res.Err; err == nil {
			var out string
			if out, err = formatReply(res.Msg, s.OutputJSON); err == nil {
				c.Println(out)
				return nil
			}
		}
	case <-time.After(s.CommandTimeout):
		err = fmt.Errorf("%T: no reply in %v", msg, s.CommandTimeout)
	}
	c.Err(err)
	return err
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverControllers lists the controllers accepted by filter, all
// of them if filter is nil.
func (s *Shell) DiscoverControllers(filter func(l1.ControllerInfo) bool) (l1.Connector, []l1.ControllerInfo, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, nil, err
	}
	found, err := connector.Discover(context.Background())
	if err != nil {
		return connector, nil, err
	}
	return connector, filterInfos(found, filter), nil
}

// SelectController discovers controllers and asks which one to use
// when there are several. info is nil when none is found.
func (s *Shell) SelectController(filter func(l1.ControllerInfo) bool) (connector l1.Connector, info *l1.ControllerInfo, err error) {
	connector, found, err := s.DiscoverControllers(filter)
	switch {
	case err != nil:
		return nil, nil, err
	case len(found) == 0:
		return connector, nil, nil
	case len(found) == 1:
		return connector, &found[0], nil
	case !s.Interactive:
		return nil, nil, fmt.Errorf("%d controllers discovered, specify TYPE and ID", len(found))
	}
	choices := make([]string, len(found))
	for n, info := range found {
		choices[n] = describe(info)
	}
	index := s.Shell.MultiChoice(choices, "Which one to connect?")
	if index < 0 {
		return connector, nil, nil
	}
	return connector, &found[index], nil
}

// Connect connects the controller, replacing the current one.
func (s *Shell) Connect(ref l1.ControllerRef) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	conn, err := connector.Connect(ctx, ref)
	if err != nil {
		cancel()
		return err
	}
	loop := fx.NewLoop()
	if adder, ok := conn.(fx.LoopAdder); ok {
		loop.Add(adder)
	}
	go loop.Run(ctx)

	s.Disconnect()
	s.session = &session{ref: ref, conn: conn, cancel: cancel}
	prompt := ref.Name()
	if !ref.IsValid() {
		prompt = s.Config.RegistryURL
	}
	s.Shell.SetPrompt(prompt + " > ")
	return nil
}

// Disconnect disconnects current controller.
func (s *Shell) Disconnect() {
	if s.session != nil {
		s.session.cancel()
		s.session = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run connects if asked to and runs args as one command, or the
// interactive shell without args.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && (s.Config.Ref.IsValid() || s.Config.Direct()) {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.RegistryURL)
		}
		if err := s.Connect(s.Config.Ref); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.RegistryURL, err)
		}
	}
	switch {
	case len(args) > 0:
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
	case s.Interactive:
		s.Shell.Run()
	default:
		log.Fatalln("command expected")
	}
}

// Main runs the shell from main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
