package comm

import (
	"context"
	"errors"

	"github.com/robotalks/linetracer/pkg/l1"
)

// ErrNoDiscovery indicates the connector has no registry to enumerate.
var ErrNoDiscovery = errors.New("discovery not supported")

// DialFunc opens a packet connection to a controller.
type DialFunc func(context.Context) (PacketConn, error)

// DirectConnector implements l1.Connector for a controller serving
// connections itself, see Hub.
type DirectConnector struct {
	Dial DialFunc
}

// Discover implements Connector.
func (c *DirectConnector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	return nil, ErrNoDiscovery
}

// Connect implements Connector. The endpoint serves exactly one
// controller so ref is not used.
func (c *DirectConnector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	conn, err := c.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return NewControllerConn(conn), nil
}
