package mqtt

import (
	"context"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// waitToken waits for token or ctx, whichever completes first.
func waitToken(ctx context.Context, token paho.Token) error {
	done := make(chan struct{})
	go func() {
		token.Wait()
		close(done)
	}()
	select {
	case <-done:
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
