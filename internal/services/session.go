package services

import (
	"context"
	"log"
	"time"
)

// releaseTimeout bounds the session close call, which runs even when the
// request context is already cancelled.
const releaseTimeout = 10 * time.Second

// withSession acquires a FileMaker session, runs fn with the token, and
// releases the session on every exit path. Release failures are logged and
// never surfaced: by the time release runs the primary operation is done.
// Release is skipped only when acquisition itself failed.
func withSession(ctx context.Context, client TargetClient, fn func(token string) error) error {
	token, err := client.CreateSession(ctx)
	if err != nil {
		return &SessionAcquisitionError{Err: err}
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := client.CloseSession(releaseCtx, token); err != nil {
			log.Printf("[session] Failed to release FileMaker session: %v", err)
		}
	}()

	return fn(token)
}
