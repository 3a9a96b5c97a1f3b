// Package ai wraps the generative text provider used for free-form chat
// turns. Structured booking turns never reach this package.
package ai

import (
	"context"
	"errors"

	"cineride/models"
)

// ErrOverloaded marks a provider failure that is worth retrying after a
// short delay. Any other error is terminal for the attempt.
var ErrOverloaded = errors.New("generative provider overloaded")

// ChatProvider completes a free-form conversation given the rolling history.
type ChatProvider interface {
	Complete(ctx context.Context, history []models.Turn) (string, error)
}
