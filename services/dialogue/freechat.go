package dialogue

import (
	"context"
	"errors"
	"time"

	ai "cineride/services/intelligence"

	"go.uber.org/zap"
)

const (
	freeChatAttempts = 3
	freeChatDelay    = 2 * time.Second
)

const degradedReply = "The assistant is temporarily unavailable. Please try again in a moment."

// FreeChat handles every turn no structured flow claims: the full rolling
// history goes to the generative provider, with a bounded retry when the
// provider signals overload.
type FreeChat struct {
	Provider ai.ChatProvider
	Logger   *zap.Logger

	// sleep is stubbed in tests; defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Handle completes the conversation. The caller has already appended the
// user turn to the session history; on success the model turn is appended
// too and the reply returned verbatim.
func (f *FreeChat) Handle(ctx context.Context, sess *Session) string {
	sleep := f.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; attempt <= freeChatAttempts; attempt++ {
		reply, err := f.Provider.Complete(ctx, sess.History)
		if err == nil {
			sess.AddTurn("model", reply)
			return reply
		}

		if !errors.Is(err, ai.ErrOverloaded) {
			f.Logger.Error("free chat completion failed",
				zap.String("userID", sess.UserID), zap.Error(err))
			return degradedReply
		}

		f.Logger.Warn("generative provider overloaded",
			zap.String("userID", sess.UserID), zap.Int("attempt", attempt))
		if attempt < freeChatAttempts {
			sleep(freeChatDelay)
		}
	}
	return degradedReply
}
