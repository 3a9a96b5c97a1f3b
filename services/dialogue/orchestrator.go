package dialogue

import (
	"context"
	"errors"
	"strings"

	"cineride/models"

	"go.uber.org/zap"
)

// ErrUnauthenticated is returned for turns that arrive without a user
// identifier. No session is ever created for an anonymous caller.
var ErrUnauthenticated = errors.New("missing user identifier")

const cancelAck = "Okay, I've stopped. Call on me whenever you need anything."

// TranscriptRecorder persists finished turns outside the session, best
// effort. The dialogue never blocks on it failing.
type TranscriptRecorder interface {
	Append(ctx context.Context, userID string, turns ...models.Turn) error
}

// Orchestrator routes one user turn to the flow that owns it. A turn is
// processed to completion under the session lock before the same user's next
// turn is accepted; distinct users proceed concurrently.
type Orchestrator struct {
	Store    *SessionStore
	Movie    *MovieFlow
	Bike     *BikeFlow
	Cancel   *CancelFlow
	Lookup   *LookupFlow
	Chat     *FreeChat
	Recorder TranscriptRecorder
	Logger   *zap.Logger
}

// HandleTurn processes one (userID, text) turn and always produces a normal
// reply; flow failures become reply text, never errors.
func (o *Orchestrator) HandleTurn(ctx context.Context, userID, text string) (*models.ChatResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}

	sess := o.Store.GetOrCreate(userID)
	sess.Lock()
	defer sess.Unlock()

	sess.AddTurn("user", text)
	resp := o.dispatch(ctx, sess, text)

	o.record(ctx, userID, models.Turn{Role: "user", Text: text}, models.Turn{Role: "model", Text: resp.Message})
	return resp, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, sess *Session, text string) *models.ChatResponse {
	intent := ResolveIntent(text)
	o.Logger.Debug("turn dispatch",
		zap.String("userID", sess.UserID),
		zap.String("step", sess.Step.String()),
		zap.String("intent", intent.String()))

	// A bare cancel word short-circuits everything, including a pending
	// cancellation confirmation.
	if isBareCancel(text) {
		sess.Reset()
		return textReply(cancelAck)
	}

	// A pending sub-flow owns the next turn unconditionally.
	switch sess.Pending {
	case pendingCancel:
		return o.withEcho(sess, o.Cancel.Handle(ctx, sess, text))
	case pendingLookup:
		return o.withEcho(sess, o.Lookup.Handle(ctx, sess, text))
	}

	// Mid-flow turns stay with the owning flow, except an explicit restart.
	if sess.Step != StepIdle {
		if intent == IntentStartBooking {
			o.Logger.Debug("restart requested mid-flow", zap.String("userID", sess.UserID))
			sess.Reset()
			return o.withEcho(sess, o.startBooking(ctx, sess, text))
		}
		return o.withEcho(sess, o.continueFlow(ctx, sess, text))
	}

	switch intent {
	case IntentStartBooking:
		return o.withEcho(sess, o.startBooking(ctx, sess, text))
	case IntentCancelBooking:
		return o.withEcho(sess, o.Cancel.Handle(ctx, sess, text))
	case IntentLookupBooking:
		return o.withEcho(sess, o.Lookup.Handle(ctx, sess, text))
	default:
		// SHOW_MOVIES and UNKNOWN both fall through to free chat; the
		// classifier still names them for logging and tests.
		return textReply(o.Chat.Handle(ctx, sess))
	}
}

func (o *Orchestrator) startBooking(ctx context.Context, sess *Session, text string) *models.ChatResponse {
	if wantsBike(text) {
		return o.Bike.Start(ctx, sess)
	}
	return o.Movie.Start(ctx, sess)
}

func (o *Orchestrator) continueFlow(ctx context.Context, sess *Session, text string) *models.ChatResponse {
	switch sess.Step {
	case StepBranchSelect, StepMovieSelect, StepSeatSelect:
		return o.Movie.Handle(ctx, sess, text)
	case StepBikeSelect, StepBikeTimeInput, StepBikePaymentConfirm:
		return o.Bike.Handle(ctx, sess, text)
	default:
		return textReply(o.Chat.Handle(ctx, sess))
	}
}

// withEcho mirrors a structured flow reply into the rolling history so free
// chat keeps full context. Free chat appends its own reply.
func (o *Orchestrator) withEcho(sess *Session, resp *models.ChatResponse) *models.ChatResponse {
	sess.AddTurn("model", resp.Message)
	return resp
}

func (o *Orchestrator) record(ctx context.Context, userID string, turns ...models.Turn) {
	if o.Recorder == nil {
		return
	}
	if err := o.Recorder.Append(ctx, userID, turns...); err != nil {
		o.Logger.Warn("failed to persist transcript", zap.String("userID", userID), zap.Error(err))
	}
}
