package dialogue

import (
	"context"
	"regexp"

	"cineride/models"
	"cineride/services/gateway"

	"go.uber.org/zap"
)

// CancelFlow and LookupFlow are short 1-2 step sequences keyed on a 10-digit
// reservation number, not full state machines. When a turn arrives without a
// number, the flow marks itself pending and the next turn routes back here
// before any step-based dispatch.

var reservationNumRe = regexp.MustCompile(`\b\d{10}\b`)

type CancelFlow struct {
	GW     gateway.Dispatcher
	Logger *zap.Logger
}

func (f *CancelFlow) Handle(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	if num := reservationNumRe.FindString(input); num != "" {
		return f.cancel(ctx, sess, num)
	}

	if isNegative(input) {
		sess.Reset()
		return textReply("Okay, nothing was cancelled.")
	}

	if isAffirmative(input) {
		if num := lastReservationNum(sess.History); num != "" {
			return f.cancel(ctx, sess, num)
		}
	}

	sess.Pending = pendingCancel
	return textReply("Which reservation should I cancel? Enter the 10-digit reservation number.")
}

func (f *CancelFlow) cancel(ctx context.Context, sess *Session, num string) *models.ChatResponse {
	sess.Pending = pendingNone

	res, err := f.GW.Dispatch(ctx, gateway.OpCancel, map[string]any{"reservationNum": num})
	if err != nil || !gateway.Succeeded(res) {
		f.Logger.Error("reservation cancel failed",
			zap.String("userID", sess.UserID), zap.String("reservation", num), zap.Error(err))
		return textReply("Reservation " + num + " could not be cancelled. Please check the number and try again.")
	}
	return textReply("Reservation " + num + " has been cancelled.")
}

type LookupFlow struct {
	GW     gateway.Dispatcher
	Logger *zap.Logger
}

func (f *LookupFlow) Handle(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	num := reservationNumRe.FindString(input)
	if num == "" {
		num = lastReservationNum(sess.History)
	}
	if num == "" {
		sess.Pending = pendingLookup
		return textReply("Enter the 10-digit reservation number you want to look up.")
	}
	sess.Pending = pendingNone

	res, err := f.GW.Dispatch(ctx, gateway.OpLookup, map[string]any{"reservationNum": num})
	if err != nil {
		f.Logger.Error("reservation lookup failed",
			zap.String("userID", sess.UserID), zap.String("reservation", num), zap.Error(err))
		return textReply("Reservation " + num + " could not be looked up right now. Please try again.")
	}
	return textReply(formatReservations(gateway.Reservations(res)))
}

// lastReservationNum scans the transcript newest-first for the most recently
// mentioned 10-digit number. A bare affirmative reply refers to it.
func lastReservationNum(history []models.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if num := reservationNumRe.FindString(history[i].Text); num != "" {
			return num
		}
	}
	return ""
}
