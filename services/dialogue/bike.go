package dialogue

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	memberRepo "cineride/database/repository/member"
	"cineride/models"
	"cineride/services/gateway"

	"go.uber.org/zap"
)

// BikeFlow drives the 4-state rental sequence:
// IDLE -> BIKE_SELECT -> BIKE_TIME_INPUT -> BIKE_PAYMENT_CONFIRM -> commit.
type BikeFlow struct {
	GW      gateway.Dispatcher
	Members memberRepo.MemberRepository
	Logger  *zap.Logger

	// now is stubbed in tests; defaults to time.Now.
	Now func() time.Time
}

func (f *BikeFlow) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Start fetches the bike listing. An empty listing replies without changing
// the step, so the session never sits on a state with no snapshot behind it.
func (f *BikeFlow) Start(ctx context.Context, sess *Session) *models.ChatResponse {
	res, err := f.GW.Dispatch(ctx, gateway.OpListBikes, nil)
	if err != nil {
		f.Logger.Error("bike listing failed", zap.String("userID", sess.UserID), zap.Error(err))
		return textReply("Sorry, the bike list is unavailable right now. Please try again.")
	}

	bikes := gateway.Bikes(res)
	if len(bikes) == 0 {
		return textReply("No bikes are available for rent right now.")
	}

	sess.LastBikes = bikes
	sess.Step = StepBikeSelect

	return &models.ChatResponse{
		Message: formatBikes(bikes) + "\n\nEnter the number of the bike you want, e.g. 1",
		Bikes:   bikes,
	}
}

// Handle advances the flow from whichever non-idle step the session holds.
func (f *BikeFlow) Handle(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	switch sess.Step {
	case StepBikeSelect:
		return f.handleBikeSelect(ctx, sess, input)
	case StepBikeTimeInput:
		return f.handleTimeInput(sess, input)
	case StepBikePaymentConfirm:
		return f.handlePaymentConfirm(ctx, sess, input)
	default:
		return f.Start(ctx, sess)
	}
}

// handleBikeSelect resolves the chosen bike and checks its hourly rate. A
// missing or non-positive rate is a data problem no retry can fix, so the
// session is reset instead of reprompted.
func (f *BikeFlow) handleBikeSelect(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	idx, ok := resolveIndex(input, len(sess.LastBikes))
	if !ok {
		return textReply("Please enter a valid bike number, e.g. 1.")
	}

	selected := sess.LastBikes[idx-1]

	res, err := f.GW.Dispatch(ctx, gateway.OpBikeRate, map[string]any{
		"bicycleType": selected.BicycleType,
	})
	if err != nil {
		f.Logger.Error("bike rate lookup failed",
			zap.String("userID", sess.UserID), zap.String("type", selected.BicycleType), zap.Error(err))
		sess.Reset()
		return textReply("Sorry, the rental rate could not be loaded. The rental was cancelled.")
	}

	rate := gateway.HourlyRate(res)
	if rate <= 0 {
		f.Logger.Warn("non-positive hourly rate, aborting rental",
			zap.String("userID", sess.UserID), zap.String("type", selected.BicycleType), zap.Int("rate", rate))
		sess.Reset()
		return textReply("Rental rates for that bike type are misconfigured. The rental was cancelled.")
	}

	sess.Bike.Bike = selected
	sess.Bike.HourlyRate = rate
	sess.Step = StepBikeTimeInput

	start := f.now()
	end := start.Add(2 * time.Hour)
	perMinute := float64(rate) / 60.0

	return textReply(fmt.Sprintf(
		"Bike %s (%s) selected.\nRate: %d/hour (about %.0f/minute)\nAvailable window: %s ~ %s\n\n"+
			"Enter your rental time as HH:mm ~ HH:mm, e.g. 18:30 ~ 19:00",
		selected.BicycleCode, selected.BicycleType, rate, perMinute,
		start.Format("15:04"), end.Format("15:04")))
}

// handleTimeInput parses the HH:mm ~ HH:mm range and computes the amount.
// A range that ends past midnight wraps by a full day.
func (f *BikeFlow) handleTimeInput(sess *Session, input string) *models.ChatResponse {
	start, end, minutes, ok := parseTimeWindow(input)
	if !ok {
		return textReply("Time format not recognized. Enter a range like 18:30 ~ 19:00.")
	}

	amount := rentalAmount(sess.Bike.HourlyRate, minutes)

	contact := ""
	if member, err := f.Members.GetByID(sess.UserID); err == nil {
		contact = member.PhoneNum
	} else {
		f.Logger.Warn("member lookup failed for payment contact",
			zap.String("userID", sess.UserID), zap.Error(err))
	}

	sess.Bike.StartTime = start
	sess.Bike.EndTime = end
	sess.Bike.Minutes = minutes
	sess.Bike.Amount = amount
	sess.Step = StepBikePaymentConfirm

	return &models.ChatResponse{
		Message: fmt.Sprintf(
			"Rental window %s ~ %s (%d minutes)\nAmount due: %d\n\nReply \"confirm\" to pay and finish the booking.",
			start, end, minutes, amount),
		Payment: &models.PaymentPrompt{Action: "bike_payment", Amount: amount, Contact: contact},
	}
}

// handlePaymentConfirm commits the rental. Both commit outcomes terminate
// the flow; only a non-confirmation reply keeps the session on this step.
func (f *BikeFlow) handlePaymentConfirm(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	if !isAffirmative(input) {
		return textReply("Reply \"confirm\" to pay, or \"cancel\" to stop.")
	}

	res, err := f.GW.Dispatch(ctx, gateway.OpBikeBooking, map[string]any{
		"bicycleCode": sess.Bike.Bike.BicycleCode,
		"startTime":   sess.Bike.StartTime,
		"endTime":     sess.Bike.EndTime,
		"minutes":     sess.Bike.Minutes,
		"amount":      sess.Bike.Amount,
	})

	if err != nil || !gateway.Succeeded(res) {
		f.Logger.Error("bike booking commit failed", zap.String("userID", sess.UserID), zap.Error(err))
		sess.Reset()
		return textReply("The rental could not be completed. Please start again.")
	}

	bookingID := gateway.BookingID(res)
	sess.Reset()
	if bookingID != "" {
		return textReply("Rental booked! Your booking number is " + bookingID + ".")
	}
	return textReply("Rental booked!")
}

// parseTimeWindow splits on '~', strips each side to digits and colons,
// and returns normalized times plus the duration in minutes.
func parseTimeWindow(input string) (start, end string, minutes int, ok bool) {
	parts := strings.Split(input, "~")
	if len(parts) != 2 {
		return "", "", 0, false
	}

	startMin, ok := parseClock(parts[0])
	if !ok {
		return "", "", 0, false
	}
	endMin, ok := parseClock(parts[1])
	if !ok {
		return "", "", 0, false
	}

	minutes = endMin - startMin
	if minutes < 0 {
		minutes += 24 * 60
	}
	return clockString(startMin), clockString(endMin), minutes, true
}

// rentalAmount rounds after floating-point division so short windows at low
// rates never truncate to zero.
func rentalAmount(hourlyRate, minutes int) int {
	return int(math.Round(float64(hourlyRate) * float64(minutes) / 60.0))
}

func parseClock(s string) (int, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, s)

	parts := strings.Split(cleaned, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, false
	}
	var h, m int
	if _, err := fmt.Sscanf(cleaned, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
