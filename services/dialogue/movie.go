package dialogue

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	memberRepo "cineride/database/repository/member"
	"cineride/models"
	"cineride/services/gateway"

	"go.uber.org/zap"
)

// MovieFlow drives the 4-state seat booking sequence:
// IDLE -> BRANCH_SELECT -> MOVIE_SELECT -> SEAT_SELECT -> commit.
type MovieFlow struct {
	GW      gateway.Dispatcher
	Members memberRepo.MemberRepository
	Logger  *zap.Logger
}

var seatLabelRe = regexp.MustCompile(`[A-Z][0-9]+`)

// Start fetches the cinema listing and moves the session to BRANCH_SELECT.
// The session must be at IDLE (callers reset it first on restart).
func (f *MovieFlow) Start(ctx context.Context, sess *Session) *models.ChatResponse {
	res, err := f.GW.Dispatch(ctx, gateway.OpListCinemas, nil)
	if err != nil {
		f.Logger.Error("cinema listing failed", zap.String("userID", sess.UserID), zap.Error(err))
		return textReply("Sorry, the cinema list is unavailable right now. Please try again.")
	}

	cinemas := gateway.Cinemas(res)
	if len(cinemas) == 0 {
		return textReply("No cinemas are available right now.")
	}

	sess.LastCinemas = cinemas
	sess.Step = StepBranchSelect
	return textReply(formatCinemas(cinemas) + "\nEnter the number of the branch you want to visit, e.g. 1")
}

// Handle advances the flow from whichever non-idle step the session holds.
func (f *MovieFlow) Handle(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	switch sess.Step {
	case StepBranchSelect:
		return f.handleBranchSelect(ctx, sess, input)
	case StepMovieSelect:
		return f.handleMovieSelect(ctx, sess, input)
	case StepSeatSelect:
		return f.handleSeatSelect(ctx, sess, input)
	default:
		return f.Start(ctx, sess)
	}
}

func (f *MovieFlow) handleBranchSelect(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	if filter := extractDateFilter(input); filter != "" {
		sess.Movie.DateFilter = filter
	}

	idx, ok := resolveIndex(input, len(sess.LastCinemas))
	if !ok {
		return textReply("Please enter a valid branch number, e.g. 1.")
	}

	selected := sess.LastCinemas[idx-1]
	dateFilter := sess.Movie.DateFilter
	if dateFilter == "" {
		dateFilter = "today"
	}

	res, err := f.GW.Dispatch(ctx, gateway.OpListSchedules, map[string]any{
		"branchNum":  selected.BranchNum,
		"dateFilter": dateFilter,
	})
	if err != nil {
		f.Logger.Error("schedule listing failed",
			zap.String("userID", sess.UserID), zap.String("branch", selected.BranchNum), zap.Error(err))
		return textReply("Sorry, screenings for that branch are unavailable right now. Please try again.")
	}

	schedules := gateway.Schedules(res)
	if len(schedules) == 0 {
		return textReply(fmt.Sprintf("No screenings found for %s. Pick another branch number.", selected.BranchName))
	}

	sess.Movie.BranchNum = selected.BranchNum
	sess.Movie.BranchName = selected.BranchName
	sess.LastMovies = schedules
	sess.Step = StepMovieSelect

	return textReply("Branch selected: " + selected.BranchName + "\n\n" +
		formatSchedules(schedules) + "Enter the schedule number to book, e.g. 2")
}

func (f *MovieFlow) handleMovieSelect(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	idx, ok := resolveIndex(input, len(sess.LastMovies))
	if !ok {
		return textReply("Please enter a valid schedule number, e.g. 2.")
	}

	selected := sess.LastMovies[idx-1]

	res, err := f.GW.Dispatch(ctx, gateway.OpListSeats, map[string]any{
		"scheduleNum": selected.ScheduleNum,
	})
	if err != nil {
		f.Logger.Error("seat listing failed",
			zap.String("userID", sess.UserID), zap.Int("schedule", selected.ScheduleNum), zap.Error(err))
		return textReply("Sorry, the seat map is unavailable right now. Please try again.")
	}

	seats := gateway.Seats(res)
	if len(seats) == 0 {
		return textReply("No seat information for that screening. Pick another schedule number.")
	}

	sess.Movie.Schedule = selected
	sess.LastSeats = seats
	sess.Step = StepSeatSelect

	return textReply("Selected movie: " + selected.MovieTitle + "\nShowing: " + selected.ScreeningDate + "\n\n" +
		formatSeatGrid(seats) + "\nEnter the seats you want, e.g. A1 or A1, A2")
}

// handleSeatSelect validates every requested seat before reserving any of
// them, in the fixed order: exists, not an aisle, not reserved, has a code.
// The first failure stops the turn with its own message.
func (f *MovieFlow) handleSeatSelect(ctx context.Context, sess *Session, input string) *models.ChatResponse {
	labels := parseSeatLabels(input)
	if len(labels) == 0 {
		return textReply("Seat format not recognized. Enter seats like A1, A2.")
	}

	aisles := aisleColumns(sess.LastSeats)
	var picked []models.Seat
	for _, label := range labels {
		seat, ferr := resolveSeat(sess.LastSeats, aisles, label)
		if ferr != nil {
			if ferr.Fatal() {
				f.Logger.Warn("aborting booking on data integrity failure",
					zap.String("userID", sess.UserID), zap.String("seat", label), zap.String("reason", ferr.Message))
				sess.Reset()
			}
			return textReply(ferr.Message)
		}
		picked = append(picked, *seat)
	}

	phone, ferr := f.memberPhone(sess.UserID)
	if ferr != nil {
		return textReply(ferr.Message)
	}

	// One reservation call per seat. A mid-sequence failure leaves the
	// earlier reservations committed: the gateway offers no compensating
	// rollback, so the reply names what already went through and the user
	// stays on this step to retry the remainder.
	var committed []string
	for _, seat := range picked {
		res, err := f.GW.Dispatch(ctx, gateway.OpReserveSeat, map[string]any{
			"scheduleNum": sess.Movie.Schedule.ScheduleNum,
			"seatCode":    seat.SeatCode,
			"phoneNumber": phone,
		})
		if err == nil && !gateway.Succeeded(res) {
			err = fmt.Errorf("gateway reported failure")
		}
		if err != nil {
			f.Logger.Error("seat reservation failed", zap.String("userID", sess.UserID),
				zap.String("seat", seat.Label()), zap.Error(err))
			msg := "Reservation for seat " + seat.Label() + " failed. Please try again."
			if len(committed) > 0 {
				msg = "Seats " + strings.Join(committed, ", ") + " were reserved, but " +
					seat.Label() + " failed. Please retry the remaining seats."
			}
			return textReply(msg)
		}
		committed = append(committed, seat.Label())
	}

	sess.Reset()
	return textReply("Booking complete for seats " + strings.Join(committed, ", ") + "!\n" +
		"Please complete payment within 10 minutes.")
}

// resolveSeat maps a label to its snapshot record, enforcing the validation
// order the commit step requires.
func resolveSeat(seats []models.Seat, aisles []int, label string) (*models.Seat, *FlowError) {
	var seat *models.Seat
	for i := range seats {
		if strings.EqualFold(seats[i].Label(), label) {
			seat = &seats[i]
			break
		}
	}
	if seat == nil {
		return nil, newFlowError(KindNotFound, "Seat %s was not found. Please enter a different seat.", label)
	}
	for _, col := range aisles {
		if seat.ColNum == col {
			return nil, newFlowError(KindConflict,
				"Seat %s is in an aisle column (%s) and cannot be booked.", label, joinInts(aisles, ","))
		}
	}
	if seat.Reserved {
		return nil, newFlowError(KindConflict, "Seat %s is already reserved. Please choose another seat.", label)
	}
	if seat.SeatCode == 0 {
		return nil, newFlowError(KindDataIntegrity, "Seat %s has no seat code. Booking cannot continue.", label)
	}
	return seat, nil
}

func (f *MovieFlow) memberPhone(userID string) (string, *FlowError) {
	member, err := f.Members.GetByID(userID)
	if err != nil {
		f.Logger.Warn("member lookup failed", zap.String("userID", userID), zap.Error(err))
		return "", newFlowError(KindUpstream, "Could not load your member profile. Please try again.")
	}
	return member.PhoneNum, nil
}

// parseSeatLabels extracts seat tokens (one letter followed by digits) from
// free text, upper-cased, in input order.
func parseSeatLabels(input string) []string {
	return seatLabelRe.FindAllString(strings.ToUpper(input), -1)
}

// resolveIndex reads a 1-based selection out of free text. Anything without
// digits, or outside [1, size], is invalid.
func resolveIndex(input string, size int) (int, bool) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil || v < 1 || v > size {
		return 0, false
	}
	return v, true
}

// extractDateFilter picks an optional date constraint out of a branch-select
// turn. Returns "" when the turn names no date.
func extractDateFilter(input string) string {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "today") || strings.Contains(lower, "오늘"):
		return "today"
	case strings.Contains(lower, "tomorrow") || strings.Contains(lower, "내일"):
		return "tomorrow"
	}
	return ""
}

func textReply(text string) *models.ChatResponse {
	return &models.ChatResponse{Message: text}
}
