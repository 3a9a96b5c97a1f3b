package dialogue

import (
	"sync"
	"time"

	"cineride/models"
)

// Step is the flat state set shared by all flows. Exactly one flow owns a
// non-idle step at a time.
type Step int

const (
	StepIdle Step = iota
	StepBranchSelect
	StepMovieSelect
	StepSeatSelect
	StepBikeSelect
	StepBikeTimeInput
	StepBikePaymentConfirm
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "IDLE"
	case StepBranchSelect:
		return "BRANCH_SELECT"
	case StepMovieSelect:
		return "MOVIE_SELECT"
	case StepSeatSelect:
		return "SEAT_SELECT"
	case StepBikeSelect:
		return "BIKE_SELECT"
	case StepBikeTimeInput:
		return "BIKE_TIME_INPUT"
	case StepBikePaymentConfirm:
		return "BIKE_PAYMENT_CONFIRM"
	default:
		return "UNKNOWN"
	}
}

// pendingFlow marks a short sub-flow that must receive the next turn
// unconditionally, regardless of the main step.
type pendingFlow int

const (
	pendingNone pendingFlow = iota
	pendingCancel
	pendingLookup
)

// movieContext carries the outputs of completed movie-booking steps.
type movieContext struct {
	BranchNum  string
	BranchName string
	DateFilter string
	Schedule   models.Schedule
}

// bikeContext carries the outputs of completed bike-rental steps.
type bikeContext struct {
	Bike       models.Bike
	HourlyRate int
	StartTime  string
	EndTime    string
	Minutes    int
	Amount     int
}

// Session is the per-user dialogue state. It is mutated only by the flow
// currently holding Step, under the session lock held for the whole turn.
type Session struct {
	mu sync.Mutex

	UserID string
	Step   Step

	Movie movieContext
	Bike  bikeContext

	// Snapshots of the most recent listing shown to the user. They are the
	// only valid referents for the next numeric-index or label selection.
	LastCinemas []models.Cinema
	LastMovies  []models.Schedule
	LastSeats   []models.Seat
	LastBikes   []models.Bike

	History []models.Turn

	Pending pendingFlow

	lastActive time.Time
}

// Lock serializes turn handling for this session only. Two near-simultaneous
// turns from the same user are duplicate submissions and must not race a
// seat reservation.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset returns the session to IDLE, clearing every flow field atomically.
// It is the only way to leave a non-idle step other than completing the
// flow's terminal step.
func (s *Session) Reset() {
	s.Step = StepIdle
	s.Movie = movieContext{}
	s.Bike = bikeContext{}
	s.LastCinemas = nil
	s.LastMovies = nil
	s.LastSeats = nil
	s.LastBikes = nil
	s.History = nil
	s.Pending = pendingNone
}

// AddTurn appends one transcript entry.
func (s *Session) AddTurn(role, text string) {
	s.History = append(s.History, models.Turn{Role: role, Text: text})
}

func (s *Session) touch(now time.Time) { s.lastActive = now }

func (s *Session) idleSince(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && !s.lastActive.IsZero() && now.Sub(s.lastActive) > ttl
}
