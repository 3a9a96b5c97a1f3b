// Package gateway is the single boundary through which all inventory reads
// and reservation writes occur. The dialogue core never talks to storage
// directly; it dispatches named operations and normalizes the open-map
// results into typed records immediately.
package gateway

import "context"

// Operation names understood by the remote dispatch endpoint.
const (
	OpListCinemas   = "movie_booking_step1"
	OpListSchedules = "movie_booking_step2"
	OpListSeats     = "movie_booking_step3"
	OpReserveSeat   = "movie_booking_step4"
	OpListBikes     = "bike_list"
	OpBikeRate      = "bike_rate"
	OpBikeBooking   = "bike_booking"
	OpCancel        = "reservation_cancel"
	OpLookup        = "reservation_lookup"
)

// Dispatcher performs one request/response operation against the
// inventory/reservation gateway.
type Dispatcher interface {
	Dispatch(ctx context.Context, operation string, params map[string]any) (map[string]any, error)
}
