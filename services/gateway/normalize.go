package gateway

import (
	"strconv"
	"strings"

	"cineride/models"
)

// The gateway's result maps show minor field-name variance between backend
// versions (scheduleNum vs scheduleId, seat_code vs seatCode, snake vs camel
// case on seat rows). Everything is normalized here, immediately after the
// dispatch call, and nowhere else.

// Cinemas extracts the branch listing from a list-cinemas result.
func Cinemas(res map[string]any) []models.Cinema {
	rows := anyList(res["cinemas"])
	out := make([]models.Cinema, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Cinema{
			BranchNum:  anyString(pick(r, "branch_num", "branchNum")),
			BranchName: anyString(pick(r, "branch_name", "branchName")),
			Address:    anyString(r["address"]),
			DistanceKM: anyFloat(r["distance"]),
		})
	}
	return out
}

// Schedules extracts the screening listing from a list-schedules result.
func Schedules(res map[string]any) []models.Schedule {
	rows := anyList(res["movies"])
	out := make([]models.Schedule, 0, len(rows))
	for _, r := range rows {
		num, ok := anyInt(pick(r, "scheduleNum", "scheduleId"))
		if !ok {
			continue
		}
		out = append(out, models.Schedule{
			ScheduleNum:     num,
			MovieTitle:      anyString(r["movieTitle"]),
			ScreeningNumber: anyString(r["screeningNumber"]),
			ScreeningDate:   anyString(r["screeningDate"]),
		})
	}
	return out
}

// Seats extracts the seat grid from a list-seats result. Seats whose code is
// absent keep SeatCode == 0; the flow treats that as a data-integrity failure
// at commit time rather than dropping the row from the grid.
func Seats(res map[string]any) []models.Seat {
	rows := anyList(res["seats"])
	out := make([]models.Seat, 0, len(rows))
	for _, r := range rows {
		col, ok := anyInt(pick(r, "col_num", "colNum"))
		if !ok {
			continue
		}
		code, _ := anyInt(pick(r, "seat_code", "seatCode"))
		out = append(out, models.Seat{
			RowLabel: strings.ToUpper(anyString(pick(r, "row_label", "rowLabel"))),
			ColNum:   col,
			SeatCode: code,
			IsAisle:  anyBool(pick(r, "is_aisle", "isAisle")),
			Reserved: anyBool(r["reserved"]),
		})
	}
	return out
}

// Bikes extracts the bike listing from a list-bikes result.
func Bikes(res map[string]any) []models.Bike {
	rows := anyList(res["bicycles"])
	out := make([]models.Bike, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Bike{
			BicycleCode: anyString(r["bicycleCode"]),
			BicycleType: anyString(r["bicycleType"]),
			Status:      anyString(r["status"]),
			Latitude:    anyFloat(r["latitude"]),
			Longitude:   anyFloat(r["longitude"]),
		})
	}
	return out
}

// Reservations extracts committed bookings from a lookup result.
func Reservations(res map[string]any) []models.Reservation {
	rows := anyList(res["reservations"])
	out := make([]models.Reservation, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Reservation{
			ReservationNum: anyString(pick(r, "reservationNum", "reservation_num")),
			Title:          anyString(pick(r, "movieTitle", "title")),
			When:           anyString(pick(r, "screeningDate", "when")),
			SeatLabel:      anyString(pick(r, "seatLabel", "seat_label")),
		})
	}
	return out
}

// HourlyRate extracts the per-hour rental rate from a bike-rate result.
// Returns 0 when the field is absent or malformed.
func HourlyRate(res map[string]any) int {
	v, ok := anyInt(pick(res, "hourlyRate", "hourly_rate"))
	if !ok {
		return 0
	}
	return v
}

// BookingID extracts the reservation identifier from a commit result.
func BookingID(res map[string]any) string {
	return anyString(pick(res, "bookingId", "reservationNum"))
}

// Succeeded reports whether a write operation's result signals success.
func Succeeded(res map[string]any) bool {
	if res == nil {
		return false
	}
	if s := anyString(res["result"]); s != "" {
		return strings.EqualFold(s, "success")
	}
	_, ok := res["message"]
	return ok
}

// ---- loose-typed helpers ----

func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func anyList(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func anyString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func anyInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func anyFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// anyBool accepts the backend's boolean spellings: true, "TRUE", "true", 1, "1".
func anyBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case int:
		return t == 1
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	default:
		return false
	}
}
