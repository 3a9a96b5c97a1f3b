package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulesAcceptsBothIDSpellings(t *testing.T) {
	res := map[string]any{"movies": []any{
		map[string]any{"scheduleNum": float64(301), "movieTitle": "Arrival"},
		map[string]any{"scheduleId": float64(302), "movieTitle": "Heat"},
		map[string]any{"movieTitle": "no id, dropped"},
	}}

	out := Schedules(res)

	require.Len(t, out, 2)
	assert.Equal(t, 301, out[0].ScheduleNum)
	assert.Equal(t, 302, out[1].ScheduleNum)
}

func TestSeatsAcceptsBothCaseStyles(t *testing.T) {
	res := map[string]any{"seats": []any{
		map[string]any{"row_label": "a", "col_num": float64(1), "seat_code": float64(101), "is_aisle": "0", "reserved": "TRUE"},
		map[string]any{"rowLabel": "B", "colNum": float64(2), "seatCode": float64(202), "isAisle": true, "reserved": float64(0)},
		map[string]any{"row_label": "C", "col_num": float64(3), "reserved": "1"},
	}}

	out := Seats(res)

	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].RowLabel, "row labels normalize to upper case")
	assert.True(t, out[0].Reserved)
	assert.False(t, out[0].IsAisle)

	assert.Equal(t, "B2", out[1].Label())
	assert.True(t, out[1].IsAisle)

	assert.Zero(t, out[2].SeatCode, "missing seat code is kept, not dropped")
	assert.True(t, out[2].Reserved)
}

func TestAnyBoolSpellings(t *testing.T) {
	for _, v := range []any{true, "TRUE", "true", "1", float64(1), 1} {
		assert.True(t, anyBool(v), "value=%v", v)
	}
	for _, v := range []any{false, "FALSE", "false", "0", float64(0), nil, "yes"} {
		assert.False(t, anyBool(v), "value=%v", v)
	}
}

func TestCinemasNormalization(t *testing.T) {
	res := map[string]any{"cinemas": []any{
		map[string]any{"branch_num": float64(11), "branch_name": "Gangnam", "address": "12 Teheran-ro", "distance": "1.5"},
		map[string]any{"branchNum": "22", "branchName": "Hongdae"},
	}}

	out := Cinemas(res)

	require.Len(t, out, 2)
	assert.Equal(t, "11", out[0].BranchNum, "numeric branch ids become strings")
	assert.Equal(t, 1.5, out[0].DistanceKM)
	assert.Equal(t, "Hongdae", out[1].BranchName)
}

func TestHourlyRate(t *testing.T) {
	assert.Equal(t, 12000, HourlyRate(map[string]any{"hourlyRate": float64(12000)}))
	assert.Equal(t, 9000, HourlyRate(map[string]any{"hourly_rate": "9000"}))
	assert.Zero(t, HourlyRate(map[string]any{}))
	assert.Zero(t, HourlyRate(map[string]any{"hourlyRate": "soon"}))
}

func TestSucceeded(t *testing.T) {
	assert.True(t, Succeeded(map[string]any{"result": "success"}))
	assert.True(t, Succeeded(map[string]any{"result": "SUCCESS"}))
	assert.True(t, Succeeded(map[string]any{"message": "reserved"}))
	assert.False(t, Succeeded(map[string]any{"result": "fail"}))
	assert.False(t, Succeeded(map[string]any{}))
	assert.False(t, Succeeded(nil))
}

func TestBookingID(t *testing.T) {
	assert.Equal(t, "BKG-42", BookingID(map[string]any{"bookingId": "BKG-42"}))
	assert.Equal(t, "1234567890", BookingID(map[string]any{"reservationNum": "1234567890"}))
	assert.Empty(t, BookingID(map[string]any{}))
}
