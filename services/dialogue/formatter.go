package dialogue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cineride/models"
)

// Rendering is deterministic: same snapshot, same text. The seat grid is
// row-major, grouped by row label, columns ascending, aisle columns blank.

const (
	seatGlyphFree     = "🟩"
	seatGlyphReserved = "🟥"
)

func formatCinemas(cinemas []models.Cinema) string {
	var sb strings.Builder
	sb.WriteString("Nearby cinemas:\n\n")
	for i, c := range cinemas {
		sb.WriteString(fmt.Sprintf("%d) %s - %s", i+1, c.BranchName, c.Address))
		if c.DistanceKM > 0 {
			sb.WriteString(fmt.Sprintf(" (%.1f km)", c.DistanceKM))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatSchedules(schedules []models.Schedule) string {
	var sb strings.Builder
	sb.WriteString("Screenings:\n\n")
	for i, m := range schedules {
		sb.WriteString(fmt.Sprintf("%d. %s\n   Screen: %s\n   Time: %s\n\n",
			i+1, m.MovieTitle, m.ScreeningNumber, m.ScreeningDate))
	}
	return sb.String()
}

func formatBikes(bikes []models.Bike) string {
	var sb strings.Builder
	sb.WriteString("Available bikes:\n\n")
	for i, b := range bikes {
		sb.WriteString(fmt.Sprintf("%d. Code: %s\n   Type: %s\n   Status: %s\n   Location: %v, %v\n\n",
			i+1, b.BicycleCode, b.BicycleType, b.Status, b.Latitude, b.Longitude))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// aisleColumns derives the aisle column set from a seat snapshot: every
// column number where any seat is flagged as aisle. It is recomputed for
// each snapshot, never stored.
func aisleColumns(seats []models.Seat) []int {
	set := map[int]bool{}
	for _, s := range seats {
		if s.IsAisle {
			set[s.ColNum] = true
		}
	}
	cols := make([]int, 0, len(set))
	for c := range set {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

func formatSeatGrid(seats []models.Seat) string {
	if len(seats) == 0 {
		return "No seat information available."
	}

	rows := map[string][]models.Seat{}
	var rowLabels []string
	for _, s := range seats {
		if _, ok := rows[s.RowLabel]; !ok {
			rowLabels = append(rowLabels, s.RowLabel)
		}
		rows[s.RowLabel] = append(rows[s.RowLabel], s)
	}
	sort.Strings(rowLabels)
	for _, label := range rowLabels {
		r := rows[label]
		sort.Slice(r, func(i, j int) bool { return r[i].ColNum < r[j].ColNum })
		rows[label] = r
	}

	var sb strings.Builder
	for _, label := range rowLabels {
		sb.WriteString(label)
		sb.WriteString(" | ")
		for _, s := range rows[label] {
			if s.IsAisle {
				sb.WriteString("   ")
				continue
			}
			if s.Reserved {
				sb.WriteString(seatGlyphReserved)
			} else {
				sb.WriteString(seatGlyphFree)
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + seatGlyphFree + " available / " + seatGlyphReserved + " reserved\n")
	if cols := aisleColumns(seats); len(cols) > 0 {
		sb.WriteString("* Columns " + joinInts(cols, ",") + " are aisles.\n")
	}
	sb.WriteString("Seat example: A2\n")
	return sb.String()
}

func formatReservations(rows []models.Reservation) string {
	if len(rows) == 0 {
		return "You have no reservations."
	}
	var sb strings.Builder
	sb.WriteString("Your reservations:\n\n")
	for i, r := range rows {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n   Time: %s\n   Seat: %s\n\n",
			i+1, r.ReservationNum, r.Title, r.When, r.SeatLabel))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func joinInts(ns []int, sep string) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
