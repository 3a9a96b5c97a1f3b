package models

import "strconv"

// Cinema is one branch row from the gateway's cinema listing.
type Cinema struct {
	BranchNum  string  `json:"branchNum"`
	BranchName string  `json:"branchName"`
	Address    string  `json:"address"`
	DistanceKM float64 `json:"distance,omitempty"` // optional, annotated upstream
}

// Schedule is one screening row for a branch.
type Schedule struct {
	ScheduleNum     int    `json:"scheduleNum"`
	MovieTitle      string `json:"movieTitle"`
	ScreeningNumber string `json:"screeningNumber"`
	ScreeningDate   string `json:"screeningDate"`
}

// Seat is one seat-grid cell for a schedule. A seat label such as "A12" is the
// pair (RowLabel, ColNum) and must resolve to exactly one Seat in a snapshot.
type Seat struct {
	RowLabel string `json:"rowLabel"`
	ColNum   int    `json:"colNum"`
	SeatCode int    `json:"seatCode"`
	IsAisle  bool   `json:"isAisle"`
	Reserved bool   `json:"reserved"`
}

// Label returns the user-facing seat label, e.g. "A3".
func (s Seat) Label() string {
	return s.RowLabel + strconv.Itoa(s.ColNum)
}

// Bike is one rentable bike row from the gateway's bike listing.
type Bike struct {
	BicycleCode string  `json:"bicycleCode"`
	BicycleType string  `json:"bicycleType"`
	Status      string  `json:"status"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Reservation is one committed booking row from the gateway's lookup result.
type Reservation struct {
	ReservationNum string `json:"reservationNum"`
	Title          string `json:"title"`
	When           string `json:"when"`
	SeatLabel      string `json:"seatLabel"`
}

// Member is the profile record backing a dialogue user.
type Member struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	PhoneNum string `bson:"phoneNum" json:"phoneNum"`
}
