package dialogue

import (
	"context"
	"fmt"
	"sync"

	"cineride/models"

	"go.uber.org/zap"
)

// fakeDispatcher scripts gateway results per operation and records every
// call in order.
type fakeDispatcher struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	errs      map[string]error
	calls     []fakeCall

	// block, when non-nil, is closed by the test to release in-flight calls.
	block chan struct{}
}

type fakeCall struct {
	Op     string
	Params map[string]any
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		responses: map[string]map[string]any{},
		errs:      map[string]error{},
	}
}

func (f *fakeDispatcher) respond(op string, res map[string]any) { f.responses[op] = res }
func (f *fakeDispatcher) fail(op string, err error)             { f.errs[op] = err }

func (f *fakeDispatcher) Dispatch(_ context.Context, op string, params map[string]any) (map[string]any, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{Op: op, Params: params})
	f.mu.Unlock()

	if err, ok := f.errs[op]; ok {
		return nil, err
	}
	if res, ok := f.responses[op]; ok {
		return res, nil
	}
	return nil, fmt.Errorf("unexpected operation %s", op)
}

func (f *fakeDispatcher) callOps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, len(f.calls))
	for i, c := range f.calls {
		ops[i] = c.Op
	}
	return ops
}

// fakeMembers serves a fixed member for every ID.
type fakeMembers struct {
	member *models.Member
	err    error
}

func (f *fakeMembers) GetByID(id string) (*models.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.member != nil {
		return f.member, nil
	}
	return &models.Member{ID: id, Name: "Tester", PhoneNum: "010-0000-0000"}, nil
}

// fakeProvider scripts free-chat completions.
type fakeProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (f *fakeProvider) Complete(_ context.Context, _ []models.Turn) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "hello there", nil
}

// ---- gateway-shaped fixtures ----

func cinemaRows() map[string]any {
	return map[string]any{"cinemas": []any{
		map[string]any{"branch_num": "11", "branch_name": "Gangnam", "address": "12 Teheran-ro"},
		map[string]any{"branch_num": "22", "branch_name": "Hongdae", "address": "3 Yanghwa-ro"},
	}}
}

func scheduleRows() map[string]any {
	return map[string]any{"movies": []any{
		map[string]any{"scheduleNum": float64(301), "movieTitle": "Arrival", "screeningNumber": "2", "screeningDate": "2025-11-20 18:30"},
		map[string]any{"scheduleId": float64(302), "movieTitle": "Heat", "screeningNumber": "5", "screeningDate": "2025-11-20 21:00"},
	}}
}

func seatMap(row string, col, code int, aisle, reserved any) map[string]any {
	return map[string]any{
		"row_label": row, "col_num": float64(col), "seat_code": float64(code),
		"is_aisle": aisle, "reserved": reserved,
	}
}

func seatRows() map[string]any {
	return map[string]any{"seats": []any{
		seatMap("A", 1, 101, "0", "0"),
		seatMap("A", 2, 102, "0", "1"), // reserved
		seatMap("A", 3, 0, "1", "0"),   // aisle, no code
		seatMap("B", 1, 201, "0", "0"),
		seatMap("B", 2, 202, "0", "0"),
		seatMap("B", 3, 0, "1", "0"), // aisle
	}}
}

func bikeRows() map[string]any {
	return map[string]any{"bicycles": []any{
		map[string]any{"bicycleCode": "BK-001", "bicycleType": "electric", "status": "available", "latitude": 37.55, "longitude": 126.92},
		map[string]any{"bicycleCode": "BK-002", "bicycleType": "standard", "status": "available", "latitude": 37.51, "longitude": 127.02},
	}}
}

func zapNop() *zap.Logger { return zap.NewNop() }

func testMovieFlow(gw *fakeDispatcher) *MovieFlow {
	return &MovieFlow{GW: gw, Members: &fakeMembers{}, Logger: zap.NewNop()}
}

func testBikeFlow(gw *fakeDispatcher) *BikeFlow {
	return &BikeFlow{GW: gw, Members: &fakeMembers{}, Logger: zap.NewNop()}
}

func testSession(userID string) *Session {
	return &Session{UserID: userID}
}
