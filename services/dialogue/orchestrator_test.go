package dialogue

import (
	"context"
	"sync"
	"testing"
	"time"

	"cineride/models"
	"cineride/services/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedTranscript struct {
	mu    sync.Mutex
	turns map[string][]models.Turn
}

func (r *recordedTranscript) Append(_ context.Context, userID string, turns ...models.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.turns == nil {
		r.turns = map[string][]models.Turn{}
	}
	r.turns[userID] = append(r.turns[userID], turns...)
	return nil
}

func newTestOrchestrator(gw *fakeDispatcher, provider *fakeProvider) (*Orchestrator, *recordedTranscript) {
	members := &fakeMembers{}
	rec := &recordedTranscript{}
	return &Orchestrator{
		Store:    NewSessionStore(0, zapNop()),
		Movie:    &MovieFlow{GW: gw, Members: members, Logger: zapNop()},
		Bike:     &BikeFlow{GW: gw, Members: members, Logger: zapNop()},
		Cancel:   &CancelFlow{GW: gw, Logger: zapNop()},
		Lookup:   &LookupFlow{GW: gw, Logger: zapNop()},
		Chat:     &FreeChat{Provider: provider, Logger: zapNop(), Sleep: func(time.Duration) {}},
		Recorder: rec,
		Logger:   zapNop(),
	}, rec
}

func TestHandleTurnRejectsAnonymous(t *testing.T) {
	o, _ := newTestOrchestrator(newFakeDispatcher(), &fakeProvider{})

	resp, err := o.HandleTurn(context.Background(), "  ", "hello")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	o.Store.mu.RLock()
	assert.Empty(t, o.Store.sessions, "no session for an anonymous caller")
	o.Store.mu.RUnlock()
}

func TestHandleTurnStartsMovieFlow(t *testing.T) {
	gw := newFakeDispatcher()
	gw.respond(gateway.OpListCinemas, cinemaRows())
	o, rec := newTestOrchestrator(gw, &fakeProvider{})

	resp, err := o.HandleTurn(context.Background(), "u1", "영화 예매 할래")

	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Gangnam")
	assert.Equal(t, StepBranchSelect, o.Store.GetOrCreate("u1").Step)

	require.Len(t, rec.turns["u1"], 2, "user and model turns are persisted")
	assert.Equal(t, "user", rec.turns["u1"][0].Role)
	assert.Equal(t, "model", rec.turns["u1"][1].Role)
}

func TestHandleTurnStartsBikeFlow(t *testing.T) {
	gw := newFakeDispatcher()
	gw.respond(gateway.OpListBikes, bikeRows())
	o, _ := newTestOrchestrator(gw, &fakeProvider{})

	resp, err := o.HandleTurn(context.Background(), "u1", "자전거 대여 할래")

	require.NoError(t, err)
	assert.Contains(t, resp.Message, "BK-001")
	assert.Equal(t, StepBikeSelect, o.Store.GetOrCreate("u1").Step)
}

func TestHandleTurnBareCancelResetsAnywhere(t *testing.T) {
	gw := newFakeDispatcher()
	o, _ := newTestOrchestrator(gw, &fakeProvider{})

	sess := o.Store.GetOrCreate("u1")
	sess.Lock()
	sess.Step = StepSeatSelect
	sess.Pending = pendingCancel
	sess.Unlock()

	resp, err := o.HandleTurn(context.Background(), "u1", "취소")

	require.NoError(t, err)
	assert.Equal(t, cancelAck, resp.Message)
	assert.Equal(t, StepIdle, sess.Step)
	assert.Equal(t, pendingNone, sess.Pending)
	assert.Empty(t, gw.calls)
}

func TestHandleTurnRestartOverridesMidFlow(t *testing.T) {
	gw := newFakeDispatcher()
	gw.respond(gateway.OpListCinemas, cinemaRows())
	o, _ := newTestOrchestrator(gw, &fakeProvider{})

	sess := o.Store.GetOrCreate("u1")
	sess.Lock()
	sess.Step = StepBikeTimeInput
	sess.Bike.HourlyRate = 12000
	sess.Unlock()

	resp, err := o.HandleTurn(context.Background(), "u1", "영화 예매 할래")

	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Nearby cinemas")
	assert.Equal(t, StepBranchSelect, sess.Step)
	assert.Zero(t, sess.Bike.HourlyRate, "restart wipes the abandoned flow context")
}

func TestHandleTurnMidFlowInputStaysWithOwningFlow(t *testing.T) {
	gw := newFakeDispatcher()
	gw.respond(gateway.OpListCinemas, cinemaRows())
	gw.respond(gateway.OpListSchedules, scheduleRows())
	o, _ := newTestOrchestrator(gw, &fakeProvider{})

	_, err := o.HandleTurn(context.Background(), "u1", "movie booking please")
	require.NoError(t, err)
	resp, err := o.HandleTurn(context.Background(), "u1", "1")
	require.NoError(t, err)

	assert.Contains(t, resp.Message, "Arrival")
	assert.Equal(t, StepMovieSelect, o.Store.GetOrCreate("u1").Step)
}

func TestHandleTurnPendingCancelConfirmedFromHistory(t *testing.T) {
	gw := newFakeDispatcher()
	gw.respond(gateway.OpCancel, map[string]any{"result": "success"})
	provider := &fakeProvider{replies: []string{"Noted, your reservation number is 1234567890."}}
	o, _ := newTestOrchestrator(gw, provider)

	// Turn 1: free chat mentions the number, which lands in history.
	_, err := o.HandleTurn(context.Background(), "u1", "my reservation number is 1234567890")
	require.NoError(t, err)

	// Turn 2: cancel intent without a number sets the pending sub-flow.
	resp, err := o.HandleTurn(context.Background(), "u1", "cancel my reservation")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "10-digit")
	assert.Equal(t, pendingCancel, o.Store.GetOrCreate("u1").Pending)

	// Turn 3: a bare affirmative resolves against the history scan.
	resp, err = o.HandleTurn(context.Background(), "u1", "네")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "1234567890 has been cancelled")

	ops := gw.callOps()
	require.Len(t, ops, 1)
	assert.Equal(t, gateway.OpCancel, ops[0])
}

func TestHandleTurnUnknownFallsToFreeChat(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Here's a dinner idea."}}
	o, _ := newTestOrchestrator(newFakeDispatcher(), provider)

	resp, err := o.HandleTurn(context.Background(), "u1", "what should I eat tonight")

	require.NoError(t, err)
	assert.Equal(t, "Here's a dinner idea.", resp.Message)
	assert.Equal(t, 1, provider.calls)
}

func TestHandleTurnShowtimesFallsToFreeChat(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Screenings run all evening."}}
	o, _ := newTestOrchestrator(newFakeDispatcher(), provider)

	resp, err := o.HandleTurn(context.Background(), "u1", "what are the showtimes")

	require.NoError(t, err)
	assert.Equal(t, "Screenings run all evening.", resp.Message)
}

func TestHandleTurnDistinctUsersNotSerialized(t *testing.T) {
	gw := newFakeDispatcher()
	gw.respond(gateway.OpListCinemas, cinemaRows())
	gw.block = make(chan struct{})
	provider := &fakeProvider{replies: []string{"hi"}}
	o, _ := newTestOrchestrator(gw, provider)

	// User A's turn parks inside the gateway call, holding A's session lock.
	aDone := make(chan struct{})
	go func() {
		defer close(aDone)
		_, _ = o.HandleTurn(context.Background(), "user-a", "movie booking")
	}()

	// User B's free-chat turn must complete while A is still blocked.
	bDone := make(chan struct{})
	go func() {
		defer close(bDone)
		_, _ = o.HandleTurn(context.Background(), "user-b", "hello")
	}()

	select {
	case <-bDone:
	case <-time.After(2 * time.Second):
		t.Fatal("user B was serialized behind user A's in-flight turn")
	}

	close(gw.block)
	select {
	case <-aDone:
	case <-time.After(2 * time.Second):
		t.Fatal("user A's turn never completed")
	}
}
