package dialogue

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetOrCreateReturnsSameSession(t *testing.T) {
	st := NewSessionStore(0, zapNop())
	a := st.GetOrCreate("u1")
	b := st.GetOrCreate("u1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, st.GetOrCreate("u2"))
}

func TestStoreGetOrCreateConcurrent(t *testing.T) {
	st := NewSessionStore(0, zapNop())
	const users = 8
	const turns = 25

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		id := fmt.Sprintf("user-%d", u)
		for i := 0; i < turns; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sess := st.GetOrCreate(id)
				sess.Lock()
				sess.AddTurn("user", "hi")
				sess.Unlock()
			}()
		}
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		sess := st.GetOrCreate(fmt.Sprintf("user-%d", u))
		assert.Len(t, sess.History, turns, "every turn for a user lands on one session")
	}
}

func TestStoreLazyIdleReset(t *testing.T) {
	st := NewSessionStore(20*time.Millisecond, zapNop())

	sess := st.GetOrCreate("u1")
	sess.Lock()
	sess.Step = StepSeatSelect
	sess.AddTurn("user", "A1")
	sess.Unlock()

	time.Sleep(40 * time.Millisecond)

	again := st.GetOrCreate("u1")
	require.Same(t, sess, again)
	assert.Equal(t, StepIdle, again.Step, "idle-expired session resets before reuse")
	assert.Empty(t, again.History)
}

func TestStoreEvictIdle(t *testing.T) {
	st := NewSessionStore(time.Minute, zapNop())
	st.GetOrCreate("stale")
	busy := st.GetOrCreate("busy")

	// A session mid-turn is never evicted, however old its last activity.
	busy.Lock()
	st.evictIdle(time.Now().Add(2 * time.Minute))
	busy.Unlock()

	st.mu.RLock()
	_, staleOK := st.sessions["stale"]
	_, busyOK := st.sessions["busy"]
	st.mu.RUnlock()

	assert.False(t, staleOK, "stale session is swept")
	assert.True(t, busyOK, "locked session survives the sweep")
}

func TestStoreResetAndRemove(t *testing.T) {
	st := NewSessionStore(0, zapNop())
	sess := st.GetOrCreate("u1")
	sess.Lock()
	sess.Step = StepBikeSelect
	sess.Unlock()

	st.Reset("u1")
	assert.Equal(t, StepIdle, sess.Step)
	assert.Same(t, sess, st.GetOrCreate("u1"), "reset keeps the session object")

	st.Remove("u1")
	assert.NotSame(t, sess, st.GetOrCreate("u1"), "remove drops it entirely")

	st.Reset("nobody") // no-op, must not panic
}
