package futex

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipUnsupported(t *testing.T) {
	t.Helper()
	if !Supported() {
		t.Skipf(`no native wait primitive (%s)`, Name())
	}
}

func TestOutcome_String(t *testing.T) {
	for _, tc := range [...]struct {
		outcome Outcome
		want    string
	}{
		{Woken, `woken`},
		{Mismatch, `mismatch`},
		{TimedOut, `timed out`},
		{Interrupted, `interrupted`},
		{Outcome(200), `unknown`},
	} {
		assert.Equal(t, tc.want, tc.outcome.String())
	}
}

func TestWait_nilAddress(t *testing.T) {
	assert.PanicsWithValue(t, `futex: nil address`, func() { _, _ = Wait(nil, 0, -1) })
	assert.PanicsWithValue(t, `futex: nil address`, func() { _ = Wake(nil) })
	assert.PanicsWithValue(t, `futex: nil address`, func() { _ = WakeAll(nil) })
}

func TestWait_zeroTimeout(t *testing.T) {
	var word uint32
	outcome, err := Wait(&word, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, TimedOut, outcome)
}

// hangs if the value is not compared before blocking
func TestWait_checksValue(t *testing.T) {
	skipUnsupported(t)
	var word uint32
	done := make(chan Outcome, 1)
	go func() {
		outcome, err := Wait(&word, 1, -1)
		assert.NoError(t, err)
		done <- outcome
	}()
	select {
	case outcome := <-done:
		assert.NotEqual(t, TimedOut, outcome)
	case <-time.After(5 * time.Second):
		t.Fatal(`wait blocked despite a value mismatch`)
	}
}

func TestWait_timeout(t *testing.T) {
	skipUnsupported(t)
	var word uint32
	deadline := time.Now().Add(5 * time.Second)
	for {
		start := time.Now()
		outcome, err := Wait(&word, 0, 20*time.Millisecond)
		require.NoError(t, err)
		if outcome == TimedOut {
			assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf(`never timed out, last outcome: %s`, outcome)
		}
	}
}

// observes the writes of the waking thread, once the word changed
func TestWait_wakes(t *testing.T) {
	skipUnsupported(t)
	const (
		preparing = 0
		parked    = 1
		unparked  = 2
	)
	var (
		word  uint32
		other atomic.Uint32
	)
	go func() {
		for atomic.LoadUint32(&word) == preparing {
			time.Sleep(time.Millisecond)
		}
		for i := uint32(1); i <= 1000; i++ {
			other.Store(i)
		}
		atomic.StoreUint32(&word, unparked)
		assert.NoError(t, WakeAll(&word))
	}()
	atomic.StoreUint32(&word, parked)
	for atomic.LoadUint32(&word) == parked {
		_, err := Wait(&word, parked, -1)
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(unparked), atomic.LoadUint32(&word))
	assert.Equal(t, uint32(1000), other.Load())
}

func TestWake_noWaiters(t *testing.T) {
	skipUnsupported(t)
	var word uint32
	assert.NoError(t, Wake(&word))
	assert.NoError(t, WakeAll(&word))
}
