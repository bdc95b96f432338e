package inhibit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mu        sync.Mutex
	calls     []string
	next      uint32
	failNext  error
	closed    bool
	uninhibit []uint32
}

func (b *fakeBus) Inhibit(app, reason string) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failNext; err != nil {
		b.failNext = nil
		return 0, err
	}
	b.next++
	b.calls = append(b.calls, "inhibit "+app+": "+reason)
	return b.next, nil
}

func (b *fakeBus) UnInhibit(cookie uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "uninhibit")
	b.uninhibit = append(b.uninhibit, cookie)
	return nil
}

func (b *fakeBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *fakeBus) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

const wait = 2 * time.Second

func TestInhibitRelease(t *testing.T) {
	bus := &fakeBus{}
	in := NewWithBus("winrun", bus)

	in.Inhibit("focused")
	require.Eventually(t, in.Active, wait, time.Millisecond)
	assert.Equal(t, []string{"inhibit winrun: focused"}, bus.snapshot())

	in.Release()
	require.Eventually(t, func() bool { return !in.Active() }, wait, time.Millisecond)
	assert.Equal(t, []uint32{1}, bus.uninhibit)

	require.NoError(t, in.Close())
	assert.True(t, bus.closed)
}

func TestRepeatedInhibitIsIdempotent(t *testing.T) {
	bus := &fakeBus{}
	in := NewWithBus("winrun", bus)
	defer in.Close()

	in.Inhibit("a")
	require.Eventually(t, in.Active, wait, time.Millisecond)
	in.Inhibit("b")
	in.Inhibit("c")

	// Give the worker a chance to act on the extra requests.
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, bus.snapshot(), 1)
}

func TestCloseReleases(t *testing.T) {
	bus := &fakeBus{}
	in := NewWithBus("winrun", bus)

	in.Inhibit("focused")
	require.Eventually(t, in.Active, wait, time.Millisecond)

	require.NoError(t, in.Close())
	assert.False(t, in.Active())
	assert.Equal(t, []string{"inhibit winrun: focused", "uninhibit"}, bus.snapshot())

	// A second Close is a no-op.
	assert.NoError(t, in.Close())
}

func TestBusErrorIsRecorded(t *testing.T) {
	boom := errors.New("no screensaver")
	bus := &fakeBus{failNext: boom}
	in := NewWithBus("winrun", bus)
	defer in.Close()

	in.Inhibit("focused")
	require.Eventually(t, func() bool { return in.Err() != nil }, wait, time.Millisecond)
	assert.ErrorIs(t, in.Err(), boom)
	assert.False(t, in.Active())

	// The next request retries.
	in.Release()
	in.Inhibit("focused")
	require.Eventually(t, in.Active, wait, time.Millisecond)
}
