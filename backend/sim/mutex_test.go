package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMutexExcludesConcurrentHolders(t *testing.T) {
	b := NewMutexBackend()
	m, err := b.CreateMutex()
	require.NoError(t, err)

	require.NoError(t, m.Take())

	released := make(chan struct{})
	go func() {
		require.NoError(t, m.Take())
		close(released)
		require.NoError(t, m.Give())
	}()

	select {
	case <-released:
		t.Fatal("second Take succeeded while mutex was held")
	case <-time.After(30 * time.Millisecond):
	}

	require.NoError(t, m.Give())
	<-released
}

func TestRWLockAllowsConcurrentReaders(t *testing.T) {
	b := NewRWLockBackend()
	l, err := b.CreateRWLock()
	require.NoError(t, err)

	require.NoError(t, l.ReadTake())
	done := make(chan struct{})
	go func() {
		require.NoError(t, l.ReadTake())
		close(done)
		require.NoError(t, l.ReadGive())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second reader blocked behind first reader")
	}
	require.NoError(t, l.ReadGive())
}

func TestRWLockWriterExcludesReaders(t *testing.T) {
	b := NewRWLockBackend()
	l, err := b.CreateRWLock()
	require.NoError(t, err)

	require.NoError(t, l.WriteTake())
	readerDone := make(chan struct{})
	go func() {
		require.NoError(t, l.ReadTake())
		close(readerDone)
		require.NoError(t, l.ReadGive())
	}()

	select {
	case <-readerDone:
		t.Fatal("reader proceeded while writer held the lock")
	case <-time.After(30 * time.Millisecond):
	}

	require.NoError(t, l.WriteGive())
	<-readerDone
}
