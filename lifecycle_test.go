package osal

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-osal/osal/backend/sim"
	"github.com/go-osal/osal/internal/climits"
)

func testBackends() Backends {
	cfg := climits.DefaultConfig()
	return Backends{
		Task:     sim.NewTaskBackend(),
		Queue:    sim.NewQueueBackend(),
		BinSem:   sim.NewBinSemBackend(),
		CountSem: sim.NewCountSemBackend(cfg.MaxSemValue),
		Mutex:    sim.NewMutexBackend(),
		RWLock:   sim.NewRWLockBackend(),
		TimeBase: sim.NewTimeBaseBackend(),
		File:     sim.NewFileBackend(),
		Module:   sim.NewModuleBackend(),
		Console:  sim.NewConsoleBackend(os.Stdout),
	}
}

func initForTest(t *testing.T) {
	t.Helper()
	require.NoError(t, Init(climits.DefaultConfig(), testBackends()))
	t.Cleanup(func() { _ = Teardown() })
}

func TestInitTwiceFails(t *testing.T) {
	initForTest(t)
	err := Init(climits.DefaultConfig(), testBackends())
	assert.Error(t, err)
}

func TestOperationsBeforeInitFail(t *testing.T) {
	_, err := TaskGetIdByName("anything")
	assert.Error(t, err)
}

func TestTeardownClosesActiveTimeBases(t *testing.T) {
	initForTest(t)
	tbId, err := TimeBaseCreate("tb", false)
	require.NoError(t, err)
	require.NoError(t, Teardown())

	// a second Init after Teardown must succeed, proving the previous
	// state (including tb's dispatch goroutine) was fully torn down.
	require.NoError(t, Init(climits.DefaultConfig(), testBackends()))
	_, err = TimeBaseGetAccuracy(tbId)
	assert.Error(t, err) // stale id from the torn-down instance
}

func TestTeardownWithoutInitIsNoop(t *testing.T) {
	assert.NoError(t, Teardown())
}
