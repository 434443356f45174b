// Command osalctl is a thin smoke-test wrapper around the osal
// package: it brings the core up on the sim back-end, exercises a
// task and a queue, and tears back down. On the first operation that
// returns an error it exits 1 for a generic error, otherwise with the
// error's status masked to its low 7 bits.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-osal/osal"
	"github.com/go-osal/osal/backend/sim"
	"github.com/go-osal/osal/internal/climits"
	"github.com/go-osal/osal/internal/errkind"
	"github.com/go-osal/osal/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "osalctl:", err)
		code := 1
		if status := osal.StatusOf(err); status != errkind.StatusError {
			code = int(status) & 0x7F
		}
		os.Exit(code)
	}
}

func run() error {
	logging.SetDefault(logging.NewLogger(&logging.Config{Level: logging.LevelInfo, Output: os.Stderr}))

	backends := osal.Backends{
		Task:     sim.NewTaskBackend(),
		Queue:    sim.NewQueueBackend(),
		BinSem:   sim.NewBinSemBackend(),
		CountSem: sim.NewCountSemBackend(climits.DefaultConfig().MaxSemValue),
		Mutex:    sim.NewMutexBackend(),
		RWLock:   sim.NewRWLockBackend(),
		TimeBase: sim.NewTimeBaseBackend(),
		File:     sim.NewFileBackend(),
		Module:   sim.NewModuleBackend(),
		Console:  sim.NewConsoleBackend(os.Stdout),
	}

	if err := osal.Init(climits.DefaultConfig(), backends); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer osal.Teardown()

	ran := make(chan struct{})
	stop := make(chan struct{})
	taskId, err := osal.TaskCreate("osalctl.worker", func(arg any) {
		osal.Printf("worker running\n")
		close(ran)
		<-stop
	}, nil, 0, 100)
	if err != nil {
		return fmt.Errorf("task create: %w", err)
	}
	<-ran
	if err := osal.TaskDelete(taskId); err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	close(stop)

	qid, err := osal.QueueCreate("osalctl.queue", 4, 64)
	if err != nil {
		return fmt.Errorf("queue create: %w", err)
	}
	ctx := context.Background()
	if err := osal.QueuePut(ctx, qid, []byte("hello"), 0); err != nil {
		return fmt.Errorf("queue put: %w", err)
	}
	buf := make([]byte, 64)
	n, err := osal.QueueGet(ctx, qid, buf, int32(time.Second/time.Millisecond))
	if err != nil {
		return fmt.Errorf("queue get: %w", err)
	}
	osal.Printf("queue roundtrip: %s\n", buf[:n])

	if err := osal.QueueDelete(qid); err != nil {
		return fmt.Errorf("queue delete: %w", err)
	}
	return nil
}
