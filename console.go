package osal

import (
	"fmt"

	"github.com/go-osal/osal/internal/idmap"
)

// ConsoleWrite enqueues raw bytes for the console drain goroutine. It
// never blocks; bytes are dropped and counted if the ring is full or
// disabled.
func ConsoleWrite(data []byte) (int, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	if s.console == nil {
		return 0, newErr("OS_ConsoleWrite", idmap.ObjectIdUndefined, KindNotImplemented, "no console backend configured")
	}
	return s.console.Write(data)
}

// Printf formats and writes to the console ring, mirroring OS_printf.
func Printf(format string, args ...any) {
	s, err := current()
	if err != nil || s.console == nil {
		return
	}
	s.console.Write([]byte(fmt.Sprintf(format, args...)))
}

// ConsoleSetEnabled gates whether console output is accepted.
func ConsoleSetEnabled(enabled bool) error {
	s, err := current()
	if err != nil {
		return err
	}
	if s.console == nil {
		return newErr("OS_ConsoleSetEnabled", idmap.ObjectIdUndefined, KindNotImplemented, "no console backend configured")
	}
	s.console.SetEnabled(enabled)
	return nil
}

// ConsoleEnabled reports whether console output is currently accepted.
func ConsoleEnabled() (bool, error) {
	s, err := current()
	if err != nil {
		return false, err
	}
	if s.console == nil {
		return false, nil
	}
	return s.console.Enabled(), nil
}

// ConsoleOverflow reports how many bytes have been dropped because
// the console ring was full when written.
func ConsoleOverflow() (uint64, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	if s.console == nil {
		return 0, nil
	}
	return s.console.Overflow(), nil
}
