package sim

import (
	"io"
	"os"
)

// ConsoleBackend writes console output to a single underlying writer,
// os.Stdout by default. Tests substitute an in-memory buffer.
type ConsoleBackend struct {
	w io.Writer
}

func NewConsoleBackend(w io.Writer) *ConsoleBackend {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleBackend{w: w}
}

func (b *ConsoleBackend) WriteConsole(buf []byte) (int, error) {
	return b.w.Write(buf)
}
