// Package symtab implements the fixed-record binary layout
// OS_SymbolTableDump writes: one {name, value} pair per module symbol,
// little-endian, name padded/truncated to a fixed width so the file
// can be read back without a length prefix per record.
package symtab

import (
	"encoding/binary"
)

// Entry is one exported symbol and its resolved address.
type Entry struct {
	Name  string
	Value uint32
}

// RecordSize returns the on-disk width of one entry for the given
// name field width (nameLen bytes of name, plus a 4-byte value).
func RecordSize(nameLen int) int {
	return nameLen + 4
}

// Marshal encodes entries as a sequence of fixed-width records. A name
// longer than nameLen is truncated; a shorter one is NUL-padded.
func Marshal(entries []Entry, nameLen int) []byte {
	recSize := RecordSize(nameLen)
	buf := make([]byte, len(entries)*recSize)
	for i, e := range entries {
		off := i * recSize
		n := copy(buf[off:off+nameLen], e.Name)
		for j := off + n; j < off+nameLen; j++ {
			buf[j] = 0
		}
		binary.LittleEndian.PutUint32(buf[off+nameLen:off+nameLen+4], e.Value)
	}
	return buf
}

// Unmarshal decodes a byte slice written by Marshal back into entries.
// It returns an error if data is not an exact multiple of the record
// size for nameLen.
func Unmarshal(data []byte, nameLen int) ([]Entry, error) {
	recSize := RecordSize(nameLen)
	if recSize <= 0 || len(data)%recSize != 0 {
		return nil, errInvalidLength
	}
	count := len(data) / recSize
	entries := make([]Entry, count)
	for i := 0; i < count; i++ {
		off := i * recSize
		name := data[off : off+nameLen]
		end := nameLen
		for end > 0 && name[end-1] == 0 {
			end--
		}
		entries[i] = Entry{
			Name:  string(name[:end]),
			Value: binary.LittleEndian.Uint32(data[off+nameLen : off+nameLen+4]),
		}
	}
	return entries, nil
}

type symtabError string

func (e symtabError) Error() string { return string(e) }

const errInvalidLength = symtabError("symtab: data length is not a multiple of the record size")
