// Package guid implements the 16-byte GUID value stored in GPT headers and entries.
//
// GPT stores the first three fields of a GUID little-endian while the canonical text form
// prints them big-endian. GUID always holds the on-disk byte order; the conversion to and
// from text goes through github.com/google/uuid, whose byte order matches the text.
package guid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TextLength is the length of the canonical 8-4-4-4-12 text form.
const TextLength = 36

// ErrInvalidGUID is returned when a GUID string is not in canonical form.
var ErrInvalidGUID = errors.New("invalid guid string")

// GUID is a GUID in GPT on-disk (mixed-endian) byte order.
type GUID [16]byte

// Parse converts a canonical 8-4-4-4-12 GUID string into on-disk byte order.
func Parse(s string) (GUID, error) {
	if len(s) != TextLength {
		return GUID{}, fmt.Errorf("%w: %q is %d characters, expected %d", ErrInvalidGUID, s, len(s), TextLength)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("%w: %q: %v", ErrInvalidGUID, s, err)
	}
	return FromUUID(u), nil
}

// MustParse is like Parse but panics on malformed input. Only use it for constants.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// FromUUID converts a big-endian UUID into GPT byte order.
func FromUUID(u uuid.UUID) GUID {
	var g GUID
	g[0], g[1], g[2], g[3] = u[3], u[2], u[1], u[0]
	g[4], g[5] = u[5], u[4]
	g[6], g[7] = u[7], u[6]
	copy(g[8:], u[8:])
	return g
}

// UUID converts the GUID back into text byte order.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:])
	return u
}

// String returns the upper-case canonical text form.
func (g GUID) String() string {
	return strings.ToUpper(g.UUID().String())
}

// IsZero reports whether every byte is zero.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// FromSignature derives a disk GUID from a 32-bit MBR disk signature. The signature fills
// the first field and the remaining fields are fixed, so the result is deterministic.
func FromSignature(signature uint32) GUID {
	var g GUID
	binary.LittleEndian.PutUint32(g[0:4], signature)
	binary.LittleEndian.PutUint16(g[4:6], 0x2211)
	binary.LittleEndian.PutUint16(g[6:8], 0x4433)
	copy(g[8:], []byte{0x55, 0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB, 0x00})
	return g
}

// Partition returns the unique GUID of the partition in the given zero-based slot:
// the disk GUID with its last byte advanced by slot+1 (wrapping).
func (g GUID) Partition(slot int) GUID {
	p := g
	p[15] += byte(slot + 1)
	return p
}

// MarshalText renders the canonical form, used by the json and yaml report formats.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}
