package sizes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKilobytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		garbage bool
	}{
		{name: "plain", input: "1024", want: 1024},
		{name: "k suffix", input: "16k", want: 16},
		{name: "upper K", input: "16K", want: 16},
		{name: "megabytes", input: "16M", want: 16 * 1024},
		{name: "lower m", input: "2m", want: 2048},
		{name: "gigabytes", input: "2G", want: 2 * 1024 * 1024},
		{name: "hex", input: "0x10", want: 16},
		{name: "hex with suffix", input: "0x10M", want: 16 * 1024},
		{name: "octal", input: "010", want: 8},
		{name: "zero", input: "0", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "leading space", input: "  64", want: 64},
		{name: "plus sign", input: "+64", want: 64},
		{name: "unknown suffix", input: "16T", garbage: true},
		{name: "trailing garbage", input: "16MB", garbage: true},
		{name: "letters", input: "abc", garbage: true},
		{name: "bad octal digit", input: "08", garbage: true},
		{name: "bare hex prefix", input: "0x", garbage: true},
		{name: "negative", input: "-5", garbage: true},
		{name: "overflow", input: "18446744073709551615G", garbage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKilobytes(tt.input)
			if tt.garbage {
				require.ErrorIs(t, err, ErrGarbage)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		bits    int
		want    uint64
		wantErr bool
	}{
		{name: "decimal", input: "255", bits: 32, want: 255},
		{name: "hex", input: "0x5452574F", bits: 32, want: 0x5452574F},
		{name: "octal", input: "017", bits: 32, want: 15},
		{name: "trailing ignored", input: "63abc", bits: 32, want: 63},
		{name: "empty", input: "", bits: 32, wantErr: true},
		{name: "not a number", input: "heads", bits: 32, wantErr: true},
		{name: "out of range", input: "0x100000000", bits: 32, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUint(tt.input, tt.bits)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
