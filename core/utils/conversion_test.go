package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Int64", int64(42), 42},
		{"Uint8", uint8(7), 7},
		{"Float", 3.9, 3},
		{"Bytes", []byte("12"), 12},
		{"PaddedString", " 5 ", 5},
		{"Bool", true, 1},
		{"Garbage", "abc", 0},
		{"Nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "Skyrim.esm", ToString([]byte("Skyrim.esm")))
	assert.Equal(t, "12", ToString(12))
	assert.Equal(t, "", ToString(nil))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"Bool", true, true},
		{"TinyInt", int64(1), true},
		{"Zero", int64(0), false},
		{"StringTrue", "TRUE", true},
		{"StringYes", "yes", true},
		{"BytesOne", []byte("1"), true},
		{"StringNo", "no", false},
		{"Nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBool(tt.in))
		})
	}
}
