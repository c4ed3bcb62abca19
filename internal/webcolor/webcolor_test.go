package webcolor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"rgb(255, 0, 0)", "#FF0000"},
		{"rgb(0,128,255)", "#0080FF"},
		{"rgba(255, 0, 0, 1)", "#FF0000FF"},
		{"rgba(16, 32, 48, 0.5)", "#10203080"},
		{"rgba(0, 0, 0, 0)", "#00000000"},
		{"#abc", "#AABBCC"},
		{"#abcd", "#AABBCCDD"},
		{"#1e90ff", "#1E90FF"},
		{"#1E90FF80", "#1E90FF80"},
	}
	for _, tc := range cases {
		got, err := Hex(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestHexAlphaWidth(t *testing.T) {
	// A source without alpha yields exactly 6 hex digits; with alpha, 8.
	noAlpha, err := Hex("rgb(30, 144, 255)")
	require.NoError(t, err)
	assert.Len(t, noAlpha, 7)

	withAlpha, err := Hex("rgba(30, 144, 255, 0.25)")
	require.NoError(t, err)
	assert.Len(t, withAlpha, 9)
}

func TestHexRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "red", "rgb(300, 0, 0)", "rgba(0,0,0,2)", "#12345"} {
		_, err := Hex(in)
		assert.Error(t, err, "input %q", in)
	}
}
