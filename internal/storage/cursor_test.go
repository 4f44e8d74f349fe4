package storage

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCursor_RoundTrip — encode/decode сохраняют позицию, в том числе ключ с '|'.
func TestCursor_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range []Cursor{
		{Page: 1, Order: 0, Key: "Top_0_1"},
		{Page: 3, Order: -2, Key: "a|b_-2_3"},
	} {
		got, err := DecodeCursor(EncodeCursor(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

// TestDecodeCursor_Invalid — мусорные токены -> ErrInvalidCursor.
func TestDecodeCursor_Invalid(t *testing.T) {
	t.Parallel()

	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	for _, token := range []string{
		"%%%not-base64",
		enc("1|2"),
		enc("x|2|key"),
		enc("0|2|key"),
		enc("1|y|key"),
		enc("1|2|"),
	} {
		_, err := DecodeCursor(token)
		require.ErrorIs(t, err, ErrInvalidCursor, token)
	}
}
