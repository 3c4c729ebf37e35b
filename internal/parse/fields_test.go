package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateAcceptsBothForms(t *testing.T) {
	iso, err := Date("2024-03-15")
	require.NoError(t, err)

	localized, err := Date("15/03/2024")
	require.NoError(t, err)

	require.Equal(t, iso, localized)
	require.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), iso)
}

func TestDateTruncatesTimestamps(t *testing.T) {
	got, err := Date("2024-01-01 08:15:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = Date("2024-01-01T08:15:00Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not a date", "2024/01/01", "15-03-2024"} {
		_, err := Date(input)
		require.ErrorIs(t, err, ErrUnparseableDate, "input %q", input)
	}
}

func TestDurationMinutes(t *testing.T) {
	cases := map[string]int{
		"01:15:30": 75, // seconds truncated
		"01:15":    75,
		"00:45:00": 45,
		"45":       45,
		"1,5":      1, // comma decimal, truncated
		"2.9":      2,
		"":         0,
		"abc":      0,
		"1:2:3:4":  0,
		"-5":       0,
	}
	for input, want := range cases {
		require.Equal(t, want, DurationMinutes(input), "input %q", input)
	}
}

func TestCountStripsThousandsSeparators(t *testing.T) {
	for _, input := range []string{"12345", "12,345", "12 345", "12 345"} {
		got := Count(input)
		require.NotNil(t, got, "input %q", input)
		require.Equal(t, 12345, *got, "input %q", input)
	}
}

func TestCountDistinguishesAbsentFromZero(t *testing.T) {
	require.Nil(t, Count(""))
	require.Nil(t, Count("   "))
	require.Nil(t, Count("n/a"))

	zero := Count("0")
	require.NotNil(t, zero)
	require.Equal(t, 0, *zero)
}
