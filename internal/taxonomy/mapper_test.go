package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pespay-cmyk/nutristep/internal/domain"
)

func TestMapExactMatches(t *testing.T) {
	mapper := NewMapper(DefaultTable())

	require.Equal(t, domain.TypeRunning, mapper.Map("running"))
	require.Equal(t, domain.TypeRunning, mapper.Map("Course à pied"))
	require.Equal(t, domain.TypeRunning, mapper.Map("  trail_running  "))
	require.Equal(t, domain.TypeCycling, mapper.Map("CYCLING"))
	require.Equal(t, domain.TypeSwimming, mapper.Map("lap_swimming"))
}

func TestMapSubstringFallback(t *testing.T) {
	mapper := NewMapper(DefaultTable())

	// Input contains a table key.
	require.Equal(t, domain.TypeSkiing, mapper.Map("resort_skiing_snowboarding_ws"))
	// Table key contains the input.
	require.Equal(t, domain.TypeWalking, mapper.Map("walk"))
	require.Equal(t, domain.TypeRunning, mapper.Map("treadmill_running_indoor"))
}

func TestMapUnknownAndEmpty(t *testing.T) {
	mapper := NewMapper(DefaultTable())

	require.Equal(t, domain.TypeOther, mapper.Map(""))
	require.Equal(t, domain.TypeOther, mapper.Map("   "))
	require.Equal(t, domain.TypeOther, mapper.Map("zzz-unmapped-vendor-label"))
}

func TestMapIsDeterministicAndTotal(t *testing.T) {
	mapper := NewMapper(DefaultTable())

	inputs := []string{"", "running", "ski touring", "garbage", "Natation", "1234"}
	for _, input := range inputs {
		first := mapper.Map(input)
		for i := 0; i < 3; i++ {
			require.Equal(t, first, mapper.Map(input))
		}
		require.Contains(t, domain.AllTypes, first)
	}
}

func TestMapTableOrderBreaksTies(t *testing.T) {
	// Two keys that both match the input under different categories: the
	// first table entry wins.
	mapper := NewMapper([]Entry{
		{Label: "nordic", Category: domain.TypeSkiing},
		{Label: "nordic walking", Category: domain.TypeWalking},
	})

	require.Equal(t, domain.TypeSkiing, mapper.Map("nordic walking tour"))
}

func TestMapperIgnoresBlankTableEntries(t *testing.T) {
	mapper := NewMapper([]Entry{
		{Label: "   ", Category: domain.TypeRunning},
		{Label: "yoga", Category: domain.TypeYoga},
	})

	require.Equal(t, domain.TypeYoga, mapper.Map("yoga"))
	require.Equal(t, domain.TypeOther, mapper.Map("anything"))
}
