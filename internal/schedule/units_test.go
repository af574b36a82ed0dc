package schedule_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/claude/liftboard/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in   string
		want schedule.Unit
	}{
		{"", schedule.Kilograms},
		{"kg", schedule.Kilograms},
		{"KG", schedule.Kilograms},
		{"lb", schedule.Pounds},
		{" lbs ", schedule.Pounds},
	}
	for _, tt := range tests {
		got, err := schedule.ParseUnit(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := schedule.ParseUnit("stone")
	assert.Error(t, err)
}

func TestConversions(t *testing.T) {
	assert.Equal(t, 60.0, schedule.ToKilograms(60, schedule.Kilograms))
	assert.InDelta(t, 20.4, schedule.ToKilograms(45, schedule.Pounds), 1e-9)
	assert.InDelta(t, 220.5, schedule.FromKilograms(100, schedule.Pounds), 1e-9)
	assert.Equal(t, 100.0, schedule.FromKilograms(100, schedule.Kilograms))
}

func TestToKilogramsHugePounds(t *testing.T) {
	kg := schedule.ToKilograms(1e308, schedule.Pounds)
	assert.False(t, math.IsInf(kg, 0))
	assert.InDelta(t, 1e308*0.453592, kg, 1e295)
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "80.0 kg", schedule.FormatWeight(80, schedule.Kilograms))
	assert.Equal(t, "176.4 lb", schedule.FormatWeight(80, schedule.Pounds))
	assert.Equal(t, "2.5 kg", schedule.FormatWeight(2.5, ""))
}
