package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewPeriodValidation(t *testing.T) {
	p, err := NewPeriod(time.March, 2025)
	require.NoError(t, err)
	require.Equal(t, time.March, p.Month)
	require.Equal(t, 2025, p.Year)

	_, err = NewPeriod(0, 2025)
	require.True(t, IsValidation(err))
	_, err = NewPeriod(13, 2025)
	require.True(t, IsValidation(err))
	_, err = NewPeriod(time.March, 1800)
	require.True(t, IsValidation(err))
}

func TestPeriodKeyAndLabel(t *testing.T) {
	p, err := NewPeriod(time.March, 2025)
	require.NoError(t, err)
	require.Equal(t, "2025-03", p.Key())
	require.Equal(t, "Marzo 2025", p.Label())

	p, err = NewPeriod(time.December, 2024)
	require.NoError(t, err)
	require.Equal(t, "2024-12", p.Key())
	require.Equal(t, "Diciembre 2024", p.Label())
}

func TestPeriodLabelOutOfRangeMonth(t *testing.T) {
	// Directly constructed periods must not panic on Label.
	require.Equal(t, "0 0", Period{}.Label())
	require.Equal(t, "13 2025", Period{Month: 13, Year: 2025}.Label())
}

func TestPeriodContains(t *testing.T) {
	p, err := NewPeriod(time.March, 2025)
	require.NoError(t, err)
	require.True(t, p.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, p.Contains(time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("7", "2025")
	require.NoError(t, err)
	require.Equal(t, time.July, p.Month)

	_, err = ParsePeriod("x", "2025")
	require.True(t, IsValidation(err))
	_, err = ParsePeriod("7", "x")
	require.True(t, IsValidation(err))
	_, err = ParsePeriod("14", "2025")
	require.True(t, IsValidation(err))
}

func TestPeriodBefore(t *testing.T) {
	jan25 := Period{Month: time.January, Year: 2025}
	dec24 := Period{Month: time.December, Year: 2024}
	feb25 := Period{Month: time.February, Year: 2025}
	require.True(t, dec24.Before(jan25))
	require.True(t, jan25.Before(feb25))
	require.False(t, feb25.Before(jan25))
	require.False(t, jan25.Before(jan25))
}
