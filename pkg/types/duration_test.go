package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("01:30")
	require.NoError(t, err)
	assert.Equal(t, 90, d.Minutes())

	// Секунды отбрасываются
	d, err = ParseDuration("00:45:00")
	require.NoError(t, err)
	assert.Equal(t, 45, d.Minutes())

	_, err = ParseDuration("90")
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = ParseDuration("01:75")
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = ParseDuration("-1:30")
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestDuration_Format(t *testing.T) {
	d, err := DurationFromMinutes(125)
	require.NoError(t, err)
	assert.Equal(t, "02:05", d.Format())

	_, err = DurationFromMinutes(-5)
	assert.ErrorIs(t, err, ErrNegativeDuration)
}
