package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mbs/utils"
)

func TestAddMonth_ClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	jan31 := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), utils.AddMonth(jan31, 1))
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), utils.AddMonth(jan31, 2))
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), utils.AddMonth(jan31, -11))

	d25 := time.Date(2025, time.January, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2055, time.January, 25, 0, 0, 0, 0, time.UTC), utils.AddMonth(d25, 360))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := utils.ParseDate("2025-03-25")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-25", utils.FormatDate(d))

	d, err = utils.ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
	assert.Equal(t, "", utils.FormatDate(d))

	_, err = utils.ParseDate("25/03/2025")
	assert.Error(t, err)
}
