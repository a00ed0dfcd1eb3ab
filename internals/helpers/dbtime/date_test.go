package dbtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	type payload struct {
		When  Date  `json:"when"`
		Maybe *Date `json:"maybe"`
	}
	in := payload{When: NewDate(2025, time.March, 9)}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2025-03-09","maybe":null}`, string(b))

	var out payload
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, out.When.Equal(in.When))
	assert.Nil(t, out.Maybe)
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2025-01-31"))
	assert.Equal(t, "2025-01-31", d.String())

	require.NoError(t, d.Scan([]byte("2025-02-01T00:00:00Z")))
	assert.Equal(t, "2025-02-01", d.String())

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	require.NoError(t, d.Scan(time.Date(2025, 3, 30, 0, 30, 0, 0, paris)))
	assert.Equal(t, "2025-03-30", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := NewDate(2025, 4, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", v)
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2024, time.December, 31)
	assert.Equal(t, "2025-01-01", d.AddDays(1).String())
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.Equal(t, "2025-03-03", NewDate(2025, time.February, 31).String())
}

func TestParseHHMM(t *testing.T) {
	m, err := ParseHHMM("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, m)

	for _, bad := range []string{"8:30", "24:00", "12:60", "12h30", ""} {
		assert.False(t, IsHHMM(bad), bad)
	}
	assert.True(t, IsHHMM("23:59"))
}
