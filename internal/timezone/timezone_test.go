package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
)

func TestParse(t *testing.T) {
	want := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"space separated", "2025-03-01 18:00"},
		{"T separated", "2025-03-01T18:00"},
		{"with seconds", "2025-03-01 18:00:00"},
		{"T with seconds", "2025-03-01T18:00:00"},
		{"surrounding spaces", "  2025-03-01 18:00  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "Parse(%q) = %v, want %v", tt.input, got, want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"tomorrow",
		"2025-02-30 18:00",
		"2025-03-01 25:00",
		"03/01/2025 18:00",
		"2025-03-01",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.Equal(t, apperror.KindInvalidTimestamp, apperror.KindOf(err))
		})
	}
}

func TestParseUTC(t *testing.T) {
	got, err := ParseUTC(" 2025-03-01", "18:00 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), got)
}

func TestConvert_Winter(t *testing.T) {
	c, err := NewConverter()
	require.NoError(t, err)

	got, err := c.Convert("2025-03-01 18:00")
	require.NoError(t, err)
	require.Len(t, got, 7)

	want := []struct {
		zone    string
		local   string
		weekday string
	}{
		{"Pacific Time", "2025-03-01 10:00", "Saturday"},
		{"Eastern Time", "2025-03-01 13:00", "Saturday"},
		{"British Time", "2025-03-01 18:00", "Saturday"},
		{"Central European Time", "2025-03-01 19:00", "Saturday"},
		{"China Standard Time", "2025-03-02 02:00", "Sunday"},
		{"Japan Standard Time", "2025-03-02 03:00", "Sunday"},
		{"Australian Eastern Time", "2025-03-02 05:00", "Sunday"},
	}

	for i, w := range want {
		assert.Equal(t, w.zone, got[i].Zone.DisplayName, "entry %d zone", i)
		assert.Equal(t, w.local, got[i].Time.Format(DisplayLayout), "entry %d local time", i)
		assert.Equal(t, w.weekday, got[i].Weekday, "entry %d weekday", i)
	}
}

func TestConvert_Summer(t *testing.T) {
	c, err := NewConverter()
	require.NoError(t, err)

	got, err := c.Convert("2025-07-01T12:00")
	require.NoError(t, err)

	wantClock := []string{"05:00", "08:00", "13:00", "14:00", "20:00", "21:00", "22:00"}
	require.Len(t, got, len(wantClock))
	for i, clock := range wantClock {
		assert.Equal(t, clock, got[i].Time.Format("15:04"), "zone %s", got[i].Zone.DisplayName)
		assert.Equal(t, "Tuesday", got[i].Weekday)
	}
}

func TestConvert_OrderMatchesTable(t *testing.T) {
	c, err := NewConverter()
	require.NoError(t, err)

	got, err := c.Convert("2030-12-31 23:59")
	require.NoError(t, err)

	zones := Zones()
	require.Len(t, got, len(zones))
	for i := range zones {
		assert.Equal(t, zones[i], got[i].Zone)
		assert.NotEmpty(t, got[i].Weekday)
		_, err := time.Parse(DisplayLayout, got[i].Time.Format(DisplayLayout))
		assert.NoError(t, err)
	}
}

func TestConvert_InvalidFails(t *testing.T) {
	c, err := NewConverter()
	require.NoError(t, err)

	got, err := c.Convert("not-a-date")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTimestamp))
}

func TestConvert_Deterministic(t *testing.T) {
	c, err := NewConverter()
	require.NoError(t, err)

	first, err := c.Convert("2025-10-26 01:30")
	require.NoError(t, err)
	second, err := c.Convert("2025-10-26 01:30")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].String(), second[i].String())
	}
}

func TestNewConverterWithZones_UnknownZone(t *testing.T) {
	_, err := NewConverterWithZones([]Zone{{DisplayName: "Nowhere", ID: "Mars/Olympus_Mons"}})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConfiguration, apperror.KindOf(err))
}

func TestLocalTimeString(t *testing.T) {
	lt := LocalTime{
		Zone:    Zone{DisplayName: "British Time", ID: "Europe/London"},
		Time:    time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		Weekday: "Saturday",
	}
	assert.Equal(t, "Saturday, 2025-03-01 18:00", lt.String())
}

func TestZonesReturnsCopy(t *testing.T) {
	zones := Zones()
	zones[0].DisplayName = "changed"
	assert.Equal(t, "Pacific Time", Zones()[0].DisplayName)
}
