package timezone

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
)

// DisplayLayout is the date-time layout used when rendering local times
const DisplayLayout = "2006-01-02 15:04"

// Zone is a named IANA time zone
type Zone struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	ID          string `json:"id" yaml:"id"`
}

// defaultZones is the announcement zone table. Order is display order.
var defaultZones = []Zone{
	{DisplayName: "Pacific Time", ID: "America/Los_Angeles"},
	{DisplayName: "Eastern Time", ID: "America/New_York"},
	{DisplayName: "British Time", ID: "Europe/London"},
	{DisplayName: "Central European Time", ID: "Europe/Paris"},
	{DisplayName: "China Standard Time", ID: "Asia/Shanghai"},
	{DisplayName: "Japan Standard Time", ID: "Asia/Tokyo"},
	{DisplayName: "Australian Eastern Time", ID: "Australia/Sydney"},
}

// Zones returns a copy of the default zone table
func Zones() []Zone {
	out := make([]Zone, len(defaultZones))
	copy(out, defaultZones)
	return out
}

// LocalTime is an instant rendered in one zone
type LocalTime struct {
	Zone    Zone      `json:"zone"`
	Time    time.Time `json:"time"`
	Weekday string    `json:"weekday"`
}

// String renders the local time as "Saturday, 2025-03-01 10:00"
func (lt LocalTime) String() string {
	return fmt.Sprintf("%s, %s", lt.Weekday, lt.Time.Format(DisplayLayout))
}

// accepted input layouts, tried in order
var layouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Parse parses a zone-less date-time string as UTC.
// Supports "2025-03-01 18:00", "2025-03-01T18:00" and the same with seconds.
func Parse(utc string) (time.Time, error) {
	s := strings.TrimSpace(utc)
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.New(apperror.KindInvalidTimestamp,
		"cannot parse event timestamp",
		fmt.Sprintf("%q is not a YYYY-MM-DD HH:MM date-time", utc))
}

// ParseUTC joins a YYYY-MM-DD date and an HH:MM clock and parses them as UTC
func ParseUTC(date, clock string) (time.Time, error) {
	return Parse(strings.TrimSpace(date) + " " + strings.TrimSpace(clock))
}

// Converter renders UTC instants in a fixed list of zones
type Converter struct {
	zones     []Zone
	locations []*time.Location
}

// NewConverter creates a converter for the default zone table
func NewConverter() (*Converter, error) {
	return NewConverterWithZones(defaultZones)
}

// NewConverterWithZones loads every zone up front so conversion cannot fail
// on a missing location later.
func NewConverterWithZones(zones []Zone) (*Converter, error) {
	c := &Converter{
		zones:     make([]Zone, len(zones)),
		locations: make([]*time.Location, len(zones)),
	}
	copy(c.zones, zones)

	for i, z := range zones {
		loc, err := time.LoadLocation(z.ID)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindConfiguration,
				fmt.Sprintf("loading time zone %s", z.ID), err)
		}
		c.locations[i] = loc
	}

	return c, nil
}

// Zones returns the converter's zone table
func (c *Converter) Zones() []Zone {
	out := make([]Zone, len(c.zones))
	copy(out, c.zones)
	return out
}

// Convert parses utc and renders it in every zone.
// An unparsable timestamp returns an invalid_timestamp error and no entries.
func (c *Converter) Convert(utc string) ([]LocalTime, error) {
	t, err := Parse(utc)
	if err != nil {
		return nil, err
	}
	return c.ConvertTime(t), nil
}

// ConvertTime renders t in every zone, in zone-table order
func (c *Converter) ConvertTime(t time.Time) []LocalTime {
	out := make([]LocalTime, 0, len(c.zones))
	for i, z := range c.zones {
		local := t.In(c.locations[i])
		out = append(out, LocalTime{
			Zone:    z,
			Time:    local,
			Weekday: local.Weekday().String(),
		})
	}
	return out
}
