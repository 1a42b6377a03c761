package generic

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - calendar dates and instants carried by records
// =============================================================================

// TimePoint is either a calendar day ("2026-01-15") or an instant
// ("2026-01-15T08:00:00Z"). The granularity decides comparison and formatting.
type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityInstant
)

const dayLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

func NewInstant(t time.Time) TimePoint {
	return TimePoint{Time: t.UTC(), Granularity: GranularityInstant}
}

// ParseTimePoint accepts YYYY-MM-DD or RFC3339.
func ParseTimePoint(s string) (TimePoint, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return TimePoint{Time: t, Granularity: GranularityDay}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC3339", s)
	}
	return NewInstant(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool  { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool  { return tp.normalize().After(other.normalize()) }

func (tp TimePoint) normalize() time.Time {
	if tp.Granularity == GranularityDay {
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
	}
	return tp.Time
}

func (tp TimePoint) IsZero() bool { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	if tp.Granularity == GranularityDay {
		return tp.Time.Format(dayLayout)
	}
	return tp.Time.Format(time.RFC3339)
}

func (tp TimePoint) MarshalJSON() ([]byte, error) {
	if tp.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(tp.String())
}

func (tp *TimePoint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*tp = TimePoint{}
		return nil
	}
	parsed, err := ParseTimePoint(s)
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// DaysBetween counts whole days from -> to; negative when to is earlier.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
