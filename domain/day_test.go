package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	t.Parallel()

	day, err := ParseDay("2024-03-01")
	if err != nil {
		t.Fatalf("ParseDay returned error: %v", err)
	}
	if got := day.String(); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", got)
	}
	if prev := day.AddDays(-1).String(); prev != "2024-02-29" {
		t.Fatalf("expected leap day, got %s", prev)
	}

	for _, bad := range []string{"", "2024-13-01", "01-03-2024", "2024-03-01T00:00:00Z"} {
		if _, err := ParseDay(bad); !errors.Is(err, ErrInvalidDay) {
			t.Fatalf("ParseDay(%q): expected ErrInvalidDay, got %v", bad, err)
		}
	}
}

func TestDayOfUsesLocation(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	if got := DayOf(instant, time.UTC).String(); got != "2024-06-10" {
		t.Fatalf("utc day: got %s", got)
	}
	if got := DayOf(instant, tokyo).String(); got != "2024-06-11" {
		t.Fatalf("tokyo day: got %s", got)
	}
}

func TestDayWeekdayAndJSON(t *testing.T) {
	t.Parallel()

	day := NewDay(2024, time.June, 10)
	if day.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %s", day.Weekday())
	}

	raw, err := json.Marshal(day)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2024-06-10"` {
		t.Fatalf("unexpected json %s", raw)
	}

	var decoded Day
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != day {
		t.Fatalf("expected %s, got %s", day, decoded)
	}
}

func TestClockToday(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.FixedZone("UTC-5", -5*60*60)).WithNow(func() time.Time {
		return time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	})
	if got := clock.Today().String(); got != "2023-12-31" {
		t.Fatalf("expected 2023-12-31, got %s", got)
	}
}
