package treatments

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDue_PreservesDayOfMonth(t *testing.T) {
	got := NextDue(date(2024, time.January, 15), 6)
	if got == nil {
		t.Fatal("expected a date, got nil")
	}
	want := date(2024, time.July, 15)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNextDue_ClampsToLastDayOfShorterMonth(t *testing.T) {
	cases := []struct {
		name     string
		applied  time.Time
		interval int
		want     time.Time
	}{
		{"ene 31 + 1 mes (no bisiesto)", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"ene 31 + 1 mes (bisiesto)", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"mar 31 + 1 mes", date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{"ago 31 + 6 meses", date(2023, time.August, 31), 6, date(2024, time.February, 29)},
		{"oct 31 + 13 meses cruza el año", date(2023, time.October, 31), 13, date(2024, time.November, 30)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDue(tc.applied, tc.interval)
			if got == nil {
				t.Fatal("expected a date, got nil")
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNextDue_NoInterval(t *testing.T) {
	if got := NextDue(date(2024, time.May, 10), 0); got != nil {
		t.Fatalf("interval 0: expected nil, got %s", got)
	}
	if got := NextDue(date(2024, time.May, 10), -3); got != nil {
		t.Fatalf("interval negativo: expected nil, got %s", got)
	}
}

func TestDateOnly_KeepsOwnZoneCalendarDay(t *testing.T) {
	// 23:30 del 15 en UTC-3 sigue siendo día 15 para el que registró,
	// aunque en UTC ya sea 16.
	loc := time.FixedZone("UTC-3", -3*60*60)
	in := time.Date(2024, time.January, 15, 23, 30, 0, 0, loc)

	got := DateOnly(in)
	want := date(2024, time.January, 15)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", got.Location())
	}
}
