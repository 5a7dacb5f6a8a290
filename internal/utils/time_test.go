package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		a, b time.Time
		loc  *time.Location
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: 0,
		},
		{
			name: "two minutes across midnight",
			a:    time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC),
			loc:  time.UTC,
			want: 1,
		},
		{
			name: "47 hours within two calendar days",
			a:    time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC),
			loc:  time.UTC,
			want: 1,
		},
		{
			name: "across DST change",
			a:    time.Date(2026, 3, 7, 12, 0, 0, 0, ny),
			b:    time.Date(2026, 3, 9, 12, 0, 0, 0, ny),
			loc:  ny,
			want: 2,
		},
		{
			name: "dates are taken in the given location",
			a:    time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC), // Mar 1 22:00 in New York
			b:    time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
			loc:  ny,
			want: 1,
		},
		{
			name: "backwards",
			a:    time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: -3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalendarDaysBetween(tt.a, tt.b, tt.loc); got != tt.want {
				t.Errorf("CalendarDaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenDates(t *testing.T) {
	got, err := DaysBetweenDates("2026-02-27", "2026-03-02")
	if err != nil {
		t.Fatalf("DaysBetweenDates() error = %v", err)
	}
	if got != 3 {
		t.Errorf("DaysBetweenDates() = %d, want 3", got)
	}

	if _, err := DaysBetweenDates("02/27/2026", "2026-03-02"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestElapsedWholeDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		since time.Time
		want  int
	}{
		{"one hour", now.Add(-time.Hour), 0},
		{"exactly a day", now.Add(-24 * time.Hour), 1},
		{"25 hours", now.Add(-25 * time.Hour), 1},
		{"49 hours", now.Add(-49 * time.Hour), 2},
		{"future by an hour", now.Add(time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedWholeDays(tt.since, now); got != tt.want {
				t.Errorf("ElapsedWholeDays() = %d, want %d", got, tt.want)
			}
		})
	}
}
