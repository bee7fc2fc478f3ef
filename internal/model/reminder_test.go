package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeRange(t *testing.T) {
	// 2024-06-10 is a Monday.
	monday := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)
	friday := time.Date(2024, time.June, 14, 9, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC)
	sunday := time.Date(2024, time.June, 16, 8, 0, 0, 0, time.UTC)
	wednesday := time.Date(2024, time.June, 12, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		pick QuickPick
		now  time.Time
		want ReminderRange
	}{
		{"today", QuickPickToday, monday, ReminderRange{date(2024, 6, 10), date(2024, 6, 10)}},
		{"tomorrow", QuickPickTomorrow, monday, ReminderRange{date(2024, 6, 11), date(2024, 6, 11)}},
		{"tomorrow across month", QuickPickTomorrow, time.Date(2024, 6, 30, 1, 0, 0, 0, time.UTC), ReminderRange{date(2024, 7, 1), date(2024, 7, 1)}},
		{"this week from monday", QuickPickThisWeek, monday, ReminderRange{date(2024, 6, 10), date(2024, 6, 14)}},
		{"this week from wednesday", QuickPickThisWeek, wednesday, ReminderRange{date(2024, 6, 12), date(2024, 6, 14)}},
		{"this week from friday", QuickPickThisWeek, friday, ReminderRange{date(2024, 6, 14), date(2024, 6, 14)}},
		{"this week from saturday", QuickPickThisWeek, saturday, ReminderRange{date(2024, 6, 15), date(2024, 6, 15)}},
		{"this week from sunday", QuickPickThisWeek, sunday, ReminderRange{date(2024, 6, 16), date(2024, 6, 21)}},
		{"next week from monday", QuickPickNextWeek, monday, ReminderRange{date(2024, 6, 17), date(2024, 6, 21)}},
		{"next week from friday", QuickPickNextWeek, friday, ReminderRange{date(2024, 6, 17), date(2024, 6, 21)}},
		{"next week from saturday", QuickPickNextWeek, saturday, ReminderRange{date(2024, 6, 17), date(2024, 6, 21)}},
		{"next week from sunday", QuickPickNextWeek, sunday, ReminderRange{date(2024, 6, 17), date(2024, 6, 21)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeRange(tt.pick, tt.now, "")
			if err != nil {
				t.Fatalf("ComputeRange() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeRange() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeRange_NextWeekAlwaysMondayToFriday(t *testing.T) {
	start := time.Date(2024, time.June, 9, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		now := start.AddDate(0, 0, i)
		r, err := ComputeRange(QuickPickNextWeek, now, "")
		if err != nil {
			t.Fatalf("ComputeRange(%s) error: %v", now.Weekday(), err)
		}
		if r.Start.Weekday() != time.Monday {
			t.Errorf("from %s: start is %s, want Monday", now.Weekday(), r.Start.Weekday())
		}
		if r.Due.Weekday() != time.Friday {
			t.Errorf("from %s: due is %s, want Friday", now.Weekday(), r.Due.Weekday())
		}
		if got := r.Due.Sub(r.Start); got != 4*24*time.Hour {
			t.Errorf("from %s: due-start = %s, want 96h", now.Weekday(), got)
		}
		if !r.Start.After(now) {
			t.Errorf("from %s: start %s is not after now", now.Weekday(), r.Start)
		}
	}
}

func TestComputeRange_LocalMidnight(t *testing.T) {
	loc := time.FixedZone("EDT", -4*60*60)
	now := time.Date(2024, time.June, 10, 22, 15, 0, 0, loc)

	r, err := ComputeRange(QuickPickToday, now, "")
	if err != nil {
		t.Fatalf("ComputeRange() error: %v", err)
	}

	dates := r.FlagDates()
	if dates.StartDate != "2024-06-10T04:00:00.000Z" {
		t.Errorf("StartDate = %q, want %q", dates.StartDate, "2024-06-10T04:00:00.000Z")
	}
	if dates.DueDate != dates.StartDate {
		t.Errorf("DueDate = %q, want %q", dates.DueDate, dates.StartDate)
	}
}

func TestComputeRange_Custom(t *testing.T) {
	now := time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC)

	r, err := ComputeRange(QuickPickCustom, now, "2024-07-04")
	if err != nil {
		t.Fatalf("ComputeRange() error: %v", err)
	}
	want := ReminderRange{date(2024, 7, 4), date(2024, 7, 4)}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("custom range mismatch (-want +got):\n%s", diff)
	}

	if _, err := ComputeRange(QuickPickCustom, now, "07/04/2024"); err == nil {
		t.Fatal("expected error for malformed custom date, got nil")
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	got := FormatTimestamp(time.Date(2024, time.June, 17, 0, 0, 0, 0, loc))
	if got != "2024-06-16T22:00:00.000Z" {
		t.Errorf("FormatTimestamp() = %q, want %q", got, "2024-06-16T22:00:00.000Z")
	}
}

func TestParseQuickPick(t *testing.T) {
	tests := map[string]QuickPick{
		"today":     QuickPickToday,
		"Tomorrow":  QuickPickTomorrow,
		"this week": QuickPickThisWeek,
		"nextWeek":  QuickPickNextWeek,
		" custom ":  QuickPickCustom,
	}
	for in, want := range tests {
		got, err := ParseQuickPick(in)
		if err != nil {
			t.Fatalf("ParseQuickPick(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseQuickPick(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseQuickPick("someday"); err == nil {
		t.Error("expected error for unknown quick pick")
	}
}
