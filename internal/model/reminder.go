package model

import (
	"fmt"
	"strings"
	"time"
)

// QuickPick identifies one of the preset reminder date choices.
type QuickPick string

const (
	QuickPickToday    QuickPick = "today"
	QuickPickTomorrow QuickPick = "tomorrow"
	QuickPickThisWeek QuickPick = "thisWeek"
	QuickPickNextWeek QuickPick = "nextWeek"
	QuickPickCustom   QuickPick = "custom"
)

// QuickPicks lists every quick pick in display order.
var QuickPicks = []QuickPick{
	QuickPickToday,
	QuickPickTomorrow,
	QuickPickThisWeek,
	QuickPickNextWeek,
	QuickPickCustom,
}

// Label returns the button text shown for the quick pick.
func (q QuickPick) Label() string {
	switch q {
	case QuickPickToday:
		return "Today"
	case QuickPickTomorrow:
		return "Tomorrow"
	case QuickPickThisWeek:
		return "This Week"
	case QuickPickNextWeek:
		return "Next Week"
	case QuickPickCustom:
		return "Custom"
	default:
		return string(q)
	}
}

// ParseQuickPick resolves a quick pick from its identifier, accepting
// the labels case-insensitively as well.
func ParseQuickPick(s string) (QuickPick, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, q := range QuickPicks {
		if strings.ToLower(string(q)) == needle ||
			strings.ToLower(q.Label()) == needle {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quick pick %q", s)
}

// DateInputLayout is the layout accepted for custom reminder dates.
const DateInputLayout = "2006-01-02"

// timestampLayout renders an absolute UTC instant with millisecond
// precision and a trailing Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ReminderRange is the start/due pair written to a message's follow-up
// flag. Start is not required to precede Due.
type ReminderRange struct {
	Start time.Time
	Due   time.Time
}

// UTC returns the range with both ends converted to UTC.
func (r ReminderRange) UTC() ReminderRange {
	return ReminderRange{Start: r.Start.UTC(), Due: r.Due.UTC()}
}

// FlagDates serializes the range into the UTC timestamp strings sent to
// the mailbox APIs.
func (r ReminderRange) FlagDates() FlagDates {
	return FlagDates{
		StartDate: FormatTimestamp(r.Start),
		DueDate:   FormatTimestamp(r.Due),
	}
}

// FlagDates holds the serialized start and due timestamps of a flag.
type FlagDates struct {
	StartDate string
	DueDate   string
}

// FormatTimestamp renders t as an absolute UTC timestamp string,
// e.g. 2024-06-10T04:00:00.000Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// StartOfDay returns local midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseCustomDate interprets a YYYY-MM-DD string as local midnight in loc.
func ParseCustomDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateInputLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// ComputeRange returns the reminder range for a quick pick relative to
// now. Weeks start on Sunday. customDate is only consulted for
// QuickPickCustom and must use DateInputLayout.
func ComputeRange(
	pick QuickPick, now time.Time, customDate string,
) (ReminderRange, error) {
	today := StartOfDay(now)

	switch pick {
	case QuickPickToday:
		return ReminderRange{Start: today, Due: today}, nil

	case QuickPickTomorrow:
		d := today.AddDate(0, 0, 1)
		return ReminderRange{Start: d, Due: d}, nil

	case QuickPickThisWeek:
		// Friday of the current week; Friday and Saturday stay on today.
		day := int(today.Weekday())
		diff := 0
		if day <= int(time.Friday) {
			diff = int(time.Friday) - day
		}
		return ReminderRange{Start: today, Due: today.AddDate(0, 0, diff)}, nil

	case QuickPickNextWeek:
		day := int(today.Weekday())
		daysToMonday := 8 - day
		if today.Weekday() == time.Sunday {
			daysToMonday = 1
		}
		start := today.AddDate(0, 0, daysToMonday)
		return ReminderRange{Start: start, Due: start.AddDate(0, 0, 4)}, nil

	case QuickPickCustom:
		d, err := ParseCustomDate(customDate, now.Location())
		if err != nil {
			return ReminderRange{}, err
		}
		return ReminderRange{Start: d, Due: d}, nil

	default:
		return ReminderRange{Start: today, Due: today}, nil
	}
}
