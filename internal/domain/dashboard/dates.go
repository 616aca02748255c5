package dashboard

import (
	"fmt"
	"time"
)

// DatePreset is a named relative time window resolved to calendar bounds
// at build time.
type DatePreset string

const (
	PresetToday       DatePreset = "today"
	PresetYesterday   DatePreset = "yesterday"
	PresetThisWeek    DatePreset = "this_week"
	PresetLastWeek    DatePreset = "last_week"
	PresetThisMonth   DatePreset = "this_month"
	PresetLastMonth   DatePreset = "last_month"
	PresetThisQuarter DatePreset = "this_quarter"
	PresetLastQuarter DatePreset = "last_quarter"
	PresetThisYear    DatePreset = "this_year"
	PresetLastYear    DatePreset = "last_year"
	PresetLast7Days   DatePreset = "last_7_days"
	PresetLast30Days  DatePreset = "last_30_days"
	PresetLast90Days  DatePreset = "last_90_days"
)

// AllDatePresets lists the presets offered by the filter UI.
func AllDatePresets() []DatePreset {
	return []DatePreset{
		PresetToday, PresetYesterday,
		PresetThisWeek, PresetLastWeek,
		PresetThisMonth, PresetLastMonth,
		PresetThisQuarter, PresetLastQuarter,
		PresetThisYear, PresetLastYear,
		PresetLast7Days, PresetLast30Days, PresetLast90Days,
	}
}

// Label returns the localized preset name.
func (p DatePreset) Label() string {
	switch p {
	case PresetToday:
		return "Сегодня"
	case PresetYesterday:
		return "Вчера"
	case PresetThisWeek:
		return "Эта неделя"
	case PresetLastWeek:
		return "Прошлая неделя"
	case PresetThisMonth:
		return "Этот месяц"
	case PresetLastMonth:
		return "Прошлый месяц"
	case PresetThisQuarter:
		return "Этот квартал"
	case PresetLastQuarter:
		return "Прошлый квартал"
	case PresetThisYear:
		return "Этот год"
	case PresetLastYear:
		return "Прошлый год"
	case PresetLast7Days:
		return "Последние 7 дней"
	case PresetLast30Days:
		return "Последние 30 дней"
	case PresetLast90Days:
		return "Последние 90 дней"
	}
	return string(p)
}

const dateLayout = "2006-01-02"

// ResolveDatePreset resolves a preset to inclusive YYYY-MM-DD bounds,
// anchored to the caller's local today. Weeks start on Monday; quarters
// start in January, April, July and October.
func ResolveDatePreset(preset DatePreset, today time.Time) (string, string, error) {
	// Normalize to a bare date in the caller's location.
	y, m, d := today.Date()
	now := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	var from, to time.Time

	switch preset {
	case PresetToday:
		from, to = now, now
	case PresetYesterday:
		from = now.AddDate(0, 0, -1)
		to = from
	case PresetThisWeek:
		from = startOfWeek(now)
		to = from.AddDate(0, 0, 6)
	case PresetLastWeek:
		from = startOfWeek(now).AddDate(0, 0, -7)
		to = from.AddDate(0, 0, 6)
	case PresetThisMonth:
		from = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, -1)
	case PresetLastMonth:
		firstOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		from = firstOfMonth.AddDate(0, -1, 0)
		to = firstOfMonth.AddDate(0, 0, -1)
	case PresetThisQuarter:
		from = startOfQuarter(now)
		to = from.AddDate(0, 3, -1)
	case PresetLastQuarter:
		thisQuarter := startOfQuarter(now)
		from = thisQuarter.AddDate(0, -3, 0)
		to = thisQuarter.AddDate(0, 0, -1)
	case PresetThisYear:
		from = time.Date(y, 1, 1, 0, 0, 0, 0, now.Location())
		to = time.Date(y, 12, 31, 0, 0, 0, 0, now.Location())
	case PresetLastYear:
		from = time.Date(y-1, 1, 1, 0, 0, 0, 0, now.Location())
		to = time.Date(y-1, 12, 31, 0, 0, 0, 0, now.Location())
	case PresetLast7Days:
		from, to = now.AddDate(0, 0, -6), now
	case PresetLast30Days:
		from, to = now.AddDate(0, 0, -29), now
	case PresetLast90Days:
		from, to = now.AddDate(0, 0, -89), now
	default:
		return "", "", fmt.Errorf("unknown date preset: %s", preset)
	}

	return from.Format(dateLayout), to.Format(dateLayout), nil
}

// startOfWeek returns the Monday of the week containing the date.
func startOfWeek(date time.Time) time.Time {
	daysFromMonday := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -daysFromMonday)
}

// startOfQuarter returns the first day of the calendar quarter.
func startOfQuarter(date time.Time) time.Time {
	quarterMonth := time.Month((int(date.Month())-1)/3*3 + 1)
	return time.Date(date.Year(), quarterMonth, 1, 0, 0, 0, 0, date.Location())
}
