package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cell parsers for the three report families. None of these return errors:
// unparseable input yields an absence/zero sentinel so that validation, not
// parsing, is the single place failure is decided.

var (
	weeklyRangeRe = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2})-(\d{2})\.(\d{2})\.(\d{2})$`)
	dailyDotRe    = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2})$`)
	dailySlashRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	hoursMinRe    = regexp.MustCompile(`^(\d+):(\d{1,2})\s*hours?$`)
	decimalHrsRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*hours?$`)
	minutesRe     = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*min(?:ute)?s?$`)
	taskPairRe    = regexp.MustCompile(`^(\d+)\s*\|\s*(\d+)$`)
	memberPhoneRe = regexp.MustCompile(`^(.*?)\s*\(\+?(\d+)\)$`)
)

// afterHoursLayout is the exact machine-generated timestamp format of the
// after-hours call log. Strict: a mismatch signals a structural problem.
const afterHoursLayout = "Jan 2, 2006, 3:04:05 pm"

// ParseWeeklyDateRange matches the strict MM.DD.YY-MM.DD.YY section-marker
// pattern. Anything else is not a section marker.
func ParseWeeklyDateRange(text string) (start, end string, ok bool) {
	m := weeklyRangeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}
	return m[1] + "." + m[2] + "." + m[3], m[4] + "." + m[5] + "." + m[6], true
}

// ParsePhoneTimeHours decodes "H:MM hours", "N.N hours", or "N minutes" into
// hours. Unrecognized input yields 0; validation decides whether that matters.
func ParsePhoneTimeHours(text string) float64 {
	t := strings.ToLower(strings.TrimSpace(text))
	if m := hoursMinRe.FindStringSubmatch(t); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return float64(h) + float64(min)/60
	}
	if m := decimalHrsRe.FindStringSubmatch(t); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v
	}
	if m := minutesRe.FindStringSubmatch(t); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v / 60
	}
	return 0
}

// ParseIncompleteTasksPair decodes "N | M" (incomplete, pushed to next week)
// or a bare "N". Unrecognized input yields {0,0}.
func ParseIncompleteTasksPair(text string) (incomplete, nextWeek int) {
	t := strings.TrimSpace(text)
	if m := taskPairRe.FindStringSubmatch(t); m != nil {
		incomplete, _ = strconv.Atoi(m[1])
		nextWeek, _ = strconv.Atoi(m[2])
		return incomplete, nextWeek
	}
	if n, err := strconv.Atoi(t); err == nil {
		return n, 0
	}
	return 0, 0
}

// ParseDailyDate accepts M.D.YY or M/D/YYYY and normalizes both to the
// canonical zero-padded MM.DD.YY form the daily log uses.
func ParseDailyDate(text string) (string, bool) {
	t := strings.TrimSpace(text)
	if m := dailyDotRe.FindStringSubmatch(t); m != nil {
		return padDate(m[1], m[2], m[3]), true
	}
	if m := dailySlashRe.FindStringSubmatch(t); m != nil {
		return padDate(m[1], m[2], m[3][2:]), true
	}
	return "", false
}

func padDate(month, day, yy string) string {
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%02d.%02d.%s", mo, d, yy)
}

// ParseAfterHoursTimestamp parses exactly "Mon D, YYYY, H:MM:SS am|pm".
// No fallback formats: after-hours timestamps are machine-generated, so a
// mismatch is worth surfacing rather than papering over.
func ParseAfterHoursTimestamp(text string) (time.Time, bool) {
	t := strings.TrimSpace(text)
	// Go's "pm" layout token only matches lowercase; the export mixes case.
	if i := len(t) - 2; i > 0 {
		suffix := strings.ToLower(t[i:])
		if suffix == "am" || suffix == "pm" {
			t = t[:i] + suffix
		}
	}
	ts, err := time.Parse(afterHoursLayout, t)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// SplitMemberPhone splits "Name (+15551234567)" into name and digits-only
// phone. Without the trailing parenthesized digits, the whole string is the
// name and the phone is empty.
func SplitMemberPhone(text string) (name, phone string) {
	t := strings.TrimSpace(text)
	if m := memberPhoneRe.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return t, ""
}

// StripNonDigits removes everything but 0-9 from a phone string.
func StripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
