package match

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UpstreamZone is the zone all upstream schedule texts are authored in.
// Every wall-clock comparison in the catalog uses this zone; the host zone
// must never leak into schedule parsing or status inference.
var UpstreamZone = time.FixedZone("UTC+8", 8*60*60)

var (
	nonDigitPattern = regexp.MustCompile(`\D`)
	schedulePattern = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日(\d{1,2}):(\d{2})$`)
)

// CanonicalScheduleText normalizes a source-native schedule text to the
// two-digit-padded `MM月DD日HH:MM` form shared by all sources. API-style
// timestamps are reduced to their digits, padded or truncated to the twelve
// `YYYYMMDDHHMM` positions and recomposed; playlist-style texts are re-padded
// in place. Unrecognizable input yields "".
func CanonicalScheduleText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if m := schedulePattern.FindStringSubmatch(raw); m != nil {
		return pad2(m[1]) + "月" + pad2(m[2]) + "日" + pad2(m[3]) + ":" + m[4]
	}

	digits := nonDigitPattern.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	if len(digits) < 12 {
		digits = strings.Repeat("0", 12-len(digits)) + digits
	}
	if len(digits) > 12 {
		digits = digits[len(digits)-12:]
	}

	return digits[4:6] + "月" + digits[6:8] + "日" + digits[8:10] + ":" + digits[10:12]
}

// ScheduleInstant resolves a canonical schedule text to an instant in
// UpstreamZone. Schedule texts carry no year, so the reference instant's year
// is assumed. The second return value is false when the text does not
// describe a real calendar moment.
func ScheduleInstant(scheduleText string, ref time.Time) (time.Time, bool) {
	m := schedulePattern.FindStringSubmatch(strings.TrimSpace(scheduleText))
	if m == nil {
		return time.Time{}, false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	year := ref.In(UpstreamZone).Year()
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, UpstreamZone), true
}

func pad2(v string) string {
	if len(v) == 1 {
		return "0" + v
	}
	return v
}
