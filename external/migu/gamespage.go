package migu

import (
	"regexp"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchfeed/matchfeed/internal/domain/match"
)

// Tournament landing pages ship their schedule as JSON objects inlined in the
// HTML. There is no stable script tag to anchor on, so extraction finds each
// object by its leading field signature and walks braces to the matching
// close.
var gamesMatchHead = regexp.MustCompile(`\{"name":"([^"\\]*(?:\\.[^"\\]*)*)"\s*,\s*"pID":"([^"\\]*(?:\\.[^"\\]*)*)"\s*,\s*"title":"([^"\\]*(?:\\.[^"\\]*)*)"`)

// extractGamesMatches pulls every embedded match object out of a landing
// page. Objects that fail to balance or decode are skipped.
func extractGamesMatches(html string) []gamesMatch {
	heads := gamesMatchHead.FindAllStringIndex(html, -1)
	if len(heads) == 0 {
		return nil
	}

	out := make([]gamesMatch, 0, len(heads))
	for _, head := range heads {
		end := balanceBraces(html, head[0])
		if end < 0 {
			continue
		}

		var m gamesMatch
		if err := sonic.UnmarshalString(html[head[0]:end], &m); err != nil {
			continue
		}
		out = append(out, m)
	}

	return out
}

// balanceBraces returns the index just past the brace that closes the object
// opening at start, or -1 when the object never closes.
func balanceBraces(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// gamesStatus resolves the lifecycle code of a same-day tournament match by
// comparing wall-clock HH:MM strings, the way the landing page itself does.
func gamesStatus(startTime, endTime string, now time.Time) string {
	startHHMM := hhmmFromStamp(startTime)
	endHHMM := hhmmFromStamp(endTime)
	if startHHMM == "" || endHHMM == "" {
		return ""
	}

	nowHHMM := now.In(match.UpstreamZone).Format("15:04")
	switch {
	case nowHHMM < startHHMM:
		return match.StatusNotStarted
	case nowHHMM > endHHMM:
		return match.StatusFinished
	default:
		return match.StatusLive
	}
}

// hhmmFromStamp slices HH:MM out of a YYYYMMDDHHMM-style stamp.
func hhmmFromStamp(stamp string) string {
	if len(stamp) < 12 {
		return ""
	}
	return stamp[8:10] + ":" + stamp[10:12]
}
