package migu

import (
	"time"

	"github.com/matchfeed/matchfeed/internal/domain/match"
)

// Source is the tag carried on every observation this adapter emits.
const Source = "migu"

// hostedGames is the only competition the landing pages contribute; every
// other object embedded there belongs to unrelated rails.
const hostedGames = "全运会"

func playPageURL(pID string) string {
	if pID == "" {
		return ""
	}
	return playPageBaseURL + pID
}

// mapPortalMatch renders one schedule row and its hydrated feeds into
// observations. A row without feeds still contributes a single observation
// pointing at its own play page.
func mapPortalMatch(m portalMatch, nodes []playNode) []match.Observation {
	base := match.Observation{
		Source:       Source,
		ScheduleText: m.Keyword,
		Competition:  m.CompetitionName,
		Title:        m.Title,
		Teams:        m.PkInfoTitle,
		CoverURL:     m.PadImg,
		Status:       m.MatchStatus,
		ExternalID:   m.MgdbID,
	}

	if len(nodes) == 0 {
		obs := base
		obs.URL = playPageURL(firstNonEmpty(m.PID, m.MgdbID))
		return []match.Observation{obs}
	}

	out := make([]match.Observation, 0, len(nodes))
	for _, node := range nodes {
		obs := base
		obs.NodeName = node.Name
		obs.URL = playPageURL(node.PID)
		out = append(out, obs)
	}
	return out
}

// mapGamesMatches filters the landing-page objects down to today's hosted
// games rows, deduplicated on pID, with their status resolved against now.
func mapGamesMatches(matches []gamesMatch, now time.Time) []portalMatch {
	today := now.In(match.UpstreamZone).Format("20060102")
	seen := make(map[string]struct{}, len(matches))

	var out []portalMatch
	for _, m := range matches {
		if m.CompetitionName != hostedGames {
			continue
		}
		if len(m.StartTime) < 8 || m.StartTime[:8] != today {
			continue
		}
		if _, ok := seen[m.PID]; ok {
			continue
		}
		seen[m.PID] = struct{}{}

		out = append(out, portalMatch{
			MgdbID:          m.PID,
			PID:             m.PID,
			Title:           m.Title,
			Keyword:         match.CanonicalScheduleText(m.StartTime),
			MatchStatus:     gamesStatus(m.StartTime, m.EndTime, now),
			CompetitionName: m.CompetitionName,
			PkInfoTitle:     m.Title,
			ModifyTitle:     m.Name,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
