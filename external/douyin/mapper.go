package douyin

import (
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchfeed/matchfeed/internal/domain/match"
)

// Source is the tag carried on every observation this adapter emits.
const Source = "douyin"

// KeyScope marks replay observations as their own identity domain: episode
// ids are stable across the whole feed, unlike schedule tuples.
const KeyScope = "replay"

// qualityLadder is the fixed preference order for picking a play URL.
var qualityLadder = []string{"1080p", "720p", "480p"}

// mapReplay renders one replay item as an observation. Items without an
// episode id or a playable URL are dropped; returns ok=false in that case.
func mapReplay(item replayItem) (match.Observation, bool) {
	if item.EpisodeID == "" {
		return match.Observation{}, false
	}

	playURL := bestQualityURL(item.VideoInfo)
	if playURL == "" {
		return match.Observation{}, false
	}

	obs := match.Observation{
		Source:     Source,
		Title:      item.Title,
		URL:        playURL,
		Status:     match.StatusFinished,
		ExternalID: item.EpisodeID,
		KeyScope:   KeyScope,
	}

	if start, ok := replayStart(item); ok {
		obs.ScheduleText = match.CanonicalScheduleText(start.Format("200601021504"))
	}
	if against := replayAgainst(item); against != nil {
		if against.LeftName != "" {
			obs.Teams = against.LeftName + " vs " + against.RightName
		}
		if against.LeftGoal != "" || against.RightGoal != "" {
			obs.Score = against.LeftGoal + " - " + against.RightGoal
		}
	}
	if item.Cover != nil && len(item.Cover.URLList) > 0 {
		obs.CoverURL = item.Cover.URLList[0]
	}

	return obs, true
}

// replayStart resolves the match start instant in the upstream zone.
func replayStart(item replayItem) (time.Time, bool) {
	md := replayMatchData(item)
	if md == nil {
		return time.Time{}, false
	}
	if md.StartedTimeUnix > 0 {
		return time.Unix(md.StartedTimeUnix, 0).In(match.UpstreamZone), true
	}
	if md.StartedTime != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", md.StartedTime, match.UpstreamZone); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// replayDate is the match day in YYYY-MM-DD form, or "" when unknown.
func replayDate(item replayItem) string {
	start, ok := replayStart(item)
	if !ok {
		return ""
	}
	return start.Format("2006-01-02")
}

func replayMatchData(item replayItem) *matchData {
	if item.EpisodeBasicInfo == nil {
		return nil
	}
	return item.EpisodeBasicInfo.MatchData
}

func replayAgainst(item replayItem) *againstInfo {
	md := replayMatchData(item)
	if md == nil {
		return nil
	}
	return md.Against
}

// bestQualityURL walks the quality ladder over the unfolded play URLs, then
// falls back to the watermarked variants embedded as an encoded document.
func bestQualityURL(vi *videoInfo) string {
	if vi == nil {
		return ""
	}

	if vi.UnfoldPlayInfo != nil {
		for _, quality := range qualityLadder {
			for _, pu := range vi.UnfoldPlayInfo.PlayURLs {
				if pu.Definition != quality {
					continue
				}
				if pu.Main != "" {
					return pu.Main
				}
				if pu.Backup != "" {
					return pu.Backup
				}
			}
		}
	}

	if vi.WatermarkedEncrypt != nil && vi.WatermarkedEncrypt.JSON != "" {
		var doc watermarkedDocument
		if err := sonic.UnmarshalString(vi.WatermarkedEncrypt.JSON, &doc); err == nil {
			for _, quality := range qualityLadder {
				for _, video := range doc.VideoList {
					if video.VideoMeta != nil && video.VideoMeta.Definition == quality && video.MainURL != "" {
						return video.MainURL
					}
				}
			}
		}
	}

	return ""
}
