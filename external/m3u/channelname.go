package m3u

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/matchfeed/matchfeed/internal/domain/match"
)

// ChannelLabel is the structured reading of one channel's display text.
// All fields are empty when no grammar matches.
type ChannelLabel struct {
	ScheduleText string
	Competition  string
	Title        string
	Teams        string
	NodeName     string
}

const (
	iqiyiLogo   = "爱奇艺体育.png"
	tencentLogo = "腾讯体育.png"

	// maxNodeLabelRunes bounds what a trailing token may be and still read as
	// a feed label rather than part of the title.
	maxNodeLabelRunes = 16
)

var (
	// 11月17日00:45世欧预_阿尔巴尼亚vs英格兰
	iqiyiPattern = regexp.MustCompile(`^(\d{1,2}月\d{1,2}日\d{1,2}:\d{2})([^_]+)_(.+)$`)
	// 11月19日08:00_NBA常规赛_勇士vs魔术 柯凡 殳海
	tencentPattern = regexp.MustCompile(`^(\d{1,2}月\d{1,2}日\d{1,2}:\d{2})_([^_]+)_(.+)$`)
)

// ParseChannelLabel reads label under the grammar named by the channel's
// logo. Unknown logos and non-matching labels yield the zero value; the
// function never errors.
func ParseChannelLabel(label, logo string) ChannelLabel {
	switch logoFileName(logo) {
	case iqiyiLogo:
		return parseIqiyiLabel(label)
	case tencentLogo:
		return parseTencentLabel(label)
	default:
		return ChannelLabel{}
	}
}

func parseIqiyiLabel(label string) ChannelLabel {
	m := iqiyiPattern.FindStringSubmatch(label)
	if m == nil {
		return ChannelLabel{}
	}

	out := ChannelLabel{
		ScheduleText: match.CanonicalScheduleText(m[1]),
		Competition:  m[2],
	}
	content := m[3]
	if strings.Contains(content, "vs") {
		out.Teams = content
		out.Title = content
	} else {
		out.Title = content
	}
	return out
}

func parseTencentLabel(label string) ChannelLabel {
	m := tencentPattern.FindStringSubmatch(label)
	if m == nil {
		return ChannelLabel{}
	}

	out := ChannelLabel{
		ScheduleText: match.CanonicalScheduleText(m[1]),
		Competition:  m[2],
	}

	teams, trailing, _ := strings.Cut(m[3], " ")
	out.Teams = teams
	out.Title = teams

	trailing = strings.TrimSpace(trailing)
	if trailing == "" {
		return out
	}
	if isNodeLabel(trailing) {
		out.NodeName = trailing
	} else {
		// Too long or team-like to be a feed label; keep it as title text.
		out.Title = teams + " " + trailing
	}
	return out
}

// isNodeLabel reports whether a trailing token is syntactically
// distinguishable from match content: feed labels never contain a vs pairing
// and stay short.
func isNodeLabel(s string) bool {
	if strings.Contains(s, "vs") {
		return false
	}
	return utf8.RuneCountInString(s) <= maxNodeLabelRunes
}
