// Package m3u turns M3U playlist feeds into match observations. The feeds
// carry no structured metadata beyond the channel label, so everything hangs
// off per-provider label grammars selected by the channel's logo file.
package m3u

import (
	"regexp"
	"strings"
)

// Entry is one channel row of a playlist: its #EXTINF attributes plus the
// stream URL from the following line.
type Entry struct {
	Logo       string
	GroupTitle string
	Label      string
	URL        string
}

var (
	logoAttrPattern  = regexp.MustCompile(`tvg-logo="([^"]*)"`)
	groupAttrPattern = regexp.MustCompile(`group-title="([^"]*)"`)
)

// ParsePlaylist decodes playlist text into entries. Each #EXTINF line is
// paired with the next non-comment line as its URL; pairs missing either a
// label or a URL are skipped.
func ParsePlaylist(text string) []Entry {
	lines := strings.Split(text, "\n")

	var out []Entry
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "#EXTINF") {
			continue
		}

		label := extinfLabel(line)
		url := ""
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if strings.HasPrefix(next, "#") {
				break
			}
			url = next
			i = j
			break
		}
		if label == "" || url == "" {
			continue
		}

		entry := Entry{Label: label, URL: url}
		if m := logoAttrPattern.FindStringSubmatch(line); m != nil {
			entry.Logo = m[1]
		}
		if m := groupAttrPattern.FindStringSubmatch(line); m != nil {
			entry.GroupTitle = m[1]
		}
		out = append(out, entry)
	}

	return out
}

// extinfLabel is the display text after the last comma of an #EXTINF line.
// Attribute values may themselves contain commas, so the split runs from the
// right.
func extinfLabel(line string) string {
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}

// logoFileName reduces a logo URL to its bare file name.
func logoFileName(logo string) string {
	if idx := strings.IndexAny(logo, "?#"); idx >= 0 {
		logo = logo[:idx]
	}
	if idx := strings.LastIndex(logo, "/"); idx >= 0 {
		logo = logo[idx+1:]
	}
	return logo
}
