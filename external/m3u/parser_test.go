package m3u

import "testing"

const samplePlaylist = `#EXTM3U
#EXTINF:-1 tvg-id="" tvg-name="ch1" tvg-logo="https://cdn.example/爱奇艺体育.png" group-title="足球",11月17日00:45世欧预_阿尔巴尼亚vs英格兰
https://stream.example/ch1.m3u8
#EXTINF:-1 tvg-logo="https://cdn.example/腾讯体育.png" group-title="篮球",11月19日08:00_NBA常规赛_勇士vs魔术 柯凡 殳海

https://stream.example/ch2.m3u8
#EXTINF:-1 tvg-logo="https://cdn.example/腾讯体育.png",标签没有地址的频道
#EXTINF:-1 tvg-logo="https://cdn.example/腾讯体育.png",11月19日11:30_NBA常规赛_爵士vs湖人
https://stream.example/ch3.m3u8
`

func TestParsePlaylist(t *testing.T) {
	entries := ParsePlaylist(samplePlaylist)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	first := entries[0]
	if first.Label != "11月17日00:45世欧预_阿尔巴尼亚vs英格兰" {
		t.Fatalf("unexpected label: %q", first.Label)
	}
	if first.URL != "https://stream.example/ch1.m3u8" {
		t.Fatalf("unexpected url: %q", first.URL)
	}
	if first.Logo != "https://cdn.example/爱奇艺体育.png" {
		t.Fatalf("unexpected logo: %q", first.Logo)
	}
	if first.GroupTitle != "足球" {
		t.Fatalf("unexpected group title: %q", first.GroupTitle)
	}

	// Blank line between the #EXTINF and its URL must not break pairing.
	if entries[1].URL != "https://stream.example/ch2.m3u8" {
		t.Fatalf("unexpected second url: %q", entries[1].URL)
	}
	if entries[2].URL != "https://stream.example/ch3.m3u8" {
		t.Fatalf("unexpected third url: %q", entries[2].URL)
	}
}

func TestParsePlaylistSkipsMalformedPairs(t *testing.T) {
	text := `#EXTM3U
#EXTINF:-1 tvg-logo="x.png",没有地址
#EXTINF:-1,
https://stream.example/only.m3u8
`
	entries := ParsePlaylist(text)
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0: %+v", len(entries), entries)
	}
}

func TestParsePlaylistEmpty(t *testing.T) {
	if entries := ParsePlaylist(""); entries != nil {
		t.Fatalf("expected nil, got %+v", entries)
	}
}
