package m3u

import "testing"

func TestParseChannelLabelIqiyi(t *testing.T) {
	const logo = "https://cdn.example/logos/爱奇艺体育.png"

	cases := []struct {
		name  string
		label string
		want  ChannelLabel
	}{
		{
			"teams content",
			"11月17日00:45世欧预_阿尔巴尼亚vs英格兰",
			ChannelLabel{ScheduleText: "11月17日00:45", Competition: "世欧预", Title: "阿尔巴尼亚vs英格兰", Teams: "阿尔巴尼亚vs英格兰"},
		},
		{
			"title only content",
			"11月17日20:00斯诺克_英锦赛第二轮",
			ChannelLabel{ScheduleText: "11月17日20:00", Competition: "斯诺克", Title: "英锦赛第二轮"},
		},
		{
			"single digit fields padded",
			"8月2日9:05西甲_皇马vs巴萨",
			ChannelLabel{ScheduleText: "08月02日09:05", Competition: "西甲", Title: "皇马vs巴萨", Teams: "皇马vs巴萨"},
		},
		{"no grammar match", "纯文字频道", ChannelLabel{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseChannelLabel(tc.label, logo); got != tc.want {
				t.Fatalf("ParseChannelLabel(%q)\n got %+v\nwant %+v", tc.label, got, tc.want)
			}
		})
	}
}

func TestParseChannelLabelTencent(t *testing.T) {
	const logo = "https://cdn.example/logos/腾讯体育.png"

	cases := []struct {
		name  string
		label string
		want  ChannelLabel
	}{
		{
			"commentator node label",
			"11月19日08:00_NBA常规赛_勇士vs魔术 柯凡 殳海",
			ChannelLabel{ScheduleText: "11月19日08:00", Competition: "NBA常规赛", Title: "勇士vs魔术", Teams: "勇士vs魔术", NodeName: "柯凡 殳海"},
		},
		{
			"feed name node label",
			"11月19日11:30_NBA常规赛_爵士vs湖人 二路_皓篮球",
			ChannelLabel{ScheduleText: "11月19日11:30", Competition: "NBA常规赛", Title: "爵士vs湖人", Teams: "爵士vs湖人", NodeName: "二路_皓篮球"},
		},
		{
			"no trailing node label",
			"11月19日08:00_NBA常规赛_勇士vs魔术",
			ChannelLabel{ScheduleText: "11月19日08:00", Competition: "NBA常规赛", Title: "勇士vs魔术", Teams: "勇士vs魔术"},
		},
		{
			"vs in trailing folds into title",
			"11月19日08:00_NBA常规赛_勇士 vs魔术加时赛",
			ChannelLabel{ScheduleText: "11月19日08:00", Competition: "NBA常规赛", Title: "勇士 vs魔术加时赛", Teams: "勇士"},
		},
		{
			"overlong trailing folds into title",
			"11月19日08:00_NBA常规赛_勇士vs魔术 这是一个超过十六个字符长度上限的尾部说明文字",
			ChannelLabel{ScheduleText: "11月19日08:00", Competition: "NBA常规赛", Title: "勇士vs魔术 这是一个超过十六个字符长度上限的尾部说明文字", Teams: "勇士vs魔术"},
		},
		{
			"single digit fields padded",
			"8月2日9:05_西甲_皇马vs巴萨 英文原音",
			ChannelLabel{ScheduleText: "08月02日09:05", Competition: "西甲", Title: "皇马vs巴萨", Teams: "皇马vs巴萨", NodeName: "英文原音"},
		},
		{"no grammar match", "新闻频道", ChannelLabel{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseChannelLabel(tc.label, logo); got != tc.want {
				t.Fatalf("ParseChannelLabel(%q)\n got %+v\nwant %+v", tc.label, got, tc.want)
			}
		})
	}
}

func TestParseChannelLabelUnknownLogo(t *testing.T) {
	got := ParseChannelLabel("11月19日08:00_NBA常规赛_勇士vs魔术", "https://cdn.example/logos/其他台.png")
	if got != (ChannelLabel{}) {
		t.Fatalf("expected zero value for unknown logo, got %+v", got)
	}
}

func TestLogoFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://cdn.example/a/b/腾讯体育.png", "腾讯体育.png"},
		{"https://cdn.example/腾讯体育.png?v=2", "腾讯体育.png"},
		{"爱奇艺体育.png", "爱奇艺体育.png"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := logoFileName(tc.in); got != tc.want {
			t.Fatalf("logoFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
