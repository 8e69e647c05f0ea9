// Package category maps free-text competition names to the catalog's coarse
// sport taxonomy codes.
package category

import "strings"

const (
	Football    = "1"
	Basketball  = "2"
	Tennis      = "3"
	Volleyball  = "4"
	Combat      = "5"
	Badminton   = "6"
	TableTennis = "7"
	Billiards   = "8"
	Athletics   = "9"
	Esports     = "10"
)

type keywordSet struct {
	code     string
	keywords []string
}

// Evaluation order is fixed; the first set containing a matching keyword
// wins, so broader sports must not share substrings with earlier sets.
var keywordSets = []keywordSet{
	{Football, []string{"足球", "英超", "西甲", "德甲", "意甲", "法甲", "中超", "欧冠", "欧联", "世界杯", "世欧预", "世亚预", "足协杯", "英冠", "女足", "欧洲杯", "亚洲杯"}},
	{Basketball, []string{"篮球", "NBA", "CBA", "WNBA", "男篮", "女篮", "篮网"}},
	{Tennis, []string{"网球", "ATP", "WTA", "澳网", "法网", "温网", "美网"}},
	{Volleyball, []string{"排球", "女排", "男排", "排超"}},
	{Combat, []string{"UFC", "拳击", "格斗", "搏击", "武术", "散打", "柔术"}},
	{Badminton, []string{"羽毛球", "苏迪曼杯", "汤姆斯杯", "尤伯杯"}},
	{TableTennis, []string{"乒乓", "乒超", "WTT"}},
	{Billiards, []string{"斯诺克", "台球", "九球", "中式八球"}},
	{Athletics, []string{"田径", "马拉松", "钻石联赛", "竞走", "跳水", "游泳"}},
	{Esports, []string{"电竞", "英雄联盟", "LPL", "KPL", "王者荣耀", "DOTA", "CS2", "无畏契约"}},
}

// Classify returns the taxonomy code for a competition name, or "" when no
// keyword set matches. Matching is a case-insensitive substring test; the
// function is total and never fails.
func Classify(competition string) string {
	name := strings.ToUpper(strings.TrimSpace(competition))
	if name == "" {
		return ""
	}
	for _, set := range keywordSets {
		for _, keyword := range set.keywords {
			if strings.Contains(name, strings.ToUpper(keyword)) {
				return set.code
			}
		}
	}
	return ""
}
