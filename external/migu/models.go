package migu

// Envelopes for the portal's static-cache endpoints. Only the fields the
// aggregator consumes are declared; the payloads carry much more.

type matchListEnvelope struct {
	Code int           `json:"code"`
	Body matchListBody `json:"body"`
}

type matchListBody struct {
	// MatchList is keyed by day in YYYYMMDD form.
	MatchList map[string][]portalMatch `json:"matchList"`
}

type portalMatch struct {
	MgdbID          string `json:"mgdbId"`
	PID             string `json:"pID"`
	Title           string `json:"title"`
	Keyword         string `json:"keyword"`
	SportItemID     string `json:"sportItemId"`
	MatchStatus     string `json:"matchStatus"`
	CompetitionName string `json:"competitionName"`
	PadImg          string `json:"padImg"`
	PkInfoTitle     string `json:"pkInfoTitle"`
	ModifyTitle     string `json:"modifyTitle"`
}

type basicDataEnvelope struct {
	Code int           `json:"code"`
	Body basicDataBody `json:"body"`
}

type basicDataBody struct {
	MultiPlayList *multiPlayList `json:"multiPlayList"`
}

type multiPlayList struct {
	PreList    []playNode `json:"preList"`
	LiveList   []playNode `json:"liveList"`
	ReplayList []playNode `json:"replayList"`
}

type playNode struct {
	PID  string `json:"pID"`
	Name string `json:"name"`
}

// gamesMatch is one match object embedded in a tournament landing page.
type gamesMatch struct {
	Name            string `json:"name"`
	PID             string `json:"pID"`
	Title           string `json:"title"`
	CompetitionName string `json:"competitionName"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
}
