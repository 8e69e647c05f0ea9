package douyin

// Envelopes for the replay-episode web API. Field coverage is limited to
// what the mapper reads.

type replayListEnvelope struct {
	Data replayListData `json:"data"`
}

type replayListData struct {
	AllReplay []replayGroup `json:"all_replay"`
}

type replayGroup struct {
	InfoList []replayItem `json:"info_list"`
}

type moreReplayEnvelope struct {
	Data moreReplayData `json:"data"`
}

type moreReplayData struct {
	InfoList []replayItem `json:"info_list"`
	HasMore  bool         `json:"has_more"`
	Cursor   int64        `json:"cursor"`
}

type replayItem struct {
	EpisodeID        string            `json:"episode_id"`
	RoomID           string            `json:"room_id"`
	OwnerUserID      string            `json:"owner_user_id"`
	SeasonID         string            `json:"season_id"`
	Title            string            `json:"title"`
	EpisodeBasicInfo *episodeBasicInfo `json:"episode_basic_info"`
	Cover            *coverInfo        `json:"cover"`
	VideoInfo        *videoInfo        `json:"video_info"`
}

type episodeBasicInfo struct {
	MatchData *matchData `json:"match_data"`
}

type matchData struct {
	StartedTimeUnix int64        `json:"started_time_unix"`
	StartedTime     string       `json:"started_time"`
	Against         *againstInfo `json:"against"`
}

type againstInfo struct {
	LeftName  string `json:"left_name"`
	RightName string `json:"right_name"`
	LeftGoal  string `json:"left_goal"`
	RightGoal string `json:"right_goal"`
}

type coverInfo struct {
	URLList []string `json:"url_list"`
}

type videoInfo struct {
	UnfoldPlayInfo     *unfoldPlayInfo     `json:"unfold_play_info"`
	WatermarkedEncrypt *watermarkedEncrypt `json:"watermarked_encrypt"`
}

type unfoldPlayInfo struct {
	PlayURLs []playURL `json:"play_urls"`
}

type playURL struct {
	Definition string `json:"definition"`
	Main       string `json:"main"`
	Backup     string `json:"backup"`
}

type watermarkedEncrypt struct {
	// JSON is itself an encoded document holding the watermarked variants.
	JSON string `json:"json"`
}

type watermarkedDocument struct {
	VideoList []watermarkedVideo `json:"video_list"`
}

type watermarkedVideo struct {
	VideoMeta *watermarkedMeta `json:"video_meta"`
	MainURL   string           `json:"main_url"`
}

type watermarkedMeta struct {
	Definition string `json:"definition"`
}
