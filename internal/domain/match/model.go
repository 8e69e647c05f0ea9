package match

// Lifecycle status codes on the published catalog. The numeric strings are
// the upstream portal's own wire values, carried through unchanged so
// downstream consumers do not need a translation table.
const (
	StatusNotStarted = "0"
	StatusLive       = "1"
	StatusFinished   = "2"
)

// Observation is one unit of information about a fixture as reported by a
// single upstream channel or record. Observations are produced and consumed
// within one aggregation run and never persisted.
type Observation struct {
	Source       string
	ScheduleText string
	Competition  string
	Title        string
	Teams        string
	Score        string
	NodeName     string
	URL          string
	CoverURL     string
	Status       string
	ExternalID   string
	// KeyScope, when set together with ExternalID, makes the observation key
	// on the upstream identifier instead of the schedule tuple. Sources whose
	// IDs are stable across the whole feed (replay episodes) set this so they
	// form their own identity domain.
	KeyScope string
}

// Node is a named alternate feed for a match: a commentary track, camera
// angle or quality tier. URLs keep insertion order with duplicates dropped.
type Node struct {
	Name string   `json:"name"`
	URLs []string `json:"urls"`
}

// Match is the reconciled fixture record.
type Match struct {
	Key          string `json:"-"`
	DisplayID    string `json:"id"`
	ScheduleText string `json:"time"`
	Competition  string `json:"competitionName"`
	Title        string `json:"title"`
	Teams        string `json:"teams,omitempty"`
	Score        string `json:"score,omitempty"`
	Category     string `json:"sportItemId,omitempty"`
	Status       string `json:"matchStatus"`
	CoverURL     string `json:"cover,omitempty"`
	Nodes        []Node `json:"nodes"`
}

// MergeNode unions url into the node called name, creating the node when it
// does not exist yet. Re-adding a known URL is a no-op, so the operation is
// idempotent.
func (m *Match) MergeNode(name, url string) {
	if name == "" && url == "" {
		return
	}
	for i := range m.Nodes {
		if m.Nodes[i].Name == name {
			m.Nodes[i].addURL(url)
			return
		}
	}
	node := Node{Name: name}
	node.addURL(url)
	m.Nodes = append(m.Nodes, node)
}

func (n *Node) addURL(url string) {
	if url == "" {
		return
	}
	for _, existing := range n.URLs {
		if existing == url {
			return
		}
	}
	n.URLs = append(n.URLs, url)
}

// HasIdentity reports whether the observation carries any identifying
// information at all. Observations failing this check are discarded by the
// reconciler.
func (o Observation) HasIdentity() bool {
	return o.ScheduleText != "" || o.Competition != "" || o.Title != ""
}
