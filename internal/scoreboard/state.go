package scoreboard

// ========================= Domain Models =========================
// Everything the board renders lives in State. The presentation layer
// renders from it and writes back only through Controller operations.

// Side identifies a team on the board.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	// SideNone means nobody has served yet this set.
	SideNone Side = "none"
)

// Counter selects which pair of counters a score action targets.
type Counter string

const (
	CounterScore Counter = "score"
	CounterSet   Counter = "set"
)

// Position anchors the board to one of the four screen corners.
// The two flags are independent axes; each resolves to exactly one side.
type Position struct {
	Bottom bool `json:"bottom"`
	Right  bool `json:"right"`
}

// State is the full snapshot of all visible scoreboard fields.
// All fields are value types so a plain struct copy is a faithful snapshot.
type State struct {
	HomeName  string   `json:"home_team_name"`
	AwayName  string   `json:"away_team_name"`
	HomeScore int      `json:"home_score"`
	AwayScore int      `json:"away_score"`
	HomeSets  int      `json:"home_set"`
	AwaySets  int      `json:"away_set"`
	HomeColor string   `json:"home_color"`
	AwayColor string   `json:"away_color"`
	Serving   Side     `json:"serving_side"`
	Pos       Position `json:"position"`
}

// DefaultState is the built-in markup the page ships with: zeroed counters,
// placeholder names, and a top-left anchored board.
func DefaultState() State {
	return State{
		HomeName:  "HOME",
		AwayName:  "AWAY",
		HomeColor: "#1E90FF",
		AwayColor: "#DC143C",
		Serving:   SideNone,
	}
}

// Color returns the jersey color for a side.
func (s *State) Color(side Side) string {
	if side == SideAway {
		return s.AwayColor
	}
	return s.HomeColor
}
