// Package markup is the snapshot wire format: the scoreboard state rendered
// as a small markup document rooted at a uniquely identified element, the
// same fragment the overlay consumes. Serialize → parse is round-trip
// faithful.
package markup

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pefman/volley-scoreboard/internal/scoreboard"
	"github.com/pefman/volley-scoreboard/internal/webcolor"
)

// RootID uniquely identifies the scoreboard root element in the document.
const RootID = "scoreboard"

// Codec implements scoreboard.Codec using the markup document format.
type Codec struct{}

func (Codec) Encode(st scoreboard.State) string { return Render(st) }

func (Codec) Decode(doc string) (scoreboard.State, error) { return Parse(doc) }

// Render serializes a state into the scoreboard fragment.
func Render(st scoreboard.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div id=%q data-serving=%q data-bottom=%q data-right=%q>`,
		RootID, string(st.Serving), boolAttr(st.Pos.Bottom), boolAttr(st.Pos.Right))
	renderTeam(&b, "home", st.HomeName, st.HomeColor, st.HomeSets, st.HomeScore)
	renderTeam(&b, "away", st.AwayName, st.AwayColor, st.AwaySets, st.AwayScore)
	b.WriteString(`</div>`)
	return b.String()
}

func renderTeam(b *strings.Builder, side, name, color string, sets, score int) {
	fmt.Fprintf(b, `<div class="team" data-side=%q>`, side)
	fmt.Fprintf(b, `<span class="name">%s</span>`, html.EscapeString(name))
	fmt.Fprintf(b, `<span class="color" style="background-color: %s"></span>`, html.EscapeString(color))
	fmt.Fprintf(b, `<span class="sets">%d</span>`, sets)
	fmt.Fprintf(b, `<span class="score">%d</span>`, score)
	b.WriteString(`</div>`)
}

func boolAttr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

var bgColorRe = regexp.MustCompile(`(?i)background-color:\s*([^;]+)`)

// Parse reads a snapshot document back into a State. The document must
// contain the scoreboard root and both team blocks; anything less is not a
// snapshot we produced and the caller falls through to the next source.
func Parse(doc string) (scoreboard.State, error) {
	var st scoreboard.State
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return st, fmt.Errorf("parse snapshot: %w", err)
	}
	root := d.Find("#" + RootID)
	if root.Length() == 0 {
		return st, fmt.Errorf("no #%s root element", RootID)
	}

	switch s := scoreboard.Side(root.AttrOr("data-serving", string(scoreboard.SideNone))); s {
	case scoreboard.SideHome, scoreboard.SideAway, scoreboard.SideNone:
		st.Serving = s
	default:
		return st, fmt.Errorf("bad serving side %q", s)
	}
	st.Pos = scoreboard.Position{
		Bottom: root.AttrOr("data-bottom", "false") == "true",
		Right:  root.AttrOr("data-right", "false") == "true",
	}

	home, err := parseTeam(root, "home")
	if err != nil {
		return st, err
	}
	away, err := parseTeam(root, "away")
	if err != nil {
		return st, err
	}
	st.HomeName, st.HomeColor, st.HomeSets, st.HomeScore = home.name, home.color, home.sets, home.score
	st.AwayName, st.AwayColor, st.AwaySets, st.AwayScore = away.name, away.color, away.sets, away.score
	return st, nil
}

type teamFields struct {
	name, color string
	sets, score int
}

func parseTeam(root *goquery.Selection, side string) (teamFields, error) {
	var tf teamFields
	sel := root.Find(fmt.Sprintf(`.team[data-side=%q]`, side))
	if sel.Length() == 0 {
		return tf, fmt.Errorf("no %s team block", side)
	}
	// The name span holds the user's text verbatim; trimming would lose
	// deliberate padding across a round trip.
	tf.name = sel.Find(".name").Text()

	style := sel.Find(".color").AttrOr("style", "")
	m := bgColorRe.FindStringSubmatch(style)
	if m == nil {
		return tf, fmt.Errorf("%s team: no background-color in %q", side, style)
	}
	hex, err := webcolor.Hex(m[1])
	if err != nil {
		return tf, fmt.Errorf("%s team: %w", side, err)
	}
	tf.color = hex

	tf.sets, err = parseCounter(sel, ".sets")
	if err != nil {
		return tf, fmt.Errorf("%s team sets: %w", side, err)
	}
	tf.score, err = parseCounter(sel, ".score")
	if err != nil {
		return tf, fmt.Errorf("%s team score: %w", side, err)
	}
	return tf, nil
}

func parseCounter(sel *goquery.Selection, query string) (int, error) {
	raw := strings.TrimSpace(sel.Find(query).Text())
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("counter %q: %w", raw, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}
