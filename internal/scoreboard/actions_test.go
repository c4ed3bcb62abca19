package scoreboard

import "testing"

func TestDispatchUnknownAction(t *testing.T) {
	c, _ := newTestController()
	if err := c.Dispatch(Action{Name: "explode"}); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestDispatchScoreAndServe(t *testing.T) {
	c, _ := newTestController()
	if err := c.Dispatch(Action{Name: "score", Side: SideHome, Delta: 1}); err != nil {
		t.Fatalf("score: %v", err)
	}
	if err := c.Dispatch(Action{Name: "serve"}); err != nil {
		t.Fatalf("serve: %v", err)
	}
	st := c.State()
	if st.HomeScore != 1 {
		t.Errorf("home score = %d, want 1", st.HomeScore)
	}
	if st.Serving != SideAway {
		t.Errorf("serving = %q, want away (toggled off the scoring side)", st.Serving)
	}
}

func TestDispatchInvalidSide(t *testing.T) {
	c, _ := newTestController()
	if err := c.Dispatch(Action{Name: "score", Side: "left", Delta: 1}); err == nil {
		t.Fatal("expected error for invalid side")
	}
	if err := c.Dispatch(Action{Name: "color", Side: SideNone, Color: "#FFFFFF"}); err == nil {
		t.Fatal("expected error for color on no side")
	}
}

func TestDispatchCarriesConfirmation(t *testing.T) {
	c, _ := newTestController()
	_ = c.Dispatch(Action{Name: "score", Side: SideHome, Delta: 1})

	// Unconfirmed reset is a clean no-op.
	if err := c.Dispatch(Action{Name: "reset"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := c.State().HomeScore; got != 1 {
		t.Fatalf("unconfirmed reset changed state: score %d", got)
	}

	if err := c.Dispatch(Action{Name: "reset", Confirmed: true}); err != nil {
		t.Fatalf("confirmed reset: %v", err)
	}
	if got := c.State().HomeScore; got != 0 {
		t.Errorf("confirmed reset did not zero score: %d", got)
	}
}

func TestDispatchNameEdit(t *testing.T) {
	c, _ := newTestController()
	if err := c.Dispatch(Action{Name: "name_begin"}); err != nil {
		t.Fatalf("name_begin: %v", err)
	}
	if err := c.Dispatch(Action{Name: "name_commit", Side: SideAway, TeamName: "Sharks"}); err != nil {
		t.Fatalf("name_commit: %v", err)
	}
	if got := c.State().AwayName; got != "Sharks" {
		t.Errorf("away name = %q", got)
	}
}

func TestDispatchPosition(t *testing.T) {
	c, _ := newTestController()
	act := Action{
		Name:      "position",
		X:         350,
		Y:         180,
		Bounds:    Rect{Width: 400, Height: 200},
		Confirmed: true,
	}
	if err := c.Dispatch(act); err != nil {
		t.Fatalf("position: %v", err)
	}
	if got := c.State().Pos; !got.Bottom || !got.Right {
		t.Errorf("pos = %+v, want bottom-right", got)
	}
}
