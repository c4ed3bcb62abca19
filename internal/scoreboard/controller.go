package scoreboard

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/pefman/volley-scoreboard/internal/webcolor"
)

// Codec converts between State and the serialized snapshot document that
// crosses the cache and remote boundaries.
type Codec interface {
	Encode(State) string
	Decode(string) (State, error)
}

// Cache is the local persistent key-value collaborator. Snapshots are
// opaque serialized strings keyed per identity.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, doc string) error
	Remove(ctx context.Context, key string) error
}

// Remote is the remote state endpoint collaborator. Fetch returns the latest
// persisted snapshot; Submit replicates one best-effort.
type Remote interface {
	Fetch(ctx context.Context) (string, error)
	Submit(ctx context.Context, doc string) error
}

// Confirmer answers interactive confirmation prompts for gated actions
// (set advance, reset, reposition). A nil Confirmer declines.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Rect is the bounding box of the board's container, used to resolve a
// pointer position into a corner anchor.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Controller mediates every mutation of the scoreboard state and maintains
// the linear undo/redo history. Each committed mutation is reflected in the
// in-memory state, cached locally, and handed to a single background writer
// that submits snapshots to the remote endpoint best-effort, in mutation
// order. One instance owns the state for the life of the session.
type Controller struct {
	mu       sync.Mutex
	state    State
	undoable []State
	redoable []State

	codec    Codec
	cache    Cache  // optional
	remote   Remote // optional
	identity string

	// Pending remote submission, drained by submitLoop. Only the latest
	// snapshot is kept; intermediate ones coalesce.
	subMu    sync.Mutex
	subCond  *sync.Cond
	subDoc   string
	subDirty bool
}

// New builds a controller starting from the built-in default state.
// cache and remote may be nil; the controller stays fully interactive
// with either or both persistence channels unavailable.
func New(identity string, codec Codec, cache Cache, remote Remote) *Controller {
	c := &Controller{
		state:    DefaultState(),
		codec:    codec,
		cache:    cache,
		remote:   remote,
		identity: identity,
	}
	if remote != nil {
		c.subCond = sync.NewCond(&c.subMu)
		go c.submitLoop()
	}
	return c
}

// State returns a copy of the current scoreboard state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// snapshot pushes the current state onto the undo stack and invalidates
// redo history. Call before any divergent mutation.
func (c *Controller) snapshot() {
	c.undoable = append(c.undoable, c.state)
	c.redoable = nil
}

// checkpoint wipes both stacks. Reset and reposition are milestones the
// user cannot undo across.
func (c *Controller) checkpoint() {
	c.undoable = nil
	c.redoable = nil
}

// persist writes the serialized snapshot to the local cache and queues it
// for the remote writer. Remote failures are swallowed; the local copy is
// the durable source of truth for the session.
func (c *Controller) persist() {
	doc := c.codec.Encode(c.state)
	if c.cache != nil {
		if err := c.cache.Set(context.Background(), c.identity, doc); err != nil {
			log.Printf("cache: set %s: %v", c.identity, err)
		}
	}
	if c.remote != nil {
		c.subMu.Lock()
		c.subDoc = doc
		c.subDirty = true
		c.subMu.Unlock()
		c.subCond.Signal()
	}
}

// submitLoop is the single remote writer. Submissions go out one at a time
// in mutation order; snapshots queued while one is in flight coalesce into
// the latest, so the endpoint converges on the current state and never sees
// an older snapshot after a newer one.
func (c *Controller) submitLoop() {
	for {
		c.subMu.Lock()
		for !c.subDirty {
			c.subCond.Wait()
		}
		doc := c.subDoc
		c.subDirty = false
		c.subMu.Unlock()
		if err := c.remote.Submit(context.Background(), doc); err != nil {
			log.Printf("remote: submit: %v", err)
		}
	}
}

func confirmed(confirm Confirmer, prompt string) bool {
	return confirm != nil && confirm.Confirm(prompt)
}

func clampMin0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// ApplyScoreDelta adjusts one of the four counters by one point in the given
// direction, clamped at 0. Incrementing a score counter marks that side as
// serving. Incrementing a set counter is confirmation-gated: on confirm the
// set advances and both score counters reset to 0 for the new set; declined,
// the whole action aborts with no state change and no snapshot pushed.
func (c *Controller) ApplyScoreDelta(target Counter, side Side, delta int, confirm Confirmer) error {
	if side != SideHome && side != SideAway {
		return fmt.Errorf("invalid side %q", side)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	switch target {
	case CounterScore:
		c.snapshot()
		if side == SideHome {
			c.state.HomeScore = clampMin0(c.state.HomeScore + sign(delta))
		} else {
			c.state.AwayScore = clampMin0(c.state.AwayScore + sign(delta))
		}
		if delta > 0 {
			c.state.Serving = side
		}
	case CounterSet:
		if delta > 0 && !confirmed(confirm, fmt.Sprintf("Start a new set for %s and reset both scores to 0?", side)) {
			return nil
		}
		c.snapshot()
		if side == SideHome {
			c.state.HomeSets = clampMin0(c.state.HomeSets + sign(delta))
		} else {
			c.state.AwaySets = clampMin0(c.state.AwaySets + sign(delta))
		}
		if delta > 0 {
			c.state.HomeScore = 0
			c.state.AwayScore = 0
		}
	default:
		return fmt.Errorf("invalid counter %q", target)
	}
	c.persist()
	return nil
}

func sign(delta int) int {
	if delta < 0 {
		return -1
	}
	return 1
}

// ToggleServe flips the serve indicator between home and away. Once a side
// has served there is no way back to "none" through this operation.
func (c *Controller) ToggleServe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot()
	if c.state.Serving == SideHome {
		c.state.Serving = SideAway
	} else {
		c.state.Serving = SideHome
	}
	c.persist()
}

// PickColor returns the side's current color so a picker can be opened
// pre-populated with it. Not a mutation: no snapshot, no persistence.
func (c *Controller) PickColor(side Side) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Color(side)
}

// SetColor commits a new color for a side. The value is normalized to hex
// at commit time; anything the snapshot format cannot carry is rejected
// before any state changes, so a committed color always survives the
// serialize/parse round trip.
func (c *Controller) SetColor(side Side, color string) error {
	if side != SideHome && side != SideAway {
		return fmt.Errorf("invalid side %q", side)
	}
	hex, err := webcolor.Hex(color)
	if err != nil {
		return fmt.Errorf("color %q: %w", color, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot()
	if side == SideHome {
		c.state.HomeColor = hex
	} else {
		c.state.AwayColor = hex
	}
	c.persist()
	return nil
}

// BeginNameEdit snapshots once at the start of a name edit so that rapid
// keystrokes coalesce into a single undo step.
func (c *Controller) BeginNameEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot()
}

// CommitNameEdit applies the final team name at the end of an edit and
// persists. The undo snapshot was taken by BeginNameEdit.
func (c *Controller) CommitNameEdit(side Side, name string) error {
	if side != SideHome && side != SideAway {
		return fmt.Errorf("invalid side %q", side)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if side == SideHome {
		c.state.HomeName = name
	} else {
		c.state.AwayName = name
	}
	c.persist()
	return nil
}

// SetPosition re-anchors the board to the corner nearest the pointer,
// resolved against the midpoint of the container's bounding box. The action
// is confirmation-gated and checkpoints history: repositioning is a
// milestone that cannot be undone.
func (c *Controller) SetPosition(px, py float64, bounds Rect, confirm Confirmer) error {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return fmt.Errorf("invalid bounds %+v", bounds)
	}
	if !confirmed(confirm, "Move the scoreboard to this corner?") {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkpoint()
	c.state.Pos = Position{
		Right:  px > bounds.X+bounds.Width/2,
		Bottom: py > bounds.Y+bounds.Height/2,
	}
	c.persist()
	return nil
}

// Undo restores the most recent snapshot, moving the current state onto the
// redo stack. No-op when there is nothing to undo. Undo immediately followed
// by Redo is an identity on state content.
func (c *Controller) Undo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.undoable) == 0 {
		return
	}
	prev := c.undoable[len(c.undoable)-1]
	c.undoable = c.undoable[:len(c.undoable)-1]
	c.redoable = append(c.redoable, c.state)
	c.state = prev
	c.persist()
}

// Redo reinstates the most recently undone state.
func (c *Controller) Redo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.redoable) == 0 {
		return
	}
	next := c.redoable[len(c.redoable)-1]
	c.redoable = c.redoable[:len(c.redoable)-1]
	c.undoable = append(c.undoable, c.state)
	c.state = next
	c.persist()
}

// Reset starts a fresh match: confirmation-gated, zeroes all four counters,
// checkpoints history so the pre-reset state is unreachable, persists, and
// purges the local cache entry entirely for the active identity.
func (c *Controller) Reset(confirm Confirmer) {
	if !confirmed(confirm, "Reset the match? Scores and sets return to 0.") {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkpoint()
	c.state.HomeScore = 0
	c.state.AwayScore = 0
	c.state.HomeSets = 0
	c.state.AwaySets = 0
	c.persist()
	if c.cache != nil {
		if err := c.cache.Remove(context.Background(), c.identity); err != nil {
			log.Printf("cache: remove %s: %v", c.identity, err)
		}
	}
}

// LoadInitialState runs once at startup. Pure fallback chain, no merge:
// remote snapshot first, local cache second, and if neither yields a usable
// state the built-in default stands. A remote hit primes the local cache.
// Never fails: a fully offline start is not an error.
func (c *Controller) LoadInitialState(ctx context.Context) {
	if c.remote != nil {
		doc, err := c.remote.Fetch(ctx)
		if err == nil {
			if st, derr := c.codec.Decode(doc); derr == nil {
				c.adopt(st)
				if c.cache != nil {
					if cerr := c.cache.Set(ctx, c.identity, doc); cerr != nil {
						log.Printf("cache: prime %s: %v", c.identity, cerr)
					}
				}
				return
			} else {
				log.Printf("load: remote snapshot unparseable: %v", derr)
			}
		} else {
			log.Printf("load: remote fetch: %v", err)
		}
	}
	if c.cache != nil {
		doc, ok, err := c.cache.Get(ctx, c.identity)
		if err != nil {
			log.Printf("load: cache get %s: %v", c.identity, err)
		} else if ok {
			if st, derr := c.codec.Decode(doc); derr == nil {
				c.adopt(st)
				return
			} else {
				log.Printf("load: cached snapshot unparseable: %v", derr)
			}
		}
	}
	// Default markup stands.
}

func (c *Controller) adopt(st State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = st
}
