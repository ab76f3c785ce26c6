package engine

import (
	"fmt"
	"math/rand"
	"strings"
)

// TriggeredCommands accumulates the side effects a rule's match can
// trigger, independent of whether the rule also rewrites the board.
// Every field merges by OR except Message, which keeps whichever value
// was set first.
type TriggeredCommands struct {
	Message    *string
	Again      bool
	Cancel     bool
	Checkpoint bool
	Restart    bool
	Win        bool
	Sfx        bool
}

// Merge folds other into t, keeping t's Message if already set.
func (t *TriggeredCommands) Merge(other TriggeredCommands) {
	if t.Message == nil {
		t.Message = other.Message
	}
	t.Again = t.Again || other.Again
	t.Cancel = t.Cancel || other.Cancel
	t.Checkpoint = t.Checkpoint || other.Checkpoint
	t.Restart = t.Restart || other.Restart
	t.Win = t.Win || other.Win
	t.Sfx = t.Sfx || other.Sfx
}

// DidTrigger reports whether any field differs from the zero value.
func (t TriggeredCommands) DidTrigger() bool {
	return t.Message != nil || t.Again || t.Cancel || t.Checkpoint || t.Restart || t.Win || t.Sfx
}

func (t TriggeredCommands) String() string {
	var parts []string
	if t.Message != nil {
		parts = append(parts, "MESSAGE "+*t.Message)
	}
	if t.Again {
		parts = append(parts, "AGAIN")
	}
	if t.Cancel {
		parts = append(parts, "CANCEL")
	}
	if t.Checkpoint {
		parts = append(parts, "CHECKPOINT")
	}
	if t.Restart {
		parts = append(parts, "RESTART")
	}
	if t.Win {
		parts = append(parts, "WIN")
	}
	if t.Sfx {
		parts = append(parts, "SFX")
	}
	return strings.Join(parts, " ")
}

// Rule is conditions[] -> actions[] plus a command set, tagged
// late/random/rigid.
type Rule struct {
	Conditions []*Bracket
	Actions    []*Bracket
	Commands   TriggeredCommands
	Late       bool
	Random     bool
	Rigid      bool

	causesBoardChanges bool
}

// NewRule constructs a rule and precomputes its causesBoardChanges flag.
// Actions may be empty (a commands-only rule); otherwise it must match
// Conditions in length.
func NewRule(conditions, actions []*Bracket, commands TriggeredCommands, late, random, rigid bool) *Rule {
	r := &Rule{Conditions: conditions, Actions: actions, Commands: commands, Late: late, Random: random, Rigid: rigid}
	r.PrepareActions()
	return r
}

// PrepareActions computes causesBoardChanges by OR-ing each
// condition/action bracket pair's own PrepareActions result.
func (r *Rule) PrepareActions() {
	if len(r.Actions) == 0 {
		r.causesBoardChanges = false
		return
	}
	if len(r.Actions) != len(r.Conditions) {
		panic("engine: BUG: rule actions and conditions length mismatch")
	}
	changes := false
	for i, action := range r.Actions {
		if action.PrepareActions(r.Conditions[i]) {
			changes = true
		}
	}
	r.causesBoardChanges = changes
}

// HasOnlyCommands reports whether this rule never rewrites the board.
func (r *Rule) HasOnlyCommands() bool {
	return !r.causesBoardChanges
}

func (r *Rule) String() string {
	var prefix []string
	if r.Random {
		prefix = append(prefix, "RANDOM")
	}
	if r.Rigid {
		prefix = append(prefix, "RIGID")
	}
	if r.Late {
		prefix = append(prefix, "LATE")
	}
	cmds := r.Commands.String()
	if cmds != "" {
		cmds = " " + cmds
	}
	return fmt.Sprintf("%s[%d conditions] -> [%d actions]%s", strings.Join(append(prefix, ""), " "), len(r.Conditions), len(r.Actions), cmds)
}

// FindMatches computes the per-condition match lists for board. If any
// condition has zero matches anywhere, the whole rule is a no-op and the
// second return value is false.
func (r *Rule) FindMatches(board *Board) ([][]BracketMatch, bool) {
	lists := make([][]BracketMatch, len(r.Conditions))
	for i, cond := range r.Conditions {
		matches := findBracketMatches(board, cond)
		if len(matches) == 0 {
			return nil, false
		}
		lists[i] = matches
	}
	return lists, true
}

func findBracketMatches(board *Board, b *Bracket) []BracketMatch {
	var out []BracketMatch
	if b.IsHorizontal() {
		for y := 0; y < board.Height; y++ {
			anchor := Position{X: 0, Y: y}
			if !b.MatchesCache(board, anchor) {
				continue
			}
			for x := 0; x < board.Width; x++ {
				out = append(out, b.FindMatch(board, Position{X: x, Y: y})...)
			}
		}
		return out
	}
	for x := 0; x < board.Width; x++ {
		anchor := Position{X: x, Y: 0}
		if !b.MatchesCache(board, anchor) {
			continue
		}
		for y := 0; y < board.Height; y++ {
			out = append(out, b.FindMatch(board, Position{X: x, Y: y})...)
		}
	}
	return out
}

// buildPermutations returns the cartesian product of lists, with the
// first list varying fastest: [[1,2],[a,b]] -> [[1,a],[2,a],[1,b],[2,b]].
func buildPermutations(lists [][]BracketMatch) [][]BracketMatch {
	if len(lists) == 0 {
		return nil
	}
	result := make([][]BracketMatch, 0, len(lists[0]))
	for _, item := range lists[0] {
		result = append(result, []BracketMatch{item})
	}
	for i := 1; i < len(lists); i++ {
		var next [][]BracketMatch
		for _, item := range lists[i] {
			for _, combo := range result {
				extended := make([]BracketMatch, len(combo)+1)
				copy(extended, combo)
				extended[len(combo)] = item
				next = append(next, extended)
			}
		}
		result = next
	}
	return result
}

// Evaluate runs one pass of the rule against board, applying every
// permutation that still matches. Returns whether the board changed.
func (r *Rule) Evaluate(rng *rand.Rand, board *Board, triggered *TriggeredCommands) bool {
	return r.evaluate(rng, board, triggered, false)
}

// EvaluateOnce behaves like Evaluate but stops after the first
// board-changing permutation, used by random rule groups.
func (r *Rule) EvaluateOnce(rng *rand.Rand, board *Board, triggered *TriggeredCommands) bool {
	return r.evaluate(rng, board, triggered, true)
}

func (r *Rule) evaluate(rng *rand.Rand, board *Board, triggered *TriggeredCommands, evalOnce bool) bool {
	matchLists, ok := r.FindMatches(board)
	if !ok {
		return false
	}

	triggered.Merge(r.Commands)
	if r.HasOnlyCommands() {
		return false
	}

	perms := buildPermutations(matchLists)
	boardChangedAtLeastOnce := false

	for _, perm := range perms {
		magicOr := make(map[*Tile][]SpriteID)
		stillMatches := true
		for i, cond := range r.Conditions {
			cond.PopulateMagicOrTiles(board, perm[i], magicOr)
			if !cond.FindStillMatched(board, perm[i]) {
				stillMatches = false
			}
		}
		if !stillMatches {
			continue
		}

		for i, cond := range r.Conditions {
			if !cond.FindStillMatched(board, perm[i]) {
				continue
			}
			if r.Actions[i].Evaluate(rng, board, perm[i], magicOr) {
				boardChangedAtLeastOnce = true
			}
		}

		if evalOnce && boardChangedAtLeastOnce {
			break
		}
	}

	return boardChangedAtLeastOnce
}
