package engine

import "math/rand"

// Sprite is a named, single-collision-layer visual/logical token. Pixel
// rendering is out of scope for this core (it belongs to an external
// renderer collaborator); only the identity and layer needed for
// matching are kept here.
type Sprite struct {
	ID    SpriteID
	Name  string
	Layer CollisionLayer
}

// Level is either a narrative interstitial (Message) or a playable grid
// (Map).
type Level struct {
	IsMessage bool
	Message   string
	Map       [][]*Tile // row-major, nil when IsMessage
}

// Size returns the level's board dimensions. Panics on a Message level.
func (l *Level) Size() Dimension {
	if l.IsMessage {
		panic("engine: BUG: message levels have no board size")
	}
	return Dimension{Width: len(l.Map[0]), Height: len(l.Map)}
}

// Input is a player-facing action the driver can dispatch to a
// precompiled input rule.
type Input int

const (
	InputUp Input = iota
	InputDown
	InputLeft
	InputRight
	InputAction
)

// GameData is the immutable, read-only-after-load ruleset: sprites,
// tiles, rules, levels and win conditions, plus the five precompiled
// input rules built once at construction.
type GameData struct {
	Title          string
	Metadata       Metadata
	SpriteSize     Dimension
	Sprites        map[SpriteID]*Sprite
	PlayerTile     *Tile
	BackgroundTile *Tile
	Rules          []*RuleLoop
	Levels         []*Level
	WinConditions  []*WinCondition

	inputRuleUp     *RuleLoop
	inputRuleDown   *RuleLoop
	inputRuleLeft   *RuleLoop
	inputRuleRight  *RuleLoop
	inputRuleAction *RuleLoop
}

// NewGameData builds a GameData and precompiles its five input rules.
func NewGameData(title string, metadata Metadata, sprites map[SpriteID]*Sprite, playerTile, backgroundTile *Tile,
	rules []*RuleLoop, levels []*Level, winConditions []*WinCondition) *GameData {
	spriteSize := Dimension{Width: 5, Height: 5}
	g := &GameData{
		Title: title, Metadata: metadata, SpriteSize: spriteSize, Sprites: sprites,
		PlayerTile: playerTile, BackgroundTile: backgroundTile,
		Rules: rules, Levels: levels, WinConditions: winConditions,
	}
	g.inputRuleUp = buildInputRule(playerTile, Up)
	g.inputRuleDown = buildInputRule(playerTile, Down)
	g.inputRuleLeft = buildInputRule(playerTile, Left)
	g.inputRuleRight = buildInputRule(playerTile, Right)
	g.inputRuleAction = buildInputRule(playerTile, ActionMove)
	return g
}

// buildInputRule constructs the synthetic single-rule, non-looping
// RuleLoop used to translate a raw player input into a wants-to-move
// marker on the player tile: condition = player tile with direction
// Stationary, action = player tile with the target direction.
func buildInputRule(playerTile *Tile, wantsToMove WantsToMove) *RuleLoop {
	stationary := Stationary
	target := wantsToMove
	condNeighbor := NewNeighbor([]TileWithModifier{{Tile: playerTile, Direction: &stationary}})
	actionNeighbor := NewNeighbor([]TileWithModifier{{Tile: playerTile, Direction: &target}})
	condBracket := NewBracket(DirRight, []*Neighbor{condNeighbor})
	actionBracket := NewBracket(DirRight, []*Neighbor{actionNeighbor})
	rule := NewRule([]*Bracket{condBracket}, []*Bracket{actionBracket}, TriggeredCommands{}, false, false, false)
	group := NewRuleGroup(false, []*Rule{rule})
	return NewRuleLoop(false, []*RuleGroup{group})
}

// LookupSprite returns the sprite with the given id, if any.
func (g *GameData) LookupSprite(id SpriteID) (*Sprite, bool) {
	s, ok := g.Sprites[id]
	return s, ok
}

// ToBoard materializes a playable Map level into a Board. Panics on a
// Message level: the caller must have already handled that case.
func (g *GameData) ToBoard(level *Level) *Board {
	if level.IsMessage {
		panic("engine: BUG: should have found a Map level to play")
	}
	size := level.Size()
	return FromTiles(size.Width, size.Height, level.Map, g.BackgroundTile)
}

// EvaluatePlayerInput applies the precompiled input rule for input once,
// ignoring any late flag (the synthetic rule never carries one).
func (g *GameData) EvaluatePlayerInput(rng *rand.Rand, board *Board, input Input) TriggeredCommands {
	var loop *RuleLoop
	switch input {
	case InputUp:
		loop = g.inputRuleUp
	case InputDown:
		loop = g.inputRuleDown
	case InputLeft:
		loop = g.inputRuleLeft
	case InputRight:
		loop = g.inputRuleRight
	case InputAction:
		loop = g.inputRuleAction
	default:
		return TriggeredCommands{}
	}
	return loop.Evaluate(rng, board, false)
}

// EvaluateRules runs every top-level RuleLoop for the given late pass,
// merging their triggered commands.
func (g *GameData) EvaluateRules(rng *rand.Rand, board *Board, late bool) TriggeredCommands {
	var triggered TriggeredCommands
	for _, rl := range g.Rules {
		triggered.Merge(rl.Evaluate(rng, board, late))
	}
	return triggered
}

type motionSlot struct {
	Pos   Position
	Layer CollisionLayer
}

// EvaluatePost resolves every pending wants-to-move intent into actual
// sprite displacement, respecting collision layers and board edges. It
// repeats until a full pass produces no change, then forces any
// remaining non-Stationary slot (blocked by a cyclic dependency) to
// Stationary. This is the only place sprites physically move.
func (g *GameData) EvaluatePost(board *Board) {
	for {
		changed := false
		var toStationary []motionSlot
		var toMove []motionSlot

		for _, pos := range board.PositionsIter() {
			cell := board.Get(pos)
			for _, entry := range cell.SpritesAndDirs() {
				layer, sw := entry.Layer, entry.SpriteAndWantsToMove
				if sw.WantsToMove == Stationary {
					continue
				}
				if sw.WantsToMove == ActionMove {
					toStationary = append(toStationary, motionSlot{Pos: pos, Layer: layer})
					continue
				}
				dir, ok := sw.WantsToMove.ToCardinal()
				if !ok {
					// RandomDir must already have been resolved by the rule
					// that set it; treat anything else unrecognized as inert.
					toStationary = append(toStationary, motionSlot{Pos: pos, Layer: layer})
					continue
				}
				neighborPos, inBounds := board.NeighborPosition(pos, dir)
				if !inBounds {
					toStationary = append(toStationary, motionSlot{Pos: pos, Layer: layer})
					continue
				}
				if !board.HasCollisionLayer(neighborPos, layer) {
					toMove = append(toMove, motionSlot{Pos: pos, Layer: layer})
				}
				// else: blocked this pass; may free up once the blocker moves.
			}
		}

		for _, slot := range toStationary {
			if board.SetWantsToMove(slot.Pos, slot.Layer, Stationary) {
				changed = true
			}
		}
		for _, slot := range toMove {
			cell := board.Get(slot.Pos)
			sw, ok := cell.Layers[slot.Layer]
			if !ok {
				continue
			}
			dir, ok := sw.WantsToMove.ToCardinal()
			if !ok {
				continue
			}
			neighborPos, inBounds := board.NeighborPosition(slot.Pos, dir)
			if !inBounds {
				continue
			}
			if board.HasCollisionLayer(neighborPos, slot.Layer) {
				// lost the race to another mover this pass; retry next pass.
				continue
			}
			board.RemoveCollisionLayer(slot.Pos, slot.Layer)
			board.AddSprite(neighborPos, slot.Layer, sw.SpriteID, Stationary)
			changed = true
		}

		if !changed {
			break
		}
	}

	for _, pos := range board.PositionsIter() {
		cell := board.Get(pos)
		for _, entry := range cell.SpritesAndDirs() {
			if entry.WantsToMove != Stationary {
				board.SetWantsToMove(pos, entry.Layer, Stationary)
			}
		}
	}
}

// Evaluate runs one full tick pipeline: non-late rules, then (unless
// cancelled) motion resolution, late rules, and a win-condition check.
// On cancel, EvaluatePost is deliberately skipped — the caller discards
// the whole board mutation, so resolving motion would be wasted and,
// worse, observable if the caller ever forgot to discard.
func (g *GameData) Evaluate(rng *rand.Rand, board *Board) TriggeredCommands {
	triggered := g.EvaluateRules(rng, board, false)
	if triggered.Cancel {
		return triggered
	}

	g.EvaluatePost(board)

	late := g.EvaluateRules(rng, board, true)
	triggered.Merge(late)

	if CheckWinConditions(board, g.WinConditions) {
		triggered.Win = true
	}
	return triggered
}
