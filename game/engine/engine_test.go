package engine

import "testing"

// Sprite ids shared across the scenarios below. Each test picks the
// subset of layers/tiles it actually needs.
const (
	spritePlayer SpriteID = 1
	spriteBox    SpriteID = 2
	spriteGoal   SpriteID = 3
	spriteCat    SpriteID = 4
	spriteDotA   SpriteID = 5
	spriteDotB   SpriteID = 6
)

const (
	layerMover CollisionLayer = 0
	layerFloor CollisionLayer = 1
)

func rightDir() *WantsToMove {
	d := Right
	return &d
}

func singleLevelGame(playerTile, backgroundTile *Tile, rules []*RuleLoop, grid [][]*Tile, wins []*WinCondition) *GameData {
	level := &Level{Map: grid}
	return NewGameData("test", Metadata{}, map[SpriteID]*Sprite{}, playerTile, backgroundTile,
		rules, []*Level{level}, wins)
}

func loopOf(rule *Rule) *RuleLoop {
	return NewRuleLoop(false, []*RuleGroup{NewRuleGroup(false, []*Rule{rule})})
}

// Scenario 1: pushing a box. [> Player | Box] -> [> Player | > Box].
func TestEnginePushABox(t *testing.T) {
	playerTile := NewTile("player", TileAnd, []TileSprite{{ID: spritePlayer, Layer: layerMover}})
	boxTile := NewTile("box", TileAnd, []TileSprite{{ID: spriteBox, Layer: layerMover}})

	condBracket := NewBracket(DirRight, []*Neighbor{
		NewNeighbor([]TileWithModifier{{Tile: playerTile, Direction: rightDir()}}),
		NewNeighbor([]TileWithModifier{{Tile: boxTile}}),
	})
	actionBracket := NewBracket(DirRight, []*Neighbor{
		NewNeighbor([]TileWithModifier{{Tile: playerTile, Direction: rightDir()}}),
		NewNeighbor([]TileWithModifier{{Tile: boxTile, Direction: rightDir()}}),
	})
	rule := NewRule([]*Bracket{condBracket}, []*Bracket{actionBracket}, TriggeredCommands{}, false, false, false)

	grid := [][]*Tile{{playerTile, boxTile, nil}}
	game := singleLevelGame(playerTile, nil, []*RuleLoop{loopOf(rule)}, grid, nil)

	e := NewEngine(game)
	input := EngineRight
	result := e.Tick(&input)

	if !result.Changed {
		t.Fatal("expected the board to change")
	}
	board := e.CurrentLevel().UnwrapBoard()
	if board.HasCollisionLayer(Position{0, 0}, layerMover) {
		t.Error("expected the origin cell to be empty")
	}
	if !board.HasSprite(Position{1, 0}, spritePlayer) {
		t.Error("expected the player to have moved to x=1")
	}
	if !board.HasSprite(Position{2, 0}, spriteBox) {
		t.Error("expected the box to have moved to x=2")
	}
	if dir, _ := board.GetWantsToMove(Position{1, 0}, layerMover); dir != Stationary {
		t.Errorf("expected player to settle Stationary, got %v", dir)
	}
}

// Scenario 2: the board edge blocks motion; the mover stays put and its
// intent is forced back to Stationary.
func TestEngineEdgeBlocksMotion(t *testing.T) {
	playerTile := NewTile("player", TileAnd, []TileSprite{{ID: spritePlayer, Layer: layerMover}})

	condBracket := NewBracket(DirRight, []*Neighbor{
		NewNeighbor([]TileWithModifier{{Tile: playerTile}}),
	})
	actionBracket := NewBracket(DirRight, []*Neighbor{
		NewNeighbor([]TileWithModifier{{Tile: playerTile, Direction: rightDir()}}),
	})
	rule := NewRule([]*Bracket{condBracket}, []*Bracket{actionBracket}, TriggeredCommands{}, false, false, false)

	grid := [][]*Tile{{playerTile}}
	game := singleLevelGame(playerTile, nil, []*RuleLoop{loopOf(rule)}, grid, nil)

	e := NewEngine(game)
	result := e.Tick(nil)

	board := e.CurrentLevel().UnwrapBoard()
	if !board.HasSprite(Position{0, 0}, spritePlayer) {
		t.Fatal("expected the player to remain on the only cell")
	}
	if dir, _ := board.GetWantsToMove(Position{0, 0}, layerMover); dir != Stationary {
		t.Errorf("expected the blocked mover to settle Stationary, got %v", dir)
	}
	if result.Changed {
		t.Error("expected no net change: the cell's final contents match its starting contents")
	}
}

// Scenario 3: a commands-only rule never mutates the board but still
// fires its commands.
func TestEngineCommandsOnlyRuleWins(t *testing.T) {
	playerTile := NewTile("player", TileAnd, []TileSprite{{ID: spritePlayer, Layer: layerMover}})

	condBracket := NewBracket(DirRight, []*Neighbor{})
	rule := NewRule([]*Bracket{condBracket}, nil, TriggeredCommands{Win: true}, false, false, false)
	if !rule.HasOnlyCommands() {
		t.Fatal("expected a rule with no actions to be commands-only")
	}

	grid := [][]*Tile{{playerTile}}
	game := singleLevelGame(playerTile, nil, []*RuleLoop{loopOf(rule)}, grid, nil)

	e := NewEngine(game)
	result := e.Tick(nil)

	if result.Changed {
		t.Error("expected a commands-only rule not to change the board")
	}
	if result.CompletedLevel == nil || *result.CompletedLevel != 0 {
		t.Error("expected the commands-only WIN to complete level 0")
	}
}

// Scenario 4: CANCEL discards the whole tick, including any mutation the
// same rule's actions already describe.
func TestEngineCancelDiscardsMutation(t *testing.T) {
	playerTile := NewTile("player", TileAnd, []TileSprite{{ID: spritePlayer, Layer: layerMover}})
	catTile := NewTile("cat", TileAnd, []TileSprite{{ID: spriteCat, Layer: layerMover}})

	condBracket := NewBracket(DirRight, []*Neighbor{
		NewNeighbor([]TileWithModifier{{Tile: playerTile}}),
	})
	actionBracket := NewBracket(DirRight, []*Neighbor{
		NewNeighbor([]TileWithModifier{{Tile: catTile}}),
	})
	rule := NewRule([]*Bracket{condBracket}, []*Bracket{actionBracket}, TriggeredCommands{Cancel: true}, false, false, false)

	grid := [][]*Tile{{playerTile}}
	game := singleLevelGame(playerTile, nil, []*RuleLoop{loopOf(rule)}, grid, nil)

	e := NewEngine(game)
	result := e.Tick(nil)

	if result.Changed {
		t.Error("CANCEL must discard the mutation: Changed should be false")
	}
	board := e.CurrentLevel().UnwrapBoard()
	if !board.HasSprite(Position{0, 0}, spritePlayer) {
		t.Error("CANCEL must leave the original board untouched: player should still be present")
	}
	if board.HasSprite(Position{0, 0}, spriteCat) {
		t.Error("CANCEL must prevent the cat substitution from ever being observed")
	}
}

// Scenario 5: a late rule observes the board only after motion
// resolution has run, not the pre-motion state.
func TestEngineLateRuleAfterMotion(t *testing.T) {
	playerTile := NewTile("player", TileAnd, []TileSprite{{ID: spritePlayer, Layer: layerMover}})
	goalTile := NewTile("goal", TileAnd, []TileSprite{{ID: spriteGoal, Layer: layerFloor}})

	condBracket := NewBracket(DirRight, []*Neighbor{
		NewNeighbor([]TileWithModifier{{Tile: playerTile}, {Tile: goalTile}}),
	})
	lateRule := NewRule([]*Bracket{condBracket}, nil, TriggeredCommands{Win: true}, true, false, false)

	grid := [][]*Tile{{playerTile, goalTile, nil}}
	game := singleLevelGame(playerTile, nil, []*RuleLoop{loopOf(lateRule)}, grid, nil)

	e := NewEngine(game)
	input := EngineRight
	result := e.Tick(&input)

	if result.CompletedLevel == nil {
		t.Fatal("expected the late rule to observe the player standing on the goal after the move completed")
	}
}

// Scenario 6: win conditions are ANDed across every declared condition.
func TestEngineAndedWinConditions(t *testing.T) {
	dotA := NewTile("dotA", TileAnd, []TileSprite{{ID: spriteDotA, Layer: layerMover}})
	dotB := NewTile("dotB", TileAnd, []TileSprite{{ID: spriteDotB, Layer: layerFloor}})

	conditions := []*WinCondition{
		{Kind: WinSimple, Qualifier: QualSome, Tile: dotA},
		{Kind: WinSimple, Qualifier: QualNo, Tile: dotB},
	}

	both := NewBoard(1, 1)
	both.AddSprite(Position{0, 0}, layerMover, spriteDotA, Stationary)
	both.AddSprite(Position{0, 0}, layerFloor, spriteDotB, Stationary)
	if CheckWinConditions(both, conditions) {
		t.Error("expected the AND of both conditions to fail while dotB is still present")
	}

	onlyA := NewBoard(1, 1)
	onlyA.AddSprite(Position{0, 0}, layerMover, spriteDotA, Stationary)
	if !CheckWinConditions(onlyA, conditions) {
		t.Error("expected the AND of both conditions to hold once dotB is gone")
	}

	if CheckWinConditions(onlyA, nil) {
		t.Error("zero declared win conditions must never auto-win")
	}
}

// Scenario 7: an ellipsis bracket matches its after-chain at every
// qualifying gap length, not just the first.
func TestEngineEllipsisBracket(t *testing.T) {
	a := NewTile("a", TileAnd, []TileSprite{{ID: spritePlayer, Layer: layerMover}})
	b := NewTile("b", TileAnd, []TileSprite{{ID: spriteBox, Layer: layerMover}})

	board := NewBoard(5, 1)
	board.AddSprite(Position{0, 0}, layerMover, spritePlayer, Stationary)
	board.AddSprite(Position{2, 0}, layerMover, spriteBox, Stationary)
	board.AddSprite(Position{4, 0}, layerMover, spriteBox, Stationary)

	bracket := NewEllipsisBracket(DirRight,
		[]*Neighbor{NewNeighbor([]TileWithModifier{{Tile: a}})},
		[]*Neighbor{NewNeighbor([]TileWithModifier{{Tile: b}})},
	)

	matches := bracket.FindMatch(board, Position{0, 0})
	if len(matches) != 2 {
		t.Fatalf("expected 2 gap-length matches, got %d", len(matches))
	}
	if matches[0].After[0] != (Position{2, 0}) || matches[1].After[0] != (Position{4, 0}) {
		t.Errorf("unexpected after-positions: %v", matches)
	}
	for _, m := range matches {
		if m.Before[0] != (Position{0, 0}) {
			t.Errorf("expected the before-chain anchored at the start, got %v", m.Before)
		}
	}
}

func TestEngineUndoAndRestart(t *testing.T) {
	playerTile := NewTile("player", TileAnd, []TileSprite{{ID: spritePlayer, Layer: layerMover}})
	grid := [][]*Tile{{playerTile, nil, nil}}
	game := singleLevelGame(playerTile, nil, nil, grid, nil)

	e := NewEngine(game)
	right := EngineRight
	e.Tick(&right)
	board := e.CurrentLevel().UnwrapBoard()
	if !board.HasSprite(Position{1, 0}, spritePlayer) {
		t.Fatal("expected the player to have moved right")
	}
	if e.UndoDepth() != 1 {
		t.Fatalf("expected one undo snapshot, got %d", e.UndoDepth())
	}

	undo := EngineUndo
	e.Tick(&undo)
	board = e.CurrentLevel().UnwrapBoard()
	if !board.HasSprite(Position{0, 0}, spritePlayer) {
		t.Error("expected undo to restore the player's original position")
	}
	if e.UndoDepth() != 0 {
		t.Errorf("expected the undo stack to be empty after popping, got depth %d", e.UndoDepth())
	}
}
