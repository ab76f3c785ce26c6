package engine

import "math/rand"

type actionKind int

const (
	actionRemove actionKind = iota
	actionAdd
	actionModifyDir
)

type neighborAction struct {
	Layer    CollisionLayer
	Kind     actionKind
	Modifier TileWithModifier
}

// Neighbor is a conjunction of modified-tile predicates against a single
// cell. When used on the action side of a rule it additionally carries
// per-collision-layer instructions (derived by PrepareActions) describing
// how to rewrite that cell: remove a sprite, add one, or redirect one
// already present.
type Neighbor struct {
	Modifiers []TileWithModifier

	allBits BitSet
	anyBits BitSet
	dirs    []layerDir

	actions []neighborAction
}

// NewNeighbor builds a Neighbor from its modifiers, precomputing the
// required/any sprite bitsets and required (layer, direction) pairs used
// by Bracket's stripe-cache short-circuit.
func NewNeighbor(modifiers []TileWithModifier) *Neighbor {
	n := &Neighbor{Modifiers: modifiers, allBits: NewBitSet(), anyBits: NewBitSet()}
	for _, m := range modifiers {
		if m.Negated {
			continue
		}
		if m.Tile.Kind == TileAnd {
			n.allBits.InsertAll(m.Tile.Bits)
		} else {
			n.anyBits.InsertAll(m.Tile.Bits)
		}
		if m.Direction != nil {
			for _, s := range m.Tile.Sprites {
				n.dirs = append(n.dirs, layerDir{Layer: s.Layer, Dir: *m.Direction})
			}
		}
	}
	return n
}

// Matches reports whether every modifier is satisfied at pos.
func (n *Neighbor) Matches(board *Board, pos Position) bool {
	cell := board.Get(pos)
	for _, m := range n.Modifiers {
		if !m.Matches(cell) {
			return false
		}
	}
	return true
}

// PrepareActions classifies, for every collision layer touched by either
// this neighbor (the action side) or cond (the paired condition side),
// whether applying this neighbor at a matched position removes, adds, or
// redirects a sprite in that layer. Returns whether this neighbor causes
// any board change at all (false marks it, and by extension the owning
// rule if every action neighbor agrees, as commands-only/inert).
func (n *Neighbor) PrepareActions(cond *Neighbor) bool {
	condLayers := make(map[CollisionLayer]bool)
	for _, m := range cond.Modifiers {
		if m.Negated {
			continue
		}
		for l := range m.Tile.CollisionLayers {
			condLayers[l] = true
		}
	}
	actionLayers := make(map[CollisionLayer]TileWithModifier)
	for _, m := range n.Modifiers {
		if m.Negated {
			continue
		}
		for l := range m.Tile.CollisionLayers {
			actionLayers[l] = m
		}
	}

	n.actions = nil

	removeLayers := make([]CollisionLayer, 0, len(condLayers))
	for l := range condLayers {
		removeLayers = append(removeLayers, l)
	}
	sortLayers(removeLayers)
	for _, layer := range removeLayers {
		if _, ok := actionLayers[layer]; !ok {
			n.actions = append(n.actions, neighborAction{Layer: layer, Kind: actionRemove})
		}
	}

	setLayers := make([]CollisionLayer, 0, len(actionLayers))
	for l := range actionLayers {
		setLayers = append(setLayers, l)
	}
	sortLayers(setLayers)
	for _, layer := range setLayers {
		mod := actionLayers[layer]
		if condLayers[layer] {
			n.actions = append(n.actions, neighborAction{Layer: layer, Kind: actionModifyDir, Modifier: mod})
		} else {
			n.actions = append(n.actions, neighborAction{Layer: layer, Kind: actionAdd, Modifier: mod})
		}
	}
	return len(n.actions) > 0
}

// PopulateMagicOrTiles records, for every Or-tile modifier on this
// (condition-side) neighbor, which member sprite actually matched at pos.
// The paired action neighbor consults this map to reproduce the same
// variant rather than choosing independently.
func (n *Neighbor) PopulateMagicOrTiles(board *Board, pos Position, magicOr map[*Tile][]SpriteID) {
	cell := board.Get(pos)
	for _, m := range n.Modifiers {
		if m.Negated || m.Tile.Kind != TileOr {
			continue
		}
		for _, sprite := range m.Tile.Sprites {
			sw, ok := cell.Layers[sprite.Layer]
			if !ok || sw.SpriteID != sprite.ID {
				continue
			}
			if m.Direction != nil && sw.WantsToMove != *m.Direction {
				continue
			}
			magicOr[m.Tile] = append(magicOr[m.Tile], sprite.ID)
		}
	}
}

// Evaluate applies this neighbor's action instructions at pos. Returns
// whether the board actually changed.
func (n *Neighbor) Evaluate(rng *rand.Rand, board *Board, pos Position, magicOr map[*Tile][]SpriteID) bool {
	changed := false
	for _, act := range n.actions {
		switch act.Kind {
		case actionRemove:
			changed = board.RemoveCollisionLayer(pos, act.Layer) || changed
		case actionAdd:
			id := resolveSpriteID(act.Modifier, magicOr, rng)
			dir := resolveDirection(act.Modifier, rng)
			changed = board.AddSprite(pos, act.Layer, id, dir) || changed
		case actionModifyDir:
			// Always re-add rather than just redirecting in place: the action
			// side may name a different sprite than the condition matched
			// (a replace), and Board.AddSprite already handles the
			// same-sprite-new-direction case as a no-op-on-bits update.
			id := resolveSpriteID(act.Modifier, magicOr, rng)
			dir := resolveDirection(act.Modifier, rng)
			changed = board.AddSprite(pos, act.Layer, id, dir) || changed
		}
	}
	return changed
}

func resolveSpriteID(mod TileWithModifier, magicOr map[*Tile][]SpriteID, rng *rand.Rand) SpriteID {
	if mod.Tile.Kind == TileOr {
		if ids, ok := magicOr[mod.Tile]; ok && len(ids) > 0 {
			return ids[rng.Intn(len(ids))]
		}
		return mod.Tile.Sprites[rng.Intn(len(mod.Tile.Sprites))].ID
	}
	return mod.Tile.Sprites[0].ID
}

func resolveDirection(mod TileWithModifier, rng *rand.Rand) WantsToMove {
	if mod.Direction == nil {
		return Stationary
	}
	if *mod.Direction == RandomDir {
		dirs := [4]WantsToMove{Up, Down, Left, Right}
		return dirs[rng.Intn(4)]
	}
	return *mod.Direction
}
