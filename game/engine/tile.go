package engine

// TileKind distinguishes conjunctive (And) from disjunctive (Or) tiles.
type TileKind int

const (
	TileAnd TileKind = iota
	TileOr
)

// TileSprite is one member of a Tile: a sprite id pinned to the
// collision layer it occupies.
type TileSprite struct {
	ID    SpriteID
	Layer CollisionLayer
}

// Tile is a named boolean predicate over one cell's sprites. An And-tile
// matches when every member sprite is present (in its layer); an Or-tile
// matches when at least one member is present.
type Tile struct {
	Kind           TileKind
	Name           string
	Sprites        []TileSprite
	Bits           BitSet
	CollisionLayers map[CollisionLayer]bool
}

// NewTile builds a Tile from its member sprites, precomputing the bitset
// and collision-layer set used to fast-path matching.
func NewTile(name string, kind TileKind, sprites []TileSprite) *Tile {
	t := &Tile{Kind: kind, Name: name, Sprites: sprites, Bits: NewBitSet(), CollisionLayers: make(map[CollisionLayer]bool)}
	for _, s := range sprites {
		t.Bits.Insert(s.ID)
		t.CollisionLayers[s.Layer] = true
	}
	return t
}

// IsOr reports whether the tile is disjunctive.
func (t *Tile) IsOr() bool {
	return t.Kind == TileOr
}

// HasSingleCollisionLayer reports whether every member sprite shares one
// collision layer — required for a tile to be usable as a rule action
// target without ambiguity.
func (t *Tile) HasSingleCollisionLayer() bool {
	return len(t.CollisionLayers) == 1
}

// Matches delegates to Cell.Matches.
func (t *Tile) Matches(cell Cell, dir *WantsToMove) bool {
	return cell.Matches(t, dir)
}

// TileWithModifier adds a direction filter and negation to a Tile
// reference, the atomic predicate used inside a Neighbor.
type TileWithModifier struct {
	Tile      *Tile
	Negated   bool
	Direction *WantsToMove // nil means "any direction"
}

// Matches reports whether cell satisfies this modified tile: the tile's
// own match XORed with the negation flag.
func (m TileWithModifier) Matches(cell Cell) bool {
	return m.Negated != cell.Matches(m.Tile, m.Direction)
}
