package engine

// Cell holds the sprites occupying one board position, at most one per
// collision layer, plus a BitSet of the sprite ids present kept in sync
// with the layer map.
//
// Invariant: Bits.Cardinality() == len(Layers); for every (layer, sw) in
// Layers, Bits.Contains(sw.SpriteID) is true.
type Cell struct {
	Layers map[CollisionLayer]SpriteAndWantsToMove
	Bits   BitSet
}

// NewCell returns an empty cell.
func NewCell() Cell {
	return Cell{Layers: make(map[CollisionLayer]SpriteAndWantsToMove), Bits: NewBitSet()}
}

// AddSprite inserts id into layer with the given direction. If the layer
// already holds the same (id, dir) pair, this is a no-op. RandomDir must
// never reach a cell: it has to be resolved to a concrete direction before
// being applied.
//
// Returns whether the cell changed.
func (c *Cell) AddSprite(layer CollisionLayer, id SpriteID, dir WantsToMove) bool {
	if dir == RandomDir {
		panic("engine: BUG: should never try to set direction to RandomDir at this point")
	}
	if existing, ok := c.Layers[layer]; ok {
		if existing.SpriteID == id && existing.WantsToMove == dir {
			return false
		}
		c.Bits.Remove(existing.SpriteID)
	}
	c.Layers[layer] = SpriteAndWantsToMove{SpriteID: id, WantsToMove: dir}
	c.Bits.Insert(id)
	return true
}

// RemoveCollisionLayer clears the sprite occupying layer, if any.
// Returns whether the cell changed.
func (c *Cell) RemoveCollisionLayer(layer CollisionLayer) bool {
	existing, ok := c.Layers[layer]
	if !ok {
		return false
	}
	delete(c.Layers, layer)
	c.Bits.Remove(existing.SpriteID)
	return true
}

// SetWantsToMove updates the direction of the sprite occupying layer.
// Panics if the layer is empty: a rule can only redirect a sprite that is
// already there.
func (c *Cell) SetWantsToMove(layer CollisionLayer, dir WantsToMove) bool {
	existing, ok := c.Layers[layer]
	if !ok {
		panic("engine: BUG: set_wants_to_move on an empty collision layer")
	}
	if existing.WantsToMove == dir {
		return false
	}
	existing.WantsToMove = dir
	c.Layers[layer] = existing
	return true
}

// HasSprite reports whether id occupies the cell in any layer.
func (c Cell) HasSprite(id SpriteID) bool {
	return c.Bits.Contains(id)
}

// HasCollisionLayer reports whether layer is occupied.
func (c Cell) HasCollisionLayer(layer CollisionLayer) bool {
	_, ok := c.Layers[layer]
	return ok
}

// GetWantsToMove returns the motion intent of the sprite in layer, if any.
func (c Cell) GetWantsToMove(layer CollisionLayer) (WantsToMove, bool) {
	sw, ok := c.Layers[layer]
	return sw.WantsToMove, ok
}

// SpritesAndDirs returns the cell contents, ordered ascending by
// collision layer, matching the deterministic iteration order required
// by the engine.
func (c Cell) SpritesAndDirs() []struct {
	Layer CollisionLayer
	SpriteAndWantsToMove
} {
	layers := make([]CollisionLayer, 0, len(c.Layers))
	for l := range c.Layers {
		layers = append(layers, l)
	}
	sortLayers(layers)
	out := make([]struct {
		Layer CollisionLayer
		SpriteAndWantsToMove
	}, 0, len(layers))
	for _, l := range layers {
		out = append(out, struct {
			Layer CollisionLayer
			SpriteAndWantsToMove
		}{Layer: l, SpriteAndWantsToMove: c.Layers[l]})
	}
	return out
}

func sortLayers(layers []CollisionLayer) {
	for i := 1; i < len(layers); i++ {
		for j := i; j > 0 && layers[j-1] > layers[j]; j-- {
			layers[j-1], layers[j] = layers[j], layers[j-1]
		}
	}
}

// Matches reports whether the cell satisfies tile, optionally requiring
// every matched sprite to carry the given direction.
func (c Cell) Matches(tile *Tile, dir *WantsToMove) bool {
	if tile.Kind == TileOr {
		return c.matchesAny(tile, dir)
	}
	return c.matchesAll(tile, dir)
}

func (c Cell) matchesAll(tile *Tile, dir *WantsToMove) bool {
	if !c.Bits.ContainsAll(tile.Bits) {
		return false
	}
	if dir == nil {
		return true
	}
	for _, sprite := range tile.Sprites {
		sw, ok := c.Layers[sprite.Layer]
		if !ok || sw.SpriteID != sprite.ID || sw.WantsToMove != *dir {
			return false
		}
	}
	return true
}

func (c Cell) matchesAny(tile *Tile, dir *WantsToMove) bool {
	if !c.Bits.ContainsAny(tile.Bits) {
		return false
	}
	for _, sprite := range tile.Sprites {
		sw, ok := c.Layers[sprite.Layer]
		if !ok || sw.SpriteID != sprite.ID {
			continue
		}
		if dir == nil || sw.WantsToMove == *dir {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the cell.
func (c Cell) Clone() Cell {
	layers := make(map[CollisionLayer]SpriteAndWantsToMove, len(c.Layers))
	for k, v := range c.Layers {
		layers[k] = v
	}
	return Cell{Layers: layers, Bits: c.Bits}
}
