package loader

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wricardo/rulegrid/game/engine"
)

// Load parses a JSON-encoded AST and resolves it into a playable
// GameData. Every reference (sprite, tile, neighbor, bracket, command,
// rule-definition id) is checked; a dangling or cyclic reference is a
// fatal load error, never a panic.
func Load(data []byte) (*engine.GameData, error) {
	var ast AST
	if err := json.Unmarshal(data, &ast); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAST, err)
	}
	return LoadAST(&ast)
}

// LoadAST resolves an already-decoded AST, for callers that build or
// transform the document in memory rather than reading it from JSON.
func LoadAST(ast *AST) (*engine.GameData, error) {
	l := &loaderState{
		ast:               ast,
		spriteIDByName:    make(map[string]engine.SpriteID),
		spriteLayerByName: make(map[string]engine.CollisionLayer),
		sprites:           make(map[engine.SpriteID]*engine.Sprite),
		tiles:             make(map[string]*engine.Tile),
		modifiers:         make(map[string]engine.TileWithModifier),
		neighbors:         make(map[string]*engine.Neighbor),
		brackets:          make(map[string]*engine.Bracket),
		commands:          make(map[string]engine.TriggeredCommands),
		flattenedRules:    make(map[string][]*engine.Rule),
		resolving:         make(map[string]bool),
	}
	return l.load()
}

type loaderState struct {
	ast *AST

	spriteIDByName    map[string]engine.SpriteID
	spriteLayerByName map[string]engine.CollisionLayer
	sprites           map[engine.SpriteID]*engine.Sprite

	tiles     map[string]*engine.Tile
	modifiers map[string]engine.TileWithModifier
	neighbors map[string]*engine.Neighbor
	brackets  map[string]*engine.Bracket
	commands  map[string]engine.TriggeredCommands

	flattenedRules map[string][]*engine.Rule
	resolving      map[string]bool
}

func (l *loaderState) load() (*engine.GameData, error) {
	if err := l.assignSpriteIDs(); err != nil {
		return nil, err
	}
	if err := l.buildTiles(); err != nil {
		return nil, err
	}
	if err := l.buildModifiers(); err != nil {
		return nil, err
	}
	if err := l.buildNeighbors(); err != nil {
		return nil, err
	}
	if err := l.buildBrackets(); err != nil {
		return nil, err
	}
	l.buildCommands()

	playerTile, err := l.findSpecialTile("player", ErrMissingPlayerTile)
	if err != nil {
		return nil, err
	}
	backgroundTile, err := l.findSpecialTile("background", ErrMissingBackgroundTile)
	if err != nil {
		return nil, err
	}

	ruleLoops := make([]*engine.RuleLoop, 0, len(l.ast.Rules))
	for _, id := range l.ast.Rules {
		loop, err := l.resolveRuleDefToLoop(id)
		if err != nil {
			return nil, err
		}
		ruleLoops = append(ruleLoops, loop)
	}

	levels, err := l.buildLevels()
	if err != nil {
		return nil, err
	}

	winConditions, err := l.buildWinConditions()
	if err != nil {
		return nil, err
	}

	metadata := l.buildMetadata()

	return engine.NewGameData(l.ast.Title, metadata, l.sprites, playerTile, backgroundTile,
		ruleLoops, levels, winConditions), nil
}

// assignSpriteIDs assigns SpriteIDs in lexicographic order of name. Go's
// JSON decoder reads ast.Sprites into a map, which loses wire order;
// sorting names first is what keeps id assignment deterministic across
// repeated loads of the same document, matching the core's determinism
// requirement.
func (l *loaderState) assignSpriteIDs() error {
	declaredLayers := make(map[uint16]bool)
	for _, cl := range l.ast.CollisionLayers {
		declaredLayers[cl.ID] = true
	}

	names := make([]string, 0, len(l.ast.Sprites))
	for name := range l.ast.Sprites {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > engine.MaxSpriteID+1 {
		return fmt.Errorf("%w: %d sprites exceeds the %d-sprite capacity", ErrMalformedAST, len(names), engine.MaxSpriteID+1)
	}

	for i, name := range names {
		sprite := l.ast.Sprites[name]
		if len(declaredLayers) > 0 && !declaredLayers[sprite.CollisionLayer] {
			return fmt.Errorf("%w: sprite %q references undeclared collision layer %d", ErrMalformedAST, name, sprite.CollisionLayer)
		}
		id := engine.SpriteID(i)
		layer := engine.CollisionLayer(sprite.CollisionLayer)
		l.spriteIDByName[name] = id
		l.spriteLayerByName[name] = layer
		l.sprites[id] = &engine.Sprite{ID: id, Name: name, Layer: layer}
	}
	return nil
}

func (l *loaderState) buildTiles() error {
	for name, t := range l.ast.Tiles {
		kind, err := parseTileKind(t.Kind)
		if err != nil {
			return fmt.Errorf("tile %q: %w", name, err)
		}
		sprites := make([]engine.TileSprite, 0, len(t.Sprites))
		for _, spriteName := range t.Sprites {
			id, ok := l.spriteIDByName[spriteName]
			if !ok {
				return fmt.Errorf("tile %q: %w: sprite %q", name, ErrUnresolvedID, spriteName)
			}
			sprites = append(sprites, engine.TileSprite{ID: id, Layer: l.spriteLayerByName[spriteName]})
		}
		l.tiles[name] = engine.NewTile(name, kind, sprites)
	}
	return nil
}

func (l *loaderState) buildModifiers() error {
	for name, m := range l.ast.TilesWithModifiers {
		tile, ok := l.tiles[m.Tile]
		if !ok {
			return fmt.Errorf("tile-with-modifier %q: %w: tile %q", name, ErrUnresolvedID, m.Tile)
		}
		mod := engine.TileWithModifier{Tile: tile, Negated: m.Negated}
		if m.Direction != nil {
			dir, err := parseWantsToMove(*m.Direction)
			if err != nil {
				return fmt.Errorf("tile-with-modifier %q: %w", name, err)
			}
			mod.Direction = &dir
		}
		l.modifiers[name] = mod
	}
	return nil
}

func (l *loaderState) buildNeighbors() error {
	for name, n := range l.ast.Neighbors {
		mods := make([]engine.TileWithModifier, 0, len(n.TileWithModifiers))
		for _, ref := range n.TileWithModifiers {
			mod, ok := l.modifiers[ref]
			if !ok {
				return fmt.Errorf("neighbor %q: %w: tile-with-modifier %q", name, ErrUnresolvedID, ref)
			}
			mods = append(mods, mod)
		}
		l.neighbors[name] = engine.NewNeighbor(mods)
	}
	return nil
}

func (l *loaderState) buildBrackets() error {
	for name, b := range l.ast.Brackets {
		dir, err := parseDirection(b.Direction)
		if err != nil {
			return fmt.Errorf("bracket %q: %w", name, err)
		}
		before, err := l.resolveNeighbors(b.Before)
		if err != nil {
			return fmt.Errorf("bracket %q: %w", name, err)
		}
		if !b.Ellipsis {
			l.brackets[name] = engine.NewBracket(dir, before)
			continue
		}
		after, err := l.resolveNeighbors(b.After)
		if err != nil {
			return fmt.Errorf("bracket %q: %w", name, err)
		}
		l.brackets[name] = engine.NewEllipsisBracket(dir, before, after)
	}
	return nil
}

func (l *loaderState) resolveNeighbors(ids []string) ([]*engine.Neighbor, error) {
	out := make([]*engine.Neighbor, 0, len(ids))
	for _, ref := range ids {
		n, ok := l.neighbors[ref]
		if !ok {
			return nil, fmt.Errorf("%w: neighbor %q", ErrUnresolvedID, ref)
		}
		out = append(out, n)
	}
	return out, nil
}

func (l *loaderState) resolveBrackets(ids []string) ([]*engine.Bracket, error) {
	out := make([]*engine.Bracket, 0, len(ids))
	for _, ref := range ids {
		b, ok := l.brackets[ref]
		if !ok {
			return nil, fmt.Errorf("%w: bracket %q", ErrUnresolvedID, ref)
		}
		out = append(out, b)
	}
	return out, nil
}

func (l *loaderState) buildCommands() {
	for name, c := range l.ast.Commands {
		var t engine.TriggeredCommands
		switch strings.ToLower(c.Kind) {
		case "win":
			t.Win = true
		case "again":
			t.Again = true
		case "cancel":
			t.Cancel = true
		case "checkpoint":
			t.Checkpoint = true
		case "restart":
			t.Restart = true
		case "sfx":
			t.Sfx = true
		case "message":
			msg := c.Message
			t.Message = &msg
		}
		l.commands[name] = t
	}
}

// findSpecialTile locates the player/background tile by case-insensitive
// name, first among declared tiles, then falling back to a synthetic
// single-sprite And-tile built from a same-named sprite — the same
// convention the reference parser uses (a sprite literally named
// "Player" or "Background" with no explicit tile wrapping it).
func (l *loaderState) findSpecialTile(wantName string, missing error) (*engine.Tile, error) {
	for name, t := range l.tiles {
		if strings.EqualFold(name, wantName) {
			return t, nil
		}
	}
	for name, id := range l.spriteIDByName {
		if strings.EqualFold(name, wantName) {
			sprite := engine.TileSprite{ID: id, Layer: l.spriteLayerByName[name]}
			return engine.NewTile(name, engine.TileAnd, []engine.TileSprite{sprite}), nil
		}
	}
	return nil, missing
}

func boolOrFalse(b *bool) bool {
	return b != nil && *b
}

func (l *loaderState) buildSimpleRule(def RuleDefinitionAST) (*engine.Rule, error) {
	conditions, err := l.resolveBrackets(def.Conditions)
	if err != nil {
		return nil, fmt.Errorf("rule conditions: %w", err)
	}
	var actions []*engine.Bracket
	if len(def.Actions) > 0 {
		actions, err = l.resolveBrackets(def.Actions)
		if err != nil {
			return nil, fmt.Errorf("rule actions: %w", err)
		}
	}
	var commands engine.TriggeredCommands
	for _, cid := range def.Commands {
		cmd, ok := l.commands[cid]
		if !ok {
			return nil, fmt.Errorf("rule commands: %w: %q", ErrUnresolvedID, cid)
		}
		commands.Merge(cmd)
	}
	return engine.NewRule(conditions, actions, commands, def.Late, boolOrFalse(def.Random), def.Rigid), nil
}

// resolveRuleToRules returns the flattened list of rules a group (or a
// lone simple rule) expands to. Groups may transitively reference other
// groups; flattening splices a referenced sub-group's rules directly
// into the parent, since engine.RuleGroup only holds a flat []*Rule.
// resolving tracks the id stack currently being expanded so a cyclic
// group reference surfaces as ErrCyclicRuleGroup instead of recursing
// forever.
func (l *loaderState) resolveRuleToRules(id string) ([]*engine.Rule, error) {
	if rules, ok := l.flattenedRules[id]; ok {
		return rules, nil
	}
	if l.resolving[id] {
		return nil, fmt.Errorf("%w: %q", ErrCyclicRuleGroup, id)
	}
	def, ok := l.ast.RuleDefinitions[id]
	if !ok {
		return nil, fmt.Errorf("%w: rule definition %q", ErrUnresolvedID, id)
	}

	l.resolving[id] = true
	defer delete(l.resolving, id)

	switch strings.ToLower(def.Kind) {
	case "simple":
		rule, err := l.buildSimpleRule(def)
		if err != nil {
			return nil, fmt.Errorf("rule definition %q: %w", id, err)
		}
		rules := []*engine.Rule{rule}
		l.flattenedRules[id] = rules
		return rules, nil
	case "group":
		var flat []*engine.Rule
		for _, sub := range def.Rules {
			subRules, err := l.resolveRuleToRules(sub)
			if err != nil {
				return nil, err
			}
			flat = append(flat, subRules...)
		}
		l.flattenedRules[id] = flat
		return flat, nil
	case "loop":
		return nil, fmt.Errorf("rule definition %q: %w: a loop cannot nest inside a group", id, ErrMalformedAST)
	default:
		return nil, fmt.Errorf("rule definition %q: %w: unknown kind %q", id, ErrMalformedAST, def.Kind)
	}
}

// resolveRuleDefToLoop wraps a top-level rule-definition id — simple,
// group, or loop — into a *engine.RuleLoop. The directions field on a
// Simple definition is left unconsulted here: full direction-rotation
// (expanding one textual rule into its Up/Down/Left/Right variants) is
// the upstream parser's job, out of this core's scope. Each Simple
// rule-definition id already names concrete-direction bracket ids, so
// exactly one *engine.Rule is built per id.
func (l *loaderState) resolveRuleDefToLoop(id string) (*engine.RuleLoop, error) {
	def, ok := l.ast.RuleDefinitions[id]
	if !ok {
		return nil, fmt.Errorf("top-level rule %q: %w", id, ErrUnresolvedID)
	}

	switch strings.ToLower(def.Kind) {
	case "simple":
		rule, err := l.buildSimpleRule(def)
		if err != nil {
			return nil, fmt.Errorf("top-level rule %q: %w", id, err)
		}
		group := engine.NewRuleGroup(rule.Random, []*engine.Rule{rule})
		return engine.NewRuleLoop(false, []*engine.RuleGroup{group}), nil
	case "group":
		rules, err := l.resolveRuleToRules(id)
		if err != nil {
			return nil, fmt.Errorf("top-level rule %q: %w", id, err)
		}
		group := engine.NewRuleGroup(boolOrFalse(def.Random), rules)
		return engine.NewRuleLoop(false, []*engine.RuleGroup{group}), nil
	case "loop":
		groups := make([]*engine.RuleGroup, 0, len(def.Rules))
		for _, sub := range def.Rules {
			subDef, ok := l.ast.RuleDefinitions[sub]
			if !ok {
				return nil, fmt.Errorf("top-level rule %q: %w: %q", id, ErrUnresolvedID, sub)
			}
			switch strings.ToLower(subDef.Kind) {
			case "simple":
				rule, err := l.buildSimpleRule(subDef)
				if err != nil {
					return nil, fmt.Errorf("top-level rule %q: %w", id, err)
				}
				groups = append(groups, engine.NewRuleGroup(rule.Random, []*engine.Rule{rule}))
			case "group":
				rules, err := l.resolveRuleToRules(sub)
				if err != nil {
					return nil, fmt.Errorf("top-level rule %q: %w", id, err)
				}
				groups = append(groups, engine.NewRuleGroup(boolOrFalse(subDef.Random), rules))
			default:
				return nil, fmt.Errorf("top-level rule %q: %w: group/loop member %q must be simple or group", id, ErrMalformedAST, sub)
			}
		}
		return engine.NewRuleLoop(true, groups), nil
	default:
		return nil, fmt.Errorf("top-level rule %q: %w: unknown kind %q", id, ErrMalformedAST, def.Kind)
	}
}

func (l *loaderState) buildLevels() ([]*engine.Level, error) {
	levels := make([]*engine.Level, 0, len(l.ast.Levels))
	for i, lv := range l.ast.Levels {
		switch strings.ToLower(lv.Kind) {
		case "message":
			levels = append(levels, &engine.Level{IsMessage: true, Message: lv.Message})
		case "map":
			grid, err := l.buildLevelGrid(lv.Cells)
			if err != nil {
				return nil, fmt.Errorf("level %d: %w", i, err)
			}
			levels = append(levels, &engine.Level{Map: grid})
		default:
			return nil, fmt.Errorf("level %d: %w: unknown kind %q", i, ErrMalformedAST, lv.Kind)
		}
	}
	return levels, nil
}

// buildLevelGrid resolves each cell's tile-id list into a single *Tile.
// A cell naming zero tiles is empty (nil). A cell naming exactly one
// tile reuses it directly. A cell naming several simultaneously-present
// tiles is synthesized into an ad hoc And-tile over the union of their
// member sprites, since engine.Level.Map holds one *Tile per cell.
func (l *loaderState) buildLevelGrid(cells [][][]string) ([][]*engine.Tile, error) {
	grid := make([][]*engine.Tile, len(cells))
	for y, row := range cells {
		out := make([]*engine.Tile, len(row))
		for x, tileIDs := range row {
			tile, err := l.resolveCellTile(tileIDs)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			out[x] = tile
		}
		grid[y] = out
	}
	return grid, nil
}

func (l *loaderState) resolveCellTile(tileIDs []string) (*engine.Tile, error) {
	switch len(tileIDs) {
	case 0:
		return nil, nil
	case 1:
		tile, ok := l.tiles[tileIDs[0]]
		if !ok {
			return nil, fmt.Errorf("%w: tile %q", ErrUnresolvedID, tileIDs[0])
		}
		return tile, nil
	default:
		var sprites []engine.TileSprite
		var name strings.Builder
		for i, id := range tileIDs {
			tile, ok := l.tiles[id]
			if !ok {
				return nil, fmt.Errorf("%w: tile %q", ErrUnresolvedID, id)
			}
			if i > 0 {
				name.WriteByte('+')
			}
			name.WriteString(tile.Name)
			sprites = append(sprites, tile.Sprites...)
		}
		return engine.NewTile(name.String(), engine.TileAnd, sprites), nil
	}
}

func (l *loaderState) buildWinConditions() ([]*engine.WinCondition, error) {
	out := make([]*engine.WinCondition, 0, len(l.ast.WinConditions))
	for i, wc := range l.ast.WinConditions {
		qual, err := parseQualifier(wc.Qualifier)
		if err != nil {
			return nil, fmt.Errorf("win condition %d: %w", i, err)
		}
		tile, ok := l.tiles[wc.Tile]
		if !ok {
			return nil, fmt.Errorf("win condition %d: %w: tile %q", i, ErrUnresolvedID, wc.Tile)
		}
		switch strings.ToLower(wc.Kind) {
		case "simple":
			if qual == engine.QualAll {
				return nil, fmt.Errorf("win condition %d: %w: Simple cannot use the All qualifier", i, ErrMalformedAST)
			}
			out = append(out, &engine.WinCondition{Kind: engine.WinSimple, Qualifier: qual, Tile: tile})
		case "on":
			onTile, ok := l.tiles[wc.OnTile]
			if !ok {
				return nil, fmt.Errorf("win condition %d: %w: on_tile %q", i, ErrUnresolvedID, wc.OnTile)
			}
			out = append(out, &engine.WinCondition{Kind: engine.WinOn, Qualifier: qual, Tile: tile, OnTile: onTile})
		default:
			return nil, fmt.Errorf("win condition %d: %w: unknown kind %q", i, ErrMalformedAST, wc.Kind)
		}
	}
	return out, nil
}

func (l *loaderState) buildMetadata() engine.Metadata {
	m := l.ast.Metadata
	meta := engine.Metadata{
		Author:                m.Author,
		Homepage:              m.Homepage,
		Youtube:               m.Youtube,
		ColorPalette:          m.ColorPalette,
		BackgroundColor:       m.BackgroundColor,
		TextColor:             m.TextColor,
		RealtimeInterval:      m.RealtimeInterval,
		KeyRepeatInterval:     m.KeyRepeatInterval,
		AgainInterval:         m.AgainInterval,
		NoAction:              m.NoAction,
		NoUndo:                m.NoUndo,
		NoRepeatAction:        m.NoRepeatAction,
		ThrottleMovement:      m.ThrottleMovement,
		NoRestart:             m.NoRestart,
		RequirePlayerMovement: m.RequirePlayerMovement,
		VerboseLogging:        m.VerboseLogging,
		RunRulesOnLevelStart:  m.RunRulesOnLevelStart,
		Scanline:              m.Scanline,
	}
	if dim, err := parseDimension(m.ZoomScreen); err == nil {
		meta.ZoomScreen = &dim
	}
	if dim, err := parseDimension(m.FlickScreen); err == nil {
		meta.FlickScreen = &dim
	}
	return meta
}

func parseTileKind(s string) (engine.TileKind, error) {
	switch strings.ToLower(s) {
	case "and", "":
		return engine.TileAnd, nil
	case "or":
		return engine.TileOr, nil
	default:
		return 0, fmt.Errorf("%w: unknown tile kind %q", ErrMalformedAST, s)
	}
}

func parseDirection(s string) (engine.CardinalDirection, error) {
	switch strings.ToLower(s) {
	case "up":
		return engine.DirUp, nil
	case "down":
		return engine.DirDown, nil
	case "left":
		return engine.DirLeft, nil
	case "right":
		return engine.DirRight, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrMalformedAST, s)
	}
}

func parseWantsToMove(s string) (engine.WantsToMove, error) {
	switch strings.ToLower(s) {
	case "stationary", "":
		return engine.Stationary, nil
	case "up":
		return engine.Up, nil
	case "down":
		return engine.Down, nil
	case "left":
		return engine.Left, nil
	case "right":
		return engine.Right, nil
	case "action":
		return engine.ActionMove, nil
	case "random":
		return engine.RandomDir, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction modifier %q", ErrMalformedAST, s)
	}
}

func parseQualifier(s string) (engine.WinQualifier, error) {
	switch strings.ToLower(s) {
	case "all":
		return engine.QualAll, nil
	case "no":
		return engine.QualNo, nil
	case "some":
		return engine.QualSome, nil
	case "any":
		return engine.QualAny, nil
	default:
		return 0, fmt.Errorf("%w: unknown win qualifier %q", ErrMalformedAST, s)
	}
}

// parseDimension parses a "WxH" string, the wire form metadata uses for
// zoomscreen/flickscreen.
func parseDimension(s string) (engine.Dimension, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return engine.Dimension{}, fmt.Errorf("%w: dimension %q", ErrMalformedAST, s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return engine.Dimension{}, fmt.Errorf("%w: dimension %q", ErrMalformedAST, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return engine.Dimension{}, fmt.Errorf("%w: dimension %q", ErrMalformedAST, s)
	}
	return engine.Dimension{Width: w, Height: h}, nil
}
