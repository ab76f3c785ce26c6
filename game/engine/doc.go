// Package engine implements a declarative tile-rewrite game core: a
// pattern-matching engine over a 2D grid of layered sprites, and a thin
// game loop driving it.
//
// The engine package implements:
//   - BitSet/Cell/Board: a layered sprite grid with row/column summary
//     caches for fast bracket short-circuiting
//   - Tile/Neighbor/Bracket: the predicate and rewrite-action language
//   - Rule/RuleGroup/RuleLoop: cartesian-product match evaluation and
//     fixpoint iteration
//   - GameData: the read-only ruleset (rules, levels, win conditions)
//     and its tick pipeline (rules, motion resolution, late rules, win
//     check)
//   - Engine: the mutable per-play state (current board, undo stack,
//     level progression)
//
// Usage:
//
//	data := engine.NewGameData(title, meta, sprites, player, background, rules, levels, wins)
//	e := engine.NewEngine(data)
//	input := engine.EngineRight
//	result := e.Tick(&input)
//
// Determinism:
//
// A single RNG is seeded deterministically at engine construction.
// Positions are always iterated row-major; collision layers within a
// cell are iterated in ascending order. Given the same ruleset and the
// same input sequence, every tick is reproducible.
package engine
