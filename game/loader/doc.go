// Package loader maps the JSON-shaped intermediate representation a
// text-format parser produces into the typed engine.GameData graph:
// sprites and tiles by name, neighbors and brackets by reference,
// rule definitions (simple rules, groups, loops) resolved and flattened
// into engine.RuleLoops, levels and win conditions resolved last.
//
// Source-text parsing itself — and everything upstream of the AST — is
// an external collaborator's concern; this package only resolves an
// already-structured document, and does so deterministically: sprite
// ids are assigned in lexicographic order of name rather than map
// iteration order, since Go's JSON decoder does not preserve the wire
// order of a JSON object's keys.
//
// Usage:
//
//	gameData, err := loader.Load(jsonBytes)
//	if err != nil {
//		return err
//	}
//	e := engine.NewEngine(gameData)
package loader
