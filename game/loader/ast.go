package loader

// AST is the JSON-shaped intermediate representation a text-format parser
// (out of scope for this module) hands to Load. Nested structures
// reference each other by string id; Load resolves those references into
// the typed engine graph.
type AST struct {
	Title             string                         `json:"title"`
	Metadata          MetadataAST                    `json:"metadata"`
	Colors            map[string]string               `json:"colors"`
	CollisionLayers   []CollisionLayerAST             `json:"collision_layers"`
	Sprites           map[string]SpriteAST            `json:"sprites"`
	Tiles             map[string]TileAST              `json:"tiles"`
	TilesWithModifiers map[string]TileWithModifierAST `json:"tiles_with_modifiers"`
	Neighbors         map[string]NeighborAST          `json:"neighbors"`
	Brackets          map[string]BracketAST           `json:"brackets"`
	RuleDefinitions   map[string]RuleDefinitionAST     `json:"rule_definitions"`
	Rules             []string                        `json:"rules"`
	Levels            []LevelAST                      `json:"levels"`
	WinConditions     []WinConditionAST                `json:"win_conditions"`
	Commands          map[string]CommandAST           `json:"commands"`
}

// MetadataAST mirrors engine.Metadata's recognized keys, field-for-field,
// as they appear on the wire. zoomscreen/flickscreen carry a "WxH" string;
// Load parses it into a Dimension.
type MetadataAST struct {
	Author      string `json:"author"`
	Homepage    string `json:"homepage"`
	Youtube     string `json:"youtube"`
	ZoomScreen  string `json:"zoomscreen"`
	FlickScreen string `json:"flickscreen"`

	ColorPalette    string `json:"color_palette"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`

	RealtimeInterval  *float64 `json:"realtime_interval"`
	KeyRepeatInterval *float64 `json:"key_repeat_interval"`
	AgainInterval     *float64 `json:"again_interval"`

	NoAction              bool `json:"no_action"`
	NoUndo                bool `json:"no_undo"`
	RunRulesOnLevelStart  bool `json:"run_rules_on_level_start"`
	NoRepeatAction        bool `json:"no_repeat_action"`
	ThrottleMovement      bool `json:"throttle_movement"`
	NoRestart             bool `json:"no_restart"`
	RequirePlayerMovement bool `json:"require_player_movement"`
	VerboseLogging        bool `json:"verbose_logging"`
	Scanline              bool `json:"scanline"`
}

// CollisionLayerAST declares one collision layer's numeric id. The
// declaration order is informational only: every sprite already carries
// its resolved CollisionLayer directly.
type CollisionLayerAST struct {
	ID uint16 `json:"id"`
}

// SpriteAST is one sprite definition. Pixels is carried through for
// fidelity with the source format but never consulted: pixel rendering
// is an external collaborator's concern, not this core's.
type SpriteAST struct {
	Name           string        `json:"name"`
	CollisionLayer uint16        `json:"collision_layer"`
	Pixels         [][]*string   `json:"pixels,omitempty"`
}

// TileAST is a named And/Or predicate over sprite references.
type TileAST struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"` // "and" | "or"
	Sprites []string `json:"sprites"`
}

// TileWithModifierAST adds a direction filter and negation to a tile
// reference.
type TileWithModifierAST struct {
	Tile      string  `json:"tile"`
	Direction *string `json:"direction,omitempty"` // up|down|left|right|action|random|stationary
	Negated   bool    `json:"negated,omitempty"`
}

// NeighborAST is an ordered list of tile-with-modifier references against
// one cell. Order matters only for diagnostics; matching itself is a
// conjunction.
type NeighborAST struct {
	TileWithModifiers []string `json:"tile_with_modifiers"`
}

// BracketAST is a direction plus a before-chain of neighbor references,
// with an optional after-chain separated by an ellipsis gap.
type BracketAST struct {
	Direction string   `json:"direction"` // up|down|left|right
	Ellipsis  bool     `json:"ellipsis,omitempty"`
	Before    []string `json:"before"`
	After     []string `json:"after,omitempty"`
}

// RuleDefinitionAST is a tagged union over the three rule-definition
// shapes the source grammar produces: a single conditions->actions rule,
// a group of alternative rules, or a loop of groups.
type RuleDefinitionAST struct {
	Kind string `json:"kind"` // "simple" | "group" | "loop"

	// Simple
	Directions []string `json:"directions,omitempty"`
	Conditions []string `json:"conditions,omitempty"` // bracket ids
	Actions    []string `json:"actions,omitempty"`    // bracket ids
	Commands   []string `json:"commands,omitempty"`   // command ids
	Random     *bool    `json:"random,omitempty"`
	Late       bool     `json:"late,omitempty"`
	Rigid      bool     `json:"rigid,omitempty"`

	// Group / Loop
	Rules []string `json:"rules,omitempty"` // rule-definition ids
}

// CommandAST is one triggered side effect.
type CommandAST struct {
	Kind    string `json:"kind"` // win|again|cancel|checkpoint|restart|message|sfx
	Message string `json:"message,omitempty"`
	Sound   string `json:"sound,omitempty"`
}

// LevelAST is either a narrative message or a playable grid. Cells lists
// the tile ids simultaneously present at that position, row-major; an
// empty inner slice means an empty cell.
type LevelAST struct {
	Kind    string       `json:"kind"` // "message" | "map"
	Message string       `json:"message,omitempty"`
	Cells   [][][]string `json:"cells,omitempty"`
}

// WinConditionAST is one declared win requirement.
type WinConditionAST struct {
	Kind      string `json:"kind"` // "simple" | "on"
	Qualifier string `json:"qualifier"` // all|no|some|any
	Tile      string `json:"tile"`
	OnTile    string `json:"on_tile,omitempty"`
}
