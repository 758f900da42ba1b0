// internal/game/types.go
package game

import "time"

// Type is a declarative game-type descriptor. The coordinator is generic over
// it: occupant bounds, team layout, and quick-match parameters all come from
// here rather than per-game copies of the room logic.
type Type struct {
	ID         string
	MinPlayers int
	MaxPlayers int

	// Teamed games pair positions by parity: {0,2} vs {1,3}.
	Teamed bool

	// QuickMatchSize is the matchmaking batch size; 0 disables quick match
	// for this type.
	QuickMatchSize int

	// ConfirmWindow bounds the match confirmation phase.
	ConfirmWindow time.Duration
}

// SupportsQuickMatch reports whether this type participates in matchmaking.
func (t Type) SupportsQuickMatch() bool { return t.QuickMatchSize > 0 }

// TeamOf returns the team index (0 or 1) owning a position. Only meaningful
// for teamed types.
func TeamOf(position int) int { return position % 2 }

// TeamPositions returns the position slots belonging to a team, lowest first.
func (t Type) TeamPositions(team int) []int {
	positions := make([]int, 0, t.MaxPlayers/2)
	for p := team; p < t.MaxPlayers; p += 2 {
		positions = append(positions, p)
	}
	return positions
}

// Registry holds the known game types.
type Registry struct {
	types     map[string]Type
	defaultID string
}

// Options carries the tunables that are configuration rather than fixed
// semantics: the confirmation window and quick-match batch size.
type Options struct {
	ConfirmWindow  time.Duration
	QuickMatchSize int
}

const (
	// TypeDhihaEi is the fixed four-player partner game.
	TypeDhihaEi = "dhihaei"
	// TypeCasual is the variable-size game without teams or quick match.
	TypeCasual = "casual"
)

// NewRegistry builds the built-in game types with the given tunables.
func NewRegistry(opts Options) *Registry {
	if opts.ConfirmWindow <= 0 {
		opts.ConfirmWindow = 30 * time.Second
	}
	if opts.QuickMatchSize <= 0 {
		opts.QuickMatchSize = 4
	}
	r := &Registry{types: make(map[string]Type), defaultID: TypeDhihaEi}
	r.register(Type{
		ID:             TypeDhihaEi,
		MinPlayers:     4,
		MaxPlayers:     4,
		Teamed:         true,
		QuickMatchSize: opts.QuickMatchSize,
		ConfirmWindow:  opts.ConfirmWindow,
	})
	r.register(Type{
		ID:         TypeCasual,
		MinPlayers: 2,
		MaxPlayers: 4,
	})
	return r
}

func (r *Registry) register(t Type) { r.types[t.ID] = t }

// Lookup resolves a game type id. An empty id resolves to the default type.
func (r *Registry) Lookup(id string) (Type, bool) {
	if id == "" {
		id = r.defaultID
	}
	t, ok := r.types[id]
	return t, ok
}

// Default returns the default game type.
func (r *Registry) Default() Type { return r.types[r.defaultID] }
