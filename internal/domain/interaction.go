package domain

import (
	"fmt"
	"time"
)

// InteractionKind is the type of action a user performed on a template.
type InteractionKind string

const (
	InteractionKindLike     InteractionKind = "like"
	InteractionKindDislike  InteractionKind = "dislike"
	InteractionKindFavorite InteractionKind = "favorite"
	InteractionKindView     InteractionKind = "view"
	InteractionKindDownload InteractionKind = "download"
)

// AllInteractionKinds lists every kind in a stable order.
var AllInteractionKinds = []InteractionKind{
	InteractionKindLike,
	InteractionKindDislike,
	InteractionKindFavorite,
	InteractionKindView,
	InteractionKindDownload,
}

// ExclusiveInteractionKinds share a single slot per (user, template) pair.
var ExclusiveInteractionKinds = []InteractionKind{
	InteractionKindLike,
	InteractionKindDislike,
	InteractionKindFavorite,
}

func ParseInteractionKind(s string) (InteractionKind, error) {
	k := InteractionKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionKindLike, InteractionKindDislike, InteractionKindFavorite,
		InteractionKindView, InteractionKindDownload:
		return true
	default:
		return false
	}
}

// Exclusive reports whether at most one live interaction of this kind family may exist per pair.
func (k InteractionKind) Exclusive() bool {
	switch k {
	case InteractionKindLike, InteractionKindDislike, InteractionKindFavorite:
		return true
	default:
		return false
	}
}

// Trendable reports whether templates can be ranked by this kind.
func (k InteractionKind) Trendable() bool {
	return k == InteractionKindLike || k == InteractionKindFavorite
}

type Interaction struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	TemplateID string          `json:"template_id"`
	Kind       InteractionKind `json:"interaction_type"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TemplateInteraction is an interaction annotated with the public profile of its user.
type TemplateInteraction struct {
	Interaction
	User PublicUser `json:"user"`
}

// InteractionEffects are the side effects an interaction has on the template counters and
// the user's favorites set. Creating and then removing a kind must net to zero.
type InteractionEffects struct {
	LikesDelta     int64
	DislikesDelta  int64
	FavoriteAdd    bool
	FavoriteRemove bool
}

func (e InteractionEffects) IsZero() bool {
	return e == InteractionEffects{}
}

// Plus combines two effects. Adding and removing the favorite in one step cancels out.
func (e InteractionEffects) Plus(o InteractionEffects) InteractionEffects {
	sum := InteractionEffects{
		LikesDelta:     e.LikesDelta + o.LikesDelta,
		DislikesDelta:  e.DislikesDelta + o.DislikesDelta,
		FavoriteAdd:    e.FavoriteAdd || o.FavoriteAdd,
		FavoriteRemove: e.FavoriteRemove || o.FavoriteRemove,
	}
	if sum.FavoriteAdd && sum.FavoriteRemove {
		sum.FavoriteAdd, sum.FavoriteRemove = false, false
	}
	return sum
}

func (k InteractionKind) CreatedEffects() InteractionEffects {
	switch k {
	case InteractionKindLike:
		return InteractionEffects{LikesDelta: 1}
	case InteractionKindDislike:
		return InteractionEffects{DislikesDelta: 1}
	case InteractionKindFavorite:
		return InteractionEffects{FavoriteAdd: true}
	default:
		return InteractionEffects{}
	}
}

func (k InteractionKind) RemovedEffects() InteractionEffects {
	switch k {
	case InteractionKindLike:
		return InteractionEffects{LikesDelta: -1}
	case InteractionKindDislike:
		return InteractionEffects{DislikesDelta: -1}
	case InteractionKindFavorite:
		return InteractionEffects{FavoriteRemove: true}
	default:
		return InteractionEffects{}
	}
}

// TransitionOutcome describes what recording an exclusive interaction did to the slot.
type TransitionOutcome int

const (
	TransitionCreated TransitionOutcome = iota
	TransitionUnchanged
	TransitionUpdated
)

func (o TransitionOutcome) String() string {
	switch o {
	case TransitionCreated:
		return "created"
	case TransitionUnchanged:
		return "unchanged"
	case TransitionUpdated:
		return "updated"
	default:
		return fmt.Sprintf("TransitionOutcome(%d)", int(o))
	}
}

type Transition struct {
	Outcome TransitionOutcome
	From    InteractionKind
	To      InteractionKind
	Effects InteractionEffects
}

// PlanTransition decides how to move the exclusive slot of a pair to kind, given the record
// currently occupying it (nil if the slot is empty).
func PlanTransition(existing *Interaction, kind InteractionKind) Transition {
	if existing == nil {
		return Transition{
			Outcome: TransitionCreated,
			To:      kind,
			Effects: kind.CreatedEffects(),
		}
	}

	if existing.Kind == kind {
		return Transition{
			Outcome: TransitionUnchanged,
			From:    kind,
			To:      kind,
		}
	}

	return Transition{
		Outcome: TransitionUpdated,
		From:    existing.Kind,
		To:      kind,
		Effects: existing.Kind.RemovedEffects().Plus(kind.CreatedEffects()),
	}
}

// InteractionStats maps each kind to the number of live interactions of that kind.
type InteractionStats map[InteractionKind]int64

// NewInteractionStats returns stats with every kind present and zeroed.
func NewInteractionStats() InteractionStats {
	stats := make(InteractionStats, len(AllInteractionKinds))
	for _, k := range AllInteractionKinds {
		stats[k] = 0
	}
	return stats
}
