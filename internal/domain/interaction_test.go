package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteractionKind(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    InteractionKind
		wantErr bool
	}{
		{name: "like", input: "like", want: InteractionKindLike},
		{name: "dislike", input: "dislike", want: InteractionKindDislike},
		{name: "favorite", input: "favorite", want: InteractionKindFavorite},
		{name: "view", input: "view", want: InteractionKindView},
		{name: "download", input: "download", want: InteractionKindDownload},
		{name: "empty", input: "", wantErr: true},
		{name: "wrong_case", input: "Like", wantErr: true},
		{name: "unknown", input: "share", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseInteractionKind(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInteractionKind_Exclusive(t *testing.T) {
	assert.True(t, InteractionKindLike.Exclusive())
	assert.True(t, InteractionKindDislike.Exclusive())
	assert.True(t, InteractionKindFavorite.Exclusive())
	assert.False(t, InteractionKindView.Exclusive())
	assert.False(t, InteractionKindDownload.Exclusive())
}

func TestInteractionKind_EffectsAreSymmetric(t *testing.T) {
	for _, k := range AllInteractionKinds {
		t.Run(string(k), func(t *testing.T) {
			net := k.CreatedEffects().Plus(k.RemovedEffects())
			assert.True(t, net.IsZero(), "create then remove should net to zero, got %+v", net)
		})
	}
}

func TestPlanTransition(t *testing.T) {
	existing := func(k InteractionKind) *Interaction {
		return &Interaction{ID: "i1", UserID: "u1", TemplateID: "t1", Kind: k}
	}

	cases := []struct {
		name     string
		existing *Interaction
		kind     InteractionKind
		want     Transition
	}{
		{
			name: "create_like",
			kind: InteractionKindLike,
			want: Transition{
				Outcome: TransitionCreated,
				To:      InteractionKindLike,
				Effects: InteractionEffects{LikesDelta: 1},
			},
		},
		{
			name: "create_favorite",
			kind: InteractionKindFavorite,
			want: Transition{
				Outcome: TransitionCreated,
				To:      InteractionKindFavorite,
				Effects: InteractionEffects{FavoriteAdd: true},
			},
		},
		{
			name:     "same_kind_is_noop",
			existing: existing(InteractionKindDislike),
			kind:     InteractionKindDislike,
			want: Transition{
				Outcome: TransitionUnchanged,
				From:    InteractionKindDislike,
				To:      InteractionKindDislike,
			},
		},
		{
			name:     "like_to_dislike",
			existing: existing(InteractionKindLike),
			kind:     InteractionKindDislike,
			want: Transition{
				Outcome: TransitionUpdated,
				From:    InteractionKindLike,
				To:      InteractionKindDislike,
				Effects: InteractionEffects{LikesDelta: -1, DislikesDelta: 1},
			},
		},
		{
			name:     "like_to_favorite",
			existing: existing(InteractionKindLike),
			kind:     InteractionKindFavorite,
			want: Transition{
				Outcome: TransitionUpdated,
				From:    InteractionKindLike,
				To:      InteractionKindFavorite,
				Effects: InteractionEffects{LikesDelta: -1, FavoriteAdd: true},
			},
		},
		{
			name:     "favorite_to_dislike",
			existing: existing(InteractionKindFavorite),
			kind:     InteractionKindDislike,
			want: Transition{
				Outcome: TransitionUpdated,
				From:    InteractionKindFavorite,
				To:      InteractionKindDislike,
				Effects: InteractionEffects{DislikesDelta: 1, FavoriteRemove: true},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PlanTransition(tc.existing, tc.kind))
		})
	}
}

func TestNewInteractionStats(t *testing.T) {
	stats := NewInteractionStats()
	require.Len(t, stats, len(AllInteractionKinds))
	for _, k := range AllInteractionKinds {
		assert.Zero(t, stats[k])
	}
}
