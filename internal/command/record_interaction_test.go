package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jbeshir/template-catalog/internal/datasources/memory"
	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordInteraction_Execute(t *testing.T) {
	cases := []struct {
		name         string
		prior        []domain.InteractionKind
		kind         domain.InteractionKind
		wantOutcome  domain.TransitionOutcome
		wantLikes    int64
		wantDislikes int64
		wantFavorite bool
	}{
		{
			name:        "first_like_creates",
			kind:        domain.InteractionKindLike,
			wantOutcome: domain.TransitionCreated,
			wantLikes:   1,
		},
		{
			name:        "repeat_like_is_unchanged",
			prior:       []domain.InteractionKind{domain.InteractionKindLike},
			kind:        domain.InteractionKindLike,
			wantOutcome: domain.TransitionUnchanged,
			wantLikes:   1,
		},
		{
			name:         "like_then_dislike_moves_counter",
			prior:        []domain.InteractionKind{domain.InteractionKindLike},
			kind:         domain.InteractionKindDislike,
			wantOutcome:  domain.TransitionUpdated,
			wantDislikes: 1,
		},
		{
			name:         "like_then_favorite",
			prior:        []domain.InteractionKind{domain.InteractionKindLike},
			kind:         domain.InteractionKindFavorite,
			wantOutcome:  domain.TransitionUpdated,
			wantFavorite: true,
		},
		{
			name:        "favorite_then_like_leaves_favorites",
			prior:       []domain.InteractionKind{domain.InteractionKindFavorite},
			kind:        domain.InteractionKindLike,
			wantOutcome: domain.TransitionUpdated,
			wantLikes:   1,
		},
		{
			name:        "view_after_like_does_not_touch_slot",
			prior:       []domain.InteractionKind{domain.InteractionKindLike},
			kind:        domain.InteractionKindView,
			wantOutcome: domain.TransitionCreated,
			wantLikes:   1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			cmd := f.recorder(f.store)
			ctx := testContext()

			for _, k := range tc.prior {
				_, err := cmd.Execute(ctx, RecordInteractionRequest{
					UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: k,
				})
				require.NoError(t, err)
			}

			res, err := cmd.Execute(ctx, RecordInteractionRequest{
				UserRef: "alice", TemplateRef: "Minimal Resume", Kind: tc.kind,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.Equal(t, tc.kind, res.Interaction.Kind)

			tmpl := f.currentTemplate(t)
			assert.Equal(t, tc.wantLikes, tmpl.Likes)
			assert.Equal(t, tc.wantDislikes, tmpl.Dislikes)

			if tc.wantFavorite {
				assert.Equal(t, []string{f.template.ID}, f.favorites(t, f.alice.ID))
			} else {
				assert.Empty(t, f.favorites(t, f.alice.ID))
			}

			assert.LessOrEqual(t, len(f.exclusiveRecords(t, f.alice.ID, f.template.ID)), 1)
		})
	}
}

func TestRecordInteraction_Errors(t *testing.T) {
	f := newFixture(t)
	cmd := f.recorder(f.store)

	cases := []struct {
		name    string
		req     RecordInteractionRequest
		wantErr error
	}{
		{
			name:    "unknown_user",
			req:     RecordInteractionRequest{UserRef: "carol", TemplateRef: f.template.ID, Kind: domain.InteractionKindLike},
			wantErr: domain.ErrActorNotFound,
		},
		{
			name:    "unknown_template",
			req:     RecordInteractionRequest{UserRef: f.alice.ID, TemplateRef: "Nope", Kind: domain.InteractionKindLike},
			wantErr: domain.ErrTargetNotFound,
		},
		{
			name:    "invalid_kind",
			req:     RecordInteractionRequest{UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: "share"},
			wantErr: domain.ErrInvalidKind,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cmd.Execute(testContext(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRecordInteraction_FavoriteTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	cmd := f.recorder(f.store)
	req := RecordInteractionRequest{UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindFavorite}

	first, err := cmd.Execute(testContext(), req)
	require.NoError(t, err)
	second, err := cmd.Execute(testContext(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Interaction, second.Interaction)
	assert.Len(t, f.exclusiveRecords(t, f.alice.ID, f.template.ID), 1)
	assert.Equal(t, []string{f.template.ID}, f.favorites(t, f.alice.ID))
}

func TestRecordInteraction_ManyTransitionsKeepOneRecord(t *testing.T) {
	f := newFixture(t)
	cmd := f.recorder(f.store)

	sequence := []domain.InteractionKind{
		domain.InteractionKindLike,
		domain.InteractionKindDislike,
		domain.InteractionKindFavorite,
		domain.InteractionKindFavorite,
		domain.InteractionKindLike,
		domain.InteractionKindDislike,
	}
	for _, k := range sequence {
		_, err := cmd.Execute(testContext(), RecordInteractionRequest{
			UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: k,
		})
		require.NoError(t, err)
	}

	records := f.exclusiveRecords(t, f.alice.ID, f.template.ID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.InteractionKindDislike, records[0].Kind)

	tmpl := f.currentTemplate(t)
	assert.Equal(t, int64(0), tmpl.Likes)
	assert.Equal(t, int64(1), tmpl.Dislikes)
	assert.Empty(t, f.favorites(t, f.alice.ID))
}

func TestRecordInteraction_UnboundedKindsAppend(t *testing.T) {
	f := newFixture(t)
	cmd := f.recorder(f.store)

	seen := map[time.Time]bool{}
	for range 3 {
		res, err := cmd.Execute(testContext(), RecordInteractionRequest{
			UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindView,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TransitionCreated, res.Outcome)
		seen[res.Interaction.CreatedAt] = true
	}
	assert.Len(t, seen, 3)

	kind := domain.InteractionKindView
	views, err := f.store.ListUserInteractions(context.Background(), f.alice.ID, &kind)
	require.NoError(t, err)
	assert.Len(t, views, 3)

	tmpl := f.currentTemplate(t)
	assert.Zero(t, tmpl.Likes)
	assert.Zero(t, tmpl.Dislikes)
}

// racingStore simulates a concurrent writer filling the exclusive slot after the ledger has
// read it as empty.
type racingStore struct {
	*memory.Store
	competitor domain.Interaction
	raced      bool
	// always makes every read miss, so the conflict can never be resolved.
	always bool
}

func (s *racingStore) GetExclusiveInteraction(ctx context.Context, userID, templateID string) (domain.Interaction, error) {
	if s.always || !s.raced {
		if !s.raced {
			s.raced = true
			if err := s.Store.InsertInteraction(ctx, s.competitor, s.competitor.Kind.CreatedEffects()); err != nil {
				return domain.Interaction{}, err
			}
		}
		return domain.Interaction{}, domain.ErrNotFound
	}
	return s.Store.GetExclusiveInteraction(ctx, userID, templateID)
}

func TestRecordInteraction_RetriesAfterConflict(t *testing.T) {
	cases := []struct {
		name           string
		competitorKind domain.InteractionKind
		kind           domain.InteractionKind
		wantOutcome    domain.TransitionOutcome
		wantLikes      int64
		wantDislikes   int64
	}{
		{
			name:           "same_kind_becomes_noop",
			competitorKind: domain.InteractionKindLike,
			kind:           domain.InteractionKindLike,
			wantOutcome:    domain.TransitionUnchanged,
			wantLikes:      1,
		},
		{
			name:           "different_kind_becomes_transition",
			competitorKind: domain.InteractionKindLike,
			kind:           domain.InteractionKindDislike,
			wantOutcome:    domain.TransitionUpdated,
			wantDislikes:   1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			store := &racingStore{Store: f.store, competitor: domain.Interaction{
				ID:         "competitor",
				UserID:     f.alice.ID,
				TemplateID: f.template.ID,
				Kind:       tc.competitorKind,
				CreatedAt:  testNow,
			}}

			res, err := f.recorder(store).Execute(testContext(), RecordInteractionRequest{
				UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: tc.kind,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.Equal(t, "competitor", res.Interaction.ID)

			records := f.exclusiveRecords(t, f.alice.ID, f.template.ID)
			require.Len(t, records, 1)
			assert.Equal(t, tc.kind, records[0].Kind)

			tmpl := f.currentTemplate(t)
			assert.Equal(t, tc.wantLikes, tmpl.Likes)
			assert.Equal(t, tc.wantDislikes, tmpl.Dislikes)
		})
	}
}

func TestRecordInteraction_ExhaustedRetries(t *testing.T) {
	f := newFixture(t)
	store := &racingStore{Store: f.store, always: true, competitor: domain.Interaction{
		ID:         "competitor",
		UserID:     f.alice.ID,
		TemplateID: f.template.ID,
		Kind:       domain.InteractionKindDislike,
		CreatedAt:  testNow,
	}}

	_, err := f.recorder(store).Execute(testContext(), RecordInteractionRequest{
		UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindLike,
	})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	// Losing writes leave no trace.
	tmpl := f.currentTemplate(t)
	assert.Zero(t, tmpl.Likes)
	assert.Equal(t, int64(1), tmpl.Dislikes)
}

type mockLedgerStore struct {
	mock.Mock
}

func (m *mockLedgerStore) GetExclusiveInteraction(ctx context.Context, userID, templateID string) (domain.Interaction, error) {
	args := m.Called(ctx, userID, templateID)
	return args.Get(0).(domain.Interaction), args.Error(1)
}

func (m *mockLedgerStore) GetInteractionByID(ctx context.Context, id string) (domain.Interaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Interaction), args.Error(1)
}

func (m *mockLedgerStore) InsertInteraction(
	ctx context.Context,
	interaction domain.Interaction,
	effects domain.InteractionEffects,
) error {
	return m.Called(ctx, interaction, effects).Error(0)
}

func (m *mockLedgerStore) TransitionInteraction(
	ctx context.Context,
	interaction domain.Interaction,
	to domain.InteractionKind,
	at time.Time,
	effects domain.InteractionEffects,
) error {
	return m.Called(ctx, interaction, to, at, effects).Error(0)
}

func (m *mockLedgerStore) RemoveInteraction(
	ctx context.Context,
	interaction domain.Interaction,
	effects domain.InteractionEffects,
) error {
	return m.Called(ctx, interaction, effects).Error(0)
}

func TestRecordInteraction_UnboundedConflictIsInvariantViolation(t *testing.T) {
	f := newFixture(t)
	store := &mockLedgerStore{}
	store.On("InsertInteraction", mock.Anything, mock.MatchedBy(func(in domain.Interaction) bool {
		return in.Kind == domain.InteractionKindDownload
	}), domain.InteractionEffects{}).Return(domain.ErrConflict).Once()

	_, err := f.recorder(store).Execute(testContext(), RecordInteractionRequest{
		UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindDownload,
	})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	store.AssertExpectations(t)
}

func TestRecordInteraction_UnboundedContentionRetries(t *testing.T) {
	f := newFixture(t)
	store := &mockLedgerStore{}
	store.On("InsertInteraction", mock.Anything, mock.Anything, domain.InteractionEffects{}).
		Return(fmt.Errorf("%w: deadlock", domain.ErrContention)).Once()
	store.On("InsertInteraction", mock.Anything, mock.Anything, domain.InteractionEffects{}).
		Return(nil).Once()

	res, err := f.recorder(store).Execute(testContext(), RecordInteractionRequest{
		UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindView,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransitionCreated, res.Outcome)
	store.AssertExpectations(t)
}

func TestRecordInteraction_ExclusiveContentionRetries(t *testing.T) {
	f := newFixture(t)
	store := &mockLedgerStore{}
	store.On("GetExclusiveInteraction", mock.Anything, f.alice.ID, f.template.ID).
		Return(domain.Interaction{}, domain.ErrNotFound).Twice()
	store.On("InsertInteraction", mock.Anything, mock.Anything, domain.InteractionEffects{LikesDelta: 1}).
		Return(fmt.Errorf("%w: lock wait timeout", domain.ErrContention)).Once()
	store.On("InsertInteraction", mock.Anything, mock.Anything, domain.InteractionEffects{LikesDelta: 1}).
		Return(nil).Once()

	res, err := f.recorder(store).Execute(testContext(), RecordInteractionRequest{
		UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindLike,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransitionCreated, res.Outcome)
	store.AssertExpectations(t)
}

func TestRecordInteraction_TransitionConflictRetries(t *testing.T) {
	f := newFixture(t)
	existing := domain.Interaction{
		ID: "i1", UserID: f.alice.ID, TemplateID: f.template.ID, Kind: domain.InteractionKindLike, CreatedAt: testNow,
	}
	afterRace := existing
	afterRace.Kind = domain.InteractionKindFavorite

	store := &mockLedgerStore{}
	store.On("GetExclusiveInteraction", mock.Anything, f.alice.ID, f.template.ID).Return(existing, nil).Once()
	store.On("TransitionInteraction", mock.Anything, existing, domain.InteractionKindDislike, mock.Anything,
		domain.InteractionEffects{LikesDelta: -1, DislikesDelta: 1}).Return(domain.ErrConflict).Once()
	store.On("GetExclusiveInteraction", mock.Anything, f.alice.ID, f.template.ID).Return(afterRace, nil).Once()
	store.On("TransitionInteraction", mock.Anything, afterRace, domain.InteractionKindDislike, mock.Anything,
		domain.InteractionEffects{DislikesDelta: 1, FavoriteRemove: true}).Return(nil).Once()

	res, err := f.recorder(store).Execute(testContext(), RecordInteractionRequest{
		UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindDislike,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransitionUpdated, res.Outcome)
	assert.Equal(t, domain.InteractionKindDislike, res.Interaction.Kind)
	store.AssertExpectations(t)
}

func TestRecordInteraction_ConfiguredAttempts(t *testing.T) {
	f := newFixture(t)
	store := &mockLedgerStore{}
	store.On("GetExclusiveInteraction", mock.Anything, f.alice.ID, f.template.ID).
		Return(domain.Interaction{}, domain.ErrNotFound).Times(3)
	store.On("InsertInteraction", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ErrConflict).Times(3)

	cmd := f.recorder(store)
	cmd.Config = LedgerConfig{MaxAttempts: 3}

	_, err := cmd.Execute(testContext(), RecordInteractionRequest{
		UserRef: f.alice.ID, TemplateRef: f.template.ID, Kind: domain.InteractionKindLike,
	})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	store.AssertExpectations(t)
}
