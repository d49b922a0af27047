package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jbeshir/template-catalog/internal/domain"
)

const interactionColumns = "id, user_id, template_id, kind, created_at"

func scanInteraction(row rowScanner) (domain.Interaction, error) {
	var in domain.Interaction
	var kind string
	if err := row.Scan(&in.ID, &in.UserID, &in.TemplateID, &kind, &in.CreatedAt); err != nil {
		return domain.Interaction{}, err
	}
	in.Kind = domain.InteractionKind(kind)
	return in, nil
}

func (r *Repository) GetExclusiveInteraction(
	ctx context.Context, userID, templateID string,
) (domain.Interaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+interactionColumns+" FROM interactions"+
			" WHERE user_id = ? AND template_id = ? AND exclusive_slot = 1",
		userID, templateID,
	)
	in, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Interaction{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("getting exclusive interaction: %w", err)
	}
	return in, nil
}

func (r *Repository) GetInteractionByID(ctx context.Context, id string) (domain.Interaction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+interactionColumns+" FROM interactions WHERE id = ?", id)
	in, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Interaction{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("getting interaction: %w", err)
	}
	return in, nil
}

// InsertInteraction relies on uq_interactions_exclusive to arbitrate concurrent inserts into the
// same exclusive slot.
func (r *Repository) InsertInteraction(
	ctx context.Context,
	interaction domain.Interaction,
	effects domain.InteractionEffects,
) error {
	return withLedgerTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO interactions ("+interactionColumns+") VALUES (?, ?, ?, ?, ?)",
			interaction.ID, interaction.UserID, interaction.TemplateID,
			string(interaction.Kind), interaction.CreatedAt,
		)
		if isDuplicateEntry(err) {
			return domain.ErrConflict
		}
		if isMissingReference(err) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("inserting interaction: %w", err)
		}

		return applyEffects(ctx, tx, interaction.UserID, interaction.TemplateID, interaction.CreatedAt, effects)
	})
}

func (r *Repository) TransitionInteraction(
	ctx context.Context,
	interaction domain.Interaction,
	to domain.InteractionKind,
	at time.Time,
	effects domain.InteractionEffects,
) error {
	return withLedgerTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE interactions SET kind = ?, created_at = ? WHERE id = ? AND kind = ?",
			string(to), at, interaction.ID, string(interaction.Kind),
		)
		if err != nil {
			return fmt.Errorf("updating interaction kind: %w", err)
		}
		if err := requireOneRow(res, domain.ErrConflict); err != nil {
			return err
		}

		return applyEffects(ctx, tx, interaction.UserID, interaction.TemplateID, at, effects)
	})
}

func (r *Repository) RemoveInteraction(
	ctx context.Context,
	interaction domain.Interaction,
	effects domain.InteractionEffects,
) error {
	return withLedgerTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM interactions WHERE id = ? AND kind = ?",
			interaction.ID, string(interaction.Kind),
		)
		if err != nil {
			return fmt.Errorf("deleting interaction: %w", err)
		}
		if err := requireOneRow(res, nil); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			// Distinguish a deleted record from one whose kind changed under us.
			var exists bool
			if err := tx.QueryRowContext(ctx,
				"SELECT EXISTS(SELECT 1 FROM interactions WHERE id = ?)", interaction.ID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("checking interaction existence: %w", err)
			}
			if exists {
				return domain.ErrConflict
			}
			return domain.ErrNotFound
		}

		return applyEffects(ctx, tx, interaction.UserID, interaction.TemplateID, time.Now(), effects)
	})
}

// requireOneRow returns missing (or domain.ErrNotFound if missing is nil) when no row was affected.
func requireOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		if missing == nil {
			return domain.ErrNotFound
		}
		return missing
	}
	return nil
}

func applyEffects(
	ctx context.Context,
	tx *sql.Tx,
	userID, templateID string,
	at time.Time,
	effects domain.InteractionEffects,
) error {
	if effects.LikesDelta != 0 || effects.DislikesDelta != 0 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE templates SET likes = likes + ?, dislikes = dislikes + ? WHERE id = ?",
			effects.LikesDelta, effects.DislikesDelta, templateID,
		); err != nil {
			return fmt.Errorf("updating template counters: %w", err)
		}
	}

	if effects.FavoriteAdd {
		if err := addFavorite(ctx, tx, userID, templateID, at); err != nil {
			return err
		}
	}

	if effects.FavoriteRemove {
		if err := removeFavorite(ctx, tx, userID, templateID); err != nil {
			return err
		}
	}

	return nil
}

func addFavorite(ctx context.Context, tx *sql.Tx, userID, templateID string, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO user_favorites (user_id, template_id, created_at) VALUES (?, ?, ?)"+
			" ON DUPLICATE KEY UPDATE user_id = user_id",
		userID, templateID, at,
	)
	if isMissingReference(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	return nil
}

func removeFavorite(ctx context.Context, tx *sql.Tx, userID, templateID string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM user_favorites WHERE user_id = ? AND template_id = ?",
		userID, templateID,
	); err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}

func (r *Repository) PruneFavorite(ctx context.Context, userID, templateID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_favorites WHERE user_id = ? AND template_id = ?"+
			" AND NOT EXISTS (SELECT 1 FROM interactions"+
			" WHERE user_id = ? AND template_id = ? AND kind = ?)",
		userID, templateID, userID, templateID, string(domain.InteractionKindFavorite),
	)
	if err != nil {
		return fmt.Errorf("pruning favorite: %w", err)
	}
	return nil
}

func (r *Repository) ListUserInteractions(
	ctx context.Context,
	userID string,
	kind *domain.InteractionKind,
) ([]domain.Interaction, error) {
	sb := sqlbuilder.Select("id", "user_id", "template_id", "kind", "created_at")
	sb.From("interactions")
	conds := []string{sb.Equal("user_id", userID)}
	if kind != nil {
		conds = append(conds, sb.Equal("kind", string(*kind)))
	}
	sb.Where(conds...)
	sb.OrderBy("created_at DESC", "id")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing user interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	interactions := []domain.Interaction{}
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return interactions, nil
}

func (r *Repository) ListTemplateInteractions(
	ctx context.Context,
	templateID string,
) ([]domain.TemplateInteraction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.template_id, i.kind, i.created_at,
		       u.username, u.display_name, u.avatar_url
		FROM interactions i
		JOIN users u ON u.id = i.user_id
		WHERE i.template_id = ?
		ORDER BY i.created_at DESC, i.id`,
		templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing template interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	interactions := []domain.TemplateInteraction{}
	for rows.Next() {
		var ti domain.TemplateInteraction
		var kind string
		if err := rows.Scan(
			&ti.ID, &ti.UserID, &ti.TemplateID, &kind, &ti.CreatedAt,
			&ti.User.Username, &ti.User.DisplayName, &ti.User.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scanning template interaction: %w", err)
		}
		ti.Kind = domain.InteractionKind(kind)
		ti.User.ID = ti.UserID
		interactions = append(interactions, ti)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return interactions, nil
}

func (r *Repository) CountTemplateInteractionsByKind(
	ctx context.Context,
	templateID string,
) (domain.InteractionStats, error) {
	counts, err := r.CountInteractionsByTemplate(ctx, []string{templateID}, domain.AllInteractionKinds, time.Time{})
	if err != nil {
		return nil, err
	}
	return counts[templateID], nil
}
