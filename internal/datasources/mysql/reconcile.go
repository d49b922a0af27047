package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jbeshir/template-catalog/internal/domain"
)

// ReconcileTemplateCounters recounts like and dislike rows and rewrites any drifted counters.
// The rewrite recounts at write time, so ledger changes between detection and repair are kept.
func (r *Repository) ReconcileTemplateCounters(ctx context.Context) ([]domain.CounterDrift, error) {
	drifts := []domain.CounterDrift{}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT t.id, t.likes, t.dislikes,
			       COALESCE(SUM(i.kind = 'like'), 0),
			       COALESCE(SUM(i.kind = 'dislike'), 0)
			FROM templates t
			LEFT JOIN interactions i ON i.template_id = t.id AND i.kind IN ('like', 'dislike')
			GROUP BY t.id, t.likes, t.dislikes
			HAVING t.likes <> COALESCE(SUM(i.kind = 'like'), 0)
			    OR t.dislikes <> COALESCE(SUM(i.kind = 'dislike'), 0)`)
		if err != nil {
			return fmt.Errorf("recounting template interactions: %w", err)
		}

		for rows.Next() {
			var d domain.CounterDrift
			if err := rows.Scan(&d.TemplateID, &d.StoredLikes, &d.StoredDislikes, &d.ActualLikes, &d.ActualDislikes); err != nil {
				_ = rows.Close()
				return fmt.Errorf("scanning counter drift: %w", err)
			}
			drifts = append(drifts, d)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("closing rows iterator: %w", err)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating rows: %w", err)
		}

		for _, d := range drifts {
			if _, err := tx.ExecContext(ctx, `
				UPDATE templates SET
				  likes = (SELECT COUNT(*) FROM interactions WHERE template_id = ? AND kind = 'like'),
				  dislikes = (SELECT COUNT(*) FROM interactions WHERE template_id = ? AND kind = 'dislike')
				WHERE id = ?`,
				d.TemplateID, d.TemplateID, d.TemplateID,
			); err != nil {
				return fmt.Errorf("rewriting counters for template %s: %w", d.TemplateID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drifts, nil
}

func (r *Repository) ReconcileFavorites(ctx context.Context) (domain.FavoritesRepair, error) {
	var repair domain.FavoritesRepair

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO user_favorites (user_id, template_id, created_at)
			SELECT i.user_id, i.template_id, i.created_at
			FROM interactions i
			LEFT JOIN user_favorites f ON f.user_id = i.user_id AND f.template_id = i.template_id
			WHERE i.kind = 'favorite' AND f.user_id IS NULL`)
		if err != nil {
			return fmt.Errorf("adding missing favorites: %w", err)
		}
		if repair.Added, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("reading affected rows: %w", err)
		}

		res, err = tx.ExecContext(ctx, `
			DELETE f FROM user_favorites f
			LEFT JOIN interactions i
			  ON i.user_id = f.user_id AND i.template_id = f.template_id AND i.kind = 'favorite'
			WHERE i.id IS NULL`)
		if err != nil {
			return fmt.Errorf("removing orphaned favorites: %w", err)
		}
		if repair.Removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("reading affected rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.FavoritesRepair{}, err
	}
	return repair, nil
}
