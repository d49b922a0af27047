// Command seed loads a small set of demo users, templates and interactions. Users and
// templates that already exist are left alone and exclusive interactions are idempotent,
// but each run appends another round of views and downloads.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jbeshir/template-catalog/internal/app"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"

	_ "github.com/joho/godotenv/autoload"
)

// Seed ids are derived from names so reruns collide with the previous run's rows.
var seedNamespace = uuid.MustParse("5b0c7f7e-3d0e-4b8e-9f3c-1f2f6d3c9a10")

func seedID(name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}

type seedTemplate struct {
	title    string
	category string
	tags     []string
	creator  string
}

var (
	seedUsers = []string{"ada", "grace", "linus", "margaret"}

	seedTemplates = []seedTemplate{
		{title: "Minimal Resume", category: "resume", tags: []string{"minimal", "a4"}, creator: "ada"},
		{title: "Conference Poster", category: "poster", tags: []string{"a1", "academic"}, creator: "grace"},
		{title: "Startup Pitch Deck", category: "presentation", tags: []string{"16:9", "bold"}, creator: "linus"},
		{title: "Weekly Planner", category: "planner", tags: []string{"a5", "minimal"}, creator: "margaret"},
	}

	seedInteractions = []struct {
		user     string
		template string
		kind     domain.InteractionKind
	}{
		{"grace", "Minimal Resume", domain.InteractionKindLike},
		{"linus", "Minimal Resume", domain.InteractionKindFavorite},
		{"margaret", "Minimal Resume", domain.InteractionKindLike},
		{"ada", "Conference Poster", domain.InteractionKindLike},
		{"ada", "Startup Pitch Deck", domain.InteractionKindDislike},
		{"margaret", "Startup Pitch Deck", domain.InteractionKindFavorite},
		{"grace", "Weekly Planner", domain.InteractionKindView},
		{"linus", "Weekly Planner", domain.InteractionKindDownload},
	}
)

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	ctx = domain.ContextWithLogger(ctx, logger)

	if err := run(ctx); err != nil {
		logger.ErrorContext(ctx, "seeding failed", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "seeding complete")
}

func run(ctx context.Context) error {
	dataset, err := app.SetupDatasetRepository(ctx, nil)
	if err != nil {
		return fmt.Errorf("setting up dataset repository: %w", err)
	}
	now := time.Now().UTC()

	for _, name := range seedUsers {
		err := dataset.CreateUser(ctx, domain.NewUser{
			ID:        seedID("user:" + name),
			Username:  name,
			Email:     name + "@example.com",
			CreatedAt: now,
		})
		if err := skipExisting(ctx, "user", name, err); err != nil {
			return err
		}
	}

	for _, t := range seedTemplates {
		err := dataset.CreateTemplate(ctx, domain.Template{
			ID:        seedID("template:" + t.title),
			Title:     t.title,
			Category:  t.category,
			Tags:      t.tags,
			CreatorID: seedID("user:" + t.creator),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err := skipExisting(ctx, "template", t.title, err); err != nil {
			return err
		}
	}

	return seedInteractionsVia(ctx, dataset)
}

func seedInteractionsVia(ctx context.Context, dataset datasources.DatasetRepository) error {
	recorder := command.NewRecordInteraction(command.NewResolvers(dataset, dataset), dataset, command.LedgerConfig{})
	addFavorite := command.NewAddFavorite(recorder)

	for _, in := range seedInteractions {
		var err error
		if in.kind == domain.InteractionKindFavorite {
			_, err = addFavorite.Execute(ctx, command.FavoriteRequest{UserRef: in.user, TemplateRef: in.template})
		} else {
			_, err = recorder.Execute(ctx, command.RecordInteractionRequest{
				UserRef:     in.user,
				TemplateRef: in.template,
				Kind:        in.kind,
			})
		}
		if err != nil {
			return fmt.Errorf("recording %s of %q by %s: %w", in.kind, in.template, in.user, err)
		}
	}
	return nil
}

func skipExisting(ctx context.Context, entity, name string, err error) error {
	if errors.Is(err, domain.ErrConflict) {
		domain.LoggerFromContext(ctx).InfoContext(ctx, "already seeded", "entity", entity, "name", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating %s %q: %w", entity, name, err)
	}
	return nil
}
