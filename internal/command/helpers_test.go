package command

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jbeshir/template-catalog/internal/datasources/memory"
	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testContext() context.Context {
	return domain.ContextWithLogger(context.Background(), testLogger())
}

var testNow = time.Date(2024, 4, 27, 12, 0, 0, 0, time.UTC)

// fakeClock advances by one second on every reading so consecutive writes get distinct timestamps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testNow}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	store    *memory.Store
	clock    *fakeClock
	alice    domain.User
	bob      domain.User
	template domain.Template
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(), clock: newFakeClock()}

	f.alice = f.addUser(t, "alice")
	f.bob = f.addUser(t, "bob")
	f.template = f.addTemplate(t, "Minimal Resume", f.bob.ID)
	return f
}

func (f *fixture) addUser(t *testing.T, username string) domain.User {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, f.store.CreateUser(ctx, domain.NewUser{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: testNow,
	}))
	u, err := f.store.GetUserByID(ctx, id)
	require.NoError(t, err)
	return u
}

func (f *fixture) addTemplate(t *testing.T, title, creatorID string) domain.Template {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, f.store.CreateTemplate(ctx, domain.Template{
		ID:        id,
		Title:     title,
		Category:  "resume",
		CreatorID: creatorID,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}))
	tmpl, err := f.store.GetTemplateByID(ctx, id)
	require.NoError(t, err)
	return tmpl
}

func (f *fixture) resolvers() Resolvers {
	return NewResolvers(f.store, f.store)
}

func (f *fixture) recorder(store LedgerStore) *RecordInteraction {
	c := NewRecordInteraction(f.resolvers(), store, LedgerConfig{})
	c.Now = f.clock.Now
	return c
}

func (f *fixture) currentTemplate(t *testing.T) domain.Template {
	t.Helper()
	return f.templateByID(t, f.template.ID)
}

func (f *fixture) templateByID(t *testing.T, id string) domain.Template {
	t.Helper()
	tmpl, err := f.store.GetTemplateByID(context.Background(), id)
	require.NoError(t, err)
	return tmpl
}

// exclusiveRecords returns every live exclusive-kind interaction for the pair.
func (f *fixture) exclusiveRecords(t *testing.T, userID, templateID string) []domain.Interaction {
	t.Helper()
	all, err := f.store.ListUserInteractions(context.Background(), userID, nil)
	require.NoError(t, err)

	var result []domain.Interaction
	for _, in := range all {
		if in.TemplateID == templateID && in.Kind.Exclusive() {
			result = append(result, in)
		}
	}
	return result
}

func (f *fixture) favorites(t *testing.T, userID string) []string {
	t.Helper()
	ids, err := f.store.ListUserFavoriteTemplateIDs(context.Background(), userID)
	require.NoError(t, err)
	return ids
}
