package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/datasources/memory"
	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	handler http.Handler
	aliceID string
}

func newRouterFixture(t *testing.T, requireAuth bool) routerFixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	store := memory.New()

	aliceID := uuid.NewString()
	require.NoError(t, store.CreateUser(ctx, domain.NewUser{ID: aliceID, Username: "alice", Email: "alice@example.com", CreatedAt: now}))
	require.NoError(t, store.CreateTemplate(ctx, domain.Template{
		ID: uuid.NewString(), Title: "Resume", CreatorID: aliceID, CreatedAt: now, UpdatedAt: now,
	}))

	resolvers := command.NewResolvers(store, store)
	ledger := command.LedgerConfig{}
	cmds := Commands{
		RecordInteraction:        command.NewRecordInteraction(resolvers, store, ledger),
		TemplateInteractionStats: &command.TemplateInteractionStats{Resolvers: resolvers, Lister: store},
		GetTemplate:              &command.GetTemplate{Resolvers: resolvers},
		ListTrendingTemplates:    command.NewListTrendingTemplates(store, datasources.NullTrendingCache{}, 0),
	}

	handler, err := MakeRouter(store, cmds, Config{RequireAuthForWrites: requireAuth},
		NewAuthMiddleware([]AuthValidator{NewTrustedHeaderValidator()}))
	require.NoError(t, err)

	return routerFixture{handler: handler, aliceID: aliceID}
}

func (f routerFixture) do(method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(domain.ContextWithLogger(req.Context(), slog.New(slog.DiscardHandler)))
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_WritesRequireAuth(t *testing.T) {
	f := newRouterFixture(t, true)
	body := `{"templateRef":"Resume","interactionType":"like"}`

	cases := []struct {
		name       string
		userID     string
		wantStatus int
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
		{name: "malformed_header", userID: "alice", wantStatus: http.StatusUnauthorized},
		{name: "authenticated", userID: f.aliceID, wantStatus: http.StatusCreated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/v1/interactions", tc.userID, body)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestRouter_RecordThenReadStats(t *testing.T) {
	f := newRouterFixture(t, false)

	rec := f.do(http.MethodPost, "/v1/interactions", "", `{"userRef":"alice","templateRef":"Resume","interactionType":"favorite"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = f.do(http.MethodPost, "/v1/interactions", "", `{"userRef":"alice","templateRef":"Resume","interactionType":"favorite"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/v1/interactions/stats/template/Resume", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.InteractionStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, int64(1), stats[domain.InteractionKindFavorite])
	assert.Equal(t, int64(0), stats[domain.InteractionKindLike])
}

func TestRouter_TrendingIsNotATemplateRef(t *testing.T) {
	f := newRouterFixture(t, false)

	rec := f.do(http.MethodGet, "/v1/templates/trending/like", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"window_days":7`)

	rec = f.do(http.MethodGet, "/v1/templates/Resume", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Resume"`)

	rec = f.do(http.MethodGet, "/v1/templates/Missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Preflight(t *testing.T) {
	f := newRouterFixture(t, true)

	rec := f.do(http.MethodOptions, "/v1/interactions", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
