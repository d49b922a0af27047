package controller

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTrendingList_ServeHTTP(t *testing.T) {
	testTime := time.Date(2024, 4, 27, 12, 0, 0, 0, time.UTC)
	results := []domain.TrendingTemplate{{
		Template:    domain.Template{ID: "t1", Title: "Resume", CreatedAt: testTime, UpdatedAt: testTime},
		Count:       2,
		WindowLikes: 2,
		TotalLikes:  4,
	}}

	cases := []struct {
		name       string
		kind       string
		query      string
		wantReq    *command.ListTrendingTemplatesRequest
		cmdErr     error
		wantStatus int
	}{
		{
			name:       "defaults",
			kind:       "like",
			wantReq:    &command.ListTrendingTemplatesRequest{Kind: domain.InteractionKindLike, WindowDays: 7, Limit: 10},
			wantStatus: http.StatusOK,
		},
		{
			name:       "explicit_window_and_limit",
			kind:       "favorite",
			query:      "?limit=5&days=30",
			wantReq:    &command.ListTrendingTemplatesRequest{Kind: domain.InteractionKindFavorite, WindowDays: 30, Limit: 5},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unparseable_limit",
			kind:       "like",
			query:      "?limit=ten",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unparseable_days",
			kind:       "like",
			query:      "?days=week",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "untrendable_kind",
			kind:       "view",
			wantReq:    &command.ListTrendingTemplatesRequest{Kind: domain.InteractionKindView, WindowDays: 7, Limit: 10},
			cmdErr:     domain.ErrInvalidKind,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &mockCommand[command.ListTrendingTemplatesRequest, []domain.TrendingTemplate]{}
			if tc.wantReq != nil {
				cmd.On("Execute", mock.Anything, *tc.wantReq).Return(results, tc.cmdErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/v1/templates/trending/"+tc.kind+tc.query, nil)
			req = testContext()(req)
			req = mux.SetURLVars(req, map[string]string{"kind": tc.kind})
			rec := httptest.NewRecorder()

			TrendingList{TrendingCmd: cmd, CacheMaxAge: time.Minute}.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			cmd.AssertExpectations(t)

			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "max-age=60", rec.Header().Get("Cache-Control"))

				var resp TrendingListResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, results, resp.Data)
				assert.Equal(t, tc.wantReq.Limit, resp.Metadata.Limit)
			}
		})
	}
}

func TestTrendingRSS_ServeHTTP(t *testing.T) {
	testTime := time.Date(2024, 4, 27, 12, 0, 0, 0, time.UTC)
	results := []domain.TrendingTemplate{
		{Template: domain.Template{ID: "t1", Title: "Resume", CreatedAt: testTime, UpdatedAt: testTime}, Count: 3},
		{Template: domain.Template{ID: "t2", Title: "Poster", CreatedAt: testTime, UpdatedAt: testTime}, Count: 1},
	}

	cmd := &mockCommand[command.ListTrendingTemplatesRequest, []domain.TrendingTemplate]{}
	cmd.On("Execute", mock.Anything, command.ListTrendingTemplatesRequest{
		Kind: domain.InteractionKindFavorite, WindowDays: 7, Limit: 10,
	}).Return(results, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rss/trending/favorite", nil)
	req = testContext()(req)
	req = mux.SetURLVars(req, map[string]string{"kind": "favorite"})
	rec := httptest.NewRecorder()

	TrendingRSS{
		FeedBaseURL: "https://templates.example.com",
		TrendingCmd: cmd,
		Now:         func() time.Time { return testTime },
	}.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))

	var feed struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title string `xml:"title"`
				Link  string `xml:"link"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.NewDecoder(rec.Body).Decode(&feed))
	assert.Equal(t, "Trending templates by favorite", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 2)
	assert.Equal(t, "Resume", feed.Channel.Items[0].Title)
	assert.Equal(t, "https://templates.example.com/v1/templates/t1", feed.Channel.Items[0].Link)
}
