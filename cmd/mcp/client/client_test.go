package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchTemplates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/templates", r.URL.Path)
		assert.Equal(t, "resume", r.URL.Query().Get("filter_title"))
		assert.Equal(t, "a4,minimal", r.URL.Query().Get("filter_tags"))
		assert.Equal(t, "created_at_desc", r.URL.Query().Get("sort"))
		assert.Equal(t, "user-1", r.Header.Get("X-User-Id"))
		assert.Empty(t, r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"data":[{"id":"t1","title":"Minimal Resume","likes":3}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "", "user-1")
	templates, err := c.SearchTemplates(context.Background(), SearchFilters{
		Title: "resume",
		Tags:  []string{"a4", "minimal"},
	})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Minimal Resume", templates[0].Title)
	assert.Equal(t, int64(3), templates[0].Likes)
}

func TestClient_RecordInteraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/interactions", r.URL.Path)
		assert.Equal(t, "Bearer auth0|token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"templateRef": "Minimal Resume", "interactionType": "like"}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"interaction":{"id":"i1","template_id":"t1","interaction_type":"like"},"outcome":"created"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "auth0|token", "")
	result, err := c.RecordInteraction(context.Background(), "", "Minimal Resume", "like")
	require.NoError(t, err)
	assert.Equal(t, "created", result.Outcome)
	assert.Equal(t, "like", result.Interaction.Kind)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"target not found"}` + "\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	_, err := c.GetTemplate(context.Background(), "Missing")
	assert.EqualError(t, err, `API error (status 404): {"error":"target not found"}`)

	err = c.SetFavorite(context.Background(), "alice", "Missing", false)
	assert.ErrorContains(t, err, "status 404")
}
