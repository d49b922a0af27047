package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/jbeshir/template-catalog/internal/domain"
)

// TrendingRSS handles GET /rss/trending/{kind}, publishing the trending ranking as a feed.
type TrendingRSS struct {
	FeedBaseURL     string
	FeedAuthorName  string
	FeedAuthorEmail string
	TrendingCmd     TrendingCommand
	CacheMaxAge     time.Duration
	Now             func() time.Time
}

func (c TrendingRSS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	req, err := trendingRequestFromRequest(r)
	if err != nil {
		writeCommandError(ctx, w, err, "unable to parse trending query", http.StatusNotFound)
		return
	}

	results, err := c.TrendingCmd.Execute(ctx, req)
	if err != nil {
		writeCommandError(ctx, w, err, "unable to list trending templates for feed", http.StatusNotFound)
		return
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Trending templates by %s", req.Kind),
		Link:        &feeds.Link{Href: c.FeedBaseURL + r.URL.Path},
		Description: fmt.Sprintf("Templates with the most %s interactions over the last %d days", req.Kind, req.WindowDays),
		Author:      &feeds.Author{Name: c.FeedAuthorName, Email: c.FeedAuthorEmail},
		Created:     now(),
	}

	for _, t := range results {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          t.Template.ID,
			IsPermaLink: "false",
			Title:       t.Template.Title,
			Link:        &feeds.Link{Href: c.FeedBaseURL + "/v1/templates/" + t.Template.ID},
			Description: fmt.Sprintf("%d %s in the last %d days (%d likes, %d favorites all time). %s",
				t.Count, req.Kind, req.WindowDays, t.TotalLikes, t.TotalFavorites, t.Template.Description),
			Created: t.Template.CreatedAt,
			Updated: t.Template.UpdatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		logger.ErrorContext(ctx, "unable to format feed as RSS", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if _, err := w.Write([]byte(rss)); err != nil {
		logger.ErrorContext(ctx, "unable to write feed to response", "error", err)
	}
}
