package domain

// TemplateCount is one row of a grouped interaction count.
type TemplateCount struct {
	TemplateID string
	Count      int64
}

// TrendingTemplate is a ranked template along with both windowed and all-time signals.
type TrendingTemplate struct {
	Template        Template `json:"template"`
	Count           int64    `json:"count"`
	WindowLikes     int64    `json:"window_likes"`
	WindowFavorites int64    `json:"window_favorites"`
	TotalLikes      int64    `json:"total_likes"`
	TotalFavorites  int64    `json:"total_favorites"`
}
