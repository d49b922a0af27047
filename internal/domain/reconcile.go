package domain

// CounterDrift records a template whose cached counters disagreed with the ledger.
type CounterDrift struct {
	TemplateID     string `json:"template_id"`
	StoredLikes    int64  `json:"stored_likes"`
	ActualLikes    int64  `json:"actual_likes"`
	StoredDislikes int64  `json:"stored_dislikes"`
	ActualDislikes int64  `json:"actual_dislikes"`
}

// FavoritesRepair summarises changes made to bring favorites sets in line with the ledger.
type FavoritesRepair struct {
	Added   int64 `json:"added"`
	Removed int64 `json:"removed"`
}
