package model

// ApplicationStats summarises applications and provider profiles for the admin dashboard
type ApplicationStats struct {
	Total         int                  `json:"total"`
	Pending       int                  `json:"pending"`
	Approved      int                  `json:"approved"`
	Rejected      int                  `json:"rejected"`
	NeedsRevision int                  `json:"needs_revision"`
	ByType        map[ProviderType]int `json:"by_type"`
	Providers     ProviderStats        `json:"providers"`
}

type ProviderStats struct {
	Total    int                  `json:"total"`
	Verified int                  `json:"verified"`
	ByType   map[ProviderType]int `json:"by_type"`
}
