package models

type ResearchPostRequest struct {
	// Query is the free-text product description.
	Query string `json:"query"`
}

type ResearchPostResponse struct {
	// Kind is one of "ok", "config", "input", "rate-limited" or "error".
	Kind string `json:"kind"`
	// Report is the text to show to the user, for every kind.
	Report   string `json:"report"`
	Attempts int    `json:"attempts"`
}
