package domain

// AskRequest is the request to ask a question about the documentation
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the response to a question.
// Success is false when the backend rejected the question, in which case
// Error may carry a human readable reason.
type AskResponse struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatsResponse reports how much documentation is indexed
type StatsResponse struct {
	Success       bool   `json:"success"`
	SectionsCount *int   `json:"sections_count,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ReloadResponse is the response to a documentation reload.
// SectionsCount is a pointer so that clients can tell an absent count
// from a count of zero.
type ReloadResponse struct {
	Success        bool   `json:"success"`
	DocumentsCount *int   `json:"documents_count,omitempty"`
	SectionsCount  *int   `json:"sections_count,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ReloadResult is the outcome of relearning the documentation folder
type ReloadResult struct {
	DocumentsCount int
	SectionsCount  int
}

// Count returns a pointer to n, for the optional count fields above
func Count(n int) *int {
	return &n
}
