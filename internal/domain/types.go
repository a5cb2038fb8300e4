package domain

import "context"

// Place represents a single tourism entity loaded from the catalog dataset.
type Place struct {
	Name          string
	City          string
	Province      string
	SignatureFood string
	Rating        string
	Address       string

	// SearchText is the lowercase derived field the index is fitted over.
	// Never empty for a loaded place.
	SearchText string
}

// Role tags one side of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in a conversation transcript.
type Turn struct {
	Role Role
	Text string
}

// ScoredPlace pairs a catalog place with its similarity to a query.
type ScoredPlace struct {
	Place Place
	Score float64
}

// RetrievalResult is the outcome of scoring a query against the catalog.
// Relevant reports whether the best match clears the configured threshold
// and the matches may be used as grounding context.
type RetrievalResult struct {
	Matches  []ScoredPlace
	Relevant bool
}

// Retriever scores a query against the indexed catalog.
type Retriever interface {
	Search(query string, topK int, threshold float64) RetrievalResult
}

// Completer turns a fully composed prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
