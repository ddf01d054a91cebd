package domain

// Candidate is a single vector-index hit. Score is cosine similarity,
// higher is better.
type Candidate struct {
	Reference string
	Score     float64
}
