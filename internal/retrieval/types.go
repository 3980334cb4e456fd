package retrieval

import "fmt"

// Chunk is one unit of retrieved text, classified by source authority.
// Chunks are immutable once retrieved and live only for the request.
type Chunk struct {
	// ID is the chunk's stable identity in the vector store.
	ID string
	// Content is the raw chunk text. Never altered or truncated downstream.
	Content string
	// Source is the logical source name (e.g. "thesis" or a filename).
	Source string
	// Primary marks chunks from the designated authoritative document.
	Primary bool
}

// Policy configures the quota-based selection of retrieved chunks.
type Policy struct {
	// SearchK is how many candidates to pull from the vector store.
	SearchK int
	// TotalK bounds the number of chunks fed to the generator.
	TotalK int
	// PrimaryRatio is the share of TotalK reserved for primary chunks.
	PrimaryRatio float64
}

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	if p.SearchK <= 0 || p.TotalK <= 0 {
		return fmt.Errorf("search_k and total_k must be greater than 0")
	}
	if p.TotalK > p.SearchK {
		return fmt.Errorf("total_k (%d) must not exceed search_k (%d)", p.TotalK, p.SearchK)
	}
	if p.PrimaryRatio < 0 || p.PrimaryRatio > 1 {
		return fmt.Errorf("primary_ratio must be in [0,1], got %v", p.PrimaryRatio)
	}
	return nil
}

// primaryTarget is the number of selection slots reserved for primary
// chunks: floor(TotalK * PrimaryRatio), but at least 1.
func (p Policy) primaryTarget() int {
	target := int(float64(p.TotalK) * p.PrimaryRatio)
	if target < 1 {
		target = 1
	}
	return target
}
