package retrieval

// SelectChunks applies the quota-based selection policy to a candidate list
// ordered by similarity rank (best match first). It partitions candidates by
// source authority, reserves up to primaryTarget slots for primary chunks,
// fills the remainder with secondary chunks, and never reorders within a
// partition. The result length never exceeds policy.TotalK; underfilling is
// acceptable and not an error.
func SelectChunks(candidates []Chunk, policy Policy) []Chunk {
	var primary, secondary []Chunk
	for _, c := range candidates {
		if c.Primary {
			primary = append(primary, c)
		} else {
			secondary = append(secondary, c)
		}
	}

	takePrimary := policy.primaryTarget()
	if takePrimary > len(primary) {
		takePrimary = len(primary)
	}

	remaining := policy.TotalK - takePrimary
	takeSecondary := remaining
	if takeSecondary > len(secondary) {
		takeSecondary = len(secondary)
	}

	selected := make([]Chunk, 0, takePrimary+takeSecondary)
	selected = append(selected, primary[:takePrimary]...)
	selected = append(selected, secondary[:takeSecondary]...)

	// Defensive truncation; the quota arithmetic already bounds the result.
	if len(selected) > policy.TotalK {
		selected = selected[:policy.TotalK]
	}
	return selected
}
