package retrieval

// IsPrimary reports whether chunk metadata marks the designated
// authoritative document modelled on the ingestion conventions: either an
// explicit boolean flag or the reserved primary source name. Absent or
// ambiguous metadata classifies as secondary.
func IsPrimary(meta map[string]any, primarySource string) bool {
	if flag, ok := meta["is_thesis"].(bool); ok && flag {
		return true
	}
	if src, ok := meta["source"].(string); ok && src == primarySource {
		return true
	}
	return false
}

// SourceName extracts the logical source name from chunk metadata,
// falling back to "unknown" when the ingestion job recorded none.
func SourceName(meta map[string]any) string {
	if src, ok := meta["source"].(string); ok && src != "" {
		return src
	}
	return "unknown"
}
