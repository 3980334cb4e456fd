package retrieval

import (
	"fmt"
	"strings"
)

// BlockSeparator joins formatted chunk blocks. Distinct enough that the
// model and tests can split the context back into per-chunk segments.
const BlockSeparator = "\n\n-----\n\n"

// FormatContext renders selected chunks into a single prompt-ready text
// block. Each chunk becomes a labeled block carrying its provenance marker
// and unmodified content. Deterministic given the same input order; an
// empty selection yields an empty string.
func FormatContext(chunks []Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		label := "SUPPORTING SOURCE"
		if c.Primary {
			label = "PRIMARY SOURCE"
		}
		blocks = append(blocks, fmt.Sprintf("[%s: %s]\n%s", label, c.Source, c.Content))
	}

	return strings.Join(blocks, BlockSeparator)
}
