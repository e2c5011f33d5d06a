package report

// Chunk serializes a header plus ordered line-items into segments no longer
// than max characters. Items are never split across segments; every overflow
// segment restarts with the continuation header; a segment is only emitted
// when it carries at least one item. Item order is preserved exactly.
//
// A single item longer than max still goes out whole in its own segment:
// oversized records are delivered, not truncated.
//
// Pure function of its arguments; it knows nothing about persistence or
// transport.
func Chunk(header, contHeader string, items []string, max int) []string {
	if len(items) == 0 {
		return nil
	}

	var segments []string
	current := header
	carried := 0

	for _, item := range items {
		if carried > 0 && len(current)+len(item) > max {
			segments = append(segments, current)
			current = contHeader
			carried = 0
		}
		current += item
		carried++
	}

	if carried > 0 {
		segments = append(segments, current)
	}

	return segments
}
