package evidence

// Batch packs consecutive pieces into groups whose encoded document stays
// within maxChars runes, preserving order. maxChars <= 0 means unlimited and
// returns a single batch. A piece that cannot fit even on its own still gets
// a batch of its own; the provider decides whether to reject it.
func Batch(pieces []string, maxChars int) [][]string {
	if len(pieces) == 0 {
		return nil
	}
	if maxChars <= 0 || EncodedLen(pieces) <= maxChars {
		return [][]string{pieces}
	}

	overhead := EncodedLen(nil)
	var batches [][]string
	start, size := 0, overhead

	for i, p := range pieces {
		n := pieceLen(p)
		if i > start && size+n > maxChars {
			batches = append(batches, pieces[start:i])
			start, size = i, overhead
		}
		size += n
	}
	batches = append(batches, pieces[start:])

	return batches
}
