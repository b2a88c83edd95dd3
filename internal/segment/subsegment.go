package segment

// SubSegment is the contiguous slice [Start, Start+Len) of a segment's words.
type SubSegment struct {
	Start int
	Len   int
	Words []Word
}

// Text joins the sub-segment words with single spaces.
func (s SubSegment) Text() string {
	return joinWords(s.Words)
}

// End returns the index just past the last word.
func (s SubSegment) End() int {
	return s.Start + s.Len
}

// AllSubSegments returns every contiguous span of seg with 1..maxLen words,
// ordered by increasing start and, for equal starts, increasing length.
// maxLen < 1 yields nothing.
func AllSubSegments(seg Segment, maxLen int) []SubSegment {
	n := seg.Len()
	if maxLen < 1 || n == 0 {
		return nil
	}

	subs := make([]SubSegment, 0, CountSubSegments(n, maxLen))
	for i := 0; i < n; i++ {
		for k := 1; k <= maxLen && i+k <= n; k++ {
			subs = append(subs, SubSegment{Start: i, Len: k, Words: seg.Words[i : i+k]})
		}
	}
	return subs
}

// CountSubSegments returns how many spans AllSubSegments yields for a segment
// of n words.
func CountSubSegments(n, maxLen int) int {
	if maxLen < 1 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += min(maxLen, n-i)
	}
	return total
}
