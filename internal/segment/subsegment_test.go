package segment

import (
	"strings"
	"testing"
)

func TestAllSubSegments_ThreeWords(t *testing.T) {
	seg := NewSegment("the cat sat", WordTokenizer{})
	subs := AllSubSegments(seg, 3)

	want := []string{"the", "the cat", "the cat sat", "cat", "cat sat", "sat"}
	if len(subs) != len(want) {
		t.Fatalf("expected %d sub-segments, got %d", len(want), len(subs))
	}
	for i, s := range subs {
		if s.Text() != want[i] {
			t.Errorf("sub-segment %d = %q, want %q", i, s.Text(), want[i])
		}
	}
}

func TestAllSubSegments_Count(t *testing.T) {
	tok := WordTokenizer{}
	for n := 0; n <= 9; n++ {
		text := strings.TrimSpace(strings.Repeat("w ", n))
		seg := NewSegment(text, tok)
		for maxLen := 1; maxLen <= 5; maxLen++ {
			want := 0
			for i := 0; i < n; i++ {
				want += min(maxLen, n-i)
			}
			got := len(AllSubSegments(seg, maxLen))
			if got != want {
				t.Errorf("n=%d maxLen=%d: got %d sub-segments, want %d", n, maxLen, got, want)
			}
			if c := CountSubSegments(n, maxLen); c != want {
				t.Errorf("CountSubSegments(%d, %d) = %d, want %d", n, maxLen, c, want)
			}
		}
	}
}

func TestAllSubSegments_UnigramsRebuildSegment(t *testing.T) {
	seg := NewSegment("a quick brown fox jumps", WordTokenizer{})

	var rebuilt []Word
	for _, s := range AllSubSegments(seg, 4) {
		if s.Len == 1 {
			rebuilt = append(rebuilt, s.Words...)
		}
	}

	if len(rebuilt) != seg.Len() {
		t.Fatalf("expected %d unigrams, got %d", seg.Len(), len(rebuilt))
	}
	for i := range rebuilt {
		if rebuilt[i] != seg.Words[i] {
			t.Errorf("unigram %d = %+v, want %+v", i, rebuilt[i], seg.Words[i])
		}
	}
}

func TestAllSubSegments_Ordering(t *testing.T) {
	seg := NewSegment("a b c d", WordTokenizer{})
	subs := AllSubSegments(seg, 2)

	for i := 1; i < len(subs); i++ {
		prev, cur := subs[i-1], subs[i]
		if cur.Start < prev.Start || (cur.Start == prev.Start && cur.Len <= prev.Len) {
			t.Errorf("sub-segments out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
}

func TestAllSubSegments_NonPositiveMaxLen(t *testing.T) {
	seg := NewSegment("a b", WordTokenizer{})
	if subs := AllSubSegments(seg, 0); len(subs) != 0 {
		t.Errorf("expected no sub-segments for maxLen=0, got %d", len(subs))
	}
}
