package translator

import (
	"context"
	"reflect"
	"testing"
)

type namedService struct{ name string }

func (n namedService) Name() string { return n.name }

func (n namedService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	return &ServiceResult{ServiceName: n.name, TranslatedText: req.Text}, nil
}

func (n namedService) IsAvailable(ctx context.Context) error { return nil }

func (n namedService) SupportedLanguages(ctx context.Context) ([]string, error) { return nil, nil }

func TestSet_DeterministicOrder(t *testing.T) {
	s := NewSet(namedService{"systran"}, namedService{"apertium"}, namedService{"google"})

	want := []string{"apertium", "google", "systran"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	for i, svc := range s.Services() {
		if svc.Name() != want[i] {
			t.Errorf("Services()[%d] = %q, want %q", i, svc.Name(), want[i])
		}
	}
}

func TestSet_WithWithout(t *testing.T) {
	s := NewSet(namedService{"google"})
	s2 := s.With(namedService{"apertium"})

	if s.Len() != 1 {
		t.Errorf("original set must not change, got %d providers", s.Len())
	}
	if s2.Len() != 2 {
		t.Errorf("expected 2 providers, got %d", s2.Len())
	}

	s3 := s2.Without("google")
	if _, ok := s3.Get("google"); ok {
		t.Error("google should have been removed")
	}
	if _, ok := s3.Get("apertium"); !ok {
		t.Error("apertium should still be present")
	}
}

func TestSet_NilIsEmpty(t *testing.T) {
	var s *Set
	if s.Len() != 0 || s.Names() != nil || s.Services() != nil {
		t.Error("nil set should behave as empty")
	}
	if s.With(namedService{"google"}).Len() != 1 {
		t.Error("With on nil set should create a set")
	}
}

func TestSet_DuplicateNames(t *testing.T) {
	s := NewSet(namedService{"google"}, namedService{"google"}, nil)
	if s.Len() != 1 {
		t.Errorf("expected duplicates to collapse, got %d", s.Len())
	}
}
