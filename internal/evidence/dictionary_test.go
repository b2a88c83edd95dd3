package evidence

import (
	"reflect"
	"testing"
)

func TestDictionary_SetSemantics(t *testing.T) {
	d := NewDictionary()
	d.Add("The Cat", "el gato")
	d.Add("the  cat", "El Gato")
	d.Add("the cat", "la gata")
	d.Add("", "nada")
	d.Add("dog", "  ")

	if d.Len() != 2 {
		t.Errorf("expected 2 pairs, got %d", d.Len())
	}
	if !d.Has("THE CAT", "EL GATO") {
		t.Error("expected normalized lookup to succeed")
	}
	if got, want := d.Targets("the cat"), []string{"el gato", "la gata"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Targets = %v, want %v", got, want)
	}
	if got := d.Sources(); !reflect.DeepEqual(got, []string{"the cat"}) {
		t.Errorf("Sources = %v", got)
	}
}

func TestDictionary_EachIsSorted(t *testing.T) {
	d := NewDictionary()
	d.Add("b", "y")
	d.Add("a", "z")
	d.Add("a", "x")

	var got [][2]string
	d.Each(func(s, t string) { got = append(got, [2]string{s, t}) })

	want := [][2]string{{"a", "x"}, {"a", "z"}, {"b", "y"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Each order = %v, want %v", got, want)
	}
}

func TestDictionary_Nil(t *testing.T) {
	var d *Dictionary
	if d.Len() != 0 || d.Has("a", "b") || d.Targets("a") != nil || d.Sources() != nil {
		t.Error("nil dictionary should behave as empty")
	}
}
