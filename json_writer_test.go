package ktchn

import (
	"errors"
	"testing"
)

func TestJSONObject(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObject
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("insertion order", func(t *testing.T) {
		var w jsonObject
		w.Field("z", 1).Field("a", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"z":1,"a":"hello"}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObject
		w.Field("a", 0) // a zero value is still written by Field.
		w.Optional("b", "")
		w.Optional("c", Number{})
		w.Optional("d", N(0))
		w.Optional("e", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"a":0,"d":0,"e":"hello"}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("first error wins", func(t *testing.T) {
		var w jsonObject
		w.Field("a", Undefined()).Field("b", 2)
		if _, err := w.MarshalJSON(); !errors.Is(err, ErrUndefined) {
			t.Errorf("MarshalJSON() error = %v, want %v", err, ErrUndefined)
		}
	})
}
