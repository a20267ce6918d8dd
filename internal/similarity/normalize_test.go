package similarity

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Broken Streetlight", "broken streetlight"},
		{"punctuation", "pothole!!! on main-street.", "pothole on main street"},
		{"collapse whitespace", "  too   many\t\nspaces  ", "too many spaces"},
		{"diacritics", "Café near Straße", "cafe near straße"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"HELLO!",
		"Broken streetlight, on Main St.",
		"  café ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	if Normalize("HELLO!") != Normalize("hello") {
		t.Error("expected HELLO! and hello to normalize equally")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"filters short tokens", "Streetlight broken on Main St", []string{"streetlight", "broken", "main"}},
		{"keeps three-rune tokens", "the cat sat", []string{"the", "cat", "sat"}},
		{"empty", "on st", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
