package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Asha Verma  ", want: "Asha Verma"},
		{name: "multiple spaces between words", input: "Asha    Verma", want: "Asha Verma"},
		{name: "tabs and newlines", input: "Asha\t\nVerma", want: "Asha Verma"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve special characters", input: " José Ñúñez-O'Neil ", want: "José Ñúñez-O'Neil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{"  Asha   Verma ", "A", "\tX\nY\r\nZ"}
	for _, in := range inputs {
		once := NormalizeName(in)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Asha@Example.COM "); got != "asha@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
