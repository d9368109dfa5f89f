package resolve

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"requests", "requests", true},
		{"six.moves", "six", true},
		{"six.moves.urllib.parse", "six", true},
		{"Django", "django", true},
		{"typing_extensions", "typing-extensions", true},
		{"  numpy  ", "numpy", true},
		{"os", "", false},
		{"sys", "", false},
		{"collections.abc", "", false},
		{"__future__", "", false},
		{"_internal", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := Normalize(tt.token)
			if ok != tt.ok {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestIsStdlib(t *testing.T) {
	for _, name := range []string{"os", "json", "asyncio", "tomllib"} {
		if !IsStdlib(name) {
			t.Errorf("IsStdlib(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"requests", "numpy", ""} {
		if IsStdlib(name) {
			t.Errorf("IsStdlib(%q) = true, want false", name)
		}
	}
}
