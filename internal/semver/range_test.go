package semver

import "testing"

func TestParseRangeSatisfies(t *testing.T) {
	tests := []struct {
		expr    string
		version string
		want    bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.0.0", "0.9.0", false},
		{"1.0.0", "9.0.0", true},
		{"[1.0.0,2.0.0)", "1.0.0", true},
		{"[1.0.0,2.0.0)", "1.5.0", true},
		{"[1.0.0,2.0.0)", "2.0.0", false},
		{"(1.0.0,2.0.0]", "1.0.0", false},
		{"(1.0.0,2.0.0]", "2.0.0", true},
		{"[1.0.0]", "1.0.0", true},
		{"[1.0.0]", "1.0.0.0", true},
		{"[1.0.0]", "1.0.1", false},
		{"(,2.0.0]", "0.1.0", true},
		{"(,2.0.0]", "2.0.1", false},
		{"[1.0.0,)", "1.0.0", true},
		{"[1.0.0,2.0.0)", "2.0.0-beta", true},
	}

	for _, tt := range tests {
		r, err := ParseRange(tt.expr)
		if err != nil {
			t.Errorf("ParseRange(%q) failed: %v", tt.expr, err)
			continue
		}
		if got := r.Satisfies(MustParse(tt.version)); got != tt.want {
			t.Errorf("%q.Satisfies(%q) = %v, want %v", tt.expr, tt.version, got, tt.want)
		}
	}
}

func TestParseRangeInvalid(t *testing.T) {
	for _, expr := range []string{"", "[1.0.0", "(1.0.0)", "[,]", "[2.0.0,1.0.0]", "[a,b]"} {
		if _, err := ParseRange(expr); err == nil {
			t.Errorf("ParseRange(%q) succeeded, want error", expr)
		}
	}
}

func TestRangeString(t *testing.T) {
	const expr = "[1.0.0, 2.0.0)"
	r, err := ParseRange(expr)
	if err != nil {
		t.Fatalf("ParseRange failed: %v", err)
	}
	if r.String() != expr {
		t.Errorf("String() = %q, want the original %q", r.String(), expr)
	}
}
