package version

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"2.1", 2, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"2",
		"abc",
		"2.1.0",
		"2.x",
		"-1.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestVersion_String(t *testing.T) {
	v, err := Parse("2.1")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "2.1" {
		t.Errorf("String() = %q, want %q", v.String(), "2.1")
	}

	v2, err := Parse("10.23")
	if err != nil {
		t.Fatal(err)
	}
	if v2.String() != "10.23" {
		t.Errorf("String() = %q, want %q", v2.String(), "10.23")
	}
}

func TestCompatible_SameMajor(t *testing.T) {
	v1, _ := Parse("2.0")
	v2, _ := Parse("2.1")

	if !v1.Compatible(v2) {
		t.Error("2.0 should be compatible with 2.1")
	}
	if !v2.Compatible(v1) {
		t.Error("2.1 should be compatible with 2.0")
	}
}

func TestCompatible_DifferentMajor(t *testing.T) {
	v1, _ := Parse("1.0")
	v2, _ := Parse("2.0")

	if v1.Compatible(v2) {
		t.Error("1.0 should NOT be compatible with 2.0")
	}
	if v2.Compatible(v1) {
		t.Error("2.0 should NOT be compatible with 1.0")
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		v, other string
		want     bool
	}{
		{"2.1", "2.0", true},
		{"2.1", "2.1", true},
		{"2.0", "2.1", false},
		{"3.0", "2.9", true},
		{"1.9", "2.0", false},
	}

	for _, tt := range tests {
		v, _ := Parse(tt.v)
		other, _ := Parse(tt.other)
		if got := v.AtLeast(other); got != tt.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.v, tt.other, got, tt.want)
		}
	}
}

func TestCompatibleWithCurrent(t *testing.T) {
	if !CompatibleWithCurrent(Current) {
		t.Error("Current must be compatible with itself")
	}
	if !CompatibleWithCurrent("2.0") {
		t.Error("2.0 should be compatible")
	}
	if CompatibleWithCurrent("1.0") {
		t.Error("1.0 should NOT be compatible")
	}
	if CompatibleWithCurrent("garbage") {
		t.Error("unparseable version should NOT be compatible")
	}
}

func TestCurrent(t *testing.T) {
	v, err := Parse(Current)
	if err != nil {
		t.Fatalf("Parse(Current) returned error: %v", err)
	}
	if v.Major != 2 || v.Minor != 1 {
		t.Errorf("Current version = %s, want 2.1", v)
	}
}
