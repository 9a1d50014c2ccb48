package registry

import (
	"strings"
	"testing"
)

func TestCompileGuarded_BannedShapes(t *testing.T) {
	cases := []string{
		"(.*)+",
		"(.+)+",
		"([^)]*+)+",
		"([^)]*\\*)+",
	}
	for _, pattern := range cases {
		if _, err := CompileGuarded(pattern); err == nil {
			t.Errorf("pattern %q should have been rejected", pattern)
		}
	}
}

func TestCompileGuarded_LengthCap(t *testing.T) {
	ok := strings.Repeat("a", MaxPatternLength)
	if _, err := CompileGuarded(ok); err != nil {
		t.Errorf("pattern at exactly the cap should be accepted, got %v", err)
	}

	tooLong := strings.Repeat("a", MaxPatternLength+1)
	if _, err := CompileGuarded(tooLong); err == nil {
		t.Error("pattern over the cap should have been rejected")
	}
}

func TestCompileGuarded_ValidPattern(t *testing.T) {
	re, err := CompileGuarded("TypeError")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("a TypeError occurred") {
		t.Error("compiled pattern should match")
	}
}

func TestCompileGuarded_InvalidSyntax(t *testing.T) {
	if _, err := CompileGuarded("(unterminated"); err == nil {
		t.Error("invalid regex syntax should be rejected")
	}
}
