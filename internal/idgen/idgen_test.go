package idgen

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerate_DefaultPrefix(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.HasPrefix(id, DefaultPrefix) {
		t.Errorf("Generate() = %q, want prefix %q", id, DefaultPrefix)
	}
}

func TestGenerate_Shape(t *testing.T) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(DefaultPrefix) + `[0-9a-z]+-[a-zA-Z0-9]{10}$`)
	for i := 0; i < 100; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("Generate() = %q, does not match expected shape", id)
		}
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	id, err := GenerateWithPrefix("acc-")
	if err != nil {
		t.Fatalf("GenerateWithPrefix() error: %v", err)
	}
	if !strings.HasPrefix(id, "acc-") {
		t.Errorf("GenerateWithPrefix() = %q, want prefix %q", id, "acc-")
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error on iteration %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("Generate() produced duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestMemberNumber_Shape(t *testing.T) {
	pattern := regexp.MustCompile(`^M-\d{4}-\d{6}$`)
	n, err := MemberNumber()
	if err != nil {
		t.Fatalf("MemberNumber() error: %v", err)
	}
	if !pattern.MatchString(n) {
		t.Errorf("MemberNumber() = %q, does not match expected shape", n)
	}
}
