package fingerprint

import (
	"encoding/hex"
	"testing"
)

func TestCompute_CollapsesNoisyVariants(t *testing.T) {
	base := Compute("Acme", "Sr. Engineer", "SF, CA", "https://a.com/job/1")

	tests := []struct {
		name     string
		company  string
		title    string
		location string
		url      string
	}{
		{"title abbreviation", "Acme", "Senior Engineer", "SF, CA", "https://a.com/job/1"},
		{"location phrasing", "Acme", "Sr. Engineer", "San Francisco, California", "https://a.com/job/1"},
		{"tracking params", "Acme", "Sr. Engineer", "SF, CA", "https://a.com/job/1?utm_source=x"},
		{"company casing", "ACME", "Sr. Engineer", "SF, CA", "https://a.com/job/1"},
		{"all at once", "acme", "SENIOR ENGINEER", "san francisco, ca", "https://a.com/job/1?gclid=z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.company, tt.title, tt.location, tt.url)
			if got != base {
				t.Errorf("expected same fingerprint as base, got %s vs %s", got, base)
			}
		})
	}
}

func TestCompute_DivergentInputs(t *testing.T) {
	base := Compute("Acme", "Sr. Engineer", "SF, CA", "https://a.com/job/1")

	tests := []struct {
		name     string
		company  string
		title    string
		location string
		url      string
	}{
		{"different company", "Globex", "Sr. Engineer", "SF, CA", "https://a.com/job/1"},
		{"different title", "Acme", "Staff Engineer", "SF, CA", "https://a.com/job/1"},
		{"different location", "Acme", "Sr. Engineer", "NYC", "https://a.com/job/1"},
		{"different url", "Acme", "Sr. Engineer", "SF, CA", "https://a.com/job/2"},
		{"missing location", "Acme", "Sr. Engineer", "", "https://a.com/job/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.company, tt.title, tt.location, tt.url)
			if got == base {
				t.Error("expected a different fingerprint from base")
			}
		})
	}
}

func TestCompute_CrossSourceDedup(t *testing.T) {
	// The same posting seen through two sources: abbreviated title plus a
	// tracking parameter on one side, clean on the other.
	a := Compute("Acme", "Sr. Engineer", "", "https://a.com/job/1?utm_source=x")
	b := Compute("Acme", "Senior Engineer", "", "https://a.com/job/1")
	if a != b {
		t.Errorf("expected cross-source fingerprints to match, got %s vs %s", a, b)
	}
}

func TestCompute_ShapeAndDeterminism(t *testing.T) {
	fp := Compute("Acme", "Engineer", "Remote", "https://a.com/1")
	if len(fp) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(fp))
	}
	if _, err := hex.DecodeString(fp); err != nil {
		t.Fatalf("fingerprint is not valid hex: %v", err)
	}
	if fp != Compute("Acme", "Engineer", "Remote", "https://a.com/1") {
		t.Error("fingerprint is not deterministic")
	}
}
