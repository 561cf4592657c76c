package scraper

import (
	"context"
	"testing"

	"github.com/jobsift/jobsift/internal/fingerprint"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/scrapererr"
)

func newMCPTestScraper() *MCPSearch {
	return NewMCPSearch("mcp", "http://localhost:8080/mcp", "", "software engineer", "Portland",
		ratelimit.NewLimiter(), 100)
}

func TestMCPSearch_DecodeJobs(t *testing.T) {
	payload := `[
		{
			"title": "Sr. Engineer",
			"company": "Acme",
			"location": "Remote - USA",
			"url": "https://a.com/job/1?utm_source=mcp",
			"description": "Build things.",
			"salary_min": 120000,
			"salary_max": 160000,
			"currency": "USD",
			"posted_at": "2026-08-01T00:00:00Z"
		},
		{
			"title": "Data Engineer",
			"company": "Globex",
			"location": "Austin, TX",
			"url": "https://g.com/job/2",
			"remote": false
		}
	]`

	jobs, err := newMCPTestScraper().decodeJobs(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if !j.Remote {
		t.Error("remote location should mark the job remote")
	}
	if j.SalaryMin == nil || *j.SalaryMin != 120000 {
		t.Errorf("expected salary_min 120000, got %v", j.SalaryMin)
	}
	if j.PostedAt == nil {
		t.Error("expected posted_at")
	}
	want := fingerprint.Compute("Acme", "Sr. Engineer", "Remote - USA", "https://a.com/job/1?utm_source=mcp")
	if j.Fingerprint != want {
		t.Errorf("fingerprint mismatch: got %s want %s", j.Fingerprint, want)
	}

	if jobs[1].Remote {
		t.Error("second job should not be remote")
	}
	if jobs[1].Source != "mcp" {
		t.Errorf("expected source mcp, got %s", jobs[1].Source)
	}
}

func TestMCPSearch_DecodeJobs_MalformedPayload(t *testing.T) {
	_, err := newMCPTestScraper().decodeJobs(`these are not jobs`)
	se, ok := err.(*scrapererr.Error)
	if !ok {
		t.Fatalf("expected *scrapererr.Error, got %T", err)
	}
	if se.Kind != scrapererr.KindParseFailed || se.Format != "json" {
		t.Errorf("expected json parse failure, got %v", se.Kind)
	}
}

func TestMCPSearch_DecodeJobs_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"no title", `[{"company":"Acme","url":"https://a.com/1"}]`, "title"},
		{"no company", `[{"title":"Engineer","url":"https://a.com/1"}]`, "company"},
		{"no url", `[{"title":"Engineer","company":"Acme"}]`, "url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newMCPTestScraper().decodeJobs(tt.payload)
			se, ok := err.(*scrapererr.Error)
			if !ok {
				t.Fatalf("expected *scrapererr.Error, got %T", err)
			}
			if se.Kind != scrapererr.KindMissingField {
				t.Errorf("expected missing field error, got %v", se.Kind)
			}
			if se.Message != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, se.Message)
			}
		})
	}
}

func TestMCPSearch_Fetch_NoEndpointFailsFast(t *testing.T) {
	m := NewMCPSearch("mcp", "", "", "query", "", ratelimit.NewLimiter(), 100)
	_, err := m.Fetch(context.Background())
	se, ok := err.(*scrapererr.Error)
	if !ok {
		t.Fatalf("expected *scrapererr.Error, got %T", err)
	}
	if se.Kind != scrapererr.KindInvalidConfig {
		t.Errorf("expected invalid configuration, got %v", se.Kind)
	}
}
