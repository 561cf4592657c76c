package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobsift/jobsift/internal/ratelimit"
)

func newLeverTestScraper(srv *httptest.Server, slug, company string) *Lever {
	l := NewLever("lever:"+slug, slug, company, srv.Client(), ratelimit.NewLimiter(), 100)
	l.baseURL = srv.URL
	return l
}

func TestLever_Fetch_Success(t *testing.T) {
	payload := `[
		{
			"id": "ff7ef527-b0d3-4c44-836a-8d6b58ac321e",
			"text": "Software Engineer",
			"descriptionPlain": "Plain text job description",
			"categories": {
				"team": "Engineering",
				"location": "San Francisco, CA",
				"allLocations": ["San Francisco, CA"]
			},
			"salaryRange": {"min": 150000, "max": 190000, "currency": "USD"},
			"createdAt": 1769784074110,
			"workplaceType": "hybrid",
			"hostedUrl": "https://jobs.lever.co/acme/ff7ef527?lever-origin=applied"
		},
		{
			"id": "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
			"text": "Backend Engineer",
			"descriptionPlain": "Backend job description",
			"categories": {
				"team": "Engineering",
				"location": "Remote",
				"allLocations": ["Remote"]
			},
			"createdAt": 1769870474110,
			"workplaceType": "remote",
			"hostedUrl": "https://jobs.lever.co/acme/a1b2c3d4"
		}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") != "json" {
			t.Errorf("expected mode=json, got %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	jobs, err := newLeverTestScraper(srv, "acme", "Acme Corp").Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Software Engineer" || j.Company != "Acme Corp" {
		t.Errorf("unexpected job header: %s at %s", j.Title, j.Company)
	}
	if j.SalaryMin == nil || *j.SalaryMin != 150000 {
		t.Errorf("expected salary_min 150000, got %v", j.SalaryMin)
	}
	if j.SalaryMax == nil || *j.SalaryMax != 190000 {
		t.Errorf("expected salary_max 190000, got %v", j.SalaryMax)
	}
	if j.Currency != "USD" {
		t.Errorf("expected USD, got %s", j.Currency)
	}
	if j.Remote {
		t.Error("hybrid role should not be marked remote")
	}
	if j.PostedAt == nil {
		t.Error("expected posted_at from createdAt millis")
	}

	if !jobs[1].Remote {
		t.Error("remote workplaceType should mark the job remote")
	}
	if jobs[1].SalaryMin != nil {
		t.Error("expected nil salary when salaryRange absent")
	}
}

func TestLever_Fetch_RemoteLocationWithoutWorkplaceType(t *testing.T) {
	// Some boards never set workplaceType; a "Remote" location alone must
	// still mark the job remote, like the other sources do.
	payload := `[{
		"id": "b9c8d7e6",
		"text": "Platform Engineer",
		"categories": {"location": "Remote", "allLocations": ["Remote"]},
		"hostedUrl": "https://jobs.lever.co/acme/b9c8d7e6"
	}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	jobs, err := newLeverTestScraper(srv, "acme", "Acme Corp").Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if !jobs[0].Remote {
		t.Error("remote location with empty workplaceType should mark the job remote")
	}
}

func TestLever_Fetch_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	jobs, err := newLeverTestScraper(srv, "empty-co", "Empty Co").Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestLever_Fetch_SameJobAcrossBoards_SameFingerprint(t *testing.T) {
	// The same posting seen via two lever boards with different tracking
	// params must collapse to one fingerprint.
	mk := func(hostedURL, title string) string {
		payload := `[{"id":"x","text":"` + title + `","categories":{"location":"SF, CA"},"hostedUrl":"` + hostedURL + `"}]`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		}))
		defer srv.Close()

		jobs, err := newLeverTestScraper(srv, "acme", "Acme").Fetch(context.Background())
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		return jobs[0].Fingerprint
	}

	a := mk("https://jobs.lever.co/acme/1?utm_source=x", "Sr. Engineer")
	b := mk("https://jobs.lever.co/acme/1", "Senior Engineer")
	if a != b {
		t.Errorf("expected identical fingerprints, got %s vs %s", a, b)
	}
}
