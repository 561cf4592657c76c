package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jobsift/jobsift/internal/fingerprint"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/ratelimit"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob is a single job in the Greenhouse boards API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse fetches jobs from the Greenhouse public boards API for one
// company board.
type Greenhouse struct {
	name       string
	boardToken string
	company    string
	baseURL    string
	client     *http.Client
	limiter    *ratelimit.Limiter
	quota      int
}

// NewGreenhouse creates a scraper for a Greenhouse board. quota is the
// hourly request budget for this source's rate-limit bucket.
func NewGreenhouse(name, boardToken, company string, client *http.Client, limiter *ratelimit.Limiter, quota int) *Greenhouse {
	return &Greenhouse{
		name:       name,
		boardToken: boardToken,
		company:    company,
		baseURL:    greenhouseBaseURL,
		client:     client,
		limiter:    limiter,
		quota:      quota,
	}
}

func (g *Greenhouse) Name() string { return g.name }

// Fetch retrieves all postings on the board and maps them into canonical
// records, each carrying its fingerprint.
func (g *Greenhouse) Fetch(ctx context.Context) ([]model.Job, error) {
	if err := g.limiter.Wait(ctx, g.name, g.quota); err != nil {
		return nil, waitErr(g.name, err)
	}

	url := fmt.Sprintf("%s/%s/jobs", g.baseURL, g.boardToken)
	var resp greenhouseResponse
	if err := getJSON(ctx, g.client, g.name, url, nil, &resp); err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0, len(resp.Jobs))
	for _, gj := range resp.Jobs {
		job := model.Job{
			Fingerprint: fingerprint.Compute(g.company, gj.Title, gj.Location.Name, gj.AbsoluteURL),
			Title:       gj.Title,
			Company:     g.company,
			Location:    gj.Location.Name,
			URL:         gj.AbsoluteURL,
			Source:      g.name,
			Remote:      normalize.Location(gj.Location.Name) == "remote",
		}

		if gj.UpdatedAt != "" {
			if t, err := time.Parse(time.RFC3339, gj.UpdatedAt); err == nil {
				job.PostedAt = &t
			}
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

var _ model.Scraper = (*Greenhouse)(nil)
