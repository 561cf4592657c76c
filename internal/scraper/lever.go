package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/fingerprint"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/ratelimit"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories is the categories object in a Lever posting.
type leverCategories struct {
	Team         string   `json:"team"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

type leverSalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// leverJob is a single posting in the Lever API response.
type leverJob struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	DescriptionPlain string            `json:"descriptionPlain"`
	Categories       leverCategories   `json:"categories"`
	SalaryRange      *leverSalaryRange `json:"salaryRange"`
	CreatedAt        int64             `json:"createdAt"`
	WorkplaceType    string            `json:"workplaceType"`
	HostedURL        string            `json:"hostedUrl"`
}

// Lever fetches jobs from the Lever public postings API for one company.
type Lever struct {
	name        string
	companySlug string
	company     string
	baseURL     string
	client      *http.Client
	limiter     *ratelimit.Limiter
	quota       int
}

// NewLever creates a scraper for a Lever board.
func NewLever(name, companySlug, company string, client *http.Client, limiter *ratelimit.Limiter, quota int) *Lever {
	return &Lever{
		name:        name,
		companySlug: companySlug,
		company:     company,
		baseURL:     leverBaseURL,
		client:      client,
		limiter:     limiter,
		quota:       quota,
	}
}

func (l *Lever) Name() string { return l.name }

// Fetch retrieves all postings and maps them into canonical records.
func (l *Lever) Fetch(ctx context.Context) ([]model.Job, error) {
	if err := l.limiter.Wait(ctx, l.name, l.quota); err != nil {
		return nil, waitErr(l.name, err)
	}

	url := fmt.Sprintf("%s/%s?mode=json", l.baseURL, l.companySlug)
	var postings []leverJob
	if err := getJSON(ctx, l.client, l.name, url, nil, &postings); err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0, len(postings))
	for _, lj := range postings {
		// Prefer allLocations when present; the single location field is
		// often just the primary office.
		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, ", ")
		}

		job := model.Job{
			Fingerprint: fingerprint.Compute(l.company, lj.Text, location, lj.HostedURL),
			Title:       lj.Text,
			Company:     l.company,
			Location:    location,
			Description: lj.DescriptionPlain,
			URL:         lj.HostedURL,
			Source:      l.name,
			Remote:      strings.EqualFold(lj.WorkplaceType, "remote") || normalize.Location(location) == "remote",
		}

		if lj.SalaryRange != nil {
			min, max := lj.SalaryRange.Min, lj.SalaryRange.Max
			job.SalaryMin = &min
			job.SalaryMax = &max
			job.Currency = lj.SalaryRange.Currency
		}

		if lj.CreatedAt > 0 {
			t := time.UnixMilli(lj.CreatedAt)
			job.PostedAt = &t
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

var _ model.Scraper = (*Lever)(nil)
