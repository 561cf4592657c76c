package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jobsift/jobsift/internal/fingerprint"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/scrapererr"
)

const (
	usajobsBaseURL  = "https://data.usajobs.gov/api/search"
	usajobsPageSize = 250
	usajobsMaxPages = 4
)

// usajobsResponse mirrors the USAJOBS search API envelope.
type usajobsResponse struct {
	SearchResult struct {
		SearchResultCount    int              `json:"SearchResultCount"`
		SearchResultCountAll int              `json:"SearchResultCountAll"`
		SearchResultItems    []usajobsItem    `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

type usajobsItem struct {
	MatchedObjectDescriptor usajobsDescriptor `json:"MatchedObjectDescriptor"`
}

type usajobsDescriptor struct {
	PositionTitle           string               `json:"PositionTitle"`
	PositionURI             string               `json:"PositionURI"`
	PositionLocationDisplay string               `json:"PositionLocationDisplay"`
	OrganizationName        string               `json:"OrganizationName"`
	PublicationStartDate    string               `json:"PublicationStartDate"`
	PositionRemuneration    []usajobsRemuneration `json:"PositionRemuneration"`
	UserArea                struct {
		Details struct {
			JobSummary string `json:"JobSummary"`
		} `json:"Details"`
	} `json:"UserArea"`
}

type usajobsRemuneration struct {
	MinimumRange     string `json:"MinimumRange"`
	MaximumRange     string `json:"MaximumRange"`
	RateIntervalCode string `json:"RateIntervalCode"`
}

// USAJobs fetches postings from the USAJOBS government API. Requires an
// API key (Authorization-Key header) and the registered user agent email.
type USAJobs struct {
	name      string
	apiKey    string
	userAgent string
	keyword   string
	location  string
	baseURL   string
	client    *http.Client
	limiter   *ratelimit.Limiter
	quota     int
}

// NewUSAJobs creates a scraper for the USAJOBS search API.
func NewUSAJobs(name, apiKey, userAgent, keyword, location string, client *http.Client, limiter *ratelimit.Limiter, quota int) *USAJobs {
	return &USAJobs{
		name:      name,
		apiKey:    apiKey,
		userAgent: userAgent,
		keyword:   keyword,
		location:  location,
		baseURL:   usajobsBaseURL,
		client:    client,
		limiter:   limiter,
		quota:     quota,
	}
}

func (u *USAJobs) Name() string { return u.name }

// Fetch pages through the search results. Each page consumes one rate-limit
// token. A missing API key fails fast as invalid configuration.
func (u *USAJobs) Fetch(ctx context.Context) ([]model.Job, error) {
	if u.apiKey == "" {
		return nil, scrapererr.InvalidConfig(u.name, "api key is required")
	}

	header := http.Header{}
	header.Set("Authorization-Key", u.apiKey)
	header.Set("User-Agent", u.userAgent)

	var jobs []model.Job
	for page := 1; page <= usajobsMaxPages; page++ {
		if err := u.limiter.Wait(ctx, u.name, u.quota); err != nil {
			return nil, waitErr(u.name, err)
		}

		q := url.Values{}
		q.Set("Keyword", u.keyword)
		if u.location != "" {
			q.Set("LocationName", u.location)
		}
		q.Set("ResultsPerPage", strconv.Itoa(usajobsPageSize))
		q.Set("Page", strconv.Itoa(page))
		pageURL := fmt.Sprintf("%s?%s", u.baseURL, q.Encode())

		var resp usajobsResponse
		if err := getJSON(ctx, u.client, u.name, pageURL, header, &resp); err != nil {
			// USAJOBS answers a rejected key with 403 rather than 401.
			if err.Kind == scrapererr.KindHTTPStatus && err.StatusCode == http.StatusForbidden {
				return nil, scrapererr.Authentication(u.name, pageURL, "api key rejected")
			}
			return nil, err
		}

		for _, item := range resp.SearchResult.SearchResultItems {
			jobs = append(jobs, u.jobFromDescriptor(item.MatchedObjectDescriptor))
		}

		fetched := page * usajobsPageSize
		if fetched >= resp.SearchResult.SearchResultCountAll ||
			len(resp.SearchResult.SearchResultItems) == 0 {
			break
		}
	}

	return jobs, nil
}

func (u *USAJobs) jobFromDescriptor(d usajobsDescriptor) model.Job {
	job := model.Job{
		Fingerprint: fingerprint.Compute(d.OrganizationName, d.PositionTitle, d.PositionLocationDisplay, d.PositionURI),
		Title:       d.PositionTitle,
		Company:     d.OrganizationName,
		Location:    d.PositionLocationDisplay,
		Description: d.UserArea.Details.JobSummary,
		URL:         d.PositionURI,
		Source:      u.name,
		Remote:      normalize.Location(d.PositionLocationDisplay) == "remote",
	}

	if len(d.PositionRemuneration) > 0 {
		r := d.PositionRemuneration[0]
		if min, err := strconv.ParseFloat(r.MinimumRange, 64); err == nil {
			job.SalaryMin = &min
		}
		if max, err := strconv.ParseFloat(r.MaximumRange, 64); err == nil {
			job.SalaryMax = &max
		}
		job.Currency = "USD"
	}

	if d.PublicationStartDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, d.PublicationStartDate); err == nil {
				job.PostedAt = &t
				break
			}
		}
	}

	return job
}

var _ model.Scraper = (*USAJobs)(nil)
