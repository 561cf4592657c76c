package scraper

import (
	"context"
	"encoding/json"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jobsift/jobsift/internal/fingerprint"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/scrapererr"
)

const defaultMCPTool = "job_search"

// mcpJob is one record in the JSON payload an MCP search tool returns.
type mcpJob struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	Currency    string   `json:"currency"`
	PostedAt    string   `json:"posted_at"`
}

// MCPSearch queries a Model Context Protocol search service: it connects to
// the configured endpoint, calls a search tool, and decodes the JSON text
// content of the result into canonical records.
type MCPSearch struct {
	name     string
	endpoint string
	tool     string
	query    string
	location string
	limiter  *ratelimit.Limiter
	quota    int
}

// NewMCPSearch creates a scraper backed by an MCP search service. tool
// defaults to "job_search" when empty.
func NewMCPSearch(name, endpoint, tool, query, location string, limiter *ratelimit.Limiter, quota int) *MCPSearch {
	if tool == "" {
		tool = defaultMCPTool
	}
	return &MCPSearch{
		name:     name,
		endpoint: endpoint,
		tool:     tool,
		query:    query,
		location: location,
		limiter:  limiter,
		quota:    quota,
	}
}

func (m *MCPSearch) Name() string { return m.name }

// Fetch opens a session against the MCP endpoint, calls the search tool
// once, and maps the response. The session is per-fetch; the protocol keeps
// no useful state between aggregation runs.
func (m *MCPSearch) Fetch(ctx context.Context) ([]model.Job, error) {
	if m.endpoint == "" {
		return nil, scrapererr.InvalidConfig(m.name, "mcp endpoint is required")
	}

	if err := m.limiter.Wait(ctx, m.name, m.quota); err != nil {
		return nil, waitErr(m.name, err)
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "jobsift",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: m.endpoint,
	}, nil)
	if err != nil {
		return nil, scrapererr.Network(m.name, m.endpoint, err)
	}
	defer session.Close()

	args := map[string]any{"query": m.query}
	if m.location != "" {
		args["location"] = m.location
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      m.tool,
		Arguments: args,
	})
	if err != nil {
		e := scrapererr.New(scrapererr.KindRequestFailed, m.name, "tool call failed")
		e.URL = m.endpoint
		e.Cause = err.Error()
		return nil, e
	}
	if result.IsError {
		e := scrapererr.New(scrapererr.KindRequestFailed, m.name, "tool reported an error")
		e.URL = m.endpoint
		e.Cause = textContent(result)
		return nil, e
	}

	payload := textContent(result)
	if payload == "" {
		return nil, scrapererr.NoResults(m.name)
	}

	return m.decodeJobs(payload)
}

// textContent concatenates the text blocks of a tool result.
func textContent(res *mcp.CallToolResult) string {
	var out string
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			out += txt.Text
		}
	}
	return out
}

func (m *MCPSearch) decodeJobs(payload string) ([]model.Job, error) {
	var records []mcpJob
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, scrapererr.ParseFailed(m.name, m.endpoint, "json", err)
	}

	jobs := make([]model.Job, 0, len(records))
	for _, r := range records {
		switch {
		case r.Title == "":
			return nil, scrapererr.MissingField(m.name, "title")
		case r.Company == "":
			return nil, scrapererr.MissingField(m.name, "company")
		case r.URL == "":
			return nil, scrapererr.MissingField(m.name, "url")
		}

		job := model.Job{
			Fingerprint: fingerprint.Compute(r.Company, r.Title, r.Location, r.URL),
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			Description: r.Description,
			URL:         r.URL,
			Source:      m.name,
			Remote:      r.Remote || normalize.Location(r.Location) == "remote",
			SalaryMin:   r.SalaryMin,
			SalaryMax:   r.SalaryMax,
			Currency:    r.Currency,
		}

		if r.PostedAt != "" {
			if t, err := time.Parse(time.RFC3339, r.PostedAt); err == nil {
				job.PostedAt = &t
			}
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

var _ model.Scraper = (*MCPSearch)(nil)
