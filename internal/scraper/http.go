// Package scraper holds the source implementations. Every source honors the
// same contract: call the injected rate limiter before each network request,
// return jobs carrying their fingerprints, and report every failure as a
// *scrapererr.Error.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/jobsift/jobsift/internal/scrapererr"
)

// getJSON performs a GET and decodes the JSON response body into out,
// mapping every failure onto the closed error taxonomy: deadline overruns to
// timeout, transport faults to network, 401 to authentication, 429 to
// rate-limit, other non-200 codes to http-status, and undecodable bodies to
// parse-failure.
func getJSON(ctx context.Context, client *http.Client, source, url string, header http.Header, out any) *scrapererr.Error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return scrapererr.InvalidURL(source, url, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return scrapererr.Timeout(source, url, err)
		}
		return scrapererr.Network(source, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return scrapererr.Authentication(source, url, "credentials rejected")
	case resp.StatusCode == http.StatusTooManyRequests:
		return scrapererr.RateLimited(source, url)
	default:
		return scrapererr.HTTPStatus(source, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return scrapererr.ParseFailed(source, url, "json", err)
	}
	return nil
}

// waitErr converts a rate-limiter wait failure (context cancellation) into a
// taxonomy error.
func waitErr(source string, err error) *scrapererr.Error {
	e := scrapererr.New(scrapererr.KindRequestFailed, source, "cancelled while waiting for rate limit")
	e.Cause = err.Error()
	return e
}
