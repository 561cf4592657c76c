// Package notifier delivers alerts for newly discovered jobs. The log
// notifier is the default; the Slack notifier posts Block Kit messages to an
// incoming webhook.
package notifier

import (
	"log/slog"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new job matches to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with source, company, title, location, and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.Job) error {
	for _, j := range jobs {
		args := []any{
			"source", j.Source,
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"url", j.URL,
		}
		if j.PostedAt != nil {
			args = append(args, "posted_at", *j.PostedAt)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
