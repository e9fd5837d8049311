package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/jobconnect-ng/jobconnect/internal/session"
	"go.uber.org/zap"
)

// handleSearch serves a search intent, replaying the shared filter-signature
// cache when possible. Either way the identifier's last-results cache is
// refreshed so "apply all" follow-ups resolve against exactly this reply.
func (b *Bot) handleSearch(ctx context.Context, identifier string, filters model.JobFilters) error {
	signature := filterSignature(filters)

	if entry, ok := b.searchCache.Get(signature); ok {
		b.sessions.SetLastResults(identifier, entry.JobIDs)
		b.send(identifier, entry.Response)
		return nil
	}

	jobs, err := b.jobs.SearchJobs(filters, maxSearchResults)
	if err != nil {
		return fmt.Errorf("search jobs: %w", err)
	}

	response := renderSearchResults(jobs)
	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}

	b.searchCache.Set(signature, session.CachedSearch{Response: response, JobIDs: ids})
	b.sessions.SetLastResults(identifier, ids)
	b.logger.Debug("search served",
		zap.String("identifier", identifier),
		zap.String("signature", signature),
		zap.Int("results", len(ids)))

	b.send(identifier, response)
	return nil
}

// filterSignature canonicalizes a filter set into a shared cache key. Field
// order is fixed and values are trimmed and lowercased so equivalent searches
// collide.
func filterSignature(filters model.JobFilters) string {
	remote := ""
	if filters.Remote != nil {
		remote = fmt.Sprintf("%t", *filters.Remote)
	}
	return strings.Join([]string{
		"title=" + canon(filters.Title),
		"company=" + canon(filters.Company),
		"location=" + canon(filters.Location),
		"remote=" + remote,
	}, "|")
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func renderSearchResults(jobs []model.Job) string {
	if len(jobs) == 0 {
		return msgNoSearchResults
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d posting(s):\n", len(jobs)))
	for i, j := range jobs {
		sb.WriteString(fmt.Sprintf("%d. %s — %s, %s", i+1, j.Title, j.Company, j.Location))
		if j.Remote {
			sb.WriteString(" (remote)")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(msgSearchFooter)
	return sb.String()
}
