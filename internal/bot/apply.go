package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobconnect-ng/jobconnect/internal/ai"
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/jobconnect-ng/jobconnect/internal/session"
	"github.com/jobconnect-ng/jobconnect/internal/task"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handleUpload processes a CV document. Extraction is payment-gated: nothing
// is written to the session cache until the identifier has paid.
func (b *Bot) handleUpload(ctx context.Context, in Inbound) error {
	paid, err := b.gate.Completed(in.Identifier)
	if err != nil {
		return err
	}
	if !paid {
		url, err := b.gate.Initiate(ctx, in.Identifier)
		if err != nil {
			return err
		}
		b.send(in.Identifier, fmt.Sprintf(msgUploadPaymentRequired, url))
		return nil
	}

	result, err := b.tasks.Run(ctx, task.ExtractCV, *in.File)
	if err != nil {
		return err
	}
	cvText, ok := result.(string)
	if !ok {
		return fmt.Errorf("unexpected extract-cv result %T", result)
	}

	b.sessions.SetCVText(in.Identifier, cvText)
	if in.File.Email != "" {
		b.sessions.SetEmail(in.Identifier, in.File.Email)
	}

	// resume a deferred application if one is waiting on this CV
	pending, hasPending := b.sessions.PendingJobs(in.Identifier)
	if hasPending && len(pending) > 0 {
		if letter, ok := b.sessions.CoverLetter(in.Identifier); ok {
			report := b.applyToJobs(ctx, in.Identifier, pending, cvText, letter)
			b.sessions.ClearPendingJobs(in.Identifier)
			b.send(in.Identifier, msgCVReceived+"\n"+report)
			return nil
		}
		b.sessions.SetState(in.Identifier, session.StateAwaitingCoverLetter)
		b.send(in.Identifier, msgCVReceived+". "+msgCoverLetterPrompt)
		return nil
	}

	b.send(in.Identifier, msgCVReceived+". "+msgHelp)
	return nil
}

// handleApply resolves the target job ids, walks the payment/CV/cover-letter
// prerequisites and either defers the set as pending jobs or fans out.
func (b *Bot) handleApply(ctx context.Context, identifier string, intent ai.ApplyJob) error {
	ids, ok := b.resolveJobIDs(identifier, intent)
	if !ok {
		b.send(identifier, msgNothingToApply)
		return nil
	}

	paid, err := b.gate.Completed(identifier)
	if err != nil {
		return err
	}
	if !paid {
		b.sessions.SetPendingJobs(identifier, ids)
		url, err := b.gate.Initiate(ctx, identifier)
		if err != nil {
			return err
		}
		b.send(identifier, fmt.Sprintf(msgPaymentRequired, url))
		return nil
	}

	cvText, ok := b.sessions.CVText(identifier)
	if !ok {
		b.sessions.SetPendingJobs(identifier, ids)
		b.send(identifier, msgCVPrompt)
		return nil
	}

	letter, ok := b.sessions.CoverLetter(identifier)
	if !ok {
		b.sessions.SetPendingJobs(identifier, ids)
		b.sessions.SetState(identifier, session.StateAwaitingCoverLetter)
		b.send(identifier, msgCoverLetterPrompt)
		return nil
	}

	report := b.applyToJobs(ctx, identifier, ids, cvText, letter)
	b.sessions.ClearPendingJobs(identifier)
	b.send(identifier, report)
	return nil
}

// resolveJobIDs maps the intent onto concrete job ids. A small n referencing
// the numbered list resolves by position; anything else is treated as a raw
// posting id.
func (b *Bot) resolveJobIDs(identifier string, intent ai.ApplyJob) ([]uint, bool) {
	last, hasLast := b.sessions.LastResults(identifier)

	if intent.ApplyAll {
		if !hasLast || len(last) == 0 {
			return nil, false
		}
		return last, true
	}

	if hasLast && intent.JobID >= 1 && int(intent.JobID) <= len(last) {
		return []uint{last[intent.JobID-1]}, true
	}
	if intent.JobID == 0 {
		return nil, false
	}
	return []uint{intent.JobID}, true
}

// handleCoverLetterReply is the sub-dialog while state is
// awaiting_cover_letter: the literal "generate" (any case) invokes AI
// generation, anything else is stored byte-for-byte.
func (b *Bot) handleCoverLetterReply(ctx context.Context, identifier, text string) error {
	var letter string
	if strings.EqualFold(strings.TrimSpace(text), "generate") {
		cvText, ok := b.sessions.CVText(identifier)
		if !ok {
			b.sessions.ClearState(identifier)
			b.send(identifier, msgCoverLetterNeedsCV)
			return nil
		}
		result, err := b.tasks.Run(ctx, task.GenerateCoverLetter, cvText)
		if err != nil {
			return err
		}
		generated, ok := result.(string)
		if !ok {
			return fmt.Errorf("unexpected generate-cover-letter result %T", result)
		}
		letter = generated
	} else {
		letter = text
	}

	b.sessions.SetCoverLetter(identifier, letter)
	b.sessions.ClearState(identifier)

	if pending, ok := b.sessions.PendingJobs(identifier); ok && len(pending) > 0 {
		cvText, ok := b.sessions.CVText(identifier)
		if !ok {
			b.send(identifier, msgCVPrompt)
			return nil
		}
		report := b.applyToJobs(ctx, identifier, pending, cvText, letter)
		b.sessions.ClearPendingJobs(identifier)
		b.send(identifier, report)
		return nil
	}

	b.send(identifier, msgCoverLetterSaved)
	return nil
}

// applyToJobs fans out sequentially so email and database side effects stay
// ordered and attributable per job. Vanished jobs are skipped silently; a
// failed recruiter email never rolls back the application row.
func (b *Bot) applyToJobs(ctx context.Context, identifier string, ids []uint, cvText, letter string) string {
	applicantEmail, ok := b.sessions.Email(identifier)
	if !ok {
		applicantEmail = strings.TrimPrefix(identifier, "+") + "@placeholder.jobconnect.app"
	}

	var lines []string
	for _, id := range ids {
		job, err := b.jobs.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			b.logger.Error("job lookup failed",
				zap.String("identifier", identifier), zap.Uint("job_id", id), zap.Error(err))
			continue
		}

		score := b.scoreCV(ctx, identifier, cvText)
		app := &model.Application{
			Identifier:  identifier,
			JobID:       job.ID,
			CVText:      cvText,
			CoverLetter: letter,
			Skills:      score.Skills,
			Experience:  score.Experience,
			Education:   score.Education,
			Summary:     score.Summary,
		}
		if err := b.applications.Create(app); err != nil {
			b.logger.Error("application write failed",
				zap.String("identifier", identifier), zap.Uint("job_id", job.ID), zap.Error(err))
			continue
		}

		if err := b.mailer.NotifyRecruiter(job.RecruiterEmail, job.Title, cvText, letter, applicantEmail); err != nil {
			b.logger.Error("recruiter email failed",
				zap.String("identifier", identifier), zap.Uint("job_id", job.ID), zap.Error(err))
		}

		lines = append(lines, fmt.Sprintf("- #%d %s at %s", job.ID, job.Title, job.Company))
	}

	if len(lines) == 0 {
		return msgNoValidJobs
	}
	return fmt.Sprintf("Submitted %d application(s):\n%s", len(lines), strings.Join(lines, "\n"))
}

// scoreCV runs the analyze-cv task, degrading to the deterministic fallback
// when the pool reports failure. Scores are snapshots; they are never
// recomputed for an existing application.
func (b *Bot) scoreCV(ctx context.Context, identifier, cvText string) ai.Score {
	result, err := b.tasks.Run(ctx, task.AnalyzeCV, cvText)
	if err != nil {
		b.logger.Error("cv scoring task failed",
			zap.String("identifier", identifier), zap.Error(err))
		return ai.FallbackScore()
	}
	score, ok := result.(ai.Score)
	if !ok {
		return ai.FallbackScore()
	}
	return score
}
