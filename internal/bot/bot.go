// Package bot is the conversational core: it turns one inbound message into
// one reply, routing through the payment gate, the session store, the task
// pool and the notification sink. A panic or unexpected error inside a turn
// is caught at the boundary and becomes an apology on the same channel; it
// never crosses into other identifiers' turns.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobconnect-ng/jobconnect/internal/ai"
	"github.com/jobconnect-ng/jobconnect/internal/apperr"
	"github.com/jobconnect-ng/jobconnect/internal/extract"
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/jobconnect-ng/jobconnect/internal/session"
	"github.com/jobconnect-ng/jobconnect/internal/task"
	"go.uber.org/zap"
)

// maxSearchResults caps one search reply.
const maxSearchResults = 5

// AI is the subset of the AI collaborator the bot needs.
type AI interface {
	ParseIntent(ctx context.Context, text string) ai.Intent
	ScoreCV(ctx context.Context, cvText string) ai.Score
	WriteCoverLetter(ctx context.Context, cvText string) string
}

// Extractor turns an uploaded document into normalized CV text.
type Extractor interface {
	Extract(ctx context.Context, upload extract.Upload) (string, error)
}

// PaymentGate guards paid operations.
type PaymentGate interface {
	Completed(identifier string) (bool, error)
	Initiate(ctx context.Context, identifier string) (string, error)
}

// Notifier delivers a reply to an identifier.
type Notifier interface {
	Send(identifier, text string) error
}

// Mailer notifies a recruiter about one application.
type Mailer interface {
	NotifyRecruiter(email, jobTitle, cvText, coverLetter, applicantEmail string) error
}

type jobStore interface {
	SearchJobs(filters model.JobFilters, limit int) ([]model.Job, error)
	FindByID(id uint) (*model.Job, error)
}

type applicationStore interface {
	Create(app *model.Application) error
}

// Inbound is one user turn as delivered by a channel adapter.
type Inbound struct {
	Identifier string
	Text       string
	File       *extract.Upload
}

type Bot struct {
	sessions     *session.Store
	searchCache  *session.SearchCache
	jobs         jobStore
	applications applicationStore
	gate         PaymentGate
	tasks        *task.Orchestrator
	ai           AI
	sink         Notifier
	mailer       Mailer
	logger       *zap.Logger
}

type Deps struct {
	Sessions     *session.Store
	SearchCache  *session.SearchCache
	Jobs         jobStore
	Applications applicationStore
	Gate         PaymentGate
	Tasks        *task.Orchestrator
	AI           AI
	Extractor    Extractor
	Sink         Notifier
	Mailer       Mailer
	Logger       *zap.Logger
}

// New wires the bot and registers its task handlers on the orchestrator.
// Call before Orchestrator.Start.
func New(deps Deps) *Bot {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	b := &Bot{
		sessions:     deps.Sessions,
		searchCache:  deps.SearchCache,
		jobs:         deps.Jobs,
		applications: deps.Applications,
		gate:         deps.Gate,
		tasks:        deps.Tasks,
		ai:           deps.AI,
		sink:         deps.Sink,
		mailer:       deps.Mailer,
		logger:       deps.Logger,
	}

	deps.Tasks.Register(task.ExtractCV, func(ctx context.Context, payload any) (any, error) {
		upload, ok := payload.(extract.Upload)
		if !ok {
			return nil, fmt.Errorf("unexpected payload %T", payload)
		}
		return deps.Extractor.Extract(ctx, upload)
	})
	deps.Tasks.Register(task.ParseQuery, func(ctx context.Context, payload any) (any, error) {
		text, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected payload %T", payload)
		}
		return deps.AI.ParseIntent(ctx, text), nil
	})
	deps.Tasks.Register(task.AnalyzeCV, func(ctx context.Context, payload any) (any, error) {
		cvText, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected payload %T", payload)
		}
		return deps.AI.ScoreCV(ctx, cvText), nil
	})
	deps.Tasks.Register(task.GenerateCoverLetter, func(ctx context.Context, payload any) (any, error) {
		cvText, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected payload %T", payload)
		}
		return deps.AI.WriteCoverLetter(ctx, cvText), nil
	})

	return b
}

// HandleMessage processes one turn to completion and replies on the same
// channel. It never returns an error and never panics outward.
func (b *Bot) HandleMessage(ctx context.Context, in Inbound) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("turn panicked",
				zap.String("identifier", in.Identifier), zap.Any("panic", r))
			b.send(in.Identifier, msgApology)
		}
	}()

	var err error
	switch {
	case in.File != nil:
		err = b.handleUpload(ctx, in)
	case strings.TrimSpace(in.Text) != "":
		if b.sessions.State(in.Identifier) == session.StateAwaitingCoverLetter {
			err = b.handleCoverLetterReply(ctx, in.Identifier, in.Text)
		} else {
			err = b.handleText(ctx, in.Identifier, in.Text)
		}
	default:
		// unknown message kinds leave state unchanged
		b.send(in.Identifier, msgHelp)
	}

	if err != nil {
		b.logger.Error("turn failed",
			zap.String("identifier", in.Identifier),
			zap.Bool("has_file", in.File != nil),
			zap.Error(err))
		b.send(in.Identifier, replyForError(err))
	}
}

func (b *Bot) handleText(ctx context.Context, identifier, text string) error {
	result, err := b.tasks.Run(ctx, task.ParseQuery, text)
	if err != nil {
		return err
	}
	intent, ok := result.(ai.Intent)
	if !ok {
		return fmt.Errorf("unexpected parse-query result %T", result)
	}

	switch v := intent.(type) {
	case ai.SearchJobs:
		return b.handleSearch(ctx, identifier, v.Filters)
	case ai.ApplyJob:
		return b.handleApply(ctx, identifier, v)
	case ai.Unknown:
		b.send(identifier, v.Response)
		return nil
	default:
		return fmt.Errorf("unhandled intent %T", intent)
	}
}

// send delivers best-effort; a channel failure at this point can only be
// logged.
func (b *Bot) send(identifier, text string) {
	if err := b.sink.Send(identifier, text); err != nil {
		b.logger.Error("reply delivery failed",
			zap.String("identifier", identifier), zap.Error(err))
	}
}

// replyForError maps the error taxonomy onto user-facing messages.
func replyForError(err error) string {
	var unsupported *extract.UnsupportedTypeError
	var malware *extract.MalwareError
	var provider *apperr.ProviderError

	switch {
	case errors.Is(err, extract.ErrFileTooLarge):
		return msgFileTooLarge
	case errors.Is(err, extract.ErrEmptyUpload):
		return msgEmptyUpload
	case errors.Is(err, extract.ErrNoTextExtracted):
		return msgNoTextExtracted
	case errors.As(err, &unsupported):
		return fmt.Sprintf(msgUnsupportedType, unsupported.Detected)
	case errors.As(err, &malware):
		return msgMalwareDetected
	case errors.As(err, &provider):
		return msgProviderDown
	default:
		return msgApology
	}
}
