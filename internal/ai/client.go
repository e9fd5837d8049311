// Package ai wraps the Gemini API behind the three operations the bot needs:
// intent parsing, CV scoring and cover-letter generation. Every operation has
// a deterministic structural fallback; malformed model output never reaches
// the user as a raw error.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobconnect-ng/jobconnect/internal/config"
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// FallbackResponse is sent when the model neither maps the message to an
// action nor supplies its own reply.
const FallbackResponse = "Sorry, I didn't get that. Try something like \"find remote backend jobs in Lagos\" or reply \"apply 2\" after a search."

// FallbackSummary replaces the CV review when scoring is unavailable.
const FallbackSummary = "Automated CV review was unavailable at submission time."

// Score is the structural result of a CV review.
type Score struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Summary    string  `json:"summary"`
}

// FallbackScore is the deterministic stand-in used when the model call fails
// or returns unparsable output.
func FallbackScore() Score {
	return Score{Summary: FallbackSummary}
}

type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	})
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	return result.Text(), nil
}

type Client struct {
	gen    generator
	logger *zap.Logger
}

func NewClient(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{gen: &geminiGenerator{client: client, model: cfg.Model}, logger: logger}, nil
}

const intentPrompt = `You are the message router for a job application assistant.
Classify the user message below into exactly one action.

Return STRICTLY this JSON, nothing else:
{
  "action": "<search_jobs|apply_job|unknown>",
  "filters": {"title": "<string, omit if unset>", "location": "<string, omit if unset>", "company": "<string, omit if unset>", "remote": <true|false, omit if unset>},
  "apply_all": <true if the user wants to apply to all listed jobs>,
  "job_id": <number the user referenced, omit if none>,
  "response": "<for unknown only: a short helpful reply to the user>"
}

User message:
%s`

// ParseIntent maps free text onto the closed intent set. Any failure, from
// the provider call down to a missing action field, degrades to Unknown.
func (c *Client) ParseIntent(ctx context.Context, text string) Intent {
	raw, err := c.gen.generate(ctx, fmt.Sprintf(intentPrompt, text))
	if err != nil {
		c.logger.Warn("intent parsing failed", zap.Error(err))
		return Unknown{Response: FallbackResponse}
	}
	return parseIntentJSON(raw)
}

func parseIntentJSON(raw string) Intent {
	doc := stripFences(raw)
	if !gjson.Valid(doc) {
		return Unknown{Response: FallbackResponse}
	}

	switch gjson.Get(doc, "action").String() {
	case "search_jobs":
		filters := model.JobFilters{
			Title:    gjson.Get(doc, "filters.title").String(),
			Company:  gjson.Get(doc, "filters.company").String(),
			Location: gjson.Get(doc, "filters.location").String(),
		}
		if remote := gjson.Get(doc, "filters.remote"); remote.Exists() && remote.Type != gjson.Null {
			v := remote.Bool()
			filters.Remote = &v
		}
		return SearchJobs{Filters: filters}
	case "apply_job":
		if gjson.Get(doc, "apply_all").Bool() {
			return ApplyJob{ApplyAll: true}
		}
		jobID := gjson.Get(doc, "job_id")
		if !jobID.Exists() || jobID.Uint() == 0 {
			return Unknown{Response: FallbackResponse}
		}
		return ApplyJob{JobID: uint(jobID.Uint())}
	default:
		if response := gjson.Get(doc, "response").String(); response != "" {
			return Unknown{Response: response}
		}
		return Unknown{Response: FallbackResponse}
	}
}

const scorePrompt = `You are an experienced technical recruiter. Review the CV below.

Return STRICTLY this JSON, nothing else:
{
  "skills": <number 0-10>,
  "experience": <number 0-10>,
  "education": <number 0-10>,
  "summary": "<two or three sentences on the candidate>"
}

CV:
%s`

// ScoreCV reviews the CV text. A provider failure or unparsable output
// degrades to FallbackScore, never to an error.
func (c *Client) ScoreCV(ctx context.Context, cvText string) Score {
	raw, err := c.gen.generate(ctx, fmt.Sprintf(scorePrompt, cvText))
	if err != nil {
		c.logger.Warn("cv scoring failed", zap.Error(err))
		return FallbackScore()
	}

	doc := stripFences(raw)
	if !gjson.Valid(doc) || !gjson.Get(doc, "summary").Exists() {
		c.logger.Warn("cv scoring returned unparsable output")
		return FallbackScore()
	}
	return Score{
		Skills:     gjson.Get(doc, "skills").Float(),
		Experience: gjson.Get(doc, "experience").Float(),
		Education:  gjson.Get(doc, "education").Float(),
		Summary:    gjson.Get(doc, "summary").String(),
	}
}

const coverLetterPrompt = `Write a concise professional cover letter (under 200 words) for the
candidate whose CV is below. Plain text only, no placeholders, no headers.

CV:
%s`

// fallbackCoverLetter is deterministic and generic on purpose.
const fallbackCoverLetter = "Dear Hiring Manager,\n\nI am writing to express my interest in this role. My background and experience, detailed in my attached CV, align well with the position, and I would welcome the opportunity to discuss how I can contribute to your team.\n\nThank you for your consideration.\n\nKind regards"

// WriteCoverLetter generates a cover letter from the CV text, falling back to
// a fixed template when the provider call fails or returns nothing useful.
func (c *Client) WriteCoverLetter(ctx context.Context, cvText string) string {
	raw, err := c.gen.generate(ctx, fmt.Sprintf(coverLetterPrompt, cvText))
	if err != nil {
		c.logger.Warn("cover letter generation failed", zap.Error(err))
		return fallbackCoverLetter
	}
	letter := strings.TrimSpace(stripFences(raw))
	if letter == "" {
		return fallbackCoverLetter
	}
	return letter
}

// stripFences removes a markdown code fence the model may wrap its output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
