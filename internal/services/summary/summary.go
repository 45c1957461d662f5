// Package summary generates plain-English bill summaries and backfills
// bills that were ingested without one.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/joinciviq/civiq-backend/internal/repositories"
	"go.uber.org/zap"
)

const summaryPrompt = `You are a civic education assistant. Summarize bills in plain English for a Gen-Z audience at a %dth grade reading level. Be concise, engaging, and avoid jargon. Use emojis sparingly to increase engagement. Focus on: what the bill does, who it affects, and why it matters.

Summarize this bill:

%s`

const (
	defaultGradeLevel = 8
	maxPromptRunes    = 3000
	fallbackRunes     = 250
)

// Generator produces text from a prompt. Satisfied by gemini.Client.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	generator Generator // nil when no collaborator is configured
	bills     repositories.BillRepository
	logger    *zap.Logger
}

func NewService(generator Generator, bills repositories.BillRepository, logger *zap.Logger) *Service {
	return &Service{generator: generator, bills: bills, logger: logger}
}

// SummarizeBill returns an AI summary of the raw bill text, or a truncation
// fallback when the collaborator is missing or errors. It never fails.
func (s *Service) SummarizeBill(ctx context.Context, rawText string, gradeLevel int) string {
	if gradeLevel <= 0 {
		gradeLevel = defaultGradeLevel
	}
	if s.generator == nil {
		return fallbackSummary(rawText)
	}

	out, err := s.generator.GenerateContent(ctx, fmt.Sprintf(summaryPrompt, gradeLevel, truncateRunes(rawText, maxPromptRunes)))
	if err != nil || strings.TrimSpace(out) == "" {
		s.logger.Warn("summary collaborator unavailable, using truncation fallback", zap.Error(err))
		return fallbackSummary(rawText)
	}
	return strings.TrimSpace(out)
}

// Backfill summarizes up to limit bills that have no AI summary yet
func (s *Service) Backfill(ctx context.Context, limit int) error {
	bills, err := s.bills.ListMissingAISummary(limit)
	if err != nil {
		return err
	}

	for _, bill := range bills {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		source := bill.Summary
		if source == "" {
			source = bill.Title
		}
		generated := s.SummarizeBill(ctx, source, defaultGradeLevel)
		if err := s.bills.UpdateAISummary(bill.ID, generated); err != nil {
			s.logger.Warn("failed to store AI summary",
				zap.String("bill_id", bill.ID), zap.Error(err))
		}
	}
	return nil
}

func fallbackSummary(rawText string) string {
	return truncateRunes(rawText, fallbackRunes) + "... (AI summary unavailable)"
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
