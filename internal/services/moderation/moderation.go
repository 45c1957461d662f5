// Package moderation cleans user-submitted amendment text through an AI
// collaborator. When the collaborator is down the pipeline degrades to
// pass-through cleaning instead of blocking submission.
package moderation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// FlaggedMarker is the sentinel the collaborator embeds in its response when
// content violates the guidelines.
const FlaggedMarker = "[FLAGGED:"

const cleanerPrompt = `You are a content moderator for a civic platform. Clean up user-submitted amendment proposals by:
1. Fixing grammar and spelling
2. Removing extreme profanity (allow occasional mild language)
3. Detecting and flagging bot-like or malicious content
4. Maintaining the user's original intent and voice
5. Keeping it concise and clear

If the content is malicious or spam, return: "[FLAGGED: Inappropriate content]"

Clean this amendment proposal:

%s`

// Generator produces text from a prompt. Satisfied by gemini.Client.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service runs amendment text through the collaborator and applies the
// degrade policy on failure.
type Service struct {
	generator      Generator // nil when no collaborator is configured
	fallbackMaxLen int
	logger         *zap.Logger
}

func NewService(generator Generator, fallbackMaxLen int, logger *zap.Logger) *Service {
	if fallbackMaxLen <= 0 {
		fallbackMaxLen = 1000
	}
	return &Service{
		generator:      generator,
		fallbackMaxLen: fallbackMaxLen,
		logger:         logger,
	}
}

// CleanAmendment returns the moderated text and whether the collaborator
// flagged it. Collaborator errors never propagate: the text falls back to
// trim-and-cap cleaning so submission is not blocked by an outage.
func (s *Service) CleanAmendment(ctx context.Context, text string) (cleaned string, flagged bool) {
	if s.generator == nil {
		return s.passThrough(text), false
	}

	out, err := s.generator.GenerateContent(ctx, fmt.Sprintf(cleanerPrompt, text))
	if err != nil {
		s.logger.Warn("moderation collaborator unavailable, degrading to pass-through cleaning",
			zap.Error(err))
		return s.passThrough(text), false
	}
	if strings.Contains(out, FlaggedMarker) {
		return out, true
	}
	if strings.TrimSpace(out) == "" {
		return s.passThrough(text), false
	}
	return strings.TrimSpace(out), false
}

// passThrough trims and caps the raw text at the configured rune limit
func (s *Service) passThrough(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > s.fallbackMaxLen {
		return string(runes[:s.fallbackMaxLen])
	}
	return trimmed
}
