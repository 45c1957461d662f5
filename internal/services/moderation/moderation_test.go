package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

// stubGenerator returns a fixed response or error
type stubGenerator struct {
	out string
	err error
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return s.out, s.err
}

func TestCleanAmendmentReturnsCleanedText(t *testing.T) {
	svc := NewService(&stubGenerator{out: "  Strike section 2 and insert clearer language.  "}, 1000, zap.NewNop())

	cleaned, flagged := svc.CleanAmendment(context.Background(), "strike secton 2 and insert clearer langage")
	if flagged {
		t.Fatal("expected clean content not to be flagged")
	}
	if cleaned != "Strike section 2 and insert clearer language." {
		t.Fatalf("expected trimmed collaborator output, got %q", cleaned)
	}
}

func TestCleanAmendmentFlagsViolations(t *testing.T) {
	svc := NewService(&stubGenerator{out: "[FLAGGED: Inappropriate content]"}, 1000, zap.NewNop())

	_, flagged := svc.CleanAmendment(context.Background(), "buy cheap pills at example dot com")
	if !flagged {
		t.Fatal("expected flagged content to be reported")
	}
}

func TestCleanAmendmentDegradesOnGeneratorError(t *testing.T) {
	svc := NewService(&stubGenerator{err: errors.New("model overloaded")}, 1000, zap.NewNop())

	cleaned, flagged := svc.CleanAmendment(context.Background(), "  a perfectly fine amendment  ")
	if flagged {
		t.Fatal("a collaborator outage must never flag content")
	}
	if cleaned != "a perfectly fine amendment" {
		t.Fatalf("expected trimmed pass-through text, got %q", cleaned)
	}
}

func TestCleanAmendmentFallbackCapsRunes(t *testing.T) {
	svc := NewService(&stubGenerator{err: errors.New("timeout")}, 10, zap.NewNop())

	long := strings.Repeat("ä", 25)
	cleaned, flagged := svc.CleanAmendment(context.Background(), long)
	if flagged {
		t.Fatal("fallback must not flag")
	}
	if got := utf8.RuneCountInString(cleaned); got != 10 {
		t.Fatalf("expected 10 runes after cap, got %d", got)
	}
}

func TestCleanAmendmentWithoutGenerator(t *testing.T) {
	svc := NewService(nil, 1000, zap.NewNop())

	cleaned, flagged := svc.CleanAmendment(context.Background(), "  text with no collaborator configured  ")
	if flagged {
		t.Fatal("pass-through must not flag")
	}
	if cleaned != "text with no collaborator configured" {
		t.Fatalf("expected trimmed input, got %q", cleaned)
	}
}

func TestCleanAmendmentEmptyGeneratorOutput(t *testing.T) {
	svc := NewService(&stubGenerator{out: "   "}, 1000, zap.NewNop())

	cleaned, _ := svc.CleanAmendment(context.Background(), "keep the original wording")
	if cleaned != "keep the original wording" {
		t.Fatalf("expected original text when collaborator returns nothing, got %q", cleaned)
	}
}
