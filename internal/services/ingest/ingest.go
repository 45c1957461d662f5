// Package ingest pulls bills from the upstream legislative APIs, archives
// the raw payloads, and upserts normalized rows for the feed.
package ingest

import (
	"context"
	"time"

	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/joinciviq/civiq-backend/internal/services/summary"
	"go.uber.org/zap"
)

// Upstream source tags used as archive keys
const (
	SourceProPublica = "propublica"
	SourceOpenStates = "openstates"
)

// SourceBill pairs a normalized bill with the raw upstream document
type SourceBill struct {
	Source string
	Bill   models.Bill
	Raw    map[string]interface{}
}

const summaryBackfillBatch = 25

type Service struct {
	bills      repositories.BillRepository
	archive    repositories.BillArchiveRepository
	propublica *ProPublicaClient // nil when no API key is configured
	openstates *OpenStatesClient // nil when no API key is configured
	states     []string
	summaries  *summary.Service // nil disables the backfill step
	logger     *zap.Logger
}

func NewService(
	bills repositories.BillRepository,
	archive repositories.BillArchiveRepository,
	propublica *ProPublicaClient,
	openstates *OpenStatesClient,
	states []string,
	summaries *summary.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		bills:      bills,
		archive:    archive,
		propublica: propublica,
		openstates: openstates,
		states:     states,
		summaries:  summaries,
		logger:     logger,
	}
}

// Run syncs immediately and then on every tick until the context ends
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if err := s.SyncOnce(ctx); err != nil {
		s.logger.Error("bill ingestion failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.logger.Error("bill ingestion failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce fetches every configured source, stores what it got, and kicks
// the AI-summary backfill. A failing source is logged and skipped so one
// upstream outage cannot starve the others.
func (s *Service) SyncOnce(ctx context.Context) error {
	if s.propublica != nil {
		for _, chamber := range []string{"house", "senate"} {
			bills, err := s.propublica.FetchIntroduced(ctx, chamber)
			if err != nil {
				s.logger.Warn("federal bill fetch failed",
					zap.String("chamber", chamber), zap.Error(err))
				continue
			}
			s.store(ctx, bills)
		}
	} else {
		s.logger.Debug("ProPublica API key not configured, skipping federal bills")
	}

	if s.openstates != nil {
		for _, state := range s.states {
			bills, err := s.openstates.FetchState(ctx, state)
			if err != nil {
				s.logger.Warn("state bill fetch failed",
					zap.String("state", state), zap.Error(err))
				continue
			}
			s.store(ctx, bills)
		}
	} else {
		s.logger.Debug("OpenStates API key not configured, skipping state bills")
	}

	if s.summaries != nil {
		if err := s.summaries.Backfill(ctx, summaryBackfillBatch); err != nil {
			s.logger.Warn("AI summary backfill failed", zap.Error(err))
		}
	}
	return ctx.Err()
}

func (s *Service) store(ctx context.Context, bills []SourceBill) {
	for _, sb := range bills {
		if sb.Raw != nil {
			if err := s.archive.Archive(ctx, sb.Source, sb.Bill.ExternalID, sb.Raw); err != nil {
				s.logger.Warn("raw bill archive failed",
					zap.String("external_id", sb.Bill.ExternalID), zap.Error(err))
			}
		}

		bill := sb.Bill
		if err := s.bills.UpsertByExternalID(&bill); err != nil {
			s.logger.Warn("bill upsert failed",
				zap.String("external_id", sb.Bill.ExternalID), zap.Error(err))
		}
	}
}

// parseDate handles the YYYY-MM-DD dates both upstream APIs emit
func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
