package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mssola/useragent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"foundry/internal/events"
	"foundry/internal/platform/metrics"
	startupmodels "foundry/internal/startup/models"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/requestcontext"
)

// DedupWindow is how long a (startup, viewer) pair stays deduplicated in
// the cookie and the marker store.
const DedupWindow = 24 * time.Hour

var tracer = otel.Tracer("foundry/view")

// StartupFinder checks that the viewed startup exists.
type StartupFinder interface {
	FindByID(ctx context.Context, startupID id.StartupID) (*startupmodels.Startup, error)
}

// Service decides whether a visit becomes a counted view.
//
// The checks run cheapest-first: browser cookie, then the shared marker
// store, then the view table. Anonymous visitors never reach the table
// check, so clearing cookies resets their count unless a marker store is
// configured.
type Service struct {
	views    Store
	markers  MarkerStore
	startups StartupFinder
	events   events.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(views Store, markers MarkerStore, startups StartupFinder, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		views:    views,
		markers:  markers,
		startups: startups,
		events:   publisher,
		metrics:  m,
		logger:   logger,
	}
}

// Record processes one visit. hasCookie is whether the browser presented
// the dedup cookie for this startup.
func (s *Service) Record(ctx context.Context, startupID id.StartupID, hasCookie bool) (Result, error) {
	ctx, span := tracer.Start(ctx, "view.record")
	defer span.End()
	span.SetAttributes(attribute.String("startup.id", startupID.String()))

	if _, err := s.startups.FindByID(ctx, startupID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Result{}, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}

	if isBot(requestcontext.UserAgent(ctx)) {
		return Result{Counted: false}, nil
	}

	if hasCookie {
		s.metrics.IncViewsDeduplicated()
		return Result{Counted: false}, nil
	}

	userID := requestcontext.UserID(ctx)
	markerKey := s.markerKey(ctx, startupID, userID)

	if s.markers != nil {
		seen, err := s.markers.Exists(ctx, markerKey)
		if err != nil {
			s.logger.WarnContext(ctx, "view marker check failed", "error", err)
		} else if seen {
			s.metrics.IncViewsDeduplicated()
			return Result{Counted: false}, nil
		}
	}

	var viewer *id.UserID
	if !userID.IsZero() {
		viewer = &userID
		viewed, err := s.views.HasViewed(ctx, startupID, userID)
		if err != nil {
			return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check view history")
		}
		if viewed {
			s.mark(ctx, markerKey)
			s.metrics.IncViewsDeduplicated()
			return Result{Counted: false}, nil
		}
	}

	now := requestcontext.Now(ctx)
	record := newView(startupID, viewer, now)
	if err := s.views.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Result{}, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record view")
	}

	s.mark(ctx, markerKey)
	s.metrics.IncViewsRecorded()
	s.emit(ctx, events.New(events.TypeViewRecorded, now, startupID.String(), userID.String()))
	return Result{Counted: true}, nil
}

func (s *Service) markerKey(ctx context.Context, startupID id.StartupID, userID id.UserID) string {
	viewer := "anon:" + requestcontext.ClientIP(ctx)
	if !userID.IsZero() {
		viewer = userID.String()
	}
	return "view:" + startupID.String() + ":" + viewer
}

func (s *Service) mark(ctx context.Context, key string) {
	if s.markers == nil {
		return
	}
	if _, err := s.markers.Mark(ctx, key, DedupWindow); err != nil {
		s.logger.WarnContext(ctx, "failed to set view marker", "error", err)
	}
}

// isBot filters crawlers so scraper traffic never inflates view counts.
func isBot(rawUA string) bool {
	if rawUA == "" {
		return false
	}
	return useragent.New(rawUA).Bot()
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit event",
			"event_type", event.Type,
			"error", err,
		)
	}
}
