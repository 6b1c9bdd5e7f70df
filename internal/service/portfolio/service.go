// Package portfolio orchestrates a dashboard request: load an immutable
// snapshot of projects and overrides, run the metrics engine and engagement
// analysis over it, and assemble the view payloads. Each request works on
// its own snapshot; nothing here mutates shared state.
package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/model"
	"github.com/cfolkers/caribou-portal/internal/repository"
	"github.com/cfolkers/caribou-portal/internal/service/engagement"
	"github.com/cfolkers/caribou-portal/internal/service/override"
	"github.com/cfolkers/caribou-portal/internal/service/pmbok"
	"github.com/cfolkers/caribou-portal/pkg/metrics"
)

const snapshotCacheKey = "portal:projects_snapshot"

// topN is the ranking depth for people and client leaderboards.
const topN = 10

// Snapshot is one immutable view of the portfolio: the project set and the
// override map as of a single load.
type Snapshot struct {
	Projects  []model.Project
	Overrides model.OverrideMap
	FetchedAt time.Time
}

type Service struct {
	engagement *engagement.Service
	overrides  *override.Service
	snapshots  *repository.SnapshotRepository
	engine     *pmbok.Engine

	// cache is optional; nil disables the snapshot cache entirely.
	cache    *redis.Client
	cacheTTL time.Duration

	operator string
	logger   *zap.Logger
}

func NewService(
	eng *engagement.Service,
	overrides *override.Service,
	snapshots *repository.SnapshotRepository,
	engine *pmbok.Engine,
	cache *redis.Client,
	cacheTTL time.Duration,
	operator string,
	logger *zap.Logger,
) *Service {
	return &Service{
		engagement: eng,
		overrides:  overrides,
		snapshots:  snapshots,
		engine:     engine,
		cache:      cache,
		cacheTTL:   cacheTTL,
		operator:   operator,
		logger:     logger,
	}
}

// Load assembles a snapshot for one request: cached rows when fresh, the
// object-storage blob otherwise, plus the current override map.
func (s *Service) Load(ctx context.Context) Snapshot {
	rows := s.cachedRows(ctx)
	if rows == nil {
		rows = s.snapshots.Load(ctx)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, model.ProjectFromAttributes(row))
	}

	return Snapshot{
		Projects:  projects,
		Overrides: s.overrides.All(ctx),
		FetchedAt: time.Now(),
	}
}

// Refresh re-fetches projects and resource assignments from the feature
// service, joins them, and rewrites the snapshot blob. The previous snapshot
// is kept when the upstream returns nothing, so an outage does not wipe the
// dashboard.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.RecordRefresh(time.Since(start)) }()

	projects := s.engagement.FetchProjects(ctx)
	if len(projects) == 0 {
		return 0, errors.New("no program projects fetched, keeping previous snapshot")
	}

	resources := s.engagement.FetchResources(ctx, projects)
	byProject := make(map[string][]model.ResourceAssignment)
	for _, r := range resources {
		if r.ProjectID != "" {
			byProject[r.ProjectID] = append(byProject[r.ProjectID], r)
		}
	}

	rows := make([]model.Attributes, 0, len(projects))
	for _, p := range projects {
		row := make(model.Attributes, len(p.Attrs)+1)
		for k, v := range p.Attrs {
			row[k] = v
		}
		if team := byProject[p.ID]; len(team) > 0 {
			row["Team_Members"] = team
		}
		rows = append(rows, row)
	}

	if err := s.snapshots.Save(ctx, rows); err != nil {
		return 0, fmt.Errorf("refresh: %w", err)
	}
	s.cacheRows(ctx, rows)

	s.logger.Info("portfolio snapshot refreshed",
		zap.Int("projects", len(rows)),
		zap.Int("resources", len(resources)),
		zap.Duration("took", time.Since(start)),
	)
	return len(rows), nil
}

func (s *Service) cachedRows(ctx context.Context) []model.Attributes {
	if s.cache == nil {
		metrics.RecordSnapshotCache("bypass")
		return nil
	}

	data, err := s.cache.Get(ctx, snapshotCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
		metrics.RecordSnapshotCache("miss")
		return nil
	}

	var rows []model.Attributes
	if err := json.Unmarshal(data, &rows); err != nil {
		s.logger.Warn("snapshot cache entry malformed, ignoring", zap.Error(err))
		metrics.RecordSnapshotCache("miss")
		return nil
	}
	metrics.RecordSnapshotCache("hit")
	return rows
}

func (s *Service) cacheRows(ctx context.Context, rows []model.Attributes) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, snapshotCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("snapshot cache write failed", zap.Error(err))
	}
}

// ProjectByID finds a project in the snapshot.
func (s *Service) ProjectByID(snap Snapshot, id string) (model.Project, bool) {
	for _, p := range snap.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}
