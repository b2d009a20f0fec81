package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Kamar-Folarin/issue-stats/internal/db"
	"github.com/Kamar-Folarin/issue-stats/internal/github"
	"github.com/Kamar-Folarin/issue-stats/internal/models"
)

// IssueClient is the slice of the GitHub client the service uses.
type IssueClient interface {
	ListIssues(ctx context.Context, owner, repo string, maxPages int) ([]models.Issue, error)
	CountIssues(ctx context.Context, owner, repo string, state github.IssueState) (int, error)
}

// Service wires the issue fetcher, the daily aggregator and the
// persistence layer together.
type Service struct {
	client IssueClient
	store  db.Store
	logger *logrus.Logger
	now    func() time.Time
}

func NewService(client IssueClient, store db.Store, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// BackfillHistory fetches the repository's full issue list, aggregates
// it into one record per day from FirstCommitDate through today, and
// persists the whole range in a single transaction. The computed
// mapping is returned whether or not persistence ran; dryRun skips the
// write entirely.
func (s *Service) BackfillHistory(ctx context.Context, owner, repo string, maxPages int, dryRun bool) (map[string]models.DayCounts, error) {
	issues, err := s.client.ListIssues(ctx, owner, repo, maxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}

	counts := AggregateDaily(issues, FirstCommitDate, s.now())

	if dryRun {
		s.logger.WithFields(logrus.Fields{
			"owner": owner,
			"repo":  repo,
			"days":  len(counts),
		}).Info("Dry run, skipping persistence")
		return counts, nil
	}

	if err := s.store.SaveDayStats(ctx, DayStats(counts)); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"owner":  owner,
		"repo":   repo,
		"issues": len(issues),
		"days":   len(counts),
	}).Info("Backfilled issue history")

	return counts, nil
}

// WriteSnapshot records GitHub's live aggregate open and closed issue
// counts as today's day record. It fails with a duplicate-date error
// when today's record already exists.
func (s *Service) WriteSnapshot(ctx context.Context, owner, repo string) (*models.DayStat, error) {
	var open, closed int

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		open, err = s.client.CountIssues(egCtx, owner, repo, github.IssueStateOpen)
		return err
	})
	eg.Go(func() error {
		var err error
		closed, err = s.client.CountIssues(egCtx, owner, repo, github.IssueStateClosed)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch issue counts: %w", err)
	}

	stat := &models.DayStat{
		Date:        s.now().UTC().Format(models.DateLayout),
		TotalOpened: open,
		TotalClosed: closed,
	}

	if err := s.store.SaveDayStat(ctx, stat); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"owner": owner,
		"repo":  repo,
		"date":  stat.Date,
	}).Info("Wrote issue count snapshot")

	return stat, nil
}

// ListHistory returns stored day records for read-back.
func (s *Service) ListHistory(ctx context.Context, limit int) ([]*models.DayStat, error) {
	return s.store.ListDayStats(ctx, limit)
}
