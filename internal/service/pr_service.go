package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// PointsPerMergedPR is awarded every time a pull request transitions to
// merged. Points only ever go up.
const PointsPerMergedPR = 10

// PRService tracks pull requests and applies the scoring rules when one is
// merged.
type PRService struct {
	prs    repository.PRRepository
	users  repository.UserRepository
	badges repository.BadgeRepository
	log    logging.Logger
}

// NewPRService returns a PRService using the given repositories.
func NewPRService(prs repository.PRRepository, users repository.UserRepository, badges repository.BadgeRepository, log logging.Logger) *PRService {
	return &PRService{
		prs:    prs,
		users:  users,
		badges: badges,
		log:    log,
	}
}

// List returns one page of pull requests, newest first.
func (s *PRService) List(page, limit int) (*models.PullRequestPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	prs, total, err := s.prs.List((page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if prs == nil {
		prs = []*models.PullRequest{}
	}
	return &models.PullRequestPage{
		Data: prs,
		Pagination: models.Pagination{
			CurrentPage: page,
			TotalPages:  (total + limit - 1) / limit,
			TotalItems:  total,
		},
	}, nil
}

// Track records a newly observed pull request for a contributor.
func (s *PRService) Track(pr *models.PullRequest) (*models.PullRequest, error) {
	if strings.TrimSpace(pr.URL) == "" {
		return nil, NewServiceError(CodeInvalidRequest, "url is required")
	}
	if pr.UserID == "" || pr.ProjectID == "" {
		return nil, NewServiceError(CodeInvalidRequest, "user_id and project_id are required")
	}
	if _, err := s.users.GetByID(pr.UserID); err != nil {
		return nil, NewServiceError(CodeNotFound, "user not found")
	}

	pr.ID = uuid.NewString()
	pr.State = models.PRStateOpen
	if err := s.prs.Create(pr); err != nil {
		return nil, err
	}
	return s.prs.GetByID(pr.ID)
}

// Merge transitions a pull request to merged, awards points and any badge
// thresholds crossed. Merging an already-merged PR is a no-op, so the
// operation is idempotent and points stay monotonic.
func (s *PRService) Merge(prID string) (*models.PullRequest, error) {
	pr, err := s.prs.GetByID(prID)
	if err != nil {
		return nil, NewServiceError(CodeNotFound, "pull request not found")
	}
	if pr.State == models.PRStateMerged {
		return pr, nil
	}

	now := time.Now().UTC()
	if err := s.prs.UpdateState(prID, models.PRStateMerged, &now); err != nil {
		return nil, err
	}
	if err := s.users.AddMergedPR(pr.UserID, PointsPerMergedPR); err != nil {
		return nil, err
	}

	if err := s.awardBadges(pr.UserID); err != nil {
		// Badge awards are best effort; the merge itself already landed.
		s.log.Warnf("badge award failed for user %s: %v", pr.UserID, err)
	}

	s.log.Infof("pull request %s merged, %d points awarded to %s", prID, PointsPerMergedPR, pr.UserID)
	return s.prs.GetByID(prID)
}

func (s *PRService) awardBadges(userID string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	catalog, err := s.badges.Catalog()
	if err != nil {
		return err
	}
	for _, badge := range catalog {
		if user.MergedPRs >= badge.Threshold {
			if err := s.badges.Award(userID, badge.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
