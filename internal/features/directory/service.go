package directory

import (
	"context"
	"errors"
	"time"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/config"

	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/mongo"
)

const organizationKey = "organization"

// DirectoryService is the read-only view over branches, departments, roles and users.
// Store errors are returned as they are; nothing is retried.
type DirectoryService interface {
	ListBranches(ctx context.Context) ([]Branch, error)
	ListDepartmentsInitiableBy(ctx context.Context, username string) ([]Department, error)
	ListRoles(ctx context.Context, branchID string) ([]Role, error)
	GetUser(ctx context.Context, username string) (*User, error)
	Organization(ctx context.Context) (Organization, error)
	Invalidate()
}

type DirectoryServiceImpl struct {
	Repo  DirectoryRepository
	Cache *gocache.Cache
}

func NewDirectoryService(repo DirectoryRepository, cfg *config.Config) DirectoryService {
	return newDirectoryService(repo, cfg.DirectoryCacheTTL)
}

func newDirectoryService(repo DirectoryRepository, ttl time.Duration) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		Repo:  repo,
		Cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (s *DirectoryServiceImpl) Organization(ctx context.Context) (Organization, error) {
	if cached, found := s.Cache.Get(organizationKey); found {
		return cached.(Organization), nil
	}

	branches, err := s.Repo.FindBranches(ctx)
	if err != nil {
		return Organization{}, err
	}
	departments, err := s.Repo.FindDepartments(ctx)
	if err != nil {
		return Organization{}, err
	}
	refs, err := s.Repo.FindWorkflowRefs(ctx)
	if err != nil {
		return Organization{}, err
	}

	org := NewOrganization(branches, departments, refs)
	s.Cache.SetDefault(organizationKey, org)
	return org, nil
}

func (s *DirectoryServiceImpl) ListBranches(ctx context.Context) ([]Branch, error) {
	org, err := s.Organization(ctx)
	if err != nil {
		return nil, err
	}
	return org.Branches, nil
}

func (s *DirectoryServiceImpl) ListDepartmentsInitiableBy(ctx context.Context, username string) ([]Department, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	org, err := s.Organization(ctx)
	if err != nil {
		return nil, err
	}
	return org.InitiableBy(*user), nil
}

func (s *DirectoryServiceImpl) ListRoles(ctx context.Context, branchID string) ([]Role, error) {
	key := "roles:" + branchID
	if cached, found := s.Cache.Get(key); found {
		return cached.([]Role), nil
	}
	roles, err := s.Repo.FindRoles(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []Role{}
	}
	s.Cache.SetDefault(key, roles)
	return roles, nil
}

func (s *DirectoryServiceImpl) GetUser(ctx context.Context, username string) (*User, error) {
	user, err := s.Repo.FindUser(ctx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user", username)
	}
	return user, err
}

// Invalidate drops cached reference data, e.g. after a workflow is saved
func (s *DirectoryServiceImpl) Invalidate() {
	s.Cache.Flush()
}
