package routing

import (
	"context"

	"go-docflow/internal/features/directory"

	"go.uber.org/zap"
)

type RoutingService interface {
	ResolveRouting(ctx context.Context, selection Selection) (Routing, error)
}

type RoutingServiceImpl struct {
	Directory directory.DirectoryService
	Logger    *zap.Logger
}

func NewRoutingService(dir directory.DirectoryService, logger *zap.Logger) RoutingService {
	return &RoutingServiceImpl{
		Directory: dir,
		Logger:    logger,
	}
}

// ResolveRouting loads the organization and resolves against that snapshot
func (s *RoutingServiceImpl) ResolveRouting(ctx context.Context, selection Selection) (Routing, error) {
	org, err := s.Directory.Organization(ctx)
	if err != nil {
		return Routing{}, err
	}

	routing, err := Resolve(org, selection)
	if err != nil {
		s.Logger.Debug("Routing selection rejected", zap.Error(err))
		return Routing{}, err
	}
	return routing, nil
}
