package service

import (
	"context"
	"fmt"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

type IncomingCallService struct {
	repo ports.IncomingCallRepository
}

func NewIncomingCallService(repo ports.IncomingCallRepository) *IncomingCallService {
	return &IncomingCallService{repo: repo}
}

func (s *IncomingCallService) Get(ctx context.Context, tenantID, id string) (*domain.IncomingCall, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *IncomingCallService) List(ctx context.Context, filter ports.ListFilter) (*ports.ListResult[*domain.IncomingCall], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list incoming calls: %w", err)
	}
	return ports.NewListResult(items, total, filter.Page), nil
}
