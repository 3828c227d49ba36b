package service

import (
	"context"

	"messana_bridge/internal/models"
	"messana_bridge/internal/repository"
)

// HistoryService reads the persisted zone readings. It is an audit trail for
// adapters and never feeds a coordinator.
type HistoryService struct {
	devices     Registry
	readingRepo repository.ReadingRepo
}

func NewHistoryService(devices Registry, readingRepo repository.ReadingRepo) *HistoryService {
	return &HistoryService{devices: devices, readingRepo: readingRepo}
}

func (s *HistoryService) List(ctx context.Context, f HistoryFilter) ([]models.ZoneReading, error) {
	if _, err := s.devices.Device(f.Device); err != nil {
		return nil, err
	}
	if f.Zone < 0 {
		return nil, ErrInvalidZone
	}
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	return s.readingRepo.List(ctx, f.Device, f.Zone, from, to, f.Limit)
}
