package service

import (
	"context"
	"time"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/models"
	"messana_bridge/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Control issues commands, each followed by a refresh of the device.
type Control interface {
	SetSystemPower(ctx context.Context, device string, on bool) error
	SetHCMode(ctx context.Context, device string, group int, mode models.HCMode) error
	SetZoneSetpoint(ctx context.Context, device string, zone int, temperature float64) error
	SetZoneStatus(ctx context.Context, device string, zone int, on bool) error
	DetachSchedule(ctx context.Context, device string, zone int) error
	SetClimateMode(ctx context.Context, device string, mode models.ClimateMode) error
	Refresh(ctx context.Context, device string) (*models.Snapshot, error)
}

// Monitoring exposes read-only views of the retained snapshots.
type Monitoring interface {
	GetSnapshot(device string) (SnapshotView, error)
	GetZone(device string, zone int) (models.Zone, error)
	Diagnostics(device string) (Diagnostics, error)
	Statuses() []Status
	Ready() bool
}

type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

type History interface {
	List(ctx context.Context, f HistoryFilter) ([]models.ZoneReading, error)
}

// Devices is the subscription side of the hub used by push adapters.
type Devices interface {
	Registry
	Subscribe(fn func(Update)) (cancel func())
}

// Service aggregates everything the adapters need.
type Service struct {
	Control
	Monitoring
	EventLog
	History
	Authorization
	Devices Devices
}

// AuthConfig carries the token settings.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

func NewService(repos *repository.Repository, hub *Hub, auth AuthConfig, log *logger.Logger) *Service {
	return &Service{
		Control:       NewControlService(hub, repos.EventRepo, log),
		Monitoring:    NewMonitoringService(hub),
		EventLog:      NewEventLogService(repos.EventRepo),
		History:       NewHistoryService(hub, repos.ReadingRepo),
		Authorization: NewAuthService(repos.Auth, auth.SigningKey, auth.TokenTTL),
		Devices:       hub,
	}
}
