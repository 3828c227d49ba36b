package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/models"
	"messana_bridge/internal/repository"

	"github.com/google/uuid"
)

// ControlService dispatches user commands. Every command is followed by a full
// refresh of the device so the snapshot reflects its effects.
type ControlService struct {
	devices   Registry
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewControlService(devices Registry, eventRepo repository.EventRepo, log *logger.Logger) *ControlService {
	if log == nil {
		log = logger.Nop()
	}
	return &ControlService{devices: devices, eventRepo: eventRepo, log: log}
}

// SetSystemPower switches the whole controller.
func (s *ControlService) SetSystemPower(ctx context.Context, device string, on bool) error {
	return s.dispatch(ctx, device, "system power "+onOff(on), map[string]any{"on": on},
		func(ctx context.Context, d *DeviceHandle) error {
			return d.Client.SetSystemPower(ctx, on)
		})
}

func (s *ControlService) SetHCMode(ctx context.Context, device string, group int, mode models.HCMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	return s.dispatch(ctx, device, fmt.Sprintf("h/c group %d mode %s", group, mode), map[string]any{"group": group, "mode": int(mode)},
		func(ctx context.Context, d *DeviceHandle) error {
			if _, ok := d.Coordinator.Snapshot().Group(group); !ok {
				return fmt.Errorf("%w: %d", ErrInvalidGroup, group)
			}
			return d.Client.SetHCMode(ctx, group, mode)
		})
}

func (s *ControlService) SetZoneSetpoint(ctx context.Context, device string, zone int, temperature float64) error {
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return fmt.Errorf("%w: setpoint %v", ErrInvalidValue, temperature)
	}
	return s.dispatch(ctx, device, fmt.Sprintf("zone %d setpoint %.1f", zone, temperature), map[string]any{"zone": zone, "temperature": temperature},
		func(ctx context.Context, d *DeviceHandle) error {
			if err := requireZone(d, zone); err != nil {
				return err
			}
			return d.Client.SetZoneSetpoint(ctx, zone, temperature)
		})
}

func (s *ControlService) SetZoneStatus(ctx context.Context, device string, zone int, on bool) error {
	return s.dispatch(ctx, device, fmt.Sprintf("zone %d %s", zone, onOff(on)), map[string]any{"zone": zone, "on": on},
		func(ctx context.Context, d *DeviceHandle) error {
			if err := requireZone(d, zone); err != nil {
				return err
			}
			return d.Client.SetZoneStatus(ctx, zone, on)
		})
}

// DetachSchedule turns off schedule following for a zone.
func (s *ControlService) DetachSchedule(ctx context.Context, device string, zone int) error {
	return s.dispatch(ctx, device, fmt.Sprintf("zone %d detach schedule", zone), map[string]any{"zone": zone},
		func(ctx context.Context, d *DeviceHandle) error {
			if err := requireZone(d, zone); err != nil {
				return err
			}
			_, err := d.Client.SetZoneScheduleOn(ctx, zone, false)
			return err
		})
}

// SetClimateMode maps a combined mode onto the controller: off switches system
// power off; any other mode switches it on and sets H/C group 0.
func (s *ControlService) SetClimateMode(ctx context.Context, device string, mode models.ClimateMode) error {
	if _, err := models.ParseClimateMode(string(mode)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return s.dispatch(ctx, device, "climate mode "+string(mode), map[string]any{"mode": string(mode)},
		func(ctx context.Context, d *DeviceHandle) error {
			if mode == models.ClimateOff {
				return d.Client.SetSystemPower(ctx, false)
			}
			if err := d.Client.SetSystemPower(ctx, true); err != nil {
				return err
			}
			hc, _ := mode.HCMode()
			return d.Client.SetHCMode(ctx, 0, hc)
		})
}

// Refresh runs an on-demand cycle.
func (s *ControlService) Refresh(ctx context.Context, device string) (*models.Snapshot, error) {
	d, err := s.devices.Device(device)
	if err != nil {
		return nil, err
	}
	return d.Coordinator.Refresh(ctx)
}

func (s *ControlService) dispatch(ctx context.Context, device, action string, meta map[string]any,
	command func(context.Context, *DeviceHandle) error,
) error {
	d, err := s.devices.Device(device)
	if err != nil {
		return err
	}

	if err := command(ctx, d); err != nil {
		if errors.Is(err, ErrInvalidZone) || errors.Is(err, ErrInvalidGroup) {
			return err
		}
		s.log.Warnw("command_failed", "device", device, "action", action, "err", err)
		meta["error"] = err.Error()
		s.appendEvent(ctx, device, models.EventCommandFailed, action, meta)
		return err
	}

	if _, err := d.Coordinator.Refresh(ctx); err != nil {
		// the command reached the device; the snapshot stays stale until the next tick
		s.log.Warnw("refresh_after_command_failed", "device", device, "action", action, "err", err)
		meta["refresh_error"] = err.Error()
	}

	s.log.Infow("command", "device", device, "action", action)
	s.appendEvent(ctx, device, models.EventCommand, action, meta)
	return nil
}

func (s *ControlService) appendEvent(ctx context.Context, device, typ, description string, meta map[string]any) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.Append(ctx, models.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Device:      device,
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Errorw("event_append_failed", "device", device, "type", typ, "err", err)
	}
}

func requireZone(d *DeviceHandle, zone int) error {
	if _, ok := d.Coordinator.Snapshot().Zone(zone); !ok {
		return fmt.Errorf("%w: %d", ErrInvalidZone, zone)
	}
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
