package service

import (
	"context"
	"errors"
	"sync"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/messana"
	"messana_bridge/internal/models"
	"messana_bridge/internal/repository"

	"github.com/google/uuid"
)

const recorderQueueSize = 64

// Recorder persists cycle outcomes: zone readings after each success and one
// failure event when a device goes from healthy to failing.
type Recorder struct {
	eventRepo   repository.EventRepo
	readingRepo repository.ReadingRepo
	log         *logger.Logger

	queue chan Update

	mu      sync.Mutex
	failing map[string]bool
}

func NewRecorder(eventRepo repository.EventRepo, readingRepo repository.ReadingRepo, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{
		eventRepo:   eventRepo,
		readingRepo: readingRepo,
		log:         log,
		queue:       make(chan Update, recorderQueueSize),
		failing:     make(map[string]bool),
	}
}

// Observe is the coordinator subscription callback. It never blocks: when the
// queue is full the update is dropped and logged.
func (r *Recorder) Observe(u Update) {
	select {
	case r.queue <- u:
	default:
		r.log.Warnw("recorder_queue_full", "device", u.Device)
	}
}

// Run drains the queue until ctx is canceled.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-r.queue:
			r.handle(ctx, u)
		}
	}
}

// RecordSetup appends a SETUP event for a device whose first refresh succeeded.
func (r *Recorder) RecordSetup(ctx context.Context, device string, snap *models.Snapshot) {
	meta := map[string]any{}
	if snap != nil {
		meta["zones"] = len(snap.Zones)
		meta["hc_groups"] = len(snap.HCGroups)
	}
	r.append(ctx, models.Event{Device: device, Type: models.EventSetup, Description: "device ready", Metadata: meta})
}

func (r *Recorder) handle(ctx context.Context, u Update) {
	if u.Err != nil {
		if !r.transition(u.Device, true) {
			return
		}
		typ := models.EventRefreshFailed
		if errors.Is(u.Err, messana.ErrAuth) {
			typ = models.EventAuthFailed
		}
		kind, _ := messana.KindOf(u.Err)
		r.append(ctx, models.Event{
			OccurredAt:  u.At,
			Device:      u.Device,
			Type:        typ,
			Description: u.Err.Error(),
			Metadata:    map[string]any{"kind": kind.String()},
		})
		return
	}

	r.transition(u.Device, false)
	if r.readingRepo == nil {
		return
	}
	rows := models.ReadingsFromSnapshot(u.Device, u.Snapshot)
	if err := r.readingRepo.AppendBatch(ctx, rows); err != nil {
		r.log.Errorw("readings_append_failed", "device", u.Device, "rows", len(rows), "err", err)
	}
}

// transition records the device's health and reports whether it changed.
func (r *Recorder) transition(device string, failing bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing[device] == failing {
		return false
	}
	r.failing[device] = failing
	return true
}

func (r *Recorder) append(ctx context.Context, e models.Event) {
	if r.eventRepo == nil {
		return
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if err := r.eventRepo.Append(ctx, e); err != nil {
		r.log.Errorw("event_append_failed", "device", e.Device, "type", e.Type, "err", err)
	}
}
