package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"messana_bridge/internal/models"
)

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

// normalizeToUTC

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want func(time.Time) bool
	}{
		{
			name: "zero time remains zero",
			in:   time.Time{},
			want: func(out time.Time) bool { return out.IsZero() },
		},
		{
			name: "non-UTC converted to UTC preserving instant",
			in:   mustTimeIn(fixedZone("UTC+3", 3*3600), 2026, time.August, 1, 12, 34, 56),
			want: func(out time.Time) bool {
				exp := time.Date(2026, time.August, 1, 9, 34, 56, 0, time.UTC)
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
		{
			name: "already UTC stays UTC",
			in:   time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC),
			want: func(out time.Time) bool {
				return out.Location() == time.UTC && out.Equal(time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeToUTC(tc.in)
			if !tc.want(got) {
				t.Fatalf("unexpected normalizeToUTC result: %v (loc=%v)", got, got.Location())
			}
		})
	}
}

// normalizeRange

func Test_normalizeRange(t *testing.T) {
	t.Parallel()

	fromLocal := mustTimeIn(fixedZone("UTC+2", 2*3600), 2026, time.September, 10, 10, 0, 0)
	toUTC := time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to time.Time
		wantFrom time.Time
		wantTo   time.Time
		wantErr  error
	}{
		{name: "both zero ok"},
		{
			name:    "from after to",
			from:    time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			to:      time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
			wantErr: errInvalidTimeRange,
		},
		{
			name:     "equal bounds ok",
			from:     toUTC,
			to:       toUTC,
			wantFrom: toUTC,
			wantTo:   toUTC,
		},
		{
			name:     "open upper bound",
			from:     fromLocal,
			wantFrom: time.Date(2026, time.September, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "normalize tz",
			from:     fromLocal,
			to:       toUTC,
			wantFrom: time.Date(2026, time.September, 10, 8, 0, 0, 0, time.UTC),
			wantTo:   toUTC,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotFrom, gotTo, err := normalizeRange(tc.from, tc.to)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v; got %v", tc.wantErr, err)
			}
			if !gotFrom.Equal(tc.wantFrom) {
				t.Fatalf("from: got %v; want %v", gotFrom, tc.wantFrom)
			}
			if !gotTo.Equal(tc.wantTo) {
				t.Fatalf("to: got %v; want %v", gotTo, tc.wantTo)
			}
		})
	}
}

// EventLogService.List

func TestEventLogService_List_DelegatesNormalizedParams(t *testing.T) {
	t.Parallel()

	repo := &memEventRepo{events: []models.Event{{EventID: "1"}}}
	svc := NewEventLogService(repo)

	fromLocal := mustTimeIn(fixedZone("UTC+5", 5*3600), 2026, time.October, 1, 10, 0, 0)
	toLocal := mustTimeIn(fixedZone("UTC-2", -2*3600), 2026, time.October, 1, 12, 30, 0)

	out, err := svc.List(context.Background(), LogFilter{
		From:   fromLocal,
		To:     toLocal,
		Type:   "  command_failed ",
		Device: " home ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "1" {
		t.Fatalf("unexpected events: %+v", out)
	}

	wantFrom := time.Date(2026, time.October, 1, 5, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, time.October, 1, 14, 30, 0, 0, time.UTC)
	if !repo.gotFrom.Equal(wantFrom) {
		t.Fatalf("repo gotFrom=%v; want %v", repo.gotFrom, wantFrom)
	}
	if !repo.gotTo.Equal(wantTo) {
		t.Fatalf("repo gotTo=%v; want %v", repo.gotTo, wantTo)
	}
	if repo.gotType != models.EventCommandFailed {
		t.Fatalf("repo gotType=%q; want %q", repo.gotType, models.EventCommandFailed)
	}
	if repo.gotDevice != "home" {
		t.Fatalf("repo gotDevice=%q; want %q", repo.gotDevice, "home")
	}
}

func TestEventLogService_List_ValidationError(t *testing.T) {
	t.Parallel()

	repo := &memEventRepo{}
	svc := NewEventLogService(repo)

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !IsInvalidRange(err) {
		t.Fatalf("expected invalid range; got %v", err)
	}
	if !repo.gotFrom.IsZero() || repo.gotType != "" {
		t.Fatalf("repo should not be called on validation error")
	}
}

func TestEventLogService_List_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	repo := &memEventRepo{err: errors.New("db down")}
	svc := NewEventLogService(repo)

	_, err := svc.List(context.Background(), LogFilter{})
	if !errors.Is(err, repo.err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
}
