package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"messana_bridge/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func f64(v float64) *float64 { return &v }

func TestReadingAppendBatch(t *testing.T) {
	t.Parallel()
	mock, _, readings := newSQLMock(t)

	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertReadingSQL))
	prep.ExpectExec().
		WithArgs("home", 0, "Living", 21.5, 40.0, nil, 21.0, true, 1, "2026-02-03 04:05:06.000").
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("home", 1, "Bedroom", nil, nil, nil, nil, false, 0, "2026-02-03 04:05:06.000").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := readings().AppendBatch(testCtx(t), []models.ZoneReading{
		{Device: "home", ZoneID: 0, Name: "Living", Temperature: f64(21.5), Humidity: f64(40), Setpoint: f64(21), PowerOn: true, ThermalStatus: models.ThermalHeat, RecordedAt: at},
		{Device: "home", ZoneID: 1, Name: "Bedroom", RecordedAt: at},
	})
	if err != nil {
		t.Fatalf("AppendBatch: %v", err)
	}
}

func TestReadingAppendBatch_Empty(t *testing.T) {
	t.Parallel()
	_, _, readings := newSQLMock(t)
	if err := readings().AppendBatch(testCtx(t), nil); err != nil {
		t.Fatalf("AppendBatch(nil): %v", err)
	}
}

func TestReadingAppendBatch_RollsBackOnError(t *testing.T) {
	t.Parallel()
	mock, _, readings := newSQLMock(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(insertReadingSQL)).
		ExpectExec().
		WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := readings().AppendBatch(testCtx(t), []models.ZoneReading{{Device: "home", Name: "x", RecordedAt: time.Now()}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestReadingList(t *testing.T) {
	t.Parallel()
	mock, _, readings := newSQLMock(t)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	at := from.Add(time.Hour)
	query := selectReadingsSQL + " WHERE device = ? AND zone_id = ? AND recorded_at >= ? ORDER BY recorded_at DESC LIMIT ?"

	rows := sqlmock.NewRows([]string{"device", "zone_id", "name", "temperature", "humidity", "dewpoint", "setpoint", "power_on", "thermal_status", "recorded_at"}).
		AddRow("home", 2, "Office", 22.5, nil, 8.0, 21.0, true, 2, at)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("home", 2, "2026-02-01 00:00:00.000", defaultReadingLimit).
		WillReturnRows(rows)

	got, err := readings().List(testCtx(t), "home", 2, from, time.Time{}, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 row, got %d", len(got))
	}
	r := got[0]
	if r.Temperature == nil || *r.Temperature != 22.5 || r.Humidity != nil || r.ThermalStatus != models.ThermalCool || !r.RecordedAt.Equal(at) {
		t.Fatalf("unexpected row %+v", r)
	}
}

func TestReadingList_QueryError(t *testing.T) {
	t.Parallel()
	mock, _, readings := newSQLMock(t)

	mock.ExpectQuery("SELECT device, zone_id").WillReturnError(errors.New("locked"))
	if _, err := readings().List(testCtx(t), "home", 0, time.Time{}, time.Time{}, 10); err == nil {
		t.Fatal("expected error")
	}
}
