package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"messana_bridge/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

const (
	insertReadingSQL = `
		INSERT INTO zone_readings (device, zone_id, name, temperature, humidity, dewpoint, setpoint, power_on, thermal_status, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectReadingsSQL = `SELECT device, zone_id, name, temperature, humidity, dewpoint, setpoint, power_on, thermal_status, recorded_at FROM zone_readings`

	defaultReadingLimit = 500
)

// AppendBatch writes all rows of one refresh in a single transaction.
func (r *ReadingSQLite) AppendBatch(ctx context.Context, rows []models.ZoneReading) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin readings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertReadingSQL)
	if err != nil {
		return fmt.Errorf("prepare reading insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		at := row.RecordedAt
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.ExecContext(ctx,
			row.Device,
			row.ZoneID,
			row.Name,
			nullFloat(row.Temperature),
			nullFloat(row.Humidity),
			nullFloat(row.Dewpoint),
			nullFloat(row.Setpoint),
			row.PowerOn,
			int(row.ThermalStatus),
			formatTime(at),
		); err != nil {
			return fmt.Errorf("insert reading %s/%d: %w", row.Device, row.ZoneID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit readings: %w", err)
	}
	return nil
}

// List returns the newest readings of one zone in [from, to], newest first.
// A non-positive limit falls back to defaultReadingLimit.
func (r *ReadingSQLite) List(ctx context.Context, device string, zone int, from, to time.Time, limit int) ([]models.ZoneReading, error) {
	conds := []string{"device = ?", "zone_id = ?"}
	args := []any{device, zone}

	if !from.IsZero() {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, formatTime(to))
	}
	if limit <= 0 {
		limit = defaultReadingLimit
	}
	args = append(args, limit)

	q := selectReadingsSQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY recorded_at DESC LIMIT ?"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ZoneReading
	for rows.Next() {
		var (
			rd                                        models.ZoneReading
			temperature, humidity, dewpoint, setpoint sql.NullFloat64
			thermal                                   int
		)
		if err := rows.Scan(
			&rd.Device,
			&rd.ZoneID,
			&rd.Name,
			&temperature,
			&humidity,
			&dewpoint,
			&setpoint,
			&rd.PowerOn,
			&thermal,
			&rd.RecordedAt,
		); err != nil {
			return nil, err
		}
		rd.Temperature = floatPtr(temperature)
		rd.Humidity = floatPtr(humidity)
		rd.Dewpoint = floatPtr(dewpoint)
		rd.Setpoint = floatPtr(setpoint)
		rd.ThermalStatus = models.ThermalStatus(thermal)
		rd.RecordedAt = rd.RecordedAt.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
