package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tgfscan/blink-scan/internal/lightning"
)

// LightningStore queries lightning strokes from the ground network
// database table populated by the ingest side of the pipeline.
type LightningStore struct {
	db *DB
}

// NewLightningStore wraps db for lightning stroke queries.
func NewLightningStore(db *DB) *LightningStore {
	return &LightningStore{db: db}
}

// GetLightnings returns every stroke recorded in [start, end), ordered by
// time. The caller (the signal builder) narrows this further by distance
// and association window; the store's job is just the time-range prefilter.
func (s *LightningStore) GetLightnings(ctx context.Context, start, end time.Time) ([]lightning.Stroke, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stroke_time, latitude, longitude, residual, station_count, energy, energy_uncertainty, estimated_station_count
		FROM lightning_strokes
		WHERE stroke_time >= ? AND stroke_time < ?
		ORDER BY stroke_time ASC
	`, start.UTC().Format(TimeFormat), end.UTC().Format(TimeFormat))
	if err != nil {
		return nil, fmt.Errorf("query lightning strokes: %w", err)
	}
	defer rows.Close()

	var strokes []lightning.Stroke
	for rows.Next() {
		var (
			timeStr       string
			lat, lon      float64
			residual      float64
			stationCount  int
			energy        sql.NullFloat64
			energyUncert  sql.NullFloat64
			estStationCnt sql.NullInt64
		)
		if err := rows.Scan(&timeStr, &lat, &lon, &residual, &stationCount, &energy, &energyUncert, &estStationCnt); err != nil {
			return nil, fmt.Errorf("scan lightning stroke row: %w", err)
		}
		t, err := time.Parse(TimeFormat, timeStr)
		if err != nil {
			return nil, fmt.Errorf("parse stroke_time %q: %w", timeStr, err)
		}

		stroke := lightning.Stroke{
			Time:         t.UTC(),
			Lat:          lat,
			Lon:          lon,
			Residual:     residual,
			StationCount: stationCount,
		}
		if energy.Valid {
			v := energy.Float64
			stroke.Energy = &v
		}
		if energyUncert.Valid {
			v := energyUncert.Float64
			stroke.EnergyUncertainty = &v
		}
		if estStationCnt.Valid {
			v := int(estStationCnt.Int64)
			stroke.EstimatedStationCount = &v
		}
		strokes = append(strokes, stroke)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lightning stroke rows: %w", err)
	}

	return strokes, nil
}

// InsertStroke records a single stroke. Used by the ingest side and by
// test fixtures.
func (s *LightningStore) InsertStroke(ctx context.Context, stroke lightning.Stroke) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lightning_strokes (stroke_time, latitude, longitude, residual, station_count, energy, energy_uncertainty, estimated_station_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		stroke.Time.UTC().Format(TimeFormat),
		stroke.Lat,
		stroke.Lon,
		stroke.Residual,
		stroke.StationCount,
		nullableFloat(stroke.Energy),
		nullableFloat(stroke.EnergyUncertainty),
		nullableInt(stroke.EstimatedStationCount),
	)
	if err != nil {
		return fmt.Errorf("insert lightning stroke: %w", err)
	}
	return nil
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
