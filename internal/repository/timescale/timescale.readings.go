// FilePath: internal/repository/timescale/timescale.readings.go
package timescale

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/itsatony/pumpguard/internal/database"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/jmoiron/sqlx"
	nuts "github.com/vaudience/go-nuts"
)

const readingColumns = `id, upload_id, ts, fault_type,
	rotational_speed_rpm, torque_nm, vibration_x_mm_s, vibration_y_mm_s,
	vibration_z_mm_s, temperature_c, pressure_bar, flow_rate_lpm`

type ReadingRepo struct {
	TimeScaleBaseRepo
}

// NewReadingRepository creates the readings repository and makes sure the hypertable exists
func NewReadingRepository(db database.DB) (*ReadingRepo, error) {
	repo := &ReadingRepo{TimeScaleBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ReadingRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS pump_readings (
			id TEXT NOT NULL,
			upload_id TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL,
			fault_type TEXT NOT NULL,
			rotational_speed_rpm DOUBLE PRECISION NOT NULL DEFAULT 0,
			torque_nm DOUBLE PRECISION NOT NULL DEFAULT 0,
			vibration_x_mm_s DOUBLE PRECISION NOT NULL DEFAULT 0,
			vibration_y_mm_s DOUBLE PRECISION NOT NULL DEFAULT 0,
			vibration_z_mm_s DOUBLE PRECISION NOT NULL DEFAULT 0,
			temperature_c DOUBLE PRECISION NOT NULL DEFAULT 0,
			pressure_bar DOUBLE PRECISION NOT NULL DEFAULT 0,
			flow_rate_lpm DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (id, ts)
		)`,
		`SELECT create_hypertable('pump_readings', 'ts',
			chunk_time_interval => INTERVAL '7 days',
			if_not_exists => TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pump_readings_upload
		 ON pump_readings(upload_id, ts)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	return nil
}

// InsertReadings stores all readings of one upload atomically.
func (r *ReadingRepo) InsertReadings(ctx context.Context, uploadID string, readings []models.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}
	query := `INSERT INTO pump_readings (` + readingColumns + `)
		VALUES (:id, :upload_id, :ts, :fault_type,
			:rotational_speed_rpm, :torque_nm, :vibration_x_mm_s, :vibration_y_mm_s,
			:vibration_z_mm_s, :temperature_c, :pressure_bar, :flow_rate_lpm)`

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, query)
		if err != nil {
			return errors.NewDatabaseError("failed to prepare reading insert", err)
		}
		defer stmt.Close()

		for _, reading := range readings {
			reading.ID = nuts.NID("rd", 12)
			reading.UploadID = uploadID
			reading.Timestamp = reading.Timestamp.UTC()
			if _, err := stmt.ExecContext(ctx, reading); err != nil {
				return errors.NewDatabaseError("failed to insert reading", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	nuts.L.Debugf("[TimescaleDB] Stored %d readings for upload %s", len(readings), uploadID)
	return len(readings), nil
}

func (r *ReadingRepo) GetReadings(ctx context.Context, from, to time.Time) ([]models.Reading, error) {
	var where []string
	var args []interface{}
	if !from.IsZero() {
		args = append(args, from)
		where = append(where, "ts >= $"+strconv.Itoa(len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		where = append(where, "ts < $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + readingColumns + ` FROM pump_readings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ts ASC, id ASC`

	readings := []models.Reading{}
	if err := r.db.GetDB().SelectContext(ctx, &readings, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to get readings", err)
	}
	for i := range readings {
		readings[i].Timestamp = readings[i].Timestamp.UTC()
		readings[i].Fault = models.ParseFaultLabel(string(readings[i].Fault))
	}
	return readings, nil
}

func (r *ReadingRepo) DeleteByUpload(ctx context.Context, uploadID string) (int64, error) {
	result, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM pump_readings WHERE upload_id = $1`, uploadID)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete upload readings", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows, nil
}
