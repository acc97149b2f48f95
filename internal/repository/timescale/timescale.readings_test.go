package timescale

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/pumpguard/internal/database"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
)

var readingCols = []string{
	"id", "upload_id", "ts", "fault_type",
	"rotational_speed_rpm", "torque_nm", "vibration_x_mm_s", "vibration_y_mm_s",
	"vibration_z_mm_s", "temperature_c", "pressure_bar", "flow_rate_lpm",
}

func newMockRepo(t *testing.T) (*ReadingRepo, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return &ReadingRepo{TimeScaleBaseRepo{db: database.Wrap(sqlx.NewDb(raw, "postgres"))}}, mock
}

func TestNewReadingRepositoryCreatesSchema(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS pump_readings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SELECT create_hypertable").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_pump_readings_upload").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = NewReadingRepository(database.Wrap(sqlx.NewDb(raw, "postgres")))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReadings(t *testing.T) {
	repo, mock := newMockRepo(t)
	ts := time.Date(2024, 1, 4, 2, 0, 0, 0, time.UTC)
	readings := []models.Reading{
		{Timestamp: ts, Fault: models.Normal, SensorValues: models.SensorValues{TemperatureC: 70.2}},
		{Timestamp: ts.Add(time.Hour), Fault: models.BearingFault},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO pump_readings")
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "upl_1", ts, "Normal", 0.0, 0.0, 0.0, 0.0, 0.0, 70.2, 0.0, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "upl_1", ts.Add(time.Hour), "Bearing Fault", 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.InsertReadings(context.Background(), "upl_1", readings)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReadingsRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	readings := []models.Reading{{Timestamp: time.Now(), Fault: models.Normal}}

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO pump_readings").ExpectExec().WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	_, err := repo.InsertReadings(context.Background(), "upl_1", readings)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDatabase))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertNoReadings(t *testing.T) {
	repo, mock := newMockRepo(t)
	n, err := repo.InsertReadings(context.Background(), "upl_1", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReadings(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT .* FROM pump_readings WHERE ts >= \$1 AND ts < \$2 ORDER BY ts ASC`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows(readingCols).
			AddRow("rd_1", "upl_1", from.Add(2*time.Hour), "Misalignment", 1500.0, 40.0, 2.1, 1.9, 2.05, 70.2, 5.1, 201.5).
			AddRow("rd_2", "upl_1", from.Add(3*time.Hour), "garbage", 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0))

	readings, err := repo.GetReadings(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, models.Misalignment, readings[0].Fault)
	assert.Equal(t, 201.5, readings[0].FlowRateLPM)
	assert.Equal(t, models.Unknown, readings[1].Fault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReadingsUnbounded(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .* FROM pump_readings ORDER BY ts ASC`).
		WillReturnRows(sqlmock.NewRows(readingCols))

	readings, err := repo.GetReadings(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.NotNil(t, readings)
	assert.Empty(t, readings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReadings(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM pump_readings WHERE upload_id = \$1`).WithArgs("upl_1").WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteByUpload(context.Background(), "upl_1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
