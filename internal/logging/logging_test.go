package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestPGHandlerPersistsErrorsWithColumns(t *testing.T) {
	db := testDB(t)
	h := NewPGHandler(db, time.Hour)
	log := slog.New(h).With("operator_id", "op-1")

	log.Info("ignored below error level")
	log.Error("report resolve failed",
		"report_id", "r-1",
		"action", "resolved",
		"error", "connection reset",
		"latency_ms", 12.6,
		"type", "video",
	)
	h.Stop()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "report resolve failed", row.Message)
	require.NotNil(t, row.OperatorID)
	assert.Equal(t, "op-1", *row.OperatorID)
	require.NotNil(t, row.ReportID)
	assert.Equal(t, "r-1", *row.ReportID)
	assert.Equal(t, "resolved", row.Action)
	assert.Equal(t, "connection reset", row.Error)
	assert.Equal(t, 13, row.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, "video", extra["type"])
}

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	db := testDB(t)
	pg := NewPGHandler(db, time.Hour)
	m := NewMultiHandler(slog.NewJSONHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelDebug}), pg)

	assert.True(t, m.Enabled(context.Background(), slog.LevelDebug))
	log := slog.New(m)
	log.Warn("slow source", "source", "video")
	log.Error("source failed", "source", "livestream")
	pg.Stop()

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteOlderThan(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "recent"},
	}).Error)

	deleted, err := DeleteOlderThan(db, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "recent", rows[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestPGHandlerWritesRecordsAfterStop(t *testing.T) {
	db := testDB(t)
	h := NewPGHandler(db, time.Hour)
	log := slog.New(h)

	for i := 0; i < pgBatchSize+3; i++ {
		log.Error("source failed", "attempt", i)
	}
	h.Stop()
	h.Stop()
	log.Error("late failure", "report_id", "r-9")

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Equal(t, int64(pgBatchSize+4), count)

	var late models.SystemLog
	require.NoError(t, db.Where("message = ?", "late failure").First(&late).Error)
	require.NotNil(t, late.ReportID)
	assert.Equal(t, "r-9", *late.ReportID)
}
