package logger

import (
	"context"
	"sync"
	"testing"

	common_models "go-docflow/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memorySink struct {
	mu   sync.Mutex
	logs []common_models.Log
}

func (s *memorySink) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, document.(common_models.Log))
	return &mongo.InsertOneResult{}, nil
}

func TestDBCoreCopiesEntriesToWriter(t *testing.T) {
	base, observed := observer.New(zapcore.InfoLevel)
	sink := &memorySink{}
	writer := newDBLogWriter(sink, 10)

	log := zap.New(NewDBCore(base, writer)).With(zap.String("username", "alice"))
	log.Info("process submitted", zap.String("processId", "p-1"), zap.String("ip", "10.0.0.1"))
	log.Debug("below level")
	writer.Close()

	assert.Equal(t, 1, observed.Len())

	require.Len(t, sink.logs, 1)
	got := sink.logs[0]
	assert.Equal(t, "process submitted", got.Message)
	assert.Equal(t, "info", got.Level)
	assert.Equal(t, 20, got.LogLevelId)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "p-1", got.ProcessId)
	assert.Equal(t, "10.0.0.1", got.IpAddress)
}

func TestAddLogDropsWhenFull(t *testing.T) {
	writer := &DBLogWriter{logChan: make(chan LogEntry, 1), done: make(chan struct{})}
	writer.AddLog(LogEntry{Message: "first"})
	writer.AddLog(LogEntry{Message: "second"})
	assert.Len(t, writer.logChan, 1)
}

func TestLoggingAfterCloseIsDropped(t *testing.T) {
	sink := &memorySink{}
	writer := newDBLogWriter(sink, 4)
	base, _ := observer.New(zapcore.InfoLevel)
	log := zap.New(NewDBCore(base, writer))

	log.Info("before close")
	writer.Close()

	assert.NotPanics(t, func() {
		log.Info("OnStop hook executed")
		writer.AddLog(LogEntry{Message: "late"})
	})
	assert.NotPanics(t, writer.Close, "second close is a no-op")

	require.Len(t, sink.logs, 1)
	assert.Equal(t, "before close", sink.logs[0].Message)
}

func TestMapLevelToInt(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  int
	}{
		{zapcore.DebugLevel, 10},
		{zapcore.InfoLevel, 20},
		{zapcore.WarnLevel, 30},
		{zapcore.ErrorLevel, 40},
		{zapcore.FatalLevel, 50},
		{zapcore.PanicLevel, 20},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, mapLevelToInt(tt.level))
		})
	}
}
