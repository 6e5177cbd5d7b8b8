package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "go-docflow/internal/common/models"
	"go-docflow/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap/zapcore"
)

const LogsCollection = "logs"

// LogEntry holds the data passed from Zap to the worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	Username  string
	ProcessId string
	Caller    string
	Time      time.Time
}

// LogSink persists a single log record
type LogSink interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	sink    LogSink
	logChan chan LogEntry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewDBLogWriter initializes the worker on the logs collection
func NewDBLogWriter(mongodb *database.MongodbDB) *DBLogWriter {
	return newDBLogWriter(mongodb.DB.Collection(LogsCollection), 1000)
}

func newDBLogWriter(sink LogSink, buffer int) *DBLogWriter {
	writer := &DBLogWriter{
		sink:    sink,
		logChan: make(chan LogEntry, buffer),
		done:    make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by the zap core. It never blocks the request path.
// Entries logged after Close are dropped.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits until the buffer is drained
func (w *DBLogWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.logChan)
	w.mu.Unlock()

	<-w.done
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		record := common_models.Log{
			Message:      entry.Message,
			Level:        entry.Level.String(),
			LogLevelId:   mapLevelToInt(entry.Level),
			Caller:       entry.Caller,
			Username:     entry.Username,
			IpAddress:    entry.IpAddress,
			ProcessId:    entry.ProcessId,
			CreatedOnUtc: entry.Time.UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Errors are ignored to keep the app running
		_, _ = w.sink.InsertOne(ctx, record)
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
