package logs

import (
	"context"
	"fmt"
	"time"

	common_models "go-docflow/internal/common/models"
	"go-docflow/internal/config"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type LogService interface {
	List(ctx context.Context, filter Filter) ([]common_models.Log, error)
	ExportToExcel(ctx context.Context, filter Filter) ([]byte, string, error)
	// Cleanup removes entries older than the retention window
	Cleanup(ctx context.Context) (int64, error)
}

type LogServiceImpl struct {
	Repo          LogRepository
	RetentionDays int
	Logger        *zap.Logger
	now           func() time.Time
}

func NewLogService(repo LogRepository, cfg *config.Config, logger *zap.Logger) LogService {
	return &LogServiceImpl{
		Repo:          repo,
		RetentionDays: cfg.LogRetentionDays,
		Logger:        logger,
		now:           time.Now,
	}
}

func (s *LogServiceImpl) List(ctx context.Context, filter Filter) ([]common_models.Log, error) {
	if filter.Limit <= 0 || filter.Limit > 5000 {
		filter.Limit = defaultLimit
	}
	return s.Repo.Find(ctx, filter)
}

func (s *LogServiceImpl) ExportToExcel(ctx context.Context, filter Filter) ([]byte, string, error) {
	if filter.Limit <= 0 {
		filter.Limit = 5000
	}
	entries, err := s.Repo.Find(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Logs"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, e := range entries {
		row := []any{
			e.CreatedOnUtc.Format("2006-01-02 15:04:05"),
			e.Level,
			e.Message,
			e.Username,
			e.ProcessId,
			e.IpAddress,
			e.Caller,
		}
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 15.0
		if exportColumns[i] == "message" {
			width = 60
		}
		f.SetColWidth(sheetName, col, col, width)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("logs-%s.xlsx", s.now().UTC().Format("20060102-150405"))
	return buffer.Bytes(), filename, nil
}

func (s *LogServiceImpl) Cleanup(ctx context.Context) (int64, error) {
	if s.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().AddDate(0, 0, -s.RetentionDays)
	deleted, err := s.Repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete logs before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	s.Logger.Info("Log retention cleanup finished",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return deleted, nil
}
