// Package export produces spreadsheet reports over the offline queue for
// support staff reviewing failed or stuck bookings.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"mariiahub/internal/models"
)

const sheetName = "Offline Bookings"

var headers = []string{"ID", "Category", "Service", "Scheduled", "Client", "Email", "Phone", "Status", "Created", "Synced"}

// QueueReport writes all records to an .xlsx under dir and returns the file
// path.
func QueueReport(records []models.BookingRecord, dir string, logger *zerolog.Logger) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, rec := range records {
		row := i + 2
		values := []interface{}{
			rec.ID,
			rec.ServiceCategory,
			rec.ServiceName,
			rec.ScheduledAt.Format("2006-01-02 15:04"),
			rec.ClientInfo.Name,
			rec.ClientInfo.Email,
			rec.ClientInfo.Phone,
			rec.Status,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			"",
		}
		if rec.SyncedAt != nil {
			values[9] = rec.SyncedAt.Format("2006-01-02 15:04:05")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "J", 20)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("offline_bookings_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	logger.Info().Str("file_path", filePath).Int("records", len(records)).Msg("Excel report created")
	return filePath, nil
}
