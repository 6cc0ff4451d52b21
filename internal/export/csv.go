package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// csvHeader mirrors the FeedRecord field names, in rank-column order
var csvHeader = []string{
	"code",
	"name",
	"sector_name",
	"sector_performance",
	"previous_close",
	"close",
	"gain_pct",
	"previous_volume",
	"volume",
	"volume_gain_pct",
}

// CSVWriter writes the daily candidate report
type CSVWriter struct {
	dir    string
	logger *logger.Logger
}

// NewCSVWriter creates a report writer rooted at dir
func NewCSVWriter(dir string, log *logger.Logger) *CSVWriter {
	return &CSVWriter{dir: dir, logger: log}
}

// ReportPath returns the report file path for a trade day
func (w *CSVWriter) ReportPath(tradeDay time.Time) string {
	name := fmt.Sprintf("report-%s.csv", contracts.Day(tradeDay).Format("2006-01-02"))
	return filepath.Join(w.dir, name)
}

// WriteReport renders the ranked candidates for one trade day to
// report-YYYY-MM-DD.csv, replacing any previous report for the day.
// A zero-candidate day still produces a header-only file; a missing
// report and an empty report are different facts.
func (w *CSVWriter) WriteReport(tradeDay time.Time, rows []contracts.CandidateRow) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := w.ReportPath(tradeDay)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write report header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Code,
			row.Name,
			row.SectorName,
			strconv.FormatFloat(row.SectorPerformance, 'f', 2, 64),
			strconv.FormatFloat(row.PreviousClose, 'f', 3, 64),
			strconv.FormatFloat(row.Close, 'f', 3, 64),
			strconv.FormatFloat(row.GainPct, 'f', 4, 64),
			strconv.FormatInt(row.PreviousVolume, 10),
			strconv.FormatInt(row.Volume, 10),
			strconv.FormatFloat(row.VolumeGainPct, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("write report row %s: %w", row.Code, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(rows),
	}).Info("Report written")

	return path, nil
}
