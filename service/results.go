package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"retailpulse/models"
)

// ResultsStorage persists exported query results as JSON or CSV files.
type ResultsStorage struct {
	resultsDir string
}

func NewResultsStorage(resultsDir string) (*ResultsStorage, error) {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	return &ResultsStorage{resultsDir: resultsDir}, nil
}

// GenerateFileName creates a unique filename with timestamp
func (r *ResultsStorage) GenerateFileName(format string) string {
	timestamp := time.Now().Format("20060102_150405")
	nanos := time.Now().UnixNano()
	return fmt.Sprintf("result_%s_%d.%s", timestamp, nanos, format)
}

// SaveResultAsJSON saves a query result as a JSON file
func (r *ResultsStorage) SaveResultAsJSON(result *models.QueryResult, query string) (string, error) {
	filename := r.GenerateFileName("json")
	filePath := filepath.Join(r.resultsDir, filename)

	resultData := models.ResultFile{
		Query:     query,
		Timestamp: time.Now().Format(time.RFC3339),
		Columns:   result.ColumnNames(),
		Rows:      result.Rows,
		RowCount:  len(result.Rows),
	}

	data, err := json.MarshalIndent(resultData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filename, nil
}

// SaveResultAsCSV saves a query result as a CSV file
func (r *ResultsStorage) SaveResultAsCSV(result *models.QueryResult, query string) (string, error) {
	filename := r.GenerateFileName("csv")
	filePath := filepath.Join(r.resultsDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(result.ColumnNames()); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range result.Rows {
		record := make([]string, len(row))
		for i, val := range row {
			if val == nil {
				record[i] = ""
			} else {
				record[i] = fmt.Sprintf("%v", val)
			}
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return filename, nil
}

// ListResultFiles lists saved result files, newest first.
func (r *ResultsStorage) ListResultFiles() ([]models.ResultFileInfo, error) {
	files, err := os.ReadDir(r.resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var infos []models.ResultFileInfo
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := strings.TrimPrefix(filepath.Ext(file.Name()), ".")
		if ext != "json" && ext != "csv" {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}

		infos = append(infos, models.ResultFileInfo{
			Filename: file.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().Format(time.RFC3339),
			Format:   ext,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Modified > infos[j].Modified
	})

	return infos, nil
}

// ReadResultFile returns the raw bytes of a saved result file. The filename
// is sanitized to its base name so callers cannot escape the results dir.
func (r *ResultsStorage) ReadResultFile(filename string) ([]byte, error) {
	filePath := filepath.Join(r.resultsDir, filepath.Base(filename))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	return data, nil
}
