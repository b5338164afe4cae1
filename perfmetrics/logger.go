package perfmetrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// csvHeader defines the CSV header for transfer performance logging.
const csvHeader = "Timestamp,Source,FileName,FileSizeMB,ThroughputMBps,TimeSec,Chunks\n"

// Record is one completed transfer.
type Record struct {
	Source         string
	FileName       string
	FileSizeMB     float64
	ThroughputMBps float64
	TimeSec        float64
	Chunks         int
}

// Append writes a record to the named CSV file under the perfmetrics
// directory, creating the directory, the file and its header as needed.
func Append(fileName string, rec Record) error {
	dir := "perfmetrics"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	filePath := filepath.Join(dir, fileName)

	fileExists := true
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		fileExists = false
	}

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %v", filePath, err)
	}
	defer file.Close()

	if !fileExists {
		if _, err := file.WriteString(csvHeader); err != nil {
			return fmt.Errorf("failed to write header: %v", err)
		}
	}

	writer := csv.NewWriter(file)

	row := []string{
		time.Now().Format(time.RFC3339),
		rec.Source,
		rec.FileName,
		strconv.FormatFloat(rec.FileSizeMB, 'f', 2, 64),
		strconv.FormatFloat(rec.ThroughputMBps, 'f', 2, 64),
		strconv.FormatFloat(rec.TimeSec, 'f', 2, 64),
		strconv.Itoa(rec.Chunks),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV record: %v", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %v", err)
	}

	return nil
}
