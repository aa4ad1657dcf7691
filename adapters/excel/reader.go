package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rebalance/domain/dataset"
)

// DataReader handles reading labeled sample tables from Excel and CSV files.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
}

// NewDataReader creates a reader that handles both Excel and CSV files.
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, config: config}
}

// ReadTable reads the file into a labeled table. Ragged rows and non-numeric
// feature cells are errors; nothing is imputed.
func (r *DataReader) ReadTable() (*LabeledTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType))
	}

	return r.parseRows(rows)
}

// ReadSplit reads the file and partitions it into minority and majority
// classes by label.
func (r *DataReader) ReadSplit() (*dataset.ClassSplit, *LabeledTable, error) {
	table, err := r.ReadTable()
	if err != nil {
		return nil, nil, err
	}
	split, err := SplitByLabel(table, r.config.MinorityLabel)
	if err != nil {
		return nil, nil, err
	}
	return split, table, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	log.Printf("[DataReader] Excel file read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	startTime := time.Now()
	reader := csv.NewReader(file)
	// Ragged rows are diagnosed in parseRows, the same way as for xlsx.
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// parseRows converts raw string rows into a labeled table.
func (r *DataReader) parseRows(rows [][]string) (*LabeledTable, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	labelIdx, err := r.labelIndex(headers)
	if err != nil {
		return nil, err
	}

	featureHeaders := make([]string, 0, len(headers)-1)
	for i, h := range headers {
		if i != labelIdx {
			featureHeaders = append(featureHeaders, h)
		}
	}

	table := &LabeledTable{Headers: featureHeaders, LabelHeader: headers[labelIdx]}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) != len(headers) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(headers))
		}

		features := make([]float64, 0, len(headers)-1)
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if j == labelIdx {
				table.Labels = append(table.Labels, cell)
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: non-numeric cell %q", i+1, headers[j], cell)
			}
			features = append(features, v)
		}
		table.Rows = append(table.Rows, features)
	}

	log.Printf("[DataReader] %s file processed (%d features, %d rows)",
		strings.ToUpper(r.fileType), len(featureHeaders), table.Rows.Rows())
	return table, nil
}

func (r *DataReader) labelIndex(headers []string) (int, error) {
	if len(headers) < 2 {
		return 0, fmt.Errorf("need at least one feature column and one label column")
	}
	if r.config.LabelColumn == "" {
		return len(headers) - 1, nil
	}
	for i, h := range headers {
		if strings.EqualFold(h, r.config.LabelColumn) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("label column %q not found", r.config.LabelColumn)
}

// SplitByLabel partitions a labeled table into minority and majority classes.
// The table must carry exactly two distinct labels. An empty minorityLabel
// selects the less frequent one.
func SplitByLabel(table *LabeledTable, minorityLabel string) (*dataset.ClassSplit, error) {
	counts := make(map[string]int)
	for _, l := range table.Labels {
		counts[l]++
	}
	if len(counts) != 2 {
		return nil, fmt.Errorf("expected exactly 2 class labels, found %d", len(counts))
	}

	labels := make([]string, 0, 2)
	for l := range counts {
		labels = append(labels, l)
	}
	if counts[labels[0]] > counts[labels[1]] {
		labels[0], labels[1] = labels[1], labels[0]
	}

	minority := labels[0]
	if minorityLabel != "" {
		if _, ok := counts[minorityLabel]; !ok {
			return nil, fmt.Errorf("minority label %q not present in data", minorityLabel)
		}
		minority = minorityLabel
	}
	majority := labels[0]
	if majority == minority {
		majority = labels[1]
	}

	split := &dataset.ClassSplit{MinorityLabel: minority, MajorityLabel: majority}
	for i, l := range table.Labels {
		if l == minority {
			split.Minority = append(split.Minority, table.Rows[i])
		} else {
			split.Majority = append(split.Majority, table.Rows[i])
		}
	}
	return split, split.CheckDims()
}
