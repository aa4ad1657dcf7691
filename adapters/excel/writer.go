package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"rebalance/domain/dataset"
)

// DataWriter writes an augmented dataset back to Excel or CSV, appending the
// synthetic minority rows after the original table.
type DataWriter struct {
	filePath string
	fileType string
}

// NewDataWriter creates a writer; the format follows the file extension.
func NewDataWriter(filePath string) *DataWriter {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataWriter{filePath: filePath, fileType: fileType}
}

// WriteAugmented writes the original table plus the synthetic rows, labeled
// with the minority label.
func (w *DataWriter) WriteAugmented(table *LabeledTable, synthetic dataset.Matrix, minorityLabel string) error {
	labelHeader := table.LabelHeader
	if labelHeader == "" {
		labelHeader = "class"
	}
	rows := make([][]string, 0, 1+table.Rows.Rows()+synthetic.Rows())
	header := append(append([]string{}, table.Headers...), labelHeader)
	rows = append(rows, header)

	for i, features := range table.Rows {
		rows = append(rows, formatRow(features, table.Labels[i]))
	}
	for _, features := range synthetic {
		rows = append(rows, formatRow(features, minorityLabel))
	}

	var err error
	switch w.fileType {
	case "csv":
		err = w.writeCSV(rows)
	case "xlsx":
		err = w.writeExcel(rows)
	default:
		err = fmt.Errorf("unsupported file type: %s", w.fileType)
	}
	if err != nil {
		return err
	}

	log.Printf("[DataWriter] wrote %d rows (%d synthetic) to %s",
		len(rows)-1, synthetic.Rows(), w.filePath)
	return nil
}

func (w *DataWriter) writeCSV(rows [][]string) error {
	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func (w *DataWriter) writeExcel(rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func formatRow(features []float64, label string) []string {
	out := make([]string, 0, len(features)+1)
	for _, v := range features {
		out = append(out, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return append(out, label)
}
