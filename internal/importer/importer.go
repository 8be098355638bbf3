// internal/importer/importer.go
//
// Bulk image-pool import for admin curation: reads (url, difficulty) rows
// from an Excel or CSV file and appends them to the pool through the engine.
//
// Validation here is syntactic only (URL shape, known difficulty). Checking
// that an image actually loads remains the admin UI's responsibility, as it
// is for single adds.

package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/matchpairs/internal/game"
	"github.com/example/matchpairs/internal/images"
)

// Config defines where and how to read the import file.
type Config struct {
	FilePath         string // Path to the .xlsx or .csv file.
	URLColumn        string // Column with the image URL.
	DifficultyColumn string // Column with the difficulty tier.
	SheetName        string // Sheet to import (Excel only).
	SkipHeader       bool   // Skip the first row.
}

// DefaultConfig returns the default import layout: URL in column A,
// difficulty in column B, header row skipped.
func DefaultConfig(path string) Config {
	return Config{
		FilePath:         path,
		URLColumn:        "A",
		DifficultyColumn: "B",
		SheetName:        "Sheet1",
		SkipHeader:       true,
	}
}

// PoolWriter is the slice of the engine the importer needs.
type PoolWriter interface {
	AddImage(url string, d game.Difficulty) (images.Image, error)
}

// Result summarizes an import run.
type Result struct {
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

// Import reads the configured file and appends each valid row to the pool.
// Invalid rows are skipped and reported in the result, never aborting the
// run part-way.
func Import(cfg Config, dst PoolWriter) (*Result, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		return importCSV(cfg, dst)
	default:
		return importExcel(cfg, dst)
	}
}

func importExcel(cfg Config, dst PoolWriter) (*Result, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	urlIdx, err := columnIndex(cfg.URLColumn)
	if err != nil {
		return nil, err
	}
	diffIdx, err := columnIndex(cfg.DifficultyColumn)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, row := range rows {
		if cfg.SkipHeader && i == 0 {
			continue
		}
		res.Processed++
		importRow(res, dst, cell(row, urlIdx), cell(row, diffIdx), i+1)
	}
	return res, nil
}

func importCSV(cfg Config, dst PoolWriter) (*Result, error) {
	f, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	urlIdx, err := columnIndex(cfg.URLColumn)
	if err != nil {
		return nil, err
	}
	diffIdx, err := columnIndex(cfg.DifficultyColumn)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	res := &Result{}
	for line := 0; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line+1, err)
		}
		if cfg.SkipHeader && line == 0 {
			continue
		}
		res.Processed++
		importRow(res, dst, cell(row, urlIdx), cell(row, diffIdx), line+1)
	}
	return res, nil
}

func importRow(res *Result, dst PoolWriter, rawURL, rawDiff string, line int) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		res.Skipped++
		return
	}
	if u, err := url.ParseRequestURI(rawURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		res.Skipped++
		res.Errors = append(res.Errors, fmt.Sprintf("row %d: invalid url %q", line, rawURL))
		return
	}
	d, err := game.ParseDifficulty(strings.ToLower(strings.TrimSpace(rawDiff)))
	if err != nil {
		res.Skipped++
		res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", line, err))
		return
	}
	if _, err := dst.AddImage(rawURL, d); err != nil {
		res.Skipped++
		res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", line, err))
		return
	}
	res.Created++
}

// columnIndex maps a spreadsheet column letter ("A", "B", ... "AA") to a
// zero-based index.
func columnIndex(col string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(col)))
	if err != nil {
		return 0, fmt.Errorf("bad column %q: %w", col, err)
	}
	return n - 1, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
