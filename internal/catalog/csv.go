package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"episplit/internal/services"
)

var csvHeader = []string{"SeasonNumber", "EpisodeNumber", "EpisodeName", "AbbvCombo"}

// Load reads a catalog from the CSV file at path.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "catalog", "load", "open catalog file", err)
	}
	defer file.Close()
	cat, err := Read(file)
	if err != nil {
		return nil, services.Wrap(services.ErrUnrecognizedFormat, "catalog", "load", fmt.Sprintf("parse %s", path), err)
	}
	return cat, nil
}

// Read parses catalog CSV from r. The header row is required.
func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty catalog")
	}
	if !headerMatches(rows[0]) {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(rows[0], ","))
	}
	records := make([]EpisodeRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		season, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: season %q: %w", i+2, row[0], err)
		}
		episode, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: episode %q: %w", i+2, row[1], err)
		}
		records = append(records, EpisodeRecord{
			Season:  season,
			Episode: episode,
			Title:   strings.TrimSpace(row[2]),
			Code:    strings.TrimSpace(row[3]),
		})
	}
	return New(records)
}

// Save writes the catalog as CSV to path, replacing any existing file.
func Save(cat *Catalog, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrIO, "catalog", "save", "create catalog file", err)
	}
	defer file.Close()
	if err := Write(cat, file); err != nil {
		return services.Wrap(services.ErrIO, "catalog", "save", "write catalog file", err)
	}
	return file.Close()
}

// Write renders the catalog as CSV to w.
func Write(cat *Catalog, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range cat.Records() {
		row := []string{
			strconv.Itoa(rec.Season),
			strconv.Itoa(rec.Episode),
			rec.Title,
			rec.Code,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func headerMatches(row []string) bool {
	if len(row) != len(csvHeader) {
		return false
	}
	for i, field := range row {
		if !strings.EqualFold(strings.TrimSpace(field), csvHeader[i]) {
			return false
		}
	}
	return true
}
