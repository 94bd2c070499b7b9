// Package universe loads the share/futures instrument universe from its
// CSV file. Malformed universes are a startup failure, not something
// discovered mid-pass.
package universe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/pkg/logger"
)

// Load reads the universe CSV: one row per share, semicolon-delimited, first
// column the share code, remaining columns its future codes. The first row is
// a header. Blank rows, blank future cells and rows without a share code are
// skipped with a warning; a file that yields no usable entries is an error.
func Load(path string, log *logger.Logger) ([]contracts.UniverseEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file %s: %w", path, err)
	}
	defer f.Close()

	entries, err := parse(f, log)
	if err != nil {
		return nil, fmt.Errorf("parse universe file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("universe file %s: no usable entries", path)
	}

	log.WithFields(map[string]interface{}{
		"path":    path,
		"entries": len(entries),
	}).Info("Universe loaded")

	return entries, nil
}

func parse(r io.Reader, log *logger.Logger) ([]contracts.UniverseEntry, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // rows carry a variable number of futures

	// Header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var entries []contracts.UniverseEntry
	for rowNum := 1; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if isBlank(row) {
			log.WithField("row", rowNum).Warn("Blank universe row skipped")
			continue
		}

		share := strings.TrimSpace(row[0])
		if share == "" {
			log.WithField("row", rowNum).Warn("Universe row without share code skipped")
			continue
		}

		var futures []string
		for _, cell := range row[1:] {
			if code := strings.TrimSpace(cell); code != "" {
				futures = append(futures, code)
			}
		}

		entries = append(entries, contracts.UniverseEntry{
			ShareCode:   share,
			FutureCodes: futures,
		})
	}

	return entries, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
