package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// row is one CSV record addressed by normalized header name.
type row struct {
	columns map[string]int
	record  []string
}

// get returns the first non-empty cell among the candidate header names.
// Header lookup is case-insensitive, so the known export variants ("Upc",
// "UPC", "IMDb Url", "IMDB Url") all resolve without enumeration.
func (r row) get(names ...string) string {
	for _, name := range names {
		idx, ok := r.columns[strings.ToLower(name)]
		if !ok || idx >= len(r.record) {
			continue
		}
		if v := strings.TrimSpace(r.record[idx]); v != "" {
			return v
		}
	}
	return ""
}

// readRows streams a CSV file with a header line, tolerating a UTF-8 BOM
// and ragged records.
func readRows(path string, visit func(row)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv record: %w", err)
		}
		visit(row{columns: columns, record: record})
	}
}
