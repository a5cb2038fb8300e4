package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"plesir/internal/domain"
)

// Classes of catalog build failure. Both are fatal to serving: no query
// can be answered without an index.
var (
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	ErrSchema             = errors.New("dataset schema error")
)

// DefaultSignatureFood substitutes an empty makanan_khas column.
const DefaultSignatureFood = "Kuliner Lokal"

var requiredColumns = []string{"place_name", "city"}

// Load reads the delimited catalog file and returns one Place per data
// row. The separator is a single-character field delimiter, typically ";".
func Load(path, separator string) ([]domain.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	defer f.Close()

	sep := ';'
	if separator != "" {
		sep = []rune(separator)[0]
	}
	r := csv.NewReader(f)
	r.Comma = sep
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: no data rows in %s", ErrSchema, path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	places := make([]domain.Place, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p := domain.Place{
			Name:          field(row, "place_name"),
			City:          field(row, "city"),
			Province:      field(row, "province"),
			SignatureFood: field(row, "makanan_khas"),
			Rating:        field(row, "rating"),
			Address:       field(row, "address"),
		}
		if p.Name == "" || p.City == "" {
			return nil, fmt.Errorf("%w: row %d has empty place_name or city", ErrSchema, n+2)
		}
		if p.SignatureFood == "" {
			p.SignatureFood = DefaultSignatureFood
		}
		p.SearchText = strings.ToLower(p.Name + " " + p.City)
		places = append(places, p)
	}
	return places, nil
}
