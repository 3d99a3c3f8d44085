// Package export serializes a filtered claims collection to flat CSV rows.
// Export is for machine consumption: missing values become empty cells, and
// the "N/A" display substitution never appears here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
)

// FileName is the artifact name downloads are served under.
const FileName = "claims_data.csv"

// Column pairs a header display name with a value accessor.
type Column struct {
	Header string
	Value  func(models.ClaimRecord) string
}

// DefaultColumns is the documented export contract:
// ID,Name,Village,District,State,Status,Claim Type,Created At.
func DefaultColumns() []Column {
	return []Column{
		{"ID", func(r models.ClaimRecord) string { return r.ID }},
		{"Name", stringColumn(func(r models.ClaimRecord) *string { return r.Name })},
		{"Village", stringColumn(func(r models.ClaimRecord) *string { return r.Village })},
		{"District", stringColumn(func(r models.ClaimRecord) *string { return r.District })},
		{"State", stringColumn(func(r models.ClaimRecord) *string { return r.State })},
		{"Status", func(r models.ClaimRecord) string { return string(r.Status) }},
		{"Claim Type", func(r models.ClaimRecord) string { return string(r.ClaimType) }},
		{"Created At", func(r models.ClaimRecord) string {
			if !r.CreatedAt.Valid {
				return ""
			}
			return r.CreatedAt.Time.Format(time.RFC3339)
		}},
	}
}

func stringColumn(get func(models.ClaimRecord) *string) func(models.ClaimRecord) string {
	return func(r models.ClaimRecord) string { return models.String(get(r)) }
}

// Write streams the header row followed by one row per record, in the
// record order given. Cells with embedded commas, quotes, or newlines are
// quoted per RFC 4180; the column contract is unchanged by the quoting.
func Write(w io.Writer, records []models.ClaimRecord, columns []Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = col.Value(rec)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
