// internal/app/system/csvutil/users.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
)

// RegistrationRow is one raw row from a registration CSV. Fields are not
// trimmed or validated here; the import engine owns per-row validation.
// Line is the 1-indexed position after the header row.
type RegistrationRow struct {
	Line         int
	Email        string
	ReferralCode string
	Password     string
}

// ReadRegistrationRows reads a registration CSV from r: one account per
// row with columns email, referral code (optional), password (optional).
// The first row is a header and is always skipped. Rows that are
// entirely empty are dropped. A CSV that cannot be parsed at all is a
// single top-level error; no rows are returned alongside it.
func ReadRegistrationRows(r io.Reader) ([]RegistrationRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	var rows []RegistrationRow
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		line++
		if line > MaxRows {
			return nil, fmt.Errorf("CSV exceeds the %d row limit", MaxRows)
		}

		row := RegistrationRow{Line: line}
		if len(rec) > 0 {
			row.Email = rec[0]
		}
		if len(rec) > 1 {
			row.ReferralCode = rec[1]
		}
		if len(rec) > 2 {
			row.Password = rec[2]
		}
		if row.Email == "" && row.ReferralCode == "" && row.Password == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
