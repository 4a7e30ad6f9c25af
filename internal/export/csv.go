package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
)

const Filename = "registrations.csv"

var ErrNothingToExport = errors.New("nothing to export")

type Field struct {
	Key   string
	Value any
}

// Record is one flat row; field order becomes column order.
type Record []Field

func (r Record) lookup(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// WriteCSV writes a header taken from the keys of the first record and one
// row per record. Missing or nil values become empty fields.
func WriteCSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	header := make([]string, len(records[0]))
	for i, f := range records[0] {
		header[i] = f.Key
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing csv header: %v", err)
	}

	row := make([]string, len(header))
	for n, rec := range records {
		for i, key := range header {
			v, _ := rec.lookup(key)
			s, err := formatValue(v)
			if err != nil {
				return fmt.Errorf("error formatting %s of row %d: %v", key, n+1, err)
			}
			row[i] = s
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv row %d: %v", n+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		return x.Format(time.RFC3339), nil
	case *time.Time:
		if x == nil {
			return "", nil
		}
		return x.Format(time.RFC3339), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "", nil
	}
	return string(b), nil
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// FlattenRegistration lays a registration out as one CSV row, with the team
// members kept together as a JSON array.
func FlattenRegistration(r models.Registration) Record {
	var verifiedAt any
	if r.VerifiedAt != nil {
		verifiedAt = *r.VerifiedAt
	}
	return Record{
		{"id", r.ID},
		{"event_id", r.EventID},
		{"event_name", r.EventName},
		{"name", r.Name},
		{"email", r.Email},
		{"reg_no", r.RegNo},
		{"phone", r.Phone},
		{"department", r.Department},
		{"year", r.Year},
		{"section", r.Section},
		{"team_members", r.TeamMembers},
		{"transaction_id", optional(r.TransactionID)},
		{"transaction_image_url", optional(r.TransactionImageURL)},
		{"registered_at", r.RegisteredAt},
		{"verified", r.Verified},
		{"verified_at", verifiedAt},
		{"email_status", optional(string(r.EmailStatus))},
	}
}

func FlattenRegistrations(regs []models.Registration) []Record {
	out := make([]Record, len(regs))
	for i, r := range regs {
		out[i] = FlattenRegistration(r)
	}
	return out
}
