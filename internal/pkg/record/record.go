package record

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultCategory is used when the extraction gave no usable category
	DefaultCategory = "Uncategorized"
	// DefaultItem is used when the extraction gave no usable item
	DefaultItem = "Unknown Item"
	// DateLayout is the record date format
	DateLayout = "2006-01-02"
)

// Record is one finalized entry ready for persistence
type Record struct {
	Category string
	Amount   float64
	Item     string
	Date     string
	Summary  string
}

// Map turns raw extraction fields into a finalized record.
// Malformed or missing values are coerced to defaults, never rejected.
// Summary is always the verbatim transcript, whatever the extraction returned.
func Map(fields map[string]interface{}, transcript string, now time.Time) Record {
	return Record{
		Category: asString(fields["category"], DefaultCategory),
		Amount:   asAmount(fields["amount"]),
		Item:     asString(fields["item"], DefaultItem),
		Date:     asDate(fields["date"], now),
		Summary:  transcript,
	}
}

func asString(v interface{}, def string) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func asAmount(v interface{}) float64 {
	var res float64
	switch a := v.(type) {
	case float64:
		res = a
	case int:
		res = float64(a)
	case json.Number:
		res, _ = a.Float64()
	case string:
		res, _ = strconv.ParseFloat(strings.TrimSpace(a), 64)
	}
	if !(res > 0) { // drops negatives and NaN
		return 0
	}
	return res
}

func asDate(v interface{}, now time.Time) string {
	s, _ := v.(string)
	if t, err := time.Parse(DateLayout, strings.TrimSpace(s)); err == nil {
		return t.Format(DateLayout)
	}
	return now.Format(DateLayout)
}
