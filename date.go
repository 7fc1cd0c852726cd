package main

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	pdfDateLayout     = "20060102150405"
	displayDateLayout = "2006-01-02 15:04:05"
	zoneLabel         = "IST"

	// UTC ('Z') timestamps are shifted into the display zone.
	utcDisplayOffset = 5*time.Hour + 30*time.Minute
)

// Timestamp is the outcome of reading a PDF date string. A parsed
// timestamp carries its display form; an unparsed one only keeps Raw.
// The zero value means the date was absent.
type Timestamp struct {
	Raw     string
	Display string
	Parsed  bool
}

func (t Timestamp) IsZero() bool {
	return t.Raw == ""
}

// String returns the display form when parsing succeeded and the raw
// string otherwise.
func (t Timestamp) String() string {
	if t.Parsed {
		return t.Display
	}
	return t.Raw
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// parsePDFDate converts a "D:YYYYMMDDHHMMSS[tz]" string into a display
// timestamp. It never fails: anything it cannot read comes back unparsed
// with the original input.
func parsePDFDate(raw string) Timestamp {
	if raw == "" {
		return Timestamp{}
	}

	s := strings.TrimPrefix(raw, "D:")

	var offset time.Duration
	switch {
	case strings.HasSuffix(s, "Z"):
		s = strings.TrimSuffix(s, "Z")
		offset = utcDisplayOffset
	case strings.Contains(s, "+"):
		s, _, _ = strings.Cut(s, "+")
	case strings.Contains(s, "-") && len(s) > 14:
		s, _, _ = strings.Cut(s, "-")
	}

	if len(s) > 14 {
		s = s[:14]
	}

	t, err := time.Parse(pdfDateLayout, s)
	if err != nil {
		return Timestamp{Raw: raw}
	}

	return Timestamp{
		Raw:     raw,
		Display: t.Add(offset).Format(displayDateLayout) + " " + zoneLabel,
		Parsed:  true,
	}
}
