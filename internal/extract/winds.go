// Package extract pulls upper-winds forecast tables out of PDF documents.
package extract

import (
	"regexp"
	"strings"
)

// recordWidth is the token arity of one upper-winds table row. The forecast
// layout places two altitude/wind/temperature triples side by side per row.
const recordWidth = 6

var upperWindsPattern = regexp.MustCompile(`(?is)UPPER WINDS([\s\S]+?)WEATHER`)

// WindLevelRecord is one row of the upper-winds table. Altitude, wind
// direction/speed, and temperature carry the leading triple; the remaining
// cells are kept verbatim for display.
type WindLevelRecord struct {
	Cells [recordWidth]string `json:"cells"`
}

// Altitude returns the flight level or altitude token.
func (r WindLevelRecord) Altitude() string {
	return r.Cells[0]
}

// WindDirSpeed returns the combined wind direction and speed token.
func (r WindLevelRecord) WindDirSpeed() string {
	return r.Cells[1]
}

// Temperature returns the temperature token.
func (r WindLevelRecord) Temperature() string {
	return r.Cells[2]
}

// ParseUpperWinds locates the first case-insensitive "UPPER WINDS" block
// terminated by "WEATHER" in text and tokenizes its contents into
// fixed-width records. A trailing partial record is padded with empty
// strings rather than dropped. Returns ErrBlockNotFound when no block
// marker exists.
func ParseUpperWinds(text string) ([]WindLevelRecord, error) {
	match := upperWindsPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, ErrBlockNotFound
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(match[1], "=", ""))
	if cleaned == "" {
		return []WindLevelRecord{}, nil
	}

	tokens := strings.Fields(cleaned)
	records := make([]WindLevelRecord, 0, (len(tokens)+recordWidth-1)/recordWidth)

	for i := 0; i < len(tokens); i += recordWidth {
		var record WindLevelRecord
		for j := 0; j < recordWidth && i+j < len(tokens); j++ {
			record.Cells[j] = tokens[i+j]
		}
		records = append(records, record)
	}

	return records, nil
}
