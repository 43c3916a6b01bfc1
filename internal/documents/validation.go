package documents

import (
	"fmt"
	"regexp"
	"strings"
)

// Surface forecast files are named for the issue date: DDMMYYYY for the
// daily take-off forecast, MMYYYY for the monthly variant.
var (
	dailyForecastPattern   = regexp.MustCompile(`^(0[1-9]|[12]\d|3[01])(0[1-9]|1[0-2])\d{4}\.txt$`)
	monthlyForecastPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])\d{4}\.[A-Za-z0-9]+$`)
)

// ValidateUpload enforces the per-domain filename and extension rules before
// a document is accepted.
func ValidateUpload(domain Domain, kind Kind, filename string) error {
	if !domain.Valid() {
		return fmt.Errorf("%w: unknown domain %q", ErrInvalidFile, domain)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidFile, kind)
	}

	lowered := strings.ToLower(filename)

	switch domain {
	case DomainSurface:
		if kind == KindForecast {
			if !dailyForecastPattern.MatchString(filename) && !monthlyForecastPattern.MatchString(filename) {
				return fmt.Errorf("%w: surface forecast must be named DDMMYYYY.txt (like 01012024.txt)", ErrInvalidFilename)
			}
			return nil
		}
		if !hasExtension(lowered, ".txt", ".csv") {
			return fmt.Errorf("%w: surface observation must be a .txt or .csv file", ErrInvalidFile)
		}

	case DomainUpperAir:
		if kind == KindForecast {
			if !hasExtension(lowered, ".pdf") {
				return fmt.Errorf("%w: upper air forecast must be a PDF file", ErrInvalidFile)
			}
			return nil
		}
		if !hasExtension(lowered, ".csv") {
			return fmt.Errorf("%w: upper air observation must be a CSV file", ErrInvalidFile)
		}

	case DomainWarning:
		if !hasExtension(lowered, ".txt", ".csv") {
			return fmt.Errorf("%w: aerodrome warning file must be a .txt or .csv file", ErrInvalidFile)
		}
	}

	return nil
}

func hasExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
