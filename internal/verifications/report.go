package verifications

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kevinnadar22/metar-verify/internal/documents"
)

// ExportFilename derives the download filename for a run's archived report.
// Aerodrome warning reports follow the station/period/accuracy convention;
// other domains use the artifact name as-is.
func ExportFilename(run *Run, artifact string, now time.Time) string {
	if run.Domain != documents.DomainWarning {
		return artifact + ".csv"
	}

	period := now.Format(time.DateOnly) + "_file_upload"
	if run.StartTime != nil && run.EndTime != nil {
		period = fmt.Sprintf(
			"%s_to_%s",
			run.StartTime.Format(time.DateOnly),
			run.EndTime.Format(time.DateOnly),
		)
	}

	return fmt.Sprintf(
		"%s_Aerodrome_Warning_%s_%s%%_accuracy.csv",
		run.StationCode, period, reportAccuracy(run.Report),
	)
}

// reportAccuracy picks the headline accuracy for the filename: thunderstorm
// when available, wind otherwise.
func reportAccuracy(report *Report) string {
	if report == nil {
		return "0"
	}

	for _, key := range []string{"thunderstorm", "wind"} {
		if v, ok := report.ScalarMetrics[key]; ok {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return "0"
}
