package engine

import (
	"encoding/json"
	"io"
)

// Metadata describes the station and time window a verification covered.
type Metadata struct {
	ICAO      string `json:"icao"`
	StationID string `json:"station_id,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// FileUpload is a named stream submitted as a multipart file part.
type FileUpload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// MetarSubmission is the multipart payload for surface forecast verification.
// StartDate and EndDate are compact YYYYMMDDHHMM strings; both are empty when
// an observation file supplies the time window instead.
type MetarSubmission struct {
	ICAO        string
	StartDate   string
	EndDate     string
	Forecast    FileUpload
	Observation *FileUpload
}

// UpperAirSubmission is the multipart payload for upper-air verification.
// DateTime carries a "YYYY-MM-DD HH:00:00" fetch timestamp when no
// observation file is uploaded.
type UpperAirSubmission struct {
	StationID   string
	DateTime    string
	Forecast    FileUpload
	Observation *FileUpload
}

// MetarFilePaths references the CSV artifacts produced by a surface run.
// Values are opaque server paths passed back through DownloadArtifact.
type MetarFilePaths struct {
	ComparisonCSV string `json:"comparison_csv"`
	MergedCSV     string `json:"merged_csv"`
}

// MetarMetrics summarizes a surface comparison run.
type MetarMetrics struct {
	TotalComparisons    int     `json:"total_comparisons"`
	AccuratePredictions int     `json:"accurate_predictions"`
	AccuracyPercentage  float64 `json:"accuracy_percentage"`
}

// MetarResult is the engine response for a surface verification run.
type MetarResult struct {
	Metadata  Metadata       `json:"metadata"`
	Metrics   MetarMetrics   `json:"metrics"`
	FilePaths MetarFilePaths `json:"file_paths"`
}

// UpperAirResult is the engine response for an upper-air verification run.
// Data is retained raw; its row shape belongs to the engine.
type UpperAirResult struct {
	Metadata        Metadata        `json:"metadata"`
	TempAccuracy    float64         `json:"temp_accuracy"`
	WindAccuracy    float64         `json:"wind_accuracy"`
	WindDirAccuracy float64         `json:"wind_dir_accuracy"`
	WeatherAccuracy float64         `json:"weather_accuracy"`
	Data            json.RawMessage `json:"data,omitempty"`
	FilePath        string          `json:"file_path"`
}

// DetailedAccuracy carries the engine's authoritative per-category accuracy
// values for a warning verification. Nil means the engine supplied none and
// the locally derived ratio applies.
type DetailedAccuracy struct {
	Thunderstorm *float64 `json:"thunderstorm,omitempty"`
	Wind         *float64 `json:"wind,omitempty"`
}

// WarningResult is the engine response for an aerodrome-warning verification.
// Report holds the warning report as CSV text rather than an artifact path.
type WarningResult struct {
	Success          bool             `json:"success"`
	Report           string           `json:"report"`
	DetailedAccuracy DetailedAccuracy `json:"detailed_accuracy"`
	StationInfo      string           `json:"station_info"`
	ValidationFailed bool             `json:"validation_failed,omitempty"`
	Error            string           `json:"error,omitempty"`
}
