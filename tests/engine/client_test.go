package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kevinnadar22/metar-verify/internal/config"
	"github.com/kevinnadar22/metar-verify/internal/engine"
)

func newClient(t *testing.T, handler http.Handler) *engine.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.EngineConfig{BaseURL: server.URL}
	return engine.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessMetar(t *testing.T) {
	var gotFields map[string]string
	var gotForecast string

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/process_metar" {
			t.Errorf("path = %s, want /api/process_metar", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}

		gotFields = map[string]string{
			"start_date": r.FormValue("start_date"),
			"end_date":   r.FormValue("end_date"),
			"icao":       r.FormValue("icao"),
		}

		file, header, err := r.FormFile("forecast_file")
		if err != nil {
			t.Fatalf("forecast file: %v", err)
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		gotForecast = header.Filename + ":" + string(content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"metadata": {"icao": "VABB", "start_time": "202401010000", "end_time": "202401020000"},
			"metrics": {"total_comparisons": 10, "accurate_predictions": 8, "accuracy_percentage": 80.0},
			"file_paths": {"comparison_csv": "/tmp/cmp.csv", "merged_csv": "/tmp/merged.csv"}
		}`))
	}))

	result, err := client.ProcessMetar(context.Background(), engine.MetarSubmission{
		ICAO:      "VABB",
		StartDate: "202401010000",
		EndDate:   "202401020000",
		Forecast: engine.FileUpload{
			Name:   "forecast.csv",
			Reader: strings.NewReader("Time,Wind\n0400,09010KT\n"),
		},
	})
	if err != nil {
		t.Fatalf("ProcessMetar() error = %v", err)
	}

	wantFields := map[string]string{
		"start_date": "202401010000",
		"end_date":   "202401020000",
		"icao":       "VABB",
	}
	if diff := cmp.Diff(wantFields, gotFields); diff != "" {
		t.Errorf("form fields mismatch (-want +got):\n%s", diff)
	}
	if gotForecast != "forecast.csv:Time,Wind\n0400,09010KT\n" {
		t.Errorf("forecast part = %q", gotForecast)
	}

	want := &engine.MetarResult{
		Metadata: engine.Metadata{ICAO: "VABB", StartTime: "202401010000", EndTime: "202401020000"},
		Metrics: engine.MetarMetrics{
			TotalComparisons:    10,
			AccuratePredictions: 8,
			AccuracyPercentage:  80.0,
		},
		FilePaths: engine.MetarFilePaths{ComparisonCSV: "/tmp/cmp.csv", MergedCSV: "/tmp/merged.csv"},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessMetarEngineError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "No METAR data found for the given period"}`))
	}))

	_, err := client.ProcessMetar(context.Background(), engine.MetarSubmission{
		ICAO:     "VABB",
		Forecast: engine.FileUpload{Name: "forecast.csv", Reader: strings.NewReader("x")},
	})
	if err == nil {
		t.Fatal("ProcessMetar() expected error")
	}

	var te *engine.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *engine.TransportError", err)
	}
	if te.Message != "No METAR data found for the given period" {
		t.Errorf("message = %q, want engine error verbatim", te.Message)
	}
	if te.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", te.StatusCode, http.StatusBadRequest)
	}
}

func TestProcessUpperAirDatetimeOmittedWithObservation(t *testing.T) {
	var gotDatetime string
	var hasObservation bool

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		gotDatetime = r.FormValue("datetime")
		_, _, err := r.FormFile("observation_file")
		hasObservation = err == nil

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadata": {"station_id": "43003"}, "temp_accuracy": 90, "file_path": "/tmp/ua.csv"}`))
	}))

	obs := &engine.FileUpload{Name: "sounding.txt", Reader: strings.NewReader("obs")}
	result, err := client.ProcessUpperAir(context.Background(), engine.UpperAirSubmission{
		StationID:   "43003",
		DateTime:    "2024-01-01 00:00:00",
		Forecast:    engine.FileUpload{Name: "forecast.pdf", Reader: strings.NewReader("pdf")},
		Observation: obs,
	})
	if err != nil {
		t.Fatalf("ProcessUpperAir() error = %v", err)
	}

	if gotDatetime != "" {
		t.Errorf("datetime field = %q, want omitted when observation file present", gotDatetime)
	}
	if !hasObservation {
		t.Error("observation_file part missing")
	}
	if result.TempAccuracy != 90 {
		t.Errorf("TempAccuracy = %v, want 90", result.TempAccuracy)
	}
}

func TestVerifyWarnings(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/adwrn_verify" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s, want POST /api/adwrn_verify", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"report": "Warning Type,Issued,Realised\nTS,0400,Yes\n",
			"detailed_accuracy": {"thunderstorm": 87.5},
			"station_info": "VABB Mumbai"
		}`))
	}))

	result, err := client.VerifyWarnings(context.Background())
	if err != nil {
		t.Fatalf("VerifyWarnings() error = %v", err)
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if result.StationInfo != "VABB Mumbai" {
		t.Errorf("StationInfo = %q", result.StationInfo)
	}
	if result.DetailedAccuracy.Thunderstorm == nil || *result.DetailedAccuracy.Thunderstorm != 87.5 {
		t.Errorf("Thunderstorm accuracy = %v, want 87.5", result.DetailedAccuracy.Thunderstorm)
	}
}

func TestVerifyWarningsFailure(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "Both forecast and observation files are required"}`))
	}))

	_, err := client.VerifyWarnings(context.Background())
	if err == nil {
		t.Fatal("VerifyWarnings() expected error")
	}

	var te *engine.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *engine.TransportError", err)
	}
	if te.Message != "Both forecast and observation files are required" {
		t.Errorf("message = %q, want engine error verbatim", te.Message)
	}
}

func TestVerifyWarningsValidationFailure(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "validation_failed": true, "error": "Station code in warning file does not match observation file"}`))
	}))

	_, err := client.VerifyWarnings(context.Background())
	if err == nil {
		t.Fatal("VerifyWarnings() expected error")
	}

	var ve *engine.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *engine.ValidationError", err)
	}
	if ve.Message != "Station code in warning file does not match observation file" {
		t.Errorf("message = %q, want engine error verbatim", ve.Message)
	}
	if got := engine.MapHTTPStatus(err); got != http.StatusBadRequest {
		t.Errorf("MapHTTPStatus() = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestUploadWarningFile(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload_ad_warning" {
			t.Errorf("path = %s, want /api/upload_ad_warning", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("file part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"preview": "AERODROME WARNING NO 1"}`))
	}))

	preview, err := client.UploadWarningFile(context.Background(), engine.FileUpload{
		Name:   "warning.txt",
		Reader: strings.NewReader("AD WRNG 1"),
	})
	if err != nil {
		t.Fatalf("UploadWarningFile() error = %v", err)
	}
	if preview != "AERODROME WARNING NO 1" {
		t.Errorf("preview = %q", preview)
	}
}

func TestDownloadArtifact(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/download/comparison_csv" {
			t.Errorf("path = %s, want /api/download/comparison_csv", r.URL.Path)
		}
		if got := r.URL.Query().Get("file_path"); got != "/tmp/cmp.csv" {
			t.Errorf("file_path = %q, want /tmp/cmp.csv", got)
		}
		w.Write([]byte("Time,Forecast,Observed\n0400,09010KT,09008KT\n"))
	}))

	body, err := client.DownloadArtifact(context.Background(), "comparison_csv", "/tmp/cmp.csv")
	if err != nil {
		t.Fatalf("DownloadArtifact() error = %v", err)
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(content) != "Time,Forecast,Observed\n0400,09010KT,09008KT\n" {
		t.Errorf("artifact content = %q", content)
	}
}

func TestDownloadArtifactNotFound(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "File not found"}`))
	}))

	_, err := client.DownloadArtifact(context.Background(), "merged_csv", "/tmp/missing.csv")
	if err == nil {
		t.Fatal("DownloadArtifact() expected error")
	}

	var te *engine.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *engine.TransportError", err)
	}
	if te.Message != "File not found" {
		t.Errorf("message = %q, want engine error verbatim", te.Message)
	}
}

func TestGetMetar(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start_date") != "202401010000" || q.Get("end_date") != "202401020000" || q.Get("icao") != "VABB" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte("METAR VABB 010430Z 09010KT 4000 HZ"))
	}))

	text, err := client.GetMetar(context.Background(), "202401010000", "202401020000", "VABB")
	if err != nil {
		t.Fatalf("GetMetar() error = %v", err)
	}
	if text != "METAR VABB 010430Z 09010KT 4000 HZ" {
		t.Errorf("text = %q", text)
	}
}

func TestGetUpperAirHTMLMeansNoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"doctype", "<!DOCTYPE html>\n<html><body>No data</body></html>"},
		{"html tag", "<html><head></head></html>"},
		{"leading whitespace", "\n  <HTML>empty</HTML>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			_, err := client.GetUpperAir(context.Background(), "2024-01-01 00:00:00", "43003")
			if !errors.Is(err, engine.ErrNoData) {
				t.Errorf("GetUpperAir() error = %v, want ErrNoData", err)
			}
		})
	}
}

func TestGetUpperAirText(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("datetime") != "2024-01-01 00:00:00" || q.Get("station_id") != "43003" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte("43003 TTAA 01001 ..."))
	}))

	text, err := client.GetUpperAir(context.Background(), "2024-01-01 00:00:00", "43003")
	if err != nil {
		t.Fatalf("GetUpperAir() error = %v", err)
	}
	if text != "43003 TTAA 01001 ..." {
		t.Errorf("text = %q", text)
	}
}

func TestProcessMetarAcceptedStatus(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{
			"metadata": {"icao": "VABB", "start_time": "202401010000", "end_time": "202401020000"},
			"metrics": {"total_comparisons": 10, "accurate_predictions": 8, "accuracy_percentage": 80.0},
			"file_paths": {"comparison_csv": "/tmp/cmp.csv", "merged_csv": "/tmp/merged.csv"}
		}`))
	}))

	result, err := client.ProcessMetar(context.Background(), engine.MetarSubmission{
		ICAO:      "VABB",
		StartDate: "202401010000",
		EndDate:   "202401020000",
		Forecast: engine.FileUpload{
			Name:   "forecast.csv",
			Reader: strings.NewReader("Time,Wind\n0400,09010KT\n"),
		},
	})
	if err != nil {
		t.Fatalf("ProcessMetar() error = %v, want 202 treated as success", err)
	}
	if result.Metrics.AccuracyPercentage != 80.0 {
		t.Errorf("accuracy = %v, want 80", result.Metrics.AccuracyPercentage)
	}
}

func TestGetMetarNonOKSuccessStatus(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("METAR VABB 010400Z 09010KT"))
	}))

	text, err := client.GetMetar(context.Background(), "202401010000", "202401020000", "VABB")
	if err != nil {
		t.Fatalf("GetMetar() error = %v, want 202 treated as success", err)
	}
	if text != "METAR VABB 010400Z 09010KT" {
		t.Errorf("text = %q", text)
	}
}

func TestDecodeFailureWithoutBody(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.GetMetar(context.Background(), "202401010000", "202401020000", "VABB")
	if err == nil {
		t.Fatal("GetMetar() expected error")
	}

	var te *engine.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *engine.TransportError", err)
	}
	if !strings.Contains(te.Message, "500") {
		t.Errorf("message = %q, want status fallback", te.Message)
	}
}
