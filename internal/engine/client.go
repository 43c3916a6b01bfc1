// Package engine is the HTTP client for the external verification engine,
// which performs the forecast-vs-observed comparison and serves its
// artifacts for download.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/kevinnadar22/metar-verify/internal/config"
)

// Client talks to the verification engine. Requests carry no client-side
// timeout; cancellation happens through the caller's context when a run is
// superseded or reset.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates an engine client from configuration.
func New(cfg *config.EngineConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{},
		logger:  logger.With("system", "engine"),
	}
}

// ProcessMetar submits a surface verification run.
func (c *Client) ProcessMetar(ctx context.Context, sub MetarSubmission) (*MetarResult, error) {
	fields := map[string]string{
		"start_date": sub.StartDate,
		"end_date":   sub.EndDate,
		"icao":       sub.ICAO,
	}

	var result MetarResult
	if err := c.submitMultipart(ctx, "/api/process_metar", fields, sub.Forecast, sub.Observation, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ProcessUpperAir submits an upper-air verification run.
func (c *Client) ProcessUpperAir(ctx context.Context, sub UpperAirSubmission) (*UpperAirResult, error) {
	fields := map[string]string{
		"station_id": sub.StationID,
	}
	if sub.Observation == nil {
		fields["datetime"] = sub.DateTime
	}

	var result UpperAirResult
	if err := c.submitMultipart(ctx, "/api/process_upper_air", fields, sub.Forecast, sub.Observation, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyWarnings runs the aerodrome-warning verification against the
// forecast previously staged via UploadWarningFile. A response with
// success=false carries the engine's error message verbatim.
func (c *Client) VerifyWarnings(ctx context.Context) (*WarningResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/adwrn_verify", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportErr(0, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(resp.StatusCode, "read response: %v", err)
	}

	var result WarningResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, c.decodeFailure(resp.StatusCode, body)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "warning verification failed"
		}
		if result.ValidationFailed {
			return nil, &ValidationError{Message: msg}
		}
		return nil, transportErr(resp.StatusCode, "%s", msg)
	}
	return &result, nil
}

// UploadWarningFile stages an aerodrome-warning forecast on the engine and
// returns the engine's text preview of it.
func (c *Client) UploadWarningFile(ctx context.Context, file FileUpload) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writeFilePart(writer, "file", file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload_ad_warning", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", transportErr(0, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportErr(resp.StatusCode, "read response: %v", err)
	}

	var payload struct {
		Preview string `json:"preview"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", c.decodeFailure(resp.StatusCode, body)
	}
	if payload.Error != "" {
		return "", transportErr(resp.StatusCode, "%s", payload.Error)
	}
	return payload.Preview, nil
}

// DownloadArtifact streams an engine artifact. The filePath value is the
// opaque server path returned by a process call; artifact names the download
// route segment (comparison_csv, merged_csv, upper_air_csv, adwrn_report).
// The caller must close the reader.
func (c *Client) DownloadArtifact(ctx context.Context, artifact, filePath string) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf("%s/api/download/%s", c.baseURL, url.PathEscape(artifact))
	if filePath != "" {
		endpoint += "?file_path=" + url.QueryEscape(filePath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportErr(0, "%v", err)
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, c.decodeFailure(resp.StatusCode, body)
	}

	return resp.Body, nil
}

// GetMetar fetches a raw METAR observation preview for the given compact
// time window and station.
func (c *Client) GetMetar(ctx context.Context, startDate, endDate, icao string) (string, error) {
	params := url.Values{
		"start_date": {startDate},
		"end_date":   {endDate},
		"icao":       {icao},
	}
	return c.getText(ctx, "/api/get_metar", params)
}

// GetUpperAir fetches a raw upper-air sounding preview. The remote archive
// answers with an HTML page when it has no data, which surfaces as ErrNoData.
func (c *Client) GetUpperAir(ctx context.Context, datetime, stationID string) (string, error) {
	params := url.Values{
		"datetime":   {datetime},
		"station_id": {stationID},
	}

	text, err := c.getText(ctx, "/api/get_upper_air", params)
	if err != nil {
		return "", err
	}

	lowered := strings.ToLower(strings.TrimSpace(text))
	if strings.HasPrefix(lowered, "<!doctype html") || strings.HasPrefix(lowered, "<html") {
		return "", ErrNoData
	}
	return text, nil
}

func (c *Client) getText(ctx context.Context, path string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", transportErr(0, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportErr(resp.StatusCode, "read response: %v", err)
	}
	if resp.StatusCode/100 != 2 {
		return "", c.decodeFailure(resp.StatusCode, body)
	}

	return string(body), nil
}

func (c *Client) submitMultipart(ctx context.Context, path string, fields map[string]string, forecast FileUpload, observation *FileUpload, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writeFilePart(writer, "forecast_file", forecast); err != nil {
		return err
	}
	if observation != nil {
		if err := writeFilePart(writer, "observation_file", *observation); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Info("submitting verification", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return transportErr(0, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr(resp.StatusCode, "read response: %v", err)
	}
	if resp.StatusCode/100 != 2 {
		return c.decodeFailure(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeFailure surfaces the engine's JSON error message unmodified,
// falling back to the HTTP status text when the body carries none.
func (c *Client) decodeFailure(status int, body []byte) *TransportError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return transportErr(status, "%s", payload.Error)
	}
	return transportErr(status, "engine returned %d: %s", status, http.StatusText(status))
}

func writeFilePart(writer *multipart.Writer, field string, file FileUpload) error {
	part, err := writer.CreateFormFile(field, file.Name)
	if err != nil {
		return fmt.Errorf("create file part %s: %w", field, err)
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return fmt.Errorf("copy file part %s: %w", field, err)
	}
	return nil
}
