// Package classifier talks to the remote fault-classification service and
// normalizes its answers into strict readings at the service boundary.
package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	predictPath  = "/predict"
	trendPath    = "/trend"
	simulatePath = "/simulate"

	simulationFileName = "simulation.csv"
)

// Config holds the classifier endpoint settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Prediction is the normalized answer to an upload.
type Prediction struct {
	Message      string
	DownloadURL  string
	TotalRecords int
	FaultCounts  models.FaultCounts
	Readings     []models.Reading
	DroppedRows  int
}

type predictResponse struct {
	Message      string         `json:"message"`
	DownloadURL  string         `json:"download_url"`
	TotalRecords *int           `json:"total_records"`
	FaultCounts  map[string]int `json:"fault_counts"`
	Predictions  []RawRow       `json:"predictions"`
}

type simulateResponse struct {
	Prediction  string   `json:"prediction"`
	Predictions []RawRow `json:"predictions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client calls the classifier over HTTP. Calls are never retried.
type Client struct {
	http *resty.Client
}

// New creates a classifier client
func New(cfg Config) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Predict uploads a CSV file and returns the per-row classification.
func (c *Client) Predict(ctx context.Context, fileName string, data io.Reader) (*Prediction, error) {
	var out predictResponse
	var fail errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", fileName, data).
		SetResult(&out).
		SetError(&fail).
		Post(predictPath)
	if err := checkResponse("predict", resp, err, fail); err != nil {
		return nil, err
	}

	readings, dropped := Normalize(out.Predictions)
	counts := models.NormalizeCounts(out.FaultCounts)
	if len(counts) == 0 {
		counts = CountLabels(readings)
	}
	total := counts.Total()
	switch {
	case out.TotalRecords == nil || *out.TotalRecords == total:
	case len(counts) == 0:
		total = *out.TotalRecords
		nuts.L.Debugf("[Classifier] No fault counts in response, using total_records %d", total)
	default:
		nuts.L.Warnf("[Classifier] total_records %d disagrees with fault counts %d, using counts", *out.TotalRecords, total)
	}
	if dropped > 0 {
		nuts.L.Debugf("[Classifier] Dropped %d rows without a parseable timestamp", dropped)
	}

	return &Prediction{
		Message:      out.Message,
		DownloadURL:  out.DownloadURL,
		TotalRecords: total,
		FaultCounts:  counts,
		Readings:     readings,
		DroppedRows:  dropped,
	}, nil
}

// FetchTrend returns the classifier's trend rows as readings.
func (c *Client) FetchTrend(ctx context.Context) ([]models.Reading, error) {
	var rows []RawRow
	var fail errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&rows).
		SetError(&fail).
		Get(trendPath)
	if err := checkResponse("trend", resp, err, fail); err != nil {
		return nil, err
	}

	readings, dropped := Normalize(rows)
	if dropped > 0 {
		nuts.L.Debugf("[Classifier] Dropped %d trend rows without a parseable timestamp", dropped)
	}
	return readings, nil
}

// Simulate classifies a single synthetic CSV row.
func (c *Client) Simulate(ctx context.Context, row []byte) (models.FaultLabel, error) {
	var out simulateResponse
	var fail errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", simulationFileName, bytes.NewReader(row)).
		SetResult(&out).
		SetError(&fail).
		Post(simulatePath)
	if err := checkResponse("simulate", resp, err, fail); err != nil {
		return "", err
	}

	if out.Prediction != "" {
		return models.ParseFaultLabel(out.Prediction), nil
	}
	if len(out.Predictions) > 0 {
		r, _ := normalizeRow(out.Predictions[0], false)
		return r.Fault, nil
	}
	return "", errors.NewUpstreamError("classifier returned no prediction", nil)
}

func checkResponse(op string, resp *resty.Response, err error, fail errorResponse) error {
	if err != nil {
		return errors.NewUpstreamError(fmt.Sprintf("classifier %s request failed", op), err)
	}
	if resp.IsError() {
		msg := fail.Error
		if msg == "" {
			msg = resp.Status()
		}
		return errors.NewUpstreamError(fmt.Sprintf("classifier %s failed: %s", op, msg), nil).
			WithDetails(map[string]int{"status": resp.StatusCode()})
	}
	return nil
}
