package holiday

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
)

// FailureReason tags why a month fetch failed
type FailureReason string

const (
	ReasonTransport    FailureReason = "transport"     // connection error or non-2xx response
	ReasonTimeout      FailureReason = "timeout"       // request exceeded the fixed timeout
	ReasonMalformed    FailureReason = "malformed"     // body is not the expected JSON shape
	ReasonMissingMonth FailureReason = "missing_month" // top-level YYYYMM key absent
)

// FetchError represents a tagged month fetch failure
type FetchError struct {
	Reason FailureReason
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Provider fetches one month of day classifications
type Provider interface {
	// FetchMonth returns the MMDD entry map for the given YYYYMM month.
	// Failures are returned as *FetchError.
	FetchMonth(yearMonth string) (MonthData, error)
}

// APIProvider implements Provider against the holiday calendar HTTP API.
// The API responds with a JSON object keyed by YYYYMM, each month mapping
// MMDD day strings to entries.
type APIProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIProvider creates a new APIProvider. baseURL must contain a {month}
// placeholder that is replaced with the YYYYMM being queried.
func NewAPIProvider(baseURL string, logger *zap.Logger) *APIProvider {
	return &APIProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchMonth fetches and parses one month of calendar data
func (p *APIProvider) FetchMonth(yearMonth string) (MonthData, error) {
	url := strings.ReplaceAll(p.baseURL, "{month}", yearMonth)

	p.logger.Debug("Fetching calendar data",
		zap.String("url", url),
		zap.String("month", yearMonth))

	resp, err := p.httpClient.Get(url)
	if err != nil {
		if isTimeout(err) {
			return nil, &FetchError{Reason: ReasonTimeout, Err: err}
		}
		return nil, &FetchError{Reason: ReasonTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Reason: ReasonTransport,
			Err:    fmt.Errorf("API returned status %d", resp.StatusCode),
		}
	}

	var payload map[string]MonthData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{
			Reason: ReasonMalformed,
			Err:    fmt.Errorf("failed to parse API response: %w", err),
		}
	}

	days, ok := payload[yearMonth]
	if !ok {
		return nil, &FetchError{
			Reason: ReasonMissingMonth,
			Err:    fmt.Errorf("month %s not present in API response", yearMonth),
		}
	}

	p.logger.Info("Month data fetched",
		zap.String("month", yearMonth),
		zap.Int("days", len(days)))

	return days, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
