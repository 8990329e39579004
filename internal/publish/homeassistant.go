package publish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jamebal/hacs-chinese-holidays/internal/holiday"
	"go.uber.org/zap"
)

const haTimeout = 10 * time.Second

// HASink pushes classification results into Home Assistant through its
// REST API, setting the state of a single sensor entity.
type HASink struct {
	baseURL    string
	token      string
	entityID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// haState is the body of POST /api/states/<entity_id>
type haState struct {
	State      string                 `json:"state"`
	Attributes map[string]interface{} `json:"attributes"`
}

// NewHASink creates a new Home Assistant REST sink. baseURL is the HA
// instance root (e.g. http://homeassistant.local:8123), token a long-lived
// access token, entityID the sensor to set (e.g. sensor.holiday_status).
func NewHASink(baseURL, token, entityID string, logger *zap.Logger) *HASink {
	return &HASink{
		baseURL:  baseURL,
		token:    token,
		entityID: entityID,
		httpClient: &http.Client{
			Timeout: haTimeout,
		},
		logger: logger,
	}
}

// Publish sets the entity state in Home Assistant
func (s *HASink) Publish(result holiday.Result) error {
	body, err := json.Marshal(haState{
		State:      result.State,
		Attributes: result.Attributes,
	})
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	url := fmt.Sprintf("%s/api/states/%s", s.baseURL, s.entityID)

	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Home Assistant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Home Assistant returned status %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Info("Entity state set in Home Assistant",
		zap.String("entity_id", s.entityID),
		zap.String("state", result.State))

	return nil
}
