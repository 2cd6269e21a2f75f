package eventsproc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

// APIClient calls back into the API process's disconnect endpoint
// whenever a bound connection is lost, grounded on the source's
// EventsApiClient (§4.10).
type APIClient struct {
	baseURL         string
	eventsSecretHash string
	httpClient      *http.Client
}

func NewAPIClient(baseURL, eventsSecretHash string) *APIClient {
	return &APIClient{
		baseURL:          baseURL,
		eventsSecretHash: eventsSecretHash,
		httpClient:       &http.Client{Timeout: 5 * time.Second},
	}
}

type disconnectBody struct {
	UserID uuid.UUID `json:"user_id"`
}

// NotifyDisconnect implements DisconnectNotifier. It is fire-and-forget:
// a failed callback is logged, not retried — the user's next request
// will re-resolve their state regardless (§4.10).
func (c *APIClient) NotifyDisconnect(userID uuid.UUID) {
	body, err := json.Marshal(disconnectBody{UserID: userID})
	if err != nil {
		logger.Get().Error("disconnect_callback_encode_failed", zap.Error(err))
		return
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/gamerooms/disconnect", bytes.NewReader(body))
	if err != nil {
		logger.Get().Error("disconnect_callback_build_failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.eventsSecretHash))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Get().Warn("disconnect_callback_failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Get().Warn("disconnect_callback_rejected",
			zap.String("user_id", userID.String()), zap.Int("status", resp.StatusCode))
	}
}
