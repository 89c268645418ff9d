package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
)

type SMSSender interface {
	Send(ctx context.Context, to, text string) error
}

type httpSMSSender struct {
	cfg    config.SMSConfig
	client *http.Client
}

func NewHTTPSMSSender(cfg config.SMSConfig) SMSSender {
	return &httpSMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

func (s *httpSMSSender) Send(ctx context.Context, to, text string) error {
	if s.cfg.APIURL == "" || s.cfg.APIKey == "" {
		logger.Info("[DEV MODE] SMS not sent, provider not configured", map[string]interface{}{
			"to": to,
		})
		return nil
	}

	payload, err := json.Marshal(smsRequest{From: s.cfg.Sender, To: to, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sms provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Warn("SMS provider returned error", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}

	logger.Info("SMS sent", map[string]interface{}{
		"to": to,
	})
	return nil
}
