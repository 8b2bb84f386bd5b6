// Package smsgateway реализует клиент HTTP API sms.ru для отправки SMS.
package smsgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
)

// ErrSMSDelivery возвращается, если шлюз не принял сообщение.
var ErrSMSDelivery = errors.New("sms delivery failed")

const statusOK = "OK"

// Result — ответ шлюза на отправку одного сообщения.
type Result struct {
	Status     string               `json:"status"`
	StatusCode int                  `json:"status_code"`
	StatusText string               `json:"status_text,omitempty"`
	SMS        map[string]SMSStatus `json:"sms,omitempty"`
	Balance    float64              `json:"balance,omitempty"`
	// Raw — тело ответа как есть.
	Raw []byte `json:"-"`
}

// SMSStatus — статус сообщения на конкретный номер.
type SMSStatus struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	SMSID      string `json:"sms_id,omitempty"`
	StatusText string `json:"status_text,omitempty"`
}

// Client отправляет SMS через sms.ru.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// New создаёт клиент шлюза. timeout ограничивает время одного запроса.
func New(apiURL, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Send отправляет text на номер phone. Ответ шлюза проверяется: если общий статус
// или статус по номеру не OK, возвращается ErrSMSDelivery вместе с разобранным ответом.
func (c *Client) Send(ctx context.Context, phone, text string) (*Result, error) {
	const op = "smsgateway.Send"
	log := c.log.With(slog.String("op", op), sl.Phone(phone))

	form := url.Values{
		"api_id": {c.apiKey},
		"to":     {strings.TrimPrefix(phone, "+")},
		"text":   {text},
		"json":   {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("sms gateway request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrSMSDelivery, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := &Result{Raw: raw}
	if resp.StatusCode != http.StatusOK {
		log.Error("sms gateway returned http error", slog.Int("http_status", resp.StatusCode))
		return result, fmt.Errorf("%s: %w: http status %d", op, ErrSMSDelivery, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return result, fmt.Errorf("%s: %w: malformed response: %w", op, ErrSMSDelivery, err)
	}
	result.Raw = raw

	if result.Status != statusOK {
		log.Warn("sms rejected", slog.Int("status_code", result.StatusCode), slog.String("status_text", result.StatusText))
		return result, fmt.Errorf("%s: %w: %s", op, ErrSMSDelivery, result.StatusText)
	}
	for number, st := range result.SMS {
		if st.Status != statusOK {
			log.Warn("sms rejected for number", slog.String("number", number), slog.String("status_text", st.StatusText))
			return result, fmt.Errorf("%s: %w: %s", op, ErrSMSDelivery, st.StatusText)
		}
	}

	log.Info("sms sent")
	return result, nil
}
