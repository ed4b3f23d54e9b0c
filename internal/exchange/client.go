// internal/exchange/client.go
// Клиент exchangerate-api.com (эндпоинт pair), ответы не кэшируются.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"finance-tracker/internal/config"
	"finance-tracker/internal/domain"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	// провайдер ответил, но с result != success
	ErrInvalidPair = errors.New("invalid currency pair")
	// сеть, таймаут или нечитаемый ответ
	ErrProvider = errors.New("exchange rate provider failure")
)

const resultSuccess = "success"

type pairResponse struct {
	Result            string  `json:"result"`
	ErrorType         string  `json:"error-type"`
	ConversionRate    float64 `json:"conversion_rate"`
	TimeLastUpdateUTC string  `json:"time_last_update_utc"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	retries    uint64
	backoff    time.Duration
}

func NewClient(cfg config.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.ExchangeTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.ExchangeBaseURL, "/"),
		apiKey:     cfg.ExchangeAPIKey,
		retries:    cfg.ExchangeRetries,
		backoff:    200 * time.Millisecond,
	}
}

// Rate запрашивает текущий курс from→to с ретраями на ошибках транспорта.
func (c *Client) Rate(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: api key is not configured", ErrProvider)
	}

	endpoint := fmt.Sprintf("%s/%s/pair/%s/%s", c.baseURL,
		url.PathEscape(c.apiKey), url.PathEscape(from), url.PathEscape(to))

	var body pairResponse
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		body, err = c.fetch(ctx, endpoint)
		return err
	})
	if err != nil {
		return nil, err
	}

	if body.Result != resultSuccess {
		slog.Debug("Provider rejected pair", "from", from, "to", to, "error_type", body.ErrorType)
		return nil, fmt.Errorf("%w: %s/%s (%s)", ErrInvalidPair, from, to, body.ErrorType)
	}

	return &domain.ExchangeRate{
		From:        from,
		To:          to,
		Rate:        body.ConversionRate,
		LastUpdated: body.TimeLastUpdateUTC,
	}, nil
}

// fetch выполняет один запрос. Сетевые ошибки и 5xx помечаются как retryable.
func (c *Client) fetch(ctx context.Context, endpoint string) (pairResponse, error) {
	var body pairResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return body, fmt.Errorf("%w: build request: %w", ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return body, retry.RetryableError(fmt.Errorf("%w: %w", ErrProvider, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return body, retry.RetryableError(fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode))
	}

	// провайдер отвечает JSON с result=error и на 4xx, поэтому тело читаем всегда
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return body, fmt.Errorf("%w: decode response (status %d): %w", ErrProvider, resp.StatusCode, err)
	}
	return body, nil
}
