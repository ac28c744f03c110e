package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

const defaultFetchTimeout = 3 * time.Second

// Client читает каталог товаров по HTTP. Экземпляр держит один общий
// connection-pooled http.Client на процесс и безопасен для конкурентного
// использования. Любой сбой — сеть, таймаут, не-2xx статус, нечитаемый
// ответ — возвращается вызывающему как явная ошибка: политику деградации
// выбирает он, а не клиент.
type Client struct {
	httpClient *http.Client
	url        string
	timeout    time.Duration
	logger     *log.Entry
}

// ClientOptions задаёт параметры клиента каталога.
type ClientOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *log.Entry
}

// Option настраивает Client.
type Option func(*ClientOptions)

// WithHTTPClient подменяет транспорт (общий клиент процесса или тестовый).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *ClientOptions) {
		opts.HTTPClient = httpClient
	}
}

// WithTimeout задаёт предел ожидания одного запроса к каталогу.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *ClientOptions) {
		opts.Timeout = timeout
	}
}

// WithLogger задаёт logger клиента.
func WithLogger(logger *log.Entry) Option {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// NewClient создаёт клиент каталога для фиксированного endpoint.
func NewClient(url string, options ...Option) *Client {
	opts := ClientOptions{
		Timeout: defaultFetchTimeout,
	}
	for _, option := range options {
		option(&opts)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "catalog-client")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}

	return &Client{
		httpClient: httpClient,
		url:        url,
		timeout:    opts.Timeout,
		logger:     logger,
	}
}

// productPayload — формат записи каталога на проводе; сервису заказов
// нужен только productId.
type productPayload struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name,omitempty"`
}

// FetchAll выполняет один GET к каталогу и возвращает полный список товаров.
// Повторов и circuit breaker нет: одна попытка на один запрос создания заказа.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Product, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	var payload []productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	products := make([]domain.Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, domain.Product{ID: p.ProductID, Name: p.Name})
	}

	c.logger.WithField("products", len(products)).Debug("catalog snapshot fetched")
	return products, nil
}

var _ domain.ProductCatalog = (*Client)(nil)
