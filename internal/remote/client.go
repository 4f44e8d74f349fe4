// remote — HTTP+JSON клиент удалённого источника секций и поиска.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pribylovaa/go-audio-sections/pkg/log"
)

// maxBodyBytes ограничивает размер читаемого ответа.
const maxBodyBytes = 10 << 20

// HTTPError — ответ с кодом, отличным от 200.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d from %s", e.StatusCode, e.URL)
}

// HTTPStatus возвращает HTTP-код ответа.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// DecodeError — тело ответа не является ожидаемым JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseFault помечает ошибку как ошибку разбора.
func (e *DecodeError) ParseFault() {}

// Client ходит в два базовых адреса: ленту секций и поиск.
// HTTP-клиент настраивается извне (таймауты, прокси и т.д.).
type Client struct {
	client    *http.Client
	homeURL   *url.URL
	searchURL *url.URL
}

// New создаёт клиента. Оба адреса должны быть абсолютными.
func New(client *http.Client, homeURL, searchURL string) (*Client, error) {
	const op = "remote.New"

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	home, err := parseBase(homeURL)
	if err != nil {
		return nil, fmt.Errorf("%s: home_url: %w", op, err)
	}

	search, err := parseBase(searchURL)
	if err != nil {
		return nil, fmt.Errorf("%s: search_url: %w", op, err)
	}

	return &Client{client: client, homeURL: home, searchURL: search}, nil
}

func parseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("url %q is not absolute", raw)
	}

	return u, nil
}

// FetchSections загружает страницу page ленты секций (GET /home_sections?page=N).
// Повторный вызов с тем же page идемпотентен.
func (c *Client) FetchSections(ctx context.Context, page int) (*HomeResponse, error) {
	const op = "remote.FetchSections"

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	target := c.homeURL.ResolveReference(&url.URL{Path: "/home_sections", RawQuery: q.Encode()})

	resp, err := c.get(ctx, target.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// Search выполняет поиск по ключевому слову (GET search?keyword=K).
func (c *Client) Search(ctx context.Context, keyword string) (*HomeResponse, error) {
	const op = "remote.Search"

	q := url.Values{}
	q.Set("keyword", keyword)
	target := c.searchURL.ResolveReference(&url.URL{Path: "search", RawQuery: q.Encode()})

	resp, err := c.get(ctx, target.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// get выполняет запрос и декодирует HomeResponse.
// Ошибки чтения тела остаются сетевыми, ошибки JSON оборачиваются в *DecodeError.
func (c *Client) get(ctx context.Context, target string) (*HomeResponse, error) {
	lg := log.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("new_request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		lg.Warn("http_error",
			slog.String("op", "remote.get"),
			slog.String("url", target),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		lg.Warn("http_status",
			slog.String("op", "remote.get"),
			slog.String("url", target),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: target}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read_body: %w", err)
	}

	var out HomeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{URL: target, Err: err}
	}

	return &out, nil
}
