package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AngelCh415/ads-driver/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// statusError is a non-2xx upstream answer. Body is kept as opaque text.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

func getJSON(ctx context.Context, c HTTPClient, url string, p models.Principal, v any) error {
	if url == "" {
		return errors.New("empty url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	setCredentials(req.Header, p)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func setCredentials(h http.Header, p models.Principal) {
	switch p.Mode {
	case models.AuthToken:
		h.Set(models.HeaderToken, p.Credentials.Token)
	case models.AuthLogin:
		h.Set(models.HeaderLogin, p.Credentials.Login)
		h.Set(models.HeaderPassword, p.Credentials.Password)
	}
}
