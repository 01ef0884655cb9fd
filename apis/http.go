package apis

import (
	"context"
	"io"
	"net/http"
)

type HTTPCredentials struct {
	URL      string
	Username string
	Password string
}

func newRequest(ctx context.Context, method string, body io.Reader, credentials HTTPCredentials) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, credentials.URL, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credentials.Username != "" && credentials.Password != "" {
		req.SetBasicAuth(credentials.Username, credentials.Password)
	}
	return req, nil
}
