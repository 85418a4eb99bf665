package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPSource fetches a document with a GET request
type HTTPSource struct {
	URL    string
	client *resty.Client
}

// HTTPOptions configures an HTTPSource
type HTTPOptions struct {
	Token   string
	Timeout time.Duration
	Retries int
}

// NewHTTPSource creates an HTTP source for url
func NewHTTPSource(url string, opts HTTPOptions) *HTTPSource {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	return &HTTPSource{URL: url, client: client}
}

// Name returns the endpoint URL
func (s *HTTPSource) Name() string {
	return s.URL
}

// Load fetches and decodes the document
func (s *HTTPSource) Load(ctx context.Context) (*Document, error) {
	response, err := s.client.R().
		SetContext(ctx).
		Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("event endpoint returned status %d: %s", response.StatusCode(), string(response.Body()))
	}

	doc, err := Decode(response.Body())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.URL, err)
	}
	return doc, nil
}
