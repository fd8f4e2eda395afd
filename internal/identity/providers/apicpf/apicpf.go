// Package apicpf adapts the primary identity API: a JSON endpoint keyed by a
// static API credential that answers with an explicit success flag plus a data
// payload.
package apicpf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"consulta/internal/domain"
	"consulta/internal/identity/models"
	"consulta/internal/identity/providers"
)

// Client queries the primary identity API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates the adapter. A nil httpClient falls back to http.DefaultClient;
// timeouts are imposed uniformly by the resolver through the context.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

func (c *Client) Name() string {
	return models.SourceAPICPF
}

type payload struct {
	Success bool  `json:"success"`
	Data    *data `json:"data"`
}

type data struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Gender    string `json:"gender"`
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
}

// Lookup issues GET {base}/api/cpf/{cpf} with the API key header. Success
// requires the explicit success flag and a data payload with a name. The
// provider does not supply the mother's name, so it is left empty.
func (c *Client) Lookup(ctx context.Context, q providers.Query) (*models.Record, error) {
	url := fmt.Sprintf("%s/api/cpf/%s", c.baseURL, q.CPF.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, providers.NewError(providers.ErrorInternal, c.Name(), "build request", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, providers.NewError(providers.ErrorTimeout, c.Name(), "request timed out", err)
		}
		return nil, providers.NewError(providers.ErrorOutage, c.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, providers.NewError(providers.ErrorNotFound, c.Name(), "cpf not in source", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, providers.NewError(providers.ErrorOutage, c.Name(), fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, providers.NewError(providers.ErrorBadData, c.Name(), "malformed response body", err)
	}
	if !body.Success || body.Data == nil {
		return nil, providers.NewError(providers.ErrorNotFound, c.Name(), "no data for cpf", nil)
	}
	if body.Data.Name == "" {
		return nil, providers.NewError(providers.ErrorBadData, c.Name(), "payload missing name", nil)
	}

	record := models.NewRecord(
		q.CPF.String(),
		domain.FormatName(body.Data.Name),
		domain.FormatBirthDate(body.Data.BirthDate),
		"", // not supplied by this source
		c.Name(),
	)
	record.Gender = body.Data.Gender
	record.Day = body.Data.Day
	record.Month = body.Data.Month
	record.Year = body.Data.Year
	return record, nil
}
