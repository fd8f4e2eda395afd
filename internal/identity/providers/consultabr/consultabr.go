// Package consultabr adapts the secondary scraped-data API: a JSON endpoint
// returning a list of records with upper-snake-case keys.
package consultabr

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

// Client queries the secondary scraped-data API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Name() string {
	return models.SourceConsultaBR
}

type entry struct {
	Nome           string `json:"NOME"`
	DataNascimento string `json:"DATA_NASCIMENTO"`
	NomeMae        string `json:"NOME_MAE"`
}

// Lookup issues GET {base}/cpf/{cpf} with browser-like headers, as the source
// rejects obvious non-browser traffic. Success requires a non-empty result
// list; only the first entry is used. The wire birth date is hyphenated
// (YYYY-MM-DD); when the source omits it the user-supplied date is echoed.
func (c *Client) Lookup(ctx context.Context, q providers.Query) (*models.Record, error) {
	url := fmt.Sprintf("%s/cpf/%s", c.baseURL, q.CPF.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, providers.NewError(providers.ErrorInternal, c.Name(), "build request", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, providers.NewError(providers.ErrorTimeout, c.Name(), "request timed out", err)
		}
		return nil, providers.NewError(providers.ErrorOutage, c.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, providers.NewError(providers.ErrorOutage, c.Name(), fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, providers.NewError(providers.ErrorBadData, c.Name(), "malformed response body", err)
	}
	if len(entries) == 0 {
		return nil, providers.NewError(providers.ErrorNotFound, c.Name(), "empty result list", nil)
	}

	first := entries[0]
	if first.Nome == "" {
		return nil, providers.NewError(providers.ErrorBadData, c.Name(), "entry missing NOME", nil)
	}

	birthDate := domain.FormatBirthDate(first.DataNascimento)
	if birthDate == "" {
		birthDate = q.BirthDate
	}

	return models.NewRecord(
		q.CPF.String(),
		domain.FormatName(first.Nome),
		birthDate,
		domain.FormatName(first.NomeMae),
		c.Name(),
	), nil
}
