// Package portal adapts a legacy government portal that answers form-encoded
// POSTs with a semi-structured text body instead of JSON. The portal URL and
// session cookie are supplied by configuration: the session cookie expires and
// this integration must be assumed temporary.
package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"consulta/internal/domain"
	"consulta/internal/identity/models"
	"consulta/internal/identity/providers"
)

// Client queries the legacy portal.
type Client struct {
	url    string
	cookie string
	http   *http.Client
}

func New(portalURL, sessionCookie string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:    portalURL,
		cookie: sessionCookie,
		http:   httpClient,
	}
}

func (c *Client) Name() string {
	return models.SourcePortal
}

// Field extraction patterns over the normalized body. The portal mixes single
// and double quotes, so double quotes are rewritten to single quotes first.
var (
	nomePattern       = regexp.MustCompile(`NOME='([^']*)'`)
	nascimentoPattern = regexp.MustCompile(`NASCIMENTO='([^']*)'`)
	nomeMaePattern    = regexp.MustCompile(`NOME_MAE='([^']*)'`)
)

// Lookup issues the form-encoded POST with the configured session cookie and
// a cache-busting token, then extracts NOME, NASCIMENTO and NOME_MAE from the
// text body. The lookup succeeds only when both name and birth date extract
// to non-empty strings; anything else is treated as not found.
func (c *Client) Lookup(ctx context.Context, q providers.Query) (*models.Record, error) {
	form := url.Values{}
	form.Set("acao", "consultar")
	form.Set("cpf", q.CPF.String())
	form.Set("token", uuid.NewString())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, providers.NewError(providers.ErrorInternal, c.Name(), "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", c.cookie)

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

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.NewError(providers.ErrorBadData, c.Name(), "read response body", err)
	}

	name, birthDate, motherName := extractFields(string(raw))
	if name == "" || birthDate == "" {
		return nil, providers.NewError(providers.ErrorNotFound, c.Name(), "cpf not in portal response", nil)
	}

	return models.NewRecord(
		q.CPF.String(),
		domain.FormatName(name),
		domain.FormatBirthDate(birthDate),
		domain.FormatName(motherName),
		c.Name(),
	), nil
}

// extractFields pattern-matches single-quote-delimited KEY='value' tokens
// after normalizing double quotes to single quotes.
func extractFields(body string) (name, birthDate, motherName string) {
	normalized := strings.ReplaceAll(body, `"`, `'`)
	name = firstGroup(nomePattern, normalized)
	birthDate = firstGroup(nascimentoPattern, normalized)
	motherName = firstGroup(nomeMaePattern, normalized)
	return name, birthDate, motherName
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
