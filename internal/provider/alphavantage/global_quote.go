package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"quotecollector/internal/provider"
)

const globalQuoteKey = "Global Quote"

// noticeKeys are top-level fields the API sends in place of data, for
// instance when the key is rate limited or invalid.
var noticeKeys = []string{"Note", "Information", "Error Message"}

// Fetch retrieves the global quote for symbol. Failures are logged with the
// symbol and returned wrapped in one of provider.ErrNetwork,
// provider.ErrEmptyQuote or provider.ErrParse.
func (c *Client) Fetch(ctx context.Context, symbol string) (provider.Quote, error) {
	log := c.log.WithField("symbol", symbol)

	q, err := c.fetchGlobalQuote(ctx, symbol)
	switch {
	case err == nil:
		log.Infof("[%s] %s - Price: $%.2f, Volume: %d", q.Timestamp, q.Symbol, q.Price, q.Volume)
		return q, nil
	case errors.Is(err, provider.ErrEmptyQuote):
		log.WithError(err).Errorf("unexpected data format or empty response for %s", symbol)
	case errors.Is(err, provider.ErrParse):
		log.WithError(err).Errorf("data conversion error for %s", symbol)
	default:
		log.WithError(err).Errorf("error fetching data for %s", symbol)
	}
	return provider.Quote{}, err
}

func (c *Client) fetchGlobalQuote(ctx context.Context, symbol string) (provider.Quote, error) {
	query := maps.Clone(c.query)
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)

	url := fmt.Sprintf("%s/query?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return provider.Quote{}, fmt.Errorf("%w: creating request: %w", provider.ErrNetwork, err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return provider.Quote{}, fmt.Errorf("%w: performing request: %w", provider.ErrNetwork, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return provider.Quote{}, fmt.Errorf("%w: unexpected status code %d: %s", provider.ErrNetwork, res.StatusCode, strings.TrimSpace(string(b)))
	}

	var doc any
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return provider.Quote{}, fmt.Errorf("%w: decoding response: %w", provider.ErrNetwork, err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return provider.Quote{}, fmt.Errorf("%w: decoding response: trailing data after JSON value", provider.ErrNetwork)
	}

	body, ok := doc.(map[string]any)
	if !ok {
		return provider.Quote{}, fmt.Errorf("%w: response is %T, not an object", provider.ErrEmptyQuote, doc)
	}

	// {
	//   "Global Quote": {
	//     "01. symbol": "IBM",
	//     "02. open": "229.9900",
	//     ...
	//     "10. change percent": "0.3919%"
	//   }
	// }
	payload, _ := body[globalQuoteKey].(map[string]any)
	if len(payload) == 0 {
		for _, key := range noticeKeys {
			if notice, ok := body[key].(string); ok && notice != "" {
				return provider.Quote{}, fmt.Errorf("%w: %s: %s", provider.ErrEmptyQuote, key, notice)
			}
		}
		return provider.Quote{}, fmt.Errorf("%w: missing %q", provider.ErrEmptyQuote, globalQuoteKey)
	}

	return MapGlobalQuote(payload, symbol, c.now())
}
