// Package robinhood implements the rebalance.Brokerage interface against the
// Robinhood web API: token login, account portfolio, held positions,
// instrument resolution and live quotes.
package robinhood

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/etnz/rebalance"
)

const apiBase = "https://api.robinhood.com"

// Client is an authenticated Robinhood API client.
type Client struct {
	live   *http.Client // account, positions and quotes: always fresh
	cached *http.Client // instrument metadata: daily disk cache
	token  string
}

// New returns a client carrying the given session token. An empty token is
// acceptable until Login is called.
func New(token string) *Client {
	return &Client{live: new(http.Client), cached: daily(), token: token}
}

// Token returns the current session token, for persistence.
func (c *Client) Token() string { return c.token }

// Login authenticates with username and password and stores the session
// token on the client.
func (c *Client) Login(username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.live.PostForm(apiBase+"/api-token-auth/", form)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("login response unreadable: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed, wrong password? (%s)", resp.Status)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("cannot parse login response: %w", err)
	}
	if payload.Token == "" {
		return fmt.Errorf("login response carries no token")
	}
	c.token = payload.Token
	return nil
}

// jwget performs an authenticated GET and unmarshals the JSON response.
func (c *Client) jwget(client *http.Client, addr string, data any) error {
	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return json.Unmarshal(body, data)
}

// Portfolio returns the raw account snapshot.
//
// The endpoint nests the account record in a results list; the fields are
// extracted with jsonpath rather than a dedicated struct because the payload
// carries a few dozen sibling fields we do not care about.
func (c *Client) Portfolio() (rebalance.PortfolioRecord, error) {
	var jobj any
	if err := c.jwget(c.live, apiBase+"/portfolios/", &jobj); err != nil {
		return rebalance.PortfolioRecord{}, fmt.Errorf("cannot fetch portfolio: %w", err)
	}
	return decodePortfolio(jobj)
}

// decodePortfolio extracts the summary amounts from the portfolios payload.
func decodePortfolio(jobj any) (rec rebalance.PortfolioRecord, err error) {
	for path, dst := range map[string]*string{
		"$.results[0].equity":                         &rec.Equity,
		"$.results[0].adjusted_equity_previous_close": &rec.AdjustedEquityPreviousClose,
		"$.results[0].market_value":                   &rec.MarketValue,
	} {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			return rec, fmt.Errorf("portfolio payload: %q: %w", path, err)
		}
		s, ok := jval.(string)
		if !ok {
			return rec, fmt.Errorf("portfolio payload: %q is %T, expected string", path, jval)
		}
		*dst = s
	}
	return rec, nil
}

// positionsPage is one page of the paginated positions endpoint.
type positionsPage struct {
	Results []struct {
		Quantity        string `json:"quantity"`
		AverageBuyPrice string `json:"average_buy_price"`
		Instrument      string `json:"instrument"`
	} `json:"results"`
	Next string `json:"next"`
}

// Positions returns all nonzero held positions, following the pagination
// cursor until exhausted.
func (c *Client) Positions() ([]rebalance.PositionRecord, error) {
	var records []rebalance.PositionRecord

	addr := apiBase + "/positions/?nonzero=true"
	for addr != "" {
		var page positionsPage
		if err := c.jwget(c.live, addr, &page); err != nil {
			return nil, fmt.Errorf("cannot fetch positions: %w", err)
		}
		for _, r := range page.Results {
			records = append(records, rebalance.PositionRecord{
				Quantity:        r.Quantity,
				AverageBuyPrice: r.AverageBuyPrice,
				Instrument:      r.Instrument,
			})
		}
		addr = page.Next
	}
	return records, nil
}

// Instrument resolves an instrument reference (a full API URL) to its symbol
// and display name. Instrument metadata is immutable in practice, so the
// lookup goes through the daily disk cache.
func (c *Client) Instrument(ref string) (rebalance.InstrumentRecord, error) {
	if !strings.HasPrefix(ref, apiBase) {
		return rebalance.InstrumentRecord{}, fmt.Errorf("refusing instrument reference outside the API: %q", ref)
	}
	var payload struct {
		Symbol     string `json:"symbol"`
		SimpleName string `json:"simple_name"`
	}
	if err := c.jwget(c.cached, ref, &payload); err != nil {
		return rebalance.InstrumentRecord{}, fmt.Errorf("cannot resolve instrument %q: %w", ref, err)
	}
	return rebalance.InstrumentRecord{Symbol: payload.Symbol, SimpleName: payload.SimpleName}, nil
}

// Quote returns the live quote for a symbol.
func (c *Client) Quote(symbol string) (rebalance.QuoteRecord, error) {
	var payload struct {
		LastTradePrice string `json:"last_trade_price"`
		PreviousClose  string `json:"previous_close"`
	}
	addr := fmt.Sprintf("%s/quotes/%s/", apiBase, url.PathEscape(symbol))
	if err := c.jwget(c.live, addr, &payload); err != nil {
		return rebalance.QuoteRecord{}, fmt.Errorf("cannot fetch quote for %s: %w", symbol, err)
	}
	return rebalance.QuoteRecord{LastTradePrice: payload.LastTradePrice, PreviousClose: payload.PreviousClose}, nil
}
