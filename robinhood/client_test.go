package robinhood

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// portfolioPayload is a trimmed copy of a real /portfolios/ response: the
// fields we extract plus a few of the siblings we ignore.
const portfolioPayload = `{
  "results": [
    {
      "url": "https://api.robinhood.com/portfolios/XXX/",
      "account": "https://api.robinhood.com/accounts/XXX/",
      "equity": "10000.0000",
      "adjusted_equity_previous_close": "8000.0000",
      "market_value": "7500.0000",
      "excess_margin": "0.0000",
      "extended_hours_equity": null
    }
  ]
}`

func TestDecodePortfolio(t *testing.T) {
	var jobj any
	if err := json.Unmarshal([]byte(portfolioPayload), &jobj); err != nil {
		t.Fatalf("cannot unmarshal fixture: %v", err)
	}

	rec, err := decodePortfolio(jobj)
	if err != nil {
		t.Fatalf("decodePortfolio() unexpected error = %v", err)
	}
	if got, want := rec.Equity, "10000.0000"; got != want {
		t.Errorf("Equity = %q, want %q", got, want)
	}
	if got, want := rec.AdjustedEquityPreviousClose, "8000.0000"; got != want {
		t.Errorf("AdjustedEquityPreviousClose = %q, want %q", got, want)
	}
	if got, want := rec.MarketValue, "7500.0000"; got != want {
		t.Errorf("MarketValue = %q, want %q", got, want)
	}
}

func TestDecodePortfolio_BadPayload(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"empty results", `{"results": []}`},
		{"missing field", `{"results": [{"equity": "1"}]}`},
		{"numeric instead of string", `{"results": [{"equity": 1, "adjusted_equity_previous_close": "1", "market_value": "1"}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var jobj any
			if err := json.Unmarshal([]byte(tc.body), &jobj); err != nil {
				t.Fatalf("cannot unmarshal fixture: %v", err)
			}
			if _, err := decodePortfolio(jobj); err == nil {
				t.Error("decodePortfolio() expected an error, got none")
			}
		})
	}
}

func TestJwget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.Header.Get("Authorization"), "Token sekret"; got != want {
			t.Errorf("Authorization = %q, want %q", got, want)
		}
		fmt.Fprint(w, `{"symbol": "AAPL", "simple_name": "Apple"}`)
	}))
	defer server.Close()

	c := New("sekret")
	var payload struct {
		Symbol string `json:"symbol"`
	}
	if err := c.jwget(c.live, server.URL, &payload); err != nil {
		t.Fatalf("jwget() unexpected error = %v", err)
	}
	if got, want := payload.Symbol, "AAPL"; got != want {
		t.Errorf("Symbol = %q, want %q", got, want)
	}
}

func TestJwget_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New("expired")
	var payload any
	err := c.jwget(c.live, server.URL, &payload)
	if err == nil {
		t.Fatal("jwget() expected an error on 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not carry the status", err)
	}
}

func TestInstrument_RejectsForeignReference(t *testing.T) {
	c := New("sekret")
	_, err := c.Instrument("https://evil.example/instruments/XXX/")
	if err == nil {
		t.Fatal("Instrument() expected an error for a reference outside the API")
	}
}

func TestPositionsPageDecode(t *testing.T) {
	body := `{
	  "results": [
	    {"quantity": "10.0000", "average_buy_price": "100.0000",
	     "instrument": "https://api.robinhood.com/instruments/XXX/"}
	  ],
	  "next": "https://api.robinhood.com/positions/?cursor=abc"
	}`
	var page positionsPage
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("cannot unmarshal page: %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(page.Results))
	}
	if got, want := page.Results[0].Quantity, "10.0000"; got != want {
		t.Errorf("Quantity = %q, want %q", got, want)
	}
	if !strings.Contains(page.Next, "cursor=abc") {
		t.Errorf("Next = %q, want the follow-up cursor", page.Next)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	if _, err := LoadSession(); err == nil {
		t.Error("LoadSession() expected an error before any save")
	} else if !strings.Contains(err.Error(), "rbl login") {
		t.Errorf("error %q does not point at 'rbl login'", err)
	}

	if err := SaveSession("sekret"); err != nil {
		t.Fatalf("SaveSession() unexpected error = %v", err)
	}
	token, err := LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() unexpected error = %v", err)
	}
	if token != "sekret" {
		t.Errorf("LoadSession() = %q, want %q", token, "sekret")
	}
}

func TestSession_EmptyToken(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	if err := SaveSession(""); err != nil {
		t.Fatalf("SaveSession() unexpected error = %v", err)
	}
	if _, err := LoadSession(); err == nil {
		t.Error("LoadSession() expected an error on an empty session file")
	}
}

// The daily cache must serve the second identical GET from disk.
func TestInstrumentCache(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"symbol": "AAPL"}`)
	}))
	defer server.Close()

	client := &http.Client{Transport: &instrumentCache{http.DefaultTransport}}
	c := New("sekret")
	for i := 0; i < 2; i++ {
		var payload struct {
			Symbol string `json:"symbol"`
		}
		if err := c.jwget(client, server.URL, &payload); err != nil {
			t.Fatalf("jwget() #%d unexpected error = %v", i+1, err)
		}
		if payload.Symbol != "AAPL" {
			t.Errorf("jwget() #%d Symbol = %q, want AAPL", i+1, payload.Symbol)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (second GET should come from the cache)", hits)
	}
}
