package rebalance

import (
	"errors"
	"strings"
	"testing"
)

// configRows returns a typical configuration, the tabular equivalent of the
// stock_categories.csv file users maintain by hand.
func configRows() [][]string {
	return [][]string{
		{"Reserved cash amount", "1000"},
		{"Category", ""},
		{"Tech", "50%"},
		{"Index funds", "40"},
		{"Cash", "10%"},
		{"Stock ticker", "", ""},
		{"AAPL", "Tech"},
		{"SPY", "Index funds", ""},
		{"MSFT", "Tech", "Index funds"},
		{"Cash", "Cash"},
	}
}

func TestParseCategories(t *testing.T) {
	c, err := ParseCategories(configRows())
	if err != nil {
		t.Fatalf("ParseCategories() unexpected error = %v", err)
	}

	if got, want := c.MinimumCash(), M(1000); !got.Equal(want) {
		t.Errorf("MinimumCash() = %v, want %v", got, want)
	}

	var names []string
	for _, cat := range c.All() {
		names = append(names, cat.Name)
	}
	if got, want := strings.Join(names, ","), "Tech,Index funds,Cash"; got != want {
		t.Errorf("All() order = %q, want %q", got, want)
	}

	testCases := []struct {
		category string
		wantPct  float64
	}{
		{"Tech", 50},
		{"Index funds", 40},
		{"Cash", 10},
	}
	for _, tc := range testCases {
		t.Run(tc.category, func(t *testing.T) {
			tickers, err := c.TickersIn(tc.category)
			if err != nil {
				t.Fatalf("TickersIn(%q) unexpected error = %v", tc.category, err)
			}
			if len(tickers) == 0 {
				t.Errorf("TickersIn(%q) returned no tickers", tc.category)
			}
			for _, cat := range c.All() {
				if cat.Name == tc.category && cat.Allocation != tc.wantPct {
					t.Errorf("category %q allocation = %v, want %v", tc.category, cat.Allocation, tc.wantPct)
				}
			}
		})
	}

	got, err := c.CategoriesOf("MSFT")
	if err != nil {
		t.Fatalf("CategoriesOf(MSFT) unexpected error = %v", err)
	}
	if want := "Tech,Index funds"; strings.Join(got, ",") != want {
		t.Errorf("CategoriesOf(MSFT) = %v, want %v", got, want)
	}
}

func TestParseCategories_MissingReserve(t *testing.T) {
	rows := [][]string{
		{"Category"},
		{"Tech", "50"},
	}
	_, err := ParseCategories(rows)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("ParseCategories() error = %v, want a *ParseError", err)
	}
	if !strings.Contains(parseErr.Error(), "Reserved cash amount") {
		t.Errorf("error %q does not name the missing setting", parseErr)
	}
}

func TestParseCategories_MalformedValues(t *testing.T) {
	testCases := []struct {
		name string
		rows [][]string
	}{
		{
			name: "non-numeric reserve",
			rows: [][]string{{"Reserved cash amount", "lots"}},
		},
		{
			name: "reserve without value",
			rows: [][]string{{"Reserved cash amount"}},
		},
		{
			// strconv would accept these; they must fail, not poison the math
			name: "NaN reserve",
			rows: [][]string{{"Reserved cash amount", "NaN"}},
		},
		{
			name: "infinite reserve",
			rows: [][]string{{"Reserved cash amount", "Inf"}},
		},
		{
			name: "non-numeric percentage",
			rows: [][]string{
				{"Reserved cash amount", "1000"},
				{"Category"},
				{"Tech", "half"},
			},
		},
		{
			name: "category without percentage",
			rows: [][]string{
				{"Reserved cash amount", "1000"},
				{"Category"},
				{"Tech"},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCategories(tc.rows)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("ParseCategories() error = %v, want a *ParseError", err)
			}
		})
	}
}

func TestParseCategories_UnknownCategoryReference(t *testing.T) {
	rows := [][]string{
		{"Reserved cash amount", "1000"},
		{"Category"},
		{"Tech", "50"},
		{"Stock ticker"},
		{"AAPL", "Tech", "Growth"},
	}
	_, err := ParseCategories(rows)
	var notFound *CategoryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ParseCategories() error = %v, want a *CategoryNotFoundError", err)
	}
	if notFound.Category != "Growth" {
		t.Errorf("CategoryNotFoundError.Category = %q, want %q", notFound.Category, "Growth")
	}
}

func TestParseCategories_UnrecognizedSettingIsNonFatal(t *testing.T) {
	rows := [][]string{
		{"Favorite color", "green"},
		{"Reserved cash amount", "500"},
	}
	c, err := ParseCategories(rows)
	if err != nil {
		t.Fatalf("ParseCategories() unexpected error = %v", err)
	}
	if got, want := c.MinimumCash(), M(500); !got.Equal(want) {
		t.Errorf("MinimumCash() = %v, want %v", got, want)
	}
}

func TestParseCategories_SkipsEmptyAndRaggedRows(t *testing.T) {
	rows := [][]string{
		{"", "", ""},
		{"Reserved cash amount", "1000", "", ""},
		{},
		{"Category", "", ""},
		{"Tech", "50%", ""},
		{"Stock ticker"},
		{"AAPL", "Tech", "", ""},
	}
	c, err := ParseCategories(rows)
	if err != nil {
		t.Fatalf("ParseCategories() unexpected error = %v", err)
	}
	cats, err := c.CategoriesOf("AAPL")
	if err != nil {
		t.Fatalf("CategoriesOf(AAPL) unexpected error = %v", err)
	}
	// the trailing empty cells must not survive as category references
	if len(cats) != 1 || cats[0] != "Tech" {
		t.Errorf("CategoriesOf(AAPL) = %v, want [Tech]", cats)
	}
}

func TestParseCategories_TickerSectionWithoutCategories(t *testing.T) {
	// "Stock ticker" straight after the settings skips the category section.
	rows := [][]string{
		{"Reserved cash amount", "1000"},
		{"Stock ticker"},
		{"AAPL"},
	}
	c, err := ParseCategories(rows)
	if err != nil {
		t.Fatalf("ParseCategories() unexpected error = %v", err)
	}
	cats, err := c.CategoriesOf("AAPL")
	if err != nil {
		t.Fatalf("CategoriesOf(AAPL) unexpected error = %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("CategoriesOf(AAPL) = %v, want none", cats)
	}
}

// Once the ticker section has started, a row named "Category" is an ordinary
// ticker, not a section marker.
func TestParseCategories_TickerNamedCategory(t *testing.T) {
	rows := [][]string{
		{"Reserved cash amount", "1000"},
		{"Category"},
		{"Tech", "50%"},
		{"Stock ticker"},
		{"Category", "Tech"},
	}
	c, err := ParseCategories(rows)
	if err != nil {
		t.Fatalf("ParseCategories() unexpected error = %v", err)
	}
	cats, err := c.CategoriesOf("Category")
	if err != nil {
		t.Fatalf("CategoriesOf(Category) unexpected error = %v", err)
	}
	if len(cats) != 1 || cats[0] != "Tech" {
		t.Errorf("CategoriesOf(Category) = %v, want [Tech]", cats)
	}
}

func TestCategories_LookupFailures(t *testing.T) {
	c, err := ParseCategories(configRows())
	if err != nil {
		t.Fatalf("ParseCategories() unexpected error = %v", err)
	}

	_, err = c.CategoriesOf("TSLA")
	var tickerErr *TickerNotFoundError
	if !errors.As(err, &tickerErr) {
		t.Errorf("CategoriesOf(TSLA) error = %v, want a *TickerNotFoundError", err)
	} else if tickerErr.Ticker != "TSLA" {
		t.Errorf("TickerNotFoundError.Ticker = %q, want %q", tickerErr.Ticker, "TSLA")
	}

	_, err = c.TickersIn("Crypto")
	var catErr *CategoryNotFoundError
	if !errors.As(err, &catErr) {
		t.Errorf("TickersIn(Crypto) error = %v, want a *CategoryNotFoundError", err)
	}
}

// The union of TickersIn over all categories must equal the set of parsed
// tickers that declare at least one category.
func TestCategories_RoundTrip(t *testing.T) {
	c, err := ParseCategories(configRows())
	if err != nil {
		t.Fatalf("ParseCategories() unexpected error = %v", err)
	}

	union := make(map[string]bool)
	for _, cat := range c.All() {
		tickers, err := c.TickersIn(cat.Name)
		if err != nil {
			t.Fatalf("TickersIn(%q) unexpected error = %v", cat.Name, err)
		}
		for _, ticker := range tickers {
			union[ticker.Name] = true
		}
	}

	want := map[string]bool{"AAPL": true, "SPY": true, "MSFT": true, "Cash": true}
	if len(union) != len(want) {
		t.Fatalf("union of TickersIn = %v, want %v", union, want)
	}
	for name := range want {
		if !union[name] {
			t.Errorf("union of TickersIn is missing %q", name)
		}
	}
}

func TestLoadCategories(t *testing.T) {
	csvData := "Reserved cash amount,1000,\n" +
		"Category,,\n" +
		"Tech,50%,\n" +
		"Cash,10%,\n" +
		"Stock ticker,,\n" +
		"AAPL,Tech,\n" +
		"Cash,Cash,\n"

	c, err := LoadCategories(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("LoadCategories() unexpected error = %v", err)
	}
	if got := len(c.All()); got != 2 {
		t.Errorf("len(All()) = %d, want 2", got)
	}
	if got, want := c.MinimumCash(), M(1000); !got.Equal(want) {
		t.Errorf("MinimumCash() = %v, want %v", got, want)
	}
}
