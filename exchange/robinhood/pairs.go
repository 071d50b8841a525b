package robinhood

import (
	"context"
	"net/http"

	"github.com/lukehollenback/gosling/exchange"
	"github.com/shopspring/decimal"
)

//
// TradingPair is a tradable crypto pair (e.g. BTC-USD) along with its increments and order size
// limits. Its amounts are transmitted as JSON strings.
//
type TradingPair struct {
	AssetCode      string           `json:"asset_code"`
	QuoteCode      string           `json:"quote_code"`
	QuoteIncrement decimal.Decimal  `json:"quote_increment"`
	AssetIncrement decimal.Decimal  `json:"asset_increment"`
	MaxOrderSize   decimal.Decimal  `json:"max_order_size"`
	MinOrderSize   *decimal.Decimal `json:"min_order_size,omitempty"`
	Status         string           `json:"status"`
	Symbol         string           `json:"symbol"`
}

//
// ValidQuantity reports whether the provided asset quantity falls within the pair's order size
// limits. The asset increment doubles as the minimum when no explicit minimum was provided.
//
func (o *TradingPair) ValidQuantity(quantity decimal.Decimal) bool {
	lower := o.AssetIncrement

	if o.MinOrderSize != nil && o.MinOrderSize.GreaterThan(lower) {
		lower = *o.MinOrderSize
	}

	return quantity.GreaterThanOrEqual(lower) && quantity.LessThanOrEqual(o.MaxOrderSize)
}

//
// TradingPairs is a page of trading pairs.
//
type TradingPairs struct {
	Page
	Results []TradingPair `json:"results"`
}

func (o *TradingPairs) validate() error {
	return requireResults("trading pairs", o.Results != nil)
}

//
// TradingPairs lists the supported trading pairs, optionally filtered to the provided symbols.
//
func (o *Client) TradingPairs(ctx context.Context, symbols ...string) (*TradingPairs, error) {
	q := &exchange.Query{}
	q.AddAll("symbol", symbols...)

	var pairs TradingPairs

	if _, err := o.call(ctx, "trading pairs", http.MethodGet, q.Path(TradingPairsPath), nil, &pairs); err != nil {
		return nil, err
	}

	return &pairs, nil
}
