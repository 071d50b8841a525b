package robinhood

import (
	"context"
	"net/http"

	"github.com/lukehollenback/gosling/exchange"
)

//
// Holding is the account's position in a single asset. Its quantities are transmitted as JSON
// numbers.
//
type Holding struct {
	AccountNumber               string `json:"account_number"`
	AssetCode                   string `json:"asset_code"`
	TotalQuantity               Float  `json:"total_quantity"`
	QuantityAvailableForTrading Float  `json:"quantity_available_for_trading"`
}

//
// Holdings is a page of holdings.
//
type Holdings struct {
	Page
	Results []Holding `json:"results"`
}

func (o *Holdings) validate() error {
	return requireResults("holdings", o.Results != nil)
}

//
// Holdings lists the account's holdings, optionally filtered to the provided asset codes (e.g.
// "BTC").
//
func (o *Client) Holdings(ctx context.Context, assetCodes ...string) (*Holdings, error) {
	q := &exchange.Query{}
	q.AddAll("asset_code", assetCodes...)

	var holdings Holdings

	if _, err := o.call(ctx, "holdings", http.MethodGet, q.Path(HoldingsPath), nil, &holdings); err != nil {
		return nil, err
	}

	return &holdings, nil
}
