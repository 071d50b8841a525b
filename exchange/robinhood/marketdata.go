package robinhood

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/lukehollenback/gosling/exchange"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// QuoteSide selects which side of the book an estimated price is computed against.
//
type QuoteSide string

const (
	Bid QuoteSide = "bid"
	Ask QuoteSide = "ask"
)

//
// BestPrice is the best bid/ask snapshot for a symbol. All of its prices are transmitted as JSON
// numbers.
//
type BestPrice struct {
	Symbol                   string    `json:"symbol"`
	Price                    Float     `json:"price"`
	BidInclusiveOfSellSpread Float     `json:"bid_inclusive_of_sell_spread"`
	SellSpread               Float     `json:"sell_spread"`
	AskInclusiveOfBuySpread  Float     `json:"ask_inclusive_of_buy_spread"`
	BuySpread                Float     `json:"buy_spread"`
	Timestamp                time.Time `json:"timestamp"`
}

//
// BestPrices wraps the results of a best bid/ask query.
//
type BestPrices struct {
	Results []BestPrice `json:"results"`
}

func (o *BestPrices) validate() error {
	return requireResults("best bid/ask", o.Results != nil)
}

//
// EstimatedPrice is the estimated execution price of a hypothetical trade. Only the spread fields
// relevant to the requested side are populated.
//
type EstimatedPrice struct {
	Symbol                   string    `json:"symbol"`
	Side                     QuoteSide `json:"side"`
	Price                    Float     `json:"price"`
	Quantity                 Float     `json:"quantity"`
	BidInclusiveOfSellSpread *Float    `json:"bid_inclusive_of_sell_spread,omitempty"`
	SellSpread               *Float    `json:"sell_spread,omitempty"`
	AskInclusiveOfBuySpread  *Float    `json:"ask_inclusive_of_buy_spread,omitempty"`
	BuySpread                *Float    `json:"buy_spread,omitempty"`
	Timestamp                time.Time `json:"timestamp"`
}

//
// EstimatedPrices wraps the results of an estimated price query (one result per quantity).
//
type EstimatedPrices struct {
	Results []EstimatedPrice `json:"results"`
}

func (o *EstimatedPrices) validate() error {
	return requireResults("estimated price", o.Results != nil)
}

//
// BestBidAsk retrieves the best bid and ask for the provided symbols (e.g. "BTC-USD"). When no symbols
// are provided, every supported symbol is returned.
//
func (o *Client) BestBidAsk(ctx context.Context, symbols ...string) (*BestPrices, error) {
	q := &exchange.Query{}
	q.AddAll("symbol", symbols...)

	var prices BestPrices

	if _, err := o.call(ctx, "best bid/ask", http.MethodGet, q.Path(BestBidAskPath), nil, &prices); err != nil {
		return nil, err
	}

	return &prices, nil
}

//
// EstimatedPrice retrieves the estimated execution price of trading the provided quantities of a
// symbol against the provided side of the book. At least one quantity is required.
//
func (o *Client) EstimatedPrice(ctx context.Context, symbol string, side QuoteSide, quantities ...decimal.Decimal) (*EstimatedPrices, error) {
	//
	// Validate the request before anything is signed or sent.
	//
	if symbol == "" {
		return nil, errors.New("estimated price requires a symbol")
	}

	if side != Bid && side != Ask {
		return nil, errors.Errorf("estimated price side must be %q or %q, not %q", Bid, Ask, side)
	}

	if len(quantities) == 0 {
		return nil, errors.New("estimated price requires at least one quantity")
	}

	qtys := make([]string, len(quantities))

	for i, v := range quantities {
		if !v.IsPositive() {
			return nil, errors.Errorf("estimated price quantity must be positive, not %s", v)
		}

		qtys[i] = v.String()
	}

	//
	// Build the path and make the request.
	//
	q := &exchange.Query{}
	q.Add("symbol", symbol).Add("side", string(side)).Add("quantity", strings.Join(qtys, ","))

	var prices EstimatedPrices

	if _, err := o.call(ctx, "estimated price", http.MethodGet, q.Path(EstimatedPricePath), nil, &prices); err != nil {
		return nil, err
	}

	return &prices, nil
}
