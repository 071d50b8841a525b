package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lukehollenback/gosling/exchange/robinhood"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

//
// printJSON writes the provided value to standard output as indented JSON, preceded by a colored
// heading.
//
func printJSON(heading string, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode the result")
	}

	fmt.Fprintln(os.Stdout, au.Bold(au.Cyan(heading)))
	fmt.Fprintln(os.Stdout, string(out))

	return nil
}

func printCursor(page robinhood.Page) {
	if cursor, ok := page.NextCursor(); ok {
		fmt.Fprintf(os.Stdout, "More results are available with %s\n", au.Yellow("-cursor "+cursor))
	}
}

func runAccount(ctx context.Context, env *environment, args []string) error {
	account, err := env.client.Account(ctx)
	if err != nil {
		return err
	}

	return printJSON("Account", account)
}

func runQuote(ctx context.Context, env *environment, args []string) error {
	prices, err := env.client.BestBidAsk(ctx, args...)
	if err != nil {
		return err
	}

	return printJSON("Best bid/ask", prices.Results)
}

func runEstimate(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet("estimate")
	symbol := fs.String("symbol", "", "The symbol to estimate for (e.g. BTC-USD).")
	side := fs.String("side", string(robinhood.Bid), "The side of the book to estimate against (bid or ask).")
	quantities := fs.String("quantity", "", "A comma separated list of asset quantities (e.g. 0.1,1,1.999).")

	if err := fs.Parse(args); err != nil {
		return err
	}

	qs, err := parseDecimals(*quantities)
	if err != nil {
		return err
	}

	prices, err := env.client.EstimatedPrice(ctx, *symbol, robinhood.QuoteSide(*side), qs...)
	if err != nil {
		return err
	}

	return printJSON("Estimated prices", prices.Results)
}

func runPairs(ctx context.Context, env *environment, args []string) error {
	pairs, err := env.client.TradingPairs(ctx, args...)
	if err != nil {
		return err
	}

	if err := printJSON("Trading pairs", pairs.Results); err != nil {
		return err
	}

	printCursor(pairs.Page)

	return nil
}

func runHoldings(ctx context.Context, env *environment, args []string) error {
	holdings, err := env.client.Holdings(ctx, args...)
	if err != nil {
		return err
	}

	if err := printJSON("Holdings", holdings.Results); err != nil {
		return err
	}

	printCursor(holdings.Page)

	return nil
}

func runOrders(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet("orders")
	symbol := fs.String("symbol", "", "Only list orders for this symbol.")
	id := fs.String("id", "", "Only list the order with this id.")
	side := fs.String("side", "", "Only list orders on this side (buy or sell).")
	state := fs.String("state", "", "Only list orders in this state (open, canceled, partially_filled, filled, failed).")
	orderType := fs.String("type", "", "Only list orders of this type (market, limit, stop_loss, stop_limit).")
	createdAfter := fs.String("created-after", "", "Only list orders created at or after this RFC 3339 time.")
	createdBefore := fs.String("created-before", "", "Only list orders created at or before this RFC 3339 time.")
	updatedAfter := fs.String("updated-after", "", "Only list orders updated at or after this RFC 3339 time.")
	updatedBefore := fs.String("updated-before", "", "Only list orders updated at or before this RFC 3339 time.")
	cursor := fs.String("cursor", "", "The pagination cursor of the page to retrieve.")
	limit := fs.Int("limit", 0, "The maximum number of orders to retrieve.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := robinhood.OrderFilter{
		Symbol: *symbol,
		ID:     *id,
		Side:   robinhood.Side(*side),
		State:  robinhood.OrderState(*state),
		Type:   robinhood.OrderType(*orderType),
		Cursor: *cursor,
		Limit:  *limit,
	}

	times := []struct {
		name  string
		value string
		dst   *time.Time
	}{
		{"created-after", *createdAfter, &filter.CreatedAtStart},
		{"created-before", *createdBefore, &filter.CreatedAtEnd},
		{"updated-after", *updatedAfter, &filter.UpdatedAtStart},
		{"updated-before", *updatedBefore, &filter.UpdatedAtEnd},
	}

	for _, v := range times {
		if v.value == "" {
			continue
		}

		parsed, err := time.Parse(time.RFC3339, v.value)
		if err != nil {
			return errors.Wrapf(err, "invalid -%s", v.name)
		}

		*v.dst = parsed
	}

	orders, err := env.client.Orders(ctx, filter)
	if err != nil {
		return err
	}

	if err := printJSON("Orders", orders.Results); err != nil {
		return err
	}

	printCursor(orders.Page)

	return nil
}

func runOrder(ctx context.Context, env *environment, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one order id is required")
	}

	order, err := env.client.Order(ctx, args[0])
	if err != nil {
		return err
	}

	return printJSON("Order", order)
}

func runCancel(ctx context.Context, env *environment, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one order id is required")
	}

	msg, err := env.client.CancelOrder(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, au.Green(msg))

	return nil
}

//
// runPlace returns the command that places an order on the provided side. The order type follows
// from which prices are given: none is a market order, -limit-price a limit order, -stop-price a stop
// loss order, and both a stop limit order.
//
func runPlace(side robinhood.Side) func(context.Context, *environment, []string) error {
	return func(ctx context.Context, env *environment, args []string) error {
		fs := newFlagSet(string(side))
		symbol := fs.String("symbol", "", "The symbol to trade (e.g. BTC-USD).")
		quantity := fs.String("quantity", "", "The asset quantity to trade.")
		quoteAmount := fs.String("quote-amount", "", "The quote currency amount to trade. Not valid for market orders.")
		limitPrice := fs.String("limit-price", "", "The limit price.")
		stopPrice := fs.String("stop-price", "", "The stop price.")
		tif := fs.String("tif", string(robinhood.GoodTilCancelled), "The time in force of non-market orders (gtc or gfd).")
		clientOrderID := fs.String("client-order-id", "", "The client order id. Reuse one to retry an order idempotently. Generated when empty.")
		skipCheck := fs.Bool("skip-check", false, "Skip checking the quantity against the trading pair's size limits.")

		if err := fs.Parse(args); err != nil {
			return err
		}

		cfg, err := orderConfig(*quantity, *quoteAmount, *limitPrice, *stopPrice, robinhood.TimeInForce(*tif))
		if err != nil {
			return err
		}

		params := robinhood.CreateOrderParams{
			Symbol:        *symbol,
			ClientOrderID: *clientOrderID,
			Side:          side,
			Config:        cfg,
		}

		if params.ClientOrderID == "" {
			params.ClientOrderID = robinhood.NewClientOrderID()
		}

		if err := params.Validate(); err != nil {
			return err
		}

		if !*skipCheck && *quantity != "" {
			if err := checkQuantity(ctx, env.client, *symbol, *quantity); err != nil {
				return err
			}
		}

		logger.Printf("Placing %s order %s for %s.", au.Bold(side), au.Yellow(params.ClientOrderID), au.Bold(au.Yellow(*symbol)))

		order, err := env.client.PlaceOrder(ctx, params)
		if err != nil {
			return err
		}

		return printJSON("Created order", order)
	}
}

func orderConfig(quantity string, quoteAmount string, limitPrice string, stopPrice string, tif robinhood.TimeInForce) (robinhood.OrderConfig, error) {
	qty, err := parseOptional("quantity", quantity)
	if err != nil {
		return nil, err
	}

	amount, err := parseOptional("quote-amount", quoteAmount)
	if err != nil {
		return nil, err
	}

	limit, err := parseOptional("limit-price", limitPrice)
	if err != nil {
		return nil, err
	}

	stop, err := parseOptional("stop-price", stopPrice)
	if err != nil {
		return nil, err
	}

	switch {
	case limit != nil && stop != nil:
		return robinhood.StopLimitOrderConfig{QuoteAmount: amount, AssetQuantity: qty, LimitPrice: limit, StopPrice: stop, TimeInForce: tif}, nil

	case stop != nil:
		return robinhood.StopLossOrderConfig{QuoteAmount: amount, AssetQuantity: qty, StopPrice: stop, TimeInForce: tif}, nil

	case limit != nil:
		return robinhood.LimitOrderConfig{QuoteAmount: amount, AssetQuantity: qty, LimitPrice: limit, TimeInForce: tif}, nil
	}

	if amount != nil {
		return nil, errors.Wrap(robinhood.ErrInvalidOrder, "market orders only accept an asset quantity")
	}

	if qty == nil {
		return nil, errors.Wrap(robinhood.ErrInvalidOrder, "market orders require an asset quantity")
	}

	return robinhood.MarketOrderConfig{AssetQuantity: *qty}, nil
}

//
// checkQuantity rejects quantities outside of the trading pair's size limits before an order is
// placed.
//
func checkQuantity(ctx context.Context, client *robinhood.Client, symbol string, quantity string) error {
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return errors.Wrap(err, "invalid -quantity")
	}

	pairs, err := client.TradingPairs(ctx, symbol)
	if err != nil {
		return errors.Wrap(err, "failed to retrieve the trading pair")
	}

	for _, pair := range pairs.Results {
		if pair.Symbol != symbol {
			continue
		}

		if !pair.ValidQuantity(qty) {
			return errors.Wrapf(
				robinhood.ErrInvalidOrder,
				"quantity %s is outside of the %s limits (increment %s, max %s)",
				qty, symbol, pair.AssetIncrement, pair.MaxOrderSize,
			)
		}

		return nil
	}

	return errors.Errorf("unknown trading pair %s", symbol)
}

func parseOptional(name string, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid -%s", name)
	}

	return &d, nil
}

func parseDecimals(value string) ([]decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	ret := make([]decimal.Decimal, 0, len(parts))

	for _, part := range parts {
		d, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid quantity %q", part)
		}

		ret = append(ret, d)
	}

	return ret, nil
}
