package robinhood

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)

	return &d
}

func TestPlaceLimitOrder(t *testing.T) {
	rec := &recorder{}
	client := newTestClient(t, rec.respond(t, http.StatusCreated, `{
		"id": "497f6eca-6276-4993-bfeb-53cbbbba6f08",
		"account_number": "ABC123",
		"symbol": "XRP-USD",
		"client_order_id": "11299b2b-61e3-43e7-b9f7-dee77210bb29",
		"side": "buy",
		"executions": [],
		"type": "limit",
		"state": "open",
		"average_price": null,
		"filled_asset_quantity": 0.0,
		"created_at": "2024-08-26T20:34:41.545286-04:00",
		"updated_at": "2024-08-26T20:34:41.545286-04:00",
		"market_order_config": null,
		"limit_order_config": {
			"asset_quantity": "1",
			"limit_price": "0.5",
			"time_in_force": "gfd"
		},
		"stop_loss_order_config": null,
		"stop_limit_order_config": null
	}`))

	params := CreateOrderParams{
		Symbol:        "XRP-USD",
		ClientOrderID: "11299b2b-61e3-43e7-b9f7-dee77210bb29",
		Side:          Buy,
		Config: LimitOrderConfig{
			AssetQuantity: dec("1"),
			LimitPrice:    dec("0.5"),
			TimeInForce:   GoodForDay,
		},
	}

	order, err := client.PlaceOrder(context.Background(), params)
	if err != nil {
		t.Fatalf("Failed to place the order. (Error: %s)", err)
	}

	got := rec.last(t)

	if got.method != http.MethodPost || got.uri != OrdersPath {
		t.Errorf("Expected POST %s, but got %s %s.", OrdersPath, got.method, got.uri)
	}

	expectedBody := `{"symbol":"XRP-USD","client_order_id":"11299b2b-61e3-43e7-b9f7-dee77210bb29","side":"buy",` +
		`"type":"limit","limit_order_config":{"asset_quantity":"1","limit_price":"0.5","time_in_force":"gfd"}}`

	if got.body != expectedBody {
		t.Errorf("Unexpected request body.\nExpected: %s\nActual:   %s", expectedBody, got.body)
	}

	if ct := got.header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected a JSON content type, but got %q.", ct)
	}

	if order.ID != "497f6eca-6276-4993-bfeb-53cbbbba6f08" || order.State != Open || order.Type != Limit {
		t.Errorf("The created order was not decoded as expected: %+v", order)
	}

	if order.AveragePrice != nil {
		t.Errorf("A null average price should decode to nil.")
	}

	if order.FilledAssetQuantity == nil || !order.FilledAssetQuantity.IsZero() {
		t.Errorf("The numeric filled quantity was not decoded.")
	}

	cfg, ok := order.Config().(LimitOrderConfig)
	if !ok {
		t.Fatalf("Expected a limit order config, but got %T.", order.Config())
	}

	if !cfg.LimitPrice.Equal(decimal.RequireFromString("0.5")) || cfg.TimeInForce != GoodForDay {
		t.Errorf("The limit order config was not decoded as expected: %+v", cfg)
	}
}

func TestMarketOrderBody(t *testing.T) {
	params := NewMarketOrder("BTC-USD", Sell, decimal.RequireFromString("0.00012"))

	if params.ClientOrderID == "" {
		t.Fatalf("A client order id should have been generated.")
	}

	data, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("Failed to marshal. (Error: %s)", err)
	}

	expected := `{"symbol":"BTC-USD","client_order_id":"` + params.ClientOrderID + `","side":"sell",` +
		`"type":"market","market_order_config":{"asset_quantity":"0.00012"}}`

	if string(data) != expected {
		t.Errorf("Unexpected body.\nExpected: %s\nActual:   %s", expected, data)
	}
}

func TestClientOrderIDsAreUnique(t *testing.T) {
	if NewClientOrderID() == NewClientOrderID() {
		t.Errorf("Two generated client order ids should differ.")
	}
}

func TestStopOrderTypesDerivedFromConfig(t *testing.T) {
	cases := map[OrderType]OrderConfig{
		StopLoss: &StopLossOrderConfig{
			QuoteAmount: dec("25"),
			StopPrice:   dec("60000"),
			TimeInForce: GoodTilCancelled,
		},
		StopLimit: StopLimitOrderConfig{
			AssetQuantity: dec("0.5"),
			LimitPrice:    dec("59000"),
			StopPrice:     dec("60000"),
		},
	}

	for orderType, cfg := range cases {
		params := CreateOrderParams{Symbol: "BTC-USD", ClientOrderID: "id", Side: Sell, Config: cfg}

		data, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("Failed to marshal the %s order. (Error: %s)", orderType, err)
		}

		var decoded map[string]json.RawMessage

		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Failed to unmarshal the %s order. (Error: %s)", orderType, err)
		}

		if string(decoded["type"]) != `"`+string(orderType)+`"` {
			t.Errorf("Expected type %s, but got %s.", orderType, decoded["type"])
		}

		blocks := 0

		for _, key := range []string{"market_order_config", "limit_order_config", "stop_loss_order_config", "stop_limit_order_config"} {
			if _, ok := decoded[key]; ok {
				blocks++
			}
		}

		if blocks != 1 {
			t.Errorf("Exactly one config block should be sent for a %s order, but %d were.", orderType, blocks)
		}
	}
}

func TestInvalidOrdersAreNeverSent(t *testing.T) {
	rec := &recorder{}
	client := newTestClient(t, rec.respond(t, http.StatusCreated, `{}`))

	var nilLimit *LimitOrderConfig

	cases := map[string]CreateOrderParams{
		"missing symbol":     {ClientOrderID: "id", Side: Buy, Config: MarketOrderConfig{AssetQuantity: decimal.NewFromInt(1)}},
		"missing client id":  {Symbol: "BTC-USD", Side: Buy, Config: MarketOrderConfig{AssetQuantity: decimal.NewFromInt(1)}},
		"bad side":           {Symbol: "BTC-USD", ClientOrderID: "id", Side: "hold", Config: MarketOrderConfig{AssetQuantity: decimal.NewFromInt(1)}},
		"missing config":     {Symbol: "BTC-USD", ClientOrderID: "id", Side: Buy},
		"nil config pointer": {Symbol: "BTC-USD", ClientOrderID: "id", Side: Buy, Config: nilLimit},
		"zero market size":   {Symbol: "BTC-USD", ClientOrderID: "id", Side: Buy, Config: MarketOrderConfig{}},
		"both amounts": {Symbol: "BTC-USD", ClientOrderID: "id", Side: Buy, Config: LimitOrderConfig{
			QuoteAmount: dec("10"), AssetQuantity: dec("1"), LimitPrice: dec("1"),
		}},
		"no amount": {Symbol: "BTC-USD", ClientOrderID: "id", Side: Buy, Config: LimitOrderConfig{
			LimitPrice: dec("1"),
		}},
		"missing limit price": {Symbol: "BTC-USD", ClientOrderID: "id", Side: Buy, Config: LimitOrderConfig{
			AssetQuantity: dec("1"),
		}},
		"missing stop price": {Symbol: "BTC-USD", ClientOrderID: "id", Side: Sell, Config: StopLimitOrderConfig{
			AssetQuantity: dec("1"), LimitPrice: dec("1"),
		}},
		"negative stop price": {Symbol: "BTC-USD", ClientOrderID: "id", Side: Sell, Config: StopLossOrderConfig{
			AssetQuantity: dec("1"), StopPrice: dec("-1"),
		}},
		"bad time in force": {Symbol: "BTC-USD", ClientOrderID: "id", Side: Buy, Config: LimitOrderConfig{
			AssetQuantity: dec("1"), LimitPrice: dec("1"), TimeInForce: "ioc",
		}},
	}

	for name, params := range cases {
		order, err := client.PlaceOrder(context.Background(), params)

		if !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("The %q order should fail with ErrInvalidOrder, but got %v.", name, err)
		}

		if order != nil {
			t.Errorf("No order should be returned for the %q order.", name)
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if len(rec.reqs) != 0 {
		t.Errorf("Invalid orders should never be sent, but %d were.", len(rec.reqs))
	}
}

func TestListOrders(t *testing.T) {
	rec := &recorder{}
	client := newTestClient(t, rec.respond(t, http.StatusOK, `{
		"next": null,
		"previous": "https://trading.robinhood.com/api/v1/crypto/trading/orders/?cursor=cHJldg",
		"results": [
			{
				"id": "497f6eca-6276-4993-bfeb-53cbbbba6f08",
				"account_number": "ABC123",
				"symbol": "BTC-USD",
				"client_order_id": "11299b2b-61e3-43e7-b9f7-dee77210bb29",
				"side": "buy",
				"executions": [
					{
						"effective_price": "64000.123456789",
						"quantity": "0.000123456789012345",
						"timestamp": "2024-08-26T20:34:41.545286-04:00"
					}
				],
				"type": "market",
				"state": "filled",
				"average_price": "64000.123456789",
				"filled_asset_quantity": "0.000123456789012345",
				"created_at": "2024-08-26T20:34:41.545286-04:00",
				"updated_at": "2024-08-26T20:34:42.545286-04:00",
				"market_order_config": {"asset_quantity": "0.000123456789012345"}
			}
		]
	}`))

	filter := OrderFilter{
		CreatedAtStart: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Symbol:         "BTC-USD",
		Side:           Buy,
		State:          Filled,
		Type:           Market,
		Cursor:         "abc",
		Limit:          50,
	}

	orders, err := client.Orders(context.Background(), filter)
	if err != nil {
		t.Fatalf("Failed to list orders. (Error: %s)", err)
	}

	expected := OrdersPath + "?created_at_start=2024-01-02T03:04:05Z&symbol=BTC-USD&side=buy&state=filled&type=market&cursor=abc&limit=50"

	if got := rec.last(t).uri; got != expected {
		t.Errorf("Unexpected request path.\nExpected: %s\nActual:   %s", expected, got)
	}

	if len(orders.Results) != 1 {
		t.Fatalf("Expected one order, but got %d.", len(orders.Results))
	}

	order := orders.Results[0]

	if order.FilledAssetQuantity.String() != "0.000123456789012345" {
		t.Errorf("The filled quantity lost precision (got %s).", order.FilledAssetQuantity)
	}

	if order.AveragePrice == nil || order.AveragePrice.String() != "64000.123456789" {
		t.Errorf("The average price was not decoded as expected.")
	}

	if len(order.Executions) != 1 || !order.Executions[0].EffectivePrice.Equal(*order.AveragePrice) {
		t.Errorf("The executions were not decoded as expected: %+v", order.Executions)
	}

	if _, ok := order.Config().(MarketOrderConfig); !ok {
		t.Errorf("Expected a market order config, but got %T.", order.Config())
	}

	if cursor, ok := orders.PreviousCursor(); !ok || cursor != "cHJldg" {
		t.Errorf("Expected the previous cursor to be extracted, but got %q (%t).", cursor, ok)
	}

	//
	// The filled quantity must serialize back out exactly as it came in.
	//
	data, err := json.Marshal(order.FilledAssetQuantity)
	if err != nil {
		t.Fatalf("Failed to marshal. (Error: %s)", err)
	}

	if string(data) != `"0.000123456789012345"` {
		t.Errorf("The filled quantity did not round-trip exactly (got %s).", data)
	}
}

func TestListOrdersWithoutFilter(t *testing.T) {
	rec := &recorder{}
	client := newTestClient(t, rec.respond(t, http.StatusOK, `{"next": null, "previous": null, "results": []}`))

	if _, err := client.Orders(context.Background(), OrderFilter{}); err != nil {
		t.Fatalf("Failed to list orders. (Error: %s)", err)
	}

	if got := rec.last(t).uri; got != OrdersPath {
		t.Errorf("Expected a request to %s without a query, but got one to %s.", OrdersPath, got)
	}
}

func TestOrderByID(t *testing.T) {
	rec := &recorder{}
	client := newTestClient(t, rec.respond(t, http.StatusOK, `{
		"id": "abc123",
		"symbol": "BTC-USD",
		"side": "sell",
		"type": "stop_loss",
		"state": "open",
		"filled_asset_quantity": "0",
		"stop_loss_order_config": {"quote_amount": "25", "stop_price": "60000", "time_in_force": "gtc"}
	}`))

	order, err := client.Order(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Failed to retrieve the order. (Error: %s)", err)
	}

	if got := rec.last(t).uri; got != OrdersPath+"abc123/" {
		t.Errorf("Unexpected request path %s.", got)
	}

	cfg, ok := order.Config().(StopLossOrderConfig)
	if !ok {
		t.Fatalf("Expected a stop-loss order config, but got %T.", order.Config())
	}

	if cfg.QuoteAmount == nil || cfg.AssetQuantity != nil || !cfg.StopPrice.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("The stop-loss config was not decoded as expected: %+v", cfg)
	}
}

func TestOrderRequiresFilledQuantity(t *testing.T) {
	payloads := map[string]string{
		"null":    `{"id": "abc123", "filled_asset_quantity": null}`,
		"missing": `{"id": "abc123"}`,
	}

	for name, payload := range payloads {
		client := newTestClient(t, respond(t, http.StatusOK, payload))

		order, err := client.Order(context.Background(), "abc123")

		var decodeErr *DecodeError

		if !errors.As(err, &decodeErr) {
			t.Errorf("Expected a decode error for the %s filled quantity, but got %v.", name, err)
		}

		if order != nil {
			t.Errorf("No partial order should be returned for the %s filled quantity.", name)
		}
	}

	listed := newTestClient(t, respond(t, http.StatusOK, `{
		"next": null,
		"previous": null,
		"results": [{"id": "abc123", "filled_asset_quantity": null}]
	}`))

	var decodeErr *DecodeError

	if _, err := listed.Orders(context.Background(), OrderFilter{}); !errors.As(err, &decodeErr) {
		t.Errorf("Expected a decode error for a listed order with a null filled quantity, but got %v.", err)
	}
}

func TestCancelOrder(t *testing.T) {
	rec := &recorder{}
	client := newTestClient(t, rec.respond(t, http.StatusOK, `"Cancel request has been submitted for order abc123"`))

	msg, err := client.CancelOrder(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Failed to cancel the order. (Error: %s)", err)
	}

	if msg != "Cancel request has been submitted for order abc123" {
		t.Errorf("The confirmation was not unquoted (got %q).", msg)
	}

	got := rec.last(t)

	if got.method != http.MethodPost || got.uri != OrdersPath+"abc123/cancel/" {
		t.Errorf("Expected POST %sabc123/cancel/, but got %s %s.", OrdersPath, got.method, got.uri)
	}

	if got.body != "" {
		t.Errorf("A cancellation should carry no body, but carried %q.", got.body)
	}
}

func TestCancelOrderRequiresID(t *testing.T) {
	client := NewClient(testCredentials(t, "k1", fixedClock(1700000000)), WithBaseURL("http://127.0.0.1:0"))

	if _, err := client.CancelOrder(context.Background(), ""); err == nil {
		t.Errorf("A cancellation without an order id should be rejected.")
	}
}

func TestUnquote(t *testing.T) {
	cases := map[string]string{
		`"Cancel request has been submitted for order abc123"`: "Cancel request has been submitted for order abc123",
		`"with \"escaped\" quotes"`:                              `with "escaped" quotes`,
		"plain text\n":                                           "plain text",
	}

	for in, expected := range cases {
		if got := unquote([]byte(in)); got != expected {
			t.Errorf("unquote(%q) should be %q, but was %q.", in, expected, got)
		}
	}
}

func TestConfigWithConflictingBlocks(t *testing.T) {
	cfgs := OrderConfigs{
		MarketOrderConfig: &MarketOrderConfig{AssetQuantity: decimal.NewFromInt(1)},
		LimitOrderConfig:  &LimitOrderConfig{AssetQuantity: dec("1"), LimitPrice: dec("1")},
	}

	if cfgs.Config() != nil {
		t.Errorf("Conflicting config blocks should not resolve to a single config.")
	}

	if (OrderConfigs{}).Config() != nil {
		t.Errorf("An empty set of config blocks should not resolve to a config.")
	}
}
