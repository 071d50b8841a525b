package robinhood

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lukehollenback/gosling/exchange"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// Side is the direction of an order.
//
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

//
// OrderState is the lifecycle state of an order as reported by the API.
//
type OrderState string

const (
	Open            OrderState = "open"
	Canceled        OrderState = "canceled"
	PartiallyFilled OrderState = "partially_filled"
	Filled          OrderState = "filled"
	Failed          OrderState = "failed"
)

//
// Execution is a single fill of an order. Its amounts are transmitted as JSON strings.
//
type Execution struct {
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Quantity       decimal.Decimal `json:"quantity"`
	Timestamp      time.Time       `json:"timestamp"`
}

//
// Order is an order as returned by the order listing endpoints. Its average price and filled
// quantity are transmitted as JSON strings.
//
type Order struct {
	ID                  string           `json:"id"`
	AccountNumber       string           `json:"account_number"`
	Symbol              string           `json:"symbol"`
	ClientOrderID       string           `json:"client_order_id"`
	Side                Side             `json:"side"`
	Executions          []Execution      `json:"executions"`
	Type                OrderType        `json:"type"`
	State               OrderState       `json:"state"`
	AveragePrice        *decimal.Decimal `json:"average_price"`
	FilledAssetQuantity decimal.Decimal  `json:"filled_asset_quantity"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	OrderConfigs
}

//
// UnmarshalJSON implements the json.Unmarshaler interface. The filled asset quantity is required, so
// a missing or null value fails to decode rather than reading as zero.
//
func (o *Order) UnmarshalJSON(data []byte) error {
	type order Order

	aux := struct {
		*order
		FilledAssetQuantity json.RawMessage `json:"filled_asset_quantity"`
	}{
		order: (*order)(o),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.FilledAssetQuantity) == 0 || string(aux.FilledAssetQuantity) == "null" {
		return errors.New("order is missing its filled asset quantity")
	}

	return o.FilledAssetQuantity.UnmarshalJSON(aux.FilledAssetQuantity)
}

func (o *Order) validate() error {
	if o.ID == "" {
		return errors.New("order is missing its id")
	}

	return nil
}

//
// Orders is a page of orders.
//
type Orders struct {
	Page
	Results []Order `json:"results"`
}

func (o *Orders) validate() error {
	if err := requireResults("orders", o.Results != nil); err != nil {
		return err
	}

	for i := range o.Results {
		if err := o.Results[i].validate(); err != nil {
			return err
		}
	}

	return nil
}

//
// CreatedOrder is the order returned by the order creation endpoint. Unlike Order, its average price
// and filled quantity are transmitted as (optional) JSON numbers.
//
type CreatedOrder struct {
	ID                  string      `json:"id"`
	AccountNumber       string      `json:"account_number"`
	Symbol              string      `json:"symbol"`
	ClientOrderID       string      `json:"client_order_id"`
	Side                Side        `json:"side"`
	Executions          []Execution `json:"executions"`
	Type                OrderType   `json:"type"`
	State               OrderState  `json:"state"`
	AveragePrice        *Float      `json:"average_price"`
	FilledAssetQuantity *Float      `json:"filled_asset_quantity"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
	OrderConfigs
}

func (o *CreatedOrder) validate() error {
	if o.ID == "" {
		return errors.New("created order is missing its id")
	}

	return nil
}

//
// OrderFilter narrows an order listing. Zero-valued fields are left out of the query.
//
type OrderFilter struct {
	CreatedAtStart time.Time
	CreatedAtEnd   time.Time
	Symbol         string
	ID             string
	Side           Side
	State          OrderState
	Type           OrderType
	UpdatedAtStart time.Time
	UpdatedAtEnd   time.Time
	Cursor         string
	Limit          int
}

func (o OrderFilter) query() *exchange.Query {
	q := &exchange.Query{}

	q.AddOptional("created_at_start", formatTime(o.CreatedAtStart))
	q.AddOptional("created_at_end", formatTime(o.CreatedAtEnd))
	q.AddOptional("symbol", o.Symbol)
	q.AddOptional("id", o.ID)
	q.AddOptional("side", string(o.Side))
	q.AddOptional("state", string(o.State))
	q.AddOptional("type", string(o.Type))
	q.AddOptional("updated_at_start", formatTime(o.UpdatedAtStart))
	q.AddOptional("updated_at_end", formatTime(o.UpdatedAtEnd))
	q.AddOptional("cursor", o.Cursor)

	if o.Limit > 0 {
		q.Add("limit", strconv.Itoa(o.Limit))
	}

	return q
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

//
// CreateOrderParams describes an order to place. The order type is derived from Config, so the type
// and its configuration block can never disagree.
//
type CreateOrderParams struct {
	Symbol        string
	ClientOrderID string
	Side          Side
	Config        OrderConfig
}

//
// NewClientOrderID generates a fresh client order id. Reusing an id makes order submission
// idempotent; a new order needs a new one.
//
func NewClientOrderID() string {
	return uuid.NewString()
}

//
// NewMarketOrder builds the parameters of a market order with a fresh client order id.
//
func NewMarketOrder(symbol string, side Side, assetQuantity decimal.Decimal) CreateOrderParams {
	return CreateOrderParams{
		Symbol:        symbol,
		ClientOrderID: NewClientOrderID(),
		Side:          side,
		Config:        MarketOrderConfig{AssetQuantity: assetQuantity},
	}
}

//
// NewLimitOrder builds the parameters of a limit order for an asset quantity with a fresh client
// order id.
//
func NewLimitOrder(symbol string, side Side, assetQuantity decimal.Decimal, limitPrice decimal.Decimal, tif TimeInForce) CreateOrderParams {
	return CreateOrderParams{
		Symbol:        symbol,
		ClientOrderID: NewClientOrderID(),
		Side:          side,
		Config: LimitOrderConfig{
			AssetQuantity: &assetQuantity,
			LimitPrice:    &limitPrice,
			TimeInForce:   tif,
		},
	}
}

//
// Validate checks the parameters against the rules the API enforces, so that an order that can only
// be rejected is never signed nor sent.
//
func (o CreateOrderParams) Validate() error {
	_, err := o.body()

	return err
}

//
// MarshalJSON implements the json.Marshaler interface. Invalid parameters fail to marshal.
//
func (o CreateOrderParams) MarshalJSON() ([]byte, error) {
	body, err := o.body()
	if err != nil {
		return nil, err
	}

	return json.Marshal(body)
}

type createOrderBody struct {
	Symbol        string    `json:"symbol"`
	ClientOrderID string    `json:"client_order_id"`
	Side          Side      `json:"side"`
	Type          OrderType `json:"type"`
	OrderConfigs
}

func (o CreateOrderParams) body() (*createOrderBody, error) {
	if o.Symbol == "" {
		return nil, errors.Wrap(ErrInvalidOrder, "symbol is required")
	}

	if o.ClientOrderID == "" {
		return nil, errors.Wrap(ErrInvalidOrder, "client order id is required")
	}

	if o.Side != Buy && o.Side != Sell {
		return nil, errors.Wrapf(ErrInvalidOrder, "side must be %q or %q, not %q", Buy, Sell, o.Side)
	}

	if o.Config == nil {
		return nil, errors.Wrap(ErrInvalidOrder, "an order config is required")
	}

	cfgs, err := configsOf(o.Config)
	if err != nil {
		return nil, err
	}

	cfg := cfgs.Config()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &createOrderBody{
		Symbol:        o.Symbol,
		ClientOrderID: o.ClientOrderID,
		Side:          o.Side,
		Type:          cfg.OrderType(),
		OrderConfigs:  cfgs,
	}, nil
}

//
// Orders lists the account's orders that match the provided filter.
//
func (o *Client) Orders(ctx context.Context, filter OrderFilter) (*Orders, error) {
	var orders Orders

	if _, err := o.call(ctx, "orders", http.MethodGet, filter.query().Path(OrdersPath), nil, &orders); err != nil {
		return nil, err
	}

	return &orders, nil
}

//
// Order retrieves a single order by its id.
//
func (o *Client) Order(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, errors.New("order id is required")
	}

	var order Order

	if _, err := o.call(ctx, "order", http.MethodGet, fmt.Sprintf(OrderPathFmt, url.PathEscape(id)), nil, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

//
// PlaceOrder validates and submits a new order. The server alone decides how concurrently placed
// orders are sequenced.
//
func (o *Client) PlaceOrder(ctx context.Context, params CreateOrderParams) (*CreatedOrder, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var order CreatedOrder

	if _, err := o.call(ctx, "create order", http.MethodPost, OrdersPath, params, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

//
// CancelOrder requests the cancellation of an order and returns the server's confirmation message
// (e.g. "Cancel request has been submitted for order <id>"). The request carries no body.
//
func (o *Client) CancelOrder(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", errors.New("order id is required")
	}

	resp, err := o.call(ctx, "cancel order", http.MethodPost, fmt.Sprintf(CancelOrderPathFmt, url.PathEscape(id)), nil, nil)
	if err != nil {
		return "", err
	}

	return unquote(resp.body), nil
}

//
// unquote returns the confirmation text inside a JSON string payload. Payloads that are not a JSON
// string are returned with surrounding whitespace and quotes trimmed.
//
func unquote(body []byte) string {
	var s string

	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}

	return strings.Trim(strings.TrimSpace(string(body)), `"`)
}
