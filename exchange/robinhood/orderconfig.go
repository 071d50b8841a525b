package robinhood

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// OrderType is an enum of the order types the API supports. Each one corresponds to exactly one
// OrderConfig variant.
//
type OrderType string

const (
	Market    OrderType = "market"
	Limit     OrderType = "limit"
	StopLoss  OrderType = "stop_loss"
	StopLimit OrderType = "stop_limit"
)

//
// TimeInForce is an order lifetime policy.
//
type TimeInForce string

const (
	GoodTilCancelled TimeInForce = "gtc"
	GoodForDay       TimeInForce = "gfd"
)

var ErrInvalidOrder = errors.New("invalid order")

//
// OrderConfig is the type-specific part of an order. It is a closed set: the only implementations
// are MarketOrderConfig, LimitOrderConfig, StopLossOrderConfig, and StopLimitOrderConfig, so an order
// always carries exactly one of them.
//
type OrderConfig interface {
	OrderType() OrderType
	validate() error
}

//
// MarketOrderConfig holds the parameters of a market order.
//
type MarketOrderConfig struct {
	AssetQuantity decimal.Decimal `json:"asset_quantity"`
}

//
// LimitOrderConfig holds the parameters of a limit order. Exactly one of QuoteAmount and
// AssetQuantity must be set.
//
type LimitOrderConfig struct {
	QuoteAmount   *decimal.Decimal `json:"quote_amount,omitempty"`
	AssetQuantity *decimal.Decimal `json:"asset_quantity,omitempty"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	TimeInForce   TimeInForce      `json:"time_in_force,omitempty"`
}

//
// StopLossOrderConfig holds the parameters of a stop-loss order. Exactly one of QuoteAmount and
// AssetQuantity must be set.
//
type StopLossOrderConfig struct {
	QuoteAmount   *decimal.Decimal `json:"quote_amount,omitempty"`
	AssetQuantity *decimal.Decimal `json:"asset_quantity,omitempty"`
	StopPrice     *decimal.Decimal `json:"stop_price,omitempty"`
	TimeInForce   TimeInForce      `json:"time_in_force,omitempty"`
}

//
// StopLimitOrderConfig holds the parameters of a stop-limit order. Exactly one of QuoteAmount and
// AssetQuantity must be set.
//
type StopLimitOrderConfig struct {
	QuoteAmount   *decimal.Decimal `json:"quote_amount,omitempty"`
	AssetQuantity *decimal.Decimal `json:"asset_quantity,omitempty"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice     *decimal.Decimal `json:"stop_price,omitempty"`
	TimeInForce   TimeInForce      `json:"time_in_force,omitempty"`
}

func (o MarketOrderConfig) OrderType() OrderType    { return Market }
func (o LimitOrderConfig) OrderType() OrderType     { return Limit }
func (o StopLossOrderConfig) OrderType() OrderType  { return StopLoss }
func (o StopLimitOrderConfig) OrderType() OrderType { return StopLimit }

func (o MarketOrderConfig) validate() error {
	if !o.AssetQuantity.IsPositive() {
		return errors.Wrapf(ErrInvalidOrder, "market order asset quantity must be positive, not %s", o.AssetQuantity)
	}

	return nil
}

func (o LimitOrderConfig) validate() error {
	if err := validateAmount(Limit, o.QuoteAmount, o.AssetQuantity); err != nil {
		return err
	}

	if err := validatePrice(Limit, "limit", o.LimitPrice); err != nil {
		return err
	}

	return validateTimeInForce(Limit, o.TimeInForce)
}

func (o StopLossOrderConfig) validate() error {
	if err := validateAmount(StopLoss, o.QuoteAmount, o.AssetQuantity); err != nil {
		return err
	}

	if err := validatePrice(StopLoss, "stop", o.StopPrice); err != nil {
		return err
	}

	return validateTimeInForce(StopLoss, o.TimeInForce)
}

func (o StopLimitOrderConfig) validate() error {
	if err := validateAmount(StopLimit, o.QuoteAmount, o.AssetQuantity); err != nil {
		return err
	}

	if err := validatePrice(StopLimit, "limit", o.LimitPrice); err != nil {
		return err
	}

	if err := validatePrice(StopLimit, "stop", o.StopPrice); err != nil {
		return err
	}

	return validateTimeInForce(StopLimit, o.TimeInForce)
}

func validateAmount(t OrderType, quoteAmount *decimal.Decimal, assetQuantity *decimal.Decimal) error {
	switch {
	case quoteAmount != nil && assetQuantity != nil:
		return errors.Wrapf(ErrInvalidOrder, "%s order must set only one of quote amount and asset quantity", t)

	case quoteAmount == nil && assetQuantity == nil:
		return errors.Wrapf(ErrInvalidOrder, "%s order must set a quote amount or an asset quantity", t)

	case quoteAmount != nil && !quoteAmount.IsPositive():
		return errors.Wrapf(ErrInvalidOrder, "%s order quote amount must be positive, not %s", t, quoteAmount)

	case assetQuantity != nil && !assetQuantity.IsPositive():
		return errors.Wrapf(ErrInvalidOrder, "%s order asset quantity must be positive, not %s", t, assetQuantity)
	}

	return nil
}

func validatePrice(t OrderType, name string, price *decimal.Decimal) error {
	if price == nil {
		return errors.Wrapf(ErrInvalidOrder, "%s order requires a %s price", t, name)
	}

	if !price.IsPositive() {
		return errors.Wrapf(ErrInvalidOrder, "%s order %s price must be positive, not %s", t, name, price)
	}

	return nil
}

func validateTimeInForce(t OrderType, tif TimeInForce) error {
	switch tif {
	case "", GoodTilCancelled, GoodForDay:
		return nil
	}

	return errors.Wrapf(ErrInvalidOrder, "%s order has unsupported time in force %q", t, tif)
}

//
// OrderConfigs is the wire representation of an order's configuration: one optional block per
// order type. Requests built by this package always populate exactly one block.
//
type OrderConfigs struct {
	MarketOrderConfig    *MarketOrderConfig    `json:"market_order_config,omitempty"`
	LimitOrderConfig     *LimitOrderConfig     `json:"limit_order_config,omitempty"`
	StopLossOrderConfig  *StopLossOrderConfig  `json:"stop_loss_order_config,omitempty"`
	StopLimitOrderConfig *StopLimitOrderConfig `json:"stop_limit_order_config,omitempty"`
}

//
// Config returns the single configuration block that is present, or nil if none (or, for a
// malformed payload, more than one) is present.
//
func (o OrderConfigs) Config() OrderConfig {
	var cfgs []OrderConfig

	if o.MarketOrderConfig != nil {
		cfgs = append(cfgs, *o.MarketOrderConfig)
	}

	if o.LimitOrderConfig != nil {
		cfgs = append(cfgs, *o.LimitOrderConfig)
	}

	if o.StopLossOrderConfig != nil {
		cfgs = append(cfgs, *o.StopLossOrderConfig)
	}

	if o.StopLimitOrderConfig != nil {
		cfgs = append(cfgs, *o.StopLimitOrderConfig)
	}

	if len(cfgs) != 1 {
		return nil
	}

	return cfgs[0]
}

//
// configsOf places the provided configuration into its wire block.
//
func configsOf(cfg OrderConfig) (OrderConfigs, error) {
	var ret OrderConfigs

	switch v := cfg.(type) {
	case MarketOrderConfig:
		ret.MarketOrderConfig = &v
	case *MarketOrderConfig:
		ret.MarketOrderConfig = v
	case LimitOrderConfig:
		ret.LimitOrderConfig = &v
	case *LimitOrderConfig:
		ret.LimitOrderConfig = v
	case StopLossOrderConfig:
		ret.StopLossOrderConfig = &v
	case *StopLossOrderConfig:
		ret.StopLossOrderConfig = v
	case StopLimitOrderConfig:
		ret.StopLimitOrderConfig = &v
	case *StopLimitOrderConfig:
		ret.StopLimitOrderConfig = v
	default:
		return ret, errors.Wrapf(ErrInvalidOrder, "unsupported order config %T", cfg)
	}

	if ret.Config() == nil {
		return ret, errors.Wrap(ErrInvalidOrder, "order config is nil")
	}

	return ret, nil
}
