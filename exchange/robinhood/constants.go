package robinhood

const (
	APIKeyHeader    = "x-api-key"
	TimestampHeader = "x-timestamp"
	SignatureHeader = "x-signature"

	APIKeyEnv     = "ROBINHOOD_API_KEY"
	PrivateKeyEnv = "ROBINHOOD_SIGNING_PRIVATE_B64"
	PublicKeyEnv  = "ROBINHOOD_PUBLIC_KEY"

	BaseURL = "https://trading.robinhood.com"

	AccountsPath       = "/api/v1/crypto/trading/accounts/"
	BestBidAskPath     = "/api/v1/crypto/marketdata/best_bid_ask/"
	EstimatedPricePath = "/api/v1/crypto/marketdata/estimated_price/"
	TradingPairsPath   = "/api/v1/crypto/trading/trading_pairs/"
	HoldingsPath       = "/api/v1/crypto/trading/holdings/"
	OrdersPath         = "/api/v1/crypto/trading/orders/"
	OrderPathFmt       = OrdersPath + "%s/"
	CancelOrderPathFmt = OrdersPath + "%s/cancel/"
)
