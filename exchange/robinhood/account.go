package robinhood

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// Account is the basic information of the authenticated crypto trading account.
//
type Account struct {
	AccountNumber       string          `json:"account_number"`
	Status              string          `json:"status"`
	BuyingPower         decimal.Decimal `json:"buying_power"`
	BuyingPowerCurrency string          `json:"buying_power_currency"`
}

func (o *Account) validate() error {
	if o.AccountNumber == "" {
		return errors.New("account is missing its account number")
	}

	return nil
}

//
// Account retrieves the authenticated account's number, status, and buying power.
//
func (o *Client) Account(ctx context.Context) (*Account, error) {
	var account Account

	if _, err := o.call(ctx, "account", http.MethodGet, AccountsPath, nil, &account); err != nil {
		return nil, err
	}

	return &account, nil
}
