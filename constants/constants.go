package constants

import (
	"github.com/shopspring/decimal"
)

const (
	LogPrefixFmt = "%-17s "
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

func Two() decimal.Decimal {
	return two
}

func Hundred() decimal.Decimal {
	return hundred
}
