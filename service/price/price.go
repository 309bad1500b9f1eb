package price

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

// Data is a currency amount converted through the oracle.
type Data struct {
	// amount expressed in wrapped native wei
	NativeAmount *big.Int
	// usd value of the amount
	Usd decimal.Decimal
	// native value as a display number
	Native decimal.Decimal
}

// Service converts wei amounts of arbitrary payment tokens into usd and
// native terms. Unknown tokens fail with domain.ErrNoPriceFeed.
type Service interface {
	GetUsdAndNativePrice(c ctx.Ctx, chainId domain.ChainId, currency domain.Address, amount *big.Int) (*Data, error)
}
