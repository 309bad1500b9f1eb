package chainlink

import (
	"math/big"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

type Chainlink interface {
	GetLatestAnswer(c ctx.Ctx, chainId domain.ChainId, feedAddress domain.Address) (*big.Int, error)
	GetLatestAnswerAt(c ctx.Ctx, chainId domain.ChainId, feedAddress domain.Address, blk *big.Int) (*big.Int, error)
}
