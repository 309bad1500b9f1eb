package price

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
)

type impl struct {
	chainlink domain.ChainlinkUsacase
	paytoken  domain.PayTokenRepo
}

func New(chainlink domain.ChainlinkUsacase, paytoken domain.PayTokenRepo) Service {
	return &impl{chainlink: chainlink, paytoken: paytoken}
}

func (im *impl) GetUsdAndNativePrice(c ctx.Ctx, chainId domain.ChainId, currency domain.Address, amount *big.Int) (*Data, error) {
	lookup := currency
	if currency.IsEmpty() {
		lookup = domain.ChainIdWrappedNativeMap[chainId]
	}
	if beth, ok := domain.ChainIdBethMap[chainId]; ok && currency.Equals(beth) {
		// beth redeems one to one against the wrapped native
		lookup = domain.ChainIdWrappedNativeMap[chainId]
	}

	paytoken, err := im.paytoken.FindOne(c, chainId, lookup.ToLower())
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"chainId":  chainId,
			"currency": currency,
		}).Error("paytoken.FindOne failed")
		return nil, err
	}

	tokenUsd, err := im.chainlink.GetLatestAnswer(c, chainId, lookup.ToLower())
	if err != nil {
		return nil, err
	}

	native := domain.ChainIdWrappedNativeMap[chainId]
	nativeUsd, err := im.chainlink.GetLatestAnswer(c, chainId, native)
	if err != nil {
		return nil, err
	}
	if nativeUsd.IsZero() {
		return nil, domain.ErrNoPriceFeed
	}

	amountDec := decimal.NewFromBigInt(amount, -paytoken.TokenDecimals)
	usd := amountDec.Mul(tokenUsd)
	nativeAmountDec := usd.Div(nativeUsd)

	nativeWei := nativeAmountDec.Shift(18).BigInt()

	return &Data{
		NativeAmount: nativeWei,
		Usd:          usd,
		Native:       nativeAmountDec,
	}, nil
}
