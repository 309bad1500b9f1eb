package seaport

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/x-xyz/aggregator/domain"
)

const (
	buildOfferer  = "0x00000000000000000000000000000000000000aa"
	buildContract = "0x00000000000000000000000000000000000000bb"
	buildFeeAddr  = "0x00000000000000000000000000000000000000cc"
	buildWeth     = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
)

func sellParams() *BuildParams {
	return &BuildParams{
		ChainId:   1,
		Version:   VersionV14,
		Offerer:   buildOfferer,
		Contract:  buildContract,
		TokenId:   "1",
		TokenKind: domain.TokenType721,
		Price:     big.NewInt(100),
		Fees: []BuildFee{
			{Recipient: buildFeeAddr, Amount: big.NewInt(5)},
		},
		StartTime: 1000,
		EndTime:   2000,
	}
}

func TestBuildSingleTokenSell(t *testing.T) {
	req := require.New(t)

	so, err := BuildSingleTokenSell(sellParams())
	req.NoError(err)

	p := &so.Params
	req.Len(p.Offer, 1)
	req.Equal(ItemTypeErc721, p.Offer[0].ItemType)
	req.Equal(domain.Address(buildContract), p.Offer[0].Token)
	req.Equal("1", p.Offer[0].IdentifierOrCriteria)

	// net price to the offerer first, then the fee payout
	req.Len(p.Consideration, 2)
	req.Equal(ItemTypeNative, p.Consideration[0].ItemType)
	req.Equal("95", p.Consideration[0].StartAmount)
	req.Equal(domain.Address(buildOfferer), p.Consideration[0].Recipient)
	req.Equal("5", p.Consideration[1].StartAmount)
	req.Equal(domain.Address(buildFeeAddr), p.Consideration[1].Recipient)
	req.Equal(2, p.TotalOriginalConsiderationItems)
	req.NoError(so.CheckValidity())

	info, err := so.GetInfo()
	req.NoError(err)
	req.Equal(SideSell, info.Side)
	req.Equal(ScopeSingleToken, info.Scope)
	req.Equal(big.NewInt(100), info.Price)
	req.Equal(big.NewInt(5), info.FeeAmount())

	tokenSetId, err := info.TokenSetId()
	req.NoError(err)
	req.Equal("token:"+buildContract+":1", tokenSetId)
}

func TestBuildNativeListingHashes(t *testing.T) {
	req := require.New(t)

	so, err := BuildSingleTokenSell(sellParams())
	req.NoError(err)

	// native currency renders as the zero address, never empty
	for _, c := range so.Params.Consideration {
		req.Equal(domain.EmptyAddress, c.Token)
	}

	h, err := so.HashHex()
	req.NoError(err)
	req.Len(string(h), 66)
}

func TestBuildBuyRequiresErc20(t *testing.T) {
	p := sellParams()
	_, err := BuildSingleTokenBuy(p)
	require.ErrorContains(t, err, "erc20")
}

func TestFeesExceedPrice(t *testing.T) {
	p := sellParams()
	p.Fees = []BuildFee{{Recipient: buildFeeAddr, Amount: big.NewInt(100)}}
	_, err := BuildSingleTokenSell(p)
	require.ErrorContains(t, err, "fees exceed price")
}

func TestBuildContractWideBuy(t *testing.T) {
	req := require.New(t)

	p := sellParams()
	p.PaymentToken = buildWeth
	so, err := BuildContractWideBuy(p)
	req.NoError(err)

	req.Equal(ItemTypeErc20, so.Params.Offer[0].ItemType)
	req.Equal("100", so.Params.Offer[0].StartAmount)
	req.Equal(ItemTypeErc721WithCriteria, so.Params.Consideration[0].ItemType)
	req.Equal("0", so.Params.Consideration[0].IdentifierOrCriteria)

	info, err := so.GetInfo()
	req.NoError(err)
	req.Equal(SideBuy, info.Side)
	req.Equal(ScopeContractWide, info.Scope)

	tokenSetId, err := info.TokenSetId()
	req.NoError(err)
	req.Equal("contract:"+buildContract, tokenSetId)
}

func TestBuildTokenListBuyRequiresRoot(t *testing.T) {
	p := sellParams()
	p.PaymentToken = buildWeth
	_, err := BuildTokenListBuy(p)
	require.ErrorContains(t, err, "merkle root")
}

func TestOffChainCancellationRestrictsOrder(t *testing.T) {
	req := require.New(t)

	p := sellParams()
	p.UseOffChainCancellation = true
	_, err := BuildSingleTokenSell(p)
	req.ErrorContains(err, "cancellation zone")

	p.CancellationZone = "0x00000000000000000000000000000000000000dd"
	so, err := BuildSingleTokenSell(p)
	req.NoError(err)
	req.Equal(OrderTypeFullRestricted, so.Params.OrderType)
	req.Equal(p.CancellationZone, so.Params.Zone)
}

func TestPartialOrderTypeOnQuantity(t *testing.T) {
	req := require.New(t)

	p := sellParams()
	p.TokenKind = domain.TokenType1155
	p.Quantity = big.NewInt(3)
	so, err := BuildSingleTokenSell(p)
	req.NoError(err)
	req.Equal(OrderTypePartialOpen, so.Params.OrderType)
	req.Equal("3", so.Params.Offer[0].StartAmount)
}

func TestSaltCarriesSource(t *testing.T) {
	req := require.New(t)

	p := sellParams()
	p.Source = "aggregator.xyz"
	so, err := BuildSingleTokenSell(p)
	req.NoError(err)

	salt, ok := new(big.Int).SetString(so.Params.Salt, 10)
	req.True(ok)
	want := new(big.Int).SetBytes([]byte(p.Source))
	req.Equal(want, new(big.Int).Rsh(salt, 128))
}

func TestReplacementReusesSalt(t *testing.T) {
	req := require.New(t)

	p := sellParams()
	p.ReplaceOrderId = "0x0000000000000000000000000000000000000000000000000000000000000123"
	so, err := BuildSingleTokenSell(p)
	req.NoError(err)
	req.Equal(big.NewInt(0x123).String(), so.Params.Salt)
}
