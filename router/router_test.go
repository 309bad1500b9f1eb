package router

import (
	"encoding/json"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	xabi "github.com/x-xyz/aggregator/base/abi"
	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/exchange/seaport"
	"github.com/x-xyz/aggregator/service/orderfetcher"
	mFetcher "github.com/x-xyz/aggregator/service/orderfetcher/mocks"
)

const (
	testTaker    = "0x00000000000000000000000000000000000000bb"
	testNft      = "0x00000000000000000000000000000000000000cc"
	testWeth     = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	testUsdc     = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	nativeEth    = domain.Address("")
	routerAddr   = "0xc2c862322e9c97d6244a3506655da95f05246fd8"
	seaportV14   = "0x00000000000001ad428e4906ae43d8f9852d0dd6"
	seaportModAt = "0x20794ef7693441799a3f38fcc22a12b3e04b9572"
	swapModAt    = "0xc1fccc82a52b4ec4e24f6d5beab18faf19fa4d26"
	proxyAddr    = "0x79ce8e4c25cf6b2c36ad05b5e1e6454010432b2d"
)

type routerSuite struct {
	suite.Suite

	fetcher *mFetcher.Client
	im      *Router
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(routerSuite))
}

func (s *routerSuite) SetupTest() {
	s.fetcher = &mFetcher.Client{}
	im, err := NewRouter(&RouterCfg{ChainId: 1, OrderFetcher: s.fetcher})
	s.Require().NoError(err)
	s.im = im
}

func (s *routerSuite) rawListing(kind order.Kind, tokenId string, currency domain.Address, price int64) json.RawMessage {
	version := seaport.VersionV11
	if kind == order.KindSeaportV14 {
		version = seaport.VersionV14
	}
	so, err := seaport.BuildSingleTokenSell(&seaport.BuildParams{
		ChainId:      1,
		Version:      version,
		Offerer:      "0x00000000000000000000000000000000000000aa",
		Contract:     testNft,
		TokenId:      tokenId,
		TokenKind:    domain.TokenType721,
		PaymentToken: currency,
		Price:        big.NewInt(price),
		StartTime:    time.Now().Add(-time.Hour).Unix(),
		EndTime:      time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)
	return raw
}

func (s *routerSuite) listing(kind order.Kind, id domain.OrderHash, tokenId string, currency domain.Address, price int64) *ListingDetails {
	return &ListingDetails{
		Kind:      kind,
		OrderId:   id,
		Contract:  testNft,
		TokenId:   tokenId,
		TokenKind: domain.TokenType721,
		Currency:  currency,
		Price:     big.NewInt(price),
		RawOrder:  s.rawListing(kind, tokenId, currency, price),
	}
}

func (s *routerSuite) TestHomogeneousBatchFillsDirectly() {
	c := ctx.Background()
	details := []*ListingDetails{
		s.listing(order.KindSeaportV14, "0x01", "1", nativeEth, 10000),
		s.listing(order.KindSeaportV14, "0x02", "2", nativeEth, 20000),
	}

	res, err := s.im.FillListings(c, details, testTaker, nativeEth, nil)
	s.Require().NoError(err)
	s.Require().Len(res.Txs, 1)

	tx := res.Txs[0]
	s.Equal(domain.Address(seaportV14), tx.TxData.To)
	s.Equal(big.NewInt(30000), tx.TxData.Value)
	s.Len(tx.OrderIds, 2)
	s.True(res.Success["0x01"])
	s.True(res.Success["0x02"])

	data, err := hexutil.Decode(tx.TxData.Data)
	s.Require().NoError(err)
	method := xabi.SeaportV14ABI.Methods["fulfillAvailableAdvancedOrders"]
	s.Equal(method.ID, data[:4])
}

func (s *routerSuite) TestSingleListingUsesFulfillAdvancedOrder() {
	c := ctx.Background()
	details := []*ListingDetails{
		s.listing(order.KindSeaportV14, "0x01", "1", nativeEth, 10000),
	}

	res, err := s.im.FillListings(c, details, testTaker, nativeEth, nil)
	s.Require().NoError(err)
	s.Require().Len(res.Txs, 1)

	data, err := hexutil.Decode(res.Txs[0].TxData.Data)
	s.Require().NoError(err)
	method := xabi.SeaportV14ABI.Methods["fulfillAdvancedOrder"]
	s.Equal(method.ID, data[:4])
}

func (s *routerSuite) TestMixedCurrenciesGroupAndCoalesceSwaps() {
	c := ctx.Background()
	// two kinds settling in weth plus one group in usdc, the weth swap
	// legs must coalesce into a single execution
	details := []*ListingDetails{
		s.listing(order.KindSeaport, "0x01", "1", testWeth, 10000),
		s.listing(order.KindSeaportV14, "0x02", "2", testWeth, 20000),
		s.listing(order.KindSeaportV14, "0x03", "3", testUsdc, 30000),
	}

	res, err := s.im.FillListings(c, details, testTaker, nativeEth, nil)
	s.Require().NoError(err)
	s.Require().Len(res.Txs, 1)

	tx := res.Txs[0]
	s.Equal(domain.Address(routerAddr), tx.TxData.To)
	s.Len(tx.OrderIds, 3)

	data, err := hexutil.Decode(tx.TxData.Data)
	s.Require().NoError(err)
	s.Equal(xabi.RouterABI.Methods["execute"].ID, data[:4])

	vals, err := xabi.RouterABI.Methods["execute"].Inputs.Unpack(data[4:])
	s.Require().NoError(err)
	execs := reflect.ValueOf(vals[0])

	countModule := func(addr string) int {
		n := 0
		for i := 0; i < execs.Len(); i++ {
			m := execs.Index(i).FieldByName("Module").Interface().(common.Address)
			if m == common.HexToAddress(addr) {
				n++
			}
		}
		return n
	}
	// three module groups, two swap legs (weth coalesced, usdc on its own)
	s.Equal(5, execs.Len())
	s.Equal(3, countModule(seaportModAt))
	s.Equal(2, countModule(swapModAt))
	// swap legs run before the groups they fund
	s.Equal(common.HexToAddress(swapModAt), execs.Index(0).FieldByName("Module").Interface().(common.Address))
}

func (s *routerSuite) TestGlobalFeesForceRouterPath() {
	c := ctx.Background()
	details := []*ListingDetails{
		s.listing(order.KindSeaportV14, "0x01", "1", nativeEth, 10000),
		s.listing(order.KindSeaportV14, "0x02", "2", nativeEth, 30000),
	}

	res, err := s.im.FillListings(c, details, testTaker, nativeEth, &FillListingsOptions{
		GlobalFees: []Fee{{Recipient: "0x00000000000000000000000000000000000000ee", Amount: big.NewInt(500)}},
	})
	s.Require().NoError(err)
	s.Require().Len(res.Txs, 1)
	s.Equal(domain.Address(routerAddr), res.Txs[0].TxData.To)
	// order total plus the full global fee
	s.Equal(big.NewInt(40500), res.Txs[0].TxData.Value)
}

func (s *routerSuite) TestMultipleBlurListingsRejected() {
	c := ctx.Background()
	details := []*ListingDetails{
		{Kind: order.KindBlur, OrderId: "0x01", Contract: testNft, TokenId: "1", Price: big.NewInt(1)},
		{Kind: order.KindBlur, OrderId: "0x02", Contract: testNft, TokenId: "2", Price: big.NewInt(2)},
	}

	_, err := s.im.FillListings(c, details, testTaker, nativeEth, nil)
	s.Error(err)
	s.fetcher.AssertNotCalled(s.T(), "GenerateBlurListingFulfillment", mock.Anything, mock.Anything)
}

func (s *routerSuite) TestUnsupportedKindRejected() {
	c := ctx.Background()
	details := []*ListingDetails{
		{Kind: order.KindLooksRare, OrderId: "0x01", Contract: testNft, TokenId: "1", Price: big.NewInt(1)},
	}

	_, err := s.im.FillListings(c, details, testTaker, nativeEth, nil)
	s.Error(err)
}

func (s *routerSuite) TestBlurListingFillsSolo() {
	c := ctx.Background()
	s.fetcher.On("GenerateBlurListingFulfillment", mock.Anything, mock.MatchedBy(func(req *orderfetcher.BlurListingRequest) bool {
		return req.TokenId == "1" && req.Taker == domain.Address(testTaker)
	})).Return(&orderfetcher.BlurListingFulfillment{
		To:    "0x000000000000ad05ccc4f10045630fb830b95127",
		Data:  "0xdeadbeef",
		Value: "12345",
	}, nil)

	details := []*ListingDetails{
		{Kind: order.KindBlur, OrderId: "0x01", Contract: testNft, TokenId: "1", Price: big.NewInt(12345)},
	}
	res, err := s.im.FillListings(c, details, testTaker, nativeEth, nil)
	s.Require().NoError(err)
	s.Require().Len(res.Txs, 1)
	s.Equal("0xdeadbeef", res.Txs[0].TxData.Data)
	s.Equal(big.NewInt(12345), res.Txs[0].TxData.Value)
	s.True(res.Success["0x01"])
}

func (s *routerSuite) TestPartialModeDropsFailingOrderAndKeepsSiblings() {
	c := ctx.Background()
	s.fetcher.On("GenerateBlurListingFulfillment", mock.Anything, mock.Anything).
		Return(nil, orderfetcher.ErrRecoverable)

	var reportedId domain.OrderHash
	var reportedTaker domain.Address
	calls := 0
	details := []*ListingDetails{
		{Kind: order.KindBlur, OrderId: "0x01", Contract: testNft, TokenId: "1", Price: big.NewInt(1)},
		s.listing(order.KindSeaportV14, "0x02", "2", nativeEth, 20000),
	}

	res, err := s.im.FillListings(c, details, testTaker, nativeEth, &FillListingsOptions{
		Partial: true,
		OnRecoverableError: func(orderId domain.OrderHash, detail string, taker domain.Address, url string) {
			calls++
			reportedId = orderId
			reportedTaker = taker
		},
	})
	s.Require().NoError(err)
	s.Require().Len(res.Txs, 1)
	s.False(res.Success["0x01"])
	s.True(res.Success["0x02"])
	s.Equal(1, calls)
	s.Equal(domain.OrderHash("0x01"), reportedId)
	s.Equal(domain.Address(testTaker), reportedTaker)
}

func (s *routerSuite) TestSingleOrderFailureIsFatal() {
	c := ctx.Background()
	s.fetcher.On("GenerateBlurListingFulfillment", mock.Anything, mock.Anything).
		Return(nil, orderfetcher.ErrRecoverable)

	details := []*ListingDetails{
		{Kind: order.KindBlur, OrderId: "0x01", Contract: testNft, TokenId: "1", Price: big.NewInt(1)},
	}
	// partial mode is ignored for single order batches
	_, err := s.im.FillListings(c, details, testTaker, nativeEth, &FillListingsOptions{Partial: true})
	s.ErrorIs(err, orderfetcher.ErrRecoverable)
}

func (s *routerSuite) TestNothingFillableIsFatal() {
	c := ctx.Background()
	s.fetcher.On("GenerateBlurListingFulfillment", mock.Anything, mock.Anything).
		Return(nil, orderfetcher.ErrRecoverable)
	s.fetcher.On("ResolvePartialOrder", mock.Anything, mock.Anything).
		Return(nil, xerrors.New("relayer down"))

	details := []*ListingDetails{
		{Kind: order.KindBlur, OrderId: "0x01", Contract: testNft, TokenId: "1", Price: big.NewInt(1)},
		{Kind: order.KindSeaportV14, OrderId: "0x02", Contract: testNft, TokenId: "2", Price: big.NewInt(2), IsPartial: true},
	}
	_, err := s.im.FillListings(c, details, testTaker, nativeEth, &FillListingsOptions{Partial: true})
	s.ErrorIs(err, ErrNothingToFill)
}

func (s *routerSuite) rawBid(tokenId string, price int64) json.RawMessage {
	so, err := seaport.BuildContractWideBuy(&seaport.BuildParams{
		ChainId:      1,
		Version:      seaport.VersionV14,
		Offerer:      "0x00000000000000000000000000000000000000aa",
		Contract:     testNft,
		TokenKind:    domain.TokenType721,
		PaymentToken: testWeth,
		Price:        big.NewInt(price),
		StartTime:    time.Now().Add(-time.Hour).Unix(),
		EndTime:      time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)
	return raw
}

func (s *routerSuite) TestFillBidsBatchesThroughApprovalProxy() {
	c := ctx.Background()
	details := []*BidDetails{
		{Kind: order.KindSeaportV14, OrderId: "0x01", Contract: testNft, TokenId: "1", TokenKind: domain.TokenType721, Price: big.NewInt(10000), RawOrder: s.rawBid("1", 10000)},
		{Kind: order.KindSeaportV14, OrderId: "0x02", Contract: testNft, TokenId: "2", TokenKind: domain.TokenType721, Price: big.NewInt(20000), RawOrder: s.rawBid("2", 20000)},
	}

	res, err := s.im.FillBids(c, details, testTaker, nil)
	s.Require().NoError(err)
	s.Equal(domain.Address(proxyAddr), res.TxData.To)
	s.True(res.Success["0x01"])
	s.True(res.Success["0x02"])

	data, err := hexutil.Decode(res.TxData.Data)
	s.Require().NoError(err)
	s.Equal(xabi.ApprovalProxyABI.Methods["bulkTransferWithExecute"].ID, data[:4])

	// both bids sit on the same contract, one approval suffices
	s.Require().Len(res.Approvals, 1)
	s.Equal(domain.Address(testNft), res.Approvals[0].Contract)
	s.Equal(domain.Address(proxyAddr), res.Approvals[0].Operator)
}

func (s *routerSuite) rawTokenListBid(price int64) json.RawMessage {
	so, err := seaport.BuildTokenListBuy(&seaport.BuildParams{
		ChainId:      1,
		Version:      seaport.VersionV14,
		Offerer:      "0x00000000000000000000000000000000000000aa",
		Contract:     testNft,
		TokenKind:    domain.TokenType721,
		PaymentToken: testWeth,
		Price:        big.NewInt(price),
		StartTime:    time.Now().Add(-time.Hour).Unix(),
		EndTime:      time.Now().Add(time.Hour).Unix(),
		MerkleRoot:   "0x00000000000000000000000000000000000000000000000000000000000000ff",
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)
	return raw
}

func (s *routerSuite) TestFillBidsRejectsTokenListBid() {
	c := ctx.Background()
	details := []*BidDetails{
		{Kind: order.KindSeaportV14, OrderId: "0x01", Contract: testNft, TokenId: "1", TokenKind: domain.TokenType721, Price: big.NewInt(10000), RawOrder: s.rawTokenListBid(10000)},
	}
	_, err := s.im.FillBids(c, details, testTaker, nil)
	s.ErrorIs(err, ErrTokenListBid)
}

func (s *routerSuite) TestFillBidsPartialDropsTokenListBid() {
	c := ctx.Background()
	details := []*BidDetails{
		{Kind: order.KindSeaportV14, OrderId: "0x01", Contract: testNft, TokenId: "1", TokenKind: domain.TokenType721, Price: big.NewInt(10000), RawOrder: s.rawTokenListBid(10000)},
		{Kind: order.KindSeaportV14, OrderId: "0x02", Contract: testNft, TokenId: "2", TokenKind: domain.TokenType721, Price: big.NewInt(20000), RawOrder: s.rawBid("2", 20000)},
	}
	res, err := s.im.FillBids(c, details, testTaker, &FillBidsOptions{Partial: true})
	s.Require().NoError(err)
	s.False(res.Success["0x01"])
	s.True(res.Success["0x02"])
}

func (s *routerSuite) TestFillBidsRejectsUnsupportedKind() {
	c := ctx.Background()
	details := []*BidDetails{
		{Kind: order.KindBlur, OrderId: "0x01", Contract: testNft, TokenId: "1", Price: big.NewInt(1)},
	}
	_, err := s.im.FillBids(c, details, testTaker, nil)
	s.Error(err)
}
