package usecase

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	mDomain "github.com/x-xyz/aggregator/domain/mocks"
	"github.com/x-xyz/aggregator/domain/order"
	mOrder "github.com/x-xyz/aggregator/domain/order/mocks"
	"github.com/x-xyz/aggregator/domain/tokenset"
	mTokenset "github.com/x-xyz/aggregator/domain/tokenset/mocks"
	"github.com/x-xyz/aggregator/exchange/seaport"
	mContract "github.com/x-xyz/aggregator/service/chain/contract/mocks"
	"github.com/x-xyz/aggregator/service/price"
	mPrice "github.com/x-xyz/aggregator/service/price/mocks"

	"github.com/x-xyz/aggregator/domain/collection"
	mCollection "github.com/x-xyz/aggregator/domain/collection/mocks"
)

const (
	testMaker    = "0x00000000000000000000000000000000000000aa"
	testContract = "0x00000000000000000000000000000000000000bb"
	testRoyalty  = "0x00000000000000000000000000000000000000cc"
	testWeth     = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
)

type saveSuite struct {
	suite.Suite

	repo         *mOrder.Repo
	tokensetUC   *mTokenset.UseCase
	collectionUC *mCollection.UseCase
	paytokenRepo *mDomain.PayTokenRepo
	priceSvc     *mPrice.Service
	erc1271      *mContract.Erc1271Contract
	erc721       *mContract.Erc721Contract
	erc1155      *mContract.Erc1155Contract
	erc20        *mContract.Erc20Contract

	saved []*order.Order
	im    order.UseCase
}

func TestSaveSuite(t *testing.T) {
	suite.Run(t, new(saveSuite))
}

func (s *saveSuite) SetupTest() {
	s.repo = &mOrder.Repo{}
	s.tokensetUC = &mTokenset.UseCase{}
	s.collectionUC = &mCollection.UseCase{}
	s.paytokenRepo = &mDomain.PayTokenRepo{}
	s.priceSvc = &mPrice.Service{}
	s.erc1271 = &mContract.Erc1271Contract{}
	s.erc721 = &mContract.Erc721Contract{}
	s.erc1155 = &mContract.Erc1155Contract{}
	s.erc20 = &mContract.Erc20Contract{}
	s.saved = nil
	s.im = New(&OrderUseCaseCfg{
		OrderRepo:    s.repo,
		TokenSetUC:   s.tokensetUC,
		CollectionUC: s.collectionUC,
		PaytokenRepo: s.paytokenRepo,
		PriceService: s.priceSvc,
		Erc1271:      s.erc1271,
		Erc721:       s.erc721,
		Erc1155:      s.erc1155,
		Erc20:        s.erc20,
	})
}

func (s *saveSuite) expectInsert() {
	s.repo.On("InsertIgnore", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			s.saved = args.Get(1).([]*order.Order)
		}).
		Return(func(_ ctx.Ctx, orders []*order.Order) []order.Id {
			ids := make([]order.Id, len(orders))
			for i, o := range orders {
				ids[i] = o.ToId()
			}
			return ids
		}, nil)
}

func (s *saveSuite) buildListing(price int64, fees []seaport.BuildFee) json.RawMessage {
	so, err := seaport.BuildSingleTokenSell(&seaport.BuildParams{
		ChainId:   1,
		Version:   seaport.VersionV14,
		Offerer:   testMaker,
		Contract:  testContract,
		TokenId:   "1",
		TokenKind: domain.TokenType721,
		Price:     big.NewInt(price),
		Fees:      fees,
		StartTime: time.Now().Add(-time.Hour).Unix(),
		EndTime:   time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)
	return raw
}

func (s *saveSuite) buildBid(price int64, fees []seaport.BuildFee) json.RawMessage {
	so, err := seaport.BuildSingleTokenBuy(&seaport.BuildParams{
		ChainId:      1,
		Version:      seaport.VersionV14,
		Offerer:      testMaker,
		Contract:     testContract,
		TokenId:      "1",
		TokenKind:    domain.TokenType721,
		PaymentToken: testWeth,
		Price:        big.NewInt(price),
		Fees:         fees,
		StartTime:    time.Now().Add(-time.Hour).Unix(),
		EndTime:      time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)
	return raw
}

func onChain() *order.OnChainContext {
	return &order.OnChainContext{BlockNumber: 17000000, LogIndex: 5}
}

func (s *saveSuite) TestListingSuccess() {
	c := ctx.Background()
	raw := s.buildListing(10000, []seaport.BuildFee{
		{Recipient: testRoyalty, Amount: big.NewInt(500)},
	})

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.erc721.On("OwnerOf", mock.Anything, int32(1), testContract, mock.Anything).Return(testMaker, nil)
	s.erc721.On("IsApprovedForAll", mock.Anything, int32(1), testContract, testMaker, mock.Anything).Return(true, nil)
	s.tokensetUC.On("GetOrCreate", mock.Anything, domain.ChainId(1), "token:"+testContract+":1").
		Return(&tokenset.TokenSet{}, nil)
	s.collectionUC.On("GetRoyalties", mock.Anything, mock.Anything, mock.Anything).
		Return([]collection.Royalty{{Recipient: testRoyalty, Bps: 500}}, nil)
	s.priceSvc.On("GetUsdAndNativePrice", mock.Anything, domain.ChainId(1), domain.EmptyAddress, big.NewInt(10000)).
		Return(&price.Data{NativeAmount: big.NewInt(10000), Usd: decimal.NewFromInt(25)}, nil)
	s.expectInsert()

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId:     1,
		Kind:        order.KindSeaportV14,
		RawOrder:    raw,
		FromOnChain: onChain(),
	}})
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(order.SaveStatusSuccess, results[0].Status)
	s.Empty(results[0].UnfillableReason)

	s.Require().Len(s.saved, 1)
	o := s.saved[0]
	s.Equal(order.SideSell, o.Side)
	s.Equal(domain.Address(testMaker), o.Maker)
	s.Equal("10000", o.Price)
	s.Equal("10000", o.Value)
	s.Equal("10000", o.NormalizedValue)
	s.Equal(500, o.FeeBps)
	s.Empty(o.MissingRoyalties)
	s.Equal(order.FillabilityFillable, o.Fillability)
	s.Equal(order.ApprovalApproved, o.Approval)
	s.False(o.IsNative)
	s.NotNil(o.BlockNumber)
}

func (s *saveSuite) TestMultiUnitListingPersistsPerUnitPrice() {
	c := ctx.Background()
	so, err := seaport.BuildSingleTokenSell(&seaport.BuildParams{
		ChainId:   1,
		Version:   seaport.VersionV14,
		Offerer:   testMaker,
		Contract:  testContract,
		TokenId:   "1",
		TokenKind: domain.TokenType1155,
		Quantity:  big.NewInt(10),
		Price:     big.NewInt(10000),
		StartTime: time.Now().Add(-time.Hour).Unix(),
		EndTime:   time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.erc1155.On("BalanceOf", mock.Anything, int32(1), testContract, testMaker, mock.Anything).Return(big.NewInt(10), nil)
	s.erc1155.On("IsApprovedForAll", mock.Anything, int32(1), testContract, testMaker, mock.Anything).Return(true, nil)
	s.tokensetUC.On("GetOrCreate", mock.Anything, domain.ChainId(1), "token:"+testContract+":1").
		Return(&tokenset.TokenSet{}, nil)
	s.collectionUC.On("GetRoyalties", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)
	// totals on the wire, the persisted price is for a single item
	s.priceSvc.On("GetUsdAndNativePrice", mock.Anything, domain.ChainId(1), domain.EmptyAddress, big.NewInt(1000)).
		Return(&price.Data{NativeAmount: big.NewInt(1000), Usd: decimal.NewFromInt(3)}, nil)
	s.expectInsert()

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId:  1,
		Kind:     order.KindSeaportV14,
		RawOrder: raw,
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusSuccess, results[0].Status)

	s.Require().Len(s.saved, 1)
	o := s.saved[0]
	s.Equal("1000", o.CurrencyPrice)
	s.Equal("1000", o.CurrencyValue)
	s.Equal("1000", o.NormalizedValue)
	s.Equal("10", o.QuantityRemaining)
}

func TestStartTooFarOutBoundary(t *testing.T) {
	now := time.Unix(1700000000, 0)
	if !startTooFarOut(now, now.Add(maxStartTimeAhead)) {
		t.Fatal("start exactly at the threshold must be rejected")
	}
	if startTooFarOut(now, now.Add(maxStartTimeAhead-time.Second)) {
		t.Fatal("start inside the threshold must pass")
	}
}

func (s *saveSuite) TestBidSuccessWithMissingRoyalties() {
	c := ctx.Background()
	raw := s.buildBid(10000, []seaport.BuildFee{
		{Recipient: "0x00000000000000000000000000000000000000dd", Amount: big.NewInt(500)},
	})

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.paytokenRepo.On("FindOne", mock.Anything, domain.ChainId(1), domain.Address(testWeth)).
		Return(&domain.PayToken{ChainId: 1, Address: testWeth}, nil)
	s.erc20.On("BalanceOf", mock.Anything, int32(1), testWeth, testMaker).Return(big.NewInt(10000), nil)
	s.erc20.On("Allowance", mock.Anything, int32(1), testWeth, testMaker, mock.Anything).Return(big.NewInt(10000), nil)
	s.tokensetUC.On("GetOrCreate", mock.Anything, domain.ChainId(1), "token:"+testContract+":1").
		Return(&tokenset.TokenSet{}, nil)
	s.collectionUC.On("GetRoyalties", mock.Anything, mock.Anything, mock.Anything).
		Return([]collection.Royalty{{Recipient: testRoyalty, Bps: 500}}, nil)
	s.priceSvc.On("GetUsdAndNativePrice", mock.Anything, domain.ChainId(1), domain.Address(testWeth), big.NewInt(10000)).
		Return(&price.Data{NativeAmount: big.NewInt(10000), Usd: decimal.NewFromInt(25)}, nil)
	s.expectInsert()

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId:     1,
		Kind:        order.KindSeaportV14,
		RawOrder:    raw,
		FromOnChain: onChain(),
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusSuccess, results[0].Status)

	s.Require().Len(s.saved, 1)
	o := s.saved[0]
	s.Equal(order.SideBuy, o.Side)
	// bid value nets out the 500 marketplace fee, normalization also
	// subtracts the 500 missing royalty
	s.Equal("9500", o.CurrencyValue)
	s.Equal("9000", o.NormalizedValue)
	s.Equal(1000, o.FeeBps)
	s.Require().Len(o.MissingRoyalties, 1)
	s.Equal("500", o.MissingRoyalties[0].Amount)
}

func (s *saveSuite) TestAlreadyExistsBackfillsRawData() {
	c := ctx.Background()
	raw := s.buildListing(10000, nil)

	so := &seaport.Order{ChainId: 1, Version: seaport.VersionV14}
	s.Require().NoError(json.Unmarshal(raw, &so.Params))
	hash, err := so.HashHex()
	s.Require().NoError(err)
	id := order.Id{ChainId: 1, Hash: hash.ToLower()}

	s.repo.On("FindOne", mock.Anything, id).Return(&order.Order{ChainId: 1, Hash: id.Hash}, nil)
	s.repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p order.Patchable) bool {
		return len(p.RawData) > 0
	})).Return(nil)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId:  1,
		Kind:     order.KindSeaportV14,
		RawOrder: raw,
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusAlreadyExists, results[0].Status)
	s.Equal(id.Hash, results[0].Id)
	s.repo.AssertCalled(s.T(), "Update", mock.Anything, id, mock.Anything)
}

func (s *saveSuite) TestZeroPrice() {
	c := ctx.Background()
	comps := seaport.OrderComponents{
		Offerer: testMaker,
		Zone:    domain.EmptyAddress,
		Offer: []seaport.OfferItem{{
			ItemType:             seaport.ItemTypeErc721,
			Token:                testContract,
			IdentifierOrCriteria: "1",
			StartAmount:          "1",
			EndAmount:            "1",
		}},
		Consideration: []seaport.ConsiderationItem{{
			ItemType:             seaport.ItemTypeNative,
			Token:                domain.EmptyAddress,
			IdentifierOrCriteria: "0",
			StartAmount:          "0",
			EndAmount:            "0",
			Recipient:            testMaker,
		}},
		OrderType:  seaport.OrderTypeFullOpen,
		StartTime:  time.Now().Add(-time.Hour).Unix(),
		EndTime:    time.Now().Add(time.Hour).Unix(),
		ZoneHash:   seaport.HashZero,
		Salt:       "1",
		ConduitKey: seaport.HashZero,
		Counter:    "0",
	}
	raw, err := json.Marshal(comps)
	s.Require().NoError(err)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw,
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusZeroPrice, results[0].Status)
}

func (s *saveSuite) TestDelayedCarriesHint() {
	c := ctx.Background()
	so, err := seaport.BuildSingleTokenSell(&seaport.BuildParams{
		ChainId: 1, Version: seaport.VersionV14,
		Offerer: testMaker, Contract: testContract, TokenId: "1",
		TokenKind: domain.TokenType721, Price: big.NewInt(10000),
		StartTime: time.Now().Add(2 * time.Hour).Unix(),
		EndTime:   time.Now().Add(3 * time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw,
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusDelayed, results[0].Status)
	s.True(results[0].DelayHint > time.Hour)
}

func (s *saveSuite) TestStartTimeTooFarOut() {
	c := ctx.Background()
	so, err := seaport.BuildSingleTokenSell(&seaport.BuildParams{
		ChainId: 1, Version: seaport.VersionV14,
		Offerer: testMaker, Contract: testContract, TokenId: "1",
		TokenKind: domain.TokenType721, Price: big.NewInt(10000),
		StartTime: time.Now().Add(8 * 24 * time.Hour).Unix(),
		EndTime:   time.Now().Add(9 * 24 * time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw,
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusInvalidStartTime, results[0].Status)
}

func (s *saveSuite) TestExpired() {
	c := ctx.Background()
	so, err := seaport.BuildSingleTokenSell(&seaport.BuildParams{
		ChainId: 1, Version: seaport.VersionV14,
		Offerer: testMaker, Contract: testContract, TokenId: "1",
		TokenKind: domain.TokenType721, Price: big.NewInt(10000),
		StartTime: time.Now().Add(-2 * time.Hour).Unix(),
		EndTime:   time.Now().Add(-time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw,
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusExpired, results[0].Status)
}

func (s *saveSuite) TestBidInUnsupportedCurrency() {
	c := ctx.Background()
	raw := s.buildBid(10000, nil)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.paytokenRepo.On("FindOne", mock.Anything, domain.ChainId(1), domain.Address(testWeth)).Return(nil, nil)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw, FromOnChain: onChain(),
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusUnsupportedPaymentToken, results[0].Status)
}

func (s *saveSuite) TestMissingApprovalStillSaved() {
	c := ctx.Background()
	raw := s.buildListing(10000, nil)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.erc721.On("OwnerOf", mock.Anything, int32(1), testContract, mock.Anything).Return(testMaker, nil)
	s.erc721.On("IsApprovedForAll", mock.Anything, int32(1), testContract, testMaker, mock.Anything).Return(false, nil)
	s.tokensetUC.On("GetOrCreate", mock.Anything, mock.Anything, mock.Anything).Return(&tokenset.TokenSet{}, nil)
	s.collectionUC.On("GetRoyalties", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	s.priceSvc.On("GetUsdAndNativePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&price.Data{NativeAmount: big.NewInt(10000), Usd: decimal.NewFromInt(25)}, nil)
	s.expectInsert()

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw, FromOnChain: onChain(),
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusSuccess, results[0].Status)
	s.Equal(string(order.SaveStatusNoApproval), results[0].UnfillableReason)

	s.Require().Len(s.saved, 1)
	s.Equal(order.ApprovalNoApproval, s.saved[0].Approval)
	s.Equal(order.FillabilityFillable, s.saved[0].Fillability)
}

func (s *saveSuite) TestFeesTooHigh() {
	c := ctx.Background()
	raw := s.buildListing(10000, []seaport.BuildFee{
		{Recipient: "0x00000000000000000000000000000000000000dd", Amount: big.NewInt(2000)},
	})

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.erc721.On("OwnerOf", mock.Anything, int32(1), testContract, mock.Anything).Return(testMaker, nil)
	s.erc721.On("IsApprovedForAll", mock.Anything, int32(1), testContract, testMaker, mock.Anything).Return(true, nil)
	s.tokensetUC.On("GetOrCreate", mock.Anything, mock.Anything, mock.Anything).Return(&tokenset.TokenSet{}, nil)
	// the order pays 2000 bps elsewhere and still owes the full 9000 bps
	// royalty, pushing the total over the cap
	s.collectionUC.On("GetRoyalties", mock.Anything, mock.Anything, mock.Anything).
		Return([]collection.Royalty{{Recipient: testRoyalty, Bps: 9000}}, nil)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw, FromOnChain: onChain(),
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusFeesTooHigh, results[0].Status)
}

func (s *saveSuite) TestBidTooLowWhenOptedIn() {
	c := ctx.Background()
	raw := s.buildBid(10000, nil)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.paytokenRepo.On("FindOne", mock.Anything, domain.ChainId(1), domain.Address(testWeth)).
		Return(&domain.PayToken{ChainId: 1, Address: testWeth}, nil)
	s.erc20.On("BalanceOf", mock.Anything, int32(1), testWeth, testMaker).Return(big.NewInt(10000), nil)
	s.erc20.On("Allowance", mock.Anything, int32(1), testWeth, testMaker, mock.Anything).Return(big.NewInt(10000), nil)
	s.tokensetUC.On("GetOrCreate", mock.Anything, mock.Anything, mock.Anything).Return(&tokenset.TokenSet{}, nil)
	s.collectionUC.On("GetRoyalties", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	s.priceSvc.On("GetUsdAndNativePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&price.Data{NativeAmount: big.NewInt(10000), Usd: decimal.NewFromInt(25)}, nil)
	s.collectionUC.On("GetFloorAskValue", mock.Anything, mock.Anything).Return("100000", nil)

	results, err := s.im.Save(c, []*order.SaveInput{{
		ChainId:          1,
		Kind:             order.KindSeaportV14,
		RawOrder:         raw,
		FromOnChain:      onChain(),
		ValidateBidValue: true,
	}})
	s.Require().NoError(err)
	s.Equal(order.SaveStatusBidTooLow, results[0].Status)
}

func (s *saveSuite) TestBatchKeepsResultOrderAndIsolation() {
	c := ctx.Background()
	raw := s.buildListing(10000, nil)

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.erc721.On("OwnerOf", mock.Anything, int32(1), testContract, mock.Anything).Return(testMaker, nil)
	s.erc721.On("IsApprovedForAll", mock.Anything, int32(1), testContract, testMaker, mock.Anything).Return(true, nil)
	s.tokensetUC.On("GetOrCreate", mock.Anything, mock.Anything, mock.Anything).Return(&tokenset.TokenSet{}, nil)
	s.collectionUC.On("GetRoyalties", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	s.priceSvc.On("GetUsdAndNativePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&price.Data{NativeAmount: big.NewInt(10000), Usd: decimal.NewFromInt(25)}, nil)
	s.expectInsert()

	results, err := s.im.Save(c, []*order.SaveInput{
		{ChainId: 1, Kind: order.KindSeaportV14, RawOrder: json.RawMessage(`not json`)},
		{ChainId: 1, Kind: order.KindSeaportV14, RawOrder: raw, FromOnChain: onChain()},
		{ChainId: 1, Kind: order.KindLooksRare, RawOrder: raw},
	})
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(order.SaveStatusInvalidFormat, results[0].Status)
	s.Equal(order.SaveStatusSuccess, results[1].Status)
	s.Equal(order.SaveStatusInvalidFormat, results[2].Status)
	s.Len(s.saved, 1)
}
