package usecase

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	mCollection "github.com/x-xyz/aggregator/domain/collection/mocks"
	"github.com/x-xyz/aggregator/domain/execute"
	"github.com/x-xyz/aggregator/domain/order"
	mOrder "github.com/x-xyz/aggregator/domain/order/mocks"
	"github.com/x-xyz/aggregator/exchange/seaport"
	"github.com/x-xyz/aggregator/router"
	mFetcher "github.com/x-xyz/aggregator/service/orderfetcher/mocks"
)

const (
	fillTaker   = "0x00000000000000000000000000000000000000dd"
	fillSeaport = "0x00000000000001ad428e4906ae43d8f9852d0dd6"
	fillProxy   = "0x79ce8e4c25cf6b2c36ad05b5e1e6454010432b2d"
)

type fillSuite struct {
	suite.Suite

	orderUC      *mOrder.UseCase
	collectionUC *mCollection.UseCase
	fetcher      *mFetcher.Client

	im execute.UseCase
}

func TestFillSuite(t *testing.T) {
	suite.Run(t, new(fillSuite))
}

func (s *fillSuite) SetupTest() {
	s.orderUC = &mOrder.UseCase{}
	s.collectionUC = &mCollection.UseCase{}
	s.fetcher = &mFetcher.Client{}

	r, err := router.NewRouter(&router.RouterCfg{ChainId: 1, OrderFetcher: s.fetcher})
	s.Require().NoError(err)

	s.im = New(&ExecuteUseCaseCfg{
		CollectionUC: s.collectionUC,
		OrderUC:      s.orderUC,
		Routers:      map[domain.ChainId]*router.Router{1: r},
	})
}

func (s *fillSuite) expectCollection() {
	s.collectionUC.On("FindOne", mock.Anything, mock.Anything).Return(&collection.Collection{
		ChainId:   1,
		Contract:  bidNft,
		TokenType: domain.TokenType721,
	}, nil)
}

func (s *fillSuite) listingOrder(hash domain.OrderHash, tokenId string, price int64) *order.Order {
	so, err := seaport.BuildSingleTokenSell(&seaport.BuildParams{
		ChainId:      1,
		Version:      seaport.VersionV14,
		Offerer:      bidMaker,
		Contract:     bidNft,
		TokenId:      tokenId,
		TokenKind:    domain.TokenType721,
		PaymentToken: "",
		Price:        big.NewInt(price),
		StartTime:    time.Now().Add(-time.Hour).Unix(),
		EndTime:      time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)

	return &order.Order{
		ChainId:       1,
		Hash:          hash,
		Kind:          order.KindSeaportV14,
		Side:          order.SideSell,
		Maker:         bidMaker,
		Contract:      bidNft,
		TokenSetId:    "token:" + bidNft + ":" + tokenId,
		Currency:      "",
		CurrencyPrice: big.NewInt(price).String(),
		Fillability:   order.FillabilityFillable,
		RawData:       raw,
	}
}

func (s *fillSuite) bidOrder(hash domain.OrderHash, price int64) *order.Order {
	so, err := seaport.BuildContractWideBuy(&seaport.BuildParams{
		ChainId:      1,
		Version:      seaport.VersionV14,
		Offerer:      bidMaker,
		Contract:     bidNft,
		TokenKind:    domain.TokenType721,
		PaymentToken: bidWeth,
		Price:        big.NewInt(price),
		StartTime:    time.Now().Add(-time.Hour).Unix(),
		EndTime:      time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)
	raw, err := json.Marshal(so.Params)
	s.Require().NoError(err)

	return &order.Order{
		ChainId:       1,
		Hash:          hash,
		Kind:          order.KindSeaportV14,
		Side:          order.SideBuy,
		Maker:         bidMaker,
		Contract:      bidNft,
		TokenSetId:    "contract:" + bidNft,
		Currency:      bidWeth,
		CurrencyPrice: big.NewInt(price).String(),
		Fillability:   order.FillabilityFillable,
		RawData:       raw,
	}
}

func (s *fillSuite) TestExecuteBuyFillsSavedListing() {
	s.expectCollection()
	o := s.listingOrder("0x01", "1", 10000)
	s.orderUC.On("GetOrder", mock.Anything, order.Id{ChainId: 1, Hash: "0x01"}).Return(o, nil)

	c := ctx.Background()
	resp, err := s.im.ExecuteBuy(c, &execute.BuyRequest{
		ChainId:  1,
		Taker:    fillTaker,
		OrderIds: []domain.OrderHash{"0x01"},
	})
	s.Require().NoError(err)
	s.Require().Len(resp.Txs, 1)
	s.Equal(domain.Address(fillSeaport), resp.Txs[0].To)
	s.Equal("10000", resp.Txs[0].Value)
	s.Equal([]domain.OrderHash{"0x01"}, resp.Txs[0].OrderIds)
	s.True(resp.Success["0x01"])
}

func (s *fillSuite) TestExecuteBuyRejectsBidSideOrder() {
	s.expectCollection()
	o := s.bidOrder("0x02", 10000)
	s.orderUC.On("GetOrder", mock.Anything, order.Id{ChainId: 1, Hash: "0x02"}).Return(o, nil)

	c := ctx.Background()
	_, err := s.im.ExecuteBuy(c, &execute.BuyRequest{
		ChainId:  1,
		Taker:    fillTaker,
		OrderIds: []domain.OrderHash{"0x02"},
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "not a listing")
}

func (s *fillSuite) TestExecuteSellRoutesThroughApprovalProxy() {
	s.expectCollection()
	o := s.bidOrder("0x03", 10000)
	s.orderUC.On("GetOrder", mock.Anything, order.Id{ChainId: 1, Hash: "0x03"}).Return(o, nil)

	c := ctx.Background()
	resp, err := s.im.ExecuteSell(c, &execute.SellRequest{
		ChainId: 1,
		Taker:   fillTaker,
		Items:   []execute.SellItem{{OrderId: "0x03", Token: bidNft + ":9"}},
	})
	s.Require().NoError(err)
	s.Require().Len(resp.Txs, 2)

	// approval first, then the proxy transfer that executes the fill
	s.Equal(domain.Address(bidNft), resp.Txs[0].To)
	s.Empty(resp.Txs[0].OrderIds)
	s.Equal(domain.Address(fillProxy), resp.Txs[1].To)
	s.Equal([]domain.OrderHash{"0x03"}, resp.Txs[1].OrderIds)
	s.True(resp.Success["0x03"])
}

func (s *fillSuite) TestExecuteBuyOnUnknownChain() {
	c := ctx.Background()
	_, err := s.im.ExecuteBuy(c, &execute.BuyRequest{
		ChainId:  42,
		Taker:    fillTaker,
		OrderIds: []domain.OrderHash{"0x01"},
	})
	s.Require().ErrorIs(err, ErrUnsupportedChain)
}
