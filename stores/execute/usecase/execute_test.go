package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	mCollection "github.com/x-xyz/aggregator/domain/collection/mocks"
	"github.com/x-xyz/aggregator/domain/execute"
	"github.com/x-xyz/aggregator/domain/order"
	mTokenset "github.com/x-xyz/aggregator/domain/tokenset/mocks"
	mContract "github.com/x-xyz/aggregator/service/chain/contract/mocks"
	mChain "github.com/x-xyz/aggregator/service/chain/mocks"
)

const (
	bidMaker = "0x00000000000000000000000000000000000000aa"
	bidNft   = "0x00000000000000000000000000000000000000bb"
	bidWeth  = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
)

var oneEth = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

type executeSuite struct {
	suite.Suite

	collectionUC *mCollection.UseCase
	tokensetUC   *mTokenset.UseCase
	seaport      *mContract.SeaportContract
	erc20        *mContract.Erc20Contract
	balance      *mChain.BalanceClient

	im execute.UseCase
}

func TestExecuteSuite(t *testing.T) {
	suite.Run(t, new(executeSuite))
}

func (s *executeSuite) SetupTest() {
	s.collectionUC = &mCollection.UseCase{}
	s.tokensetUC = &mTokenset.UseCase{}
	s.seaport = &mContract.SeaportContract{}
	s.erc20 = &mContract.Erc20Contract{}
	s.balance = &mChain.BalanceClient{}
	s.im = New(&ExecuteUseCaseCfg{
		CollectionUC: s.collectionUC,
		TokenSetUC:   s.tokensetUC,
		Seaport:      s.seaport,
		Erc20:        s.erc20,
		Balance:      s.balance,
	})
}

func (s *executeSuite) expectCollection() {
	s.collectionUC.On("FindOne", mock.Anything, mock.Anything).Return(&collection.Collection{
		ChainId:   1,
		Contract:  bidNft,
		TokenType: domain.TokenType721,
	}, nil)
}

func (s *executeSuite) expectCounter() {
	s.seaport.On("GetCounter", mock.Anything, int32(1), mock.Anything, bidMaker).
		Return(big.NewInt(0), nil)
}

func (s *executeSuite) request(params ...execute.BidParams) *execute.BidRequest {
	return &execute.BidRequest{
		ChainId: 1,
		Maker:   bidMaker,
		Source:  "aggregator.xyz",
		Params:  params,
	}
}

func (s *executeSuite) singleTokenBid() execute.BidParams {
	return execute.BidParams{
		Token:     bidNft + ":1",
		WeiPrice:  oneEth.String(),
		OrderKind: "seaport-v1.4",
		Orderbook: "reservoir",
	}
}

func (s *executeSuite) findStep(resp *execute.BidResponse, id execute.StepId) *execute.Step {
	for i := range resp.Steps {
		if resp.Steps[i].Id == id {
			return &resp.Steps[i]
		}
	}
	return nil
}

func (s *executeSuite) TestSufficientBalanceYieldsSignatureOnly() {
	s.expectCollection()
	s.expectCounter()
	s.erc20.On("BalanceOf", mock.Anything, int32(1), bidWeth, bidMaker).
		Return(new(big.Int).Mul(oneEth, big.NewInt(2)), nil)
	s.erc20.On("Allowance", mock.Anything, int32(1), bidWeth, bidMaker, mock.Anything).
		Return(maxUint256, nil)

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(s.singleTokenBid()))
	s.Require().NoError(err)
	s.Empty(resp.Errors)

	s.Nil(s.findStep(resp, execute.StepIdCurrencyWrapping))
	s.Nil(s.findStep(resp, execute.StepIdCurrencyApproval))

	sign := s.findStep(resp, execute.StepIdOrderSignature)
	s.Require().NotNil(sign)
	s.Require().Len(sign.Items, 1)
	s.Equal([]int{0}, sign.Items[0].OrderIndexes)

	payload, ok := sign.Items[0].Data.(execute.SignaturePayload)
	s.Require().True(ok)
	s.Equal("/order/v3", payload.Post.Endpoint)
	s.Equal("eip712", payload.Sign.SignatureKind)
	s.Equal("OrderComponents", payload.Sign.PrimaryType)
	s.balance.AssertNotCalled(s.T(), "GetBalance")
}

func (s *executeSuite) TestInsufficientBalanceReportsItemError() {
	s.expectCollection()
	s.expectCounter()
	s.erc20.On("BalanceOf", mock.Anything, int32(1), bidWeth, bidMaker).
		Return(new(big.Int), nil)
	s.balance.On("GetBalance", mock.Anything, int32(1), mock.Anything).
		Return(new(big.Int), nil)

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(s.singleTokenBid()))
	s.Require().ErrorIs(err, ErrNoSignableOrders)
	s.Require().NotNil(resp)
	s.Require().Len(resp.Errors, 1)
	s.Equal("Maker does not have sufficient balance", resp.Errors[0].Message)
	s.Equal(0, resp.Errors[0].OrderIndex)
	s.Nil(s.findStep(resp, execute.StepIdOrderSignature))
	s.erc20.AssertNotCalled(s.T(), "Allowance",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *executeSuite) TestNativeShortfallEmitsWrapTransaction() {
	s.expectCollection()
	s.expectCounter()
	held := new(big.Int).Div(oneEth, big.NewInt(2))
	s.erc20.On("BalanceOf", mock.Anything, int32(1), bidWeth, bidMaker).
		Return(held, nil)
	s.balance.On("GetBalance", mock.Anything, int32(1), mock.Anything).
		Return(new(big.Int).Mul(oneEth, big.NewInt(3)), nil)
	s.erc20.On("Allowance", mock.Anything, int32(1), bidWeth, bidMaker, mock.Anything).
		Return(maxUint256, nil)

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(s.singleTokenBid()))
	s.Require().NoError(err)
	s.Empty(resp.Errors)

	wrap := s.findStep(resp, execute.StepIdCurrencyWrapping)
	s.Require().NotNil(wrap)
	s.Require().Len(wrap.Items, 1)
	tx, ok := wrap.Items[0].Data.(execute.TransactionData)
	s.Require().True(ok)
	s.Equal(domain.Address(bidWeth), tx.To)
	s.Equal(new(big.Int).Sub(oneEth, held).String(), tx.Value)
	s.NotNil(s.findStep(resp, execute.StepIdOrderSignature))
}

func (s *executeSuite) TestMissingApprovalEmitsApproveTransaction() {
	s.expectCollection()
	s.expectCounter()
	s.erc20.On("BalanceOf", mock.Anything, int32(1), bidWeth, bidMaker).
		Return(new(big.Int).Mul(oneEth, big.NewInt(5)), nil)
	s.erc20.On("Allowance", mock.Anything, int32(1), bidWeth, bidMaker, mock.Anything).
		Return(new(big.Int), nil)

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(s.singleTokenBid(), s.singleTokenBid()))
	s.Require().NoError(err)

	approve := s.findStep(resp, execute.StepIdCurrencyApproval)
	s.Require().NotNil(approve)
	// one approval covers every bid funded with the same currency
	s.Require().Len(approve.Items, 1)
	s.Equal([]int{0, 1}, approve.Items[0].OrderIndexes)
	tx, ok := approve.Items[0].Data.(execute.TransactionData)
	s.Require().True(ok)
	s.Equal(domain.Address(bidWeth), tx.To)
	s.Empty(tx.Value)
}

func (s *executeSuite) TestTwoBidsBulkSignThroughOrderV4() {
	s.expectCollection()
	s.expectCounter()
	s.erc20.On("BalanceOf", mock.Anything, int32(1), bidWeth, bidMaker).
		Return(new(big.Int).Mul(oneEth, big.NewInt(5)), nil)
	s.erc20.On("Allowance", mock.Anything, int32(1), bidWeth, bidMaker, mock.Anything).
		Return(maxUint256, nil)

	second := s.singleTokenBid()
	second.Token = bidNft + ":2"

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(s.singleTokenBid(), second))
	s.Require().NoError(err)
	s.Empty(resp.Errors)

	sign := s.findStep(resp, execute.StepIdOrderSignature)
	s.Require().NotNil(sign)
	s.Require().Len(sign.Items, 1)
	s.Equal([]int{0, 1}, sign.Items[0].OrderIndexes)

	payload, ok := sign.Items[0].Data.(execute.SignaturePayload)
	s.Require().True(ok)
	s.Equal("/order/v4", payload.Post.Endpoint)
	s.Equal("BulkOrder", payload.Sign.PrimaryType)

	body, ok := payload.Post.Body.(order.SubmitRequest)
	s.Require().True(ok)
	s.Require().Len(body.Items, 2)
	for i, item := range body.Items {
		s.Require().NotNil(item.BulkData)
		s.Equal(i, item.BulkData.Data.OrderIndex)
		s.NotEmpty(item.BulkData.Data.MerkleProof)
	}
}

func (s *executeSuite) TestBatchIndependenceOnMalformedItem() {
	s.expectCollection()
	s.expectCounter()
	s.erc20.On("BalanceOf", mock.Anything, int32(1), bidWeth, bidMaker).
		Return(new(big.Int).Mul(oneEth, big.NewInt(5)), nil)
	s.erc20.On("Allowance", mock.Anything, int32(1), bidWeth, bidMaker, mock.Anything).
		Return(maxUint256, nil)

	bad := s.singleTokenBid()
	bad.WeiPrice = "not-a-number"

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(bad, s.singleTokenBid()))
	s.Require().NoError(err)
	s.Require().Len(resp.Errors, 1)
	s.Equal(0, resp.Errors[0].OrderIndex)

	sign := s.findStep(resp, execute.StepIdOrderSignature)
	s.Require().NotNil(sign)
	s.Require().Len(sign.Items, 1)
	s.Equal([]int{1}, sign.Items[0].OrderIndexes)
	payload := sign.Items[0].Data.(execute.SignaturePayload)
	s.Equal("/order/v3", payload.Post.Endpoint)
}

func (s *executeSuite) TestUnsupportedKindRejected() {
	bid := s.singleTokenBid()
	bid.OrderKind = "looks-rare"

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(bid))
	s.Require().ErrorIs(err, ErrNoSignableOrders)
	s.Require().Len(resp.Errors, 1)
	s.Equal("unsupported order kind", resp.Errors[0].Message)
}

func (s *executeSuite) TestUnknownTokenSetRejected() {
	s.tokensetUC.On("Exists", mock.Anything, domain.ChainId(1), "list:0xdead:0x1").
		Return(false, nil)

	bid := execute.BidParams{
		TokenSetId: "list:0xdead:0x1",
		WeiPrice:   oneEth.String(),
		OrderKind:  "seaport-v1.4",
	}

	c := ctx.Background()
	resp, err := s.im.ExecuteBid(c, s.request(bid))
	s.Require().ErrorIs(err, ErrNoSignableOrders)
	s.Require().Len(resp.Errors, 1)
	s.Equal("unknown token set", resp.Errors[0].Message)
}
