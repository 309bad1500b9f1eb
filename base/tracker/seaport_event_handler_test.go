package tracker

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	xabi "github.com/x-xyz/aggregator/base/abi"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/exchange"
	mExchange "github.com/x-xyz/aggregator/domain/exchange/mocks"
)

func nftSpent(token string, id, amount int64) exchange.SpentItem {
	return exchange.SpentItem{
		ItemType:   3,
		Token:      domain.Address(token),
		Identifier: big.NewInt(id),
		Amount:     big.NewInt(amount),
	}
}

func nftReceived(token string, id, amount int64) exchange.ReceivedItem {
	return exchange.ReceivedItem{
		ItemType:   3,
		Token:      domain.Address(token),
		Identifier: big.NewInt(id),
		Amount:     big.NewInt(amount),
	}
}

func Test_resolveMatchedFills(t *testing.T) {
	req := require.New(t)
	tx := common.HexToHash("0xf1")
	listing := &exchange.OrderFulfilledEvent{
		OrderHash: "0xaa",
		Offerer:   "0x00000000000000000000000000000000000000aa",
		Offer:     []exchange.SpentItem{nftSpent("0xc0ffee", 1, 2)},
	}
	bid := &exchange.OrderFulfilledEvent{
		OrderHash:     "0xbb",
		Offerer:       "0x00000000000000000000000000000000000000bb",
		Consideration: []exchange.ReceivedItem{nftReceived("0xc0ffee", 1, 2)},
	}
	fills := map[matchFillKey]*exchange.OrderFulfilledEvent{
		{txHash: tx, logIndex: 7}: listing,
		{txHash: tx, logIndex: 8}: bid,
	}

	resolveMatchedFills(fills)

	req.Equal(bid.Offerer, listing.Taker)
	req.Equal(listing.Offerer, bid.Taker)
	req.False(listing.SkipFill)
	req.True(bid.SkipFill)
}

func Test_resolveMatchedFills_nonAdjacentStayUnresolved(t *testing.T) {
	req := require.New(t)
	tx := common.HexToHash("0xf1")
	listing := &exchange.OrderFulfilledEvent{
		OrderHash: "0xaa",
		Offerer:   "0x00000000000000000000000000000000000000aa",
		Offer:     []exchange.SpentItem{nftSpent("0xc0ffee", 1, 1)},
	}
	bid := &exchange.OrderFulfilledEvent{
		OrderHash:     "0xbb",
		Offerer:       "0x00000000000000000000000000000000000000bb",
		Consideration: []exchange.ReceivedItem{nftReceived("0xc0ffee", 1, 1)},
	}
	fills := map[matchFillKey]*exchange.OrderFulfilledEvent{
		{txHash: tx, logIndex: 7}: listing,
		{txHash: tx, logIndex: 9}: bid,
	}

	resolveMatchedFills(fills)

	req.True(listing.Taker.IsEmpty())
	req.True(bid.Taker.IsEmpty())
}

func fulfilledLog(t *testing.T, txHash common.Hash, idx uint, offerer, zone common.Address, recipient common.Address, orderHash common.Hash, offer []xabi.SeaportSpentItem, consideration []xabi.SeaportReceivedItem, msgSender domain.Address) logWithBlockTime {
	ev := xabi.SeaportV11ABI.Events["OrderFulfilled"]
	var hash [32]byte
	copy(hash[:], orderHash.Bytes())
	data, err := ev.Inputs.NonIndexed().Pack(hash, recipient, offer, consideration)
	require.NoError(t, err)
	return logWithBlockTime{
		Log: types.Log{
			Address: common.HexToAddress("0x00000000000001ad428e4906ae43d8f9852d0dd6"),
			Topics: []common.Hash{
				seaportOrderFulfilledSig,
				common.BytesToHash(offerer.Bytes()),
				common.BytesToHash(zone.Bytes()),
			},
			Data:   data,
			TxHash: txHash,
			Index:  idx,
		},
		blockTime: time.Now(),
		msgSender: msgSender,
	}
}

func TestSeaportEventHandler_matchOrdersPair(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	uc := &mExchange.UseCase{}
	handler := NewSeaportEventHandler(&SeaportEventHandlerCfg{ChainId: 1, ExchangeUseCase: uc})

	tx := common.HexToHash("0xf1")
	sender := domain.Address("0x00000000000000000000000000000000000000ee")
	listingOfferer := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	bidOfferer := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	nft := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	weth := common.HexToAddress("0x00000000000000000000000000000000000000dd")

	nftItem := xabi.SeaportSpentItem{ItemType: 2, Token: nft, Identifier: big.NewInt(5), Amount: big.NewInt(1)}
	logs := []logWithBlockTime{
		fulfilledLog(t, tx, 7, listingOfferer, common.Address{}, common.Address{},
			common.HexToHash("0xaa"),
			[]xabi.SeaportSpentItem{nftItem},
			[]xabi.SeaportReceivedItem{{ItemType: 1, Token: weth, Identifier: big.NewInt(0), Amount: big.NewInt(10000), Recipient: listingOfferer}},
			sender),
		fulfilledLog(t, tx, 8, bidOfferer, common.Address{}, common.Address{},
			common.HexToHash("0xbb"),
			[]xabi.SeaportSpentItem{{ItemType: 1, Token: weth, Identifier: big.NewInt(0), Amount: big.NewInt(10000)}},
			[]xabi.SeaportReceivedItem{{ItemType: 2, Token: nft, Identifier: big.NewInt(5), Amount: big.NewInt(1), Recipient: bidOfferer}},
			sender),
	}

	uc.On("OrderFulfilled", mock.Anything, domain.ChainId(1), mock.Anything, mock.Anything).Return(nil)

	req.NoError(handler.(*SeaportEventHandler).ProcessEvents(ctx, logs))

	uc.AssertNumberOfCalls(t, "OrderFulfilled", 2)
	first := uc.Calls[0].Arguments.Get(2).(*exchange.OrderFulfilledEvent)
	second := uc.Calls[1].Arguments.Get(2).(*exchange.OrderFulfilledEvent)
	req.Equal(toDomainAddress(bidOfferer), first.Taker)
	req.False(first.SkipFill)
	req.Equal(toDomainAddress(listingOfferer), second.Taker)
	req.True(second.SkipFill)
}

func TestSeaportEventHandler_dropsSelfMatchedFill(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	uc := &mExchange.UseCase{}
	handler := NewSeaportEventHandler(&SeaportEventHandlerCfg{ChainId: 1, ExchangeUseCase: uc})

	offerer := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	logs := []logWithBlockTime{
		fulfilledLog(t, common.HexToHash("0xf1"), 7, offerer, common.Address{}, common.Address{},
			common.HexToHash("0xaa"),
			[]xabi.SeaportSpentItem{{ItemType: 2, Token: offerer, Identifier: big.NewInt(5), Amount: big.NewInt(1)}},
			[]xabi.SeaportReceivedItem{},
			toDomainAddress(offerer)),
	}

	req.NoError(handler.(*SeaportEventHandler).ProcessEvents(ctx, logs))
	uc.AssertNotCalled(t, "OrderFulfilled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
