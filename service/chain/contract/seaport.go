package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/x-xyz/aggregator/base/abi"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/service/chain"
)

type SeaportContract interface {
	GetCounter(ctx bCtx.Ctx, chainId int32, addr string, offerer string) (*big.Int, error)
}

type Seaport struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewSeaport(chainService chain.Client) SeaportContract {
	return &Seaport{
		abi:          baseabi.SeaportV11ABI,
		chainService: chainService,
	}
}

func (e *Seaport) GetCounter(ctx bCtx.Ctx, chainId int32, addr string, offerer string) (*big.Int, error) {
	method := "getCounter"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(offerer))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}
