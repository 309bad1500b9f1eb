package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
)

// BalanceClient reads native balances, the one chain read the generic
// Call interface cannot express.
type BalanceClient interface {
	GetBalance(ctx bCtx.Ctx, chainId int32, account common.Address) (*big.Int, error)
}

type balanceClientImpl struct {
	clients map[int32]*ethclient.Client
}

type BalanceClientCfg struct {
	RpcUrls map[int32]string
}

func NewBalanceClient(ctx bCtx.Ctx, cfg *BalanceClientCfg) (BalanceClient, error) {
	var anyerr error
	clients := make(map[int32]*ethclient.Client)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
			}).Error("failed to ethclient.DialContext")
			continue
		}
		clients[chainId] = client
	}
	return &balanceClientImpl{clients: clients}, anyerr
}

func (im *balanceClientImpl) GetBalance(ctx bCtx.Ctx, chainId int32, account common.Address) (*big.Int, error) {
	client, ok := im.clients[chainId]
	if !ok {
		return nil, xerrors.Errorf("no client for chain %d", chainId)
	}
	return client.BalanceAt(ctx, account, nil)
}
