package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ThrottledClient caps the number of in flight rpc calls against a node.
type ThrottledClient struct {
	*ethclient.Client
	tokens chan struct{}
}

func NewTrottledClient(client *ethclient.Client, n int) *ThrottledClient {
	tokens := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		tokens <- struct{}{}
	}
	return &ThrottledClient{
		Client: client,
		tokens: tokens,
	}
}

func (c *ThrottledClient) BlockNumber(ctx context.Context) (uint64, error) {
	acquired := c.before(ctx)
	defer c.after(acquired)
	return c.Client.BlockNumber(ctx)
}

func (c *ThrottledClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	acquired := c.before(ctx)
	defer c.after(acquired)
	return c.Client.HeaderByNumber(ctx, number)
}

func (c *ThrottledClient) FilterLogs(ctx context.Context, filter ethereum.FilterQuery) ([]types.Log, error) {
	acquired := c.before(ctx)
	defer c.after(acquired)
	return c.Client.FilterLogs(ctx, filter)
}

func (c *ThrottledClient) SubscribeFilterLogs(ctx context.Context, filter ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	acquired := c.before(ctx)
	defer c.after(acquired)
	return c.Client.SubscribeFilterLogs(ctx, filter, ch)
}

func (c *ThrottledClient) CodeAt(ctx context.Context, address common.Address, number *big.Int) ([]byte, error) {
	acquired := c.before(ctx)
	defer c.after(acquired)
	return c.Client.CodeAt(ctx, address, number)
}

func (c *ThrottledClient) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	acquired := c.before(ctx)
	defer c.after(acquired)
	return c.Client.CallContract(ctx, msg, number)
}

func (c *ThrottledClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	acquired := c.before(ctx)
	defer c.after(acquired)
	return c.Client.TransactionByHash(ctx, hash)
}

// before blocks until a token is free. it returns false when the context
// was cancelled while waiting, in which case no token was taken.
func (c *ThrottledClient) before(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.tokens:
		return true
	}
}

func (c *ThrottledClient) after(acquired bool) {
	if acquired {
		c.tokens <- struct{}{}
	}
}
