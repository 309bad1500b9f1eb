package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
)

// CallFrame is one node of a callTracer result.
type CallFrame struct {
	Type  string        `json:"type"`
	From  string        `json:"from"`
	To    string        `json:"to"`
	Input hexutil.Bytes `json:"input"`
	Calls []CallFrame   `json:"calls,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Walk visits the frame and every nested call until fn returns false.
func (f *CallFrame) Walk(fn func(*CallFrame) bool) bool {
	if !fn(f) {
		return false
	}
	for i := range f.Calls {
		if !f.Calls[i].Walk(fn) {
			return false
		}
	}
	return true
}

type TransactionData struct {
	From common.Address
	To   *common.Address
	Data []byte
}

type TraceClient interface {
	GetTransactionData(ctx bCtx.Ctx, chainId int32, txHash common.Hash) (*TransactionData, error)
	TraceTransaction(ctx bCtx.Ctx, chainId int32, txHash common.Hash) (*CallFrame, error)
}

type traceClientImpl struct {
	clients map[int32]*rpc.Client
}

type TraceClientCfg struct {
	RpcUrls map[int32]string
}

func NewTraceClient(ctx bCtx.Ctx, cfg *TraceClientCfg) (TraceClient, error) {
	var anyerr error
	clients := make(map[int32]*rpc.Client)
	for chainId, url := range cfg.RpcUrls {
		client, err := rpc.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			continue
		}
		clients[chainId] = client
	}
	return &traceClientImpl{clients: clients}, anyerr
}

func (c *traceClientImpl) GetTransactionData(ctx bCtx.Ctx, chainId int32, txHash common.Hash) (*TransactionData, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	var raw struct {
		From  common.Address  `json:"from"`
		To    *common.Address `json:"to"`
		Input hexutil.Bytes   `json:"input"`
	}
	if err := client.CallContext(ctx, &raw, "eth_getTransactionByHash", txHash); err != nil {
		ctx.WithField("err", err).Error("eth_getTransactionByHash failed")
		return nil, err
	}
	return &TransactionData{From: raw.From, To: raw.To, Data: raw.Input}, nil
}

func (c *traceClientImpl) TraceTransaction(ctx bCtx.Ctx, chainId int32, txHash common.Hash) (*CallFrame, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	var frame CallFrame
	err := client.CallContext(ctx, &frame, "debug_traceTransaction", txHash, map[string]interface{}{
		"tracer": "callTracer",
	})
	if err != nil {
		ctx.WithField("err", err).Error("debug_traceTransaction failed")
		return nil, err
	}
	return &frame, nil
}
