package router

import (
	"encoding/json"
	"math/big"

	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
)

type Fee struct {
	Recipient domain.Address
	Amount    *big.Int
}

// ListingDetails is one listing the taker wants to buy. RawOrder carries
// the protocol specific payload, seaport kinds carry the order components
// json.
type ListingDetails struct {
	Kind      order.Kind
	OrderId   domain.OrderHash
	Contract  domain.Address
	TokenId   string
	TokenKind domain.TokenType
	Currency  domain.Address
	// gross price in currency wei
	Price *big.Int
	// units to fill, nil means the whole order
	Amount *big.Int
	// per order fees, passed through unmodified
	Fees     []Fee
	RawOrder json.RawMessage
	// order known only by hash, hydrated through the relayer before filling
	IsPartial bool
	Source    string
}

// BidDetails is one bid the taker wants to sell into.
type BidDetails struct {
	Kind      order.Kind
	OrderId   domain.OrderHash
	Contract  domain.Address
	TokenId   string
	TokenKind domain.TokenType
	Price     *big.Int
	// units to sell, nil means one
	Amount    *big.Int
	Fees      []Fee
	RawOrder  json.RawMessage
	IsPartial bool
	Source    string
}

// RecoverableErrorFn receives failures that removed a single order from
// the batch without aborting it.
type RecoverableErrorFn func(orderId domain.OrderHash, detail string, taker domain.Address, url string)

type FillListingsOptions struct {
	// tolerate per order failures, only honoured for batches of more
	// than one order
	Partial bool
	// route through the router modules even when a direct exchange fill
	// would do
	ForceRouter bool
	// batch wide fees, split pro rata across the routed groups
	GlobalFees []Fee
	// auth token forwarded to the relayer for blur fills
	RelayerAuthToken   string
	OnRecoverableError RecoverableErrorFn
}

type FillBidsOptions struct {
	Partial            bool
	GlobalFees         []Fee
	OnRecoverableError RecoverableErrorFn
}

type TxData struct {
	From  domain.Address `json:"from"`
	To    domain.Address `json:"to"`
	Data  string         `json:"data"`
	Value *big.Int       `json:"value,omitempty"`
}

// FillTx is one transaction to submit, annotated with the orders it
// attempts to fill.
type FillTx struct {
	TxData   TxData
	OrderIds []domain.OrderHash
}

type FillListingsResult struct {
	Txs     []*FillTx
	Success map[domain.OrderHash]bool
}

type Approval struct {
	Owner    domain.Address
	Operator domain.Address
	Contract domain.Address
	TxData   TxData
}

type FillBidsResult struct {
	TxData    TxData
	OrderIds  []domain.OrderHash
	Success   map[domain.OrderHash]bool
	Approvals []*Approval
}
