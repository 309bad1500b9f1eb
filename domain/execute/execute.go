package execute

import (
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
)

type StepId string

const (
	StepIdAuth             StepId = "auth"
	StepIdCurrencyWrapping StepId = "currency-wrapping"
	StepIdCurrencyApproval StepId = "currency-approval"
	StepIdOrderSignature   StepId = "order-signature"
)

type StepKind string

const (
	StepKindSignature   StepKind = "signature"
	StepKindTransaction StepKind = "transaction"
)

type ItemStatus string

const (
	ItemStatusComplete   ItemStatus = "complete"
	ItemStatusIncomplete ItemStatus = "incomplete"
)

// TransactionData is an item payload the caller submits as a raw tx.
type TransactionData struct {
	From  domain.Address `json:"from"`
	To    domain.Address `json:"to"`
	Data  string         `json:"data"`
	Value string         `json:"value,omitempty"`
}

type SignData struct {
	SignatureKind string                    `json:"signatureKind"`
	Domain        apitypes.TypedDataDomain  `json:"domain"`
	Types         apitypes.Types            `json:"types"`
	PrimaryType   string                    `json:"primaryType"`
	Value         apitypes.TypedDataMessage `json:"value"`
}

type Post struct {
	Endpoint string      `json:"endpoint"`
	Method   string      `json:"method"`
	Body     interface{} `json:"body"`
}

// SignaturePayload pairs the typed data a wallet signs with the follow up
// submission target.
type SignaturePayload struct {
	Sign SignData `json:"sign"`
	Post Post     `json:"post"`
}

// StepItem data is opaque to the caller; byte identical items are merged
// and carry every request index they apply to.
type StepItem struct {
	Status       ItemStatus  `json:"status"`
	Data         interface{} `json:"data"`
	OrderIndexes []int       `json:"orderIndexes"`
}

type Step struct {
	Id          StepId     `json:"id"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	Kind        StepKind   `json:"kind"`
	Items       []StepItem `json:"items"`
}

type ItemError struct {
	Message    string `json:"message"`
	OrderIndex int    `json:"orderIndex"`
}

// BidParams describes one bid to build. Exactly one of Token, Collection
// or TokenSetId selects the scope.
type BidParams struct {
	Token          string `json:"token,omitempty"`
	Collection     string `json:"collection,omitempty"`
	TokenSetId     string `json:"tokenSetId,omitempty"`
	AttributeKey   string `json:"attributeKey,omitempty"`
	AttributeValue string `json:"attributeValue,omitempty"`

	Quantity int64          `json:"quantity,omitempty"`
	WeiPrice string         `json:"weiPrice"`
	Currency domain.Address `json:"currency,omitempty"`

	OrderKind order.Kind `json:"orderKind"`
	Orderbook string     `json:"orderbook"`

	// "recipient:bps" entries
	Fees               []string `json:"fees,omitempty"`
	AutomatedRoyalties bool     `json:"automatedRoyalties,omitempty"`
	RoyaltyBps         *int     `json:"royaltyBps,omitempty"`

	ExcludeFlaggedTokens bool `json:"excludeFlaggedTokens,omitempty"`

	ListingTime    int64  `json:"listingTime,omitempty"`
	ExpirationTime int64  `json:"expirationTime,omitempty"`
	Salt           string `json:"salt,omitempty"`
	Nonce          string `json:"nonce,omitempty"`
}

type BidRequest struct {
	ChainId domain.ChainId `json:"chainId"`
	Maker   domain.Address `json:"maker"`
	Source  string         `json:"source,omitempty"`
	Params  []BidParams    `json:"params"`
}

type BidResponse struct {
	Steps  []Step      `json:"steps"`
	Errors []ItemError `json:"errors,omitempty"`
}

// BuyRequest fills listings for a taker. Orders are referenced by hash
// and must be saved already.
type BuyRequest struct {
	ChainId  domain.ChainId     `json:"chainId"`
	Taker    domain.Address     `json:"taker"`
	Currency domain.Address     `json:"currency,omitempty"`
	Partial  bool               `json:"partial,omitempty"`
	OrderIds []domain.OrderHash `json:"orderIds"`
}

type SellItem struct {
	OrderId domain.OrderHash `json:"orderId"`
	// contract:tokenId the taker sells into the bid
	Token    string `json:"token"`
	Quantity int64  `json:"quantity,omitempty"`
}

// SellRequest sells the taker's tokens into bids.
type SellRequest struct {
	ChainId domain.ChainId `json:"chainId"`
	Taker   domain.Address `json:"taker"`
	Partial bool           `json:"partial,omitempty"`
	Items   []SellItem     `json:"items"`
}

type FillTx struct {
	From     domain.Address     `json:"from"`
	To       domain.Address     `json:"to"`
	Data     string             `json:"data"`
	Value    string             `json:"value,omitempty"`
	OrderIds []domain.OrderHash `json:"orderIds,omitempty"`
}

type FillResponse struct {
	Txs     []FillTx                  `json:"txs"`
	Success map[domain.OrderHash]bool `json:"success"`
	Errors  []ItemError               `json:"errors,omitempty"`
}

type UseCase interface {
	ExecuteBid(ctx ctx.Ctx, req *BidRequest) (*BidResponse, error)
	ExecuteBuy(ctx ctx.Ctx, req *BuyRequest) (*FillResponse, error)
	ExecuteSell(ctx ctx.Ctx, req *SellRequest) (*FillResponse, error)
}
