package orderfetcher

import (
	"encoding/json"
	"errors"

	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
	// the upstream could not serve the order right now, callers may retry
	// or drop the order without treating the whole fill as failed
	ErrRecoverable = errors.New("order temporarily unavailable")
)

type BlurListingRequest struct {
	ChainId   domain.ChainId `json:"chainId"`
	Contract  domain.Address `json:"contract"`
	TokenId   string         `json:"tokenId"`
	Price     string         `json:"price"`
	Taker     domain.Address `json:"taker"`
	AuthToken string         `json:"authToken,omitempty"`
}

type BlurListingFulfillment struct {
	To       domain.Address  `json:"to"`
	Data     string          `json:"data"`
	Value    string          `json:"value"`
	RawOrder json.RawMessage `json:"rawOrder,omitempty"`
}

type PartialOrderRequest struct {
	ChainId   domain.ChainId   `json:"chainId"`
	OrderHash domain.OrderHash `json:"orderHash"`
	Contract  domain.Address   `json:"contract"`
	TokenId   string           `json:"tokenId"`
	Taker     domain.Address   `json:"taker"`
}

// Client talks to the order fetcher relayer, the sidecar that holds
// marketplace api keys and oracle signers.
type Client interface {
	// GenerateBlurListingFulfillment asks the relayer for the calldata
	// filling a blur listing.
	GenerateBlurListingFulfillment(ctx bCtx.Ctx, req *BlurListingRequest) (*BlurListingFulfillment, error)
	// ResolvePartialOrder hydrates a seaport order known only by hash into
	// its full components.
	ResolvePartialOrder(ctx bCtx.Ctx, req *PartialOrderRequest) (json.RawMessage, error)
	// PostReplacement notifies the cancellation zone that a replacement
	// order supersedes the given hashes. Best effort.
	PostReplacement(ctx bCtx.Ctx, chainId domain.ChainId, newOrder json.RawMessage, replacedHashes []domain.OrderHash) error
}
