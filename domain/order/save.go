package order

import (
	"encoding/json"
	"time"

	"github.com/x-xyz/aggregator/domain"
)

type SaveStatus string

const (
	SaveStatusSuccess                 SaveStatus = "success"
	SaveStatusInvalidFormat           SaveStatus = "invalid-format"
	SaveStatusAlreadyExists           SaveStatus = "already-exists"
	SaveStatusZeroPrice               SaveStatus = "zero-price"
	SaveStatusInvalidStartTime        SaveStatus = "invalid-start-time"
	SaveStatusDelayed                 SaveStatus = "delayed"
	SaveStatusExpired                 SaveStatus = "expired"
	SaveStatusUnsupportedPaymentToken SaveStatus = "unsupported-payment-token"
	SaveStatusNotPartiallyFillable    SaveStatus = "not-partially-fillable"
	SaveStatusUnsupportedZone         SaveStatus = "unsupported-zone"
	SaveStatusInvalid                 SaveStatus = "invalid"
	SaveStatusInvalidSignature        SaveStatus = "invalid-signature"
	SaveStatusNoBalance               SaveStatus = "no-balance"
	SaveStatusNoApproval              SaveStatus = "no-approval"
	SaveStatusNotFillable             SaveStatus = "not-fillable"
	SaveStatusInvalidTokenSet         SaveStatus = "invalid-token-set"
	SaveStatusFeesTooHigh             SaveStatus = "fees-too-high"
	SaveStatusFailedToConvertPrice    SaveStatus = "failed-to-convert-price"
	SaveStatusBidTooLow               SaveStatus = "bid-too-low"
	SaveStatusUnknownError            SaveStatus = "unknown-error"
)

// SaveMetadata carries ingestion hints alongside the raw order payload.
type SaveMetadata struct {
	Source     string `json:"source,omitempty"`
	SchemaHash string `json:"schemaHash,omitempty"`
	Target     string `json:"target,omitempty"`
}

// OnChainContext marks an order recovered from an on-chain event. Orders
// carrying it skip the signature check since the chain already enforced it.
type OnChainContext struct {
	BlockNumber domain.BlockNumber `json:"blockNumber"`
	LogIndex    uint               `json:"logIndex"`
}

type SaveInput struct {
	ChainId  domain.ChainId  `json:"chainId"`
	Kind     Kind            `json:"kind"`
	RawOrder json.RawMessage `json:"order"`
	Metadata SaveMetadata    `json:"metadata"`

	IsOpenSea   bool            `json:"isOpenSea,omitempty"`
	FromOnChain *OnChainContext `json:"fromOnChain,omitempty"`

	// cap on the royalties built into the order, used when re-deriving value
	RoyaltyBps *int `json:"royaltyBps,omitempty"`

	// reject bids priced far below the collection floor
	ValidateBidValue bool `json:"validateBidValue,omitempty"`
}

type SaveResult struct {
	Id               domain.OrderHash `json:"id"`
	Status           SaveStatus       `json:"status"`
	UnfillableReason string           `json:"unfillableReason,omitempty"`
	// hint for retrying orders rejected as not yet started
	DelayHint time.Duration `json:"delay,omitempty"`
}
