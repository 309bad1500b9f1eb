package order

import (
	"encoding/json"

	"github.com/x-xyz/aggregator/domain"
)

// SubmitOrder is the wire form of a signed order, kind plus the protocol
// native payload.
type SubmitOrder struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type SubmitAttribute struct {
	Collection string `json:"collection"`
	Key        string `json:"key"`
	Value      string `json:"value"`
}

// BulkProof locates one order inside a bulk signed merkle tree.
type BulkProof struct {
	OrderIndex  int      `json:"orderIndex"`
	MerkleProof []string `json:"merkleProof"`
}

type BulkData struct {
	Kind Kind      `json:"kind"`
	Data BulkProof `json:"data"`
}

type SubmitItem struct {
	Order      SubmitOrder      `json:"order"`
	Orderbook  string           `json:"orderbook,omitempty"`
	TokenSetId string           `json:"tokenSetId,omitempty"`
	Collection string           `json:"collection,omitempty"`
	Attribute  *SubmitAttribute `json:"attribute,omitempty"`
	BulkData   *BulkData        `json:"bulkData,omitempty"`
}

type SubmitRequest struct {
	ChainId domain.ChainId `json:"chainId"`
	Items   []SubmitItem   `json:"items"`
	Source  string         `json:"source,omitempty"`
}

type SubmitResult struct {
	Message             string           `json:"message"`
	OrderId             domain.OrderHash `json:"orderId,omitempty"`
	OrderIndex          int              `json:"orderIndex"`
	CrossPostingOrderId string           `json:"crossPostingOrderId,omitempty"`
}

const (
	OrderbookReservoir = "reservoir"
	OrderbookOpensea   = "opensea"
	OrderbookLooksRare = "looks-rare"
	OrderbookX2Y2      = "x2y2"
)
