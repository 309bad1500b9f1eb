package order

import (
	"encoding/json"
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

type CrossPostingStatus string

const (
	CrossPostingStatusPending CrossPostingStatus = "pending"
	CrossPostingStatusPosted  CrossPostingStatus = "posted"
	CrossPostingStatusFailed  CrossPostingStatus = "failed"
)

// CrossPostingOrder queues an order for relay to an external orderbook.
// A background worker owns the pending -> posted/failed transition.
type CrossPostingOrder struct {
	Id        string             `json:"id" bson:"id"`
	ChainId   domain.ChainId     `json:"chainId" bson:"chainId"`
	OrderId   domain.OrderHash   `json:"orderId" bson:"orderId"`
	Kind      Kind               `json:"kind" bson:"kind"`
	Orderbook string             `json:"orderbook" bson:"orderbook"`
	Source    string             `json:"source,omitempty" bson:"source,omitempty"`
	RawOrder  json.RawMessage    `json:"rawOrder" bson:"rawOrder"`
	Status    CrossPostingStatus `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CrossPostRepo interface {
	Insert(ctx ctx.Ctx, o *CrossPostingOrder) error
	UpdateStatus(ctx ctx.Ctx, id string, status CrossPostingStatus) error
}
