package exchange

import (
	"math/big"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

// SpentItem mirrors the seaport fulfillment event encoding.
type SpentItem struct {
	ItemType   int
	Token      domain.Address
	Identifier *big.Int
	Amount     *big.Int
}

type ReceivedItem struct {
	ItemType   int
	Token      domain.Address
	Identifier *big.Int
	Amount     *big.Int
	Recipient  domain.Address
}

type OrderCancelledEvent struct {
	OrderHash domain.OrderHash
	Offerer   domain.Address
	Zone      domain.Address
}

type CounterIncrementedEvent struct {
	Offerer    domain.Address
	NewCounter *big.Int
}

type OrderFulfilledEvent struct {
	OrderHash     domain.OrderHash
	Offerer       domain.Address
	Zone          domain.Address
	Recipient     domain.Address
	Offer         []SpentItem
	Consideration []ReceivedItem

	// resolved by the handler when fills come from matchOrders
	Taker domain.Address
	// skip persisting the fill, it is the mirror half of a match
	SkipFill bool
}

type OrderValidatedEvent struct {
	OrderHash domain.OrderHash
	Offerer   domain.Address
	Zone      domain.Address

	// v1.4 emits the full components, v1.1 needs a calldata lookup
	RawParameters []byte
}

type UseCase interface {
	OrderCancelled(ctx.Ctx, domain.ChainId, *OrderCancelledEvent, *domain.LogMeta) error
	CounterIncremented(ctx.Ctx, domain.ChainId, *CounterIncrementedEvent, *domain.LogMeta) error
	OrderFulfilled(ctx.Ctx, domain.ChainId, *OrderFulfilledEvent, *domain.LogMeta) error
	OrderValidated(ctx.Ctx, domain.ChainId, *OrderValidatedEvent, *domain.LogMeta) error
}
