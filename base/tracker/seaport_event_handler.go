package tracker

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/aggregator/base/abi"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/exchange"
	"github.com/x-xyz/aggregator/exchange/seaport"
)

var (
	seaportOrderCancelledSig     = abi.SeaportV11ABI.Events["OrderCancelled"].ID
	seaportCounterIncrementedSig = abi.SeaportV11ABI.Events["CounterIncremented"].ID
	seaportOrderFulfilledSig     = abi.SeaportV11ABI.Events["OrderFulfilled"].ID
	seaportOrderValidatedSig     = abi.SeaportV11ABI.Events["OrderValidated"].ID
	seaportOrderValidatedV14Sig  = abi.SeaportV14ABI.Events["OrderValidated"].ID
)

type SeaportEventHandlerCfg struct {
	ChainId         int64
	ExchangeUseCase exchange.UseCase
}

type SeaportEventHandler struct {
	chainId    int64
	exchangeUC exchange.UseCase
}

func NewSeaportEventHandler(cfg *SeaportEventHandlerCfg) EventHandler {
	return &SeaportEventHandler{
		chainId:    cfg.ChainId,
		exchangeUC: cfg.ExchangeUseCase,
	}
}

func (h *SeaportEventHandler) GetFilterTopics() [][]common.Hash {
	return [][]common.Hash{
		{seaportOrderCancelledSig, seaportCounterIncrementedSig, seaportOrderFulfilledSig, seaportOrderValidatedSig, seaportOrderValidatedV14Sig},
	}
}

func (h *SeaportEventHandler) ProcessEvents(ctx bCtx.Ctx, logs []logWithBlockTime) error {
	fills := h.collectFills(ctx, logs)
	resolveMatchedFills(fills)

	for i := range logs {
		l := &logs[i]
		switch l.Topics[0] {
		case seaportOrderCancelledSig:
			e, err := toOrderCancelledEvent(l)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse OrderCancelled log")
				return err
			}
			if err := h.exchangeUC.OrderCancelled(ctx, domain.ChainId(h.chainId), e, toLogMeta(l)); err != nil {
				ctx.WithField("err", err).Error("exchangeUC.OrderCancelled failed")
				return err
			}
		case seaportCounterIncrementedSig:
			e, err := toCounterIncrementedEvent(l)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse CounterIncremented log")
				return err
			}
			if err := h.exchangeUC.CounterIncremented(ctx, domain.ChainId(h.chainId), e, toLogMeta(l)); err != nil {
				ctx.WithField("err", err).Error("exchangeUC.CounterIncremented failed")
				return err
			}
		case seaportOrderFulfilledSig:
			e, ok := fills[fillKey(l)]
			if !ok {
				continue
			}
			if err := h.exchangeUC.OrderFulfilled(ctx, domain.ChainId(h.chainId), e, toLogMeta(l)); err != nil {
				ctx.WithField("err", err).Error("exchangeUC.OrderFulfilled failed")
				return err
			}
		case seaportOrderValidatedSig, seaportOrderValidatedV14Sig:
			e, err := toOrderValidatedEvent(l)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse OrderValidated log")
				return err
			}
			if err := h.exchangeUC.OrderValidated(ctx, domain.ChainId(h.chainId), e, toLogMeta(l)); err != nil {
				ctx.WithField("err", err).Error("exchangeUC.OrderValidated failed")
				return err
			}
		default:
			ctx.WithField("signature", l.Topics[0]).Warn("unrecognized signature, skipping")
		}
	}
	return nil
}

type matchFillKey struct {
	txHash   common.Hash
	logIndex uint
}

func fillKey(l *logWithBlockTime) matchFillKey {
	return matchFillKey{txHash: l.TxHash, logIndex: l.Index}
}

func (h *SeaportEventHandler) collectFills(ctx bCtx.Ctx, logs []logWithBlockTime) map[matchFillKey]*exchange.OrderFulfilledEvent {
	fills := map[matchFillKey]*exchange.OrderFulfilledEvent{}
	for i := range logs {
		l := &logs[i]
		if l.Topics[0] != seaportOrderFulfilledSig {
			continue
		}
		e, err := toOrderFulfilledEvent(l)
		if err != nil {
			ctx.WithField("err", err).Warn("failed to parse OrderFulfilled log")
			continue
		}
		if e.Recipient.IsEmpty() && e.Offerer.Equals(l.msgSender.ToLower()) {
			// matchOrders fill of the sender's own order, not a sale
			continue
		}
		fills[fillKey(l)] = e
	}
	return fills
}

// resolveMatchedFills recovers the taker for fills emitted by matchOrders.
// Those carry a zero recipient, the counterparty is the offerer of the
// adjacent fulfillment whose first consideration mirrors the first offer.
// The mirror half is marked so it is not double counted.
func resolveMatchedFills(fills map[matchFillKey]*exchange.OrderFulfilledEvent) {
	for key, e := range fills {
		if !e.Recipient.IsEmpty() || !e.Taker.IsEmpty() {
			continue
		}
		for _, delta := range []int{1, -1} {
			partnerKey := matchFillKey{txHash: key.txHash, logIndex: uint(int(key.logIndex) + delta)}
			partner, ok := fills[partnerKey]
			if !ok || !partner.Recipient.IsEmpty() {
				continue
			}
			if !mirrors(e, partner) {
				continue
			}
			e.Taker = partner.Offerer
			partner.Taker = e.Offerer
			if delta == 1 {
				partner.SkipFill = true
			} else {
				e.SkipFill = true
			}
			break
		}
	}
}

func mirrors(a, b *exchange.OrderFulfilledEvent) bool {
	if len(a.Offer) == 0 || len(b.Consideration) == 0 {
		return false
	}
	offer := a.Offer[0]
	consideration := b.Consideration[0]
	return offer.Token.Equals(consideration.Token) &&
		offer.Identifier.Cmp(consideration.Identifier) == 0 &&
		offer.Amount.Cmp(consideration.Amount) == 0
}

func toOrderCancelledEvent(l *logWithBlockTime) (*exchange.OrderCancelledEvent, error) {
	parsed, err := abi.ToSeaportOrderCancelledLog(&l.Log)
	if err != nil {
		return nil, err
	}
	return &exchange.OrderCancelledEvent{
		OrderHash: toOrderHash(common.Hash(parsed.OrderHash)),
		Offerer:   toDomainAddress(parsed.Offerer),
		Zone:      toDomainAddress(parsed.Zone),
	}, nil
}

func toCounterIncrementedEvent(l *logWithBlockTime) (*exchange.CounterIncrementedEvent, error) {
	parsed, err := abi.ToSeaportCounterIncrementedLog(&l.Log)
	if err != nil {
		return nil, err
	}
	return &exchange.CounterIncrementedEvent{
		Offerer:    toDomainAddress(parsed.Offerer),
		NewCounter: parsed.NewCounter,
	}, nil
}

func toOrderFulfilledEvent(l *logWithBlockTime) (*exchange.OrderFulfilledEvent, error) {
	parsed, err := abi.ToSeaportOrderFulfilledLog(&l.Log)
	if err != nil {
		return nil, err
	}
	e := &exchange.OrderFulfilledEvent{
		OrderHash: toOrderHash(common.Hash(parsed.OrderHash)),
		Offerer:   toDomainAddress(parsed.Offerer),
		Zone:      toDomainAddress(parsed.Zone),
		Recipient: toDomainAddress(parsed.Recipient),
	}
	for _, item := range parsed.Offer {
		e.Offer = append(e.Offer, exchange.SpentItem{
			ItemType:   int(item.ItemType),
			Token:      toDomainAddress(item.Token),
			Identifier: item.Identifier,
			Amount:     item.Amount,
		})
	}
	for _, item := range parsed.Consideration {
		e.Consideration = append(e.Consideration, exchange.ReceivedItem{
			ItemType:   int(item.ItemType),
			Token:      toDomainAddress(item.Token),
			Identifier: item.Identifier,
			Amount:     item.Amount,
			Recipient:  toDomainAddress(item.Recipient),
		})
	}
	return e, nil
}

func toOrderValidatedEvent(l *logWithBlockTime) (*exchange.OrderValidatedEvent, error) {
	if l.Topics[0] == seaportOrderValidatedV14Sig {
		parsed, err := abi.ToSeaportOrderValidatedV14Log(&l.Log)
		if err != nil {
			return nil, err
		}
		comps := seaport.FromChainParameters(&parsed.OrderParameters)
		raw, err := json.Marshal(comps)
		if err != nil {
			return nil, err
		}
		return &exchange.OrderValidatedEvent{
			OrderHash:     toOrderHash(common.Hash(parsed.OrderHash)),
			Offerer:       comps.Offerer,
			Zone:          comps.Zone,
			RawParameters: raw,
		}, nil
	}

	parsed, err := abi.ToSeaportOrderValidatedLog(&l.Log)
	if err != nil {
		return nil, err
	}
	return &exchange.OrderValidatedEvent{
		OrderHash: toOrderHash(common.Hash(parsed.OrderHash)),
		Offerer:   toDomainAddress(parsed.Offerer),
		Zone:      toDomainAddress(parsed.Zone),
	}, nil
}
