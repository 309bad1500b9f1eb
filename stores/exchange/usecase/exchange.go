package usecase

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/abi"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/exchange"
	"github.com/x-xyz/aggregator/domain/fillevent"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/exchange/seaport"
	"github.com/x-xyz/aggregator/service/chain"
	"github.com/x-xyz/aggregator/service/chain/contract"
	"github.com/x-xyz/aggregator/service/price"
)

type ExchangeUseCaseCfg struct {
	OrderUseCase order.UseCase
	Seaport      contract.SeaportContract
	Trace        chain.TraceClient
	FillEvents   fillevent.Repo
	Price        price.Service
}

type ExchangeUseCase struct {
	orderUC    order.UseCase
	seaport    contract.SeaportContract
	trace      chain.TraceClient
	fillEvents fillevent.Repo
	price      price.Service
}

func NewExchangeUseCase(cfg *ExchangeUseCaseCfg) exchange.UseCase {
	return &ExchangeUseCase{
		orderUC:    cfg.OrderUseCase,
		seaport:    cfg.Seaport,
		trace:      cfg.Trace,
		fillEvents: cfg.FillEvents,
		price:      cfg.Price,
	}
}

func (u *ExchangeUseCase) OrderCancelled(ctx bCtx.Ctx, chainId domain.ChainId, event *exchange.OrderCancelledEvent, lMeta *domain.LogMeta) error {
	if err := u.orderUC.CancelByHash(ctx, chainId, event.OrderHash, lMeta); err != nil {
		return err
	}
	if u.fillEvents != nil {
		cancel := &fillevent.CancelEvent{
			ChainId:     chainId,
			OrderHash:   event.OrderHash.ToLower(),
			Maker:       event.Offerer.ToLower(),
			TxHash:      lMeta.TxHash,
			BlockNumber: lMeta.BlockNumber,
			LogIndex:    lMeta.LogIndex,
			Timestamp:   lMeta.BlockTime,
		}
		if err := u.fillEvents.InsertCancel(ctx, cancel); err != nil {
			ctx.WithFields(log.Fields{
				"err":  err,
				"hash": event.OrderHash,
			}).Warn("failed to record cancel event")
		}
	}
	return nil
}

func (u *ExchangeUseCase) CounterIncremented(ctx bCtx.Ctx, chainId domain.ChainId, event *exchange.CounterIncrementedEvent, lMeta *domain.LogMeta) error {
	kind, _, err := kindByExchange(chainId, lMeta.ContractAddress)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"contract": lMeta.ContractAddress,
		}).Warn("counter incremented on unknown exchange")
		return nil
	}
	return u.orderUC.CancelByCounter(ctx, chainId, event.Offerer, []order.Kind{kind}, event.NewCounter.String(), lMeta)
}

func (u *ExchangeUseCase) OrderFulfilled(ctx bCtx.Ctx, chainId domain.ChainId, event *exchange.OrderFulfilledEvent, lMeta *domain.LogMeta) error {
	if event.SkipFill {
		// mirror half of a match, the paired fill already settled it
		return nil
	}

	taker := event.Taker
	if taker.IsEmpty() {
		taker = event.Recipient
	}

	amount := "1"
	if len(event.Offer) > 0 && isNftItemType(event.Offer[0].ItemType) {
		amount = event.Offer[0].Amount.String()
	} else {
		for i := range event.Consideration {
			if isNftItemType(event.Consideration[i].ItemType) {
				amount = event.Consideration[i].Amount.String()
				break
			}
		}
	}

	if err := u.orderUC.FillByHash(ctx, chainId, event.OrderHash, amount, taker, lMeta); err != nil {
		return err
	}

	u.recordFill(ctx, chainId, event, taker, lMeta)
	return nil
}

// recordFill appends the fill to the event log. Fills that cannot be
// priced in native terms are dropped, the log only carries priced fills.
func (u *ExchangeUseCase) recordFill(ctx bCtx.Ctx, chainId domain.ChainId, event *exchange.OrderFulfilledEvent, taker domain.Address, lMeta *domain.LogMeta) {
	if u.fillEvents == nil || u.price == nil {
		return
	}

	side, nftToken, nftId, nftAmount, currency, currencyPrice := fillEconomics(event)
	if nftToken == nil {
		ctx.WithFields(log.Fields{
			"hash": event.OrderHash,
		}).Warn("fulfilled order carries no nft item, skipping fill event")
		return
	}

	data, err := u.price.GetUsdAndNativePrice(ctx, chainId, *currency, currencyPrice)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"hash":     event.OrderHash,
			"currency": currency,
		}).Warn("dropping fill event without native price")
		return
	}

	fill := &fillevent.FillEvent{
		ChainId:       chainId,
		OrderHash:     event.OrderHash.ToLower(),
		OrderSide:     side,
		Maker:         event.Offerer.ToLower(),
		Taker:         taker.ToLower(),
		Contract:      nftToken.ToLower(),
		TokenId:       nftId.String(),
		Amount:        nftAmount.String(),
		Currency:      currency.ToLower(),
		CurrencyPrice: currencyPrice.String(),
		Price:         data.NativeAmount.String(),
		PriceInUsd:    data.Usd.InexactFloat64(),
		TxHash:        lMeta.TxHash,
		BlockNumber:   lMeta.BlockNumber,
		LogIndex:      lMeta.LogIndex,
		Timestamp:     lMeta.BlockTime,
	}
	if err := u.fillEvents.InsertFill(ctx, fill); err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"hash": event.OrderHash,
		}).Warn("failed to record fill event")
	}
}

// fillEconomics splits a fulfillment into its nft leg and payment leg.
// Listings spend the nft and receive payment, bids the other way round.
func fillEconomics(event *exchange.OrderFulfilledEvent) (side string, nftToken *domain.Address, nftId, nftAmount *big.Int, currency *domain.Address, currencyPrice *big.Int) {
	if len(event.Offer) > 0 && isNftItemType(event.Offer[0].ItemType) {
		item := event.Offer[0]
		price := new(big.Int)
		var payToken *domain.Address
		for i := range event.Consideration {
			c := event.Consideration[i]
			if isNftItemType(c.ItemType) {
				continue
			}
			if payToken == nil {
				token := c.Token
				payToken = &token
			}
			price.Add(price, c.Amount)
		}
		if payToken == nil {
			return "", nil, nil, nil, nil, nil
		}
		return "sell", &item.Token, item.Identifier, item.Amount, payToken, price
	}

	if len(event.Offer) == 0 {
		return "", nil, nil, nil, nil, nil
	}
	payment := event.Offer[0]
	for i := range event.Consideration {
		c := event.Consideration[i]
		if isNftItemType(c.ItemType) {
			return "buy", &c.Token, c.Identifier, c.Amount, &payment.Token, payment.Amount
		}
	}
	return "", nil, nil, nil, nil, nil
}

// OrderValidated recovers the full order from chain data and runs it
// through the regular save pipeline. v1.4 emits the components in the
// event, v1.1 only emits the hash so the validate calldata has to be dug
// out of the transaction trace.
func (u *ExchangeUseCase) OrderValidated(ctx bCtx.Ctx, chainId domain.ChainId, event *exchange.OrderValidatedEvent, lMeta *domain.LogMeta) error {
	kind, version, err := kindByExchange(chainId, lMeta.ContractAddress)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"contract": lMeta.ContractAddress,
		}).Warn("order validated on unknown exchange")
		return nil
	}

	var candidates []*seaport.OrderComponents
	if len(event.RawParameters) > 0 {
		comps := &seaport.OrderComponents{}
		if err := json.Unmarshal(event.RawParameters, comps); err != nil {
			ctx.WithFields(log.Fields{
				"err":  err,
				"hash": event.OrderHash,
			}).Error("failed to unmarshal validated order parameters")
			return nil
		}
		candidates = append(candidates, comps)
	} else {
		candidates, err = u.ReconstructFromTrace(ctx, chainId, event.Offerer, lMeta)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":    err,
				"hash":   event.OrderHash,
				"txHash": lMeta.TxHash,
			}).Warn("failed to reconstruct validated order from trace")
			return nil
		}
	}

	counter, err := u.seaport.GetCounter(ctx, int32(chainId), lMeta.ContractAddress.ToLowerStr(), event.Offerer.ToLowerStr())
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"offerer": event.Offerer,
		}).Error("failed to seaport.GetCounter")
		return err
	}

	claimed := event.OrderHash.ToLower()
	for _, comps := range candidates {
		comps.Counter = counter.String()
		so := &seaport.Order{ChainId: chainId, Version: version, Params: *comps}
		hash, err := so.HashHex()
		if err != nil || hash.ToLower() != claimed {
			continue
		}
		return u.saveValidated(ctx, chainId, kind, comps, lMeta)
	}

	ctx.WithFields(log.Fields{
		"hash":   claimed,
		"txHash": lMeta.TxHash,
	}).Warn("no reconstructed order matches the validated hash")
	return nil
}

// ReconstructFromTrace replays the transaction call tree looking for
// validate calls into the emitting exchange and returns the decoded
// orders of the offerer.
func (u *ExchangeUseCase) ReconstructFromTrace(ctx bCtx.Ctx, chainId domain.ChainId, offerer domain.Address, lMeta *domain.LogMeta) ([]*seaport.OrderComponents, error) {
	if u.trace == nil {
		return nil, xerrors.New("no trace client configured")
	}
	frame, err := u.trace.TraceTransaction(ctx, int32(chainId), common.HexToHash(string(lMeta.TxHash)))
	if err != nil {
		return nil, err
	}

	selector := abi.SeaportValidateSelector()
	var candidates []*seaport.OrderComponents
	frame.Walk(func(f *chain.CallFrame) bool {
		if !strings.EqualFold(f.To, lMeta.ContractAddress.ToLowerStr()) {
			return true
		}
		if len(f.Input) < 4 || !bytes.Equal(f.Input[:4], selector) {
			return true
		}
		orders, err := abi.DecodeSeaportValidateCalldata(f.Input)
		if err != nil {
			return true
		}
		for i := range orders {
			comps := seaport.FromChainParameters(&orders[i].Parameters)
			if comps.Offerer.Equals(offerer.ToLower()) {
				candidates = append(candidates, comps)
			}
		}
		return true
	})
	if len(candidates) == 0 {
		return nil, xerrors.New("no validate call found in trace")
	}
	return candidates, nil
}

func (u *ExchangeUseCase) saveValidated(ctx bCtx.Ctx, chainId domain.ChainId, kind order.Kind, comps *seaport.OrderComponents, lMeta *domain.LogMeta) error {
	raw, err := json.Marshal(comps)
	if err != nil {
		return err
	}
	results, err := u.orderUC.Save(ctx, []*order.SaveInput{{
		ChainId:  chainId,
		Kind:     kind,
		RawOrder: raw,
		FromOnChain: &order.OnChainContext{
			BlockNumber: lMeta.BlockNumber,
			LogIndex:    lMeta.LogIndex,
		},
	}})
	if err != nil {
		return err
	}
	if len(results) > 0 {
		ctx.WithFields(log.Fields{
			"id":     results[0].Id,
			"status": results[0].Status,
		}).Info("saved validated order")
	}
	return nil
}

func kindByExchange(chainId domain.ChainId, contract domain.Address) (order.Kind, seaport.Version, error) {
	addrs, err := exchange.AddressesByChain(chainId)
	if err != nil {
		return "", "", err
	}
	switch {
	case contract.Equals(addrs.SeaportV11):
		return order.KindSeaport, seaport.VersionV11, nil
	case contract.Equals(addrs.SeaportV14):
		return order.KindSeaportV14, seaport.VersionV14, nil
	}
	return "", "", xerrors.Errorf("unknown exchange %s", contract)
}

func isNftItemType(itemType int) bool {
	return itemType >= int(seaport.ItemTypeErc721)
}
