package usecase

import (
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/goroutine"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	"github.com/x-xyz/aggregator/domain/exchange"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/domain/tokenset"
	"github.com/x-xyz/aggregator/exchange/seaport"
)

const (
	// orders starting further out than this are rejected instead of delayed
	maxStartTimeAhead = 7 * 24 * time.Hour
	startDelayBuffer  = 5 * time.Second

	maxTotalFeeBps = 10000
	// bids below this fraction of the collection floor are rejected when
	// the caller opts into the floor check
	floorAskThresholdBps = 8000
)

type saveOutcome struct {
	order  *order.Order
	result *order.SaveResult
}

func failed(hash domain.OrderHash, status order.SaveStatus) *saveOutcome {
	return &saveOutcome{result: &order.SaveResult{Id: hash, Status: status}}
}

func (im *impl) Save(c ctx.Ctx, inputs []*order.SaveInput) ([]*order.SaveResult, error) {
	outcomes := make([]*saveOutcome, len(inputs))

	b := goroutines.NewBatch(savePoolSize, goroutines.WithBatchSize(len(inputs)))
	defer b.Close()
	for i := 0; i < len(inputs); i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			outcomes[idx] = im.processInput(c, inputs[idx])
			return nil, nil
		})
	}
	b.QueueComplete()
	for range inputs {
		<-b.Results()
	}

	toInsert := []*order.Order{}
	for _, oc := range outcomes {
		if oc.order != nil {
			toInsert = append(toInsert, oc.order)
		}
	}

	insertedIds := map[order.Id]struct{}{}
	if len(toInsert) > 0 {
		inserted, err := im.orderRepo.InsertIgnore(c, toInsert)
		if err != nil {
			c.WithFields(log.Fields{
				"err": err,
			}).Error("failed to orderRepo.InsertIgnore")
			return nil, err
		}
		for _, id := range inserted {
			insertedIds[id] = struct{}{}
		}
	}

	results := make([]*order.SaveResult, len(inputs))
	for i, oc := range outcomes {
		if oc.order != nil {
			if _, ok := insertedIds[oc.order.ToId()]; !ok {
				oc.result.Status = order.SaveStatusAlreadyExists
			} else if im.newOrderHook != nil && oc.order.IsFillable() {
				o := oc.order
				goroutine.RecoverableGo(func() {
					im.newOrderHook(c, o)
				})
			}
		}
		results[i] = oc.result
	}
	return results, nil
}

func (im *impl) processInput(c ctx.Ctx, input *order.SaveInput) (oc *saveOutcome) {
	defer func() {
		if p := recover(); p != nil {
			c.WithFields(log.Fields{
				"err":  p,
				"kind": input.Kind,
			}).Error("panic while saving order")
			oc = failed("", order.SaveStatusUnknownError)
		}
	}()

	switch input.Kind {
	case order.KindSeaport, order.KindSeaportV14:
		return im.handleSeaport(c, input)
	}
	return failed("", order.SaveStatusInvalidFormat)
}

func (im *impl) handleSeaport(c ctx.Ctx, input *order.SaveInput) *saveOutcome {
	version := seaport.VersionV11
	if input.Kind == order.KindSeaportV14 {
		version = seaport.VersionV14
	}

	so := &seaport.Order{ChainId: input.ChainId, Version: version}
	if err := json.Unmarshal(input.RawOrder, &so.Params); err != nil {
		return failed("", order.SaveStatusInvalidFormat)
	}

	hash, err := so.HashHex()
	if err != nil {
		return failed("", order.SaveStatusInvalidFormat)
	}
	hash = hash.ToLower()

	id := order.Id{ChainId: input.ChainId, Hash: hash}
	existing, err := im.orderRepo.FindOne(c, id)
	if err != nil && err != domain.ErrNotFound {
		c.WithFields(log.Fields{
			"err":  err,
			"hash": hash,
		}).Error("failed to orderRepo.FindOne")
		return failed(hash, order.SaveStatusUnknownError)
	}
	if existing != nil {
		// on chain recoveries carry no payload, backfill it when the raw
		// order shows up through api ingestion
		if len(existing.RawData) == 0 && len(input.RawOrder) > 0 {
			now := time.Now()
			patch := order.Patchable{RawData: input.RawOrder, UpdatedAt: &now}
			if err := im.orderRepo.Update(c, id, patch); err != nil {
				c.WithFields(log.Fields{
					"err":  err,
					"hash": hash,
				}).Error("failed to backfill raw order")
			}
		}
		return failed(hash, order.SaveStatusAlreadyExists)
	}

	info, err := so.GetInfo()
	if err != nil {
		return failed(hash, order.SaveStatusInvalidFormat)
	}
	if info.Price.Sign() == 0 {
		return failed(hash, order.SaveStatusZeroPrice)
	}

	now := time.Now()
	validFrom := time.Unix(so.Params.StartTime, 0)
	validUntil := time.Unix(so.Params.EndTime, 0)
	if startTooFarOut(now, validFrom) {
		return failed(hash, order.SaveStatusInvalidStartTime)
	}
	if validFrom.After(now) {
		return &saveOutcome{result: &order.SaveResult{
			Id:        hash,
			Status:    order.SaveStatusDelayed,
			DelayHint: validFrom.Sub(now) + startDelayBuffer,
		}}
	}
	if !validUntil.After(now) {
		return failed(hash, order.SaveStatusExpired)
	}

	// listings settle in whatever the maker asked for, only bid currencies
	// are restricted to the allow list
	currency := info.PaymentToken.ToLower()
	if currency.IsEmpty() {
		currency = domain.EmptyAddress
	}
	if info.Side == seaport.SideBuy {
		payToken, err := im.paytokenRepo.FindOne(c, input.ChainId, currency)
		if err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"currency": currency,
			}).Error("failed to paytokenRepo.FindOne")
			return failed(hash, order.SaveStatusUnknownError)
		}
		if payToken == nil {
			return failed(hash, order.SaveStatusUnsupportedPaymentToken)
		}
	}

	amount, ok := new(big.Int).SetString(info.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return failed(hash, order.SaveStatusInvalidFormat)
	}
	if amount.Cmp(domain.Big1) > 0 {
		switch so.Params.OrderType {
		case seaport.OrderTypePartialOpen, seaport.OrderTypePartialRestricted:
		default:
			return failed(hash, order.SaveStatusNotPartiallyFillable)
		}
	}

	addrs, err := exchange.AddressesByChain(input.ChainId)
	if err != nil {
		return failed(hash, order.SaveStatusUnknownError)
	}
	exchangeAddr, err := addrs.ExchangeByKind(input.Kind)
	if err != nil {
		return failed(hash, order.SaveStatusInvalidFormat)
	}

	switch so.Params.OrderType {
	case seaport.OrderTypeFullRestricted, seaport.OrderTypePartialRestricted:
		if !addrs.KnownZone(so.Params.Zone) {
			return failed(hash, order.SaveStatusUnsupportedZone)
		}
	}

	if err := so.CheckValidity(); err != nil {
		return failed(hash, order.SaveStatusInvalid)
	}
	if info.IsDynamic {
		return failed(hash, order.SaveStatusInvalid)
	}

	conduit, err := seaport.DeriveConduit(addrs.ConduitController, so.Params.ConduitKey, exchangeAddr)
	if err != nil {
		return failed(hash, order.SaveStatusInvalid)
	}

	skipSignature := input.FromOnChain != nil ||
		(input.IsOpenSea && (so.Params.Signature == "" || so.Params.Signature == "0x"))
	if !skipSignature {
		if err := so.CheckSignature(c, im.erc1271, exchangeAddr); err != nil {
			return failed(hash, order.SaveStatusInvalidSignature)
		}
	}

	fillability, approval, err := im.checkOffChainState(c, so, info, conduit, amount)
	if err != nil {
		return failed(hash, order.SaveStatusNotFillable)
	}

	tokenSetId, schema, err := im.resolveTokenSet(c, input, info)
	if err != nil {
		return failed(hash, order.SaveStatusInvalidTokenSet)
	}

	feeBps, feeBreakdown, missingRoyalties, missingRoyaltyAmount := im.buildFees(c, input, info)
	if feeBps > maxTotalFeeBps {
		return failed(hash, order.SaveStatusFeesTooHigh)
	}

	price := info.Price
	value := new(big.Int).Set(price)
	if info.Side == seaport.SideBuy {
		value.Sub(value, info.FeeAmount())
		if value.Sign() <= 0 {
			return failed(hash, order.SaveStatusZeroPrice)
		}
	}
	normalizedValue := new(big.Int).Set(value)
	if info.Side == seaport.SideBuy {
		normalizedValue.Sub(normalizedValue, missingRoyaltyAmount)
		if normalizedValue.Sign() < 0 {
			normalizedValue.SetInt64(0)
		}
	} else {
		normalizedValue.Add(normalizedValue, missingRoyaltyAmount)
	}

	// multi unit orders carry totals on the wire, persisted amounts are per
	// single item
	if amount.Cmp(domain.Big1) > 0 {
		price = new(big.Int).Div(price, amount)
		value.Div(value, amount)
		normalizedValue.Div(normalizedValue, amount)
	}

	priceData, err := im.priceService.GetUsdAndNativePrice(c, input.ChainId, currency, price)
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"currency": currency,
		}).Error("failed to priceService.GetUsdAndNativePrice")
		return failed(hash, order.SaveStatusFailedToConvertPrice)
	}
	nativePrice := priceData.NativeAmount
	nativeValue := scaleByPrice(value, price, nativePrice)
	nativeNormalizedValue := scaleByPrice(normalizedValue, price, nativePrice)

	side := order.SideSell
	if info.Side == seaport.SideBuy {
		side = order.SideBuy
	}

	if side == order.SideBuy && input.ValidateBidValue {
		if low, err := im.isBelowFloorAsk(c, input.ChainId, info.Contract, nativeValue); err == nil && low {
			return failed(hash, order.SaveStatusBidTooLow)
		}
	}

	im.notifyReplacement(c, input, so, addrs)

	o := &order.Order{
		ChainId:           input.ChainId,
		Hash:              hash,
		Kind:              input.Kind,
		Side:              side,
		Maker:             so.Params.Offerer,
		Taker:             info.Taker,
		Contract:          info.Contract,
		TokenSetId:        tokenSetId,
		TokenSetSchema:    schema,
		Currency:          currency,
		Price:             nativePrice.String(),
		Value:             nativeValue.String(),
		CurrencyPrice:     price.String(),
		CurrencyValue:     value.String(),
		NormalizedValue:   nativeNormalizedValue.String(),
		PriceInUsd:        priceData.Usd.InexactFloat64(),
		QuantityRemaining: amount.String(),
		Nonce:             so.Params.Counter,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		Source:            input.Metadata.Source,
		IsNative:          input.FromOnChain == nil && !input.IsOpenSea,
		Conduit:           conduit,
		FeeBps:            feeBps,
		FeeBreakdown:      feeBreakdown,
		MissingRoyalties:  missingRoyalties,
		Fillability:       fillability,
		Approval:          approval,
		RawData:           input.RawOrder,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if input.FromOnChain != nil {
		o.BlockNumber = &input.FromOnChain.BlockNumber
		o.LogIndex = &input.FromOnChain.LogIndex
	}
	o.LowerCase()

	result := &order.SaveResult{Id: hash, Status: order.SaveStatusSuccess}
	if fillability != order.FillabilityFillable {
		result.UnfillableReason = string(order.SaveStatusNoBalance)
	} else if approval != order.ApprovalApproved {
		result.UnfillableReason = string(order.SaveStatusNoApproval)
	}
	return &saveOutcome{order: o, result: result}
}

// buildFees classifies the fees carried by the order against the collection
// royalty schedule and computes the royalties the order leaves out.
func (im *impl) buildFees(c ctx.Ctx, input *order.SaveInput, info *seaport.Info) (int, []order.FeeBreakdown, []order.MissingRoyalty, *big.Int) {
	maxBps := maxTotalFeeBps
	if input.RoyaltyBps != nil {
		maxBps = *input.RoyaltyBps
	}
	royalties, err := im.collectionUC.GetRoyalties(c, collection.CollectionId{
		ChainId: input.ChainId,
		Address: info.Contract.ToLower(),
	}, maxBps)
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"contract": info.Contract,
		}).Warn("failed to collectionUC.GetRoyalties")
		royalties = nil
	}

	royaltyBpsByRecipient := map[domain.Address]int{}
	for _, r := range royalties {
		royaltyBpsByRecipient[r.Recipient.ToLower()] = r.Bps
	}

	feeBps := 0
	breakdown := []order.FeeBreakdown{}
	paid := map[domain.Address]struct{}{}
	for _, f := range info.Fees {
		recipient := f.Recipient.ToLower()
		bps := bpsOf(f.Amount, info.Price)
		kind := order.FeeKindMarketplace
		if _, ok := royaltyBpsByRecipient[recipient]; ok {
			kind = order.FeeKindRoyalty
			paid[recipient] = struct{}{}
		}
		feeBps += bps
		breakdown = append(breakdown, order.FeeBreakdown{
			Kind:      kind,
			Recipient: recipient,
			Bps:       bps,
		})
	}

	missing := []order.MissingRoyalty{}
	missingAmount := new(big.Int)
	for _, r := range royalties {
		recipient := r.Recipient.ToLower()
		if _, ok := paid[recipient]; ok {
			continue
		}
		amount := new(big.Int).Mul(info.Price, big.NewInt(int64(r.Bps)))
		amount.Div(amount, domain.Big10000)
		missing = append(missing, order.MissingRoyalty{
			Recipient: recipient,
			Bps:       r.Bps,
			Amount:    amount.String(),
		})
		missingAmount.Add(missingAmount, amount)
		feeBps += r.Bps
	}
	return feeBps, breakdown, missing, missingAmount
}

// checkOffChainState checks maker balance and conduit approval. Orders that
// fail either check are still saved so a later balance change revives them.
func (im *impl) checkOffChainState(c ctx.Ctx, so *seaport.Order, info *seaport.Info, conduit domain.Address, amount *big.Int) (order.FillabilityStatus, order.ApprovalStatus, error) {
	chainId := int32(so.ChainId)
	maker := so.Params.Offerer.ToLowerStr()

	if info.Side == seaport.SideSell {
		contract := info.Contract.ToLowerStr()
		tokenId, ok := new(big.Int).SetString(info.TokenId, 10)
		if !ok {
			return "", "", seaport.ErrInvalidOrderFormat
		}
		if info.TokenKind == domain.TokenType721 {
			owner, err := im.erc721.OwnerOf(c, chainId, contract, tokenId)
			if err != nil {
				c.WithFields(log.Fields{
					"err":      err,
					"contract": contract,
				}).Error("failed to erc721.OwnerOf")
				return "", "", err
			}
			if domain.Address(owner).ToLower() != so.Params.Offerer.ToLower() {
				return order.FillabilityNoBalance, order.ApprovalApproved, nil
			}
			approved, err := im.erc721.IsApprovedForAll(c, chainId, contract, maker, conduit.ToLowerStr())
			if err != nil {
				return "", "", err
			}
			if !approved {
				return order.FillabilityFillable, order.ApprovalNoApproval, nil
			}
			return order.FillabilityFillable, order.ApprovalApproved, nil
		}

		balance, err := im.erc1155.BalanceOf(c, chainId, contract, maker, tokenId)
		if err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"contract": contract,
			}).Error("failed to erc1155.BalanceOf")
			return "", "", err
		}
		if balance.Cmp(amount) < 0 {
			return order.FillabilityNoBalance, order.ApprovalApproved, nil
		}
		approved, err := im.erc1155.IsApprovedForAll(c, chainId, contract, maker, conduit.ToLowerStr())
		if err != nil {
			return "", "", err
		}
		if !approved {
			return order.FillabilityFillable, order.ApprovalNoApproval, nil
		}
		return order.FillabilityFillable, order.ApprovalApproved, nil
	}

	currency := info.PaymentToken.ToLowerStr()
	balance, err := im.erc20.BalanceOf(c, chainId, currency, maker)
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"currency": currency,
		}).Error("failed to erc20.BalanceOf")
		return "", "", err
	}
	if balance.Cmp(info.Price) < 0 {
		return order.FillabilityNoBalance, order.ApprovalApproved, nil
	}
	allowance, err := im.erc20.Allowance(c, chainId, currency, maker, conduit.ToLowerStr())
	if err != nil {
		return "", "", err
	}
	if allowance.Cmp(info.Price) < 0 {
		return order.FillabilityFillable, order.ApprovalNoApproval, nil
	}
	return order.FillabilityFillable, order.ApprovalApproved, nil
}

// resolveTokenSet materializes the set backing the order. Token lists have
// to be registered up front since the merkle root alone cannot recover the
// token ids.
func (im *impl) resolveTokenSet(c ctx.Ctx, input *order.SaveInput, info *seaport.Info) (string, string, error) {
	id, err := info.TokenSetId()
	if err != nil {
		return "", "", err
	}

	if info.Scope == seaport.ScopeTokenList {
		exists, err := im.tokensetUC.Exists(c, input.ChainId, id)
		if err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("failed to tokensetUC.Exists")
			return "", "", err
		}
		if !exists {
			return "", "", tokenset.ErrUnknownTokenList
		}
		return id, input.Metadata.SchemaHash, nil
	}

	if _, err := im.tokensetUC.GetOrCreate(c, input.ChainId, id); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to tokensetUC.GetOrCreate")
		return "", "", err
	}
	return id, input.Metadata.SchemaHash, nil
}

// notifyReplacement tells the cancellation oracle when an order built with
// the off chain cancellation zone reuses an existing order id as its salt,
// which marks the old order as replaced. Best effort.
func (im *impl) notifyReplacement(c ctx.Ctx, input *order.SaveInput, so *seaport.Order, addrs *exchange.Addresses) {
	if im.orderFetcher == nil || addrs.CancellationZone.IsEmpty() {
		return
	}
	if !so.Params.Zone.ToLower().Equals(addrs.CancellationZone.ToLower()) {
		return
	}

	saltStr := so.Params.Salt
	base := 10
	if strings.HasPrefix(saltStr, "0x") || strings.HasPrefix(saltStr, "0X") {
		saltStr, base = saltStr[2:], 16
	}
	salt, ok := new(big.Int).SetString(saltStr, base)
	if !ok || salt.Sign() == 0 {
		return
	}
	replaced := domain.OrderHash(hexutil.Encode(common.BigToHash(salt).Bytes())).ToLower()
	if _, err := im.orderRepo.FindOne(c, order.Id{ChainId: input.ChainId, Hash: replaced}); err != nil {
		return
	}

	raw := input.RawOrder
	chainId := input.ChainId
	goroutine.RecoverableGo(func() {
		if err := im.orderFetcher.PostReplacement(c, chainId, raw, []domain.OrderHash{replaced}); err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"replaced": replaced,
			}).Warn("failed to orderFetcher.PostReplacement")
		}
	})
}

func (im *impl) isBelowFloorAsk(c ctx.Ctx, chainId domain.ChainId, contract domain.Address, nativeValue *big.Int) (bool, error) {
	floorStr, err := im.collectionUC.GetFloorAskValue(c, collection.CollectionId{
		ChainId: chainId,
		Address: contract.ToLower(),
	})
	if err != nil {
		return false, err
	}
	floor, ok := new(big.Int).SetString(floorStr, 10)
	if !ok || floor.Sign() <= 0 {
		return false, nil
	}
	lhs := new(big.Int).Mul(nativeValue, domain.Big10000)
	rhs := new(big.Int).Mul(floor, big.NewInt(floorAskThresholdBps))
	return lhs.Cmp(rhs) < 0, nil
}

// startTooFarOut rejects starts at or beyond the threshold, the boundary
// itself is out.
func startTooFarOut(now, validFrom time.Time) bool {
	return !validFrom.Before(now.Add(maxStartTimeAhead))
}

func bpsOf(amount, price *big.Int) int {
	if price.Sign() == 0 {
		return 0
	}
	bps := new(big.Int).Mul(amount, domain.Big10000)
	bps.Div(bps, price)
	return int(bps.Int64())
}

// scaleByPrice converts an amount in order currency to its native
// equivalent through the already converted price.
func scaleByPrice(amount, price, nativePrice *big.Int) *big.Int {
	if price.Sign() == 0 {
		return new(big.Int)
	}
	v := new(big.Int).Mul(amount, nativePrice)
	return v.Div(v, price)
}
