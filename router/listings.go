package router

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/abi"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/exchange/seaport"
	"github.com/x-xyz/aggregator/service/orderfetcher"
)

type seaportListing struct {
	detail *ListingDetails
	comps  *seaport.OrderComponents
}

// FillListings produces the minimum set of transactions buying the given
// listings. Blur listings fill in their own dedicated transaction through
// the relayer, homogeneous same currency seaport batches fill directly
// against the exchange, everything else is grouped by (kind, currency)
// into router module executions with swap legs prepended.
func (r *Router) FillListings(c bCtx.Ctx, details []*ListingDetails, taker domain.Address, buyInCurrency domain.Address, opts *FillListingsOptions) (*FillListingsResult, error) {
	if opts == nil {
		opts = &FillListingsOptions{}
	}
	if len(details) == 0 {
		return nil, ErrNothingToFill
	}
	// partial mode needs siblings to keep going for
	partial := opts.Partial && len(details) > 1

	if err := rejectUnroutable(details); err != nil {
		return nil, err
	}

	res := &FillListingsResult{Success: map[domain.OrderHash]bool{}}
	for _, d := range details {
		res.Success[d.OrderId] = false
	}

	dropOrFail := func(d *ListingDetails, detailMsg, url string, err error) error {
		if !partial {
			return err
		}
		c.WithFields(log.Fields{
			"err":   err,
			"order": d.OrderId,
		}).Warn("dropping listing from batch")
		if opts.OnRecoverableError != nil {
			opts.OnRecoverableError(d.OrderId, detailMsg, taker, url)
		}
		return nil
	}

	var routed []*seaportListing
	for _, d := range details {
		switch {
		case d.Kind == order.KindBlur:
			fulfillment, err := r.fetcher.GenerateBlurListingFulfillment(c, &orderfetcher.BlurListingRequest{
				ChainId:   r.chainId,
				Contract:  d.Contract,
				TokenId:   d.TokenId,
				Price:     d.Price.String(),
				Taker:     taker,
				AuthToken: opts.RelayerAuthToken,
			})
			if err != nil {
				if fErr := dropOrFail(d, "failed to generate blur fulfillment", "blur/listing-fulfillment", err); fErr != nil {
					return nil, fErr
				}
				continue
			}
			value, err := parseBig(fulfillment.Value)
			if err != nil {
				if fErr := dropOrFail(d, "relayer returned malformed fulfillment", "blur/listing-fulfillment", err); fErr != nil {
					return nil, fErr
				}
				continue
			}
			res.Txs = append(res.Txs, &FillTx{
				TxData: TxData{
					From:  taker,
					To:    fulfillment.To,
					Data:  fulfillment.Data,
					Value: value,
				},
				OrderIds: []domain.OrderHash{d.OrderId},
			})
			res.Success[d.OrderId] = true
		case isSeaportKind(d.Kind):
			raw := d.RawOrder
			if d.IsPartial {
				hydrated, err := r.fetcher.ResolvePartialOrder(c, &orderfetcher.PartialOrderRequest{
					ChainId:   r.chainId,
					OrderHash: d.OrderId,
					Contract:  d.Contract,
					TokenId:   d.TokenId,
					Taker:     taker,
				})
				if err != nil {
					if fErr := dropOrFail(d, "failed to resolve partial order", "seaport/partial-order", err); fErr != nil {
						return nil, fErr
					}
					continue
				}
				raw = hydrated
			}
			comps, err := parseSeaportOrder(raw)
			if err != nil {
				if fErr := dropOrFail(d, "malformed order payload", "", err); fErr != nil {
					return nil, fErr
				}
				continue
			}
			routed = append(routed, &seaportListing{detail: d, comps: comps})
		}
	}

	if len(routed) > 0 && r.canFillDirectly(routed, buyInCurrency, opts) {
		tx, err := r.directFill(routed, taker, buyInCurrency)
		if err != nil {
			return nil, err
		}
		res.Txs = append(res.Txs, tx)
		for _, l := range routed {
			res.Success[l.detail.OrderId] = true
		}
		routed = nil
	}

	if len(routed) > 0 {
		tx, filled, err := r.routeThroughModules(routed, taker, buyInCurrency, opts, partial, dropOrFail)
		if err != nil {
			return nil, err
		}
		if tx != nil {
			res.Txs = append(res.Txs, tx)
			for _, id := range filled {
				res.Success[id] = true
			}
		}
	}

	if len(res.Txs) == 0 {
		return nil, ErrNothingToFill
	}
	return res, nil
}

// rejectUnroutable refuses unsupported combinations before any network
// call is made.
func rejectUnroutable(details []*ListingDetails) error {
	soloCount := map[order.Kind]int{}
	for _, d := range details {
		if !hasModule(d.Kind) {
			soloCount[d.Kind]++
		}
		if d.IsPartial && !isSeaportKind(d.Kind) {
			return xerrors.Errorf("partial orders are not supported for %s listings", d.Kind)
		}
	}
	for kind, n := range soloCount {
		if kind != order.KindBlur {
			return xerrors.Errorf("no module available for %s listings", kind)
		}
		if n > 1 {
			return xerrors.Errorf("%s listings must be filled in their own transaction", kind)
		}
	}
	return nil
}

// canFillDirectly reports whether the whole routed set can go straight to
// the exchange contract, skipping the router and its modules.
func (r *Router) canFillDirectly(routed []*seaportListing, buyInCurrency domain.Address, opts *FillListingsOptions) bool {
	if opts.ForceRouter || len(opts.GlobalFees) > 0 {
		return false
	}
	kind := routed[0].detail.Kind
	for _, l := range routed {
		if l.detail.Kind != kind {
			return false
		}
		if !sameCurrency(l.detail.Currency, buyInCurrency) {
			return false
		}
	}
	return true
}

func (r *Router) directFill(routed []*seaportListing, taker domain.Address, buyInCurrency domain.Address) (*FillTx, error) {
	kind := routed[0].detail.Kind
	exchangeAddr, err := r.addrs.ExchangeByKind(kind)
	if err != nil {
		return nil, err
	}
	spABI := abi.SeaportV11ABI
	if kind == order.KindSeaportV14 {
		spABI = abi.SeaportV14ABI
	}

	orders := make([]abi.SeaportAdvancedOrder, 0, len(routed))
	ids := make([]domain.OrderHash, 0, len(routed))
	total := new(big.Int)
	for _, l := range routed {
		adv, err := advancedOrder(l.comps, l.detail.Amount)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *adv)
		ids = append(ids, l.detail.OrderId)
		total.Add(total, l.detail.Price)
	}

	var data []byte
	if len(orders) == 1 {
		data, err = spABI.Pack("fulfillAdvancedOrder",
			orders[0], []abi.SeaportCriteriaResolver{}, [32]byte{}, toCommon(taker))
	} else {
		offerFulfillments := make([][]abi.SeaportFulfillmentComponent, len(orders))
		var considerationFulfillments [][]abi.SeaportFulfillmentComponent
		for i := range orders {
			offerFulfillments[i] = []abi.SeaportFulfillmentComponent{
				{OrderIndex: big.NewInt(int64(i)), ItemIndex: big.NewInt(0)},
			}
			for j := range orders[i].Parameters.Consideration {
				considerationFulfillments = append(considerationFulfillments, []abi.SeaportFulfillmentComponent{
					{OrderIndex: big.NewInt(int64(i)), ItemIndex: big.NewInt(int64(j))},
				})
			}
		}
		data, err = spABI.Pack("fulfillAvailableAdvancedOrders",
			orders, []abi.SeaportCriteriaResolver{}, offerFulfillments, considerationFulfillments,
			[32]byte{}, toCommon(taker), big.NewInt(int64(len(orders))))
	}
	if err != nil {
		return nil, xerrors.Errorf("pack direct fill: %w", err)
	}

	value := new(big.Int)
	if isNativeCurrency(buyInCurrency) {
		value = total
	}
	return &FillTx{
		TxData: TxData{
			From:  taker,
			To:    exchangeAddr,
			Data:  hexString(data),
			Value: value,
		},
		OrderIds: ids,
	}, nil
}

// routeThroughModules groups listings by (kind, currency) into seaport
// module executions, prepends the swap legs funding groups whose currency
// differs from the taker's, and wraps everything in a single router
// execute transaction.
func (r *Router) routeThroughModules(
	routed []*seaportListing,
	taker domain.Address,
	buyInCurrency domain.Address,
	opts *FillListingsOptions,
	partial bool,
	dropOrFail func(*ListingDetails, string, string, error) error,
) (*FillTx, []domain.OrderHash, error) {
	type groupKey struct {
		kind     order.Kind
		currency domain.Address
	}
	groups := map[groupKey][]*seaportListing{}
	var keyOrder []groupKey
	for _, l := range routed {
		key := groupKey{l.detail.Kind, l.detail.Currency.ToLower()}
		if _, ok := groups[key]; !ok {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], l)
	}

	var moduleExecutions []abi.RouterExecutionInfo
	var filled []domain.OrderHash
	// amount of each settlement currency the swap legs must produce
	swapNeeds := map[domain.Address]*big.Int{}
	var swapOrder []domain.Address

	for _, key := range keyOrder {
		group := groups[key]
		orders := make([]abi.SeaportAdvancedOrder, 0, len(group))
		groupIds := make([]domain.OrderHash, 0, len(group))
		groupTotal := new(big.Int)
		for _, l := range group {
			adv, err := advancedOrder(l.comps, l.detail.Amount)
			if err != nil {
				if fErr := dropOrFail(l.detail, "failed to build fulfillment calldata", "", err); fErr != nil {
					return nil, nil, fErr
				}
				continue
			}
			orders = append(orders, *adv)
			groupIds = append(groupIds, l.detail.OrderId)
			groupTotal.Add(groupTotal, l.detail.Price)
		}
		if len(orders) == 0 {
			continue
		}

		fees := proRata(opts.GlobalFees, len(orders), len(routed))
		feeTotal := sumModuleFees(fees)
		need := new(big.Int).Add(groupTotal, feeTotal)

		var data []byte
		var err error
		value := new(big.Int)
		if isNativeCurrency(key.currency) {
			data, err = abi.SeaportModuleABI.Pack("acceptETHListings", orders, abi.ModuleEthListingParams{
				FillTo:             toCommon(taker),
				RefundTo:           toCommon(taker),
				RevertIfIncomplete: !partial,
				Amount:             groupTotal,
			}, fees)
			if sameCurrency(key.currency, buyInCurrency) {
				value = need
			}
		} else {
			data, err = abi.SeaportModuleABI.Pack("acceptERC20Listings", orders, abi.ModuleErc20ListingParams{
				FillTo:             toCommon(taker),
				RefundTo:           toCommon(taker),
				RevertIfIncomplete: !partial,
				Token:              toCommon(key.currency),
				Amount:             groupTotal,
			}, fees)
		}
		if err != nil {
			return nil, nil, xerrors.Errorf("pack module execution: %w", err)
		}

		if !sameCurrency(key.currency, buyInCurrency) {
			if _, ok := swapNeeds[key.currency]; !ok {
				swapNeeds[key.currency] = new(big.Int)
				swapOrder = append(swapOrder, key.currency)
			}
			swapNeeds[key.currency].Add(swapNeeds[key.currency], need)
		}

		moduleExecutions = append(moduleExecutions, abi.RouterExecutionInfo{
			Module: toCommon(r.addrs.SeaportModule),
			Data:   data,
			Value:  value,
		})
		filled = append(filled, groupIds...)
	}

	if len(moduleExecutions) == 0 {
		return nil, nil, nil
	}

	var executions []abi.RouterExecutionInfo
	for _, currency := range swapOrder {
		amount := swapNeeds[currency]
		swaps := []abi.SwapTransferDetail{{
			TokenOut:  toCommon(currency),
			AmountOut: amount,
			Recipient: toCommon(r.addrs.SeaportModule),
		}}
		var data []byte
		var err error
		value := new(big.Int)
		if isNativeCurrency(buyInCurrency) {
			data, err = abi.SwapModuleABI.Pack("ethToExactOutput", swaps, toCommon(taker))
			value = amount
		} else {
			data, err = abi.SwapModuleABI.Pack("erc20ToExactOutput", toCommon(buyInCurrency), swaps, toCommon(taker))
		}
		if err != nil {
			return nil, nil, xerrors.Errorf("pack swap execution: %w", err)
		}
		executions = append(executions, abi.RouterExecutionInfo{
			Module: toCommon(r.addrs.SwapModule),
			Data:   data,
			Value:  value,
		})
	}
	executions = append(executions, moduleExecutions...)

	data, err := abi.RouterABI.Pack("execute", executions)
	if err != nil {
		return nil, nil, xerrors.Errorf("pack router execute: %w", err)
	}
	value := new(big.Int)
	if isNativeCurrency(buyInCurrency) {
		for _, e := range executions {
			value.Add(value, e.Value)
		}
	}
	return &FillTx{
		TxData: TxData{
			From:  taker,
			To:    r.addrs.Router,
			Data:  hexString(data),
			Value: value,
		},
		OrderIds: filled,
	}, filled, nil
}
