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

type seaportBid struct {
	detail *BidDetails
	comps  *seaport.OrderComponents
}

// FillBids sells the taker's tokens into the given bids. The tokens are
// moved through the approval proxy into the seaport module, which accepts
// the offers and forwards the proceeds to the taker. The whole batch is
// one transaction.
func (r *Router) FillBids(c bCtx.Ctx, details []*BidDetails, taker domain.Address, opts *FillBidsOptions) (*FillBidsResult, error) {
	if opts == nil {
		opts = &FillBidsOptions{}
	}
	if len(details) == 0 {
		return nil, ErrNothingToFill
	}
	partial := opts.Partial && len(details) > 1

	for _, d := range details {
		if !hasModule(d.Kind) {
			return nil, xerrors.Errorf("no module available for %s bids", d.Kind)
		}
	}

	res := &FillBidsResult{Success: map[domain.OrderHash]bool{}}
	for _, d := range details {
		res.Success[d.OrderId] = false
	}

	dropOrFail := func(d *BidDetails, detailMsg, url string, err error) error {
		if !partial {
			return err
		}
		c.WithFields(log.Fields{
			"err":   err,
			"order": d.OrderId,
		}).Warn("dropping bid from batch")
		if opts.OnRecoverableError != nil {
			opts.OnRecoverableError(d.OrderId, detailMsg, taker, url)
		}
		return nil
	}

	var bids []*seaportBid
	for _, d := range details {
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
		bids = append(bids, &seaportBid{detail: d, comps: comps})
	}
	if len(bids) == 0 {
		return nil, ErrNothingToFill
	}

	groups := map[order.Kind][]*seaportBid{}
	var kindOrder []order.Kind
	for _, b := range bids {
		if _, ok := groups[b.detail.Kind]; !ok {
			kindOrder = append(kindOrder, b.detail.Kind)
		}
		groups[b.detail.Kind] = append(groups[b.detail.Kind], b)
	}

	var executions []abi.RouterExecutionInfo
	var transferItems []abi.TransferItem
	var filled []domain.OrderHash
	for _, kind := range kindOrder {
		group := groups[kind]
		orders := make([]abi.SeaportAdvancedOrder, 0, len(group))
		var resolvers []abi.SeaportCriteriaResolver
		groupIds := make([]domain.OrderHash, 0, len(group))
		var groupItems []abi.TransferItem
		for _, b := range group {
			adv, err := advancedOrder(b.comps, nil)
			if err != nil {
				if fErr := dropOrFail(b.detail, "failed to build fulfillment calldata", "", err); fErr != nil {
					return nil, fErr
				}
				continue
			}
			tokenId, err := parseBig(b.detail.TokenId)
			if err != nil {
				if fErr := dropOrFail(b.detail, "malformed token id", "", err); fErr != nil {
					return nil, fErr
				}
				continue
			}
			orderIndex := int64(len(orders))
			var orderResolvers []abi.SeaportCriteriaResolver
			criteriaOk := true
			for j, item := range adv.Parameters.Consideration {
				if item.ItemType < uint8(seaport.ItemTypeErc721WithCriteria) {
					continue
				}
				// a non-zero criteria is a token list root that needs a
				// merkle proof we do not carry, only the wildcard
				// collection bid resolves with an empty proof
				if item.IdentifierOrCriteria.Sign() != 0 {
					criteriaOk = false
					break
				}
				orderResolvers = append(orderResolvers, abi.SeaportCriteriaResolver{
					OrderIndex:    big.NewInt(orderIndex),
					Side:          1,
					Index:         big.NewInt(int64(j)),
					Identifier:    tokenId,
					CriteriaProof: [][32]byte{},
				})
			}
			if !criteriaOk {
				if fErr := dropOrFail(b.detail, "token list bids are not fillable", "", ErrTokenListBid); fErr != nil {
					return nil, fErr
				}
				continue
			}
			resolvers = append(resolvers, orderResolvers...)
			amount := big.NewInt(1)
			if b.detail.Amount != nil {
				amount = b.detail.Amount
			}
			itemType := seaport.ItemTypeErc721
			if b.detail.TokenKind == domain.TokenType1155 {
				itemType = seaport.ItemTypeErc1155
			}
			groupItems = append(groupItems, abi.TransferItem{
				ItemType:   uint8(itemType),
				Token:      toCommon(b.detail.Contract),
				Identifier: tokenId,
				Amount:     amount,
				Recipient:  toCommon(r.addrs.SeaportModule),
			})
			orders = append(orders, *adv)
			groupIds = append(groupIds, b.detail.OrderId)
		}
		if len(orders) == 0 {
			continue
		}

		fees := proRata(opts.GlobalFees, len(orders), len(bids))
		data, err := abi.SeaportModuleABI.Pack("acceptOffers", orders, resolvers, abi.ModuleOfferParams{
			FillTo:             toCommon(taker),
			RefundTo:           toCommon(taker),
			RevertIfIncomplete: !partial,
		}, fees)
		if err != nil {
			return nil, xerrors.Errorf("pack accept offers: %w", err)
		}
		executions = append(executions, abi.RouterExecutionInfo{
			Module: toCommon(r.addrs.SeaportModule),
			Data:   data,
			Value:  new(big.Int),
		})
		transferItems = append(transferItems, groupItems...)
		filled = append(filled, groupIds...)
	}
	if len(executions) == 0 {
		return nil, ErrNothingToFill
	}

	data, err := abi.ApprovalProxyABI.Pack("bulkTransferWithExecute", transferItems, executions, [32]byte{})
	if err != nil {
		return nil, xerrors.Errorf("pack bulk transfer: %w", err)
	}
	res.TxData = TxData{
		From:  taker,
		To:    r.addrs.ApprovalProxy,
		Data:  hexString(data),
		Value: new(big.Int),
	}
	res.OrderIds = filled
	for _, id := range filled {
		res.Success[id] = true
	}

	approvals, err := r.nftApprovals(taker, transferItems)
	if err != nil {
		return nil, err
	}
	res.Approvals = approvals
	return res, nil
}

// nftApprovals returns the approval transactions the taker must have in
// place before the proxy can move the tokens, deduplicated by
// (owner, operator) per contract.
func (r *Router) nftApprovals(taker domain.Address, items []abi.TransferItem) ([]*Approval, error) {
	type approvalKey struct {
		owner    domain.Address
		operator domain.Address
		contract domain.Address
	}
	seen := map[approvalKey]bool{}
	var approvals []*Approval
	for _, item := range items {
		contract := domain.Address(item.Token.Hex()).ToLower()
		key := approvalKey{taker.ToLower(), r.addrs.ApprovalProxy, contract}
		if seen[key] {
			continue
		}
		seen[key] = true
		data, err := abi.ERC721TokenABI.Pack("setApprovalForAll", toCommon(r.addrs.ApprovalProxy), true)
		if err != nil {
			return nil, xerrors.Errorf("pack approval: %w", err)
		}
		approvals = append(approvals, &Approval{
			Owner:    taker.ToLower(),
			Operator: r.addrs.ApprovalProxy,
			Contract: contract,
			TxData: TxData{
				From:  taker,
				To:    contract,
				Data:  hexString(data),
				Value: new(big.Int),
			},
		})
	}
	return approvals, nil
}
