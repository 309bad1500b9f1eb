package usecase

import (
	"math/big"
	"strings"
	"sync"

	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	"github.com/x-xyz/aggregator/domain/execute"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/router"
)

var ErrUnsupportedChain = xerrors.New("unsupported chain")

func (im *impl) ExecuteBuy(c ctx.Ctx, req *execute.BuyRequest) (*execute.FillResponse, error) {
	r, ok := im.routers[req.ChainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	if req.Taker.IsEmpty() {
		return nil, xerrors.New("taker is required")
	}
	if len(req.OrderIds) == 0 {
		return nil, xerrors.New("orderIds are required")
	}

	details := []*router.ListingDetails{}
	for _, id := range req.OrderIds {
		o, err := im.orderUC.GetOrder(c, order.Id{ChainId: req.ChainId, Hash: id.ToLower()})
		if err != nil {
			return nil, err
		}
		if o.Side != order.SideSell {
			return nil, xerrors.Errorf("order %s is not a listing", id)
		}
		if o.Fillability != order.FillabilityFillable {
			return nil, xerrors.Errorf("order %s is not fillable", id)
		}

		tokenId, err := tokenIdFromSet(o.TokenSetId)
		if err != nil {
			return nil, err
		}
		price, ok := new(big.Int).SetString(o.CurrencyPrice, 10)
		if !ok {
			return nil, xerrors.Errorf("order %s has no usable price", id)
		}

		details = append(details, &router.ListingDetails{
			Kind:      o.Kind,
			OrderId:   o.Hash,
			Contract:  o.Contract,
			TokenId:   tokenId,
			TokenKind: im.tokenKind(c, req.ChainId, o.Contract),
			Currency:  o.Currency,
			Price:     price,
			RawOrder:  o.RawData,
			IsPartial: len(o.RawData) == 0,
			Source:    o.Source,
		})
	}

	resp := &execute.FillResponse{}
	var mu sync.Mutex
	opts := &router.FillListingsOptions{
		Partial: req.Partial,
		OnRecoverableError: func(orderId domain.OrderHash, detail string, _ domain.Address, _ string) {
			mu.Lock()
			defer mu.Unlock()
			resp.Errors = append(resp.Errors, execute.ItemError{
				Message:    detail,
				OrderIndex: indexOfOrder(req.OrderIds, orderId),
			})
		},
	}
	res, err := r.FillListings(c, details, req.Taker, req.Currency, opts)
	if err != nil {
		return nil, err
	}

	for _, tx := range res.Txs {
		resp.Txs = append(resp.Txs, fillTx(tx.TxData, tx.OrderIds))
	}
	resp.Success = res.Success
	return resp, nil
}

func (im *impl) ExecuteSell(c ctx.Ctx, req *execute.SellRequest) (*execute.FillResponse, error) {
	r, ok := im.routers[req.ChainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	if req.Taker.IsEmpty() {
		return nil, xerrors.New("taker is required")
	}
	if len(req.Items) == 0 {
		return nil, xerrors.New("items are required")
	}

	orderIds := make([]domain.OrderHash, len(req.Items))
	details := []*router.BidDetails{}
	for i, item := range req.Items {
		orderIds[i] = item.OrderId
		o, err := im.orderUC.GetOrder(c, order.Id{ChainId: req.ChainId, Hash: item.OrderId.ToLower()})
		if err != nil {
			return nil, err
		}
		if o.Side != order.SideBuy {
			return nil, xerrors.Errorf("order %s is not a bid", item.OrderId)
		}
		if o.Fillability != order.FillabilityFillable {
			return nil, xerrors.Errorf("order %s is not fillable", item.OrderId)
		}

		parts := strings.Split(item.Token, ":")
		if len(parts) != 2 {
			return nil, xerrors.New("token must be contract:tokenId")
		}
		contract := domain.Address(parts[0]).ToLower()
		if !contract.Equals(o.Contract.ToLower()) {
			return nil, xerrors.Errorf("token does not satisfy order %s", item.OrderId)
		}
		price, ok := new(big.Int).SetString(o.CurrencyPrice, 10)
		if !ok {
			return nil, xerrors.Errorf("order %s has no usable price", item.OrderId)
		}
		var amount *big.Int
		if item.Quantity > 1 {
			amount = big.NewInt(item.Quantity)
		}

		details = append(details, &router.BidDetails{
			Kind:      o.Kind,
			OrderId:   o.Hash,
			Contract:  contract,
			TokenId:   parts[1],
			TokenKind: im.tokenKind(c, req.ChainId, contract),
			Price:     price,
			Amount:    amount,
			RawOrder:  o.RawData,
			IsPartial: len(o.RawData) == 0,
			Source:    o.Source,
		})
	}

	resp := &execute.FillResponse{}
	var mu sync.Mutex
	opts := &router.FillBidsOptions{
		Partial: req.Partial,
		OnRecoverableError: func(orderId domain.OrderHash, detail string, _ domain.Address, _ string) {
			mu.Lock()
			defer mu.Unlock()
			resp.Errors = append(resp.Errors, execute.ItemError{
				Message:    detail,
				OrderIndex: indexOfOrder(orderIds, orderId),
			})
		},
	}
	res, err := r.FillBids(c, details, req.Taker, opts)
	if err != nil {
		return nil, err
	}

	// nft approvals go first, the proxy transfer pulls the tokens
	for _, a := range res.Approvals {
		resp.Txs = append(resp.Txs, fillTx(a.TxData, nil))
	}
	resp.Txs = append(resp.Txs, fillTx(res.TxData, res.OrderIds))
	resp.Success = res.Success
	return resp, nil
}

func (im *impl) tokenKind(c ctx.Ctx, chainId domain.ChainId, contract domain.Address) domain.TokenType {
	coll, err := im.collectionUC.FindOne(c, collection.CollectionId{ChainId: chainId, Address: contract.ToLower()})
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"contract": contract,
		}).Warn("failed to collectionUC.FindOne, assuming erc721")
		return domain.TokenType721
	}
	return coll.TokenType
}

func tokenIdFromSet(tokenSetId string) (string, error) {
	parts := strings.Split(tokenSetId, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return "", xerrors.Errorf("token set %s does not name a single token", tokenSetId)
	}
	return parts[2], nil
}

func indexOfOrder(ids []domain.OrderHash, id domain.OrderHash) int {
	for i, v := range ids {
		if v.ToLower() == id.ToLower() {
			return i
		}
	}
	return -1
}

func fillTx(tx router.TxData, orderIds []domain.OrderHash) execute.FillTx {
	out := execute.FillTx{
		From:     tx.From,
		To:       tx.To,
		Data:     tx.Data,
		OrderIds: orderIds,
	}
	if tx.Value != nil {
		out.Value = tx.Value.String()
	}
	return out
}
