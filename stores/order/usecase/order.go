package usecase

import (
	"math/big"
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/base/ptr"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/domain/tokenset"
	"github.com/x-xyz/aggregator/service/chain/contract"
	"github.com/x-xyz/aggregator/service/orderfetcher"
	"github.com/x-xyz/aggregator/service/price"
)

const savePoolSize = 20

func fillabilityPtr(s order.FillabilityStatus) *order.FillabilityStatus {
	return &s
}

func approvalPtr(s order.ApprovalStatus) *order.ApprovalStatus {
	return &s
}

type OrderUseCaseCfg struct {
	OrderRepo    order.Repo
	TokenSetUC   tokenset.UseCase
	CollectionUC collection.UseCase
	PaytokenRepo domain.PayTokenRepo
	PriceService price.Service
	Erc1271      contract.Erc1271Contract
	Erc721       contract.Erc721Contract
	Erc1155      contract.Erc1155Contract
	Erc20        contract.Erc20Contract
	Seaport      contract.SeaportContract
	OrderFetcher orderfetcher.Client

	// invoked off the request path for every fillable order that got saved
	NewOrderHook func(ctx.Ctx, *order.Order)
}

type impl struct {
	orderRepo    order.Repo
	tokensetUC   tokenset.UseCase
	collectionUC collection.UseCase
	paytokenRepo domain.PayTokenRepo
	priceService price.Service
	erc1271      contract.Erc1271Contract
	erc721       contract.Erc721Contract
	erc1155      contract.Erc1155Contract
	erc20        contract.Erc20Contract
	seaport      contract.SeaportContract
	orderFetcher orderfetcher.Client
	newOrderHook func(ctx.Ctx, *order.Order)
}

func New(cfg *OrderUseCaseCfg) order.UseCase {
	return &impl{
		orderRepo:    cfg.OrderRepo,
		tokensetUC:   cfg.TokenSetUC,
		collectionUC: cfg.CollectionUC,
		paytokenRepo: cfg.PaytokenRepo,
		priceService: cfg.PriceService,
		erc1271:      cfg.Erc1271,
		erc721:       cfg.Erc721,
		erc1155:      cfg.Erc1155,
		erc20:        cfg.Erc20,
		seaport:      cfg.Seaport,
		orderFetcher: cfg.OrderFetcher,
		newOrderHook: cfg.NewOrderHook,
	}
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) ([]*order.Order, error) {
	res, err := im.orderRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to orderRepo.FindAll")
		return nil, err
	}

	return res, nil
}

func (im *impl) GetOrder(ctx ctx.Ctx, id order.Id) (*order.Order, error) {
	res, err := im.orderRepo.FindOne(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to orderRepo.FindOne")
		return nil, err
	}

	return res, nil
}

func (im *impl) CancelByHash(ctx ctx.Ctx, chainId domain.ChainId, hash domain.OrderHash, lMeta *domain.LogMeta) error {
	id := order.Id{ChainId: chainId, Hash: hash.ToLower()}
	err := im.orderRepo.Update(ctx, id, order.Patchable{
		Fillability: fillabilityPtr(order.FillabilityCancelled),
	})
	if err == domain.ErrNotFound {
		// cancellation of an order we never ingested
		return nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"hash": hash,
		}).Error("failed to orderRepo.Update")
		return err
	}
	return nil
}

// CancelByCounter invalidates every order of the maker whose counter is
// below the new one.
func (im *impl) CancelByCounter(ctx ctx.Ctx, chainId domain.ChainId, maker domain.Address, kinds []order.Kind, newCounter string, lMeta *domain.LogMeta) error {
	cnt, err := im.orderRepo.UpdateAll(ctx, order.Patchable{
		Fillability: fillabilityPtr(order.FillabilityCancelled),
	},
		order.WithChainId(chainId),
		order.WithMaker(maker),
		order.WithKinds(kinds...),
		order.WithNonceLT(newCounter),
		order.WithFillability(order.FillabilityFillable, order.FillabilityNoBalance),
	)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"maker": maker,
		}).Error("failed to orderRepo.UpdateAll")
		return err
	}
	ctx.WithFields(log.Fields{
		"maker":      maker,
		"newCounter": newCounter,
		"count":      cnt,
	}).Info("cancelled orders below counter")
	return nil
}

func (im *impl) FillByHash(ctx ctx.Ctx, chainId domain.ChainId, hash domain.OrderHash, amount string, taker domain.Address, lMeta *domain.LogMeta) error {
	id := order.Id{ChainId: chainId, Hash: hash.ToLower()}
	existing, err := im.orderRepo.FindOne(ctx, id)
	if err == domain.ErrNotFound {
		return nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"hash": hash,
		}).Error("failed to orderRepo.FindOne")
		return err
	}

	filled, ok := new(big.Int).SetString(amount, 10)
	if !ok || filled.Sign() <= 0 {
		filled = big.NewInt(1)
	}
	remaining, ok := new(big.Int).SetString(existing.QuantityRemaining, 10)
	if !ok {
		remaining = big.NewInt(1)
	}
	remaining.Sub(remaining, filled)

	patchable := order.Patchable{
		Taker: taker.ToLowerPtr(),
	}
	if remaining.Sign() <= 0 {
		remaining.SetInt64(0)
		patchable.Fillability = fillabilityPtr(order.FillabilityFilled)
	}
	patchable.QuantityRemaining = ptr.String(remaining.String())

	if err := im.orderRepo.Update(ctx, id, patchable); err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"hash": hash,
		}).Error("failed to orderRepo.Update")
		return err
	}
	return nil
}

// ExpireOrders sweeps live orders whose validUntil has passed.
func (im *impl) ExpireOrders(ctx ctx.Ctx, chainId domain.ChainId) (int, error) {
	now := time.Now()
	cnt, err := im.orderRepo.UpdateAll(ctx, order.Patchable{
		Fillability: fillabilityPtr(order.FillabilityExpired),
		UpdatedAt:   &now,
	},
		order.WithChainId(chainId),
		order.WithFillability(order.FillabilityFillable, order.FillabilityNoBalance),
		order.WithValidUntilLT(now),
	)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to orderRepo.UpdateAll")
		return 0, err
	}
	if cnt > 0 {
		ctx.WithFields(log.Fields{
			"chainId": chainId,
			"count":   cnt,
		}).Info("expired orders")
	}
	return cnt, nil
}
