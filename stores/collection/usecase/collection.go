package usecase

import (
	"math/big"
	"strconv"
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	"github.com/x-xyz/aggregator/service/cache"
	"github.com/x-xyz/aggregator/service/cache/provider"
	"github.com/x-xyz/aggregator/service/cache/provider/compound"
	"github.com/x-xyz/aggregator/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/aggregator/service/cache/provider/redis"
	"github.com/x-xyz/aggregator/service/chain/contract"
	"github.com/x-xyz/aggregator/service/redis"
)

type CollectionUseCaseCfg struct {
	CollectionRepo collection.Repo
	Redis          redis.Service
	// on chain fallback for collections with no stored royalty schedule
	RoyaltyEngine      contract.RoyaltyEngineContract
	RoyaltyEngineAddrs map[domain.ChainId]domain.Address
}

type impl struct {
	collectionRepo     collection.Repo
	floorCache         cache.Service
	royaltyEngine      contract.RoyaltyEngineContract
	royaltyEngineAddrs map[domain.ChainId]domain.Address
}

func New(cfg *CollectionUseCaseCfg) collection.UseCase {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("collection", 256),
	}
	if cfg.Redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(cfg.Redis))
	}

	return &impl{
		collectionRepo: cfg.CollectionRepo,
		floorCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Hour,
			Pfx:   "collection:floor",
			Cache: compound.NewCompound(cacheProviders),
		}),
		royaltyEngine:      cfg.RoyaltyEngine,
		royaltyEngineAddrs: cfg.RoyaltyEngineAddrs,
	}
}

func (im *impl) FindOne(c ctx.Ctx, id collection.CollectionId) (*collection.Collection, error) {
	col, err := im.collectionRepo.FindOne(c, id)
	if err != nil && err != domain.ErrNotFound {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to collectionRepo.FindOne")
	}
	return col, err
}

// GetRoyalties returns the collection royalty schedule. When the schedule
// exceeds maxBps every entry is scaled down pro rata so the total lands on
// the cap.
func (im *impl) GetRoyalties(c ctx.Ctx, id collection.CollectionId, maxBps int) ([]collection.Royalty, error) {
	col, err := im.collectionRepo.FindOne(c, id)
	if err != nil && err != domain.ErrNotFound {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to collectionRepo.FindOne")
		return nil, err
	}

	royalties := []collection.Royalty{}
	if col != nil {
		royalties = col.Royalties
	}
	if len(royalties) == 0 {
		royalties = im.onChainRoyalties(c, id)
	}

	total := 0
	for _, r := range royalties {
		total += r.Bps
	}
	if total <= maxBps {
		return royalties, nil
	}

	capped := []collection.Royalty{}
	for _, r := range royalties {
		bps := r.Bps * maxBps / total
		if bps == 0 {
			continue
		}
		capped = append(capped, collection.Royalty{
			Recipient: r.Recipient.ToLower(),
			Bps:       bps,
		})
	}
	return capped, nil
}

// onChainRoyalties samples the royalty registry engine with a value of 10000
// so the returned amounts read directly as basis points.
func (im *impl) onChainRoyalties(c ctx.Ctx, id collection.CollectionId) []collection.Royalty {
	if im.royaltyEngine == nil {
		return nil
	}
	engineAddr, ok := im.royaltyEngineAddrs[id.ChainId]
	if !ok || engineAddr.IsEmpty() {
		return nil
	}

	recipients, amounts, err := im.royaltyEngine.GetRoyalty(c, int32(id.ChainId), engineAddr.ToLowerStr(), id.Address.ToLowerStr(), big.NewInt(1), big.NewInt(10000))
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Warn("failed to royaltyEngine.GetRoyalty")
		return nil
	}

	royalties := []collection.Royalty{}
	for i, recipient := range recipients {
		if i >= len(amounts) || !amounts[i].IsInt64() {
			continue
		}
		bps := int(amounts[i].Int64())
		if bps <= 0 {
			continue
		}
		royalties = append(royalties, collection.Royalty{
			Recipient: domain.Address(recipient).ToLower(),
			Bps:       bps,
		})
	}
	return royalties
}

func (im *impl) GetFloorAskValue(c ctx.Ctx, id collection.CollectionId) (string, error) {
	value := ""
	err := im.floorCache.GetByFunc(c, floorKey(id), &value, func() (interface{}, error) {
		col, err := im.collectionRepo.FindOne(c, id)
		if err != nil {
			return nil, err
		}
		v := col.FloorAskValue
		return &v, nil
	})
	if err == domain.ErrNotFound {
		return "", domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to floorCache.GetByFunc")
		return "", err
	}
	return value, nil
}

func (im *impl) RefreshFloorAskValue(c ctx.Ctx, id collection.CollectionId, value string) error {
	now := time.Now()
	patch := collection.Patchable{FloorAskValue: &value, UpdatedAt: &now}
	if err := im.collectionRepo.Patch(c, id, patch); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to collectionRepo.Patch")
		return err
	}

	if err := im.floorCache.Set(c, floorKey(id), &value); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Warn("failed to floorCache.Set")
	}
	return nil
}

func floorKey(id collection.CollectionId) string {
	return strconv.Itoa(int(id.ChainId)) + ":" + id.Address.ToLowerStr()
}
