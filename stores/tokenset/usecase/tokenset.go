package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/tokenset"
	"github.com/x-xyz/aggregator/service/cache"
	"github.com/x-xyz/aggregator/service/cache/provider"
	"github.com/x-xyz/aggregator/service/cache/provider/compound"
	"github.com/x-xyz/aggregator/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/aggregator/service/cache/provider/redis"
	"github.com/x-xyz/aggregator/service/redis"
	"golang.org/x/xerrors"
)

type TokenSetUseCaseCfg struct {
	TokenSetRepo tokenset.Repo
	Redis        redis.Service
}

type impl struct {
	tokenSetRepo tokenset.Repo
	// caches positive existence checks, the save path hits the same set
	// ids over and over
	existsCache cache.Service
}

func New(cfg *TokenSetUseCaseCfg) tokenset.UseCase {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("tokenset", 1024),
	}
	if cfg.Redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(cfg.Redis))
	}

	return &impl{
		tokenSetRepo: cfg.TokenSetRepo,
		existsCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Hour,
			Pfx:   "tokenset",
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *impl) GetOrCreate(c ctx.Ctx, chainId domain.ChainId, id string) (*tokenset.TokenSet, error) {
	ts, err := im.tokenSetRepo.FindOne(c, tokenset.Id{ChainId: chainId, Id: id})
	if err == nil {
		return ts, nil
	} else if err != domain.ErrNotFound {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to tokenSetRepo.FindOne")
		return nil, err
	}

	schema, contract, extra, err := parseId(id)
	if err != nil {
		return nil, err
	}

	ts = &tokenset.TokenSet{
		Id:        id,
		ChainId:   chainId,
		Schema:    schema,
		Contract:  contract,
		CreatedAt: time.Now(),
	}
	switch schema {
	case tokenset.SchemaToken:
		ts.TokenIds = []string{extra}
	case tokenset.SchemaContract:
	case tokenset.SchemaTokenList:
		// the root alone cannot recover the token ids, lists have to be
		// registered through CreateTokenList first
		return nil, tokenset.ErrUnknownTokenList
	default:
		return nil, xerrors.Errorf("unsupported token set schema %s", schema)
	}

	if err := im.tokenSetRepo.Upsert(c, ts); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to tokenSetRepo.Upsert")
		return nil, err
	}
	im.markExists(c, chainId, id)
	return ts, nil
}

func (im *impl) CreateTokenList(c ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenIds []string, schemaHash string) (*tokenset.TokenSet, error) {
	if len(tokenIds) == 0 {
		return nil, xerrors.New("empty token list")
	}

	root, err := tokenset.MerkleRoot(tokenIds)
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"contract": contract,
		}).Error("failed to tokenset.MerkleRoot")
		return nil, err
	}

	ts := &tokenset.TokenSet{
		Id:         "list:" + contract.ToLowerStr() + ":" + root,
		ChainId:    chainId,
		Schema:     tokenset.SchemaTokenList,
		SchemaHash: schemaHash,
		Contract:   contract.ToLower(),
		TokenIds:   tokenIds,
		MerkleRoot: root,
		CreatedAt:  time.Now(),
	}
	if err := im.tokenSetRepo.Upsert(c, ts); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  ts.Id,
		}).Error("failed to tokenSetRepo.Upsert")
		return nil, err
	}
	im.markExists(c, chainId, ts.Id)
	return ts, nil
}

func (im *impl) Exists(c ctx.Ctx, chainId domain.ChainId, id string) (bool, error) {
	known := false
	if err := im.existsCache.Get(c, existsKey(chainId, id), &known); err == nil && known {
		return true, nil
	}

	_, err := im.tokenSetRepo.FindOne(c, tokenset.Id{ChainId: chainId, Id: id})
	if err == domain.ErrNotFound {
		return false, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to tokenSetRepo.FindOne")
		return false, err
	}
	im.markExists(c, chainId, id)
	return true, nil
}

// markExists only caches positive results so a later registration does not
// fight a stale negative entry.
func (im *impl) markExists(c ctx.Ctx, chainId domain.ChainId, id string) {
	known := true
	if err := im.existsCache.Set(c, existsKey(chainId, id), &known); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Warn("failed to existsCache.Set")
	}
}

func existsKey(chainId domain.ChainId, id string) string {
	return strconv.Itoa(int(chainId)) + ":" + id
}

func parseId(id string) (tokenset.Schema, domain.Address, string, error) {
	parts := strings.Split(id, ":")
	switch {
	case len(parts) == 3 && parts[0] == "token":
		return tokenset.SchemaToken, domain.Address(parts[1]).ToLower(), parts[2], nil
	case len(parts) == 2 && parts[0] == "contract":
		return tokenset.SchemaContract, domain.Address(parts[1]).ToLower(), "", nil
	case len(parts) == 3 && parts[0] == "list":
		return tokenset.SchemaTokenList, domain.Address(parts[1]).ToLower(), parts[2], nil
	}
	return "", "", "", xerrors.Errorf("invalid token set id %s", id)
}
