package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/database/mongoclient"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/tokenset"
	"github.com/x-xyz/aggregator/service/query"
)

type tokenSetRepoImpl struct {
	q query.Mongo
}

func NewTokenSetRepo(q query.Mongo) tokenset.Repo {
	return &tokenSetRepoImpl{q: q}
}

func (im *tokenSetRepoImpl) FindAll(ctx ctx.Ctx, optFns ...tokenset.FindAllOptionsFunc) ([]*tokenset.TokenSet, error) {
	opts, err := tokenset.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to tokenset.GetFindAllOptions")
		return nil, err
	}

	qry := bson.M{}
	if opts.ChainId != nil {
		qry["chainId"] = *opts.ChainId
	}
	if opts.Contract != nil {
		qry["contract"] = opts.Contract.ToLower()
	}
	if opts.Schema != nil {
		qry["schema"] = *opts.Schema
	}

	limit := 0
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*tokenset.TokenSet{}
	if err := im.q.Search(ctx, domain.TableTokenSets, 0, limit, "-createdAt", qry, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}
	return res, nil
}

func (im *tokenSetRepoImpl) FindOne(ctx ctx.Ctx, id tokenset.Id) (*tokenset.TokenSet, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := tokenset.TokenSet{}
	err = im.q.FindOne(ctx, domain.TableTokenSets, qry, &res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return &res, nil
}

func (im *tokenSetRepoImpl) Upsert(ctx ctx.Ctx, ts *tokenset.TokenSet) error {
	ts.Contract = ts.Contract.ToLower()
	selector, err := mongoclient.MakeBsonM(ts.ToId())
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  ts.Id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	if err := im.q.Upsert(ctx, domain.TableTokenSets, selector, ts); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  ts.Id,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}
