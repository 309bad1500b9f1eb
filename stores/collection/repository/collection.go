package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/database/mongoclient"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	"github.com/x-xyz/aggregator/service/query"
)

type collectionRepoImpl struct {
	q query.Mongo
}

func NewCollectionRepo(q query.Mongo) collection.Repo {
	return &collectionRepoImpl{q: q}
}

func makeFindQuery(optFns ...collection.FindAllOptionsFunc) (bson.M, int, int, error) {
	opts, err := collection.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, 0, 0, err
	}

	qry := bson.M{}
	if opts.ChainId != nil {
		qry["chainId"] = *opts.ChainId
	}
	if opts.Contract != nil {
		qry["contract"] = opts.Contract.ToLower()
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}
	return qry, offset, limit, nil
}

func (im *collectionRepoImpl) FindAll(ctx ctx.Ctx, optFns ...collection.FindAllOptionsFunc) ([]*collection.Collection, error) {
	qry, offset, limit, err := makeFindQuery(optFns...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to makeFindQuery")
		return nil, err
	}

	res := []*collection.Collection{}
	if err := im.q.Search(ctx, domain.TableCollections, offset, limit, "-updatedAt", qry, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}
	return res, nil
}

func (im *collectionRepoImpl) FindOne(ctx ctx.Ctx, id collection.CollectionId) (*collection.Collection, error) {
	id.Address = id.Address.ToLower()
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := collection.Collection{}
	err = im.q.FindOne(ctx, domain.TableCollections, qry, &res)
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

func (im *collectionRepoImpl) Upsert(ctx ctx.Ctx, col *collection.Collection) error {
	col.Contract = col.Contract.ToLower()
	selector, err := mongoclient.MakeBsonM(col.ToId())
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	if err := im.q.Upsert(ctx, domain.TableCollections, selector, col); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"contract": col.Contract,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

func (im *collectionRepoImpl) Patch(ctx ctx.Ctx, id collection.CollectionId, patchable collection.Patchable) error {
	id.Address = id.Address.ToLower()
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	patch, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	if err := im.q.Patch(ctx, domain.TableCollections, selector, patch); err != nil && err != query.ErrNotFound {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.Patch")
		return err
	}
	return nil
}
