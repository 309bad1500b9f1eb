package repository

import (
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/database/mongoclient"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type orderRepoImpl struct {
	q query.Mongo
}

func NewOrderRepo(q query.Mongo) order.Repo {
	return &orderRepoImpl{q}
}

func (im *orderRepoImpl) makeQuery(opts ...order.FindAllOptionsFunc) (bson.M, error) {
	options, err := order.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.ChainId != nil {
		query["chainId"] = *options.ChainId
	}

	if options.Hash != nil {
		query["hash"] = options.Hash.ToLower()
	}

	if options.Kind != nil {
		query["kind"] = *options.Kind
	}

	if len(options.Kinds) > 0 {
		query["kind"] = bson.M{"$in": options.Kinds}
	}

	if options.Side != nil {
		query["side"] = *options.Side
	}

	if options.Maker != nil {
		query["maker"] = options.Maker.ToLower()
	}

	if options.Contract != nil {
		query["contract"] = options.Contract.ToLower()
	}

	if options.TokenSetId != nil {
		query["tokenSetId"] = *options.TokenSetId
	}

	if len(options.Fillability) > 0 {
		query["fillabilityStatus"] = bson.M{"$in": options.Fillability}
	}

	if len(options.Approval) > 0 {
		query["approvalStatus"] = bson.M{"$in": options.Approval}
	}

	if options.NonceLT != nil {
		query["nonce"] = bson.M{"$lt": *options.NonceLT}
	}

	if options.ValidUntilLT != nil {
		query["validUntil"] = bson.M{"$lt": *options.ValidUntilLT}
	}

	if options.IsNative != nil {
		query["isNative"] = *options.IsNative
	}

	return query, nil
}

func (im *orderRepoImpl) FindAll(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) ([]*order.Order, error) {
	options, err := order.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	offset := 0
	limit := 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}
	sort := "_id"
	if options.SortBy != nil {
		sort = *options.SortBy
		if options.SortDir != nil && *options.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}

	res := []*order.Order{}
	err = im.q.Search(ctx, domain.TableOrders, offset, limit, sort, qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *orderRepoImpl) Count(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableOrders, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *orderRepoImpl) FindOne(ctx ctx.Ctx, id order.Id) (*order.Order, error) {
	id.Hash = id.Hash.ToLower()
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := order.Order{}
	err = im.q.FindOne(ctx, domain.TableOrders, qry, &res)
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

// InsertIgnore relies on the unique index over (chainId, hash), duplicate
// key failures mean another ingestion path got there first.
func (im *orderRepoImpl) InsertIgnore(ctx ctx.Ctx, orders []*order.Order) ([]order.Id, error) {
	inserted := []order.Id{}
	for _, o := range orders {
		o.LowerCase()
		err := im.q.Insert(ctx, domain.TableOrders, o)
		if err == query.ErrDuplicateKey {
			continue
		} else if err != nil {
			ctx.WithFields(log.Fields{
				"err":  err,
				"hash": o.Hash,
			}).Error("failed to q.Insert")
			return inserted, err
		}
		inserted = append(inserted, o.ToId())
	}
	return inserted, nil
}

func (im *orderRepoImpl) Upsert(ctx ctx.Ctx, o *order.Order) error {
	o.LowerCase()
	id := o.ToId()
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	err = im.q.Upsert(ctx, domain.TableOrders, selector, o)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

func (im *orderRepoImpl) Update(ctx ctx.Ctx, id order.Id, patchable order.Patchable) error {
	id.Hash = id.Hash.ToLower()
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	if patchable.UpdatedAt == nil {
		now := time.Now()
		patchable.UpdatedAt = &now
	}
	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	err = im.q.Patch(ctx, domain.TableOrders, selector, updater)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
			"updater":  updater,
		}).Error("failed to q.Patch")
		return err
	}

	return nil
}

func (im *orderRepoImpl) UpdateAll(ctx ctx.Ctx, patchable order.Patchable, opts ...order.FindAllOptionsFunc) (int, error) {
	selector, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableOrders, selector)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to q.Count")
		return 0, err
	}
	if cnt == 0 {
		return 0, nil
	}

	if patchable.UpdatedAt == nil {
		now := time.Now()
		patchable.UpdatedAt = &now
	}
	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return 0, err
	}

	err = im.q.Patch(ctx, domain.TableOrders, selector, updater, query.WithPatchMany(true))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
			"updater":  updater,
		}).Error("failed to q.Patch")
		return 0, err
	}

	return cnt, nil
}

func (im *orderRepoImpl) RemoveAll(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) error {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return err
	}

	_, err = im.q.RemoveAll(ctx, domain.TableOrders, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.RemoveAll failed")
		return err
	}

	return nil
}
