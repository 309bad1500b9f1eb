package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/fillevent"
	"github.com/x-xyz/aggregator/service/query"
)

type fillEventRepoImpl struct {
	q query.Mongo
}

func NewFillEventRepo(q query.Mongo) fillevent.Repo {
	return &fillEventRepoImpl{q: q}
}

func (im *fillEventRepoImpl) InsertFill(ctx ctx.Ctx, event *fillevent.FillEvent) error {
	event.OrderHash = event.OrderHash.ToLower()
	event.Maker = event.Maker.ToLower()
	event.Taker = event.Taker.ToLower()
	event.Contract = event.Contract.ToLower()
	event.Currency = event.Currency.ToLower()

	selector := bson.M{
		"chainId":   event.ChainId,
		"orderHash": event.OrderHash,
		"txHash":    event.TxHash,
		"logIndex":  event.LogIndex,
	}
	if err := im.q.Upsert(ctx, domain.TableFillEvents, selector, event); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"orderHash": event.OrderHash,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

func (im *fillEventRepoImpl) InsertCancel(ctx ctx.Ctx, event *fillevent.CancelEvent) error {
	event.OrderHash = event.OrderHash.ToLower()
	event.Maker = event.Maker.ToLower()

	selector := bson.M{
		"chainId":   event.ChainId,
		"orderHash": event.OrderHash,
		"txHash":    event.TxHash,
		"logIndex":  event.LogIndex,
	}
	if err := im.q.Upsert(ctx, domain.TableCancelEvents, selector, event); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"orderHash": event.OrderHash,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

func (im *fillEventRepoImpl) FindFills(ctx ctx.Ctx, optFns ...fillevent.FindAllOptionsFunc) ([]*fillevent.FillEvent, error) {
	qry, offset, limit, err := makeFindQuery(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	res := []*fillevent.FillEvent{}
	if err := im.q.Search(ctx, domain.TableFillEvents, offset, limit, "-timestamp", qry, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}
	return res, nil
}

func (im *fillEventRepoImpl) FindCancels(ctx ctx.Ctx, optFns ...fillevent.FindAllOptionsFunc) ([]*fillevent.CancelEvent, error) {
	qry, offset, limit, err := makeFindQuery(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	res := []*fillevent.CancelEvent{}
	if err := im.q.Search(ctx, domain.TableCancelEvents, offset, limit, "-timestamp", qry, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}
	return res, nil
}

func makeFindQuery(ctx ctx.Ctx, optFns ...fillevent.FindAllOptionsFunc) (bson.M, int, int, error) {
	opts, err := fillevent.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to fillevent.GetFindAllOptions")
		return nil, 0, 0, err
	}

	qry := bson.M{}
	if opts.ChainId != nil {
		qry["chainId"] = *opts.ChainId
	}
	if opts.OrderHash != nil {
		qry["orderHash"] = opts.OrderHash.ToLower()
	}
	if opts.Contract != nil {
		qry["contract"] = opts.Contract.ToLower()
	}
	if opts.TxHash != nil {
		qry["txHash"] = *opts.TxHash
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
