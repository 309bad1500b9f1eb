package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/service/query"
)

type crossPostRepoImpl struct {
	q query.Mongo
}

func NewCrossPostRepo(q query.Mongo) order.CrossPostRepo {
	return &crossPostRepoImpl{q: q}
}

func (im *crossPostRepoImpl) Insert(ctx ctx.Ctx, o *order.CrossPostingOrder) error {
	o.OrderId = o.OrderId.ToLower()
	if err := im.q.Insert(ctx, domain.TableCrossPosts, o); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"orderId": o.OrderId,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *crossPostRepoImpl) UpdateStatus(ctx ctx.Ctx, id string, status order.CrossPostingStatus) error {
	selector := bson.M{"id": id}
	updater := bson.M{"status": status, "updatedAt": time.Now()}
	if err := im.q.Patch(ctx, domain.TableCrossPosts, selector, updater); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.Patch")
		return err
	}
	return nil
}
