package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/delivery"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/exchange/seaport"
	"github.com/x-xyz/aggregator/service/paging"
	"github.com/x-xyz/aggregator/service/redis"
)

// maxAsksPerCollection caps a paging snapshot; anything past this is not
// reachable through the cursor.
const maxAsksPerCollection = 1000

type handler struct {
	order      order.UseCase
	crossPosts order.CrossPostRepo
	asksPaging paging.Service
}

func New(e *echo.Echo, orderUC order.UseCase, crossPosts order.CrossPostRepo, redisCache redis.Service) {
	h := &handler{order: orderUC, crossPosts: crossPosts}

	if redisCache != nil {
		h.asksPaging = paging.New(&paging.PagingConfig{
			RedisCache:    redisCache,
			KeyPfx:        "asks",
			Getter:        h.loadAsks,
			RenewDuration: 30 * time.Second,
			CacheDuration: 5 * time.Minute,
			ShardSize:     50,
		})
	}

	g := e.Group("/order")

	g.POST("/v3", h.postOrderV3)

	g.POST("/v4", h.postOrderV4)

	g.GET("/:chainId/:hash", h.getOrder)

	e.GET("/orders", h.getAll)

	e.GET("/orders/asks/:chainId/:contract", h.getAsks)
}

type findAllParams struct {
	ChainId    *domain.ChainId `query:"chainId"`
	Contract   *domain.Address `query:"contract"`
	Maker      *domain.Address `query:"maker"`
	TokenSetId *string         `query:"tokenSetId"`
	Side       *order.Side     `query:"side"`
	Offset     int32           `query:"offset"`
	Limit      int32           `query:"limit"`
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := &findAllParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []order.FindAllOptionsFunc{}
	if p.ChainId != nil {
		opts = append(opts, order.WithChainId(*p.ChainId))
	}
	if p.Contract != nil {
		opts = append(opts, order.WithContract(*p.Contract))
	}
	if p.Maker != nil {
		opts = append(opts, order.WithMaker(*p.Maker))
	}
	if p.TokenSetId != nil {
		opts = append(opts, order.WithTokenSetId(*p.TokenSetId))
	}
	if p.Side != nil {
		opts = append(opts, order.WithSide(*p.Side))
	}
	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, order.WithPagination(p.Offset, p.Limit))
	} else {
		opts = append(opts, order.WithPagination(0, 50))
	}

	orders, err := h.order.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, orders)
}

type getAsksParams struct {
	ChainId  domain.ChainId `param:"chainId"`
	Contract domain.Address `param:"contract"`
	Cursor   string         `query:"cursor"`
	Limit    int            `query:"limit"`
}

// asks are paged through redis snapshots so deep scrolls do not fan out to
// mongo; the cursor is opaque to callers.
func (h *handler) getAsks(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	if h.asksPaging == nil {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, "paging unavailable")
	}

	p := &getAsksParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if p.Limit <= 0 || p.Limit > 50 {
		p.Limit = 20
	}

	key := fmt.Sprintf("%d:%s", p.ChainId, p.Contract.ToLower())
	asks := []*order.Order{}
	nextCursor, totalCount, err := h.asksPaging.Get(ctx, key, p.Cursor, p.Limit, &asks)
	if err == paging.ErrBadCursor {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid cursor")
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"orders":       asks,
		"continuation": nextCursor,
		"totalCount":   totalCount,
	})
}

func (h *handler) loadAsks(ctx bCtx.Ctx, key string) (interface{}, error) {
	var chainId domain.ChainId
	var contract string
	if _, err := fmt.Sscanf(key, "%d:%s", &chainId, &contract); err != nil {
		return nil, err
	}

	return h.order.FindAll(ctx,
		order.WithChainId(chainId),
		order.WithContract(domain.Address(contract)),
		order.WithSide(order.SideSell),
		order.WithFillability(order.FillabilityFillable),
		order.WithSort("priceInUsd", domain.SortDirAsc),
		order.WithPagination(0, maxAsksPerCollection),
	)
}

type getOrderParams struct {
	ChainId domain.ChainId   `param:"chainId"`
	Hash    domain.OrderHash `param:"hash"`
}

func (h *handler) getOrder(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := &getOrderParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	o, err := h.order.GetOrder(ctx, order.Id{ChainId: p.ChainId, Hash: p.Hash.ToLower()})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, o)
}

func (h *handler) postOrderV3(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	req := &order.SubmitRequest{}
	if err := c.Bind(req); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if len(req.Items) != 1 {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "exactly one order is expected")
	}

	results, err := h.submit(ctx, req)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, results[0])
}

func (h *handler) postOrderV4(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	req := &order.SubmitRequest{}
	if err := c.Bind(req); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if len(req.Items) == 0 {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "at least one order is expected")
	}
	if len(req.Items) > 1 {
		for _, item := range req.Items {
			if item.Order.Kind != order.KindSeaportV14 {
				return delivery.MakeJsonResp(c, http.StatusBadRequest, "bulk order batches must be seaport-v1.4")
			}
		}
	}

	results, err := h.submit(ctx, req)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{"results": results})
}

// submit saves reservoir orders through the validation pipeline in one
// batch and queues the rest for cross posting, preserving request order.
func (h *handler) submit(ctx bCtx.Ctx, req *order.SubmitRequest) ([]order.SubmitResult, error) {
	chainId := req.ChainId
	if chainId == 0 {
		chainId = 1
	}

	results := make([]order.SubmitResult, len(req.Items))
	inputs := []*order.SaveInput{}
	inputIdx := []int{}

	for i, item := range req.Items {
		results[i].OrderIndex = i

		raw := item.Order.Data
		if item.BulkData != nil {
			encoded, err := encodeBulkItem(raw, item.BulkData)
			if err != nil {
				ctx.WithFields(log.Fields{
					"err":        err,
					"orderIndex": i,
				}).Warn("failed to encode bulk signature")
				results[i].Message = string(order.SaveStatusInvalidFormat)
				continue
			}
			raw = encoded
		}

		orderbook := item.Orderbook
		if orderbook == "" {
			orderbook = order.OrderbookReservoir
		}

		if orderbook != order.OrderbookReservoir {
			id, err := h.queueCrossPost(ctx, chainId, req.Source, orderbook, item.Order.Kind, raw)
			if err != nil {
				results[i].Message = string(order.SaveStatusUnknownError)
				continue
			}
			results[i].Message = string(order.SaveStatusSuccess)
			results[i].CrossPostingOrderId = id
			continue
		}

		inputs = append(inputs, &order.SaveInput{
			ChainId:  chainId,
			Kind:     item.Order.Kind,
			RawOrder: raw,
			Metadata: order.SaveMetadata{Source: req.Source},
		})
		inputIdx = append(inputIdx, i)
	}

	if len(inputs) > 0 {
		saved, err := h.order.Save(ctx, inputs)
		if err != nil {
			return nil, err
		}
		for j, r := range saved {
			i := inputIdx[j]
			results[i].Message = string(r.Status)
			results[i].OrderId = r.Id
		}
	}
	return results, nil
}

func (h *handler) queueCrossPost(ctx bCtx.Ctx, chainId domain.ChainId, source, orderbook string, kind order.Kind, raw json.RawMessage) (string, error) {
	cp := &order.CrossPostingOrder{
		Id:        uuid.NewString(),
		ChainId:   chainId,
		Kind:      kind,
		Orderbook: orderbook,
		Source:    source,
		RawOrder:  raw,
		Status:    order.CrossPostingStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if kind == order.KindSeaport || kind == order.KindSeaportV14 {
		so := &seaport.Order{ChainId: chainId, Version: seaport.VersionV14}
		if err := json.Unmarshal(raw, &so.Params); err == nil {
			if hash, err := so.HashHex(); err == nil {
				cp.OrderId = hash.ToLower()
			}
		}
	}

	if err := h.crossPosts.Insert(ctx, cp); err != nil {
		return "", err
	}
	return cp.Id, nil
}

func encodeBulkItem(raw json.RawMessage, bulk *order.BulkData) (json.RawMessage, error) {
	comps := seaport.OrderComponents{}
	if err := json.Unmarshal(raw, &comps); err != nil {
		return nil, err
	}
	sig, err := hexutil.Decode(comps.Signature)
	if err != nil {
		return nil, err
	}
	proofs := make([][]byte, len(bulk.Data.MerkleProof))
	for i, p := range bulk.Data.MerkleProof {
		if proofs[i], err = hexutil.Decode(p); err != nil {
			return nil, err
		}
	}
	comps.Signature = hexutil.Encode(seaport.EncodeBulkSignature(sig, uint32(bulk.Data.OrderIndex), proofs))
	return json.Marshal(comps)
}
