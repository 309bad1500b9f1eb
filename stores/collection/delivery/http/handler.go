package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/delivery"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
)

type handler struct {
	collection collection.UseCase
}

func New(e *echo.Echo, collectionUC collection.UseCase) {
	h := &handler{collectionUC}

	g := e.Group("/collection/:chainId/:contract")

	g.GET("", h.getCollection)

	g.GET("/royalties", h.getRoyalties)

	g.GET("/floor-ask", h.getFloorAsk)
}

type collectionParams struct {
	ChainId  domain.ChainId `param:"chainId"`
	Contract domain.Address `param:"contract"`
	MaxBps   int            `query:"maxBps"`
}

func (p *collectionParams) toId() collection.CollectionId {
	return collection.CollectionId{ChainId: p.ChainId, Address: p.Contract.ToLower()}
}

func (h *handler) getCollection(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := &collectionParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	coll, err := h.collection.FindOne(ctx, p.toId())
	if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, coll)
}

func (h *handler) getRoyalties(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := &collectionParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if p.MaxBps == 0 {
		p.MaxBps = 10000
	}

	royalties, err := h.collection.GetRoyalties(ctx, p.toId(), p.MaxBps)
	if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, royalties)
}

func (h *handler) getFloorAsk(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := &collectionParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	value, err := h.collection.GetFloorAskValue(ctx, p.toId())
	if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]string{"floorAsk": value})
}
