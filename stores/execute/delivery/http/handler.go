package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/delivery"
	"github.com/x-xyz/aggregator/domain/execute"
)

type handler struct {
	execute execute.UseCase
}

func New(e *echo.Echo, executeUC execute.UseCase) {
	h := &handler{executeUC}

	g := e.Group("/execute")

	g.POST("/bid/v5", h.executeBid)

	g.POST("/buy/v7", h.executeBuy)

	g.POST("/sell/v7", h.executeSell)
}

func (h *handler) executeBuy(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	req := &execute.BuyRequest{}
	if err := c.Bind(req); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	resp, err := h.execute.ExecuteBuy(ctx, req)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, resp)
}

func (h *handler) executeSell(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	req := &execute.SellRequest{}
	if err := c.Bind(req); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	resp, err := h.execute.ExecuteSell(ctx, req)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, resp)
}

func (h *handler) executeBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	req := &execute.BidRequest{}
	if err := c.Bind(req); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	resp, err := h.execute.ExecuteBid(ctx, req)
	if err != nil {
		if resp == nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
		// nothing signable, report the failure with the per item detail
		return c.JSON(http.StatusBadRequest, delivery.JsonResponse{
			Data: map[string]interface{}{
				"message": err.Error(),
				"errors":  resp.Errors,
			},
			Status: delivery.JsonResponseStatusFail,
		})
	}
	return delivery.MakeJsonResp(c, http.StatusOK, resp)
}
