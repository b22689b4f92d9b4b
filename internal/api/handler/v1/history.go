package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buckutt/buckutt-api/internal/api/handler/v1/request"
	"github.com/buckutt/buckutt-api/internal/api/handler/v1/response"
)

func bindHistoryQuery(ctx *gin.Context) (request.HistoryQuery, bool) {
	var q request.HistoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return q, false
	}
	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return q, false
	}

	return q, true
}

// HandleListPurchases godoc
// @Summary      List purchases, newest first
// @Tags         purchases
// @Produce      json
// @Param        before      query     string  false  "RFC 3339 upper bound"
// @Param        after       query     string  false  "RFC 3339 lower bound"
// @Param        buyer       query     int     false  "Buyer ID"
// @Param        foundation  query     int     false  "Foundation ID"
// @Param        limit       query     int     false  "Page size"
// @Param        offset      query     int     false  "Page offset"
// @Success      200         {object}  response.Purchases
// @Failure      400         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /purchases [get]
// @Security BearerAuth
func (h *LedgerHandler) HandleListPurchases(ctx *gin.Context) {
	q, ok := bindHistoryQuery(ctx)
	if !ok {
		return
	}

	purchases, err := h.svc.ListPurchases(ctx.Request.Context(), q.PurchaseFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPurchases -> h.svc.ListPurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Purchases{Purchases: purchases})
}

// HandleSummarizePurchases godoc
// @Summary      Purchases grouped by article, selling point and price
// @Tags         purchases
// @Produce      json
// @Param        before      query     string  false  "RFC 3339 upper bound"
// @Param        after       query     string  false  "RFC 3339 lower bound"
// @Param        buyer       query     int     false  "Buyer ID"
// @Param        foundation  query     int     false  "Foundation ID"
// @Success      200         {object}  response.PurchaseSummaries
// @Failure      400         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /purchases/summary [get]
// @Security BearerAuth
func (h *LedgerHandler) HandleSummarizePurchases(ctx *gin.Context) {
	q, ok := bindHistoryQuery(ctx)
	if !ok {
		return
	}

	summaries, err := h.svc.SummarizePurchases(ctx.Request.Context(), q.PurchaseFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleSummarizePurchases -> h.svc.SummarizePurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PurchaseSummaries{Summaries: summaries})
}

// HandleTotalPurchases godoc
// @Summary      Sum of purchase prices
// @Tags         purchases
// @Produce      json
// @Param        before      query     string  false  "RFC 3339 upper bound"
// @Param        after       query     string  false  "RFC 3339 lower bound"
// @Param        buyer       query     int     false  "Buyer ID"
// @Param        foundation  query     int     false  "Foundation ID"
// @Success      200         {object}  response.Total
// @Failure      400         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /purchases/total [get]
// @Security BearerAuth
func (h *LedgerHandler) HandleTotalPurchases(ctx *gin.Context) {
	q, ok := bindHistoryQuery(ctx)
	if !ok {
		return
	}

	total, err := h.svc.TotalPurchases(ctx.Request.Context(), q.PurchaseFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleTotalPurchases -> h.svc.TotalPurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Total{Total: total})
}

// HandleListReloads godoc
// @Summary      List reloads, newest first
// @Tags         reloads
// @Produce      json
// @Param        before  query     string  false  "RFC 3339 upper bound"
// @Param        after   query     string  false  "RFC 3339 lower bound"
// @Param        buyer   query     int     false  "Buyer ID"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {object}  response.Reloads
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /reloads [get]
// @Security BearerAuth
func (h *LedgerHandler) HandleListReloads(ctx *gin.Context) {
	q, ok := bindHistoryQuery(ctx)
	if !ok {
		return
	}

	reloads, err := h.svc.ListReloads(ctx.Request.Context(), q.ReloadFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleListReloads -> h.svc.ListReloads -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Reloads{Reloads: reloads})
}

// HandleSummarizeReloads godoc
// @Summary      Reloads grouped by selling point
// @Tags         reloads
// @Produce      json
// @Param        before  query     string  false  "RFC 3339 upper bound"
// @Param        after   query     string  false  "RFC 3339 lower bound"
// @Param        buyer   query     int     false  "Buyer ID"
// @Success      200     {object}  response.ReloadSummaries
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /reloads/summary [get]
// @Security BearerAuth
func (h *LedgerHandler) HandleSummarizeReloads(ctx *gin.Context) {
	q, ok := bindHistoryQuery(ctx)
	if !ok {
		return
	}

	summaries, err := h.svc.SummarizeReloads(ctx.Request.Context(), q.ReloadFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleSummarizeReloads -> h.svc.SummarizeReloads -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ReloadSummaries{Summaries: summaries})
}

// HandleTotalReloads godoc
// @Summary      Sum of reload amounts
// @Tags         reloads
// @Produce      json
// @Param        before  query     string  false  "RFC 3339 upper bound"
// @Param        after   query     string  false  "RFC 3339 lower bound"
// @Param        buyer   query     int     false  "Buyer ID"
// @Success      200     {object}  response.Total
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /reloads/total [get]
// @Security BearerAuth
func (h *LedgerHandler) HandleTotalReloads(ctx *gin.Context) {
	q, ok := bindHistoryQuery(ctx)
	if !ok {
		return
	}

	total, err := h.svc.TotalReloads(ctx.Request.Context(), q.ReloadFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleTotalReloads -> h.svc.TotalReloads -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Total{Total: total})
}
