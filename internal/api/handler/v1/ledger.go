package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/buckutt/buckutt-api/internal/api/handler/v1/request"
	"github.com/buckutt/buckutt-api/internal/api/handler/v1/response"
	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/service"
)

type LedgerService interface {
	CreatePurchase(ctx context.Context, in service.PurchaseInput) (domain.User, error)
	CreateReload(ctx context.Context, in service.ReloadInput) (domain.User, error)
	ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error)
	ListReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.Reload, error)
	SummarizePurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.PurchaseSummary, error)
	SummarizeReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.ReloadSummary, error)
	TotalPurchases(ctx context.Context, filter domain.PurchaseFilter) (decimal.Decimal, error)
	TotalReloads(ctx context.Context, filter domain.ReloadFilter) (decimal.Decimal, error)
}

type LedgerHandler struct {
	svc LedgerService
}

func NewLedgerHandler(svc LedgerService) *LedgerHandler {
	return &LedgerHandler{
		svc: svc,
	}
}

// HandleCreatePurchase godoc
// @Summary      Sell articles to a buyer
// @Description  Prices every article for the buyer, then debits the total in one transaction. The seller is the authenticated user.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreatePurchaseRequest  true  "request body"
// @Success      201      {object}  response.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      402      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /purchases [post]
// @Security BearerAuth
func (h *LedgerHandler) HandleCreatePurchase(ctx *gin.Context) {
	sellerID, respErr := sellerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	buyer, err := h.svc.CreatePurchase(ctx.Request.Context(), service.PurchaseInput{
		BuyerID:    req.BuyerID,
		SellerID:   sellerID,
		PointID:    req.SellingPointID,
		ArticleIDs: req.Articles,
	})
	if err != nil {
		var unresolvable *service.UnresolvableArticlesError
		switch {
		case errors.As(err, &unresolvable):
			response.RenderErr(ctx, response.ErrArticlesNotFound(err, unresolvable.IDs))
		case errors.Is(err, service.ErrCartEmpty):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			response.RenderErr(ctx, ledgerErr("v1.HandleCreatePurchase -> h.svc.CreatePurchase", err, req.BuyerID, req.SellingPointID))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewUser(buyer))
}

// HandleCreateReload godoc
// @Summary      Credit a buyer
// @Tags         reloads
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateReloadRequest  true  "request body"
// @Success      201      {object}  response.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /reloads [post]
// @Security BearerAuth
func (h *LedgerHandler) HandleCreateReload(ctx *gin.Context) {
	sellerID, respErr := sellerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateReloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	buyer, err := h.svc.CreateReload(ctx.Request.Context(), service.ReloadInput{
		BuyerID:  req.BuyerID,
		SellerID: sellerID,
		PointID:  req.SellingPointID,
		Amount:   req.Amount,
		Trace:    req.Trace,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) || errors.Is(err, service.ErrAmountTooLarge) || errors.Is(err, service.ErrTraceTooLong) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		response.RenderErr(ctx, ledgerErr("v1.HandleCreateReload -> h.svc.CreateReload", err, req.BuyerID, req.SellingPointID))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewUser(buyer))
}

func ledgerErr(op string, err error, buyerID, pointID uint) *response.Err {
	switch {
	case errors.Is(err, service.ErrSellerNotFound):
		return response.ErrUnauthorized(err)
	case errors.Is(err, service.ErrUserNotFound):
		return response.ErrNotFound("user", "ID", buyerID)
	case errors.Is(err, service.ErrSellingPointNotFound):
		return response.ErrNotFound("selling point", "ID", pointID)
	case errors.Is(err, service.ErrInsufficientCredit):
		return response.ErrPaymentRequired(err)
	case errors.Is(err, service.ErrConflict):
		return response.ErrConflict(err)
	default:
		return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
	}
}
