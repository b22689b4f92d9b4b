package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buckutt/buckutt-api/internal/api/handler/v1/request"
	"github.com/buckutt/buckutt-api/internal/api/handler/v1/response"
	"github.com/buckutt/buckutt-api/internal/domain"
)

type PricingService interface {
	AvailableArticles(ctx context.Context, pointID, buyerID uint) ([]domain.AvailableArticle, error)
}

type ArticleHandler struct {
	svc PricingService
}

func NewArticleHandler(svc PricingService) *ArticleHandler {
	return &ArticleHandler{
		svc: svc,
	}
}

// HandleGetAvailable godoc
// @Summary      List the articles a buyer can be sold at a selling point
// @Tags         articles
// @Produce      json
// @Param        selling_point_id  query     int  true  "Selling point ID"
// @Param        user_id           query     int  true  "Buyer ID"
// @Success      200               {object}  response.AvailableArticles
// @Failure      400               {object}  response.Err
// @Failure      401               {object}  response.Err
// @Failure      500               {object}  response.Err
// @Router       /articles/available [get]
// @Security BearerAuth
func (h *ArticleHandler) HandleGetAvailable(ctx *gin.Context) {
	var q request.AvailableArticlesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	articles, err := h.svc.AvailableArticles(ctx.Request.Context(), q.SellingPointID, q.UserID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAvailable -> h.svc.AvailableArticles -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.AvailableArticles{Articles: articles})
}
