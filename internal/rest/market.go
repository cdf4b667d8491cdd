package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/senuthbros6699-eng/dialect/internal/rest/request"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/market"
)

type MarketService interface {
	Fetch(ctx context.Context) ([]domain.MarketItem, error)
	Sell(ctx context.Context, viewer *domain.Viewer, l market.Listing) (domain.MarketItem, error)
}

type MarketHandler struct {
	Service MarketService
}

func NewMarketHandler(svc MarketService) *MarketHandler {
	return &MarketHandler{
		Service: svc,
	}
}

func (h *MarketHandler) Fetch(c *gin.Context) {
	items, err := h.Service.Fetch(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	res := make([]response.MarketItem, len(items))
	for i := range items {
		res[i] = response.NewMarketItemFromDomain(&items[i])
	}
	c.JSON(http.StatusOK, res)
}

// Sell takes a multipart form with title, price and image
func (h *MarketHandler) Sell(c *gin.Context) {
	viewer := middleware.ViewerOf(c)
	if viewer == nil {
		abortWithError(c, domain.ErrUnauthenticated)
		return
	}
	var req request.Listing
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: "an image is required"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer file.Close()

	item, err := h.Service.Sell(c.Request.Context(), viewer, market.Listing{
		Title:       req.Title,
		Price:       req.Price,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Image:       file,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewMarketItemFromDomain(&item))
}
