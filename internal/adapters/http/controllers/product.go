package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/handlers"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/dto"
	"github.com/rafaelleal24/stockledger/internal/core/service"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
)

type ProductController struct {
	ledger *service.LedgerService
}

func NewProductController(ledger *service.LedgerService) *ProductController {
	return &ProductController{ledger: ledger}
}

// CreateProduct godoc
// @Summary     Create a product
// @Description Creates a product and logs its initial stock as an add transaction
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       request body     dto.CreateProductRequest true "Product data"
// @Success     201     {object} ProductResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     500     {object} handlers.ErrorResponse
// @Router      /api/v1/products [post]
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var request dto.CreateProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	product, err := pc.ledger.CreateProduct(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewProductResponse(product))
}

// GetAll godoc
// @Summary     List all products
// @Description Returns all products in creation order
// @Tags        products
// @Produce     json
// @Success     200 {array} ProductResponse
// @Router      /api/v1/products [get]
func (pc *ProductController) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, NewProductListResponse(pc.ledger.ListProducts(c.Request.Context())))
}

// GetByID godoc
// @Summary     Get a product
// @Tags        products
// @Produce     json
// @Param       id  path     string true "Product ID"
// @Success     200 {object} ProductResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [get]
func (pc *ProductController) GetByID(c *gin.Context) {
	product, err := pc.ledger.GetProduct(c.Request.Context(), domain.ID(c.Param("id")))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}

// UpdateProduct godoc
// @Summary     Update a product
// @Description Patches the given fields. A quantity set here is not logged as a transaction.
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id      path     string                   true "Product ID"
// @Param       request body     dto.UpdateProductRequest true "Fields to change"
// @Success     200     {object} ProductResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     404     {object} handlers.ErrorResponse
// @Failure     500     {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [put]
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var request dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	product, err := pc.ledger.UpdateProduct(c.Request.Context(), domain.ID(c.Param("id")), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}

// DeleteProduct godoc
// @Summary     Delete a product
// @Description Removes the product and logs its remaining stock as a delete transaction
// @Tags        products
// @Produce     json
// @Param       id  path     string true "Product ID"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [delete]
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.ledger.DeleteProduct(c.Request.Context(), domain.ID(c.Param("id"))); err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
