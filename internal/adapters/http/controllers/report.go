package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/service"
)

type ReportController struct {
	reports *service.ReportService
}

func NewReportController(reports *service.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

type ProductReportResponse struct {
	ProductID    string      `json:"productId"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Price        json.Number `json:"price" swaggertype:"number"`
	Quantity     int         `json:"quantity"`
	TotalStocked int         `json:"totalStocked"`
	TotalSold    int         `json:"totalSold"`
	StockValue   json.Number `json:"stockValue" swaggertype:"number"`
	Revenue      json.Number `json:"revenue" swaggertype:"number"`
	LowStock     bool        `json:"lowStock"`
}

type SummaryResponse struct {
	ProductCount      int                     `json:"productCount"`
	TotalUnits        int                     `json:"totalUnits"`
	TotalStockValue   json.Number             `json:"totalStockValue" swaggertype:"number"`
	TotalRevenue      json.Number             `json:"totalRevenue" swaggertype:"number"`
	LowStockThreshold int                     `json:"lowStockThreshold"`
	LowStock          []ProductReportResponse `json:"lowStock"`
	Products          []ProductReportResponse `json:"products"`
	GeneratedAt       time.Time               `json:"generatedAt"`
}

type DriftResponse struct {
	ProductID string `json:"productId"`
	Field     string `json:"field" example:"quantity"`
	Recorded  int    `json:"recorded"`
	Replayed  int    `json:"replayed"`
}

type ReconciliationResponse struct {
	Consistent          bool            `json:"consistent"`
	CheckedProducts     int             `json:"checkedProducts"`
	CheckedTransactions int             `json:"checkedTransactions"`
	Drifts              []DriftResponse `json:"drifts"`
	CheckedAt           time.Time       `json:"checkedAt"`
}

func newProductReportRows(rows []domain.ProductReport) []ProductReportResponse {
	response := make([]ProductReportResponse, len(rows))
	for i, row := range rows {
		response[i] = ProductReportResponse{
			ProductID:    string(row.ProductID),
			Name:         row.Name,
			Category:     row.Category,
			Price:        money(row.Price),
			Quantity:     row.Quantity,
			TotalStocked: row.TotalStocked,
			TotalSold:    row.TotalSold,
			StockValue:   money(row.StockValue),
			Revenue:      money(row.Revenue),
			LowStock:     row.LowStock,
		}
	}
	return response
}

// Summary godoc
// @Summary     Inventory summary
// @Description Stock value, revenue and low-stock products
// @Tags        reports
// @Produce     json
// @Success     200 {object} SummaryResponse
// @Router      /api/v1/reports/summary [get]
func (rc *ReportController) Summary(c *gin.Context) {
	summary := rc.reports.Summary(c.Request.Context())
	c.JSON(http.StatusOK, SummaryResponse{
		ProductCount:      summary.ProductCount,
		TotalUnits:        summary.TotalUnits,
		TotalStockValue:   money(summary.TotalStockValue),
		TotalRevenue:      money(summary.TotalRevenue),
		LowStockThreshold: summary.LowStockThreshold,
		LowStock:          newProductReportRows(summary.LowStock),
		Products:          newProductReportRows(summary.Products),
		GeneratedAt:       summary.GeneratedAt,
	})
}

// Reconciliation godoc
// @Summary     Ledger reconciliation
// @Description Replays the transaction log and reports products whose counters disagree with it
// @Tags        reports
// @Produce     json
// @Success     200 {object} ReconciliationResponse
// @Router      /api/v1/reports/reconciliation [get]
func (rc *ReportController) Reconciliation(c *gin.Context) {
	report := rc.reports.Reconcile(c.Request.Context())

	drifts := make([]DriftResponse, len(report.Drifts))
	for i, d := range report.Drifts {
		drifts[i] = DriftResponse{ProductID: string(d.ProductID), Field: d.Field, Recorded: d.Recorded, Replayed: d.Replayed}
	}
	c.JSON(http.StatusOK, ReconciliationResponse{
		Consistent:          report.Consistent(),
		CheckedProducts:     report.CheckedProducts,
		CheckedTransactions: report.CheckedTransactions,
		Drifts:              drifts,
		CheckedAt:           report.CheckedAt,
	})
}
