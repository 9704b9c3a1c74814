package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
)

// currencyHandler handles HTTP requests related to currencies and conversions.
type currencyHandler struct {
	currencyService   portssvc.CurrencySvcFacade
	conversionService portssvc.ConversionSvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade, conv portssvc.ConversionSvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: cs, conversionService: conv}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade, conversionService portssvc.ConversionSvcFacade) {
	h := newCurrencyHandler(currencyService, conversionService)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/convert", h.convert)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

// listCurrencies godoc
// @Summary List currencies
// @Description Returns every currency known to the system.
// @Tags currencies
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list currencies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrenciesResponse(currencies))
}

// getCurrencyByCode godoc
// @Summary Get a currency
// @Tags currencies
// @Produce json
// @Param code path string true "ISO 4217 currency code"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Currency not found"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to get currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts using the current exchange rate. Unlike expense submission, a rate outage here is a hard failure.
// @Tags currencies
// @Produce json
// @Param amount query number true "Amount to convert"
// @Param from query string true "Source ISO 4217 code"
// @Param to query string true "Target ISO 4217 code"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Exchange rate provider unavailable"
// @Security BearerAuth
// @Router /currencies/convert [get]
func (h *currencyHandler) convert(c *gin.Context) {
	var query dto.ConvertQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(query.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount"})
		return
	}

	conversion, err := h.conversionService.Convert(c.Request.Context(), amount, query.From, query.To)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrUnknownCurrency):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrRateUnavailable):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Exchange rate provider unavailable"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to convert"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToConversionResponse(conversion))
}
