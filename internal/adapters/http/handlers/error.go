package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
)

type ErrorResponse struct {
	Error     string   `json:"error"`
	Fields    []string `json:"fields,omitempty"`
	Available *int     `json:"available,omitempty"`
	Requested *int     `json:"requested,omitempty"`
}

func HandleError(c *gin.Context, err error) {
	var svcErr *serviceerrors.ServiceError
	if !errors.As(err, &svcErr) {
		logger.Error(c.Request.Context(), "unhandled error", err, nil)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := ErrorResponse{Error: svcErr.Message, Fields: svcErr.Fields}
	if svcErr.Kind == serviceerrors.KindInsufficientStock {
		available, requested := svcErr.Available, svcErr.Requested
		response.Available = &available
		response.Requested = &requested
	}
	c.JSON(mapKindToHTTP(svcErr.Kind), response)
}

func mapKindToHTTP(kind serviceerrors.ErrorKind) int {
	switch kind {
	case serviceerrors.KindNotFound:
		return http.StatusNotFound
	case serviceerrors.KindConflict:
		return http.StatusConflict
	case serviceerrors.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case serviceerrors.KindInvalidRequest, serviceerrors.KindInsufficientStock:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
