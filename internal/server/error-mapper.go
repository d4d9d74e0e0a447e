package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"winescore/internal/data"
	wineruntime "winescore/internal/runtime"
)

func respondError(c *gin.Context, err error) {
	status, kind := mapError(err)
	c.JSON(status, wineruntime.ErrorResponse{Error: err.Error(), Kind: kind})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, data.ErrSchemaMismatch):
		return http.StatusUnprocessableEntity, wineruntime.KindSchemaMismatch
	case errors.Is(err, data.ErrModelLoad):
		return http.StatusUnprocessableEntity, wineruntime.KindModelLoad
	case errors.Is(err, data.ErrPrediction):
		return http.StatusInternalServerError, wineruntime.KindPrediction
	default:
		return http.StatusInternalServerError, wineruntime.KindPrediction
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, wineruntime.ErrorResponse{Error: err.Error(), Kind: wineruntime.KindBadRequest})
}

func notFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, wineruntime.ErrorResponse{Error: "model " + id + " not loaded", Kind: wineruntime.KindNotFound})
}
