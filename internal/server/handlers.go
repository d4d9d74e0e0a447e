package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"winescore/internal/data"
	"winescore/internal/features"
	wineruntime "winescore/internal/runtime"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, wineruntime.HealthResponse{Status: "ok", Version: wineruntime.Version})
}

func (s *Server) loadModel(c *gin.Context) {
	var req wineruntime.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := s.rt.LoadModel(c.Request.Context(), req.Path)
	if err != nil {
		s.logger.Warn("load failed", zap.String("path", req.Path), zap.Error(err))
		respondError(c, err)
		return
	}
	s.models.Add(m.ID, m)
	c.JSON(http.StatusCreated, m)
}

func (s *Server) getModel(c *gin.Context) {
	m, ok := s.models.Peek(c.Param("id"))
	if !ok {
		notFound(c, c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) deleteModel(c *gin.Context) {
	if !s.models.Remove(c.Param("id")) {
		notFound(c, c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) predict(c *gin.Context) {
	var req wineruntime.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, ok := s.models.Get(req.ModelID)
	if !ok {
		notFound(c, req.ModelID)
		return
	}
	columns := req.Columns
	if len(columns) == 0 {
		columns = m.Features
	}
	var row data.Row
	var err error
	if len(columns) == 0 {
		row, err = features.BuildRow(req.Values)
	} else {
		row, err = features.BuildRowWithColumns(req.Values, columns)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := s.rt.Predict(c.Request.Context(), m, row)
	if err != nil {
		s.logger.Warn("predict failed", zap.String("model", m.Name), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
