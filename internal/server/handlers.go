package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/botforge/botgate/internal/db"
	"github.com/botforge/botgate/internal/prompt"
	"github.com/botforge/botgate/internal/typ"
)

// CreateBot stores a new bot configuration and returns it together with
// the generated system message.
func (s *Server) CreateBot(c *gin.Context) {
	var cfg typ.BotConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, typ.ErrorBody{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := s.store.Create(&cfg); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			c.JSON(http.StatusConflict, typ.ErrorBody{Error: "Bot with this ID already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, typ.ErrorBody{Error: err.Error()})
		return
	}

	logrus.Infof("Created bot %s for %s", cfg.BotID, cfg.CompanyName)
	c.JSON(http.StatusCreated, typ.BotResponse{
		BotConfig:     &cfg,
		SystemMessage: prompt.Generate(&cfg),
	})
}

// GetBot returns an active configuration record plus its system message
func (s *Server) GetBot(c *gin.Context) {
	cfg, err := s.store.GetActive(c.Param("botId"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, typ.ErrorBody{Error: "Bot not found"})
			return
		}
		logrus.Errorf("Bot lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, typ.ErrorBody{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, typ.BotResponse{
		BotConfig:     cfg,
		SystemMessage: prompt.Generate(cfg),
	})
}

// UpdateBot applies a partial update. Identifier and creator are immutable.
func (s *Server) UpdateBot(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, typ.ErrorBody{Error: "Invalid request body: " + err.Error()})
		return
	}

	cfg, err := s.store.Update(c.Param("botId"), patch)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, typ.ErrorBody{Error: "Bot not found"})
			return
		}
		c.JSON(http.StatusBadRequest, typ.ErrorBody{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, typ.BotResponse{
		BotConfig:     cfg,
		SystemMessage: prompt.Generate(cfg),
	})
}

// DeleteBot soft-deletes a configuration record
func (s *Server) DeleteBot(c *gin.Context) {
	botID := c.Param("botId")
	if err := s.store.SoftDelete(botID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, typ.ErrorBody{Error: "Bot not found"})
			return
		}
		logrus.Errorf("Bot delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, typ.ErrorBody{Error: "Internal server error"})
		return
	}

	logrus.Infof("Soft-deleted bot %s", botID)
	c.JSON(http.StatusOK, gin.H{"message": "Bot deleted successfully"})
}

// ListBots returns a paginated listing of active bots, optionally filtered
// by company name.
func (s *Server) ListBots(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	companyName := c.Query("companyName")

	bots, total, err := s.store.List(page, limit, companyName)
	if err != nil {
		logrus.Errorf("Bot listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, typ.ErrorBody{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, typ.BotListResponse{
		Bots:  bots,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
