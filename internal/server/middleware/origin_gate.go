package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/botforge/botgate/internal/db"
	"github.com/botforge/botgate/internal/typ"
)

// BotConfigKey is the gin context key under which the gate stashes the
// resolved configuration for downstream handlers.
const BotConfigKey = "botConfig"

// BotIDFromRequest extracts the tenant identifier from the JSON body if
// present, falling back to the botId query parameter. The body is restored
// so later stages can bind it again. Preflight requests carry no readable
// body, so for them only the query applies.
func BotIDFromRequest(c *gin.Context) string {
	if c.Request.Body != nil && c.Request.Method != http.MethodOptions {
		data, err := io.ReadAll(c.Request.Body)
		if err == nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(data))
			if botID := gjson.GetBytes(data, "botId").String(); botID != "" {
				return botID
			}
		}
	}
	return c.Query("botId")
}

// ResolvedBotConfig returns the configuration the gate attached to the
// request, or nil when the gate did not run.
func ResolvedBotConfig(c *gin.Context) *typ.BotConfig {
	value, ok := c.Get(BotConfigKey)
	if !ok {
		return nil
	}
	cfg, ok := value.(*typ.BotConfig)
	if !ok {
		return nil
	}
	return cfg
}

// OriginGate validates the request origin against the tenant's allow-list.
// The tenant configuration is resolved through the store in-process, so a
// missing tenant (404) and a store failure (500) stay distinguishable.
// Admitted requests carry the resolved configuration in the gin context.
func OriginGate(store *db.BotStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		botID := BotIDFromRequest(c)

		if origin == "" || botID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, typ.ErrorBody{
				Error: "Origin and botId are required for CORS validation",
			})
			return
		}

		cfg, err := store.GetActive(botID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, typ.ErrorBody{Error: "Bot not found"})
				return
			}
			logrus.Errorf("CORS check failed for bot %s: %v", botID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, typ.ErrorBody{Error: "CORS validation error"})
			return
		}

		if !cfg.OriginAllowed(origin) {
			logrus.Warnf("Rejected origin %s for bot %s", origin, botID)
			c.AbortWithStatusJSON(http.StatusForbidden, typ.ErrorBody{Error: "Origin not allowed"})
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Set(BotConfigKey, cfg)
		c.Next()
	}
}
