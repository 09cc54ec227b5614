package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"

	"github.com/botforge/botgate/internal/llmclient"
	"github.com/botforge/botgate/internal/prompt"
	"github.com/botforge/botgate/internal/server/middleware"
	"github.com/botforge/botgate/internal/typ"
)

// AskGemini relays a prompt plus history to the generation service. The
// origin gate has already resolved and attached the tenant configuration;
// its system message leads the outbound sequence.
func (s *Server) AskGemini(c *gin.Context) {
	var req typ.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, typ.ErrorBody{Error: "Invalid request body"})
		return
	}
	if req.Prompt == "" || req.BotID == "" {
		c.JSON(http.StatusBadRequest, typ.ErrorBody{Error: "Prompt and botId are required"})
		return
	}

	cfg := middleware.ResolvedBotConfig(c)
	if cfg == nil {
		// the gate always runs first on this route
		c.JSON(http.StatusInternalServerError, typ.ErrorBody{Error: "Internal server error"})
		return
	}

	text, err := s.generator.Generate(c.Request.Context(), llmclient.Request{
		SystemMessage: prompt.Generate(cfg),
		History:       normalizeHistory(req.History),
		Prompt:        req.Prompt,
	})
	if err != nil {
		logrus.Errorf("Generation failed for bot %s: %v", req.BotID, err)
		c.JSON(http.StatusInternalServerError, typ.ErrorBody{Error: "Failed to generate response"})
		return
	}

	c.JSON(http.StatusOK, typ.AskResponse{Response: text})
}

// normalizeHistory converts caller-supplied history entries into model
// turns. Entries arrive in several shapes: a full {role, parts:[{text}]}
// turn, or flat {role, content} / {role, text} messages. Text is taken
// from the first shape that matches, in that order.
func normalizeHistory(entries []json.RawMessage) []*genai.Content {
	turns := make([]*genai.Content, 0, len(entries))
	for _, entry := range entries {
		role := genai.Role(genai.RoleUser)
		if gjson.GetBytes(entry, "role").String() == "model" {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		if rawParts := gjson.GetBytes(entry, "parts"); rawParts.IsArray() {
			for _, p := range rawParts.Array() {
				text := p.String()
				if p.IsObject() {
					text = p.Get("text").String()
				}
				parts = append(parts, genai.NewPartFromText(text))
			}
		} else {
			text := gjson.GetBytes(entry, "parts.text").String()
			if text == "" {
				text = gjson.GetBytes(entry, "content").String()
			}
			if text == "" {
				text = gjson.GetBytes(entry, "text").String()
			}
			parts = []*genai.Part{genai.NewPartFromText(text)}
		}

		turns = append(turns, genai.NewContentFromParts(parts, role))
	}
	return turns
}
