package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botforge/botgate/internal/typ"
)

func do(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestCreateBot(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/create-bot", `{
		"companyName": "Acme Corp",
		"industry": "retail",
		"tone": "friendly",
		"allowedOrigins": ["https://a.example"]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp typ.BotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BotConfig.BotID)
	assert.Equal(t, "Acme Corp", resp.BotConfig.CompanyName)
	assert.True(t, resp.BotConfig.IsActive)
	assert.Contains(t, resp.SystemMessage, "friendly and approachable")
	assert.Contains(t, resp.SystemMessage, "in the retail industry")
}

func TestCreateBotValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing company name", `{"tone":"friendly"}`},
		{"invalid tone", `{"companyName":"Acme","tone":"grumpy"}`},
		{"invalid trait", `{"companyName":"Acme","personalityTraits":["lazy"]}`},
		{"out of range length", `{"companyName":"Acme","maxResponseLength":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, http.MethodPost, "/create-bot", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateBotDuplicate(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := `{"botId":"bot_fixed","companyName":"Acme"}`
	rec := do(srv, http.MethodPost, "/create-bot", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(srv, http.MethodPost, "/create-bot", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetBot(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cfg := seedBot(t, store, "https://a.example")

	rec := do(srv, http.MethodGet, "/bot/"+cfg.BotID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp typ.BotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, cfg.BotID, resp.BotConfig.BotID)
	assert.Contains(t, resp.SystemMessage, "Acme Corp")
}

func TestGetBotNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodGet, "/bot/bot_missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBot(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cfg := seedBot(t, store)

	rec := do(srv, http.MethodPut, "/bot/"+cfg.BotID, `{"tone":"formal","industry":"finance"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp typ.BotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, typ.ToneFormal, resp.BotConfig.Tone)
	assert.Contains(t, resp.SystemMessage, "formal and respectful")
}

func TestUpdateBotImmutableField(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cfg := seedBot(t, store)

	rec := do(srv, http.MethodPut, "/bot/"+cfg.BotID, `{"botId":"bot_other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBotSoftDeletes(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cfg := seedBot(t, store)

	rec := do(srv, http.MethodDelete, "/bot/"+cfg.BotID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// normal reads now miss
	rec = do(srv, http.MethodGet, "/bot/"+cfg.BotID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// but the record still exists, flagged inactive
	raw, err := store.GetAny(cfg.BotID)
	require.NoError(t, err)
	assert.False(t, raw.IsActive)

	// deleting again is a 404
	rec = do(srv, http.MethodDelete, "/bot/"+cfg.BotID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBots(t *testing.T) {
	srv, store, _ := newTestServer(t)
	for _, name := range []string{"Acme Corp", "Acme Labs", "Globex"} {
		require.NoError(t, store.Create(&typ.BotConfig{CompanyName: name}))
	}

	rec := do(srv, http.MethodGet, "/bots?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp typ.BotListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 3, resp.Total)
	assert.Len(t, resp.Bots, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.Limit)

	rec = do(srv, http.MethodGet, "/bots?companyName=ACME", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Total)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := do(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
