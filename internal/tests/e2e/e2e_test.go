package e2e

import (
	"bytes"
	"coinlings/internal/app"
	"coinlings/internal/domain/dto"
	"coinlings/internal/domain/models"
	"coinlings/internal/lib/jwt"
	"coinlings/internal/metrics"
	"coinlings/internal/repository"
	"coinlings/internal/repository/memory"
	"coinlings/internal/repository/sprites"
	"coinlings/internal/world"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{store: make(map[string]string)}
}

func (r *memoryRedis) StoreRefreshToken(_ context.Context, userID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[refreshToken] = userID
	return nil
}

func (r *memoryRedis) TakeRefreshToken(_ context.Context, refreshToken string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.store[refreshToken]
	if !ok {
		return "", repository.ErrTokenNotFound
	}
	delete(r.store, refreshToken)
	return userID, nil
}

type testServer struct {
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	spriteRoot := t.TempDir()
	for _, p := range []string{"common/common.png", "rare/rare.png", "rare/notes.txt"} {
		full := filepath.Join(spriteRoot, "sprites", "coinling-sprites", filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("png"), 0o644))
	}

	router := app.NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), app.Deps{
		Store:         memory.New(),
		Tokens:        newMemoryRedis(),
		JWT:           jwt.NewGenerator("secret", time.Minute, time.Hour),
		Catalog:       sprites.NewFS(spriteRoot),
		Metrics:       metrics.New(),
		Rand:          world.DefaultRand(),
		MaxPopulation: 100,
		CORSOrigins:   []string{"http://localhost:8080"},
	})

	ts := &testServer{server: httptest.NewServer(router)}
	t.Cleanup(ts.server.Close)
	return ts
}

// do sends body as JSON and decodes the response into out when out is not nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) register(t *testing.T, email string) dto.AuthResponse {
	t.Helper()
	var auth dto.AuthResponse
	status := s.do(t, http.MethodPost, "/api/auth/register", "", dto.AuthRequest{Email: email, Password: "password123"}, &auth)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, auth.Token)
	return auth
}

func (s *testServer) credit(t *testing.T, token string, amount int64) dto.RecordTransactionResponse {
	t.Helper()
	var resp dto.RecordTransactionResponse
	status := s.do(t, http.MethodPost, "/api/transactions", token, map[string]any{
		"kind":     "credit",
		"amount":   amount,
		"category": "Salary",
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	return resp
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	auth := s.register(t, "alice@example.com")

	var dup map[string]string
	status := s.do(t, http.MethodPost, "/api/auth/register", "", dto.AuthRequest{Email: "alice@example.com", Password: "password123"}, &dup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, dup["error"])

	status = s.do(t, http.MethodPost, "/api/auth/login", "", dto.AuthRequest{Email: "alice@example.com", Password: "wrong-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var login dto.AuthResponse
	status = s.do(t, http.MethodPost, "/api/auth/login", "", dto.AuthRequest{Email: "alice@example.com", Password: "password123"}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, auth.UserID, login.UserID)

	var refreshed dto.AuthResponse
	status = s.do(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken}, &refreshed)
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	status = s.do(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = s.do(t, http.MethodGet, "/api/creatures", refreshed.Token, nil, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/transactions", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/containers", "garbage", nil, nil))

	var pong map[string]string
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/ping", "", nil, &pong))
	assert.Equal(t, "pong", pong["message"])
}

func TestTransactionsDrivePopulation(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@example.com").Token

	// Arrange
	first := s.credit(t, token, 3000)
	require.Len(t, first.Created, 3)
	assert.Empty(t, first.Retired)
	assert.True(t, decimal.NewFromInt(3000).Equal(first.Balance))

	// Act
	var debit dto.RecordTransactionResponse
	status := s.do(t, http.MethodPost, "/api/transactions", token, map[string]any{
		"kind":     "debit",
		"amount":   "1500.50",
		"category": "Food & Dining",
		"worth_it": false,
	}, &debit)

	// Assert
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decimal.RequireFromString("1499.50").Equal(debit.Balance))
	require.Len(t, debit.Retired, 2)
	assert.Equal(t, first.Created[0].ID, debit.Retired[0].ID)

	var creatures []models.Creature
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/creatures", token, nil, &creatures))
	assert.Len(t, creatures, 1)

	var txs []models.Transaction
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/transactions", token, nil, &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, models.KindDebit, txs[0].Kind)

	var updated models.Transaction
	status = s.do(t, http.MethodPatch, "/api/transactions/"+txs[0].ID.String(), token, map[string]bool{"worth_it": true}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, updated.WorthIt)
	assert.True(t, *updated.WorthIt)

	var summary dto.AnalyticsSummary
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/transactions/analytics/summary", token, nil, &summary))
	assert.Len(t, summary.WeeklyComparison, 4)
	assert.True(t, decimal.NewFromInt(3000).Equal(summary.ThisMonth.Income))
	require.NotNil(t, summary.Categories.MostUsed)
	assert.Equal(t, "Food & Dining", summary.Categories.MostUsed.Name)
	assert.Equal(t, 1, summary.WorthIt.WorthIt)

	var cats dto.CategoriesResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/transactions/categories?type=debit", token, nil, &cats))
	assert.Contains(t, cats.Default, "Food & Dining")
	assert.Empty(t, cats.Custom)
}

func TestTransactionValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@example.com").Token

	var body map[string]string
	status := s.do(t, http.MethodPost, "/api/transactions", token, map[string]any{"kind": "gift", "amount": 10}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "kind must be credit or debit", body["error"])

	status = s.do(t, http.MethodPost, "/api/transactions", token, map[string]any{"kind": "credit", "amount": -10}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "amount must be a positive number", body["error"])

	status = s.do(t, http.MethodGet, "/api/transactions/categories?type=bogus", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = s.do(t, http.MethodPatch, "/api/transactions/"+uuid.NewString(), token, map[string]bool{"worth_it": true}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = s.do(t, http.MethodPatch, "/api/transactions/not-a-uuid", token, map[string]bool{"worth_it": true}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestContainersFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@example.com").Token
	s.credit(t, token, 3000)

	var houses []dto.ContainerView
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/containers", token, nil, &houses))
	require.Len(t, houses, 2)
	assert.Equal(t, 2, houses[0].Occupancy)
	assert.Equal(t, 1, houses[1].Occupancy)

	// the second house is only half full
	var mergeErr map[string]string
	status := s.do(t, http.MethodPost, "/api/containers/merge", token, dto.MergeRequest{SourceID: houses[1].ID, TargetID: houses[0].ID}, &mergeErr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "1/2", mergeErr["source"])
	assert.Equal(t, "2/2", mergeErr["target"])

	s.credit(t, token, 1000)
	var merged dto.MergeResponse
	status = s.do(t, http.MethodPost, "/api/containers/merge", token, dto.MergeRequest{SourceID: houses[1].ID, TargetID: houses[0].ID}, &merged)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, merged.Container.Capacity)
	assert.EqualValues(t, 2, merged.Moved)

	var details dto.ContainerDetails
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/containers/"+houses[0].ID.String(), token, nil, &details))
	assert.Len(t, details.Creatures, 4)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/containers/"+houses[1].ID.String(), token, nil, nil))

	var moved dto.ContainerResponse
	status = s.do(t, http.MethodPut, "/api/containers/"+houses[0].ID.String()+"/position", token, map[string]float64{"x_pct": 120, "y_pct": 33}, &moved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 100.0, moved.Container.XPct)
	assert.Equal(t, 33.0, moved.Container.YPct)

	var renamed dto.ContainerResponse
	status = s.do(t, http.MethodPatch, "/api/containers/"+houses[0].ID.String()+"/name", token, dto.NameRequest{Name: "Villa"}, &renamed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Villa", renamed.Container.Name)

	var created dto.ContainerResponse
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/containers/create", token, nil, &created))
	assert.Equal(t, 2, created.Container.Capacity)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodDelete, "/api/containers/"+houses[0].ID.String(), token, nil, nil))

	var deleted dto.MessageResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/containers/"+created.Container.ID.String(), token, nil, &deleted))
	assert.NotEmpty(t, deleted.Message)
}

func TestOwnersAreIsolated(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice@example.com").Token
	bob := s.register(t, "bob@example.com").Token
	s.credit(t, alice, 2000)

	var houses []dto.ContainerView
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/containers", alice, nil, &houses))
	require.Len(t, houses, 1)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/containers/"+houses[0].ID.String(), bob, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/containers/"+houses[0].ID.String(), bob, nil, nil))

	var bobs []dto.ContainerView
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/containers", bob, nil, &bobs))
	assert.Empty(t, bobs)
}

func TestCreaturesAndJournal(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@example.com").Token
	s.credit(t, token, 2000)

	var creatures []models.Creature
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/creatures", token, nil, &creatures))
	require.Len(t, creatures, 2)

	var renamed models.Creature
	status := s.do(t, http.MethodPatch, "/api/creatures/"+creatures[0].ID.String()+"/name", token, dto.NameRequest{Name: "Biscuit"}, &renamed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Biscuit", renamed.Name)

	var retired models.Creature
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/creatures/"+creatures[0].ID.String(), token, nil, &retired))
	assert.True(t, retired.Retired)

	var synced dto.SyncResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/creatures/sync", token, nil, &synced))
	assert.Len(t, synced.Created, 1)
	assert.Empty(t, synced.Retired)

	var unlocked dto.UnlockedResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/journal/unlocked", token, nil, &unlocked))
	assert.Contains(t, unlocked.Unlocked, creatures[0].Sprite)

	var catalog map[string][]string
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/journal/sprites", "", nil, &catalog))
	assert.Equal(t, []string{"/sprites/coinling-sprites/common/common.png"}, catalog["common"])
	assert.Equal(t, []string{"/sprites/coinling-sprites/rare/rare.png"}, catalog["rare"])
	assert.Empty(t, catalog["legendary"])
}

func TestCreateCreature(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	token := s.register(t, "alice@example.com").Token

	// Act
	var rare models.Creature
	status := s.do(t, http.MethodPost, "/api/creatures", token, dto.CreateCreatureRequest{Rarity: models.RarityRare}, &rare)

	// Assert
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.RarityRare, rare.Rarity)

	var houses []dto.ContainerView
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/containers", token, nil, &houses))
	require.Len(t, houses, 1)
	assert.Equal(t, rare.ContainerID, houses[0].ID)
	assert.Equal(t, 1, houses[0].Occupancy)

	var rolled models.Creature
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/creatures", token, nil, &rolled))
	assert.Equal(t, houses[0].ID, rolled.ContainerID)

	var errResp dto.ErrorResponse
	status = s.do(t, http.MethodPost, "/api/creatures", token, map[string]string{"rarity": "mythic"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "rarity must be common, rare or legendary", errResp.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@example.com").Token
	s.credit(t, token, 1000)

	resp, err := http.Get(s.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(text, `coinlings_http_requests_total{method="POST",route="/api/transactions",status="200"} 1`), text)
	assert.Contains(t, text, "coinlings_creatures_born_total 1")
	assert.Contains(t, text, `coinlings_transactions_recorded_total{kind="credit"} 1`)
}
