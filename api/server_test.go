package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/bunny-coffee/catalog"
	"github.com/lixenwraith/bunny-coffee/engine"
	"github.com/lixenwraith/bunny-coffee/persist"
	"github.com/lixenwraith/bunny-coffee/status"
)

const testSecret = "test-secret"

// fakeShop returns err from every mutation and counts calls
type fakeShop struct {
	err     error
	calls   []string
	upgrade int
}

func (f *fakeShop) Offers() engine.Offers { return engine.Offers{Money: 7} }

func (f *fakeShop) Snapshot() engine.Snapshot { return engine.Snapshot{Tick: 3, Money: 7} }

func (f *fakeShop) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeShop) HireEmployee() error         { return f.record("hire") }
func (f *fakeShop) BuyAppliance() error         { return f.record("appliance") }
func (f *fakeShop) LevelUpNextAppliance() error { return f.record("upgrade-next") }
func (f *fakeShop) BuyDecoration() error        { return f.record("decoration") }

func (f *fakeShop) LevelUpAppliance(index int) error {
	f.upgrade = index
	return f.record("upgrade")
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := IssueToken(testSecret, "owner", time.Hour, time.Now())
	require.NoError(t, err)
	return tok
}

func TestPublicRoutes(t *testing.T) {
	reg := status.NewRegistry()
	reg.Ints.Get(status.OrdersCompleted).Store(5)
	srv := NewServer(Options{JWTSecret: testSecret}, &fakeShop{}, reg)

	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, srv.Handler(), http.MethodGet, "/v1/economy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var offers engine.Offers
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offers))
	assert.Equal(t, 7, offers.Money)

	rec = do(t, srv.Handler(), http.MethodGet, "/v1/world", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(3), snap.Tick)

	rec = do(t, srv.Handler(), http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.EqualValues(t, 5, metrics[status.OrdersCompleted])
}

func TestActionRoutes(t *testing.T) {
	tests := []struct {
		path string
		call string
		code int
	}{
		{"/v1/employees", "hire", http.StatusCreated},
		{"/v1/appliances", "appliance", http.StatusCreated},
		{"/v1/appliances/upgrade", "upgrade-next", http.StatusOK},
		{"/v1/appliances/2/upgrade", "upgrade", http.StatusOK},
		{"/v1/decorations", "decoration", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			shop := &fakeShop{}
			srv := NewServer(Options{JWTSecret: testSecret}, shop, nil)

			rec := do(t, srv.Handler(), http.MethodPost, tt.path, validToken(t))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, []string{tt.call}, shop.calls)
		})
	}
}

func TestUpgradeIndexParsing(t *testing.T) {
	shop := &fakeShop{}
	srv := NewServer(Options{}, shop, nil)

	rec := do(t, srv.Handler(), http.MethodPost, "/v1/appliances/3/upgrade", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, shop.upgrade)

	rec = do(t, srv.Handler(), http.MethodPost, "/v1/appliances/first/upgrade", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, shop.calls, 1)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("hire: %w", engine.ErrNotAffordable), http.StatusPaymentRequired},
		{fmt.Errorf("hire: %w", engine.ErrCapacity), http.StatusConflict},
		{fmt.Errorf("upgrade appliance: %w", engine.ErrMaxLevel), http.StatusConflict},
		{fmt.Errorf("upgrade appliance: %w", engine.ErrInvalidAppliance), http.StatusNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			srv := NewServer(Options{}, &fakeShop{err: tt.err}, nil)
			rec := do(t, srv.Handler(), http.MethodPost, "/v1/employees", "")
			assert.Equal(t, tt.code, rec.Code)

			var body struct {
				Error  string        `json:"error"`
				Offers engine.Offers `json:"offers"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.err.Error(), body.Error)
			assert.Equal(t, 7, body.Offers.Money)
		})
	}
}

func TestAuthGuard(t *testing.T) {
	shop := &fakeShop{}
	srv := NewServer(Options{JWTSecret: testSecret}, shop, nil)

	expired, err := IssueToken(testSecret, "owner", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	forged, err := IssueToken("other-secret", "owner", time.Hour, time.Now())
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing": "",
		"expired": expired,
		"forged":  forged,
		"garbage": "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodPost, "/v1/employees", token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.Empty(t, shop.calls)

	rec := do(t, srv.Handler(), http.MethodPost, "/v1/employees", validToken(t))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIssueTokenNeedsSecret(t *testing.T) {
	_, err := IssueToken("", "owner", time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestResetRoute(t *testing.T) {
	srv := NewServer(Options{}, &fakeShop{}, nil)
	rec := do(t, srv.Handler(), http.MethodPost, "/v1/reset", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resets := 0
	srv = NewServer(Options{Reset: func() { resets++ }}, &fakeShop{}, nil)
	rec = do(t, srv.Handler(), http.MethodPost, "/v1/reset", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, resets)
}

func TestWorldEconomyOverHTTP(t *testing.T) {
	w, err := engine.NewWorld(engine.WorldConfig{
		Catalog: catalog.Default(),
		Options: engine.DefaultOptions(),
		Initial: persist.GameState{Money: 100, NumEmployees: 1, ApplianceLevels: []int{0}},
	})
	require.NoError(t, err)
	srv := NewServer(Options{}, w, nil)

	rec := do(t, srv.Handler(), http.MethodPost, "/v1/employees", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var offers engine.Offers
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offers))
	assert.Equal(t, 40, offers.Money)
	assert.Equal(t, 2, offers.Employee.Owned)

	rec = do(t, srv.Handler(), http.MethodPost, "/v1/employees", "")
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, 40, w.Money())

	rec = do(t, srv.Handler(), http.MethodPost, "/v1/appliances/9/upgrade", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
