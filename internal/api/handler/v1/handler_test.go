package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckutt/buckutt-api/internal/api/handler/v1/response"
	"github.com/buckutt/buckutt-api/internal/api/middleware"
	"github.com/buckutt/buckutt-api/internal/config"
	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/pkg/jwthelper"
	"github.com/buckutt/buckutt-api/internal/service"
)

const testSigningKey = "handler-test-key"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLedger struct {
	purchaseErr error
	reloadErr   error
	buyer       domain.User

	gotPurchase service.PurchaseInput
	gotReload   service.ReloadInput
	gotFilter   domain.PurchaseFilter
}

func (s *stubLedger) CreatePurchase(_ context.Context, in service.PurchaseInput) (domain.User, error) {
	s.gotPurchase = in
	return s.buyer, s.purchaseErr
}

func (s *stubLedger) CreateReload(_ context.Context, in service.ReloadInput) (domain.User, error) {
	s.gotReload = in
	return s.buyer, s.reloadErr
}

func (s *stubLedger) ListPurchases(_ context.Context, f domain.PurchaseFilter) ([]domain.Purchase, error) {
	s.gotFilter = f
	return []domain.Purchase{{ID: 1, Price: decimal.RequireFromString("4.00")}}, nil
}

func (s *stubLedger) ListReloads(context.Context, domain.ReloadFilter) ([]domain.Reload, error) {
	return nil, errors.New("db down")
}

func (s *stubLedger) SummarizePurchases(context.Context, domain.PurchaseFilter) ([]domain.PurchaseSummary, error) {
	return []domain.PurchaseSummary{}, nil
}

func (s *stubLedger) SummarizeReloads(context.Context, domain.ReloadFilter) ([]domain.ReloadSummary, error) {
	return []domain.ReloadSummary{}, nil
}

func (s *stubLedger) TotalPurchases(context.Context, domain.PurchaseFilter) (decimal.Decimal, error) {
	return decimal.RequireFromString("12.50"), nil
}

func (s *stubLedger) TotalReloads(context.Context, domain.ReloadFilter) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubAuth struct {
	user domain.User
	err  error
}

func (s stubAuth) Login(context.Context, string, string) (domain.User, error) {
	return s.user, s.err
}

type stubPricing struct{}

func (stubPricing) AvailableArticles(_ context.Context, pointID, buyerID uint) ([]domain.AvailableArticle, error) {
	return []domain.AvailableArticle{{ID: 1, Name: "Beer", Price: decimal.RequireFromString("4.00"), FoundationID: buyerID + pointID}}, nil
}

type stubUsers struct{}

func (stubUsers) GetUser(_ context.Context, id uint) (domain.User, error) {
	if id != 1 {
		return domain.User{}, fmt.Errorf("wrapped -> %w", service.ErrUserNotFound)
	}
	return domain.User{ID: 1, Username: "alice", Credit: decimal.RequireFromString("3.5")}, nil
}

func newTestRouter(ledger *stubLedger, auth stubAuth) *gin.Engine {
	router := gin.New()
	authn := middleware.NewAuthenticator(testSigningKey).VerifyJWT()
	apiConf := &config.APIConfig{JWTSigningKey: testSigningKey, JWTTTL: time.Hour}

	lh := NewLedgerHandler(ledger)
	router.POST("/auth/login", NewAuthHandler(apiConf, auth).HandleLogin)
	router.POST("/purchases", authn, lh.HandleCreatePurchase)
	router.GET("/purchases", authn, lh.HandleListPurchases)
	router.GET("/purchases/total", authn, lh.HandleTotalPurchases)
	router.POST("/reloads", authn, lh.HandleCreateReload)
	router.GET("/reloads", authn, lh.HandleListReloads)
	router.GET("/articles/available", authn, NewArticleHandler(stubPricing{}).HandleGetAvailable)
	router.GET("/users/:userID", authn, NewUserHandler(stubUsers{}).HandleGetUser)

	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string, sellerID uint) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if sellerID != 0 {
		token, err := jwthelper.GenerateToken([]byte(testSigningKey), sellerID, "", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestLedgerHandler_HandleCreatePurchase(t *testing.T) {
	const body = `{"buyer_id": 1, "selling_point_id": 2, "articles": [5, 5, 6]}`

	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "created", body: body, wantCode: http.StatusCreated},
		{name: "malformed", body: `{"buyer_id": "x"}`, wantCode: http.StatusBadRequest},
		{name: "no articles", body: `{"buyer_id": 1, "selling_point_id": 2, "articles": []}`, wantCode: http.StatusBadRequest},
		{name: "unknown buyer", body: body, err: fmt.Errorf("buyer: %w", service.ErrUserNotFound), wantCode: http.StatusNotFound},
		{name: "unknown point", body: body, err: service.ErrSellingPointNotFound, wantCode: http.StatusNotFound},
		{name: "removed seller", body: body, err: service.ErrSellerNotFound, wantCode: http.StatusUnauthorized},
		{name: "broke", body: body, err: fmt.Errorf("x -> %w", service.ErrInsufficientCredit), wantCode: http.StatusPaymentRequired},
		{name: "conflict", body: body, err: service.ErrConflict, wantCode: http.StatusConflict},
		{name: "unexpected", body: body, err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &stubLedger{
				purchaseErr: tc.err,
				buyer:       domain.User{ID: 1, Username: "alice", Credit: decimal.RequireFromString("2")},
			}
			router := newTestRouter(ledger, stubAuth{})

			rec := doRequest(t, router, http.MethodPost, "/purchases", tc.body, 9)

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusCreated {
				var got response.User
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, "2.00", got.Credit)
				assert.Equal(t, service.PurchaseInput{BuyerID: 1, SellerID: 9, PointID: 2, ArticleIDs: []uint{5, 5, 6}}, ledger.gotPurchase)
			}
		})
	}

	t.Run("lists unresolvable article ids", func(t *testing.T) {
		ledger := &stubLedger{purchaseErr: &service.UnresolvableArticlesError{IDs: []uint{6}}}
		router := newTestRouter(ledger, stubAuth{})

		rec := doRequest(t, router, http.MethodPost, "/purchases", body, 9)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var got response.Err
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, []uint{6}, got.ArticleIDs)
	})

	t.Run("requires a token", func(t *testing.T) {
		router := newTestRouter(&stubLedger{}, stubAuth{})

		rec := doRequest(t, router, http.MethodPost, "/purchases", body, 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLedgerHandler_HandleCreateReload(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "created", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": "20.00", "trace": "t1"}`, wantCode: http.StatusCreated},
		{name: "numeric amount", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": 7.5}`, wantCode: http.StatusCreated},
		{name: "three decimals", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": "1.005"}`, wantCode: http.StatusBadRequest},
		{name: "negative", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": "-1"}`, wantCode: http.StatusBadRequest},
		{name: "too large", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": "1"}`, err: service.ErrAmountTooLarge, wantCode: http.StatusBadRequest},
		{name: "unknown point", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": "1"}`, err: service.ErrSellingPointNotFound, wantCode: http.StatusNotFound},
		{name: "removed seller", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": "1"}`, err: service.ErrSellerNotFound, wantCode: http.StatusUnauthorized},
		{name: "trace too long", body: `{"buyer_id": 1, "selling_point_id": 2, "amount": "1", "trace": "` + strings.Repeat("t", 51) + `"}`, wantCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &stubLedger{reloadErr: tc.err, buyer: domain.User{ID: 1, Credit: decimal.RequireFromString("20")}}
			router := newTestRouter(ledger, stubAuth{})

			rec := doRequest(t, router, http.MethodPost, "/reloads", tc.body, 9)

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusCreated {
				assert.Equal(t, uint(9), ledger.gotReload.SellerID)
			}
		})
	}
}

func TestLedgerHandler_History(t *testing.T) {
	ledger := &stubLedger{}
	router := newTestRouter(ledger, stubAuth{})

	rec := doRequest(t, router, http.MethodGet, "/purchases?buyer=3&after=2026-01-01T00:00:00Z&limit=10", "", 9)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(3), ledger.gotFilter.BuyerID)
	assert.Equal(t, 10, ledger.gotFilter.Limit)
	require.NotNil(t, ledger.gotFilter.After)
	assert.Equal(t, 2026, ledger.gotFilter.After.Year())

	rec = doRequest(t, router, http.MethodGet, "/purchases?limit=-1", "", 9)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/purchases/total", "", 9)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":"12.5"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/reloads", "", 9)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestArticleHandler_HandleGetAvailable(t *testing.T) {
	router := newTestRouter(&stubLedger{}, stubAuth{})

	rec := doRequest(t, router, http.MethodGet, "/articles/available?selling_point_id=1&user_id=2", "", 9)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got response.AvailableArticles
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Articles, 1)
	assert.Equal(t, uint(3), got.Articles[0].FoundationID)

	rec = doRequest(t, router, http.MethodGet, "/articles/available?selling_point_id=1", "", 9)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_HandleLogin(t *testing.T) {
	t.Run("issues a token for the user", func(t *testing.T) {
		router := newTestRouter(&stubLedger{}, stubAuth{user: domain.User{ID: 4, Username: "bob"}})

		rec := doRequest(t, router, http.MethodPost, "/auth/login", `{"username": "bob", "password": "pw"}`, 0)
		require.Equal(t, http.StatusOK, rec.Code)

		var got response.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		userID, _, err := jwthelper.ParseToken([]byte(testSigningKey), got.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(4), userID)
		assert.Equal(t, "bob", got.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		router := newTestRouter(&stubLedger{}, stubAuth{err: service.ErrWrongPassword})

		rec := doRequest(t, router, http.MethodPost, "/auth/login", `{"username": "bob", "password": "pw"}`, 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing username", func(t *testing.T) {
		router := newTestRouter(&stubLedger{}, stubAuth{})

		rec := doRequest(t, router, http.MethodPost, "/auth/login", `{"password": "pw"}`, 0)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_HandleGetUser(t *testing.T) {
	router := newTestRouter(&stubLedger{}, stubAuth{})

	rec := doRequest(t, router, http.MethodGet, "/users/1", "", 9)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"credit":"3.50"`)

	rec = doRequest(t, router, http.MethodGet, "/users/2", "", 9)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/users/abc", "", 9)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
