package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vobon-server/internal/core/auth"
	"vobon-server/internal/domain"
	"vobon-server/internal/repo"
	"vobon-server/internal/service"
	"vobon-server/internal/testfixtures"
	"vobon-server/internal/transport/http/handler"
)

type apiEnv struct {
	engine *gin.Engine
	jwt    *auth.JWTer
	store  *repo.Store
	apts   []domain.Apartment
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := zaptest.NewLogger(t)
	store := testfixtures.NewStore(t)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "vobon-test", TTL: 14 * 24 * time.Hour}

	stats := service.NewStatsService(service.Deps{Store: store, Log: l}, nil, 0)
	deps := service.Deps{Store: store, Log: l, Stats: stats}
	svc := Services{
		Identity:      service.NewIdentityService(deps),
		Catalog:       service.NewCatalogService(deps),
		Agreements:    service.NewAgreementService(deps),
		Coupons:       service.NewCouponService(deps),
		Announcements: service.NewAnnouncementService(deps),
		Payments:      service.NewPaymentService(deps, nil, "usd"),
		Stats:         stats,
	}
	e := &apiEnv{
		engine: NewAPIEngine(l, jwter, svc, Options{Cookie: handler.CookieOptions{Name: "token"}}),
		jwt:    jwter,
		store:  store,
		apts:   testfixtures.SeedApartments(t, store, 7),
	}
	testfixtures.SeedUser(t, store, "admin@x.io", domain.RoleAdmin)
	testfixtures.SeedUser(t, store, "tenant@x.io", domain.RoleUser)
	return e
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e *apiEnv) do(t *testing.T, method, path, email string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		tok, err := e.jwt.Issue(email)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestIssueAndClearSessionCookie(t *testing.T) {
	e := newAPIEnv(t)

	w, env := e.do(t, http.MethodPost, "/jwt", "", map[string]string{"email": "Tenant@x.io"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token=")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Max-Age=1209600")
	assert.Contains(t, cookie, "SameSite=Strict")

	w, _ = e.do(t, http.MethodPost, "/jwt", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(t, http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAdminStatsAuthorization(t *testing.T) {
	e := newAPIEnv(t)

	w, env := e.do(t, http.MethodGet, "/admin-stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 401, env.Code)

	w, _ = e.do(t, http.MethodGet, "/admin-stats", "tenant@x.io", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = e.do(t, http.MethodGet, "/admin-stats", "admin@x.io", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats service.AdminStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 7, stats.Apartments)
	assert.EqualValues(t, 1, stats.Admins)
	assert.Equal(t, 100, stats.AvailablePercentage)
}

func TestBearerTokenAccepted(t *testing.T) {
	e := newAPIEnv(t)
	tok, err := e.jwt.Issue("admin@x.io")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/all-members", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAgreementFlowOverHTTP(t *testing.T) {
	e := newAPIEnv(t)
	body := map[string]string{"apartmentId": e.apts[2].ID, "userName": "Tenant", "userEmail": "spoof@x.io"}

	w, env := e.do(t, http.MethodPost, "/make-agreement-request", "tenant@x.io", body)
	require.Equal(t, http.StatusOK, w.Code, env.Msg)
	var ag domain.Agreement
	require.NoError(t, json.Unmarshal(env.Data, &ag))
	assert.Equal(t, "tenant@x.io", ag.UserEmail)

	w, env = e.do(t, http.MethodPost, "/make-agreement-request", "tenant@x.io", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 409, env.Code)

	w, _ = e.do(t, http.MethodGet, "/all-agreement-requests", "tenant@x.io", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = e.do(t, http.MethodPatch, "/accept-agreement-request/"+ag.ID, "admin@x.io", nil)
	require.Equal(t, http.StatusOK, w.Code, env.Msg)
	var out domain.AcceptOutcome
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.Applied)
	assert.Equal(t, domain.RoleMember, out.UserRole)

	// 角色按请求实时查库，同一个令牌立刻获得会员权限
	w, env = e.do(t, http.MethodGet, "/my-agreement/tenant@x.io", "tenant@x.io", nil)
	require.Equal(t, http.StatusOK, w.Code, env.Msg)
	var mine domain.Agreement
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Equal(t, ag.ID, mine.ID)

	w, _ = e.do(t, http.MethodGet, "/my-agreement/admin@x.io", "tenant@x.io", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = e.do(t, http.MethodPatch, "/reject-agreement-request/"+ag.ID, "admin@x.io", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = e.do(t, http.MethodPatch, "/change-member-role/tenant@x.io", "admin@x.io", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(t, http.MethodGet, "/my-agreement/tenant@x.io", "tenant@x.io", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApartmentListing(t *testing.T) {
	e := newAPIEnv(t)

	w, env := e.do(t, http.MethodGet, "/apartments?page=abc", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page service.ApartmentPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Apartments, 6)

	w, env = e.do(t, http.MethodGet, "/apartments?page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Apartments, 1)

	w, env = e.do(t, http.MethodGet, "/explore-apartments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sample []domain.Apartment
	require.NoError(t, json.Unmarshal(env.Data, &sample))
	assert.Len(t, sample, 7)

	w, _ = e.do(t, http.MethodGet, "/apartments/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCouponsOverHTTP(t *testing.T) {
	e := newAPIEnv(t)

	w, env := e.do(t, http.MethodPost, "/add-coupon", "admin@x.io", map[string]any{"code": "spring", "discount": 15})
	require.Equal(t, http.StatusOK, w.Code, env.Msg)
	var c domain.Coupon
	require.NoError(t, json.Unmarshal(env.Data, &c))

	w, _ = e.do(t, http.MethodPost, "/add-coupon", "tenant@x.io", map[string]any{"code": "x", "discount": 15})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 空 body 取反
	w, env = e.do(t, http.MethodPatch, "/change-coupon-availability/"+c.ID, "admin@x.io", nil)
	require.Equal(t, http.StatusOK, w.Code, env.Msg)

	w, env = e.do(t, http.MethodGet, "/coupons?availableCouponOnly=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Coupon
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)

	w, env = e.do(t, http.MethodPatch, "/change-coupon-availability/"+c.ID, "admin@x.io", map[string]string{"availability": "available"})
	require.Equal(t, http.StatusOK, w.Code, env.Msg)
	w, env = e.do(t, http.MethodGet, "/coupons?availableCouponOnly=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestPaymentsNotConfigured(t *testing.T) {
	e := newAPIEnv(t)
	w, _ := e.do(t, http.MethodPost, "/create-payment-intent", "tenant@x.io", map[string]any{"price": 1200})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = e.do(t, http.MethodPost, "/save-payment-information", "tenant@x.io", map[string]any{"transactionId": "pi_1", "amount": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	e := newAPIEnv(t)
	w, env := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = e.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
