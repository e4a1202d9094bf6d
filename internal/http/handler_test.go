package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ledger-service/internal/auth"
	"github.com/nurpe/ledger-service/internal/config"
	"github.com/nurpe/ledger-service/internal/excel"
	"github.com/nurpe/ledger-service/internal/http/middleware"
	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/pdf"
	"github.com/nurpe/ledger-service/internal/repository"
	"github.com/nurpe/ledger-service/internal/service"
	"github.com/nurpe/ledger-service/internal/storetest"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router     *gin.Engine
	fx         *storetest.Fixtures
	tokens     *auth.Parser
	client     *model.Profile
	contractor *model.Profile
	outsider   *model.Profile
	contract   *model.Contract
	foreign    *model.Contract
	job        *model.Job
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := storetest.Open(t)
	fx := storetest.NewFixtures(t, database)

	profiles := repository.NewProfileRepository(database)
	jobs := repository.NewJobRepository(database)
	identities := service.NewIdentityService(profiles)
	handler := NewHandler(
		service.NewLedgerService(repository.NewContractRepository(database), jobs),
		service.NewPaymentService(database, profiles, jobs, config.PaymentsConfig{DepositRatePercent: 25}, zerolog.Nop()),
		service.NewReportService(repository.NewReportRepository(database), excel.NewGenerator(), config.ReportConfig{
			WindowStart: time.Date(2020, 8, 14, 19, 11, 26, 737000000, time.UTC),
			WindowEnd:   time.Date(2020, 8, 20, 19, 11, 26, 737000000, time.UTC),
		}),
		service.NewReceiptService(jobs, pdf.NewGenerator()),
		zerolog.Nop(),
	)

	tokens := auth.NewParser(testSecret)
	router := NewRouter(handler, Middlewares{
		Auth:           middleware.Auth(tokens, identities),
		OptionalAuth:   middleware.OptionalAuth(tokens, identities),
		RequireClient:  middleware.RequireClient(identities, ""),
		ClientFromPath: middleware.RequireClient(identities, "userId"),
	}, RouterConfig{Environment: "test", AllowedOrigins: []string{"*"}}, zerolog.Nop())

	s := &testServer{router: router, fx: fx, tokens: tokens}
	s.client = fx.Client("1000")
	s.contractor = fx.Contractor("Programmer", "0")
	s.outsider = fx.Client("1000")
	musician := fx.Contractor("Musician", "0")

	s.contract = fx.Contract(s.client, s.contractor, model.ContractStatusInProgress)
	s.foreign = fx.Contract(s.outsider, musician, model.ContractStatusInProgress)
	fx.Contract(s.client, s.contractor, model.ContractStatusTerminated)
	s.job = fx.Job(s.contract, "200")

	inWindow := time.Date(2020, 8, 15, 12, 0, 0, 0, time.UTC)
	fx.PaidJob(s.contract, "500", inWindow)
	fx.PaidJob(s.foreign, "300", inWindow)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func as(p *model.Profile) map[string]string {
	return map[string]string{middleware.ProfileIDHeader: p.ID.String()}
}

func TestGetContract(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/contracts/"+s.contract.ID.String(), as(s.contractor))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, s.contract.ID.String(), body["id"])
	assert.Equal(t, s.client.ID.String(), body["ClientId"])
	assert.Equal(t, s.contractor.ID.String(), body["ContractorId"])
	assert.Equal(t, "in_progress", body["status"])
}

func TestGetContractNotAParty(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/contracts/" + s.foreign.ID.String(),
		"/contracts/00000000-0000-0000-0000-000000000001",
		"/contracts/42",
	} {
		rec := s.do(t, http.MethodGet, path, as(s.client))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
	}
}

func TestIdentityRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/contracts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/contracts", map[string]string{middleware.ProfileIDHeader: "0"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/contracts", map[string]string{
		middleware.ProfileIDHeader: "6f1c1a8e-7d43-4c54-9a0e-5d2b1f0c9e11",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	s := newTestServer(t)

	token, err := s.tokens.Issue(s.client.ID, time.Minute)
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/contracts", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/contracts", map[string]string{"Authorization": "Bearer broken"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListContracts(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/contracts", as(s.client))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, s.contract.ID.String(), body[0]["id"])
}

func TestListUnpaidJobs(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/jobs/unpaid", as(s.contractor))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, s.job.ID.String(), body[0]["id"])
	assert.Nil(t, body[0]["paid"])
	assert.Equal(t, float64(200), body[0]["price"])
}

func TestPayJob(t *testing.T) {
	s := newTestServer(t)
	path := "/jobs/" + s.job.ID.String() + "/pay"

	rec := s.do(t, http.MethodPost, path, as(s.contractor))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Just for clients"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, path, as(s.outsider))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, path, as(s.client))
	require.Equal(t, http.StatusOK, rec.Code)
	var body service.PaymentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Status)
	assert.True(t, strings.HasSuffix(body.Message, "Job price: 200"))

	rec = s.do(t, http.MethodPost, path, as(s.client))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, "800", s.fx.ReloadProfile(s.client.ID).Balance.String())
	assert.Equal(t, "200", s.fx.ReloadProfile(s.contractor.ID).Balance.String())

	rec = s.do(t, http.MethodGet, "/jobs/"+s.job.ID.String()+"/receipt", as(s.contractor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestDeposit(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/balances/deposit/"+s.client.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"It was deposited: 50 to the client:`+s.client.ID.String()+`","status":true}`,
		rec.Body.String())
	assert.Equal(t, "1050", s.fx.ReloadProfile(s.client.ID).Balance.String())

	rec = s.do(t, http.MethodPost, "/balances/deposit/"+s.contractor.ID.String(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/balances/deposit/"+s.client.ID.String(), as(s.outsider))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDepositWithoutUnpaidJobs(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/balances/deposit/"+s.outsider.ID.String(), as(s.outsider))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBestProfession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/admin/best-profession?start=2021-01-01&end=2021-02-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"profession":"Programmer","earned":500}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/admin/best-profession/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "professions-20200814-20200820.xlsx")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodGet, "/contracts", as(s.client))
	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_http_requests_total")
}
