package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NickGV/serujier/internal/auth"
	"github.com/NickGV/serujier/internal/handlers"
	"github.com/NickGV/serujier/internal/logger"
	"github.com/NickGV/serujier/internal/metrics"
	"github.com/NickGV/serujier/internal/models"
	"github.com/NickGV/serujier/internal/services"
	"github.com/NickGV/serujier/internal/tally"
	"github.com/NickGV/serujier/internal/testutil"
	"github.com/NickGV/serujier/pkg/archive"
)

type testEnv struct {
	server  *httptest.Server
	mock    *archive.MockClient
	store   *tally.Store
	handler *handlers.Handlers
}

func newTestEnv(t *testing.T, opts ...archive.MockOption) *testEnv {
	t.Helper()
	return newTestEnvWithBaseTypes(t, nil, opts...)
}

func newTestEnvWithBaseTypes(t *testing.T, baseTypes []string, opts ...archive.MockOption) *testEnv {
	t.Helper()

	log := logger.NewWithWriter(io.Discard, slog.LevelError)
	repo := testutil.NewTestRepository(t)
	store := tally.New()
	mock := archive.NewMockClient(opts...)

	attendance := services.NewAttendanceService(log, store, mock, metrics.New(), baseTypes)
	catalog := services.NewCatalogService(log, repo)

	h := handlers.NewForTesting(attendance, catalog)
	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)

	return &testEnv{server: server, mock: mock, store: store, handler: h}
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, env.server.URL+path, reqBody)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func assertErrorCode(t *testing.T, resp *http.Response, wantStatus int, wantCode string) {
	t.Helper()
	if resp.StatusCode != wantStatus {
		t.Fatalf("status = %d, want %d", resp.StatusCode, wantStatus)
	}
	var apiErr struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &apiErr)
	if apiErr.Code != wantCode {
		t.Fatalf("code = %q, want %q", apiErr.Code, wantCode)
	}
}

// ==================== Tally API ====================

func TestGetTally(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/tally", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var sum services.TallySummary
	decodeBody(t, resp, &sum)
	if sum.Mode != services.ModeNormal {
		t.Errorf("mode = %s, want normal", sum.Mode)
	}
	if sum.State.ServiceType != models.DefaultServiceType {
		t.Errorf("serviceType = %s", sum.State.ServiceType)
	}
}

func TestSetAndAdjustCounter(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/tally/counter", handlers.CounterSetRequest{
		Category: models.CategoryBrothers, Value: 10,
	})
	var sum services.TallySummary
	decodeBody(t, resp, &sum)
	if got := sum.Totals.PerCategory[models.CategoryBrothers]; got != 10 {
		t.Fatalf("brothers = %d, want 10", got)
	}

	resp = env.request(t, http.MethodPost, "/api/tally/counter/adjust", handlers.CounterAdjustRequest{
		Category: models.CategoryBrothers, Delta: -3,
	})
	decodeBody(t, resp, &sum)
	if got := sum.Totals.PerCategory[models.CategoryBrothers]; got != 7 {
		t.Fatalf("brothers = %d, want 7", got)
	}

	resp = env.request(t, http.MethodPost, "/api/tally/counter", handlers.CounterSetRequest{
		Category: "elders", Value: 1,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, handlers.ErrCodeValidation)
}

func TestAttendeeLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/tally/attendees", handlers.AttendeeAddRequest{
		Category: models.CategoryVisitingBrothers, Name: "Miguel", Church: "Iglesia Central",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var attendee models.NamedAttendee
	decodeBody(t, resp, &attendee)
	if attendee.ID == "" {
		t.Fatal("expected generated id")
	}

	resp = env.request(t, http.MethodDelete,
		"/api/tally/attendees/"+string(models.CategoryVisitingBrothers)+"/"+attendee.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/tally", nil)
	var sum services.TallySummary
	decodeBody(t, resp, &sum)
	if len(sum.Attendees) != 0 {
		t.Fatalf("expected empty roster, got %+v", sum.Attendees)
	}
}

func TestAttendeeKeepsCatalogID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/tally/attendees", handlers.AttendeeAddRequest{
		Category: models.CategoryBrothers, ID: "42", Name: "Carlos",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var attendee models.NamedAttendee
	decodeBody(t, resp, &attendee)
	if attendee.ID != "42" {
		t.Fatalf("id = %q, want catalog id preserved", attendee.ID)
	}

	// Re-adding the same catalog id must not grow the roster.
	env.request(t, http.MethodPost, "/api/tally/attendees", handlers.AttendeeAddRequest{
		Category: models.CategoryBrothers, ID: "42", Name: "Carlos",
	}).Body.Close()

	resp = env.request(t, http.MethodGet, "/api/tally", nil)
	var sum services.TallySummary
	decodeBody(t, resp, &sum)
	if len(sum.Attendees) != 1 {
		t.Fatalf("expected 1 roster entry, got %d", len(sum.Attendees))
	}
}

func TestSaveFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	// No usher selected yet.
	resp := env.request(t, http.MethodPost, "/api/tally/save", nil)
	assertErrorCode(t, resp, http.StatusBadRequest, handlers.ErrCodeNoUsherSelected)

	env.request(t, http.MethodPost, "/api/tally/ushers", handlers.UshersRequest{Ushers: []string{"Juan"}}).Body.Close()
	env.request(t, http.MethodPost, "/api/tally/service-type", handlers.ServiceTypeRequest{ServiceType: models.ServiceEvangelismo}).Body.Close()
	env.request(t, http.MethodPost, "/api/tally/counter", handlers.CounterSetRequest{Category: models.CategoryBrothers, Value: 5}).Body.Close()

	resp = env.request(t, http.MethodPost, "/api/tally/save", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	var result services.SaveResult
	decodeBody(t, resp, &result)
	if !result.AwaitingDecision || result.Mode != services.ModeBaseSaved {
		t.Fatalf("unexpected save result %+v", result)
	}

	resp = env.request(t, http.MethodPost, "/api/tally/continue", nil)
	var sum services.TallySummary
	decodeBody(t, resp, &sum)
	if sum.Mode != services.ModeConsecutive {
		t.Fatalf("mode = %s, want consecutive", sum.Mode)
	}
	if sum.Totals.Grand != 5 {
		t.Fatalf("grand = %d, want 5 carried from base", sum.Totals.Grand)
	}

	// Declining now is invalid: the decision was already taken.
	resp = env.request(t, http.MethodPost, "/api/tally/decline", nil)
	assertErrorCode(t, resp, http.StatusConflict, handlers.ErrCodeNoBaseService)
}

func TestEnterEditOverHTTP(t *testing.T) {
	env := newTestEnv(t, archive.WithRecords(archive.Record{
		ID:           "rec-9",
		Date:         "2026-02-22",
		ServiceLabel: models.ServiceDominical,
		Ushers:       archive.FlexUshers{"Pedro"},
		Totals:       map[models.Category]int{models.CategoryBrothers: 4},
		GrandTotal:   4,
	}))

	resp := env.request(t, http.MethodPost, "/api/tally/edit/rec-9", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var sum services.TallySummary
	decodeBody(t, resp, &sum)
	if sum.Mode != services.ModeEditing || sum.State.EditingRecordID != "rec-9" {
		t.Fatalf("unexpected summary %+v", sum.State)
	}
}

func TestEnterEditNotFoundOverHTTP(t *testing.T) {
	env := newTestEnv(t, archive.WithGetError(&archive.ErrStatus{StatusCode: 404}))

	resp := env.request(t, http.MethodPost, "/api/tally/edit/ghost", nil)
	assertErrorCode(t, resp, http.StatusNotFound, handlers.ErrCodeNotFound)
}

func TestListRecordsUnavailable(t *testing.T) {
	env := newTestEnv(t, archive.WithListError(fmt.Errorf("connection refused")))

	resp := env.request(t, http.MethodGet, "/api/records", nil)
	assertErrorCode(t, resp, http.StatusServiceUnavailable, handlers.ErrCodeArchiveUnavailable)
}

// ==================== Metadata ====================

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/categories", nil)
	var body handlers.CategoriesResponse
	decodeBody(t, resp, &body)

	if len(body.Categories) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(body.Categories))
	}
	if body.Categories[0].ID != models.CategoryBrothers || body.Categories[0].Label != "Hermanos" {
		t.Fatalf("unexpected first category %+v", body.Categories[0])
	}
}

func TestGetServiceTypes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/service-types", nil)
	var body handlers.ServiceTypesResponse
	decodeBody(t, resp, &body)

	if body.Default != models.ServiceDominical {
		t.Fatalf("default = %s", body.Default)
	}
	if len(body.BaseTypes) != 2 {
		t.Fatalf("expected 2 base types, got %v", body.BaseTypes)
	}
}

func TestGetServiceTypesCustomBase(t *testing.T) {
	// A configured base type outside the built-in set must be reported
	// as base AND offered as a selectable service type.
	env := newTestEnvWithBaseTypes(t, []string{"Vigilia"})

	resp := env.request(t, http.MethodGet, "/api/service-types", nil)
	var body handlers.ServiceTypesResponse
	decodeBody(t, resp, &body)

	if len(body.BaseTypes) != 1 || body.BaseTypes[0] != "vigilia" {
		t.Fatalf("baseTypes = %v, want [vigilia]", body.BaseTypes)
	}
	found := false
	for _, s := range body.ServiceTypes {
		if s == "vigilia" {
			found = true
		}
	}
	if !found {
		t.Fatalf("serviceTypes %v missing configured base type", body.ServiceTypes)
	}
}

// ==================== Catalog & Auth ====================

func login(t *testing.T, env *testEnv) *http.Cookie {
	t.Helper()
	resp := env.request(t, http.MethodPost, "/admin/login", handlers.LoginRequest{Password: "test-password"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestAdminAPIRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/admin/members", handlers.MemberCreateRequest{
		Name: "Carlos", Category: models.CategoryBrothers,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMemberCRUDOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	cookie := login(t, env)

	resp := env.request(t, http.MethodPost, "/api/admin/members", handlers.MemberCreateRequest{
		Name: "Carlos", Category: models.CategoryBrothers,
	}, cookie)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var member models.Member
	decodeBody(t, resp, &member)

	resp = env.request(t, http.MethodGet, "/api/members?category=brothers", nil)
	var members []models.Member
	decodeBody(t, resp, &members)
	if len(members) != 1 || members[0].Name != "Carlos" {
		t.Fatalf("unexpected members %+v", members)
	}

	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/members/%d", member.ID), nil, cookie)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/members/%d", member.ID), nil, cookie)
	assertErrorCode(t, resp, http.StatusNotFound, handlers.ErrCodeNotFound)
}

func TestSympathizerAddedWhileCounting(t *testing.T) {
	env := newTestEnv(t)

	// The counter adds sympathizers without admin credentials.
	resp := env.request(t, http.MethodPost, "/api/sympathizers", handlers.SympathizerCreateRequest{
		Name: "Ana", Phone: "555-0101",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var sym models.Sympathizer
	decodeBody(t, resp, &sym)
	if sym.ID == 0 || sym.Name != "Ana" {
		t.Fatalf("unexpected sympathizer %+v", sym)
	}
}

func TestActiveUshersOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	cookie := login(t, env)

	env.request(t, http.MethodPost, "/api/admin/ushers", handlers.UsherCreateRequest{Name: "Pedro"}, cookie).Body.Close()
	resp := env.request(t, http.MethodPost, "/api/admin/ushers", handlers.UsherCreateRequest{Name: "Juan"}, cookie)
	var juan models.Usher
	decodeBody(t, resp, &juan)

	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/ushers/%d/active", juan.ID),
		handlers.UsherActiveRequest{Active: false}, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/ushers", nil)
	var active []models.Usher
	decodeBody(t, resp, &active)
	if len(active) != 1 || active[0].Name != "Pedro" {
		t.Fatalf("unexpected active ushers %+v", active)
	}

	resp = env.request(t, http.MethodGet, "/api/ushers?all=true", nil)
	var all []models.Usher
	decodeBody(t, resp, &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 ushers total, got %d", len(all))
	}
}

// ==================== Display ====================

func TestDisplayQR(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/display/qr", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %s", ct)
	}
	png, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) == 0 {
		t.Fatal("empty QR image")
	}

	resp = env.request(t, http.MethodGet, "/display/qr?size=9999", nil)
	assertErrorCode(t, resp, http.StatusBadRequest, handlers.ErrCodeBadRequest)
}

// ==================== Metrics ====================

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/metrics", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("serujier_")) {
		t.Error("expected serujier collectors in metrics output")
	}
}
