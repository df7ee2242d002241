package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leadstack/internal/entity"
	"github.com/xavierca1/leadstack/internal/infra/http/middleware"
	"github.com/xavierca1/leadstack/internal/infra/integration/supabase"
	"github.com/xavierca1/leadstack/internal/usecase"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindAll(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Insert(ctx context.Context, payload *entity.LeadPayload) (*entity.Lead, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) InsertMany(ctx context.Context, payloads []*entity.LeadPayload) ([]*entity.Lead, error) {
	args := m.Called(ctx, payloads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, payload *entity.LeadPayload) (*entity.Lead, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubVerifier simula o provedor de identidade.
type stubVerifier struct {
	user *supabase.User
	err  error
}

func (s *stubVerifier) GetUser(ctx context.Context, token string) (*supabase.User, error) {
	return s.user, s.err
}

func validVerifier() *stubVerifier {
	return &stubVerifier{user: &supabase.User{ID: "user-1", Email: "ops@acme.io"}}
}

func newTestRouter(repo entity.LeadRepositoryInterface, verifier middleware.TokenVerifier) http.Handler {
	log := zap.NewNop()
	createUC := usecase.NewCreateLeadUseCase(repo, nil, log)
	updateUC := usecase.NewUpdateLeadUseCase(repo, nil, log)
	deleteUC := usecase.NewDeleteLeadUseCase(repo, nil, log)
	importUC := usecase.NewImportLeadsUseCase(repo, nil, nil, "", log)
	handler := NewLeadHandler(repo, createUC, updateUC, deleteUC, importUC, log)

	r := chi.NewRouter()
	r.Route("/leads", func(r chi.Router) {
		r.Use(middleware.RequireUser(verifier))
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
		r.Post("/{id}/tags", handler.AddTag)
		r.Post("/import", handler.Import)
		r.Post("/import/csv", handler.ImportCSV)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func leadWithPayload(id string, payload entity.LeadPayload) *entity.Lead {
	return &entity.Lead{
		ID:          id,
		LeadPayload: payload,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// ============ AUTH ============

func TestMissingTokenRejected(t *testing.T) {
	router := newTestRouter(new(MockLeadRepository), validVerifier())

	rec := doJSON(t, router, http.MethodGet, "/leads", nil, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Missing bearer token", body["error"])
}

func TestInvalidTokenRejected(t *testing.T) {
	verifier := &stubVerifier{err: supabase.ErrInvalidToken}
	router := newTestRouter(new(MockLeadRepository), verifier)

	rec := doJSON(t, router, http.MethodGet, "/leads", nil, "expired-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid or expired session", body["error"])
}

// ============ CRUD ============

func TestListLeads(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindAll", mock.Anything).Return([]*entity.Lead{
		leadWithPayload("id-2", entity.LeadPayload{}),
		leadWithPayload("id-1", entity.LeadPayload{}),
	}, nil)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodGet, "/leads", nil, "token")

	assert.Equal(t, http.StatusOK, rec.Code)
	var leads []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 2)
	assert.Equal(t, "id-2", leads[0]["id"])
}

func TestCreateLeadDefaultsStatus(t *testing.T) {
	repo := new(MockLeadRepository)
	statusNew := entity.StatusNew
	firstName := "Jane"
	created := leadWithPayload("id-1", entity.LeadPayload{FirstName: &firstName, Status: &statusNew})
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(p *entity.LeadPayload) bool {
		return p.Status != nil && *p.Status == entity.StatusNew
	})).Return(created, nil)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPost, "/leads", map[string]any{"first_name": "Jane"}, "token")

	assert.Equal(t, http.StatusCreated, rec.Code)
	var lead map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.Equal(t, "id-1", lead["id"])
	assert.Equal(t, "New", lead["status"])
	repo.AssertExpectations(t)
}

func TestCreateLeadValidationFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPost, "/leads", map[string]any{"last_name": "Doe"}, "token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "First name or an email address is required.", body["error"])
	repo.AssertNotCalled(t, "Insert")
}

func TestGetLeadNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrLeadNotFound)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodGet, "/leads/missing", nil, "token")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateLeadMissingIDIsServerError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Update", mock.Anything, "missing", mock.Anything).Return(nil, entity.ErrLeadNotFound)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPut, "/leads/missing", map[string]any{"first_name": "Jane"}, "token")

	// Update de id inexistente nunca foi mapeado para 404.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteLead(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Delete", mock.Anything, "id-1").Return(nil)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodDelete, "/leads/id-1", nil, "token")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["success"])
}

func TestDeleteLeadDatastoreError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Delete", mock.Anything, "missing").Return(errors.New("no rows deleted for id missing"))
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodDelete, "/leads/missing", nil, "token")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "no rows deleted")
}

// ============ IMPORT ============

func TestImportRejectsWholeBatch(t *testing.T) {
	repo := new(MockLeadRepository)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPost, "/leads/import", map[string]any{
		"leads": []any{
			map[string]any{"first_name": "A"},
			map[string]any{},
		},
	}, "token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "InsertMany")
}

func TestImportEmptyBatchRejected(t *testing.T) {
	repo := new(MockLeadRepository)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPost, "/leads/import", map[string]any{"leads": []any{}}, "token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "No leads supplied")
}

func TestImportSuccess(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("InsertMany", mock.Anything, mock.Anything).Return([]*entity.Lead{
		leadWithPayload("id-1", entity.LeadPayload{}),
		leadWithPayload("id-2", entity.LeadPayload{}),
	}, nil)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPost, "/leads/import", map[string]any{
		"leads": []any{
			map[string]any{"first_name": "A"},
			map[string]any{"emails": []any{map[string]any{"value": "b@c.io"}}},
		},
	}, "token")

	assert.Equal(t, http.StatusCreated, rec.Code)
	var output map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Equal(t, float64(2), output["inserted"])
}

func doMultipart(t *testing.T, router http.Handler, field, fileName, content, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/leads/import/csv", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestImportCSVSuccess(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("InsertMany", mock.Anything, mock.MatchedBy(func(payloads []*entity.LeadPayload) bool {
		return len(payloads) == 2 &&
			payloads[0].FirstName != nil && *payloads[0].FirstName == "Jane" &&
			len(payloads[0].Emails) == 1 && payloads[0].Emails[0].Value == "jane@acme.io"
	})).Return([]*entity.Lead{
		leadWithPayload("id-1", entity.LeadPayload{}),
		leadWithPayload("id-2", entity.LeadPayload{}),
	}, nil)
	router := newTestRouter(repo, validVerifier())

	csvData := "first_name,emails\nJane,jane@acme.io\nBob,\n"
	rec := doMultipart(t, router, "file", "leads.csv", csvData, "token")

	assert.Equal(t, http.StatusCreated, rec.Code)
	var output map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Equal(t, float64(2), output["inserted"])
	repo.AssertExpectations(t)
}

func TestImportCSVMissingFileField(t *testing.T) {
	repo := new(MockLeadRepository)
	router := newTestRouter(repo, validVerifier())

	rec := doMultipart(t, router, "attachment", "leads.csv", "first_name\nJane\n", "token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Missing `file` field", body["error"])
	repo.AssertNotCalled(t, "InsertMany")
}

// ============ TAGS ============

func TestAddTagDeduplicates(t *testing.T) {
	repo := new(MockLeadRepository)
	lead := leadWithPayload("id-1", entity.LeadPayload{Tags: []string{"vip"}})
	repo.On("FindByID", mock.Anything, "id-1").Return(lead, nil)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPost, "/leads/id-1/tags", map[string]any{"tag": "vip"}, "token")

	// Tag duplicada: devolve o lead como está, sem tocar no banco.
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "Update")
}

func TestAddTagPersistsNewTag(t *testing.T) {
	repo := new(MockLeadRepository)
	lead := leadWithPayload("id-1", entity.LeadPayload{Tags: []string{"vip"}})
	repo.On("FindByID", mock.Anything, "id-1").Return(lead, nil)
	repo.On("Update", mock.Anything, "id-1", mock.MatchedBy(func(p *entity.LeadPayload) bool {
		return len(p.Tags) == 2 && p.Tags[1] == "hot"
	})).Return(leadWithPayload("id-1", entity.LeadPayload{Tags: []string{"vip", "hot"}}), nil)
	router := newTestRouter(repo, validVerifier())

	rec := doJSON(t, router, http.MethodPost, "/leads/id-1/tags", map[string]any{"tag": "hot"}, "token")

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
