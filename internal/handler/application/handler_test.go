package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/care-portal-api/internal/access"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Submit(ctx context.Context, req *model.SubmitApplicationRequest, applicantID *uuid.UUID) (*model.ProviderApplication, error) {
	args := m.Called(ctx, req, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderApplication), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderApplication), args.Error(1)
}

func (m *mockService) List(ctx context.Context, filter *model.ApplicationFilter) ([]*model.ProviderApplication, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.ProviderApplication), args.Int(1), args.Error(2)
}

func (m *mockService) Review(ctx context.Context, id uuid.UUID, req *model.ReviewApplicationRequest, reviewerID uuid.UUID) (*model.ProviderApplication, error) {
	args := m.Called(ctx, id, req, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderApplication), args.Error(1)
}

func (m *mockService) ApproveAndProvision(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) (*model.ProviderProfile, error) {
	args := m.Called(ctx, id, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderProfile), args.Error(1)
}

func (m *mockService) Resubmit(ctx context.Context, id uuid.UUID, req *model.ResubmitApplicationRequest, session *model.Session) (*model.ProviderApplication, error) {
	args := m.Called(ctx, id, req, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderApplication), args.Error(1)
}

func (m *mockService) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApplicationStats), args.Error(1)
}

type tokenAuth map[string]*model.Session

func (a tokenAuth) Authenticate(_ context.Context, token string) (*model.Session, error) {
	if s, ok := a[token]; ok {
		return s, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

var adminID = uuid.New()

func newRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := middleware.NewAuthMiddleware(tokenAuth{
		"admin": {
			User:    &model.AuthUser{ID: adminID},
			Profile: &model.Profile{Base: model.Base{ID: adminID}, Role: model.RoleAdmin},
		},
	}, access.NewGate(""), nil)

	r := gin.New()
	r.Use(middleware.Validation())
	api := r.Group("/api/v1")
	admin := api.Group("/admin", auth.Authenticate(), auth.RequireRole(model.RoleAdmin))
	NewHandler(svc).RegisterRoutes(api, admin, auth)
	return r
}

func send(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit_AnonymousApplicant(t *testing.T) {
	svc := &mockService{}
	r := newRouter(svc)

	app := &model.ProviderApplication{ID: uuid.New(), Status: model.ApplicationPending}
	svc.On("Submit", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(app, nil)

	w := send(r, http.MethodPost, "/api/v1/applications", `{"provider_type":"doctor"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), app.ID.String())
}

func TestSubmit_ValidationErrorIs400(t *testing.T) {
	svc := &mockService{}
	r := newRouter(svc)
	svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.Validation("phone is required"))

	w := send(r, http.MethodPost, "/api/v1/applications", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone is required")
}

func TestReview_StateErrorIs409(t *testing.T) {
	svc := &mockService{}
	r := newRouter(svc)
	id := uuid.New()
	svc.On("Review", mock.Anything, id, mock.Anything, adminID).Return(nil, apperrors.State("application already approved"))

	w := send(r, http.MethodPost, "/api/v1/admin/applications/"+id.String()+"/review", `{"decision":"rejected","feedback":"no"}`, "admin")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReview_BadDecisionNeverReachesService(t *testing.T) {
	svc := &mockService{}
	r := newRouter(svc)

	w := send(r, http.MethodPost, "/api/v1/admin/applications/"+uuid.NewString()+"/review", `{"decision":"maybe"}`, "admin")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"decision"`)
	svc.AssertNotCalled(t, "Review", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	svc := &mockService{}
	r := newRouter(svc)

	w := send(r, http.MethodGet, "/api/v1/admin/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApprove_InfrastructureErrorHidesCause(t *testing.T) {
	svc := &mockService{}
	r := newRouter(svc)
	id := uuid.New()
	svc.On("ApproveAndProvision", mock.Anything, id, adminID).
		Return(nil, apperrors.Infrastructure("create provider profile", assertErr("pq: deadlock detected")))

	w := send(r, http.MethodPost, "/api/v1/admin/applications/"+id.String()+"/approve", "", "admin")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "deadlock")
}

func TestGet_MalformedID(t *testing.T) {
	r := newRouter(&mockService{})
	w := send(r, http.MethodGet, "/api/v1/admin/applications/not-a-uuid", "", "admin")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
