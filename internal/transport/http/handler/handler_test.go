package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secondhand-market/internal/app"
	"secondhand-market/internal/model"
	"secondhand-market/internal/transport/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, input app.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (*app.AuthResult, error) {
	args := m.Called(ctx, username, password)
	r, _ := args.Get(0).(*app.AuthResult)
	return r, args.Error(1)
}

func (m *mockAuthService) Profile(ctx context.Context, caller *app.Caller) (*model.User, error) {
	args := m.Called(ctx, caller)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockGarmentService struct {
	mock.Mock
}

func (m *mockGarmentService) List(ctx context.Context, typeFilter string) ([]model.Garment, error) {
	args := m.Called(ctx, typeFilter)
	g, _ := args.Get(0).([]model.Garment)
	return g, args.Error(1)
}

func (m *mockGarmentService) ListByPublisher(ctx context.Context, publisherID uint) ([]model.Garment, error) {
	args := m.Called(ctx, publisherID)
	g, _ := args.Get(0).([]model.Garment)
	return g, args.Error(1)
}

func (m *mockGarmentService) GetByID(ctx context.Context, id uint) (*model.Garment, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*model.Garment)
	return g, args.Error(1)
}

func (m *mockGarmentService) Publish(ctx context.Context, input app.GarmentInput, caller *app.Caller) (*model.Garment, error) {
	args := m.Called(ctx, input, caller)
	g, _ := args.Get(0).(*model.Garment)
	return g, args.Error(1)
}

func (m *mockGarmentService) Update(ctx context.Context, id uint, input app.GarmentInput, caller *app.Caller) (*model.Garment, error) {
	args := m.Called(ctx, id, input, caller)
	g, _ := args.Get(0).(*model.Garment)
	return g, args.Error(1)
}

func (m *mockGarmentService) Unpublish(ctx context.Context, id uint, caller *app.Caller) error {
	return m.Called(ctx, id, caller).Error(0)
}

func (m *mockGarmentService) History(ctx context.Context, id uint) ([]model.GarmentEvent, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).([]model.GarmentEvent)
	return e, args.Error(1)
}

// withCaller stands in for the token middleware.
func withCaller(caller *app.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller != nil {
			c.Set(middleware.ContextCallerKey, caller)
		}
		c.Next()
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}
