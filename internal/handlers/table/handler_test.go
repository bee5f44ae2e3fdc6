package table_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"tablebook/infras/otel/mocks"
	"tablebook/internal/domains/table/model/dto"
	handler "tablebook/internal/handlers/table"
	gDto "tablebook/shared/dto"
)

type stubTableService struct{}

func (stubTableService) Create(context.Context, dto.CreateTableRequest) error { return nil }

func (stubTableService) GetAll(context.Context, gDto.QueryParams, gDto.FilterGroup) (dto.GetTablesResponse, error) {
	return dto.GetTablesResponse{}, nil
}

func (stubTableService) Count(context.Context, gDto.QueryParams, gDto.FilterGroup) (int, error) {
	return 0, nil
}

func (stubTableService) Get(context.Context, string) (dto.TableResponse, error) {
	return dto.TableResponse{ID: "a", TableNumber: 1, Capacity: 2, Active: true}, nil
}

func newTestRouter() chi.Router {
	h := handler.New(stubTableService{}, mocks.NewOtel())

	router := chi.NewRouter()
	h.Router(router)

	return router
}

// Tables are seeded once and never mutated afterwards, so the
// router must not expose any mutating route on /tables/{id}.
func TestTableRouter_NoMutationRoutes(t *testing.T) {
	router := newTestRouter()

	for _, method := range []string{http.MethodPatch, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/tables/some-id", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestTableRouter_GetByID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/tables/some-id", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
