package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tablebook/config"
	"tablebook/infras/otel/mocks"
	tableMocks "tablebook/internal/domains/table/mocks"
	"tablebook/internal/domains/table/model"
	"tablebook/internal/domains/table/model/dto"
	"tablebook/internal/domains/table/service"
	cacheMocks "tablebook/shared/cache/mocks"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"
	gModel "tablebook/shared/model"
	"tablebook/shared/timezone"
)

func newTestService(t *testing.T) (service.Table, *tableMocks.MockTable, *cacheMocks.MockRedisCache) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := tableMocks.NewMockTable(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func TestTableService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateTableRequest
		setupMock func(repo *tableMocks.MockTable)
		wantErr   error
	}{
		{
			name: "successful creation",
			req: dto.CreateTableRequest{
				TableNumber: 11,
				Capacity:    4,
			},
			setupMock: func(repo *tableMocks.MockTable) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "duplicate table number",
			req: dto.CreateTableRequest{
				TableNumber: 3,
				Capacity:    4,
			},
			setupMock: func(repo *tableMocks.MockTable) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: failure.Conflict("table number is already in use"),
		},
		{
			name: "repository error",
			req: dto.CreateTableRequest{
				TableNumber: 11,
				Capacity:    4,
			},
			setupMock: func(repo *tableMocks.MockTable) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newTestService(t)
			tt.setupMock(mockRepo)

			ctx := context.WithValue(context.Background(), constant.ContextKeyClientID, "test-client")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTableService_Get(t *testing.T) {
	table := model.Table{
		ID:          "9b1cbb40-4f34-4d34-9c5e-2c8c54700d6d",
		TableNumber: 5,
		Capacity:    6,
		Active:      true,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now(),
			CreatedBy: "seed",
		},
	}

	tests := []struct {
		name      string
		id        string
		setupMock func(repo *tableMocks.MockTable, cache *cacheMocks.MockRedisCache)
		wantErr   error
	}{
		{
			name: "found",
			id:   table.ID,
			setupMock: func(repo *tableMocks.MockTable, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(table, nil)
			},
		},
		{
			name: "not found",
			id:   "missing-id",
			setupMock: func(repo *tableMocks.MockTable, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Table{}, nil)
			},
			wantErr: failure.UnknownTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newTestService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, failure.UnknownTable)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, table.TableNumber, res.TableNumber)
			assert.Equal(t, table.Capacity, res.Capacity)
		})
	}
}

func TestTableService_GetAll(t *testing.T) {
	tables := []model.Table{
		{ID: "a", TableNumber: 1, Capacity: 2, Active: true},
		{ID: "b", TableNumber: 2, Capacity: 4, Active: true},
	}

	svc, mockRepo, mockCache := newTestService(t)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)
	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(len(tables), nil)
	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(tables, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Len(t, res.Tables, 2)
}
