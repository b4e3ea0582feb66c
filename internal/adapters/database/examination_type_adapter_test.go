package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/database"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/providers"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/postgres"
)

func TestExaminationTypeAdapter_List(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectQuery(`SELECT "id", "name" FROM "examination_types" ORDER BY "name" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("t1", "Chest X-Ray").
			AddRow("t2", "Resting ECG"))

	adapter := database.NewExaminationTypeAdapter(postgres.NewClientFromDB(db))
	types, err := adapter.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []*entities.ExaminationType{
		{ID: "t1", Name: "Chest X-Ray"},
		{ID: "t2", Name: "Resting ECG"},
	}, types)
}

type MockExaminationTypeRepository struct {
	mock.Mock
}

func (m *MockExaminationTypeRepository) List(ctx context.Context) ([]*entities.ExaminationType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ExaminationType), args.Error(1)
}

type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestCachedExaminationTypeAdapter_List(t *testing.T) {
	types := []*entities.ExaminationType{{ID: "t1", Name: "Chest X-Ray"}}

	t.Run("serves from cache", func(t *testing.T) {
		repo := new(MockExaminationTypeRepository)
		cache := new(MockCacheProvider)
		cache.On("Get", mock.Anything, "examination_types:all").
			Return([]byte(`[{"id":"t1","name":"Chest X-Ray"}]`), nil)

		adapter := database.NewCachedExaminationTypeAdapter(repo, cache, 300, nil)
		result, err := adapter.List(context.Background())

		require.NoError(t, err)
		assert.Equal(t, types, result)
		repo.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("loads and stores on miss", func(t *testing.T) {
		repo := new(MockExaminationTypeRepository)
		cache := new(MockCacheProvider)
		cache.On("Get", mock.Anything, "examination_types:all").Return(nil, providers.ErrCacheMiss)
		cache.On("Set", mock.Anything, "examination_types:all", mock.Anything, 300).Return(nil)
		repo.On("List", mock.Anything).Return(types, nil)

		adapter := database.NewCachedExaminationTypeAdapter(repo, cache, 300, nil)
		result, err := adapter.List(context.Background())

		require.NoError(t, err)
		assert.Equal(t, types, result)
		cache.AssertExpectations(t)
	})

	t.Run("cache write failure is not fatal", func(t *testing.T) {
		repo := new(MockExaminationTypeRepository)
		cache := new(MockCacheProvider)
		cache.On("Get", mock.Anything, mock.Anything).Return(nil, providers.ErrCacheMiss)
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
		repo.On("List", mock.Anything).Return(types, nil)

		adapter := database.NewCachedExaminationTypeAdapter(repo, cache, 300, nil)
		result, err := adapter.List(context.Background())

		require.NoError(t, err)
		assert.Equal(t, types, result)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockExaminationTypeRepository)
		cache := new(MockCacheProvider)
		cache.On("Get", mock.Anything, mock.Anything).Return(nil, providers.ErrCacheMiss)
		repo.On("List", mock.Anything).Return(nil, errors.New("db down"))

		adapter := database.NewCachedExaminationTypeAdapter(repo, cache, 300, nil)
		_, err := adapter.List(context.Background())

		assert.Error(t, err)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("warm overwrites the cached copy", func(t *testing.T) {
		repo := new(MockExaminationTypeRepository)
		cache := new(MockCacheProvider)
		repo.On("List", mock.Anything).Return(types, nil)
		cache.On("Set", mock.Anything, "examination_types:all", []byte(`[{"id":"t1","name":"Chest X-Ray"}]`), 300).Return(nil)

		adapter := database.NewCachedExaminationTypeAdapter(repo, cache, 300, nil)

		require.NoError(t, adapter.Warm(context.Background()))
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})
}
