package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
)

// MockPresetRepository is a mock implementation of persistence.PresetRepository interface.
type MockPresetRepository struct {
	mock.Mock
}

func (m *MockPresetRepository) List(ctx context.Context, opts persistence.ListPresetsOptions) ([]*models.WorkflowPreset, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.WorkflowPreset), args.Error(1)
}

func (m *MockPresetRepository) GetByID(ctx context.Context, id string) (*models.WorkflowPreset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WorkflowPreset), args.Error(1)
}

func (m *MockPresetRepository) GetByName(ctx context.Context, name string, isGlobal bool) (*models.WorkflowPreset, error) {
	args := m.Called(ctx, name, isGlobal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WorkflowPreset), args.Error(1)
}

func (m *MockPresetRepository) Save(ctx context.Context, preset *models.WorkflowPreset) error {
	args := m.Called(ctx, preset)

	return args.Error(0)
}

func (m *MockPresetRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockVocabularyRepository is a mock implementation of persistence.VocabularyRepository interface.
type MockVocabularyRepository struct {
	mock.Mock
}

func (m *MockVocabularyRepository) RevisionDescriptions(ctx context.Context) ([]*models.RevisionDescription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.RevisionDescription), args.Error(1)
}

func (m *MockVocabularyRepository) RevisionSteps(ctx context.Context) ([]*models.RevisionStep, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.RevisionStep), args.Error(1)
}

func (m *MockVocabularyRepository) ReviewCodes(ctx context.Context) ([]*models.ReviewCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.ReviewCode), args.Error(1)
}

func (m *MockVocabularyRepository) SaveRevisionDescription(ctx context.Context, entry *models.RevisionDescription) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

func (m *MockVocabularyRepository) SaveRevisionStep(ctx context.Context, entry *models.RevisionStep) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

func (m *MockVocabularyRepository) SaveReviewCode(ctx context.Context, entry *models.ReviewCode) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	presetRepo     *MockPresetRepository
	vocabularyRepo *MockVocabularyRepository
}

// NewMockPersistence creates a new MockPersistence with all mock repositories.
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		presetRepo:     &MockPresetRepository{},
		vocabularyRepo: &MockVocabularyRepository{},
	}
}

// GetMockPresetRepository returns the underlying mock preset repository for setting up expectations.
func (m *MockPersistence) GetMockPresetRepository() *MockPresetRepository {
	return m.presetRepo
}

// GetMockVocabularyRepository returns the underlying mock vocabulary repository for setting up expectations.
func (m *MockPersistence) GetMockVocabularyRepository() *MockVocabularyRepository {
	return m.vocabularyRepo
}

func (m *MockPersistence) PresetRepository() persistence.PresetRepository {
	return m.presetRepo
}

func (m *MockPersistence) VocabularyRepository() persistence.VocabularyRepository {
	return m.vocabularyRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
