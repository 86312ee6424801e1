package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"farestore/internal/model"
	"farestore/internal/service"
)

type MockArtifactService struct {
	mock.Mock
}

func (m *MockArtifactService) PublishDataset(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*model.Artifact, error) {
	args := m.Called(ctx, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockArtifactService) PublishModel(ctx context.Context, r io.Reader, filename string, contentType string, size int64, modelName, modelVersion string) (*model.Artifact, error) {
	args := m.Called(ctx, r, filename, contentType, size, modelName, modelVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockArtifactService) List(ctx context.Context, limit, offset int, f service.ListFilter) (*service.ArtifactListResult, error) {
	args := m.Called(ctx, limit, offset, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArtifactListResult), args.Error(1)
}

func (m *MockArtifactService) Get(ctx context.Context, id string) (*model.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockArtifactService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
