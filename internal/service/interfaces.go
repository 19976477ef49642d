package service

import (
	"context"

	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

// GeneratorServicer defines the operations exposed to the HTTP layer
type GeneratorServicer interface {
	StartGeneration(req *dto.CreateGenerationRequest) (*dto.CreateGenerationResponse, error)
	Progress() *dto.ProgressResponse
	Cancel() error
	ListVersions(ctx context.Context, req *dto.ListVersionsRequest) (*dto.ListVersionsResponse, error)
	Health(ctx context.Context) error
}

// SinkOpener opens storage back ends by name
type SinkOpener interface {
	Open(ctx context.Context, name string) (repository.Store, error)
	OpenAll(ctx context.Context, names []string) ([]repository.Store, error)
}
