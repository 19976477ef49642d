package queue

import (
	"context"

	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
)

// RunPublisher publishes terminal run notifications
type RunPublisher interface {
	PublishRun(ctx context.Context, n *dto.RunNotification) error
}
