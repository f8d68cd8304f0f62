// Package stage defines the contract between the workflow runner and
// the pipeline stages.
package stage

import (
	"context"

	"episplit/internal/queue"
)

// Handler describes the contract the workflow runner needs from each stage.
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}
