// Package inline runs document processing in-process, replacing the
// broker when the service runs as a single binary in demo mode.
package inline

import (
	"context"
	"log/slog"

	"github.com/vkuznetsov/askdata/internal/core/ports"
)

type Queue struct {
	processor ports.DocumentProcessor
}

func New(processor ports.DocumentProcessor) *Queue {
	return &Queue{processor: processor}
}

// PublishDocumentIngested hands the document straight to the processor.
// Processing runs in a goroutine so uploads return immediately, matching
// the asynchronous contract of the brokered path.
func (q *Queue) PublishDocumentIngested(ctx context.Context, documentID string) error {
	go func() {
		if err := q.processor.ProcessByID(context.WithoutCancel(ctx), documentID); err != nil {
			slog.Error("inline_document_processing_failed", "document_id", documentID, "error", err)
		}
	}()
	return nil
}

// SubscribeDocumentIngested blocks until the context is cancelled. There
// is no broker to consume from; publishing already processed the event.
func (q *Queue) SubscribeDocumentIngested(ctx context.Context, _ func(context.Context, string) error) error {
	<-ctx.Done()
	return nil
}
