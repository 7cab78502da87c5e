package jobs

import (
	"context"
	"log"
)

// Queue is the background-job collaborator. Enqueue is fire-and-forget from
// the caller's perspective: a failed enqueue never rolls back the state
// change that triggered it.
type Queue interface {
	Enqueue(ctx context.Context, jobName string, payload any) error
}

// LogQueue is a stand-in used when no broker is configured (local dev).
type LogQueue struct{}

func (LogQueue) Enqueue(_ context.Context, jobName string, payload any) error {
	log.Printf("job_enqueue_skipped job=%s payload=%+v reason=no_broker", jobName, payload)
	return nil
}
