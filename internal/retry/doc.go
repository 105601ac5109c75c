// Package retry provides automatic retry logic with exponential backoff
// for transient database failures during connection and chunk loading.
//
// # Example Usage
//
//	classifier := retry.NewPostgreSQLErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return loadChunk(ctx, path)
//	})
//
// The ErrorClassifier interface decides which errors are transient
// (retryable) versus fatal. PostgreSQLErrorClassifier recognizes the
// SQLSTATE classes and network conditions that a concurrent COPY run can
// hit transiently: connection drops, deadlocks, resource exhaustion.
//
// Executor instances are safe for concurrent use by import workers.
// Use WithOnRetry() to attach an independent callback per goroutine.
package retry
