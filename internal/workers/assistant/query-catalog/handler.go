// internal/workers/assistant/query-catalog/handler.go
package querycatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"shubharambh-workers/internal/catalog"
	stderrors "shubharambh-workers/internal/common/errors"
	"shubharambh-workers/internal/common/metrics"
)

const (
	TaskType = "query-catalog"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	store  catalog.Store
	logger Logger
}

func NewHandler(config *Config, store catalog.Store, log Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INPUT_PARSING_FAILED").Inc()
		h.failJob(client, job, fmt.Errorf("parse input: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(jobError(err).Code)).Inc()
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute runs the primary query and falls back to the broadened one
// only when the primary returned zero rows. The broadened query runs at
// most once; a non-empty primary result is terminal.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	primary, err := h.store.FindListings(ctx, input.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary catalog query: %w", err)
	}

	if len(primary) > 0 {
		h.logger.Info("primary query matched", map[string]interface{}{
			"count": len(primary),
		})
		return &Output{Listings: primary, Tier: TierExact}, nil
	}

	metrics.RetrievalFallbacks.WithLabelValues("empty_primary").Inc()
	h.logger.Info("primary query empty, broadening", map[string]interface{}{
		"broadenedBare": input.Broadened.IsBare(),
	})

	related, err := h.store.FindListings(ctx, input.Broadened)
	if err != nil {
		return nil, fmt.Errorf("broadened catalog query: %w", err)
	}

	return &Output{Listings: related, Tier: TierRelated}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// jobError separates a timed-out query from a plain store failure.
func jobError(err error) *stderrors.StandardError {
	if errors.Is(err, context.DeadlineExceeded) {
		return stderrors.NewCatalogQueryTimeoutError()
	}
	return stderrors.NewCatalogUnavailableError(err)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, jobErr error) {
	errorCode := string(jobError(jobErr).Code)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": jobErr.Error(),
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(jobErr.Error()).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
