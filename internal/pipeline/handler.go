// internal/pipeline/handler.go
package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	stderrors "shubharambh-workers/internal/common/errors"
	"shubharambh-workers/internal/common/logger"
	"shubharambh-workers/internal/common/metrics"
	"shubharambh-workers/internal/common/validation"
	"shubharambh-workers/internal/models"
)

const (
	TaskType = "generate-reply"
)

// Handler is the generate-reply job worker: it validates the inbound
// chat payload and runs the full pipeline in-process.
type Handler struct {
	config       *Config
	pipeline     *Pipeline
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, p *Pipeline, log logger.Logger) *Handler {
	scoped := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:       config,
		pipeline:     p,
		errorHandler: stderrors.NewErrorHandler(scoped),
		logger:       scoped,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	payload := []byte(job.Variables)
	if result := validation.ValidateChatRequest(payload); !result.Valid {
		details := strings.Join(result.GetErrorMessages(), "; ")
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INVALID_CHAT_REQUEST").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, stderrors.NewInvalidChatRequestError(details))
		return
	}

	var req models.ChatRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INVALID_CHAT_REQUEST").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, stderrors.NewInvalidChatRequestError(err.Error()))
		return
	}

	output, err := h.pipeline.Respond(ctx, &req)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INTENT_PARSING_FAILED").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, stderrors.NewIntentParsingFailedError(err))
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

// Execute runs validation plus the pipeline without a Zeebe job, for
// direct usage and tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, stderrors.NewInvalidChatRequestError(err.Error())
	}
	if result := validation.ValidateChatRequest(payload); !result.Valid {
		return nil, stderrors.NewInvalidChatRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}

	return h.pipeline.Respond(ctx, &models.ChatRequest{
		ConversationID: input.ConversationID,
		Messages:       input.Messages,
	})
}
