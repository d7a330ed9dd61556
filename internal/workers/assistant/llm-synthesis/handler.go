// internal/workers/assistant/llm-synthesis/handler.go
package llmsynthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	stderrors "shubharambh-workers/internal/common/errors"
	commonhttp "shubharambh-workers/internal/common/http"
	"shubharambh-workers/internal/common/metrics"
)

const (
	TaskType = "llm-synthesis"
)

var (
	ErrLLMTimeout         = errors.New("LLM_TIMEOUT")
	ErrLLMSynthesisFailed = errors.New("LLM_SYNTHESIS_FAILED")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	client *commonhttp.Client
	logger Logger
}

func NewHandler(config *Config, log Logger) *Handler {
	return &Handler{
		config: config,
		// No client-level timeout, the request context carries it
		client: commonhttp.NewClient(0),
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

// execute issues exactly one blocking call to the generation gateway.
// There is no application-level retry: a failed or timed-out call is
// surfaced to the orchestrator, which owns the fallback reply.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	requestBody := map[string]interface{}{
		"prompt":      h.buildPrompt(input),
		"max_tokens":  h.config.MaxTokens,
		"temperature": h.config.Temperature,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, "POST", h.config.GenAIBaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMSynthesisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrLLMTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrLLMSynthesisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrLLMSynthesisFailed, resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrLLMSynthesisFailed, err)
	}

	// An empty text in a 200 response is a failure, not a reply.
	reply := strings.TrimSpace(apiResponse.Text)
	if reply == "" {
		return nil, fmt.Errorf("%w: empty response text", ErrLLMSynthesisFailed)
	}

	h.logger.Info("synthesis completed", map[string]interface{}{
		"replyChars": len(reply),
	})

	return &Output{Reply: reply}, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var parts []string

	parts = append(parts, "You are Shubharambh's assistant for planning weddings and events. Answer using ONLY the catalog context below; if it does not cover the question, say so instead of guessing.")

	if len(input.History) > 0 {
		parts = append(parts, "\nConversation so far:")
		for _, turn := range input.History {
			parts = append(parts, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
		}
	}

	parts = append(parts, "\nCatalog context:")
	parts = append(parts, input.Context)

	parts = append(parts, fmt.Sprintf("\nUser question: %s", input.Question))
	parts = append(parts, "\nAnswer:")

	return strings.Join(parts, "\n")
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

// jobError maps a synthesis error to its standardized form.
func jobError(err error) *stderrors.StandardError {
	if errors.Is(err, ErrLLMTimeout) {
		return stderrors.NewLLMTimeoutError()
	}
	return stderrors.NewLLMSynthesisFailedError(err)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	errorCode := string(jobError(err).Code)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
	})

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(0).
		ErrorMessage(err.Error()).
		Send(context.Background())
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
