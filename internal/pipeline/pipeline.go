// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/common/logger"
	"shubharambh-workers/internal/common/metrics"
	"shubharambh-workers/internal/common/observability"
	"shubharambh-workers/internal/models"
	buildcatalogquery "shubharambh-workers/internal/workers/assistant/build-catalog-query"
	buildcontext "shubharambh-workers/internal/workers/assistant/build-context"
	llmsynthesis "shubharambh-workers/internal/workers/assistant/llm-synthesis"
	parseuserintent "shubharambh-workers/internal/workers/assistant/parse-user-intent"
	querycatalog "shubharambh-workers/internal/workers/assistant/query-catalog"
)

// ApologyReply is the fixed user-facing message when generation fails.
// Generation failures never surface as structural errors of this
// subsystem.
const ApologyReply = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// Pipeline sequences the assistant stages for one chat request:
// intent parsing, query building, tiered retrieval, context assembly
// and generation. All intermediate values are request-local.
type Pipeline struct {
	intents   *parseuserintent.Handler
	queries   *buildcatalogquery.Handler
	retriever *querycatalog.Handler
	assembler *buildcontext.Handler
	synthesis *llmsynthesis.Handler
	obs       *observability.Observability
	logger    logger.Logger
}

func New(store catalog.Store, genai *llmsynthesis.Config, obs *observability.Observability, log logger.Logger) *Pipeline {
	return &Pipeline{
		intents:   parseuserintent.NewHandler(parseuserintent.LoadConfig(), &parseUserIntentLoggerAdapter{log}),
		queries:   buildcatalogquery.NewHandler(buildcatalogquery.LoadConfig(), &buildCatalogQueryLoggerAdapter{log}),
		retriever: querycatalog.NewHandler(querycatalog.LoadConfig(), store, &queryCatalogLoggerAdapter{log}),
		assembler: buildcontext.NewHandler(buildcontext.LoadConfig(), store, &buildContextLoggerAdapter{log}),
		synthesis: llmsynthesis.NewHandler(genai, &llmSynthesisLoggerAdapter{log}),
		obs:       obs,
		logger:    log,
	}
}

// Respond runs the full pipeline and always returns a reply on the
// happy and degraded paths. Only an unusable request (no user turn)
// comes back as an error.
func (p *Pipeline) Respond(ctx context.Context, req *models.ChatRequest) (*Output, error) {
	jobStart := time.Now()
	requestID := uuid.NewString()
	log := p.logger.With(map[string]interface{}{
		"requestId":      requestID,
		"conversationId": req.ConversationID,
	})
	log.Info("pipeline started", map[string]interface{}{
		"turns": len(req.Messages),
	})

	intentStart := time.Now()
	intentOut, err := p.intents.Execute(ctx, &parseuserintent.Input{
		ConversationID: req.ConversationID,
		Messages:       req.Messages,
	})
	metrics.StageDuration.WithLabelValues(parseuserintent.TaskType).Observe(time.Since(intentStart).Seconds())
	if err != nil {
		metrics.StageFailures.WithLabelValues(parseuserintent.TaskType, "INTENT_PARSING_FAILED").Inc()
		p.recordJob(ctx, "error", jobStart)
		return nil, err
	}

	queryStart := time.Now()
	queryOut, err := p.queries.Execute(ctx, &buildcatalogquery.Input{
		Question: intentOut.Question,
		Intents:  intentOut.Intents,
		Entities: intentOut.Entities,
	})
	metrics.StageDuration.WithLabelValues(buildcatalogquery.TaskType).Observe(time.Since(queryStart).Seconds())
	if err != nil {
		metrics.StageFailures.WithLabelValues(buildcatalogquery.TaskType, "INTERNAL_ERROR").Inc()
		p.recordJob(ctx, "error", jobStart)
		return nil, err
	}

	// A failed retrieval degrades the context instead of aborting the
	// request.
	degraded := false
	var listings []catalog.Listing
	tier := ""
	retrieveStart := time.Now()
	retrieveOut, err := p.retriever.Execute(ctx, &querycatalog.Input{
		Primary:   queryOut.Primary,
		Broadened: queryOut.Broadened,
	})
	metrics.StageDuration.WithLabelValues(querycatalog.TaskType).Observe(time.Since(retrieveStart).Seconds())
	if err != nil {
		metrics.StageFailures.WithLabelValues(querycatalog.TaskType, "CATALOG_UNAVAILABLE").Inc()
		log.Error("catalog retrieval failed, degrading context", map[string]interface{}{
			"error": err.Error(),
		})
		degraded = true
	} else {
		listings = retrieveOut.Listings
		tier = retrieveOut.Tier
	}

	assembleStart := time.Now()
	contextOut, err := p.assembler.Execute(ctx, &buildcontext.Input{
		Question: intentOut.Question,
		Intents:  intentOut.Intents,
		Entities: intentOut.Entities,
		Listings: listings,
		Tier:     tier,
		Degraded: degraded,
	})
	metrics.StageDuration.WithLabelValues(buildcontext.TaskType).Observe(time.Since(assembleStart).Seconds())
	if err != nil {
		metrics.StageFailures.WithLabelValues(buildcontext.TaskType, "CONTEXT_DEGRADED").Inc()
		p.recordJob(ctx, "error", jobStart)
		return nil, err
	}

	synthStart := time.Now()
	synthOut, err := p.synthesis.Execute(ctx, &llmsynthesis.Input{
		Question: intentOut.Question,
		Context:  contextOut.Context,
		History:  req.RecentHistory(),
	})
	metrics.StageDuration.WithLabelValues(llmsynthesis.TaskType).Observe(time.Since(synthStart).Seconds())
	if err != nil {
		metrics.StageFailures.WithLabelValues(llmsynthesis.TaskType, "LLM_SYNTHESIS_FAILED").Inc()
		log.Error("generation failed, returning apology", map[string]interface{}{
			"error": err.Error(),
		})
		p.recordReply(ctx, "apology")
		p.recordJob(ctx, "apology", jobStart)
		return &Output{
			Reply:          ApologyReply,
			ConversationID: req.ConversationID,
			Degraded:       true,
		}, nil
	}

	outcome := "ok"
	if contextOut.Degraded {
		outcome = "degraded"
	}
	p.recordReply(ctx, outcome)
	p.recordJob(ctx, outcome, jobStart)

	log.Info("pipeline completed", map[string]interface{}{
		"outcome":      outcome,
		"tier":         tier,
		"listingCount": len(listings),
	})

	return &Output{
		Reply:          synthOut.Reply,
		ConversationID: req.ConversationID,
		Degraded:       contextOut.Degraded,
	}, nil
}

func (p *Pipeline) recordReply(ctx context.Context, outcome string) {
	if p.obs != nil {
		p.obs.RecordReply(ctx, outcome)
	}
}

// recordJob counts one pipeline run and its wall time, whatever the
// outcome.
func (p *Pipeline) recordJob(ctx context.Context, status string, start time.Time) {
	if p.obs != nil {
		p.obs.RecordJobProcessed(ctx, status)
		p.obs.RecordJobDuration(ctx, time.Since(start), status)
	}
}

// Logger adapters for the stage packages, which declare their own
// structurally identical Logger interfaces.

type parseUserIntentLoggerAdapter struct {
	logger.Logger
}

func (a *parseUserIntentLoggerAdapter) With(fields map[string]interface{}) parseuserintent.Logger {
	return &parseUserIntentLoggerAdapter{a.Logger.With(fields)}
}

type buildCatalogQueryLoggerAdapter struct {
	logger.Logger
}

func (a *buildCatalogQueryLoggerAdapter) With(fields map[string]interface{}) buildcatalogquery.Logger {
	return &buildCatalogQueryLoggerAdapter{a.Logger.With(fields)}
}

type queryCatalogLoggerAdapter struct {
	logger.Logger
}

func (a *queryCatalogLoggerAdapter) With(fields map[string]interface{}) querycatalog.Logger {
	return &queryCatalogLoggerAdapter{a.Logger.With(fields)}
}

type buildContextLoggerAdapter struct {
	logger.Logger
}

func (a *buildContextLoggerAdapter) With(fields map[string]interface{}) buildcontext.Logger {
	return &buildContextLoggerAdapter{a.Logger.With(fields)}
}

type llmSynthesisLoggerAdapter struct {
	logger.Logger
}

func (a *llmSynthesisLoggerAdapter) With(fields map[string]interface{}) llmsynthesis.Logger {
	return &llmSynthesisLoggerAdapter{a.Logger.With(fields)}
}
