// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/common/camunda"
	"shubharambh-workers/internal/common/config"
	"shubharambh-workers/internal/common/database"
	"shubharambh-workers/internal/common/logger"
	"shubharambh-workers/internal/common/observability"
	"shubharambh-workers/internal/pipeline"
	"shubharambh-workers/pkg/registry"

	bcq "shubharambh-workers/internal/workers/assistant/build-catalog-query"
	bc "shubharambh-workers/internal/workers/assistant/build-context"
	llm "shubharambh-workers/internal/workers/assistant/llm-synthesis"
	pui "shubharambh-workers/internal/workers/assistant/parse-user-intent"
	qc "shubharambh-workers/internal/workers/assistant/query-catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	reg, err := registry.LoadRegistry("configs/registry.json")
	if err != nil {
		zapLog.Warn("activity registry unavailable, using config defaults only", zap.Error(err))
		reg = &registry.ActivityRegistry{}
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init catalog store per configured backend ---
	var store catalog.Store

	switch cfg.Catalog.Backend {
	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
		store = catalog.NewElasticsearchStore(esClient.Client, cfg.Catalog.Index)

	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
		store = catalog.NewPostgresStore(pg.DB)
	}

	// --- Init Redis with retry (stats cache) ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	store = catalog.NewCachedStore(store, redis.Client,
		time.Duration(cfg.Catalog.StatsCacheTTL)*time.Millisecond)

	genaiCfg := &llm.Config{
		GenAIBaseURL: cfg.APIs.GenAI.BaseURL,
		APIKey:       cfg.APIs.GenAI.APIKey,
		Timeout:      time.Duration(cfg.APIs.GenAI.Timeout) * time.Millisecond,
		MaxTokens:    1024,
		Temperature:  0.4,
	}

	// --- Register assistant workers ---

	puiLogAdapter := &parseUserIntentLoggerAdapter{log}
	bcqLogAdapter := &buildCatalogQueryLoggerAdapter{log}
	qcLogAdapter := &queryCatalogLoggerAdapter{log}
	bcLogAdapter := &buildContextLoggerAdapter{log}
	llmLogAdapter := &llmSynthesisLoggerAdapter{log}

	if wcfg := workerSettings(cfg, reg, pui.TaskType); wcfg.Enabled {
		handler := pui.NewHandler(
			&pui.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			puiLogAdapter,
		)
		startWorker(zeebeClient, pui.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg := workerSettings(cfg, reg, bcq.TaskType); wcfg.Enabled {
		handler := bcq.NewHandler(
			&bcq.Config{
				Timeout:        time.Duration(wcfg.Timeout) * time.Millisecond,
				PrimaryLimit:   cfg.Catalog.PrimaryLimit,
				BroadenedLimit: cfg.Catalog.BroadenedLimit,
			},
			bcqLogAdapter,
		)
		startWorker(zeebeClient, bcq.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg := workerSettings(cfg, reg, qc.TaskType); wcfg.Enabled {
		handler := qc.NewHandler(
			&qc.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			store, qcLogAdapter,
		)
		startWorker(zeebeClient, qc.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg := workerSettings(cfg, reg, bc.TaskType); wcfg.Enabled {
		handler := bc.NewHandler(
			&bc.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			store, bcLogAdapter,
		)
		startWorker(zeebeClient, bc.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg := workerSettings(cfg, reg, llm.TaskType); wcfg.Enabled {
		handler := llm.NewHandler(genaiCfg, llmLogAdapter)
		startWorker(zeebeClient, llm.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg := workerSettings(cfg, reg, pipeline.TaskType); wcfg.Enabled {
		p := pipeline.New(store, genaiCfg, obs, log)
		handler := pipeline.NewHandler(
			&pipeline.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			p, log,
		)
		startWorker(zeebeClient, pipeline.TaskType, wcfg, handler.Handle, zapLog)
	}

	zapLog.Info("All assistant workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// workerSettings resolves a worker's runtime settings: the config map
// wins, then the activity registry's defaults, then conservative
// fallbacks.
func workerSettings(cfg *config.Config, reg *registry.ActivityRegistry, taskType string) config.WorkerConfig {
	if wcfg, ok := cfg.Workers[taskType]; ok {
		return wcfg
	}
	if a := reg.FindByTaskType(taskType); a != nil {
		return config.WorkerConfig{
			Enabled:       true,
			MaxJobsActive: a.MaxJobsActive,
			Timeout:       a.TimeoutMs,
			MaxRetries:    a.Retries,
		}
	}
	return config.WorkerConfig{
		Enabled:       true,
		MaxJobsActive: cfg.Camunda.MaxJobsActive,
		Timeout:       cfg.Camunda.Timeout,
	}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// Logger adapters for workers that declare their own Logger interfaces
type parseUserIntentLoggerAdapter struct {
	logger.Logger
}

func (a *parseUserIntentLoggerAdapter) With(fields map[string]interface{}) pui.Logger {
	return &parseUserIntentLoggerAdapter{a.Logger.With(fields)}
}

type buildCatalogQueryLoggerAdapter struct {
	logger.Logger
}

func (a *buildCatalogQueryLoggerAdapter) With(fields map[string]interface{}) bcq.Logger {
	return &buildCatalogQueryLoggerAdapter{a.Logger.With(fields)}
}

type queryCatalogLoggerAdapter struct {
	logger.Logger
}

func (a *queryCatalogLoggerAdapter) With(fields map[string]interface{}) qc.Logger {
	return &queryCatalogLoggerAdapter{a.Logger.With(fields)}
}

type buildContextLoggerAdapter struct {
	logger.Logger
}

func (a *buildContextLoggerAdapter) With(fields map[string]interface{}) bc.Logger {
	return &buildContextLoggerAdapter{a.Logger.With(fields)}
}

type llmSynthesisLoggerAdapter struct {
	logger.Logger
}

func (a *llmSynthesisLoggerAdapter) With(fields map[string]interface{}) llm.Logger {
	return &llmSynthesisLoggerAdapter{a.Logger.With(fields)}
}
