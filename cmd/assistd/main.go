package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"assistd/internal/assistant"
	"assistd/internal/config"
	"assistd/internal/httpapi"
	"assistd/internal/llm"
	"assistd/internal/manager"
	"assistd/internal/prompts"
	"assistd/internal/registry"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Flags with environment variable defaults
	addr := flag.String("addr", envOr("ASSISTD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	modelPath := flag.String("model", envOr("BASE_MODEL_PATH", ""), "Path to the base model weights (*.gguf)")
	adaptersDir := flag.String("adapters-dir", envOr("ADAPTERS_BASE_PATH", "~/adapters"), "Directory holding one subdirectory per adapter")
	promptsDir := flag.String("prompts-dir", envOr("PROMPTS_PATH", "prompts"), "Directory holding system prompt templates")
	configPath := flag.String("config", os.Getenv("ASSISTD_CONFIG"), "Optional config file (.yaml/.json/.toml); flags take precedence")
	maxNewTokens := flag.Int("max-new-tokens", 0, "Default generation token budget (0=built-in default)")
	temperature := flag.Float64("temperature", 0, "Sampling temperature (0=built-in default)")
	llamaCtx := flag.Int("llama-ctx", 2048, "llama context window size in tokens")
	llamaThreads := flag.Int("llama-threads", 0, "llama worker threads (0=auto)")
	logLevel := flag.String("log-level", envOr("ASSISTD_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	maxBodyBytes := flag.Int64("max-body-bytes", 0, "Maximum JSON request body size (0=default 1MiB)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (empty disables CORS)")
	flag.Parse()

	// Flags explicitly set on the command line win over the config file.
	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			bootLog := zerolog.New(os.Stderr)
			bootLog.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		overlay(setFlags, cfg, addr, modelPath, adaptersDir, promptsDir,
			maxNewTokens, temperature, llamaCtx, llamaThreads, logLevel, maxBodyBytes, corsOrigins)
	}

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	rt := llm.NewRuntime(*llamaCtx, *llamaThreads)
	var model llm.Model
	if *modelPath == "" {
		log.Warn().Msg("no base model path configured, serving in not-ready mode")
	} else {
		model, err = rt.LoadModel(*modelPath)
		if err != nil {
			// Keep serving health and listing endpoints; generation reports 503.
			log.Error().Err(err).Str("path", *modelPath).Msg("base model load failed")
			model = nil
		}
	}

	reg, err := registry.New(*adaptersDir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *adaptersDir).Msg("adapter registry init failed")
	}
	store := prompts.Load(*promptsDir, log)

	am := manager.NewAdapterManager(reg, rt, log)
	handler := manager.NewHandler(model, am, store, manager.HandlerConfig{
		MaxNewTokens: *maxNewTokens,
		Temperature:  float32(*temperature),
	}, log)
	svc := assistant.New(handler, reg, log)

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(*maxBodyBytes)
	if *corsOrigins != "" {
		httpapi.SetCORSOptions(true, strings.Split(*corsOrigins, ","),
			[]string{"GET", "POST", "OPTIONS"}, []string{"Accept", "Content-Type"})
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: *addr, Handler: httpapi.NewMux(svc)}

	go func() {
		log.Info().Str("addr", *addr).Str("adapters_dir", *adaptersDir).Bool("model_loaded", model != nil).Msg("assistd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

// overlay fills flag values that were not set on the command line from the
// config file. Zero values in the file leave the flag defaults alone.
func overlay(set map[string]bool, cfg config.Config,
	addr, modelPath, adaptersDir, promptsDir *string,
	maxNewTokens *int, temperature *float64, llamaCtx, llamaThreads *int,
	logLevel *string, maxBodyBytes *int64, corsOrigins *string,
) {
	if !set["addr"] && cfg.Addr != "" {
		*addr = cfg.Addr
	}
	if !set["model"] && cfg.ModelPath != "" {
		*modelPath = cfg.ModelPath
	}
	if !set["adapters-dir"] && cfg.AdaptersDir != "" {
		*adaptersDir = cfg.AdaptersDir
	}
	if !set["prompts-dir"] && cfg.PromptsDir != "" {
		*promptsDir = cfg.PromptsDir
	}
	if !set["max-new-tokens"] && cfg.MaxNewTokens != 0 {
		*maxNewTokens = cfg.MaxNewTokens
	}
	if !set["temperature"] && cfg.Temperature != 0 {
		*temperature = float64(cfg.Temperature)
	}
	if !set["llama-ctx"] && cfg.LlamaCtx != 0 {
		*llamaCtx = cfg.LlamaCtx
	}
	if !set["llama-threads"] && cfg.LlamaThreads != 0 {
		*llamaThreads = cfg.LlamaThreads
	}
	if !set["log-level"] && cfg.LogLevel != "" {
		*logLevel = cfg.LogLevel
	}
	if !set["max-body-bytes"] && cfg.MaxBodyBytes != 0 {
		*maxBodyBytes = cfg.MaxBodyBytes
	}
	if !set["cors-origins"] && cfg.CORSEnabled && len(cfg.CORSOrigins) > 0 {
		*corsOrigins = strings.Join(cfg.CORSOrigins, ",")
	}
}
