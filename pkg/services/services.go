// Package services assembles the vignettes components from a resolved
// configuration. Every command that runs part of the pipeline builds its
// collaborators here so that serve, generate and browse share one wiring.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/papercomputeco/vignettes/api"
	"github.com/papercomputeco/vignettes/api/mcp"
	"github.com/papercomputeco/vignettes/pkg/combat"
	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/credentials"
	"github.com/papercomputeco/vignettes/pkg/crew"
	"github.com/papercomputeco/vignettes/pkg/docstore"
	"github.com/papercomputeco/vignettes/pkg/eventstream"
	"github.com/papercomputeco/vignettes/pkg/eventstream/kafka"
	"github.com/papercomputeco/vignettes/pkg/eventstream/nop"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/llm"
	"github.com/papercomputeco/vignettes/pkg/llm/provider"
	"github.com/papercomputeco/vignettes/pkg/location"
	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/manifest"
	"github.com/papercomputeco/vignettes/pkg/saves"
	"github.com/papercomputeco/vignettes/pkg/scheduler"
	"github.com/papercomputeco/vignettes/pkg/vignette"
	"github.com/papercomputeco/vignettes/pkg/watcher"
	"github.com/papercomputeco/vignettes/pkg/worker"
)

const (
	EventsNop   = "nop"
	EventsKafka = "kafka"
)

// Options overrides collaborators that would otherwise be built from the
// configuration.
type Options struct {
	// Completer replaces the configured provider.
	Completer llm.Completer

	// Publisher replaces the configured event publisher.
	Publisher eventstream.Publisher

	// ConfigDir locates credentials stored by "vignettes auth".
	ConfigDir string
}

// Services holds the shared stores and the two pipelines built on them.
type Services struct {
	Config *config.Config
	Layout config.Layout
	Logger *slog.Logger

	Completer llm.Completer
	Publisher eventstream.Publisher

	GameState *gamestate.Store
	Crew      *crew.Store
	Marker    *scheduler.MarkerStore
	Locations *location.HistoryFiles

	Generator *vignette.Generator
	Processor *saves.Processor
}

// New validates cfg, creates the workspace directories and builds every
// component that does not own a goroutine.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts Options) (*Services, error) {
	if cfg == nil {
		return nil, errors.New("services need a config")
	}
	if log == nil {
		return nil, errors.New("services need a logger")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}

	s := &Services{Config: cfg, Layout: layout, Logger: log}

	s.Completer = opts.Completer
	if s.Completer == nil {
		s.Completer, err = newCompleter(ctx, cfg, opts.ConfigDir)
		if err != nil {
			return nil, err
		}
	}

	s.Publisher = opts.Publisher
	if s.Publisher == nil {
		s.Publisher, err = NewPublisher(cfg.Events, logger.Component(log, "events"))
		if err != nil {
			return nil, err
		}
	}

	locker := docstore.NewLocker()
	timeout := cfg.Timeout()

	storeLog := logger.Component(log, "store")
	s.GameState = gamestate.NewStore(layout.GameState, locker, storeLog)
	s.Crew = crew.NewStore(layout.CrewDetails, locker, storeLog)
	s.Marker = scheduler.NewMarkerStore(layout.Marker)
	s.Locations = location.NewHistoryFiles(layout.Saves, storeLog)

	genLog := logger.Component(log, "generator")
	saveLog := logger.Component(log, "saves")

	s.Generator, err = vignette.NewGenerator(&vignette.Config{
		Completer:         s.Completer,
		GameState:         s.GameState,
		Crew:              s.Crew,
		Combat:            combat.NewExtractor(layout.CombatLogs, genLog),
		Locations:         s.Locations,
		Marker:            s.Marker,
		Publisher:         s.Publisher,
		ThemesPath:        layout.Themes,
		RecentQuestsPath:  layout.RecentQuests,
		OutputDir:         layout.Output,
		SummariesDir:      layout.NarrativeSummaries,
		Temperature:       cfg.LLM.Temperature,
		MaxTokensVignette: int(cfg.LLM.MaxTokensVignette),
		MaxTokensSummary:  int(cfg.LLM.MaxTokensSummary),
		MaxTokensCrew:     int(cfg.LLM.MaxTokensCrewUpdate),
		Timeout:           timeout,
		Logger:            genLog,
	})
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	s.Processor, err = saves.NewProcessor(&saves.Config{
		SavesDir:      layout.Saves,
		CombatLogsDir: layout.CombatLogs,
		Manifest:      manifest.NewStore(layout.Manifest, locker, saveLog),
		Classifier:    location.NewClassifier(s.Completer, timeout, saveLog),
		Locations:     s.Locations,
		GameState:     s.GameState,
		Summarizer:    combat.NewSummarizer(layout.CombatLogs, s.Completer, timeout, saveLog),
		Publisher:     s.Publisher,
		Logger:        saveLog,
	})
	if err != nil {
		return nil, fmt.Errorf("creating save processor: %w", err)
	}

	return s, nil
}

func newCompleter(ctx context.Context, cfg *config.Config, configDir string) (llm.Completer, error) {
	credMgr, err := credentials.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	c, err := provider.New(ctx, provider.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		CredMgr:  credMgr,
	})
	if err != nil {
		return nil, fmt.Errorf("creating completer: %w", err)
	}
	return c, nil
}

// NewPublisher returns the event publisher named by cfg.Provider.
func NewPublisher(cfg config.EventsConfig, log *slog.Logger) (eventstream.Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", EventsNop:
		return nop.NewPublisher(), nil
	case EventsKafka:
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
			Logger:  log,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events provider: %q (supported: %s, %s)", cfg.Provider, EventsNop, EventsKafka)
	}
}

// NewScheduler builds the generation scheduler around the generator.
func (s *Services) NewScheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(&scheduler.Config{
		InputDir:     s.Layout.Input,
		Interval:     s.Config.Interval(),
		PollInterval: s.Config.PollInterval(),
		Marker:       s.Marker,
		Cycle: func(ctx context.Context) error {
			_, err := s.Generator.Run(ctx)
			return err
		},
		Logger: logger.Component(s.Logger, "scheduler"),
	})
}

// NewPool starts the serial save processing pool.
func (s *Services) NewPool() (*worker.Pool, error) {
	return worker.NewPool(&worker.Config{
		Processor: s.Processor,
		Logger:    logger.Component(s.Logger, "worker"),
	})
}

// NewWatcher builds a save folder watcher that enqueues settled saves on pool.
func (s *Services) NewWatcher(pool *worker.Pool) (*watcher.Watcher, error) {
	if s.Layout.SaveFolder == "" {
		return nil, fmt.Errorf("%w: paths.save_folder", config.ErrMissingSetting)
	}

	w := s.Config.Watcher
	log := logger.Component(s.Logger, "watcher")
	return watcher.New(&watcher.Config{
		Dir:       s.Layout.SaveFolder,
		Extension: w.Extension,
		Cooldown:  s.Config.Cooldown(),
		Settle:    s.Config.Settle(),
		CacheSize: int(w.CacheSize),
		Handler: func(path string) {
			if !pool.Enqueue(worker.Job{SavePath: path}) {
				log.Warn("save queue full, dropping save", "path", path)
			}
		},
		Logger: log,
	})
}

// NewAPI builds the HTTP API with the MCP tools mounted at /mcp. sched may be
// nil when the scheduler loop is not running in this process.
func (s *Services) NewAPI(listen string, sched *scheduler.Scheduler) (*api.Server, error) {
	log := logger.Component(s.Logger, "api")

	mcpServer, err := mcp.NewServer(mcp.Config{
		VignettesDir: s.Layout.Output,
		GameState:    s.GameState,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	if listen == "" {
		listen = s.Config.API.Listen
	}

	return api.NewServer(api.Config{
		ListenAddr:    listen,
		VignettesDir:  s.Layout.Output,
		CombatLogsDir: s.Layout.CombatLogs,
		Generator:     s.Generator,
		GameState:     s.GameState,
		Scheduler:     sched,
		MCP:           mcpServer.Handler(),
	}, log)
}

// Close releases the publisher and, when it holds a client, the completer.
func (s *Services) Close() error {
	var errs []error
	if s.Publisher != nil {
		errs = append(errs, s.Publisher.Close())
	}
	if c, ok := s.Completer.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
