package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/agent"
	"github.com/sells-group/trendscout/internal/fetcher"
	"github.com/sells-group/trendscout/internal/source"
	"github.com/sells-group/trendscout/internal/store"
	anthropicpkg "github.com/sells-group/trendscout/pkg/anthropic"
	"github.com/sells-group/trendscout/pkg/notion"
)

// agentEnv holds the initialized store, clients, and agent needed by
// the research/topics/script/serve commands.
type agentEnv struct {
	Store  store.Store
	Agent  *agent.Agent
	Notion notion.Client // nil when Notion is not configured
}

// Close releases resources held by the environment.
func (ae *agentEnv) Close() {
	if ae.Store != nil {
		_ = ae.Store.Close()
	}
}

// initStore opens and migrates the configured database.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store.DSN())
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initAgent sets up the store, the Anthropic client, the source
// registry, and the agent. Callers should defer env.Close().
func initAgent(ctx context.Context) (*agentEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("TRENDSCOUT_ANTHROPIC_KEY is required")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	fetchClient := fetcher.New(fetcher.Options{
		Timeout:  time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
		HostRate: cfg.Scrape.HostRate,
	})
	sources := source.NewDefaultRegistry(fetchClient)

	a := agent.New(anthropicClient, sources, st, agent.Options{
		Model:       cfg.Anthropic.Model,
		Concurrency: cfg.Scrape.Concurrency,
	})

	var notionClient notion.Client
	if cfg.Notion.Enabled() {
		notionClient = notion.NewClient(cfg.Notion.Token)
		zap.L().Info("notion export enabled")
	} else {
		zap.L().Debug("notion not configured, export disabled")
	}

	return &agentEnv{
		Store:  st,
		Agent:  a,
		Notion: notionClient,
	}, nil
}
