package main

import (
	"fmt"

	"github.com/helios-engine/helios/internal/telemetry"
	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/config"
	"github.com/helios-engine/helios/pkg/forest"
	"github.com/helios-engine/helios/pkg/llm"
	"github.com/helios-engine/helios/pkg/plantools"
	"github.com/helios-engine/helios/pkg/sharedcontext"
	"github.com/helios-engine/helios/pkg/tool"
	"github.com/helios-engine/helios/pkg/tools"
)

// buildTransport selects the network or local-backend transport named by
// cfg (spec.md §6). The local backend has no bundled on-device model in
// this build — it is a collaborator seam, not a shipped inference engine —
// so enabling it in the config is always an error here.
func buildTransport(cfg *config.Config) (llm.Transport, error) {
	if cfg.Local != nil && cfg.Local.Enabled {
		return nil, fmt.Errorf("helios: local backend requested but this build registers no in-process inference handler")
	}
	return llm.NewOpenAICompatibleTransport(llm.HTTPConfig{
		ModelName:   cfg.ModelName,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}), nil
}

// buildForest wires a two-agent Forest — a coordinator that plans and a
// worker carrying the built-in calculator/file tools — sharing transport
// and configuration. This is the CLI's default topology; embedders of the
// pkg/forest package are free to build richer rosters directly.
func buildForest(cfg *config.Config, metrics *telemetry.Metrics) (*forest.Forest, error) {
	transport, err := buildTransport(cfg)
	if err != nil {
		return nil, err
	}

	shared := sharedcontext.New()

	workerTools := tool.NewRegistry()
	for _, t := range []tool.Tool{
		tools.NewCalculator(),
		tools.NewReadFile(tools.ReadFileConfig{}),
		tools.NewWriteFile(tools.WriteFileConfig{}),
		plantools.NewUpdateTaskMemory(shared),
		plantools.NewSendMessage(shared, "worker"),
	} {
		if err := workerTools.Register(t); err != nil {
			return nil, fmt.Errorf("helios: registering worker tool: %w", err)
		}
	}
	worker := agent.NewBuilder("worker", transport).
		WithTools(workerTools).
		WithSystemPrompt("You are a worker agent. Use your tools to complete the task you are given, then call update_task_memory with your result.").
		Build()

	coordTools := tool.NewRegistry()
	if err := coordTools.Register(plantools.NewCreatePlan(shared, []agent.ID{"worker"})); err != nil {
		return nil, fmt.Errorf("helios: registering coordinator tool: %w", err)
	}
	coordinator := agent.NewBuilder("coordinator", transport).
		WithTools(coordTools).
		WithSystemPrompt("You are the coordinator. Break the goal into tasks assigned to \"worker\" using create_plan, then, once tasks complete, produce the final answer.").
		Build()

	return forest.NewBuilder("helios").
		WithSharedContext(shared).
		WithAgent(coordinator, "plans the work and synthesizes the final answer").
		WithAgent(worker, "executes tasks using calculator/read_file/write_file").
		WithCoordinator("coordinator").
		WithMetrics(metrics).
		Build(), nil
}
