// Package helios provides the Forest orchestrator: LLM-driven agents that
// call tools, hold multi-turn conversations, and assemble into a Forest — a
// collective of agents coordinated by a planning agent that decomposes a
// goal into a dependency graph of subtasks executed across workers under a
// shared, inspectable memory.
//
// # Quick Start
//
// Build an agent and run it directly:
//
//	transport := llm.NewOpenAICompatibleTransport(llm.HTTPConfig{
//	    ModelName: "gpt-4o-mini",
//	    BaseURL:   "https://api.openai.com/v1",
//	    APIKey:    os.Getenv("OPENAI_API_KEY"),
//	})
//	a := agent.NewBuilder("assistant", transport).
//	    WithTools(toolRegistry).
//	    WithSystemPrompt("You are a helpful assistant").
//	    Build()
//	reply, err := a.Chat(ctx, "what is 15 * 7?")
//
// Or assemble several agents into a Forest and let a coordinator plan and
// dispatch the work:
//
//	f := forest.NewBuilder("research-team").
//	    WithSharedContext(shared).
//	    WithAgent(coordinator, "decomposes goals into tasks").
//	    WithAgent(researcher, "gathers information").
//	    WithCoordinator("coordinator").
//	    Build()
//	answer, err := f.Execute(ctx, "summarize the competitive landscape")
//
// # Architecture
//
//	Goal → Forest.Execute → coordinator.create_plan → TaskPlan
//	     → ready-set dispatch → worker agents (each its own bounded loop)
//	     → coordinator synthesis → answer
//
// # Packages
//
//   - pkg/chat — the ordered conversation log an Agent drives its loop over
//   - pkg/tool — the Tool contract and name-keyed Registry
//   - pkg/llm — the LLM Transport abstraction and its OpenAI-compatible and
//     in-process implementations
//   - pkg/agent — the bounded ReAct-style tool-calling loop
//   - pkg/task — the TaskPlan DAG: dependency-aware scheduling and progress
//   - pkg/sharedcontext — the Forest's lock-guarded blackboard
//   - pkg/plantools — the built-in create_plan / update_task_memory /
//     send_message tools
//   - pkg/forest — the orchestrator itself
//   - pkg/ragstore — an embedded vector-store tool for retrieval-augmented
//     workers
//   - pkg/config — TOML configuration loading
//   - pkg/server — the HTTP surface exposing a Forest's agents
package helios
