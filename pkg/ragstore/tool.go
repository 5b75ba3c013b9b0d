package ragstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/helios-engine/helios/pkg/tool"
)

// RetrieveTool exposes a Store's Query as an agent-callable tool, bound at
// construction time to one collection — the same bound-handle shape
// pkg/plantools uses for the context it is bound to.
type RetrieveTool struct {
	store      *Store
	collection string
}

// NewRetrieveTool binds retrieve_context to store and collection.
func NewRetrieveTool(store *Store, collection string) *RetrieveTool {
	return &RetrieveTool{store: store, collection: collection}
}

func (r *RetrieveTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        "retrieve_context",
		Description: fmt.Sprintf("Retrieve passages relevant to a query from the %q knowledge base.", r.collection),
		Parameters: map[string]tool.Parameter{
			"query": {TypeName: "string", Description: "What to search for.", Required: true},
			"top_k": {TypeName: "number", Description: "Number of passages to return (default 3).", Required: false},
		},
	}
}

type retrieveArgs struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (r *RetrieveTool) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	raw, err := json.Marshal(arguments)
	if err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	var args retrieveArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Query == "" {
		return tool.ErrorResult("query is required"), nil
	}
	if args.TopK <= 0 {
		args.TopK = 3
	}

	results, err := r.store.Query(ctx, r.collection, args.Query, args.TopK)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	if len(results) == 0 {
		return tool.Result{Content: "no matching passages found"}, nil
	}

	var b strings.Builder
	for i, res := range results {
		fmt.Fprintf(&b, "[%d] (score %.3f) %s\n", i+1, res.Score, res.Content)
	}
	return tool.Result{Content: b.String()}, nil
}

var _ tool.Tool = (*RetrieveTool)(nil)
