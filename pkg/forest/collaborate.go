package forest

import (
	"context"
	"fmt"
	"strings"

	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/plantools"
)

// ExecuteCollaborativeTask runs primary once with collaborators available
// to it through a send_message tool bound to the Forest's shared context;
// no coordinator or TaskPlan is involved (spec.md §4.6b). Returns the
// primary agent's final reply.
func (f *Forest) ExecuteCollaborativeTask(ctx context.Context, primary agent.ID, goal string, collaborators []agent.ID) (string, error) {
	a, ok := f.agents[primary]
	if !ok {
		return "", &UnknownAgent{ID: string(primary)}
	}
	for _, c := range collaborators {
		if _, ok := f.agents[c]; !ok {
			return "", &UnknownAgent{ID: string(c)}
		}
	}

	if err := a.Tools().Register(plantools.NewSendMessage(f.shared, primary)); err != nil {
		return "", fmt.Errorf("forest: binding send_message to %s: %w", primary, err)
	}

	names := make([]string, len(collaborators))
	for i, c := range collaborators {
		names[i] = string(c)
	}
	prompt := goal
	if len(names) > 0 {
		prompt = fmt.Sprintf("%s\n\nCollaborators available via send_message: %s", goal, strings.Join(names, ", "))
	}

	return f.chat(ctx, a, prompt)
}
