package main

import (
	"context"
	"fmt"
	"time"

	"github.com/helios-engine/helios/pkg/config"
)

// ChatCmd runs a single goal through a Forest, in the style of the
// teacher's own `hector run` command, and prints the final answer.
type ChatCmd struct {
	Goal string `arg:"" help:"The goal to hand to the Forest's coordinator."`

	Timeout time.Duration `help:"Maximum time to wait for the Forest to finish." default:"2m"`
}

func (c *ChatCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := buildForest(cfg, nil)
	if err != nil {
		return fmt.Errorf("building forest: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	answer, err := f.Execute(ctx, c.Goal)
	if err != nil {
		return fmt.Errorf("executing goal: %w", err)
	}

	fmt.Println(answer)
	return nil
}
