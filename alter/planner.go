package alter

import (
	"context"
	"fmt"

	"imagesteps/common"
	"imagesteps/config"
	"imagesteps/logging"
)

// Planner turns attribute maps into tool invocations and runs them.
// Scenario steps receive a Planner rather than reaching for shared state.
type Planner struct {
	tool string
	exec Executor
}

// NewPlanner creates a planner invoking tool through exec
func NewPlanner(tool string, exec Executor) *Planner {
	if tool == "" {
		tool = DefaultTool
	}
	if exec == nil {
		exec = ExecRunner{}
	}
	return &Planner{tool: tool, exec: exec}
}

// NewPlannerFromConfig creates a planner for the configured tool
func NewPlannerFromConfig(cfg *config.Config) *Planner {
	return NewPlanner(cfg.Tool.Binary, ExecRunner{Timeout: cfg.Tool.Timeout})
}

// Tool returns the command the planner invokes
func (p *Planner) Tool() string { return p.tool }

// Alter resizes, crops and reformats the image at path in place
func (p *Planner) Alter(ctx context.Context, path string, attrs common.Attributes) error {
	plan, err := BuildPlan(path, attrs)
	if err != nil {
		return fmt.Errorf("failed to plan alteration of %s: %w", path, err)
	}
	return p.Run(ctx, plan)
}

// Run hands a prepared plan to the image tool
func (p *Planner) Run(ctx context.Context, plan Plan) error {
	log := logging.L().WithField("path", plan.Path)
	if plan.UnappliedResize != "" {
		log.WithField("resize_method", plan.UnappliedResize).Warn("Resize method not recognised, image will not be resized")
	}

	args := plan.Args()
	log.WithField("command", plan.Command(p.tool)).Debug("Altering image")

	output, err := p.exec.Execute(ctx, p.tool, args)
	if err != nil {
		return &ToolError{Tool: p.tool, Args: args, Output: string(output), Err: err}
	}

	log.Debug("Image altered")
	return nil
}
