package lint

import (
	"context"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
)

type Command struct {
	All   *AllCommand   `cmd:"" default:"1" help:"Run all the lint tasks."`
	Tasks *TasksCommand `cmd:"" help:"Lint the task runner's code."`
}

type AllCommand struct{}

type TasksCommand struct{}

func (r *AllCommand) Run(app *app.App) error {
	return Tasks(app.Context, app.Crank)
}

func (r *TasksCommand) Run(app *app.App) error {
	return Tasks(app.Context, app.Crank)
}

// Tasks runs the configured linter over the task runner sources.
func Tasks(ctx context.Context, app crank.Crank) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	tool, args, err := app.Shell(*app.Config().Lint.Command)
	if err != nil {
		return s.Invalid("invalid lint command", err)
	}

	result, err := tool.Run(ctx, "", args)
	if err != nil {
		return s.Fatal(127, "unable to run linter", err)
	}
	if err := result.Err(); err != nil {
		return s.Error("lint failed", err)
	}

	return nil
}
