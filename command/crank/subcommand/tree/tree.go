package tree

import (
	"github.com/alecthomas/kong"
	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/procedure/printer"
)

type Command struct{}

// Run lists the task tree. The kong context is bound by kong itself.
func (r *Command) Run(app *app.App, k *kong.Context) error {
	s, _ := crank.With(app.Context)
	defer s.End()

	if err := printer.PrintTree(app.Crank.Stdout(), k.Model.Node); err != nil {
		return s.Error("unable to print task tree", err)
	}
	return nil
}
