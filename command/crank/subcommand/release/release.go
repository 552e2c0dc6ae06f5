package release

import (
	"context"
	"errors"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/subcommand/build"
	"go.scnd.dev/open/crank/compat/common"
	"go.uber.org/zap"
)

var ErrPublishNotConfigured = errors.New("publish section missing from configuration")

type Command struct {
	All  *AllCommand  `cmd:"" default:"1" help:"Create the release packages for various operating systems."`
	Docs *DocsCommand `cmd:"" help:"Build the documentation for release and publish it to object storage."`
}

type AllCommand struct{}

type DocsCommand struct {
	DryRun bool `help:"List the objects without uploading them."`
}

func (r *AllCommand) Run(app *app.App) error {
	return All(app.Context, app.Crank)
}

func (r *DocsCommand) Run(app *app.App) error {
	if err := Docs(app.Context, app.Crank, r.DryRun); err != nil {
		return err
	}

	app.Done("Documentation published.")
	return nil
}

// All runs the configured release script.
func All(ctx context.Context, app crank.Crank) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	tool, args, err := app.Shell(*app.Config().Release.Command)
	if err != nil {
		return s.Invalid("invalid release command", err)
	}

	result, err := tool.Run(ctx, "", args)
	if err != nil {
		return s.Fatal(127, "unable to run release command", err)
	}
	if err := result.Err(); err != nil {
		return s.Error("release failed", err)
	}

	return nil
}

// Docs builds the documentation in release mode and uploads the site.
func Docs(ctx context.Context, app crank.Crank, dryRun bool) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	publish := app.Config().Publish
	if publish == nil {
		return s.Invalid("unable to publish documentation", ErrPublishNotConfigured)
	}

	config, err := build.Docs(ctx, app, true)
	if err != nil {
		return err
	}

	prefix := ""
	if publish.Prefix != nil {
		prefix = *publish.Prefix
	}
	uploads, err := common.Uploads(config.OutputDir(), prefix)
	if err != nil {
		return s.Error("unable to list site files", err)
	}

	if dryRun {
		for _, upload := range uploads {
			s.Logger().Info("would upload", zap.String("key", upload.Key), zap.String("path", upload.Path))
		}
		return nil
	}

	client, err := common.Minio(publish)
	if err != nil {
		return s.Error("unable to connect to object storage", err)
	}
	if err := common.Publish(ctx, client, *publish.Bucket, uploads, s.Logger()); err != nil {
		return s.Error("unable to publish documentation", err)
	}

	s.Logger().Info("published documentation", zap.String("bucket", *publish.Bucket), zap.Int("objects", len(uploads)))
	return nil
}
