package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskhub/internal/exitcode"
	"taskhub/internal/model"
	"taskhub/internal/service"
)

// loadDocument fetches the task document. A document that does not exist
// yet comes back as the seeded empty document with an empty tag, so the
// first save creates it.
func loadDocument(ctx context.Context, env *Env) (model.Document, service.VersionTag, error) {
	token, err := env.Config.Token()
	if err != nil {
		return model.Document{}, "", fmt.Errorf("read credential: %w", err)
	}
	doc, tag, err := env.Store.Load(ctx, token)
	if errors.Is(err, service.ErrNotFound) {
		env.Config.Logger.Info("no task document yet, starting from defaults")
		s := env.Config.Settings
		return model.NewDocument(s.DefaultProjects, s.DefaultThemes), "", nil
	}
	if err != nil {
		return model.Document{}, "", err
	}
	return doc, tag, nil
}

// mutate runs one load, modify, save cycle. fn changes doc in memory; if it
// fails nothing is saved. The save carries the tag from the load, so a
// concurrent writer makes it fail instead of being overwritten.
func mutate(ctx context.Context, env *Env, fn func(doc *model.Document) error) error {
	doc, tag, err := loadDocument(ctx, env)
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}

	token, err := env.Config.Token()
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	next, err := env.Store.Save(ctx, token, tag, doc)
	if err != nil {
		return err
	}
	env.Config.Logger.Debug("document saved", "from", tag, "to", next)
	return nil
}

// fail prints err and maps it to an exit code. Anything that is not a sync
// or auth failure is the user's to fix.
func fail(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v (run: taskhub login)\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrConflict):
		fmt.Fprintf(errOut, "error: sync failed: %v\n", err)
		fmt.Fprintln(errOut, "the task file changed remotely; nothing was saved, run the command again")
		return exitcode.BackendError
	case service.IsKind(err, service.LoadFailed), service.IsKind(err, service.SaveFailed):
		fmt.Fprintf(errOut, "error: sync failed: %v\n", err)
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// done prints "ok" unless quiet.
func done(env *Env, out io.Writer) int {
	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
