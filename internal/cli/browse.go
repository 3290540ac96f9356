package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/punchline/internal/config"
	"github.com/aretw0/punchline/internal/runtime"
)

// PrintRecent writes the n most recent catalog entries to w, oldest first.
// A non-positive n uses policy.browse_limit.
func PrintRecent(ctx context.Context, cfg *config.Config, n int, w io.Writer) error {
	if n <= 0 {
		n = cfg.Policy.BrowseLimit
	}

	catalog, closeCatalog, err := OpenCatalog(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	jokes, err := catalog.Recent(ctx, n)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if len(jokes) == 0 {
		_, err = fmt.Fprintln(w, runtime.MsgNoJokes)
		return err
	}
	_, err = fmt.Fprintln(w, runtime.FormatJokes(jokes))
	return err
}
