package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dusk-indust/lemma/internal/lemma"
	"golang.org/x/sync/errgroup"
)

// WriteFormats renders the snapshot in every requested format and writes
// one file per format into dir (lemmas.txt, lemmas.md, ...). Renders run in
// parallel; the first failure cancels the rest via the errgroup context.
func WriteFormats(ctx context.Context, dir string, formats []Format, snap *lemma.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	generatedAt := time.Now().UTC()
	g, gctx := errgroup.WithContext(ctx)

	for _, f := range formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := RenderCollection(snap, f, generatedAt)
			if err != nil {
				return fmt.Errorf("render %s: %w", f, err)
			}
			path := filepath.Join(dir, "lemmas."+f.Extension())
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			return nil
		})
	}

	return g.Wait()
}
