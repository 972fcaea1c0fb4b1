package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dusk-indust/lemma/internal/export"
)

func runExport(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "", "output format: text, markdown, latex or json")
	outDir := fs.String("out", "", "write every format into this directory instead of stdout")
	mermaid := fs.Bool("mermaid", false, "print a Mermaid dependency diagram instead")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *mermaid {
		records, err := env.store.List(ctx)
		if err != nil {
			return err
		}
		fmt.Print(export.GenerateMermaid(records))
		return nil
	}

	snap, err := env.store.Snapshot(ctx)
	if err != nil {
		return err
	}

	if *outDir != "" {
		if err := export.WriteFormats(ctx, *outDir, export.Formats, snap); err != nil {
			return err
		}
		fmt.Printf("Wrote %d formats to %s\n", len(export.Formats), *outDir)
		return nil
	}

	name := *format
	if name == "" {
		name = env.cfg.DefaultFormat
	}
	if name == "" {
		name = "text"
	}

	f, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	out, err := export.RenderCollection(snap, f, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
