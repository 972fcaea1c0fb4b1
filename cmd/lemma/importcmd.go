package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/lemma/internal/persist"
)

func runImport(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lemma import <file>")
	}
	path := args[0]

	snap, err := persist.LoadForImport(path)
	if err != nil {
		return err
	}

	report, err := env.store.Import(ctx, snap)
	if err != nil {
		return err
	}

	if err := env.save(ctx); err != nil {
		return err
	}

	fmt.Printf("Imported %d lemmas from %s\n", len(report.Imported), path)
	for _, id := range report.Skipped {
		fmt.Printf("skipped %s: id already exists\n", id)
	}
	return nil
}
