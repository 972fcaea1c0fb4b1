package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
)

func runStats(ctx context.Context, env *cmdEnv) error {
	stats, err := env.store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total lemmas:      %d\n", stats.TotalLemmas)
	fmt.Printf("With proof:        %d\n", stats.WithProof)
	fmt.Printf("Without proof:     %d\n", stats.WithoutProof)
	fmt.Printf("With dependencies: %d\n", stats.WithDependencies)

	if len(stats.Categories) > 0 {
		fmt.Println("\nCategories:")
		printCounts(stats.Categories)
	}
	if len(stats.Tags) > 0 {
		fmt.Println("\nTags:")
		printCounts(stats.Tags)
	}

	fmt.Printf("\nCreated:       %s\n", stats.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("Last modified: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	return nil
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, counts[k])
	}
}

func runDangling(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("dangling", flag.ContinueOnError)
	repair := fs.Bool("repair", false, "remove the dangling edges that are found")

	if err := fs.Parse(args); err != nil {
		return err
	}

	refs, err := env.store.FindDangling(ctx)
	if err != nil {
		return err
	}

	if len(refs) == 0 {
		fmt.Println("No dangling references.")
		return nil
	}

	for _, ref := range refs {
		fmt.Printf("%s -> %s (missing)\n", ref.ReferencingID, ref.MissingID)
	}

	if !*repair {
		return nil
	}

	for _, ref := range refs {
		if _, err := env.store.RemoveDependency(ctx, ref.ReferencingID, ref.MissingID); err != nil {
			return err
		}
	}
	if err := env.save(ctx); err != nil {
		return err
	}

	fmt.Printf("Removed %d dangling edges\n", len(refs))
	return nil
}
