package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/dusk-indust/lemma/internal/lemma"
)

func runSearch(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	text := fs.String("text", "", "substring matched against statement, proof and notes")
	regex := fs.Bool("regex", false, "interpret -text as a regular expression")
	tags := fs.String("tags", "", "comma-separated tags that must all be present")
	category := fs.String("category", "", "exact category filter")
	proven := fs.Bool("proven", false, "only lemmas with a proof")
	unproven := fs.Bool("unproven", false, "only lemmas without a proof")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *proven && *unproven {
		return fmt.Errorf("-proven and -unproven are mutually exclusive")
	}

	q := lemma.Query{
		Text:     *text,
		Regex:    *regex,
		Tags:     splitTags(*tags),
		Category: *category,
	}
	if *proven || *unproven {
		hasProof := *proven
		q.HasProof = &hasProof
	}

	matches, err := env.store.Search(ctx, q)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	ids := make([]string, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Printf("%s\t%s\n", id, matches[id].Statement)
	}
	return nil
}
