package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/dusk-indust/lemma/internal/export"
	"github.com/dusk-indust/lemma/internal/lemma"
)

func runAdd(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	statement := fs.String("statement", "", "the statement to record (required)")
	proof := fs.String("proof", "", "proof text")
	tags := fs.String("tags", "", "comma-separated tags")
	category := fs.String("category", "", "category name (default: general)")
	notes := fs.String("notes", "", "free-form notes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := env.store.Add(ctx, lemma.Draft{
		Statement: *statement,
		Proof:     *proof,
		Tags:      splitTags(*tags),
		Category:  *category,
		Notes:     *notes,
	})
	if err != nil {
		return err
	}

	if err := env.save(ctx); err != nil {
		return err
	}

	fmt.Printf("Added %s\n", id)
	return nil
}

func runGet(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lemma get <id>")
	}
	id := args[0]

	record, err := env.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no lemma with id %s", id)
	}

	out, err := export.RenderRecord(*record, export.FormatText)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runList(ctx context.Context, env *cmdEnv) error {
	records, err := env.store.List(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No lemmas recorded.")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s\t%s\n", r.ID, r.Statement)
	}
	return nil
}

func runSet(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lemma set <id> [-statement] [-proof] [-tags] [-category] [-notes]")
	}
	id := args[0]

	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	statement := fs.String("statement", "", "new statement")
	proof := fs.String("proof", "", "new proof text (empty clears it)")
	tags := fs.String("tags", "", "new comma-separated tags (empty clears them)")
	category := fs.String("category", "", "new category")
	notes := fs.String("notes", "", "new notes (empty clears them)")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	// Only flags the caller actually set become part of the patch.
	var patch lemma.FieldPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "statement":
			patch.Statement = statement
		case "proof":
			patch.Proof = proof
		case "tags":
			t := splitTags(*tags)
			patch.Tags = &t
		case "category":
			patch.Category = category
		case "notes":
			patch.Notes = notes
		}
	})

	updated, err := env.store.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("no lemma with id %s", id)
	}

	if err := env.save(ctx); err != nil {
		return err
	}

	fmt.Printf("Updated %s\n", id)
	return nil
}

func runRemove(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lemma rm <id>")
	}
	id := args[0]

	deleted, err := env.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("no lemma with id %s", id)
	}

	if err := env.save(ctx); err != nil {
		return err
	}

	fmt.Printf("Removed %s\n", id)

	// Deletion never cascades, so warn about edges now left dangling.
	refs, err := env.store.FindDangling(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if ref.MissingID == id {
			fmt.Printf("warning: %s still depends on removed %s\n", ref.ReferencingID, id)
		}
	}
	return nil
}

// splitTags parses a comma-separated tag list; normalization happens in the
// store.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
