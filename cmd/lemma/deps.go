package main

import (
	"context"
	"fmt"
)

func runDep(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: lemma dep add|rm <id> <depends-on>")
	}
	verb, id, dependsOn := args[0], args[1], args[2]

	switch verb {
	case "add":
		if err := env.store.AddDependency(ctx, id, dependsOn); err != nil {
			return err
		}
		if err := env.save(ctx); err != nil {
			return err
		}
		fmt.Printf("%s now depends on %s\n", id, dependsOn)
		return nil

	case "rm":
		removed, err := env.store.RemoveDependency(ctx, id, dependsOn)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%s does not depend on %s", id, dependsOn)
		}
		if err := env.save(ctx); err != nil {
			return err
		}
		fmt.Printf("%s no longer depends on %s\n", id, dependsOn)
		return nil

	default:
		return fmt.Errorf("unknown dep verb %q (want add or rm)", verb)
	}
}

func runChain(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lemma chain <id>")
	}
	id := args[0]

	ids, err := env.store.DependencyChain(ctx, id)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Printf("%s has no dependencies\n", id)
		return nil
	}
	for _, dep := range ids {
		fmt.Println(dep)
	}
	return nil
}

func runDependents(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lemma dependents <id>")
	}
	id := args[0]

	ids, err := env.store.Dependents(ctx, id)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Printf("nothing depends on %s\n", id)
		return nil
	}
	for _, dep := range ids {
		fmt.Println(dep)
	}
	return nil
}
