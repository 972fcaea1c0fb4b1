package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/lemma/internal/config"
	"github.com/dusk-indust/lemma/internal/lemma"
	"github.com/dusk-indust/lemma/internal/persist"
)

const defaultDataFile = "lemmas.json"

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: lemma [-file lemmas.json] <command> [args]

Commands:
  add         -statement <text> [-proof] [-tags a,b] [-category] [-notes]
  get         <id>
  list
  set         <id> [-statement] [-proof] [-tags a,b] [-category] [-notes]
  rm          <id>
  dep         add|rm <id> <depends-on>
  chain       <id>
  dependents  <id>
  search      [-text] [-regex] [-tags a,b] [-category] [-proven|-unproven]
  export      [-format text|markdown|latex|json] [-out dir] [-mermaid]
  import      <file>
  stats
  dangling    [-repair]
  serve-mcp   [-addr :9130]
  version
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cmdEnv carries the open collection and its configuration to subcommands.
type cmdEnv struct {
	store    lemma.Store
	dataFile string
	cfg      *config.ProjectConfig
}

// save writes the current collection state back to the data file.
func (e *cmdEnv) save(ctx context.Context) error {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := persist.Save(e.dataFile, snap); err != nil {
		return fmt.Errorf("save %s: %w", e.dataFile, err)
	}
	return nil
}

func run(args []string) error {
	fs := flag.NewFlagSet("lemma", flag.ContinueOnError)
	dataFile := fs.String("file", "", "path to the collection JSON file (default lemmas.json)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return fmt.Errorf("no command given")
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if cmd == "version" {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := *dataFile
	if path == "" {
		path = cfg.DataFile
	}
	if path == "" {
		path = defaultDataFile
	}

	ctx := context.Background()
	store, err := openCollection(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	env := &cmdEnv{store: store, dataFile: path, cfg: cfg}

	switch cmd {
	case "add":
		return runAdd(ctx, env, cmdArgs)
	case "get":
		return runGet(ctx, env, cmdArgs)
	case "list":
		return runList(ctx, env)
	case "set":
		return runSet(ctx, env, cmdArgs)
	case "rm":
		return runRemove(ctx, env, cmdArgs)
	case "dep":
		return runDep(ctx, env, cmdArgs)
	case "chain":
		return runChain(ctx, env, cmdArgs)
	case "dependents":
		return runDependents(ctx, env, cmdArgs)
	case "search":
		return runSearch(ctx, env, cmdArgs)
	case "export":
		return runExport(ctx, env, cmdArgs)
	case "import":
		return runImport(ctx, env, cmdArgs)
	case "stats":
		return runStats(ctx, env)
	case "dangling":
		return runDangling(ctx, env, cmdArgs)
	case "serve-mcp":
		return runServeMCP(ctx, env, cmdArgs)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openCollection creates an in-memory store and loads the data file into it.
// A missing data file yields an empty collection.
func openCollection(ctx context.Context, path string) (lemma.Store, error) {
	store := lemma.NewMemStore()
	if err := store.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	snap, err := persist.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if snap != nil {
		if err := store.Restore(ctx, snap); err != nil {
			return nil, fmt.Errorf("restore %s: %w", path, err)
		}
	}
	return store, nil
}
