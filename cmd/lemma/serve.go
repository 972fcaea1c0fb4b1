package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/lemma/internal/mcptools"
)

const defaultMCPAddr = ":9130"

func runServeMCP(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (default :9130)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	listen := *addr
	if listen == "" {
		listen = env.cfg.MCPAddr
	}
	if listen == "" {
		listen = defaultMCPAddr
	}

	svc := mcptools.NewLemmaService(env.store)
	svc.SetDataFile(env.dataFile)
	if env.cfg.GraphDir != "" {
		svc.SetGraphDir(env.cfg.GraphDir)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("MCP server listening on %s\n", listen)
	return mcptools.RunMCPServer(ctx, svc, listen)
}
