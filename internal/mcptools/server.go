package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewLemmaMCPServer creates an MCP server with all 7 lemma collection tools registered.
func NewLemmaMCPServer(svc *LemmaService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "lemma-collection",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_lemma",
		Description: "Record a new lemma. Requires a non-blank statement; proof, tags, category and notes are optional. Returns the stored record with its assigned id.",
	}, svc.AddLemma)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_lemma",
		Description: "Look up a single lemma by id. Returns found=false when no record has that id.",
	}, svc.GetLemma)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_lemmas",
		Description: "Search the collection. All given criteria must match: text (substring or regex over statement, proof and notes), tags (all required), category, and proof presence.",
	}, svc.SearchLemmas)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_dependency",
		Description: "Record that one lemma depends on another. Both endpoints must exist and a lemma cannot depend on itself.",
	}, svc.AddDependency)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dependencies",
		Description: "Traverse the dependency graph from a lemma. Upstream returns every lemma it depends on, directly or transitively; downstream returns every lemma that depends on it.",
	}, svc.GetDependencies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_dangling",
		Description: "List dependency edges whose target lemma has been deleted. Deletion never cascades, so edges can outlive their targets.",
	}, svc.FindDangling)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "collection_stats",
		Description: "Summarize the collection: totals, proof coverage, dependency usage, and per-category and per-tag counts.",
	}, svc.CollectionStats)

	return server
}

// RunMCPServer starts an HTTP server exposing the lemma collection MCP tools.
func RunMCPServer(ctx context.Context, svc *LemmaService, addr string) error {
	server := NewLemmaMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
