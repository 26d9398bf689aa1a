// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Gebo vault generation and exploration tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/gebo/internal/generator"
	"github.com/starford/gebo/internal/index"
	"github.com/starford/gebo/internal/noteservice"
	"github.com/starford/gebo/internal/storage"
)

// Defaults applied when a generate_vault call omits a parameter.
type Defaults struct {
	NoteCount int
	Density   float64
	Workers   int
}

// Server wraps the MCP server with Gebo tools. It manages a single vault:
// generate_vault writes into it, the read tools explore it.
type Server struct {
	mcp      *server.MCPServer
	gen      *generator.Generator
	svc      *noteservice.Service
	store    storage.Provider
	db       *index.DB
	logger   *slog.Logger
	defaults Defaults
}

// New creates a new MCP server with all Gebo tools registered.
func New(gen *generator.Generator, svc *noteservice.Service, store storage.Provider, db *index.DB, logger *slog.Logger, defaults Defaults) *Server {
	s := &Server{
		gen:      gen,
		svc:      svc,
		store:    store,
		db:       db,
		logger:   logger,
		defaults: defaults,
	}

	s.mcp = server.NewMCPServer(
		"Gebo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("generate_vault",
		mcp.WithDescription("Generate an interconnected Markdown vault for a topic. "+
			"Creates notes for the topic and its sub-topics, links them into a reciprocal "+
			"graph with hub notes, and writes an index document."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Main topic of the vault")),
		mcp.WithNumber("notes", mcp.Description("Target number of notes (default from config)")),
		mcp.WithNumber("density", mcp.Description("Connection density between 0.0 and 1.0")),
		mcp.WithNumber("seed", mcp.Description("Random seed for reproducible graphs")),
	), s.generateVault)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes in the vault."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note by title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title (filename without .md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the specified note."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the note to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("vault_stats",
		mcp.WithDescription("Summary statistics of the vault: note, hub, edge, and orphan counts."),
	), s.vaultStats)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical format of generated notes."),
	), s.getNoteContract)

	s.mcp.AddResource(
		mcp.NewResource("gebo://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical Markdown format of generated notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) generateVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := generator.Params{
		MainTopic: topic,
		NoteCount: s.defaults.NoteCount,
		Density:   s.defaults.Density,
		Workers:   s.defaults.Workers,
	}
	if n, err := req.RequireInt("notes"); err == nil {
		params.NoteCount = n
	}
	if d, err := req.RequireFloat("density"); err == nil {
		params.Density = d
	}
	if seed, err := req.RequireInt("seed"); err == nil {
		params.Seed = int64(seed)
	}

	report, err := s.gen.Run(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := index.Sync(s.db, s.store, s.logger); err != nil {
		s.logger.Warn("post-generate sync failed", slog.String("error", err.Error()))
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.ListNotes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var titles []string
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	return mcp.NewToolResultText(strings.Join(titles, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", title)), nil
	}
	return mcp.NewToolResultText(note.Content), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) vaultStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getNoteContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "gebo://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
