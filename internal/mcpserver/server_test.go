package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/gebo/internal/content"
	"github.com/starford/gebo/internal/generator"
	"github.com/starford/gebo/internal/noteservice"
	"github.com/starford/gebo/internal/storage"
	"github.com/starford/gebo/internal/testutil"
	"github.com/starford/gebo/internal/topics"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()

	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := generator.New(topics.TemplateExpander{}, content.TemplateFiller{}, store, logger)
	svc := noteservice.NewService(store, db)

	srv := New(gen, svc, store, db, logger, Defaults{NoteCount: 6, Density: 0.5, Workers: 2})
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go offers no direct "call tool" test helper, so call the handler
	// functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "generate_vault":
		result, err = srv.generateVault(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "vault_stats":
		result, err = srv.vaultStats(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGenerateVaultTool(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "generate_vault", map[string]interface{}{
		"topic": "Astronomy",
		"seed":  7,
	})
	if r.IsError {
		t.Fatalf("generate_vault failed: %s", resultText(r))
	}
	var report generator.Report
	if err := json.Unmarshal([]byte(resultText(r)), &report); err != nil {
		t.Fatalf("result is not a report: %v", err)
	}
	if report.Notes < 6 || report.Hubs < 1 {
		t.Errorf("report = %+v", report)
	}

	// Notes landed on disk and in the index.
	if _, err := store.Read("Astronomy.md"); err != nil {
		t.Errorf("main note not on disk: %v", err)
	}
	r = callTool(t, srv, "list_notes", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Astronomy") {
		t.Errorf("list_notes = %q", resultText(r))
	}
}

func TestGenerateVaultTool_MissingTopic(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "generate_vault", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error without topic")
	}
}

func TestReadNoteTool(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "generate_vault", map[string]interface{}{"topic": "Biology"})

	r := callTool(t, srv, "read_note", map[string]interface{}{"title": "Biology"})
	if r.IsError {
		t.Fatalf("read_note failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "# Biology") {
		t.Errorf("content = %q", resultText(r))
	}
}

func TestReadNoteTool_Missing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"title": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestGetBacklinksTool(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "generate_vault", map[string]interface{}{"topic": "Geology", "seed": 3})

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"title": "Geology"})
	if r.IsError {
		t.Fatalf("get_backlinks failed: %s", resultText(r))
	}
	if resultText(r) == "no backlinks found" {
		t.Error("main note should have backlinks in a reciprocal vault")
	}
}

func TestVaultStatsTool(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "generate_vault", map[string]interface{}{"topic": "History"})

	r := callTool(t, srv, "vault_stats", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("vault_stats failed: %s", resultText(r))
	}
	var stats struct {
		Notes   int `json:"notes"`
		Orphans int `json:"orphans"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Notes < 6 {
		t.Errorf("notes = %d, want >= 6", stats.Notes)
	}
	if stats.Orphans != 0 {
		t.Errorf("orphans = %d, want 0", stats.Orphans)
	}
}

func TestNoteContractTool(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_note_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "wikilink") {
		t.Errorf("contract = %q", resultText(r))
	}
}
