package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
// Calls are serialized: every operation reads and rewrites the whole
// collection and may drive the live layout.
type Handlers struct {
	deps *ops.Deps
	mu   sync.Mutex
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *ops.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Request types for each tool

// RefRequest addresses one workspace by id or name.
type RefRequest struct {
	Ref string `json:"ref"`
}

// PageRequest represents the arguments for list.
type PageRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// CreateRequest represents the arguments for create.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateRequest represents the arguments for update.
type UpdateRequest struct {
	Ref         string  `json:"ref"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SearchRequest represents the arguments for search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path   string `json:"path,omitempty"`
	Format string `json:"format,omitempty"`
}

// ImportRequest represents the arguments for import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// run decodes the arguments into T and runs op under the handler lock.
func run[T any](h *Handlers, req mcp.CallToolRequest, op func(T) (any, error)) (*mcp.CallToolResult, error) {
	input, err := decode[T](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	result, err := op(input)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Handler implementations

// HandleList handles the workspace_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in PageRequest) (any, error) {
		return ops.List(ctx, h.deps, ops.ListInput{Limit: in.Limit, Offset: in.Offset})
	})
}

// HandleGet handles the workspace_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in RefRequest) (any, error) {
		return ops.Fetch(ctx, h.deps, ops.FetchInput{Ref: in.Ref})
	})
}

// HandleCurrent handles the workspace_current tool call.
func (h *Handlers) HandleCurrent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(struct{}) (any, error) {
		return ops.Current(ctx, h.deps)
	})
}

// HandleCreate handles the workspace_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in CreateRequest) (any, error) {
		return ops.Create(ctx, h.deps, ops.CreateInput{Name: in.Name, Description: in.Description})
	})
}

// HandleUpdate handles the workspace_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in UpdateRequest) (any, error) {
		return ops.Update(ctx, h.deps, ops.UpdateInput{Ref: in.Ref, Name: in.Name, Description: in.Description})
	})
}

// HandleDelete handles the workspace_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in RefRequest) (any, error) {
		return ops.Delete(ctx, h.deps, ops.DeleteInput{Ref: in.Ref})
	})
}

// HandleSwitch handles the workspace_switch tool call.
func (h *Handlers) HandleSwitch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in RefRequest) (any, error) {
		return ops.Switch(ctx, h.deps, ops.SwitchInput{Ref: in.Ref})
	})
}

// HandleSave handles the workspace_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(struct{}) (any, error) {
		return ops.Save(ctx, h.deps)
	})
}

// HandleSearch handles the workspace_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in SearchRequest) (any, error) {
		return ops.Search(ctx, h.deps, ops.SearchInput{Query: in.Query, Limit: in.Limit, Offset: in.Offset})
	})
}

// HandleExport handles the workspace_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in ExportRequest) (any, error) {
		return ops.Export(ctx, h.deps, ops.ExportInput{Path: in.Path, Format: ops.Format(in.Format)})
	})
}

// HandleImport handles the workspace_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(in ImportRequest) (any, error) {
		return ops.Import(ctx, h.deps, ops.ImportInput{Path: in.Path, Mode: ops.ImportMode(in.Mode)})
	})
}

// HandleCapture handles the tabs_capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(h, req, func(struct{}) (any, error) {
		return ops.Capture(ctx, h.deps)
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if nookErr, ok := errors.As(err); ok {
		// Keep wrapper context such as "switch: " in front of the message.
		message := nookErr.Message
		if full := err.Error(); full != nookErr.Error() {
			message = strings.TrimSuffix(full, nookErr.Error()) + message
		}
		errorObj := map[string]any{
			"code":    nookErr.Code,
			"message": message,
			"status":  nookErr.Status,
		}
		if nookErr.Code != errors.ErrInternal && nookErr.Details != nil {
			errorObj["details"] = nookErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
