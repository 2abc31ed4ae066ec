package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

const refDescription = "Workspace id, or its name (case- and whitespace-insensitive)"

var listToolDef = mcp.NewTool("workspace_list",
	mcp.WithDescription("List saved workspaces in creation order, without their tabs."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("limit", mcp.Description("Max items to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)

var getToolDef = mcp.NewTool("workspace_get",
	mcp.WithDescription("Get one workspace with its saved tabs."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("ref", mcp.Required(), mcp.Description(refDescription)),
)

var currentToolDef = mcp.NewTool("workspace_current",
	mcp.WithDescription("Get the current workspace, or null when none is current."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var createToolDef = mcp.NewTool("workspace_create",
	mcp.WithDescription("Create an empty workspace and make it current. Closes every open tab without saving them."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name", mcp.Required(), mcp.Description("Workspace name")),
	mcp.WithString("description", mcp.Description("Optional Markdown description")),
)

var updateToolDef = mcp.NewTool("workspace_update",
	mcp.WithDescription("Rename a workspace or change its description."),
	mcp.WithString("ref", mcp.Required(), mcp.Description(refDescription)),
	mcp.WithString("name", mcp.Description("New name")),
	mcp.WithString("description", mcp.Description("New description; empty clears it")),
)

var deleteToolDef = mcp.NewTool("workspace_delete",
	mcp.WithDescription("Delete a saved workspace. Open tabs are left alone."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("ref", mcp.Required(), mcp.Description(refDescription)),
)

var switchToolDef = mcp.NewTool("workspace_switch",
	mcp.WithDescription("Save the open tabs into the current workspace, close them, and reopen the target workspace's tabs."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("ref", mcp.Required(), mcp.Description(refDescription)),
)

var saveToolDef = mcp.NewTool("workspace_save",
	mcp.WithDescription("Save the open tabs into the current workspace."),
	mcp.WithDestructiveHintAnnotation(false),
)

var searchToolDef = mcp.NewTool("workspace_search",
	mcp.WithDescription("Search workspace names, descriptions and tab titles. Every term must match."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
	mcp.WithNumber("limit", mcp.Description("Max items to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)

var exportToolDef = mcp.NewTool("workspace_export",
	mcp.WithDescription("Export all workspaces to a JSON or YAML file."),
	mcp.WithString("path", mcp.Description("Destination .json, .yaml or .yml file (default ~/.nook/exports/workspaces-<timestamp>.json)")),
	mcp.WithString("format", mcp.Description("json or yaml; defaults to the path extension"), mcp.Enum("json", "yaml")),
)

var importToolDef = mcp.NewTool("workspace_import",
	mcp.WithDescription("Import workspaces from a JSON or YAML export. Open tabs are left alone."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .json, .yaml or .yml file")),
	mcp.WithString("mode", mcp.Description("merge (default) keeps stored workspaces and skips existing ids; replace overwrites everything"), mcp.Enum("merge", "replace")),
)

var captureToolDef = mcp.NewTool("tabs_capture",
	mcp.WithDescription("Describe the currently open tabs without saving them."),
	mcp.WithReadOnlyHintAnnotation(true),
)
