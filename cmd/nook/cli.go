package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/ops"
	"github.com/hpungsan/nook/internal/web"
)

// newCLIApp creates the CLI application with all commands. deps may be nil
// when only help or version output is needed.
func newCLIApp(deps *ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "nook",
		Usage:   "Named workspaces for your open tabs",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(deps),
			updateCmd(deps),
			deleteCmd(deps),
			switchCmd(deps),
			saveCmd(deps),
			captureCmd(deps),
			listCmd(deps),
			showCmd(deps),
			currentCmd(deps),
			searchCmd(deps),
			exportCmd(deps),
			importCmd(deps),
			uiCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

const refArg = "<id|name>"

// createCmd creates the create command.
func createCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a workspace and make it current (closes every open tab)",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Markdown description, or - to read it from stdin"},
		},
		Action: func(c *cli.Context) error {
			desc, err := descriptionFlag(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Create(c.Context, deps, ops.CreateInput{
				Name:        strings.Join(c.Args().Slice(), " "),
				Description: desc,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Rename or redescribe a workspace",
		ArgsUsage: refArg,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description, or - to read it from stdin"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{Ref: c.Args().First()}
			if c.IsSet("name") {
				name := c.String("name")
				input.Name = &name
			}
			if c.IsSet("description") {
				desc, err := descriptionFlag(c)
				if err != nil {
					return outputError(err)
				}
				input.Description = &desc
			}

			output, err := ops.Update(c.Context, deps, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a workspace (open tabs are left alone)",
		ArgsUsage: refArg,
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, deps, ops.DeleteInput{Ref: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// switchCmd creates the switch command.
func switchCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "switch",
		Usage:     "Save the current workspace, close its tabs and reopen another's",
		ArgsUsage: refArg,
		Action: func(c *cli.Context) error {
			output, err := ops.Switch(c.Context, deps, ops.SwitchInput{Ref: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// saveCmd creates the save command.
func saveCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Capture the open tabs into the current workspace",
		Action: func(c *cli.Context) error {
			output, err := ops.Save(c.Context, deps)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// captureCmd creates the capture command.
func captureCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Print the open tabs without saving them",
		Action: func(c *cli.Context) error {
			output, err := ops.Capture(c.Context, deps)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List workspaces",
		Flags: pageFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, deps, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// showCmd creates the show command.
func showCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a workspace and its saved tabs",
		ArgsUsage: refArg,
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(c.Context, deps, ops.FetchInput{Ref: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// currentCmd creates the current command.
func currentCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "current",
		Usage: "Show the current workspace",
		Action: func(c *cli.Context) error {
			output, err := ops.Current(c.Context, deps)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search workspace names, descriptions and tab titles",
		ArgsUsage: "<query>",
		Flags:     pageFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.Search(c.Context, deps, ops.SearchInput{
				Query:  strings.Join(c.Args().Slice(), " "),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all workspaces to a JSON or YAML file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.nook/exports/workspaces-<timestamp>.json)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json|yaml (default: from the path extension)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, deps, ops.ExportInput{
				Path:   c.String("path"),
				Format: ops.Format(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import workspaces from a JSON or YAML file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(ops.ImportModeMerge), Usage: "merge|replace"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, deps, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to listen on"},
			&cli.IntFlag{Name: "port", Value: 8765, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}
			srv, err := web.NewServer(deps, Version, c.String("bind"), port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, deps.Logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
		&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
	}
}

// descriptionFlag returns --description, reading stdin when it is "-".
func descriptionFlag(c *cli.Context) (string, error) {
	desc := c.String("description")
	if desc != "-" {
		return desc, nil
	}
	text, err := readAll(c.App.Reader)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return text, nil
}

// readAll reads all content from r.
func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// outputJSON marshals result to the app's writer as JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if nErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", nErr.Code, nErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
