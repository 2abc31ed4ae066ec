package ops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/workspace"
)

// MaxImportBytes bounds the size of an import file.
const MaxImportBytes = 16 << 20

// ImportMode controls how imported workspaces combine with stored ones.
type ImportMode string

const (
	ImportModeReplace ImportMode = "replace" // imported collection replaces the stored one
	ImportModeMerge   ImportMode = "merge"   // append workspaces whose id is not stored yet
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: merge
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Mode               ImportMode `json:"mode"`
	Imported           int        `json:"imported"`
	Skipped            int        `json:"skipped"`
	Total              int        `json:"total"`
	Repaired           bool       `json:"repaired"`
	CurrentWorkspaceID string     `json:"current_workspace_id,omitempty"`
}

// Import reads a JSON or YAML export, or a bare collection document, into
// the store. Malformed entries are dropped the same way stored state is
// repaired. The live layout is left alone, even when the current workspace
// changes.
func Import(ctx context.Context, d *Deps, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeMerge
	}
	if input.Mode != ImportModeReplace && input.Mode != ImportModeMerge {
		return nil, errors.NewInvalidRequest("mode must be one of: replace, merge")
	}
	if err := ValidatePath(input.Path, PathCheckRead, d.Config); err != nil {
		return nil, err
	}
	format, _ := FormatForPath(input.Path)

	data, err := readImportFile(input.Path)
	if err != nil {
		return nil, err
	}
	incoming, repaired, err := decodeImport(data, format)
	if err != nil {
		return nil, err
	}

	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	out := &ImportOutput{
		Mode:     input.Mode,
		Total:    len(incoming.Workspaces),
		Repaired: repaired,
	}
	switch input.Mode {
	case ImportModeReplace:
		m.SetData(incoming)
		out.Imported = len(incoming.Workspaces)
	case ImportModeMerge:
		merged := m.GetData()
		for _, w := range incoming.Workspaces {
			if existing, _ := merged.Find(w.ID); existing != nil {
				out.Skipped++
				continue
			}
			merged.Workspaces = append(merged.Workspaces, w)
			out.Imported++
		}
		m.SetData(merged)
	}

	if err := d.commit(ctx, m); err != nil {
		return nil, err
	}
	out.CurrentWorkspaceID = m.GetCurrentWorkspaceID()

	d.logger().Info("imported workspaces",
		zap.String("path", input.Path),
		zap.String("mode", string(input.Mode)),
		zap.Int("imported", out.Imported),
		zap.Int("skipped", out.Skipped))
	return out, nil
}

func readImportFile(path string) ([]byte, error) {
	file, err := openFileNoFollowRead(path)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > MaxImportBytes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", MaxImportBytes))
	}
	return data, nil
}

// decodeImport accepts an export document or a bare collection.
func decodeImport(data []byte, format Format) (*workspace.Collection, bool, error) {
	if format == FormatYAML {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, false, errors.NewInvalidRequest(fmt.Sprintf("invalid YAML: %v", err))
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, false, errors.NewInvalidRequest(fmt.Sprintf("unsupported YAML document: %v", err))
		}
		data = converted
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		return nil, false, errors.NewInvalidRequest("import file must contain a JSON or YAML object")
	}

	if _, wrapped := root["_nook_export"]; wrapped {
		var version int
		if raw, ok := root["schema_version"]; ok {
			if err := json.Unmarshal(raw, &version); err != nil {
				return nil, false, errors.NewInvalidRequest("schema_version must be an integer")
			}
		}
		if version > ExportSchemaVersion {
			return nil, false, errors.NewInvalidRequest(
				fmt.Sprintf("unsupported export schema_version %d (max %d)", version, ExportSchemaVersion))
		}
		raw, ok := root["collection"]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, false, errors.NewInvalidRequest("export has no collection")
		}
		data = raw
	}

	c, repaired := workspace.DecodeCollection(data)
	return c, repaired, nil
}
