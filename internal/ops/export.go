package ops

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/workspace"
)

// ExportSchemaVersion is written to every export header. Imports reject newer versions.
const ExportSchemaVersion = 1

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path   string // optional, default: ~/.nook/exports/workspaces-<timestamp>.json
	Format Format // optional, default: from the path extension
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     Format `json:"format"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportDocument is the file layout of an export.
type ExportDocument struct {
	NookExport    bool                  `json:"_nook_export"`
	SchemaVersion int                   `json:"schema_version"`
	ExportedAt    int64                 `json:"exported_at"`
	Collection    *workspace.Collection `json:"collection"`
}

// Export writes the stored collection to a JSON or YAML file.
// The live layout is not read.
func Export(ctx context.Context, d *Deps, input ExportInput) (*ExportOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	now := d.now()
	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(input.Format, now)
		if err != nil {
			return nil, err
		}
	}
	if err := ValidatePath(exportPath, PathCheckWrite, d.Config); err != nil {
		return nil, err
	}

	format := input.Format
	if format == "" {
		format, _ = FormatForPath(exportPath)
	}
	if format != FormatJSON && format != FormatYAML {
		return nil, errors.NewInvalidRequest("format must be one of: json, yaml")
	}

	c := m.GetData()
	doc := ExportDocument{
		NookExport:    true,
		SchemaVersion: ExportSchemaVersion,
		ExportedAt:    now.UnixMilli(),
		Collection:    c,
	}
	data, err := encodeExport(doc, format)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}
	if err := writeExportFile(exportPath, data); err != nil {
		return nil, err
	}

	d.logger().Info("exported workspaces",
		zap.String("path", exportPath), zap.String("format", string(format)), zap.Int("count", len(c.Workspaces)))
	return &ExportOutput{
		Path:       exportPath,
		Format:     format,
		Count:      len(c.Workspaces),
		ExportedAt: doc.ExportedAt,
	}, nil
}

// encodeExport renders doc as indented JSON or as YAML with the same keys.
func encodeExport(doc ExportDocument, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	// Round-trip through a generic value so YAML keys match the JSON tags.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNumbers(generic)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// yamlNumbers replaces json.Number values with int64 or float64 so that
// millisecond timestamps stay integers in YAML.
func yamlNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = yamlNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = yamlNumbers(item)
		}
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}

// writeExportFile writes data to a temp file beside path, then renames it
// into place so an existing export survives a failed write.
func writeExportFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination.
	if isSymlink(path) {
		return errors.NewInvalidRequest("export path must not be a symlink")
	}

	// On Windows os.Rename fails when the destination exists; the existing
	// file is kept rather than risking a delete-then-rename.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// defaultExportPath is ~/.nook/exports/workspaces-<timestamp>.<ext>.
func defaultExportPath(format Format, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	ext := "json"
	if format == FormatYAML {
		ext = "yaml"
	}
	name := fmt.Sprintf("workspaces-%s.%s", SanitizeForFilename(now.Format("2006-01-02T150405")), ext)
	return filepath.Join(dir, name), nil
}
