// Package source discovers and parses the spreadsheet files a dataset is
// built from. A dataset is a sub-directory of the source root; its records
// are the rows of every workbook inside it.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
)

// ErrDatasetNotFound is returned when no directory exists for a dataset key.
var ErrDatasetNotFound = errors.New("dataset not found")

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DefaultExtensions are the file types picked up when none are configured.
var DefaultExtensions = []string{".xlsx", ".xlsm", ".csv"}

// File is one source file of a dataset.
type File struct {
	Dataset string
	Path    string
	ModTime time.Time
	Size    int64
	Format  Format
}

// Directory reads datasets laid out as <root>/<dataset>/<file>.
type Directory struct {
	root    string
	formats map[string]Format
}

// NewDirectory creates a reader over root. Unknown extensions are ignored
// with a warning.
func NewDirectory(root string, extensions []string) *Directory {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	formats := make(map[string]Format, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		switch ext {
		case ".xlsx", ".xlsm":
			formats[ext] = FormatXLSX
		case ".csv":
			formats[ext] = FormatCSV
		default:
			slog.Warn("[Source] Ignoring unsupported extension", "extension", ext)
		}
	}

	return &Directory{root: root, formats: formats}
}

// Datasets lists the dataset keys under the root in lexical order. A missing
// root yields no datasets.
func (d *Directory) Datasets(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("[Source] Source root does not exist", "root", d.root)
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list source root: %w", err)
	}

	datasets := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			datasets = append(datasets, e.Name())
		}
	}
	return datasets, ctx.Err()
}

// Files lists the readable source files of a dataset sorted by path.
func (d *Directory) Files(ctx context.Context, dataset string) ([]File, error) {
	dir, err := d.datasetDir(dataset)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, dataset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset %s: %w", dataset, err)
	}

	var files []File
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || hidden(e.Name()) {
			continue
		}
		format, ok := d.formats[strings.ToLower(filepath.Ext(e.Name()))]
		if !ok {
			continue
		}

		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			slog.Warn("[Source] Skipping unreadable file", "dataset", dataset, "file", e.Name(), "error", err)
			continue
		}

		files = append(files, File{
			Dataset: dataset,
			Path:    filepath.Join(dir, e.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
			Format:  format,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Read parses one source file into records.
func (d *Directory) Read(ctx context.Context, f File) ([]v1.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records []v1.Record
		err     error
	)
	switch f.Format {
	case FormatXLSX:
		records, err = readWorkbook(f)
	case FormatCSV:
		records, err = readCSV(f)
	default:
		return nil, fmt.Errorf("unsupported source format %q for %s", f.Format, f.Path)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("[Source] Parsed file", "dataset", f.Dataset, "path", f.Path, "records", len(records))
	return records, nil
}

// datasetDir resolves a dataset key to its directory. Keys that are not a
// single path element never match a dataset.
func (d *Directory) datasetDir(dataset string) (string, error) {
	if dataset == "" || dataset == "." || dataset == ".." ||
		strings.ContainsAny(dataset, `/\`) || hidden(dataset) {
		return "", fmt.Errorf("%w: %q", ErrDatasetNotFound, dataset)
	}
	return filepath.Join(d.root, dataset), nil
}

// hidden matches dotfiles and the "~$" lock files spreadsheet editors leave
// next to open workbooks.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$")
}
