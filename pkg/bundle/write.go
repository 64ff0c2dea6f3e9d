package bundle

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// WriteOptions controls Write
type WriteOptions struct {
	// Overwrite replaces existing files instead of failing
	Overwrite bool
	// Skip holds glob patterns matched against the target path and its base name
	Skip []string
	// DryRun validates and reports targets without touching the disk
	DryRun bool
}

// Write persists files under outDir and returns the written paths.
//
// Every target is checked before anything is written: a path escaping
// outDir, two files rendering to the same path, or an existing file without
// Overwrite, fails the whole call. The checked plan then runs as one synthfs
// pipeline, or is only logged with DryRun.
func Write(outDir string, files []RenderedFile, opts WriteOptions) ([]string, error) {
	logger := logging.GetLogger("bundle")

	root, err := filepath.Abs(outDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid output directory %s", outDir).
			WithDetail("path", outDir)
	}

	var plan []plannedFile
	claimed := make(map[string]string, len(files))
	for _, f := range files {
		if skipped(f.Path, opts.Skip) {
			logger.Debug().Str("path", f.Path).Msg("skipping file")
			continue
		}
		dest, err := resolveTarget(root, f.Path)
		if err != nil {
			return nil, err
		}
		if other, ok := claimed[dest]; ok {
			return nil, errors.Newf(errors.ErrFileExists, "%s and %s both render to %s", other, f.Source, f.Path).
				WithDetail("path", dest).
				WithDetail("file", f.Source)
		}
		claimed[dest] = f.Source

		_, statErr := os.Stat(dest)
		exists := statErr == nil
		if exists && !opts.Overwrite {
			return nil, errors.Newf(errors.ErrFileExists, "%s already exists", dest).
				WithDetail("path", dest)
		}
		plan = append(plan, plannedFile{file: f, dest: dest, exists: exists})
	}

	written := make([]string, 0, len(plan))
	for _, p := range plan {
		written = append(written, p.dest)
	}

	if opts.DryRun {
		for _, dir := range missingDirs(plan) {
			logger.Info().Str("path", dir).Msg("would create directory")
		}
		for _, p := range plan {
			logger.Info().Str("path", p.dest).Bool("overwrite", p.exists).Msg("would write file")
		}
	} else if err := execute(root, plan); err != nil {
		return nil, err
	}

	logger.Info().
		Str("out", root).
		Int("files", len(written)).
		Bool("dry_run", opts.DryRun).
		Msg("bundle written")

	return written, nil
}

type plannedFile struct {
	file   RenderedFile
	dest   string
	exists bool
}

// execute turns the plan into synthfs operations: one create-dir per missing
// directory, parents first, then one create-file per new file. Existing files
// are replaced by a remove-then-write operation.
func execute(root string, plan []plannedFile) error {
	logger := logging.GetLogger("bundle")
	var fsys filesystem.FullFileSystem = synthfs.NewPathAwareFileSystem(filesystem.NewOSFileSystem("/"), "/").WithAbsolutePaths()
	sfs := synthfs.New()

	var ops []synthfs.Operation
	paths := make(map[synthfs.OperationID]string)
	for i, dir := range missingDirs(plan) {
		op := sfs.CreateDirWithID(fmt.Sprintf("mkdir_%d_%s", i, filepath.Base(dir)), dir, 0755)
		ops = append(ops, op)
		paths[op.ID()] = dir
	}
	for i, p := range plan {
		mode := p.file.Mode.Perm()
		if mode == 0 {
			mode = 0644
		}
		id := fmt.Sprintf("write_%d_%s", i, filepath.Base(p.dest))
		var op synthfs.Operation
		if p.exists {
			op = sfs.CustomOperationWithID(id, replaceFile(p.dest, []byte(p.file.Content), mode))
		} else {
			op = sfs.CreateFileWithID(id, p.dest, []byte(p.file.Content), mode)
		}
		ops = append(ops, op)
		paths[op.ID()] = p.dest
	}
	if len(ops) == 0 {
		return nil
	}

	logger.Debug().Int("operations", len(ops)).Msg("executing write plan")
	result, err := synthfs.RunWithOptions(context.Background(), fsys, synthfs.DefaultPipelineOptions(), ops...)
	if err != nil {
		failed := root
		if result != nil {
			for _, r := range result.GetOperations() {
				if opResult, ok := r.(synthfs.OperationResult); ok && opResult.Error != nil {
					if p, ok := paths[opResult.OperationID]; ok {
						failed = p
					}
					break
				}
			}
		}
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", failed).
			WithDetail("path", failed)
	}
	return nil
}

// replaceFile removes and rewrites a file that already exists
func replaceFile(dest string, content []byte, mode os.FileMode) func(context.Context, filesystem.FileSystem) error {
	return func(ctx context.Context, fs filesystem.FileSystem) error {
		if err := fs.Remove(dest); err != nil && !os.IsNotExist(err) {
			return err
		}
		return fs.WriteFile(dest, content, mode)
	}
}

// missingDirs lists the directories the plan needs that do not exist yet,
// every ancestor included, shallowest first
func missingDirs(plan []plannedFile) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range plan {
		for dir := filepath.Dir(p.dest); ; dir = filepath.Dir(dir) {
			if seen[dir] {
				break
			}
			if _, err := os.Stat(dir); err == nil {
				break
			}
			seen[dir] = true
			dirs = append(dirs, dir)
			if dir == filepath.Dir(dir) {
				break
			}
		}
	}
	sort.SliceStable(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) < strings.Count(dirs[j], string(filepath.Separator))
	})
	return dirs
}

// resolveTarget joins a rendered slash path onto root and rejects escapes
func resolveTarget(root, target string) (string, error) {
	if target == "" || path.IsAbs(target) || filepath.IsAbs(target) {
		return "", errors.Newf(errors.ErrInvalidInput, "target path %q must be relative", target).
			WithDetail("path", target)
	}
	dest := filepath.Join(root, filepath.FromSlash(target))
	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidInput, "target path %q escapes the output directory", target).
			WithDetail("path", target)
	}
	return dest, nil
}

func skipped(target string, patterns []string) bool {
	base := path.Base(target)
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, target); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
