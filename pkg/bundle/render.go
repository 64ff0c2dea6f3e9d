package bundle

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/logging"
	"github.com/arthur-debert/scaff/pkg/template"
)

// RenderedFile is one generated file, not yet written
type RenderedFile struct {
	// Source is the node's template path inside the bundle
	Source string
	// Path is the rendered, slash-separated target path
	Path    string
	Content string
	Mode    os.FileMode
}

// Render processes every file node in manifest order through ctx.
//
// The same ctx is used for all paths and contents, so generated values are
// shared by every file of the instantiation. The first failure aborts the
// render and carries the node's source in the "file" detail.
func (b *Bundle) Render(proc *template.Processor, ctx *template.Context) ([]RenderedFile, error) {
	logger := logging.GetLogger("bundle")
	done := logging.LogOperationStart(logger, "render")
	defer done()

	files := make([]RenderedFile, 0, len(b.Manifest.Files))
	for _, node := range b.Manifest.Files {
		if !localSource(node.Source) {
			return nil, errors.Newf(errors.ErrBundleInvalid, "file source %q is outside the bundle", node.Source).
				WithDetail("path", node.Source).
				WithDetail("file", node.Source)
		}
		src := filepath.Join(b.Root, filepath.FromSlash(node.Source))
		info, err := os.Stat(src)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "template source %s not found", node.Source).
				WithDetail("path", src).
				WithDetail("file", node.Source)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", node.Source).
				WithDetail("path", src).
				WithDetail("file", node.Source)
		}

		target, err := proc.Process(node.TargetTemplate(), ctx)
		if err != nil {
			err = errors.Annotate(err, "file", node.Source)
			return nil, errors.Annotate(err, "part", "target")
		}
		content, err := proc.Process(string(data), ctx)
		if err != nil {
			err = errors.Annotate(err, "file", node.Source)
			return nil, errors.Annotate(err, "part", "content")
		}

		logger.Debug().
			Str("source", node.Source).
			Str("target", target).
			Int("bytes", len(content)).
			Msg("rendered file")

		files = append(files, RenderedFile{
			Source:  node.Source,
			Path:    target,
			Content: content,
			Mode:    info.Mode().Perm(),
		})
	}

	logger.Info().
		Str("bundle", b.Manifest.Identifier).
		Int("files", len(files)).
		Msg("bundle rendered")

	return files, nil
}
