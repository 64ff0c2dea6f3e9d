package bundle

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/logging"
)

// Manifest file names, in lookup order
const (
	ManifestTOML  = "template.toml"
	ManifestYAML  = "template.yaml"
	ManifestYML   = "template.yml"
	ManifestPlist = "TemplateInfo.plist"
)

var manifestNames = []string{ManifestTOML, ManifestYAML, ManifestYML, ManifestPlist}

// Bundle is a loaded template bundle
type Bundle struct {
	// Root is the absolute bundle directory
	Root string
	// ManifestPath is the manifest file that was read
	ManifestPath string
	Manifest     Manifest
}

// Load reads the bundle rooted at dir
func Load(dir string) (*Bundle, error) {
	logger := logging.GetLogger("bundle")

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleNotFound, "invalid bundle path %s", dir).
			WithDetail("path", dir)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrBundleNotFound, "bundle directory %s not found", dir).
			WithDetail("path", dir)
	}

	for _, name := range manifestNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path).
				WithDetail("path", path)
		}

		m, err := ParseManifest(name, data)
		if err != nil {
			return nil, errors.Annotate(err, "path", path)
		}

		logger.Debug().
			Str("path", path).
			Str("kind", m.Kind).
			Int("options", len(m.Options)).
			Int("files", len(m.Files)).
			Msg("bundle loaded")

		return &Bundle{Root: root, ManifestPath: path, Manifest: *m}, nil
	}

	return nil, errors.Newf(errors.ErrBundleNotFound, "no manifest in %s", dir).
		WithDetail("path", dir)
}

// ParseManifest decodes manifest data; name selects the format
func ParseManifest(name string, data []byte) (*Manifest, error) {
	var m Manifest
	var err error
	switch filepath.Ext(name) {
	case ".toml":
		err = toml.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".plist":
		err = decodePlist(data, &m)
	default:
		return nil, errors.Newf(errors.ErrBundleInvalid, "unsupported manifest format %s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleInvalid, "failed to parse %s", name)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
