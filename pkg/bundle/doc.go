// Package bundle loads template bundles and instantiates them.
//
// A bundle is a directory holding template sources plus a manifest. The
// manifest is read from the first of these files that exists:
//
//	template.toml        scaff's native format
//	template.yaml/.yml   the same schema in YAML
//	TemplateInfo.plist   Xcode-style property list (subset)
//
// The manifest declares user-facing options and the file nodes to render.
// Manifest.Bindings turns option values into template bindings, Render runs
// every node's target path and content through one shared template.Context,
// and Write persists the result. Using one context per instantiation keeps
// generated values such as «uuid» identical across all files of a bundle.
package bundle
