package bundle

import (
	"sort"
	"strings"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/beevik/etree"
)

// decodePlist reads the subset of an Xcode TemplateInfo.plist scaff
// understands: Kind, Identifier, Name, Description, Options, Nodes and
// Project.SharedSettings.
func decodePlist(data []byte, m *Manifest) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return errors.Wrap(err, errors.ErrBundleInvalid, "malformed plist XML")
	}
	root := doc.SelectElement("plist")
	if root == nil {
		return errors.New(errors.ErrBundleInvalid, "missing <plist> element").
			WithDetail("element", "plist")
	}
	top := root.SelectElement("dict")
	if top == nil {
		return errors.New(errors.ErrBundleInvalid, "missing top-level <dict>").
			WithDetail("element", "dict")
	}

	value, err := plistValue(top)
	if err != nil {
		return err
	}
	dict := value.(map[string]interface{})

	m.Kind = plistString(dict["Kind"])
	m.Identifier = plistString(dict["Identifier"])
	m.Name = plistString(dict["Name"])
	m.Description = plistString(dict["Description"])
	m.Syntax = plistString(dict["Syntax"])
	if m.Syntax == "" {
		m.Syntax = "xcode"
	}

	if options, ok := dict["Options"].([]interface{}); ok {
		for _, raw := range options {
			opt, ok := raw.(map[string]interface{})
			if !ok {
				return errors.New(errors.ErrBundleInvalid, "option entries must be dicts").
					WithDetail("element", "Options")
			}
			required, _ := opt["Required"].(bool)
			m.Options = append(m.Options, Option{
				Identifier:  plistString(opt["Identifier"]),
				Name:        plistString(opt["Name"]),
				Type:        plistString(opt["Type"]),
				Default:     plistString(opt["Default"]),
				Generate:    plistString(opt["Generate"]),
				Required:    required,
				Description: plistString(opt["Description"]),
			})
		}
	}

	if nodes, ok := dict["Nodes"].([]interface{}); ok {
		for _, raw := range nodes {
			node := plistString(raw)
			m.Files = append(m.Files, FileNode{Source: node, Target: node})
		}
	}

	if project, ok := dict["Project"].(map[string]interface{}); ok {
		if settings, ok := project["SharedSettings"].(map[string]interface{}); ok {
			m.BuildSettings = make(map[string]string, len(settings))
			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				m.BuildSettings[k] = plistString(settings[k])
			}
		}
	}
	return nil
}

// plistValue converts a plist element into Go values: dict -> map, array ->
// slice, true/false -> bool, everything else -> its text.
func plistValue(el *etree.Element) (interface{}, error) {
	switch el.Tag {
	case "dict":
		out := make(map[string]interface{})
		children := el.ChildElements()
		for i := 0; i < len(children); i += 2 {
			if children[i].Tag != "key" {
				return nil, errors.Newf(errors.ErrBundleInvalid, "expected <key> in dict, got <%s>", children[i].Tag).
					WithDetail("element", children[i].Tag)
			}
			if i+1 >= len(children) {
				return nil, errors.Newf(errors.ErrBundleInvalid, "key %q has no value", children[i].Text()).
					WithDetail("element", children[i].Text())
			}
			v, err := plistValue(children[i+1])
			if err != nil {
				return nil, err
			}
			out[children[i].Text()] = v
		}
		return out, nil
	case "array":
		var out []interface{}
		for _, child := range el.ChildElements() {
			v, err := plistValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return strings.TrimSpace(el.Text()), nil
	}
}

func plistString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
