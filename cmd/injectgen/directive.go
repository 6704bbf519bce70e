package main

import (
	"fmt"
	"go/ast"
	"strconv"
	"strings"
)

const directivePrefix = "//inject:injectable"

// directive is a parsed //inject:injectable comment.
type directive struct {
	resolveIfc bool
	implements []string
}

// findDirective returns the directive in doc, if any. More than one
// directive on the same declaration is an error.
func findDirective(doc *ast.CommentGroup) (directive, bool, error) {
	var (
		found bool
		d     directive
	)
	if doc == nil {
		return d, false, nil
	}
	for _, c := range doc.List {
		parsed, ok, err := parseDirective(c.Text)
		if err != nil {
			return d, false, err
		}
		if !ok {
			continue
		}
		if found {
			return d, false, fmt.Errorf("duplicate %s directive", directivePrefix)
		}
		found, d = true, parsed
	}
	return d, found, nil
}

// parseDirective parses a single comment line:
//
//	//inject:injectable [resolveIfc=false] [implements=Name,pkg.Name,import/path.Name]
func parseDirective(text string) (directive, bool, error) {
	d := directive{resolveIfc: true}

	rest, ok := strings.CutPrefix(text, directivePrefix)
	if !ok {
		return d, false, nil
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return d, false, nil
	}

	for _, field := range strings.Fields(rest) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return d, false, fmt.Errorf("malformed option %q: want key=value", field)
		}
		switch key {
		case "resolveIfc":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return d, false, fmt.Errorf("invalid resolveIfc value %q", value)
			}
			d.resolveIfc = b
		case "implements":
			for _, name := range strings.Split(value, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					return d, false, fmt.Errorf("empty interface name in %q", field)
				}
				d.implements = append(d.implements, name)
			}
		default:
			return d, false, fmt.Errorf("unknown option %q", key)
		}
	}
	return d, true, nil
}
