package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

var outputTemplate = template.Must(template.New("catalog").Parse(`// Code generated by injectgen. DO NOT EDIT.

//go:build !{{.Tag}}

package {{.Package}}

import (
	"github.com/kbukum/inject/di"
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}{{printf "%q" .Path}}
{{- end}}
)

// {{.Func}} returns the injectables marked under {{.Root}}.
func {{.Func}}() *di.Catalog {
	return di.NewCatalog(){{range .Groups}}.
		Mark({{printf "%q" .Namespace}},
{{- range .Descriptors}}
			{{.}},
{{- end}}
		){{end}}
}
`))

type importSpec struct {
	Alias string
	Path  string
}

type groupView struct {
	Namespace   string
	Descriptors []string
}

type fileView struct {
	Tag     string
	Package string
	Func    string
	Root    string
	Imports []importSpec
	Groups  []groupView
}

// qualifier assigns import names to package paths.
type qualifier struct {
	local    string
	names    map[string]string
	pkgNames map[string]string
}

func newQualifier(m *model) *qualifier {
	pkgNames := map[string]string{}
	for _, g := range m.Groups {
		for _, inj := range g.Injectables {
			refs := append([]typeRef{inj.Type}, inj.Interfaces...)
			for _, r := range refs {
				pkgNames[r.Path] = r.PkgName
			}
		}
	}

	q := &qualifier{local: m.LocalPath, names: map[string]string{}, pkgNames: pkgNames}
	paths := make([]string, 0, len(pkgNames))
	for p := range pkgNames {
		if p != q.local {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	taken := map[string]bool{"di": true}
	for _, p := range paths {
		name := pkgNames[p]
		alias := name
		for i := 2; taken[alias]; i++ {
			alias = name + strconv.Itoa(i)
		}
		taken[alias] = true
		q.names[p] = alias
	}
	return q
}

func (q *qualifier) ref(r typeRef) (string, error) {
	if r.Path == q.local {
		return r.Name, nil
	}
	if !token.IsExported(r.Name) {
		return "", fmt.Errorf("%s is unexported and cannot be referenced from the generated package", r)
	}
	return q.names[r.Path] + "." + r.Name, nil
}

func (q *qualifier) imports() []importSpec {
	specs := make([]importSpec, 0, len(q.names))
	for p, alias := range q.names {
		spec := importSpec{Path: p}
		if alias != q.pkgNames[p] || alias != lastElem(p) {
			spec.Alias = alias
		}
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	return specs
}

func lastElem(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// descriptor renders the di.Injectable expression for inj.
func (q *qualifier) descriptor(inj injectable) (string, error) {
	typ, err := q.ref(inj.Type)
	if err != nil {
		return "", fmt.Errorf("%s: %w", inj.Pos, err)
	}
	if inj.Pointer {
		typ = "*" + typ
	}

	var opts []string
	if !inj.ResolveIfc {
		opts = append(opts, "di.ResolveInterface(false)")
	}
	for _, ifc := range inj.Interfaces {
		name, err := q.ref(ifc)
		if err != nil {
			return "", fmt.Errorf("%s: %w", inj.Pos, err)
		}
		opts = append(opts, "di.Implements["+name+"]()")
	}
	if inj.Constructor != nil {
		name, err := q.ref(*inj.Constructor)
		if err != nil {
			return "", fmt.Errorf("%s: %w", inj.Pos, err)
		}
		opts = append(opts, "di.WithConstructor("+name+")")
	}
	return "di.Injectable[" + typ + "](" + strings.Join(opts, ", ") + ")", nil
}

// render produces the gofmt'd source of the generated file.
func render(m *model, opts *options) ([]byte, error) {
	q := newQualifier(m)

	view := fileView{Tag: buildTag, Package: opts.Package, Func: opts.Func, Root: m.Root}
	for _, g := range m.Groups {
		gv := groupView{Namespace: g.Path}
		for _, inj := range g.Injectables {
			d, err := q.descriptor(inj)
			if err != nil {
				return nil, err
			}
			gv.Descriptors = append(gv.Descriptors, d)
		}
		view.Groups = append(view.Groups, gv)
	}
	view.Imports = q.imports()

	var buf bytes.Buffer
	if err := outputTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}
