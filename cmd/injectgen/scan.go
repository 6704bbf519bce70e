package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/kbukum/inject/logger"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports

// buildTag is set while loading so generated catalogs, which carry the
// negated constraint, are left out of type checking.
const buildTag = "injectgen"

// typeRef names a package-level declaration.
type typeRef struct {
	Path    string
	PkgName string
	Name    string
}

func (r typeRef) String() string { return r.Path + "." + r.Name }

// injectable is one marked type declaration.
type injectable struct {
	Type        typeRef
	Pointer     bool
	Abstract    bool
	ResolveIfc  bool
	Interfaces  []typeRef
	Constructor *typeRef
	Pos         token.Position
}

// group holds the injectables of one package, in source order.
type group struct {
	Path        string
	Injectables []injectable
}

// model is everything found under a root.
type model struct {
	Root      string
	LocalPath string
	Groups    []group
}

// Count returns the number of injectables in m.
func (m *model) Count() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Injectables)
	}
	return n
}

// scanner loads packages and collects marked declarations.
type scanner struct {
	dir      string
	localDir string
	log      *logger.Logger

	// known holds every package type-checked so far, by import path.
	known map[string]*types.Package
}

// Scan loads every package under root and returns the marked types.
func (s *scanner) Scan(root string) (*model, error) {
	pkgs, err := packages.Load(s.config(loadMode), root+"/...")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", root, err)
	}

	s.known = map[string]*types.Package{}
	var loadErrs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Types != nil {
			s.remember(p.Types)
		}
		for _, e := range p.Errors {
			// The local package may refer to the catalog being regenerated.
			if e.Kind == packages.TypeError && s.isLocal(p) {
				s.log.Warn("ignoring type error in output package", logger.Fields("error", e.Error()))
				continue
			}
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("load %s: %s", root, strings.Join(loadErrs, "; "))
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	m := &model{Root: root}
	for _, pkg := range pkgs {
		if pkg.PkgPath != root && !strings.HasPrefix(pkg.PkgPath, root+"/") {
			continue
		}
		if s.isLocal(pkg) {
			m.LocalPath = pkg.PkgPath
		}
		found, err := s.scanPackage(pkg)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			m.Groups = append(m.Groups, group{Path: pkg.PkgPath, Injectables: found})
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found under %s", root)
	}
	return m, nil
}

func (s *scanner) config(mode packages.LoadMode) *packages.Config {
	return &packages.Config{
		Mode:       mode,
		Dir:        s.dir,
		BuildFlags: []string{"-tags=" + buildTag},
	}
}

// remember records pkg and its transitive imports.
func (s *scanner) remember(pkg *types.Package) {
	if _, ok := s.known[pkg.Path()]; ok {
		return
	}
	s.known[pkg.Path()] = pkg
	for _, imp := range pkg.Imports() {
		s.remember(imp)
	}
}

// packageFor returns the type-checked package at path, loading it when it
// is outside the scanned graph.
func (s *scanner) packageFor(path string) (*types.Package, error) {
	if pkg, ok := s.known[path]; ok {
		return pkg, nil
	}
	pkgs, err := packages.Load(s.config(packages.NeedName|packages.NeedTypes), path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if len(pkgs) != 1 || pkgs[0].Types == nil {
		return nil, fmt.Errorf("package %s not found", path)
	}
	if errs := pkgs[0].Errors; len(errs) > 0 {
		return nil, fmt.Errorf("package %s: %s", path, errs[0].Error())
	}
	s.remember(pkgs[0].Types)
	return pkgs[0].Types, nil
}

func (s *scanner) isLocal(pkg *packages.Package) bool {
	if s.localDir == "" || len(pkg.GoFiles) == 0 {
		return false
	}
	dir, err := filepath.Abs(filepath.Dir(pkg.GoFiles[0]))
	return err == nil && dir == s.localDir
}

// typeDecl is a type declaration with its directive.
type typeDecl struct {
	spec *ast.TypeSpec
	file *ast.File
	dir  directive
	pos  token.Position
}

func (s *scanner) scanPackage(pkg *packages.Package) ([]injectable, error) {
	decls, err := markedDecls(pkg)
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, nil
	}
	capabilities := packageInterfaces(pkg, s.isLocal(pkg))

	out := make([]injectable, 0, len(decls))
	for _, d := range decls {
		inj, err := s.describe(pkg, d, capabilities)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.pos, err)
		}
		s.log.Debug("injectable found", logger.Fields(
			logger.FieldType, inj.Type.String(),
			logger.FieldInterface, refNames(inj.Interfaces),
		))
		out = append(out, inj)
	}
	return out, nil
}

// markedDecls returns the package's marked type declarations in source
// order.
func markedDecls(pkg *packages.Package) ([]typeDecl, error) {
	var decls []typeDecl
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				pos := pkg.Fset.Position(ts.Pos())
				d, ok, err := findDirective(doc)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", pos, err)
				}
				if ok {
					decls = append(decls, typeDecl{spec: ts, file: file, dir: d, pos: pos})
				}
			}
		}
	}
	sortByPosition(decls, func(d typeDecl) token.Position { return d.pos })
	return decls, nil
}

func (s *scanner) describe(pkg *packages.Package, d typeDecl, capabilities []*types.TypeName) (injectable, error) {
	obj, ok := pkg.TypesInfo.Defs[d.spec.Name].(*types.TypeName)
	if !ok {
		return injectable{}, fmt.Errorf("cannot resolve type %s", d.spec.Name.Name)
	}
	if obj.IsAlias() {
		return injectable{}, fmt.Errorf("type alias %s cannot be marked injectable", obj.Name())
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return injectable{}, fmt.Errorf("cannot resolve type %s", obj.Name())
	}
	if named.TypeParams().Len() > 0 {
		return injectable{}, fmt.Errorf("generic type %s cannot be marked injectable", obj.Name())
	}

	inj := injectable{
		Type:       refOf(obj),
		ResolveIfc: d.dir.resolveIfc,
		Pos:        d.pos,
	}

	if types.IsInterface(named) {
		// Emitted as-is; the registry rejects it at Init.
		inj.Abstract = true
		s.log.Warn("interface marked injectable", logger.Fields(logger.FieldType, inj.Type.String()))
		return inj, nil
	}

	inj.Pointer = true
	if ctor, pointer, ok := constructorFor(pkg.Types, named); ok {
		ref := refOf(ctor)
		inj.Constructor = &ref
		inj.Pointer = pointer
	}

	var subject types.Type = named
	if inj.Pointer {
		subject = types.NewPointer(named)
	}

	if len(d.dir.implements) > 0 {
		for _, name := range d.dir.implements {
			ifc, err := s.lookupInterface(pkg, d.file, name)
			if err != nil {
				return injectable{}, err
			}
			if !types.Implements(subject, ifc.Type().Underlying().(*types.Interface)) {
				s.log.Warn("declared interface not implemented", logger.Fields(
					logger.FieldType, inj.Type.String(),
					logger.FieldInterface, refOf(ifc).String(),
				))
			}
			inj.Interfaces = append(inj.Interfaces, refOf(ifc))
		}
		return inj, nil
	}

	for _, ifc := range capabilities {
		if ifc == obj {
			continue
		}
		if types.Implements(subject, ifc.Type().Underlying().(*types.Interface)) {
			inj.Interfaces = append(inj.Interfaces, refOf(ifc))
		}
	}
	return inj, nil
}

// packageInterfaces returns the package's non-empty, non-generic
// interface declarations in source order. Unexported interfaces are only
// included when the catalog is generated into pkg itself.
func packageInterfaces(pkg *packages.Package, local bool) []*types.TypeName {
	type entry struct {
		obj *types.TypeName
		pos token.Position
	}
	var entries []entry
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() || (!local && !obj.Exported()) {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		ifc, ok := named.Underlying().(*types.Interface)
		if !ok || ifc.NumMethods() == 0 || !ifc.IsMethodSet() {
			continue
		}
		entries = append(entries, entry{obj: obj, pos: pkg.Fset.Position(obj.Pos())})
	}
	sortByPosition(entries, func(e entry) token.Position { return e.pos })

	out := make([]*types.TypeName, len(entries))
	for i, e := range entries {
		out[i] = e.obj
	}
	return out
}

// constructorFor finds func NewT returning T or *T, optionally with an
// error. pointer reports whether it returns *T.
func constructorFor(pkg *types.Package, named *types.Named) (fn *types.Func, pointer bool, ok bool) {
	fn, ok = pkg.Scope().Lookup("New" + named.Obj().Name()).(*types.Func)
	if !ok {
		return nil, false, false
	}
	sig := fn.Type().(*types.Signature)
	if sig.TypeParams().Len() > 0 {
		return nil, false, false
	}
	res := sig.Results()
	if res.Len() == 0 || res.Len() > 2 {
		return nil, false, false
	}
	if res.Len() == 2 && !types.Identical(res.At(1).Type(), types.Universe.Lookup("error").Type()) {
		return nil, false, false
	}
	first := res.At(0).Type()
	if types.Identical(first, named) {
		return fn, false, true
	}
	if p, isPtr := first.(*types.Pointer); isPtr && types.Identical(p.Elem(), named) {
		return fn, true, true
	}
	return nil, false, false
}

// lookupInterface resolves an implements= entry. Name is looked up in the
// marked type's package, qual.Name through the file's import names and
// import/path.Name by import path.
func (s *scanner) lookupInterface(pkg *packages.Package, file *ast.File, name string) (*types.TypeName, error) {
	target := pkg.Types
	local := name
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		qual := name[:dot]
		local = name[dot+1:]
		target = importedAs(pkg, file, qual)
		if target == nil {
			var err error
			if target, err = s.packageFor(qual); err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
		}
	}

	obj := target.Scope().Lookup(local)
	if obj == nil {
		return nil, fmt.Errorf("interface %s not found in package %s", local, target.Path())
	}
	tn, ok := obj.(*types.TypeName)
	if !ok || !types.IsInterface(tn.Type()) {
		return nil, fmt.Errorf("%s is not an interface", name)
	}
	return tn, nil
}

// importedAs returns the package file imports under name, if any.
func importedAs(pkg *packages.Package, file *ast.File, name string) *types.Package {
	if file == nil {
		return nil
	}
	for _, spec := range file.Imports {
		if pn := pkg.TypesInfo.PkgNameOf(spec); pn != nil && pn.Name() == name {
			return pn.Imported()
		}
	}
	return nil
}

func refOf(obj types.Object) typeRef {
	return typeRef{Path: obj.Pkg().Path(), PkgName: obj.Pkg().Name(), Name: obj.Name()}
}

func refNames(refs []typeRef) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.String()
	}
	return names
}

func sortByPosition[E any](items []E, pos func(E) token.Position) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := pos(items[i]), pos(items[j])
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})
}
