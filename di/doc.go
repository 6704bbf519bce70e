// Package di is a minimal inversion-of-control container.
//
// Types are marked as injectable with explicit descriptors, discovered by a
// Scanner under a namespace root, instantiated exactly once by a Registry and
// then looked up by concrete type or by their first declared capability
// interface.
//
// # Marking
//
//	di.Injectable[*Dog](di.Implements[Animal]())
//	di.Injectable[*Cat](di.ResolveInterface(false), di.Implements[Animal]())
//	di.Injectable[*Widget](di.WithConstructor(NewWidget))
//
// # Building
//
//	catalog := di.NewCatalog()
//	catalog.Mark("example.com/app/animals", di.Injectable[*Dog](di.Implements[Animal]()))
//
//	reg := di.New(catalog)
//	if err := reg.Init(ctx, "example.com/app"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lookup
//
//	dog, err := di.Get[*Dog](reg)
//	animal := di.MustGet[Animal](reg) // same instance as dog
//
// Init is one-shot and not safe for concurrent use. Once it returns, the
// registry is immutable and lookups may run from any goroutine.
//
// When two injectables resolve the same interface, the one processed last
// wins. The overwrite is logged at WARN level but never fails Init.
package di
