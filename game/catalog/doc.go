// Package catalog manages the map and options library collections.
//
// The Manager loads both collections from a store.Store when it is created,
// seeding the classic 60 square map and the default joke library when a
// collection has never been saved. Every mutating call writes the whole
// collection back; if that write fails the in-memory collection is left as
// it was and the error is returned.
//
// Maps imported from an export file are appended with fresh ids. Libraries
// imported in bulk replace the whole collection, while a library imported
// from a text file is appended as one new entry.
//
// Usage:
//
//	st, err := store.NewFileStore("data")
//	if err != nil {
//		log.Fatal(err)
//	}
//	cat, err := catalog.NewManager(st)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	m, err := cat.CreateMap(engine.MapEdit{Name: "短途", TotalSquares: 30})
package catalog
