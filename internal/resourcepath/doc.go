// Package resourcepath parses the slash-delimited paths used to address
// bundled resources and deployment subdirectories.
//
// Both '/' and '\' are accepted as separators and normalized to '/'. A path
// starting with a separator is rooted: it is anchored at the top level of the
// resource container instead of at the caller's location.
//
// Parsing is stricter than path.Clean. Doubled separators are rejected, and
// so is any segment made only of dots ("." and ".." but also "..."), which
// keeps a parsed path from ever pointing above the directory it is joined to.
//
//	p, err := resourcepath.Parse(`SomeFolder\2-lines.txt`)
//	// p.Segments() == []string{"SomeFolder", "2-lines.txt"}, p.Rooted() == false
package resourcepath
