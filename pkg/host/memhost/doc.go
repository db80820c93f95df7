// Package memhost provides an arena-backed in-memory host tree.
//
// It is the reference implementation of host.Adapter: nodes live in a flat
// arena addressed by integer handles, with parent/child/sibling linkage
// stored as handle indices rather than pointers. Handle 0 is never issued;
// it is the "no node" value the engine expects.
//
// Every mutation is appended to an operation log, which is what the tests
// assert against and what pkg/record streams to inspectors. The adapter is
// strict: operating on a freed handle, creating an element with an
// unregistered tag, or destroying an attached node panics immediately
// rather than corrupting the tree.
package memhost
