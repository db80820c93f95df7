// Package host defines the contract between the Reflow engine and the
// externally-owned tree of display nodes it keeps synchronized.
//
// The engine never allocates, frees, or inspects node internals. It holds
// node values handed out by an Adapter, compares them only with ==, and
// passes them back into the same Adapter. Any backend that can implement
// the Adapter operations - a DOM bridge, a terminal cell tree, a scene
// graph - can be reconciled against.
//
// The node type N is a type parameter constrained to comparable. The zero
// value of N is reserved: it means "no node" (an absent anchor, a missing
// parent). Adapters must never return it as a real node. Integer arena
// handles and pointers both satisfy this naturally.
package host
