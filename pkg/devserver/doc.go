// Package devserver exposes a running reconciler for inspection during
// development: the current host tree as JSON, a live WebSocket stream of
// recorded mutations, and Prometheus metrics.
//
// It serves tooling, not production traffic. Typical wiring:
//
//	tree := memhost.New("div", "span")
//	rec := record.New[memhost.Handle](tree)
//	r := reconcile.New[memhost.Handle](rec)
//
//	srv := devserver.New(&devserver.Config{Tree: tree, Events: rec})
//	log.Fatal(srv.ListenAndServe(ctx))
package devserver
