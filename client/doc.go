// Package client implements a Go client for the payroll REST backend.
//
// Every request goes through a two stage pipeline built from http.RoundTrippers:
//   - the auth stage (client/auth/transport) attaches the bearer token and
//     recovers expired token failures through a single-flight refresh;
//   - the cache stage (client/cache) serves idempotent reads from memory and
//     evicts everything on any mutation.
//
// Backend responses use a common envelope, decoded into Response[T]; non 2xx
// responses are returned as *auth.Failure errors.
//
// Example:
//
//	cli, _ := client.New(ctx, "http://localhost:8080", client.WithStore(store.NewFileStore("file:///tmp/payroll.json")))
//	_, _ = cli.Login(ctx, "ann@example.com", "secret")
//	departments, _ := client.Get[[]Department](ctx, cli, "/api/v1/departments/all", nil)
package client
