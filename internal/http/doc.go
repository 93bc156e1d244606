// Package http wraps net/http with the client configuration shared by the
// benchmark strategies, plus a traced one-shot request helper used by the
// get and post commands.
//
// A Client is built once:
//
//	client := http.NewClient(
//		http.WithEndpoint("http://localhost:5000/api/values"),
//		http.WithHeader("Accept", "application/json"),
//	)
//
// GET strategies share client.HTTPClient(); POST strategies ask for
// client.PostClient(), which by default returns a fresh connection pool.
package http
