// Bindings:
//
//   - Stdio: newline-delimited JSON-RPC on stdin/stdout. One line is fully
//     handled before the next is read. Logs must go elsewhere.
//   - HTTP: POST /mcp (and the /rpc and /sse aliases) take one JSON-RPC
//     message per body. Notifications are answered with 202 and no body.
//     GET /sse streams an endpoint event followed by keepalives. GET /health
//     and GET / report status and are never authenticated.
//   - WebSocket: one JSON-RPC message per text frame.
//
// When an APIKeyAuth is configured, requests without an accepted key are
// answered with 401 before any JSON-RPC decoding happens.
//
//	t := transport.NewHTTP(":8080",
//	    transport.WithAuth(transport.NewAPIKeyAuth("x-api-key", keys, logger)),
//	)
//	err := t.Serve(ctx, dispatcher)
package transport
