// Package server implements the tool-invocation layer.
//
// # Registry
//
// Tools are registered once at startup. Names are unique and the listing
// order is the registration order:
//
//	reg := server.NewRegistry()
//	err := reg.Register(server.Tool{
//	    Name:        "echo",
//	    Description: "Echo back the provided message.",
//	    InputSchema: schema.Object(schema.Required("message", schema.String("Text to echo"))),
//	    Handler: func(ctx context.Context, call *server.Call) (*server.Result, error) {
//	        var in struct{ Message string `json:"message"` }
//	        if err := call.Bind(&in); err != nil {
//	            return nil, err
//	        }
//	        return server.TextResult(in.Message), nil
//	    },
//	})
//
// A second registration under the same name fails with ErrDuplicateTool.
//
// # Dispatcher
//
// The Dispatcher answers initialize, ping, tools/list and tools/call:
//
//	d := server.NewDispatcher(server.Info{Name: "demo", Version: "1.0.0"}, reg, server.NewSessionState())
//	resp, err := d.HandleRequest(ctx, req)
//
// Unknown tools fail with -32601, arguments that do not match the tool's
// input schema fail with -32602 before the handler runs, and a handler panic
// fails with -32603. A handler that returns an ordinary error produces a
// result with isError set.
//
// # Session State
//
// SessionState is created once and shared by reference with every call.
// All mutations happen under its mutex.
package server
