// Middleware follows the usual wrapping pattern: each one receives the next
// handler and returns a new one.
//
//	handler := middleware.Wrap(dispatcher.HandleRequest,
//	    middleware.Recover(logger),
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	)
//
// Stack builds the production ordering from a StackConfig.
package middleware
