// Package taskdsdk is a typed Go client for the taskd HTTP API.
//
// The wire types here are shared with the server, so a request built with
// this package is exactly what the handlers decode.
//
//	c := taskdsdk.NewClient("http://localhost:8080")
//
//	// The first registration on an empty deployment becomes ADMIN.
//	admin, err := c.Register(ctx, taskdsdk.RegisterRequest{
//		Name:     "Root",
//		Email:    "root@example.com",
//		Password: "changeme",
//	})
//
//	// After that only an authenticated session may register accounts.
//	_, err = admin.Register(ctx, taskdsdk.RegisterRequest{ ... })
//
//	task, err := admin.CreateTask(ctx, taskdsdk.CreateTaskRequest{Title: "write report"})
//
// Failed calls return *APIError; compare Code against the ErrorCode
// constants or use errors.As.
package taskdsdk
