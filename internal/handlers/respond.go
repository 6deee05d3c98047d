package handlers

import "github.com/m1z23r/drift/pkg/drift"

// Every JSON response uses the same envelope so clients can branch on a
// single success flag.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok(c *drift.Context, status int, data any) {
	_ = c.JSON(status, envelope{Success: true, Data: data})
}

func okMessage(c *drift.Context, status int, data any, message string) {
	_ = c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func fail(c *drift.Context, status int, message string) {
	_ = c.JSON(status, envelope{Success: false, Message: message})
}
