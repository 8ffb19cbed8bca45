// Package response defines the JSON envelope every API handler replies with.
package response

import "github.com/gin-gonic/gin"

// Envelope is the body shape shared by success and error responses.
type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

// RespondJSON writes an Envelope with the given status line and payload.
// status is "success" or "error"; errors carries validation details when set.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, Envelope{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
