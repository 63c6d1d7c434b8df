package types

import "time"

// Response is the uniform envelope returned by every endpoint.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Code      string      `json:"code,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
	Stack     string      `json:"stack,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func Success(data interface{}, message string) Response {
	return Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: now(),
	}
}

func Failure(code, message string, errs []string) Response {
	return Response{
		Success:   false,
		Code:      code,
		Message:   message,
		Errors:    errs,
		Timestamp: now(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
