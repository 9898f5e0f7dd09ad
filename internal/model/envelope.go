package model

// Envelope is the uniform response wrapper of the school API.
type Envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Page is the data shape of every list endpoint.
type Page[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
}

// BusinessError is a 2xx response whose envelope reports status=false.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return "request was rejected"
	}
	return e.Message
}

// Err returns a *BusinessError when the envelope reports a failure.
func (e *Envelope[T]) Err() error {
	if e == nil || e.Status {
		return nil
	}
	return &BusinessError{Message: e.Message}
}

func OK[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Status: true, Message: message, Data: data}
}
