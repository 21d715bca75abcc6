package interfaces

import (
	"context"
	"net/http"
)

// ApplicationContext carries a decoded request body along with the request
// metadata the controllers need.
type ApplicationContext[T any] struct {
	Ctx      any
	Context  context.Context
	Keys     map[string]any
	Header   http.Header
	Param    map[string]any
	Query    map[string]any
	DeviceID string
	UserID   string
	ClientIP string
	Body     *T
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	value := ac.Header.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func (ac *ApplicationContext[T]) SetContextData(key string, data any) {
	if ac.Keys == nil {
		ac.Keys = map[string]any{}
	}
	ac.Keys[key] = data
}

func (ac *ApplicationContext[T]) GetContextData(key string) any {
	if ac.Keys == nil {
		return nil
	}
	return ac.Keys[key]
}
