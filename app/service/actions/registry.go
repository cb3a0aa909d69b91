package actions

import (
	"context"
	"errors"

	"casebot/app/service/tracker"

	"github.com/elliotchance/pie/v2"
)

var ErrUnknownAction = errors.New("unknown action")

// Handler runs one framework action.
type Handler func(ctx context.Context, req tracker.Request) (tracker.Response, error)

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names lists the registered actions in lexical order.
func (r *Registry) Names() []string {
	return pie.Sort(pie.Keys(r.handlers))
}
