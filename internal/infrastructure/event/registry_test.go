package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_GetHandlers(t *testing.T) {
	r := NewHandlerRegistry()
	typed := newTestHandler()
	wildcard := newTestHandler()
	r.Register(typed, "SalePaid", "SaleCancelled")
	r.Register(wildcard)

	assert.Equal(t, []any{typed, wildcard}, toAny(r.GetHandlers("SalePaid")))
	assert.Equal(t, []any{wildcard}, toAny(r.GetHandlers("PurchaseReceived")))
	assert.Equal(t, 2, r.Len())
}

func TestHandlerRegistry_RegisterTwiceIsNoop(t *testing.T) {
	r := NewHandlerRegistry()
	h := newTestHandler()
	r.Register(h, "SalePaid")
	r.Register(h, "SalePaid")
	r.Register(h)
	r.Register(h)

	assert.Len(t, r.GetHandlers("SalePaid"), 2)
	assert.Equal(t, 1, r.Len())
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	keep := newTestHandler()
	drop := newTestHandler()
	r.Register(keep, "SalePaid")
	r.Register(drop, "SalePaid", "SaleCancelled")
	r.Register(drop)

	r.Unregister(drop)

	assert.Equal(t, []any{keep}, toAny(r.GetHandlers("SalePaid")))
	assert.Empty(t, r.GetHandlers("SaleCancelled"))
	assert.Equal(t, 1, r.Len())
}

func TestHandlerRegistry_GetHandlersReturnsCopy(t *testing.T) {
	r := NewHandlerRegistry()
	r.Register(newTestHandler(), "SalePaid")

	got := r.GetHandlers("SalePaid")
	got[0] = nil

	assert.NotNil(t, r.GetHandlers("SalePaid")[0])
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
