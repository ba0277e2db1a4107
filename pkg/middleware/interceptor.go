// Package middleware provides dispatch interceptors and observability
// helpers layered in front of a braid store. Interceptors are policy: they
// can log, block or veto an action before any reducer sees it.
package middleware

import (
	"context"
	"log/slog"

	"github.com/noahunallar/braid/pkg/domain"
)

// DispatchInterceptor inspects an action before it reaches the reducers.
// It returns true if the dispatch should proceed, or false to block it.
// A non-nil error aborts the dispatch regardless of the boolean.
type DispatchInterceptor func(ctx context.Context, action domain.Action) (bool, error)

// Multi chains multiple interceptors. The first one that blocks or errors
// wins; later interceptors are not consulted.
func Multi(interceptors ...DispatchInterceptor) DispatchInterceptor {
	return func(ctx context.Context, action domain.Action) (bool, error) {
		for _, interceptor := range interceptors {
			allowed, err := interceptor(ctx, action)
			if err != nil {
				return false, err
			}
			if !allowed {
				return false, nil
			}
		}
		return true, nil
	}
}

// Logging records every dispatched action at debug level before it proceeds.
func Logging(logger *slog.Logger) DispatchInterceptor {
	return func(ctx context.Context, action domain.Action) (bool, error) {
		logger.DebugContext(ctx, "dispatch", "action_type", action.Type)
		return true, nil
	}
}

// Allowlist blocks any action whose type is not in the given set. Hosts that
// accept actions from the network use this to pin the action vocabulary.
func Allowlist(types ...string) DispatchInterceptor {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return func(ctx context.Context, action domain.Action) (bool, error) {
		_, ok := allowed[action.Type]
		return ok, nil
	}
}

// AutoApprove allows everything.
func AutoApprove() DispatchInterceptor {
	return func(ctx context.Context, action domain.Action) (bool, error) {
		return true, nil
	}
}
