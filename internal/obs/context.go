package obs

import "context"

// routePatternKey keys the matched chi route pattern in a request context.
type routePatternKey struct{}

// WithRoutePattern annotates ctx with the router pattern that matched the
// request, so log and metric labels stay low-cardinality.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext returns the stored route pattern, or empty when
// the request never matched a route.
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	pattern, _ := ctx.Value(routePatternKey{}).(string)
	return pattern
}
