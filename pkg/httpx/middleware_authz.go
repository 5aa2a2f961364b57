package httpx

import "net/http"

// RequireAnyRole allows the request through when the authenticated role is
// one of those listed. Must run after AuthnMiddleware.
func RequireAnyRole(roles ...string) Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		want[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := RoleFromContext(r.Context())
			if _, ok := want[have]; !ok {
				WriteError(w, http.StatusForbidden, KindForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
