package route

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ParamsFromRequest extracts route parameters from a request matched by
// a chi router. Returns an empty Params if the request was not routed
// through chi.
func ParamsFromRequest(req *http.Request) Params {
	params := make(Params)
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		return params
	}
	for i, key := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[key] = rctx.URLParams.Values[i]
		}
	}
	return params
}

// MatchFromRequest builds a Match for a page from a routed request.
func MatchFromRequest(p *Page, req *http.Request) Match {
	return Match{
		Page:   p,
		Params: ParamsFromRequest(req),
		Path:   req.URL.Path,
	}
}

// MountPages registers every page in the registry on a chi router. Each
// page is served via the handler returned by build for its match.
func MountPages(r chi.Router, reg *Registry, build func(m Match) http.Handler) {
	for _, p := range reg.Pages() {
		page := p
		r.Get(page.Path, func(w http.ResponseWriter, req *http.Request) {
			m := MatchFromRequest(page, req)
			build(m).ServeHTTP(w, req)
		})
	}
}
