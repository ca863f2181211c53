package registry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vmforge/configapi/pkg/authz"
)

var startedAt = time.Now()

// Routes builds the resource router. Every route runs behind the policy;
// the default AllowAll policy makes the denial path unreachable until a
// real policy is substituted.
func (r *Registry) Routes(policy authz.Policy) chi.Router {
	router := chi.NewRouter()

	router.Get("/health", healthHandler)

	mountResource(router, "/size", policy, r.sizeResource(), nil)
	mountResource(router, "/oslanguage", policy, r.osLanguageResource(), nil)
	mountResource(router, "/osfamily", policy, r.osFamilyResource(), nil)
	mountResource(router, "/location", policy, r.locationResource(), nil)
	mountResource(router, "/endpoint", policy, r.endpointResource(), nil)
	mountResource(router, "/approvalpolicy", policy, r.approvalPolicyResource(), nil)
	mountResource(router, "/ostemplate", policy, r.osTemplateResource(), nil)
	mountResource(router, "/catalog", policy, r.catalogResource(), func(sr chi.Router) {
		if r.Icons != nil {
			sr.With(authz.Middleware(policy, "catalog", authz.VerbUpload)).
				Post("/{id}/icon", r.uploadCatalogIcon)
		}
	})

	return router
}

// mountResource wires the five uniform operations under path, plus any
// entity-specific extra routes.
func mountResource[T any](router chi.Router, path string, policy authz.Policy, res *resource[T], extra func(chi.Router)) {
	entity := res.schema.Singular
	router.Route(path, func(sr chi.Router) {
		sr.With(authz.Middleware(policy, entity, authz.VerbList)).Get("/", res.list)
		sr.With(authz.Middleware(policy, entity, authz.VerbCreate)).Post("/", res.create)
		sr.With(authz.Middleware(policy, entity, authz.VerbGet)).Get("/{id}", res.get)
		sr.With(authz.Middleware(policy, entity, authz.VerbUpdate)).Put("/{id}", res.update)
		sr.With(authz.Middleware(policy, entity, authz.VerbDelete)).Delete("/{id}", res.delete)
		if extra != nil {
			extra(sr)
		}
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, map[string]any{"uptime": time.Since(startedAt).String()})
}
