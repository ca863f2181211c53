package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vmforge/configapi/pkg/authz"
)

// auditable exposes the shared audit columns of an entity row.
type auditable interface {
	auditFields() *Audit
}

func (a *Audit) auditFields() *Audit { return a }

// resource instantiates the five uniform operations for one entity type.
// The schema drives validation and the patch mapping; fromBody and payload
// are the only per-entity pieces.
type resource[T any] struct {
	reg      *Registry
	schema   *EntitySchema
	store    *Store[T]
	preloads []string
	fromBody func(body map[string]any) *T
	payload  func(row *T, sel map[string]bool, relations bool) map[string]any
	// checkRefs runs the referential checks for a create/update body;
	// nil for entities without reference fields. existing is nil on create.
	checkRefs func(ctx context.Context, body map[string]any, existing *T) error
}

// relationsRequested reports whether the caller asked for expanded
// relation objects. Ignored for entities without reference fields.
func (res *resource[T]) relationsRequested(r *http.Request) bool {
	return res.schema.Relations && r.URL.Query().Get("relations") == "true"
}

func (res *resource[T]) activePreloads(relations bool) []string {
	if relations {
		return res.preloads
	}
	return nil
}

// parseID reads the numeric path id.
func parseID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, validationf("id must be a number")
	}
	return uint(id), nil
}

// decodeBody decodes a JSON request body into a map.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, validationf("Request body is not valid JSON")
	}
	return body, nil
}

// writeValidationOr writes E1007 for validation failures and the given
// fallback code for anything else, logging the latter.
func (res *resource[T]) writeValidationOr(w http.ResponseWriter, err error, code Code, msg string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeError(w, CodeValidationFailed, verr.Message)
		return
	}
	res.reg.logger.Error(msg, "entity", res.schema.Singular, "error", err)
	writeError(w, code, msg)
}

// list handles GET /<entity>.
func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	fieldsMap, err := parseHeaderMap(r, HeaderFields)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	sortMap, err := parseHeaderMap(r, HeaderSort)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	sel, err := validateFieldsMap(res.schema, fieldsMap)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	clauses, err := validateSortMap(res.schema, sortMap)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}

	page, limit := parsePagination(r.URL.Query())
	relations := res.relationsRequested(r)

	rows, total, err := res.store.FindMany(r.Context(), ListOptions{
		Skip:     page * limit,
		Limit:    limit,
		Sort:     clauses,
		Preloads: res.activePreloads(relations),
	})
	if err != nil {
		res.reg.logger.Error("list failed", "entity", res.schema.Singular, "error", err)
		writeError(w, CodeListFailed, "Could not fetch "+res.schema.Plural)
		return
	}

	items := make([]map[string]any, 0, len(rows))
	for i := range rows {
		items = append(items, res.payload(&rows[i], sel, relations))
	}
	pages := (total + int64(limit) - 1) / int64(limit)

	writeSuccess(w, map[string]any{
		res.schema.Plural: items,
		"count":           total,
		"pages":           pages,
	})
}

// get handles GET /<entity>/{id}.
func (res *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	fieldsMap, err := parseHeaderMap(r, HeaderFields)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	sel, err := validateFieldsMap(res.schema, fieldsMap)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	relations := res.relationsRequested(r)

	row, err := res.store.FindOne(r.Context(), id, res.activePreloads(relations))
	if err != nil {
		res.reg.logger.Error("get failed", "entity", res.schema.Singular, "id", id, "error", err)
		writeError(w, CodeGetFailed, "Could not fetch "+res.schema.Singular)
		return
	}
	if row == nil {
		writeError(w, CodeNotFound, "Requested "+res.schema.Singular+" doesn't exist")
		return
	}
	writeSuccess(w, map[string]any{res.schema.Singular: res.payload(row, sel, relations)})
}

// create handles POST /<entity>.
func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	if err := validateBody(res.schema, body, false); err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	if res.checkRefs != nil {
		if err := res.checkRefs(r.Context(), body, nil); err != nil {
			res.writeValidationOr(w, err, CodeCreateFailed, "Could not create "+res.schema.Singular)
			return
		}
	}

	row := res.fromBody(body)
	actor := authz.UserFromContext(r.Context())
	aud := any(row).(auditable).auditFields()
	aud.CreatedBy = actor
	aud.UpdatedBy = actor

	if err := res.store.Insert(r.Context(), row); err != nil {
		res.reg.logger.Error("create failed", "entity", res.schema.Singular, "error", err)
		writeError(w, CodeCreateFailed, "Could not create "+res.schema.Singular)
		return
	}

	// Creation responses resolve reference fields to full objects.
	created, err := res.store.FindOne(r.Context(), aud.ID, res.preloads)
	if err != nil || created == nil {
		res.reg.logger.Error("create readback failed", "entity", res.schema.Singular, "id", aud.ID, "error", err)
		writeError(w, CodeCreateFailed, "Could not create "+res.schema.Singular)
		return
	}
	writeSuccess(w, map[string]any{res.schema.Singular: res.payload(created, nil, true)})
}

// update handles PUT /<entity>/{id}. Only attributes present in the body
// are overwritten; a JSON null counts as absent.
func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	if err := validateBody(res.schema, body, true); err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}

	existing, err := res.store.FindOne(r.Context(), id, nil)
	if err != nil {
		res.reg.logger.Error("update fetch failed", "entity", res.schema.Singular, "id", id, "error", err)
		writeError(w, CodeUpdateFailed, "Could not update "+res.schema.Singular)
		return
	}
	if existing == nil {
		writeError(w, CodeNotFound, "Requested "+res.schema.Singular+" doesn't exist")
		return
	}

	if res.checkRefs != nil {
		if err := res.checkRefs(r.Context(), body, existing); err != nil {
			res.writeValidationOr(w, err, CodeUpdateFailed, "Could not update "+res.schema.Singular)
			return
		}
	}

	updates := res.patchColumns(body)
	updates["updated_by"] = authz.UserFromContext(r.Context())

	if _, err := res.store.UpdateFields(r.Context(), id, updates); err != nil {
		res.reg.logger.Error("update failed", "entity", res.schema.Singular, "id", id, "error", err)
		writeError(w, CodeUpdateFailed, "Could not update "+res.schema.Singular)
		return
	}

	updated, err := res.store.FindOne(r.Context(), id, nil)
	if err != nil || updated == nil {
		res.reg.logger.Error("update readback failed", "entity", res.schema.Singular, "id", id, "error", err)
		writeError(w, CodeUpdateFailed, "Could not update "+res.schema.Singular)
		return
	}
	writeSuccess(w, map[string]any{res.schema.Singular: res.payload(updated, nil, false)})
}

// patchColumns maps the supplied body attributes to store columns. Fields
// absent from the body or set to null stay untouched.
func (res *resource[T]) patchColumns(body map[string]any) map[string]any {
	updates := make(map[string]any, len(body)+1)
	for i := range res.schema.Fields {
		f := &res.schema.Fields[i]
		raw, ok := body[f.Name]
		if !ok || raw == nil {
			continue
		}
		updates[f.Column] = coerceFieldValue(f, raw)
	}
	return updates
}

// delete handles DELETE /<entity>/{id}.
func (res *resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}

	existing, err := res.store.FindOne(r.Context(), id, nil)
	if err != nil {
		res.reg.logger.Error("delete fetch failed", "entity", res.schema.Singular, "id", id, "error", err)
		writeError(w, CodeDeleteFailed, "Could not delete "+res.schema.Singular)
		return
	}
	if existing == nil {
		writeError(w, CodeNotFound, "Requested "+res.schema.Singular+" doesn't exist")
		return
	}

	affected, err := res.store.SoftDelete(r.Context(), id, authz.UserFromContext(r.Context()))
	if err != nil {
		res.reg.logger.Error("delete failed", "entity", res.schema.Singular, "id", id, "error", err)
		writeError(w, CodeDeleteFailed, "Could not delete "+res.schema.Singular)
		return
	}
	if affected == 0 {
		writeError(w, CodeNotFound, "Requested "+res.schema.Singular+" doesn't exist")
		return
	}
	writeSuccess(w, nil)
}
