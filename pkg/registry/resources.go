package registry

import "context"

// Per-entity converters between request bodies, stored rows and response
// payloads. Bodies are only handed to fromBody after schema validation, so
// the type assertions here cannot fail.

func include(sel map[string]bool, name string) bool {
	return sel == nil || sel[name]
}

func auditPayload(out map[string]any, a *Audit, sel map[string]bool) {
	if include(sel, "id") {
		out["id"] = a.ID
	}
	if include(sel, "createdBy") {
		out["createdBy"] = a.CreatedBy
	}
	if include(sel, "updatedBy") {
		out["updatedBy"] = a.UpdatedBy
	}
	if include(sel, "createdAt") {
		out["createdAt"] = a.CreatedAt
	}
	if include(sel, "updatedAt") {
		out["updatedAt"] = a.UpdatedAt
	}
}

func strVal(body map[string]any, key string) string {
	v, _ := body[key].(string)
	return v
}

func intVal(body map[string]any, key string) int {
	v, _ := body[key].(float64)
	return int(v)
}

func uintVal(body map[string]any, key string) uint {
	v, _ := body[key].(float64)
	return uint(v)
}

func strSliceVal(body map[string]any, key string) StringSlice {
	items, _ := body[key].([]any)
	out := make(StringSlice, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}

func policySliceVal(body map[string]any, key string) PolicyRules {
	items, _ := body[key].([]any)
	out := make(PolicyRules, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		out = append(out, PolicyRule{
			UserGroups:    strVal(obj, "userGroups"),
			ExpiresInDays: intVal(obj, "expiresInDays"),
			DefaultAction: strVal(obj, "defaultAction"),
		})
	}
	return out
}

func sizePayload(row *Size, sel map[string]bool, _ bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	if include(sel, "cpus") {
		out["cpus"] = row.CPUs
	}
	if include(sel, "ram") {
		out["ram"] = row.RAM
	}
	if include(sel, "storage") {
		out["storage"] = row.Storage
	}
	return out
}

func (r *Registry) sizeResource() *resource[Size] {
	return &resource[Size]{
		reg:    r,
		schema: &sizeSchema,
		store:  r.Sizes,
		fromBody: func(body map[string]any) *Size {
			return &Size{
				Name:    strVal(body, "name"),
				CPUs:    intVal(body, "cpus"),
				RAM:     intVal(body, "ram"),
				Storage: intVal(body, "storage"),
			}
		},
		payload: sizePayload,
	}
}

func osLanguagePayload(row *OsLanguage, sel map[string]bool, _ bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	return out
}

func (r *Registry) osLanguageResource() *resource[OsLanguage] {
	return &resource[OsLanguage]{
		reg:    r,
		schema: &osLanguageSchema,
		store:  r.OsLanguages,
		fromBody: func(body map[string]any) *OsLanguage {
			return &OsLanguage{Name: strVal(body, "name")}
		},
		payload: osLanguagePayload,
	}
}

func osFamilyPayload(row *OsFamily, sel map[string]bool, _ bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	if include(sel, "shortName") {
		out["shortName"] = row.ShortName
	}
	return out
}

func (r *Registry) osFamilyResource() *resource[OsFamily] {
	return &resource[OsFamily]{
		reg:    r,
		schema: &osFamilySchema,
		store:  r.OsFamilies,
		fromBody: func(body map[string]any) *OsFamily {
			return &OsFamily{
				Name:      strVal(body, "name"),
				ShortName: strVal(body, "shortName"),
			}
		},
		payload: osFamilyPayload,
	}
}

func locationPayload(row *Location, sel map[string]bool, _ bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	if include(sel, "availableNetworks") {
		out["availableNetworks"] = row.AvailableNetworks
	}
	return out
}

func (r *Registry) locationResource() *resource[Location] {
	return &resource[Location]{
		reg:    r,
		schema: &locationSchema,
		store:  r.Locations,
		fromBody: func(body map[string]any) *Location {
			return &Location{
				Name:              strVal(body, "name"),
				AvailableNetworks: strSliceVal(body, "availableNetworks"),
			}
		},
		payload: locationPayload,
	}
}

func endpointPayload(row *Endpoint, sel map[string]bool, _ bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	if include(sel, "shortName") {
		out["shortName"] = row.ShortName
	}
	if include(sel, "url") {
		out["url"] = row.URL
	}
	if include(sel, "username") {
		out["username"] = row.Username
	}
	if include(sel, "password") {
		out["password"] = row.Password
	}
	if include(sel, "availableClusters") {
		out["availableClusters"] = row.AvailableClusters
	}
	return out
}

func (r *Registry) endpointResource() *resource[Endpoint] {
	return &resource[Endpoint]{
		reg:    r,
		schema: &endpointSchema,
		store:  r.Endpoints,
		fromBody: func(body map[string]any) *Endpoint {
			return &Endpoint{
				Name:              strVal(body, "name"),
				ShortName:         strVal(body, "shortName"),
				URL:               strVal(body, "url"),
				Username:          strVal(body, "username"),
				Password:          strVal(body, "password"),
				AvailableClusters: strSliceVal(body, "availableClusters"),
			}
		},
		payload: endpointPayload,
	}
}

func approvalPolicyPayload(row *ApprovalPolicy, sel map[string]bool, _ bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	if include(sel, "policies") {
		out["policies"] = row.Policies
	}
	return out
}

func (r *Registry) approvalPolicyResource() *resource[ApprovalPolicy] {
	return &resource[ApprovalPolicy]{
		reg:    r,
		schema: &approvalPolicySchema,
		store:  r.ApprovalPolicies,
		fromBody: func(body map[string]any) *ApprovalPolicy {
			return &ApprovalPolicy{
				Name:     strVal(body, "name"),
				Policies: policySliceVal(body, "policies"),
			}
		},
		payload: approvalPolicyPayload,
	}
}

func osTemplatePayload(row *OsTemplate, sel map[string]bool, relations bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	if include(sel, "templateId") {
		out["templateId"] = row.TemplateID
	}
	if include(sel, "osFamily") {
		if relations && row.OsFamily != nil {
			out["osFamily"] = osFamilyPayload(row.OsFamily, nil, false)
		} else {
			out["osFamily"] = row.OsFamilyID
		}
	}
	if include(sel, "location") {
		if relations && row.Location != nil {
			out["location"] = locationPayload(row.Location, nil, false)
		} else {
			out["location"] = row.LocationID
		}
	}
	if include(sel, "availableNetwork") {
		out["availableNetwork"] = row.AvailableNetwork
	}
	return out
}

func (r *Registry) osTemplateResource() *resource[OsTemplate] {
	return &resource[OsTemplate]{
		reg:      r,
		schema:   &osTemplateSchema,
		store:    r.OsTemplates,
		preloads: []string{"OsFamily", "Location"},
		fromBody: func(body map[string]any) *OsTemplate {
			return &OsTemplate{
				Name:             strVal(body, "name"),
				TemplateID:       strVal(body, "templateId"),
				OsFamilyID:       uintVal(body, "osFamily"),
				LocationID:       uintVal(body, "location"),
				AvailableNetwork: strVal(body, "availableNetwork"),
			}
		},
		payload:   osTemplatePayload,
		checkRefs: r.checkOsTemplateRefs,
	}
}

func catalogPayload(row *Catalog, sel map[string]bool, relations bool) map[string]any {
	out := map[string]any{}
	auditPayload(out, &row.Audit, sel)
	if include(sel, "name") {
		out["name"] = row.Name
	}
	if include(sel, "icon") {
		out["icon"] = row.Icon
	}
	if include(sel, "shortName") {
		out["shortName"] = row.ShortName
	}
	if include(sel, "defaultTemplate") {
		if relations && row.DefaultTemplate != nil {
			out["defaultTemplate"] = osTemplatePayload(row.DefaultTemplate, nil, false)
		} else {
			out["defaultTemplate"] = row.DefaultTemplateID
		}
	}
	if include(sel, "defaultApprovalPolicy") {
		if relations && row.DefaultApprovalPolicy != nil {
			out["defaultApprovalPolicy"] = approvalPolicyPayload(row.DefaultApprovalPolicy, nil, false)
		} else {
			out["defaultApprovalPolicy"] = row.DefaultApprovalPolicyID
		}
	}
	if include(sel, "defaultLeasePeriod") {
		out["defaultLeasePeriod"] = row.DefaultLeasePeriod
	}
	if include(sel, "permittedMaxLeaseExtensions") {
		out["permittedMaxLeaseExtensions"] = row.PermittedMaxLeaseExtensions
	}
	if include(sel, "type") {
		out["type"] = row.Type
	}
	return out
}

func (r *Registry) catalogResource() *resource[Catalog] {
	return &resource[Catalog]{
		reg:      r,
		schema:   &catalogSchema,
		store:    r.Catalogs,
		preloads: []string{"DefaultTemplate", "DefaultApprovalPolicy"},
		fromBody: func(body map[string]any) *Catalog {
			return &Catalog{
				Name:                        strVal(body, "name"),
				Icon:                        strVal(body, "icon"),
				ShortName:                   strVal(body, "shortName"),
				DefaultTemplateID:           uintVal(body, "defaultTemplate"),
				DefaultApprovalPolicyID:     uintVal(body, "defaultApprovalPolicy"),
				DefaultLeasePeriod:          intVal(body, "defaultLeasePeriod"),
				PermittedMaxLeaseExtensions: intVal(body, "permittedMaxLeaseExtensions"),
				Type:                        strVal(body, "type"),
			}
		},
		payload: catalogPayload,
		checkRefs: func(ctx context.Context, body map[string]any, _ *Catalog) error {
			return r.checkCatalogRefs(ctx, body)
		},
	}
}
