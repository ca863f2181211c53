package registry

import "context"

// Referential-integrity checks for the two dependent entities. All checks
// run before any mutation is persisted; a failed check aborts the whole
// write, so partial writes cannot occur.

// checkOsTemplateRefs verifies the references supplied in an OsTemplate
// create/update body. existing is nil on create. Beyond plain existence it
// enforces the membership invariant: availableNetwork must belong to the
// effective location's availableNetworks. When an update supplies a new
// location without a new availableNetwork, membership of the old network is
// only re-checked under StrictNetworkRevalidation.
func (r *Registry) checkOsTemplateRefs(ctx context.Context, body map[string]any, existing *OsTemplate) error {
	if raw, ok := body["osFamily"]; ok && raw != nil {
		exists, err := r.OsFamilies.Exists(ctx, refID(raw))
		if err != nil {
			return err
		}
		if !exists {
			return errRefMissing("osFamily")
		}
	}

	var loc *Location
	locSupplied := false
	if raw, ok := body["location"]; ok && raw != nil {
		locSupplied = true
		var err error
		loc, err = r.Locations.FindOne(ctx, refID(raw), nil)
		if err != nil {
			return err
		}
		if loc == nil {
			return errRefMissing("location")
		}
	}

	if raw, ok := body["availableNetwork"]; ok && raw != nil {
		network := raw.(string)
		if loc == nil {
			if existing == nil {
				// Create bodies always carry location; validation ran first.
				return errRefMissing("location")
			}
			var err error
			loc, err = r.Locations.FindOne(ctx, existing.LocationID, nil)
			if err != nil {
				return err
			}
			if loc == nil {
				return errRefMissing("location")
			}
		}
		if !loc.AvailableNetworks.Contains(network) {
			return errNetworkNotInLocation
		}
	} else if locSupplied && existing != nil && r.StrictNetworkRevalidation {
		if !loc.AvailableNetworks.Contains(existing.AvailableNetwork) {
			return errNetworkNotInLocation
		}
	}

	return nil
}

// checkCatalogRefs verifies the references supplied in a Catalog
// create/update body.
func (r *Registry) checkCatalogRefs(ctx context.Context, body map[string]any) error {
	if raw, ok := body["defaultTemplate"]; ok && raw != nil {
		exists, err := r.OsTemplates.Exists(ctx, refID(raw))
		if err != nil {
			return err
		}
		if !exists {
			return errRefMissing("defaultTemplate")
		}
	}
	if raw, ok := body["defaultApprovalPolicy"]; ok && raw != nil {
		exists, err := r.ApprovalPolicies.Exists(ctx, refID(raw))
		if err != nil {
			return err
		}
		if !exists {
			return errRefMissing("defaultApprovalPolicy")
		}
	}
	return nil
}
