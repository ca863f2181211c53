package main

import (
	"context"

	"github.com/vmforge/configapi/pkg/registry"
)

// seedStarterData inserts one row per entity type so a fresh install has
// something to list. Rows reference each other the same way user-created
// data would.
func seedStarterData(reg *registry.Registry) error {
	ctx := context.Background()

	size := &registry.Size{Name: "Small", CPUs: 2, RAM: 2048, Storage: 40}
	if err := reg.Sizes.Insert(ctx, size); err != nil {
		return err
	}

	lang := &registry.OsLanguage{Name: "English"}
	if err := reg.OsLanguages.Insert(ctx, lang); err != nil {
		return err
	}

	family := &registry.OsFamily{Name: "Ubuntu Server", ShortName: "ubuntu"}
	if err := reg.OsFamilies.Insert(ctx, family); err != nil {
		return err
	}

	location := &registry.Location{
		Name:              "Primary DC",
		AvailableNetworks: registry.StringSlice{"dc1/vm-network", "dc1/dmz-network"},
	}
	if err := reg.Locations.Insert(ctx, location); err != nil {
		return err
	}

	endpoint := &registry.Endpoint{
		Name:              "vCenter Primary",
		ShortName:         "vc1",
		URL:               "https://vcenter.example.com/sdk",
		Username:          "svc-provision",
		Password:          "change-me",
		AvailableClusters: registry.StringSlice{"dc1/cluster-a"},
	}
	if err := reg.Endpoints.Insert(ctx, endpoint); err != nil {
		return err
	}

	policy := &registry.ApprovalPolicy{
		Name: "Default approval",
		Policies: registry.PolicyRules{
			{UserGroups: "vm-admins", ExpiresInDays: 7, DefaultAction: "reject"},
		},
	}
	if err := reg.ApprovalPolicies.Insert(ctx, policy); err != nil {
		return err
	}

	template := &registry.OsTemplate{
		Name:             "Ubuntu 24.04 LTS",
		TemplateID:       "dc1/templates/ubuntu-24.04",
		OsFamilyID:       family.ID,
		LocationID:       location.ID,
		AvailableNetwork: "dc1/vm-network",
	}
	if err := reg.OsTemplates.Insert(ctx, template); err != nil {
		return err
	}

	catalog := &registry.Catalog{
		Name:                        "Ubuntu Server",
		ShortName:                   "ubuntu",
		DefaultTemplateID:           template.ID,
		DefaultApprovalPolicyID:     policy.ID,
		DefaultLeasePeriod:          30,
		PermittedMaxLeaseExtensions: 3,
		Type:                        registry.CatalogTypeStandard,
	}
	return reg.Catalogs.Insert(ctx, catalog)
}
