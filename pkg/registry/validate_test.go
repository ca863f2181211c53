package registry

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFieldsMap(t *testing.T) {
	sel, err := validateFieldsMap(&sizeSchema, map[string]any{"name": true, "cpus": true, "id": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"name": true, "cpus": true, "id": true}, sel)

	_, err = validateFieldsMap(&sizeSchema, map[string]any{"bogus": true})
	require.Error(t, err)
	assert.Equal(t, "Unknown attribute bogus in fields", err.Error())

	_, err = validateFieldsMap(&sizeSchema, map[string]any{"name": false})
	require.Error(t, err)
	assert.Equal(t, "Attribute name in fields must be true", err.Error())

	_, err = validateFieldsMap(&sizeSchema, map[string]any{"name": "true"})
	require.Error(t, err)

	sel, err = validateFieldsMap(&sizeSchema, nil)
	require.NoError(t, err)
	assert.Nil(t, sel)
}

func TestValidateSortMap(t *testing.T) {
	clauses, err := validateSortMap(&sizeSchema, map[string]any{"name": "asc", "cpus": "desc"})
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	// Terms apply in attribute-name order.
	assert.Equal(t, sortClause{Column: "cpus", Desc: true}, clauses[0])
	assert.Equal(t, sortClause{Column: "name", Desc: false}, clauses[1])

	_, err = validateSortMap(&sizeSchema, map[string]any{"bogus": "asc"})
	require.Error(t, err)
	assert.Equal(t, "Unknown attribute bogus in sort", err.Error())

	_, err = validateSortMap(&sizeSchema, map[string]any{"name": "ascending"})
	require.Error(t, err)

	_, err = validateSortMap(&sizeSchema, map[string]any{"name": 1.0})
	require.Error(t, err)
}

func TestParsePaginationIsLenient(t *testing.T) {
	page, limit := parsePagination(url.Values{})
	assert.Equal(t, 0, page)
	assert.Equal(t, 50, limit)

	page, limit = parsePagination(url.Values{"page": {"3"}, "limit": {"20"}})
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)

	// Unparsable and out-of-range values normalize, they do not fail.
	page, limit = parsePagination(url.Values{"page": {"abc"}, "limit": {"-5"}})
	assert.Equal(t, 0, page)
	assert.Equal(t, 50, limit)

	page, limit = parsePagination(url.Values{"page": {"-1"}, "limit": {"zero"}})
	assert.Equal(t, 0, page)
	assert.Equal(t, 50, limit)
}

func TestValidateBodyCreate(t *testing.T) {
	body := map[string]any{"name": "Small", "cpus": 2.0, "ram": 1024.0, "storage": 10.0}
	require.NoError(t, validateBody(&sizeSchema, body, false))

	err := validateBody(&sizeSchema, map[string]any{"cpus": 2.0, "ram": 1024.0, "storage": 10.0}, false)
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	err = validateBody(&sizeSchema, map[string]any{"name": "Small", "cpus": "two", "ram": 1024.0, "storage": 10.0}, false)
	require.Error(t, err)
	assert.Equal(t, "cpus must be a number", err.Error())

	err = validateBody(&sizeSchema, map[string]any{"name": 5.0, "cpus": 2.0, "ram": 1024.0, "storage": 10.0}, false)
	require.Error(t, err)
	assert.Equal(t, "name must be a string", err.Error())
}

func TestValidateBodyUpdateIsPartial(t *testing.T) {
	require.NoError(t, validateBody(&sizeSchema, map[string]any{}, true))
	require.NoError(t, validateBody(&sizeSchema, map[string]any{"name": "Large"}, true))

	// Null counts as absent on updates.
	require.NoError(t, validateBody(&sizeSchema, map[string]any{"name": nil}, true))

	err := validateBody(&sizeSchema, map[string]any{"name": 5.0}, true)
	require.Error(t, err)
}

func TestValidateBodyShortNameLength(t *testing.T) {
	body := map[string]any{"name": "Windows Server", "shortName": "windows"}
	err := validateBody(&osFamilySchema, body, false)
	require.Error(t, err)
	assert.Equal(t, "shortName must be at most 6 characters", err.Error())

	body["shortName"] = "win"
	require.NoError(t, validateBody(&osFamilySchema, body, false))
}

func TestValidateBodyEnum(t *testing.T) {
	body := map[string]any{
		"name": "Ubuntu", "shortName": "ubuntu",
		"defaultTemplate": 1.0, "defaultApprovalPolicy": 1.0,
		"defaultLeasePeriod": 30.0, "permittedMaxLeaseExtensions": 3.0,
		"type": "Premium",
	}
	err := validateBody(&catalogSchema, body, false)
	require.Error(t, err)
	assert.Equal(t, "type must be one of Standard, Custom", err.Error())

	body["type"] = "Custom"
	require.NoError(t, validateBody(&catalogSchema, body, false))
}

func TestValidateBodyStringSlice(t *testing.T) {
	body := map[string]any{"name": "DC1", "availableNetworks": []any{"a", "b"}}
	require.NoError(t, validateBody(&locationSchema, body, false))

	body["availableNetworks"] = []any{"a", 2.0}
	err := validateBody(&locationSchema, body, false)
	require.Error(t, err)
	assert.Equal(t, "availableNetworks must be an array of strings", err.Error())

	body["availableNetworks"] = "not-an-array"
	require.Error(t, validateBody(&locationSchema, body, false))
}

func TestValidateBodyPolicySlice(t *testing.T) {
	valid := map[string]any{
		"name": "Default",
		"policies": []any{
			map[string]any{"userGroups": "admins", "expiresInDays": 7.0, "defaultAction": "reject"},
		},
	}
	require.NoError(t, validateBody(&approvalPolicySchema, valid, false))

	invalid := map[string]any{
		"name": "Default",
		"policies": []any{
			map[string]any{"userGroups": "admins", "expiresInDays": "seven", "defaultAction": "reject"},
		},
	}
	err := validateBody(&approvalPolicySchema, invalid, false)
	require.Error(t, err)
	assert.Equal(t, "policies entries must have a numeric expiresInDays", err.Error())
}

func TestValidateBodyRefType(t *testing.T) {
	body := map[string]any{
		"name": "Ubuntu 24.04", "templateId": "dc1/templates/u24",
		"osFamily": "one", "location": 1.0, "availableNetwork": "dc1/net-a",
	}
	err := validateBody(&osTemplateSchema, body, false)
	require.Error(t, err)
	assert.Equal(t, "osFamily must be a number", err.Error())
}

func TestValidateBodyIgnoresUnknownKeys(t *testing.T) {
	body := map[string]any{"name": "Small", "cpus": 2.0, "ram": 1024.0, "storage": 10.0, "extra": "x"}
	require.NoError(t, validateBody(&sizeSchema, body, false))
}
