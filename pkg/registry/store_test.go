package registry

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRegistry creates a Registry over an in-memory SQLite DB with all
// tables migrated.
func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	reg := New(db, opts...)
	require.NoError(t, reg.AutoMigrate())
	return reg
}

func TestStore_InsertAssignsIDs(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	first := &Size{Name: "Small", CPUs: 2, RAM: 1024, Storage: 10}
	require.NoError(t, reg.Sizes.Insert(ctx, first))
	second := &Size{Name: "Large", CPUs: 8, RAM: 16384, Storage: 200}
	require.NoError(t, reg.Sizes.Insert(ctx, second))

	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestStore_FindManyPaginates(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, reg.OsLanguages.Insert(ctx, &OsLanguage{Name: name}))
	}

	rows, total, err := reg.OsLanguages.FindMany(ctx, ListOptions{
		Skip:  2,
		Limit: 2,
		Sort:  []sortClause{{Column: "name"}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "c", rows[0].Name)
	assert.Equal(t, "d", rows[1].Name)
}

func TestStore_FindManySortDesc(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, reg.OsLanguages.Insert(ctx, &OsLanguage{Name: name}))
	}

	rows, _, err := reg.OsLanguages.FindMany(ctx, ListOptions{
		Limit: 10,
		Sort:  []sortClause{{Column: "name", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].Name)
}

func TestStore_UpdateFieldsReportsAffected(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	row := &Size{Name: "Small", CPUs: 2, RAM: 1024, Storage: 10}
	require.NoError(t, reg.Sizes.Insert(ctx, row))

	affected, err := reg.Sizes.UpdateFields(ctx, row.ID, map[string]any{"name": "Medium"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = reg.Sizes.UpdateFields(ctx, row.ID+100, map[string]any{"name": "Medium"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	got, err := reg.Sizes.FindOne(ctx, row.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Medium", got.Name)
	assert.Equal(t, 2, got.CPUs)
}

func TestStore_UpdateFieldsTouchesUpdatedAt(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	row := &Size{Name: "Small", CPUs: 2, RAM: 1024, Storage: 10}
	require.NoError(t, reg.Sizes.Insert(ctx, row))

	_, err := reg.Sizes.UpdateFields(ctx, row.ID, map[string]any{"updated_by": "alice"})
	require.NoError(t, err)

	got, err := reg.Sizes.FindOne(ctx, row.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.UpdatedBy)
	assert.False(t, got.UpdatedAt.Before(row.UpdatedAt))
}

func TestStore_SoftDeleteExcludesFromReads(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	row := &Size{Name: "Small", CPUs: 2, RAM: 1024, Storage: 10}
	require.NoError(t, reg.Sizes.Insert(ctx, row))

	affected, err := reg.Sizes.SoftDelete(ctx, row.ID, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	got, err := reg.Sizes.FindOne(ctx, row.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, total, err := reg.Sizes.FindMany(ctx, ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	// The row survives for audit with its attribution set.
	var raw Size
	require.NoError(t, reg.db.Unscoped().First(&raw, "id = ?", row.ID).Error)
	assert.Equal(t, "alice", raw.DeletedBy)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestStore_SoftDeleteTwiceReportsZero(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	row := &Size{Name: "Small", CPUs: 2, RAM: 1024, Storage: 10}
	require.NoError(t, reg.Sizes.Insert(ctx, row))

	affected, err := reg.Sizes.SoftDelete(ctx, row.ID, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = reg.Sizes.SoftDelete(ctx, row.ID, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestStore_ExistsIgnoresDeleted(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	fam := &OsFamily{Name: "Ubuntu", ShortName: "ubuntu"}
	require.NoError(t, reg.OsFamilies.Insert(ctx, fam))

	ok, err := reg.OsFamilies.Exists(ctx, fam.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = reg.OsFamilies.SoftDelete(ctx, fam.ID, "alice")
	require.NoError(t, err)

	ok, err = reg.OsFamilies.Exists(ctx, fam.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PreloadResolvesRelations(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	fam := &OsFamily{Name: "Ubuntu", ShortName: "ubuntu"}
	require.NoError(t, reg.OsFamilies.Insert(ctx, fam))
	loc := &Location{Name: "DC1", AvailableNetworks: StringSlice{"dc1/net-a"}}
	require.NoError(t, reg.Locations.Insert(ctx, loc))
	tpl := &OsTemplate{
		Name: "Ubuntu 24.04", TemplateID: "dc1/templates/u24",
		OsFamilyID: fam.ID, LocationID: loc.ID, AvailableNetwork: "dc1/net-a",
	}
	require.NoError(t, reg.OsTemplates.Insert(ctx, tpl))

	got, err := reg.OsTemplates.FindOne(ctx, tpl.ID, []string{"OsFamily", "Location"})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.OsFamily)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Ubuntu", got.OsFamily.Name)
	assert.Equal(t, StringSlice{"dc1/net-a"}, got.Location.AvailableNetworks)
}
