package service

import (
	"context"
	"testing"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/raphaelgruber/keymap/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectService(store *fakeStore) *ProjectService {
	return NewProjectService(store, testLogger())
}

func TestProjectCreateDefaultTitle(t *testing.T) {
	svc := newProjectService(newFakeStore())

	p, err := svc.Create(context.Background(), "", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProjectTitle, p.Title)
	assert.Equal(t, "u1", p.UserID)
}

func TestProjectOwnerGuard(t *testing.T) {
	store := newFakeStore()
	svc := newProjectService(store)
	ctx := context.Background()

	owned, err := svc.Create(ctx, "Mine", "owner")
	require.NoError(t, err)
	anonymous, err := svc.Create(ctx, "Anyone's", "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, owned.ID, "owner")
	assert.NoError(t, err)

	_, err = svc.Get(ctx, owned.ID, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)

	// Ownerless projects are open to any requester.
	_, err = svc.Get(ctx, anonymous.ID, "whoever")
	assert.NoError(t, err)

	_, err = svc.Get(ctx, "missing", "owner")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	err = svc.Delete(ctx, owned.ID, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, owned.ID, "owner")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, owned.ID, "owner")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectUpdateTitle(t *testing.T) {
	store := newFakeStore()
	svc := newProjectService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Old", "u1")
	require.NoError(t, err)

	title := "New name"
	updated, err := svc.Update(ctx, p.ID, "u1", ProjectUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New name", updated.Title)

	// Nil title leaves the stored value alone.
	updated, err = svc.Update(ctx, p.ID, "u1", ProjectUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "New name", updated.Title)

	_, err = svc.Update(ctx, p.ID, "other", ProjectUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProjectView(t *testing.T) {
	store := newFakeStore()
	svc := newProjectService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shared", "owner")
	require.NoError(t, err)

	// Before any schema: empty relationships, nil schema.
	view, err := svc.View(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Schema)
	assert.Empty(t, view.Relationships)

	sc := models.Schema{
		Type: models.SchemaTypeSQL,
		Code: "CREATE TABLE posts (...);",
		Tables: []models.SchemaTable{
			{Name: "users", Fields: []models.SchemaField{{Name: "id", Type: "int", IsPrimaryKey: true}}},
			{Name: "posts", Fields: []models.SchemaField{
				{Name: "id", Type: "int", IsPrimaryKey: true},
				{Name: "user_id", Type: "int"},
			}},
		},
	}
	_, err = store.SetProjectSchema(ctx, p.ID, sc)
	require.NoError(t, err)

	// View needs no requester identity.
	view, err = svc.View(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Schema)
	require.Len(t, view.Relationships, 1)
	assert.Equal(t, schema.Relationship{
		FromTable: "posts", FromField: "user_id",
		ToTable: "users", ToField: "id", Inferred: true,
	}, view.Relationships[0])
}

func TestProjectExport(t *testing.T) {
	store := newFakeStore()
	svc := newProjectService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, "My Shop DB!", "u1")
	require.NoError(t, err)

	_, _, err = svc.Export(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNoSchema)

	sc := schema.Fallback()
	sc.Code = `CREATE TABLE Users (\n  id INT PRIMARY KEY\n);`
	_, err = store.SetProjectSchema(ctx, p.ID, sc)
	require.NoError(t, err)

	filename, code, err := svc.Export(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "my-shop-db.sql", filename)
	assert.Equal(t, "CREATE TABLE Users (\n  id INT PRIMARY KEY\n);", code)

	_, _, err = svc.Export(ctx, "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Shop DB!", "my-shop-db"},
		{"  spaced   out  ", "spaced-out"},
		{"___", "schema"},
		{"", "schema"},
		{"Already-clean", "already-clean"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}
