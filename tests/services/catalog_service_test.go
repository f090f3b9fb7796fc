package services_test

import (
	"context"
	"sort"
	"testing"

	"tracker/src/models"
	"tracker/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	byID map[string]models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: map[string]models.Category{}}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	// Mirrors the upsert: a second create with the same owner and name
	// returns the existing row's id.
	for _, existing := range f.byID {
		if existing.OwnerID == category.OwnerID && existing.Name == category.Name {
			category.ID = existing.ID
			category.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	f.byID[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Category, error) {
	c, ok := f.byID[id]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCategoryRepo) GetByOwner(ctx context.Context, ownerID int64) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.byID {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeTagRepo struct {
	byID map[string]models.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{byID: map[string]models.Tag{}}
}

func (f *fakeTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	for _, existing := range f.byID {
		if existing.OwnerID == tag.OwnerID && existing.Name == tag.Name {
			tag.ID = existing.ID
			tag.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	f.byID[tag.ID] = *tag
	return nil
}

func (f *fakeTagRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Tag, error) {
	t, ok := f.byID[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeTagRepo) GetByOwner(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	var out []models.Tag
	for _, t := range f.byID {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func newCatalogFixture() *services.CatalogService {
	return services.NewCatalogService(newFakeCategoryRepo(), newFakeTagRepo(), testLogger())
}

func TestCatalogService_CreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an id and trims the name", func(t *testing.T) {
		svc := newCatalogFixture()

		category, err := svc.CreateCategory(ctx, testOwnerID, "  rent ")
		require.NoError(t, err)
		assert.NotEmpty(t, category.ID)
		assert.Equal(t, "rent", category.Name)
		assert.Equal(t, int64(testOwnerID), category.OwnerID)
	})

	t.Run("creating the same name twice reuses it", func(t *testing.T) {
		svc := newCatalogFixture()

		first, err := svc.CreateCategory(ctx, testOwnerID, "groceries")
		require.NoError(t, err)
		second, err := svc.CreateCategory(ctx, testOwnerID, "groceries")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)

		categories, err := svc.ListCategories(ctx, testOwnerID)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("same name under another owner is distinct", func(t *testing.T) {
		svc := newCatalogFixture()

		mine, err := svc.CreateCategory(ctx, testOwnerID, "travel")
		require.NoError(t, err)
		theirs, err := svc.CreateCategory(ctx, testOwnerID+1, "travel")
		require.NoError(t, err)

		assert.NotEqual(t, mine.ID, theirs.ID)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		svc := newCatalogFixture()

		_, err := svc.CreateCategory(ctx, testOwnerID, "   ")
		assert.ErrorIs(t, err, services.ErrInvalidName)
	})
}

func TestCatalogService_Tags(t *testing.T) {
	ctx := context.Background()

	t.Run("create and list sorted by name", func(t *testing.T) {
		svc := newCatalogFixture()

		for _, name := range []string{"vacation", "bills", "gifts"} {
			_, err := svc.CreateTag(ctx, testOwnerID, name)
			require.NoError(t, err)
		}

		tags, err := svc.ListTags(ctx, testOwnerID)
		require.NoError(t, err)
		require.Len(t, tags, 3)
		assert.Equal(t, "bills", tags[0].Name)
		assert.Equal(t, "gifts", tags[1].Name)
		assert.Equal(t, "vacation", tags[2].Name)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		svc := newCatalogFixture()

		_, err := svc.CreateTag(ctx, testOwnerID, "")
		assert.ErrorIs(t, err, services.ErrInvalidName)
	})

	t.Run("listing an owner with no tags", func(t *testing.T) {
		svc := newCatalogFixture()

		tags, err := svc.ListTags(ctx, testOwnerID)
		require.NoError(t, err)
		assert.Empty(t, tags)
	})
}
