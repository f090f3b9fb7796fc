package services

import (
	"context"
	"strings"

	"tracker/src/models"
	"tracker/src/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CatalogServiceI interface {
	CreateCategory(ctx context.Context, ownerID int64, name string) (*models.Category, error)
	ListCategories(ctx context.Context, ownerID int64) ([]models.Category, error)
	CreateTag(ctx context.Context, ownerID int64, name string) (*models.Tag, error)
	ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error)
}

// CatalogService manages the category and tag dictionaries transactions
// reference. Names are unique per owner; creating an existing name returns
// the existing entry.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
	tagRepo      repositories.TagRepository
	log          *logrus.Logger
}

func NewCatalogService(
	categoryRepo repositories.CategoryRepository,
	tagRepo repositories.TagRepository,
	log *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		log:          log,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, ownerID int64, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	category := &models.Category{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"category": category.ID, "owner": ownerID}).Info("category created")
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, ownerID int64) ([]models.Category, error) {
	return s.categoryRepo.GetByOwner(ctx, ownerID)
}

func (s *CatalogService) CreateTag(ctx context.Context, ownerID int64, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	tag := &models.Tag{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tag": tag.ID, "owner": ownerID}).Info("tag created")
	return tag, nil
}

func (s *CatalogService) ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	return s.tagRepo.GetByOwner(ctx, ownerID)
}
