package ingredient

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const cacheSize = 1024

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type (
	IngredientService interface {
		GetIngredient(ctx context.Context, id uuid.UUID) (domain.IngredientResponse, error)
		SearchIngredients(ctx context.Context, prefix string) ([]domain.IngredientResponse, error)
		GetTag(ctx context.Context, id uuid.UUID) (domain.TagResponse, error)
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		ImportIngredients(ctx context.Context, r io.Reader) (int64, error)
		ImportTags(ctx context.Context, r io.Reader) (int64, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		cache                *lru.Cache
		logger               *zap.SugaredLogger
	}
)

func NewIngredientService(ingredientRepository IngredientRepository, logger *zap.SugaredLogger) (IngredientService, error) {
	return newIngredientService(ingredientRepository, logger, cacheSize)
}

func newIngredientService(ingredientRepository IngredientRepository, logger *zap.SugaredLogger, size int) (*ingredientService, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "create ingredient cache")
	}
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		cache:                cache,
		logger:               logger,
	}, nil
}

// GetIngredient serves from the cache. Ingredients are reference data and
// never change once imported.
func (s *ingredientService) GetIngredient(ctx context.Context, id uuid.UUID) (domain.IngredientResponse, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached.(domain.IngredientResponse), nil
	}
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	res := ingredient.ToResponse()
	s.cache.Add(id, res)
	return res, nil
}

func (s *ingredientService) SearchIngredients(ctx context.Context, prefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.SearchIngredients(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, err
	}
	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, ingredient.ToResponse())
	}
	return res, nil
}

func (s *ingredientService) GetTag(ctx context.Context, id uuid.UUID) (domain.TagResponse, error) {
	tag, err := s.ingredientRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return tag.ToResponse(), nil
}

func (s *ingredientService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.ingredientRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		res = append(res, tag.ToResponse())
	}
	return res, nil
}

// ImportIngredients reads "name,measurement_unit" records. Rows that already
// exist are skipped, so an import can be repeated safely.
func (s *ingredientService) ImportIngredients(ctx context.Context, r io.Reader) (int64, error) {
	records, err := readRecords(r, 2)
	if err != nil {
		return 0, err
	}
	ingredients := make([]entities.Ingredient, 0, len(records))
	for i, rec := range records {
		name, unit := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if name == "" || unit == "" {
			return 0, fmt.Errorf("ingredient record %d: name and unit are required", i+1)
		}
		ingredients = append(ingredients, entities.Ingredient{Name: name, MeasurementUnit: unit})
	}

	created, err := s.ingredientRepository.UpsertIngredients(ctx, ingredients)
	if err != nil {
		return 0, err
	}
	s.logger.Infow("ingredients imported", "read", len(ingredients), "created", created)
	return created, nil
}

// ImportTags reads "name,color,slug" records.
func (s *ingredientService) ImportTags(ctx context.Context, r io.Reader) (int64, error) {
	records, err := readRecords(r, 3)
	if err != nil {
		return 0, err
	}
	tags := make([]entities.Tag, 0, len(records))
	for i, rec := range records {
		tag := entities.Tag{
			Name:  strings.TrimSpace(rec[0]),
			Color: strings.ToUpper(strings.TrimSpace(rec[1])),
			Slug:  strings.TrimSpace(rec[2]),
		}
		if tag.Name == "" || tag.Slug == "" || !colorPattern.MatchString(tag.Color) {
			return 0, fmt.Errorf("tag record %d: name, slug and a #RRGGBB color are required", i+1)
		}
		tags = append(tags, tag)
	}

	created, err := s.ingredientRepository.UpsertTags(ctx, tags)
	if err != nil {
		return 0, err
	}
	s.logger.Infow("tags imported", "read", len(tags), "created", created)
	return created, nil
}

func readRecords(r io.Reader, fields int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = fields
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return records, nil
}
