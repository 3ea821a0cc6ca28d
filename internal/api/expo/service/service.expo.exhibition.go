package exposvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	basesvc "expo_leads/internal/api/base/service"
	expodto "expo_leads/internal/api/expo/dto"
	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/common"
	"expo_leads/internal/global"
	"expo_leads/internal/logger"
	"expo_leads/internal/utility"

	"github.com/facette/natsort"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MsgExhibitionNameRequired = "Exhibition name is required"
	MsgExhibitionExists       = "Exhibition with this name already exists"
)

// ExhibitionService handles exhibitions and the per-exhibition counts of person records
type ExhibitionService struct {
	repo    basesvc.BaseServiceMongo[expomodels.Exhibition]
	persons basesvc.BaseServiceMongo[expomodels.PersonRecord]
}

// NewExhibitionService builds the service from the registered collections
func NewExhibitionService() (*ExhibitionService, error) {
	exhColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Exhibitions)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoDB_ColNames.Exhibitions, common.ErrNotFound)
	}
	personColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Persons)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoDB_ColNames.Persons, common.ErrNotFound)
	}
	return NewExhibitionServiceWith(
		basesvc.NewBaseServiceMongo[expomodels.Exhibition](exhColl),
		basesvc.NewBaseServiceMongo[expomodels.PersonRecord](personColl),
	), nil
}

// NewExhibitionServiceWith builds the service over explicit repositories
func NewExhibitionServiceWith(repo basesvc.BaseServiceMongo[expomodels.Exhibition], persons basesvc.BaseServiceMongo[expomodels.PersonRecord]) *ExhibitionService {
	return &ExhibitionService{repo: repo, persons: persons}
}

// Create stores a new exhibition. Names are unique.
func (s *ExhibitionService) Create(ctx context.Context, in *expodto.ExhibitionCreateInput) (*expomodels.Exhibition, error) {
	in.Normalize()
	if in.Name == "" {
		return nil, common.ValidationError(MsgExhibitionNameRequired)
	}
	if err := global.ValidateStruct(in); err != nil {
		return nil, err
	}

	exists, err := s.repo.DocumentExists(ctx, bson.M{"name": in.Name})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ConflictError(MsgExhibitionExists)
	}

	exh := expomodels.Exhibition{
		Name:        in.Name,
		Location:    in.Location,
		City:        in.City,
		Date:        in.Date,
		Description: in.Description,
	}
	if exh.Date == "" {
		exh.Date = utility.FormatDayMonthYear(time.Now())
	}

	created, err := s.repo.InsertOne(ctx, exh)
	if err != nil {
		// the unique index catches a concurrent insert of the same name
		if errors.Is(err, common.ErrDuplicate) {
			return nil, common.ConflictError(MsgExhibitionExists)
		}
		return nil, err
	}

	logger.WithModule("expo").WithFields(map[string]interface{}{
		"name": created.Name,
		"city": created.City,
	}).Info("Exhibition created")
	return &created, nil
}

// GetByName returns the exhibition with exactly this name
func (s *ExhibitionService) GetByName(ctx context.Context, name string) (*expomodels.Exhibition, error) {
	exh, err := s.repo.FindOne(ctx, bson.M{"name": name}, nil)
	if err != nil {
		return nil, err
	}
	return &exh, nil
}

// FindCity returns the city of the named exhibition, "" when there is no such exhibition
func (s *ExhibitionService) FindCity(ctx context.Context, name string) (string, error) {
	exh, err := s.GetByName(ctx, name)
	if errors.Is(err, common.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return exh.City, nil
}

type exhibitionCount struct {
	Name  string `bson:"_id"`
	Count int64  `bson:"count"`
}

// List returns the exhibitions of city (all when empty or "All") with their person record counts,
// in natural name order
func (s *ExhibitionService) List(ctx context.Context, city string) ([]expomodels.ExhibitionWithCount, error) {
	filter := bson.M{}
	if city = strings.TrimSpace(city); isFilterValue(city) {
		filter["city"] = exactFold(city)
	}

	exhibitions, err := s.repo.Find(ctx, filter, options.Find())
	if err != nil {
		return nil, err
	}
	if len(exhibitions) == 0 {
		return []expomodels.ExhibitionWithCount{}, nil
	}

	names := make([]string, 0, len(exhibitions))
	for _, e := range exhibitions {
		names = append(names, e.Name)
	}

	var counts []exhibitionCount
	pipeline := bson.A{
		bson.M{"$match": bson.M{"exhibitionName": bson.M{"$in": names}}},
		bson.M{"$group": bson.M{"_id": "$exhibitionName", "count": bson.M{"$sum": 1}}},
	}
	if err := s.persons.Aggregate(ctx, pipeline, &counts); err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(counts))
	for _, c := range counts {
		byName[c.Name] = c.Count
	}

	byExhibition := make(map[string]expomodels.Exhibition, len(exhibitions))
	for _, e := range exhibitions {
		byExhibition[e.Name] = e
	}
	natsort.Sort(names)

	result := make([]expomodels.ExhibitionWithCount, 0, len(names))
	for _, name := range names {
		result = append(result, expomodels.ExhibitionWithCount{
			Exhibition:    byExhibition[name],
			CustomerCount: byName[name],
		})
	}
	return result, nil
}

// Cities returns the distinct non-empty cities of the exhibitions
func (s *ExhibitionService) Cities(ctx context.Context) ([]string, error) {
	values, err := s.repo.Distinct(ctx, "city", nil)
	if err != nil {
		return nil, err
	}
	return distinctStrings(values), nil
}

// Seed inserts the built-in exhibitions that are missing and returns how many were added
func (s *ExhibitionService) Seed(ctx context.Context, exhibitions []expomodels.Exhibition) (int, error) {
	inserted := 0
	for _, e := range exhibitions {
		if e.Date == "" {
			e.Date = utility.FormatDayMonthYear(time.Now())
		}
		ok, err := s.repo.UpsertOnInsert(ctx, bson.M{"name": e.Name}, e)
		if err != nil {
			return inserted, fmt.Errorf("seed exhibition %q: %w", e.Name, err)
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
