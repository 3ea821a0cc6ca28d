// Package exposvc implements lead, customer and exhibition operations over MongoDB
package exposvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	basemodels "expo_leads/internal/api/base/models"
	basesvc "expo_leads/internal/api/base/service"
	expodto "expo_leads/internal/api/expo/dto"
	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/common"
	"expo_leads/internal/global"
	"expo_leads/internal/logger"
	"expo_leads/internal/media"
	"expo_leads/internal/metrics"
	"expo_leads/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// CardUploader stores the card images of a request and returns their URLs
type CardUploader interface {
	UploadCards(ctx context.Context, atts media.Attachments) (media.CardURLs, error)
}

// CityResolver looks up the city of an exhibition; "" when unknown
type CityResolver interface {
	FindCity(ctx context.Context, exhibitionName string) (string, error)
}

// PersonService handles leads and customers, both stored in the persons collection
type PersonService struct {
	repo        basesvc.BaseServiceMongo[expomodels.PersonRecord]
	exhibitions CityResolver
	uploader    CardUploader
}

// NewPersonService builds the service from the registered collections
func NewPersonService(uploader CardUploader) (*PersonService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Persons)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoDB_ColNames.Persons, common.ErrNotFound)
	}
	exhibitions, err := NewExhibitionService()
	if err != nil {
		return nil, err
	}
	return NewPersonServiceWith(basesvc.NewBaseServiceMongo[expomodels.PersonRecord](coll), exhibitions, uploader), nil
}

// NewPersonServiceWith builds the service over explicit dependencies
func NewPersonServiceWith(repo basesvc.BaseServiceMongo[expomodels.PersonRecord], exhibitions CityResolver, uploader CardUploader) *PersonService {
	return &PersonService{repo: repo, exhibitions: exhibitions, uploader: uploader}
}

// Create validates the input for its variant, uploads the card images and stores the record.
// Nothing is stored when an upload fails.
func (s *PersonService) Create(ctx context.Context, t expomodels.PersonType, in *expodto.PersonInput, atts media.Attachments) (*expomodels.PersonRecord, error) {
	in.Normalize()
	if err := in.ValidateCreate(t); err != nil {
		return nil, err
	}

	rec, err := in.ToRecord(t)
	if err != nil {
		return nil, err
	}
	if rec.ExhibitionName == "" {
		rec.ExhibitionName = expomodels.DefaultExhibitionName
	}
	if rec.City == "" {
		if rec.City, err = s.resolveCity(ctx, rec.ExhibitionName); err != nil {
			return nil, err
		}
	}
	if rec.WhatsappNumber == "" {
		rec.WhatsappNumber = rec.MobileNumber
	}
	if rec.VisitDate.IsZero() {
		rec.VisitDate = time.Now()
	}

	urls, err := s.uploader.UploadCards(ctx, atts)
	if err != nil {
		return nil, err
	}
	rec.CardFront = urls.Front
	rec.PhotoURL = urls.Front
	rec.CardBack = urls.Back

	created, err := s.repo.InsertOne(ctx, rec)
	if err != nil {
		return nil, err
	}

	metrics.RecordCreated(string(t))
	logger.WithModule("expo").WithFields(map[string]interface{}{
		"id":         created.ID.Hex(),
		"type":       t,
		"exhibition": created.ExhibitionName,
		"city":       created.City,
	}).Info("Person record created")
	return &created, nil
}

// resolveCity returns the exhibition's city, or the default city when it has none
func (s *PersonService) resolveCity(ctx context.Context, exhibitionName string) (string, error) {
	city, err := s.exhibitions.FindCity(ctx, exhibitionName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(city) == "" {
		return expomodels.DefaultCity, nil
	}
	return city, nil
}

// Update replaces the provided fields and images of the record with id
func (s *PersonService) Update(ctx context.Context, id string, t expomodels.PersonType, in *expodto.PersonInput, atts media.Attachments) (*expomodels.PersonRecord, error) {
	oid, ok := utility.ParseObjectID(id)
	if !ok {
		return nil, common.ErrNotFound
	}

	in.Normalize()
	if err := in.ValidateUpdate(t); err != nil {
		return nil, err
	}
	set, err := in.UpdateFields()
	if err != nil {
		return nil, err
	}

	if !atts.Empty() {
		// avoid orphan uploads for an unknown id
		exists, err := s.repo.DocumentExists(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, common.ErrNotFound
		}

		urls, err := s.uploader.UploadCards(ctx, atts)
		if err != nil {
			return nil, err
		}
		if urls.Front != "" {
			set["cardFront"] = urls.Front
			set["photoUrl"] = urls.Front
		}
		if urls.Back != "" {
			set["cardBack"] = urls.Back
		}
	}

	updated, err := s.repo.UpdateById(ctx, oid, set)
	if err != nil {
		return nil, err
	}

	logger.WithModule("expo").WithFields(map[string]interface{}{
		"id":     id,
		"fields": len(set),
	}).Info("Person record updated")
	return &updated, nil
}

// Get returns the record with id whatever its type
func (s *PersonService) Get(ctx context.Context, id string) (*expomodels.PersonRecord, error) {
	oid, ok := utility.ParseObjectID(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	rec, err := s.repo.FindOneById(ctx, oid)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns one page of records, newest first, without card images
func (s *PersonService) List(ctx context.Context, q expodto.PersonQuery) (*basemodels.PaginateResult[expomodels.PersonRecord], error) {
	return s.repo.FindWithPagination(ctx, BuildListFilter(q, true), q.Page, q.Limit, listOptions(true))
}

// ListLeads returns every matching record, newest first. Search is ignored.
func (s *PersonService) ListLeads(ctx context.Context, q expodto.PersonQuery) ([]expomodels.PersonRecord, error) {
	return s.repo.Find(ctx, BuildListFilter(q, false), listOptions(false))
}

// Search matches query inside email, mobileNumber and whatsappNumber
func (s *PersonService) Search(ctx context.Context, query string) ([]expomodels.PersonRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.ValidationError("Search query is required")
	}
	return s.repo.Find(ctx, searchFilter(query), listOptions(true))
}

// Delete removes the record with id
func (s *PersonService) Delete(ctx context.Context, id string) error {
	oid, ok := utility.ParseObjectID(id)
	if !ok {
		return common.ErrNotFound
	}
	if err := s.repo.DeleteById(ctx, oid); err != nil {
		return err
	}
	logger.WithModule("expo").WithField("id", id).Info("Person record deleted")
	return nil
}

// Cities returns the distinct non-empty cities of the person records
func (s *PersonService) Cities(ctx context.Context) ([]string, error) {
	values, err := s.repo.Distinct(ctx, "city", nil)
	if err != nil {
		return nil, err
	}
	return distinctStrings(values), nil
}
