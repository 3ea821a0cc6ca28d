package exposvc

import (
	"context"
	"errors"
	"testing"

	expodto "expo_leads/internal/api/expo/dto"
	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/common"
	"expo_leads/internal/media"
	"expo_leads/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func leadInput() *expodto.PersonInput {
	return &expodto.PersonInput{
		Name:           strPtr(" Asha "),
		Email:          strPtr(" ASHA@Example.com"),
		MobileNumber:   strPtr("9876543210"),
		ExhibitionName: strPtr("Protech Ahmedabad"),
	}
}

func newPersonService() (*PersonService, *fakeRepo[expomodels.PersonRecord], *fakeCities, *fakeUploader) {
	repo := &fakeRepo[expomodels.PersonRecord]{}
	cities := &fakeCities{byName: map[string]string{"Protech Ahmedabad": "Ahmedabad"}}
	up := &fakeUploader{urls: media.CardURLs{Front: "https://img/front.jpg", Back: "https://img/back.jpg"}}
	return NewPersonServiceWith(repo, cities, up), repo, cities, up
}

func TestCreate_LeadResolvesCityAndDefaults(t *testing.T) {
	svc, repo, _, _ := newPersonService()
	before := testutil.ToFloat64(metrics.RecordsCreated.WithLabelValues("Lead"))

	rec, err := svc.Create(context.Background(), expomodels.PersonTypeLead, leadInput(), media.Attachments{
		Front: &media.Attachment{Field: media.FieldCardFront, ContentType: "image/png", Data: []byte{1}},
	})
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)

	assert.Equal(t, expomodels.PersonTypeLead, rec.Type)
	assert.Equal(t, "Asha", rec.Name)
	assert.Equal(t, "asha@example.com", rec.Email)
	assert.Equal(t, "Ahmedabad", rec.City)
	assert.Equal(t, "9876543210", rec.WhatsappNumber)
	assert.Equal(t, "https://img/front.jpg", rec.CardFront)
	assert.Equal(t, rec.CardFront, rec.PhotoURL)
	assert.Empty(t, rec.CardBack)
	assert.False(t, rec.VisitDate.IsZero())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RecordsCreated.WithLabelValues("Lead")))
}

func TestCreate_CityResolution(t *testing.T) {
	tests := []struct {
		name       string
		city       *string
		exhibition *string
		want       string
	}{
		{"explicit city kept", strPtr("Pune"), strPtr("Protech Ahmedabad"), "Pune"},
		{"All resolves from exhibition", strPtr("All"), strPtr("Protech Ahmedabad"), "Ahmedabad"},
		{"unknown exhibition gets default", nil, strPtr("Nowhere Expo"), expomodels.DefaultCity},
		{"default exhibition without city", nil, nil, expomodels.DefaultCity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newPersonService()
			in := leadInput()
			in.City = tt.city
			in.ExhibitionName = tt.exhibition

			rec, err := svc.Create(context.Background(), expomodels.PersonTypeLead, in, media.Attachments{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.City)
		})
	}
}

func TestCreate_DefaultExhibitionName(t *testing.T) {
	svc, _, cities, _ := newPersonService()
	in := leadInput()
	in.ExhibitionName = nil

	rec, err := svc.Create(context.Background(), expomodels.PersonTypeLead, in, media.Attachments{})
	require.NoError(t, err)
	assert.Equal(t, expomodels.DefaultExhibitionName, rec.ExhibitionName)
	assert.Equal(t, []string{expomodels.DefaultExhibitionName}, cities.asked)
}

func TestCreate_CustomerMissingFieldsStoresNothing(t *testing.T) {
	svc, repo, _, up := newPersonService()

	_, err := svc.Create(context.Background(), expomodels.PersonTypeCustomer, leadInput(), media.Attachments{})
	require.Error(t, err)
	assert.Equal(t, expodto.MsgCustomerFieldsMissing, err.Error())
	assert.Empty(t, repo.inserted)
	assert.Zero(t, up.calls)
}

func TestCreate_UploadFailureStoresNothing(t *testing.T) {
	svc, repo, _, up := newPersonService()
	up.err = common.UpstreamError(errors.New("cloud down"))

	_, err := svc.Create(context.Background(), expomodels.PersonTypeLead, leadInput(), media.Attachments{
		Back: &media.Attachment{Field: media.FieldCardBack, ContentType: "image/jpeg", Data: []byte{1}},
	})
	require.Error(t, err)

	var cerr *common.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, common.StatusInternalServerError, cerr.StatusCode)
	assert.Empty(t, repo.inserted)
}

func TestCreate_CustomerKeepsWhatsapp(t *testing.T) {
	svc, _, _, _ := newPersonService()
	in := leadInput()
	in.CompanyName = strPtr("Acme")
	in.WhatsappNumber = strPtr("111")

	rec, err := svc.Create(context.Background(), expomodels.PersonTypeCustomer, in, media.Attachments{})
	require.NoError(t, err)
	assert.Equal(t, expomodels.PersonTypeCustomer, rec.Type)
	assert.Equal(t, "111", rec.WhatsappNumber)
}

func TestUpdate(t *testing.T) {
	svc, repo, cities, _ := newPersonService()
	id := primitive.NewObjectID()
	repo.exists = true
	repo.updated = expomodels.PersonRecord{ID: id, Name: "Asha"}

	in := &expodto.PersonInput{Email: strPtr(" NEW@Mail.com "), City: strPtr("")}
	rec, err := svc.Update(context.Background(), id.Hex(), expomodels.PersonTypeLead, in, media.Attachments{
		Front: &media.Attachment{Field: media.FieldCardFront, ContentType: "image/png", Data: []byte{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, id, repo.lastID)
	assert.Empty(t, cities.asked)

	set, ok := repo.lastUpdate.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "new@mail.com", set["email"])
	assert.Equal(t, "https://img/front.jpg", set["cardFront"])
	assert.Equal(t, "https://img/front.jpg", set["photoUrl"])
	assert.NotContains(t, set, "city")
	assert.NotContains(t, set, "cardBack")
	assert.NotContains(t, set, "whatsappNumber")
}

func TestUpdate_NotFound(t *testing.T) {
	svc, repo, _, up := newPersonService()

	_, err := svc.Update(context.Background(), "not-an-id", expomodels.PersonTypeLead, &expodto.PersonInput{}, media.Attachments{})
	assert.ErrorIs(t, err, common.ErrNotFound)

	repo.exists = false
	_, err = svc.Update(context.Background(), primitive.NewObjectID().Hex(), expomodels.PersonTypeLead, &expodto.PersonInput{}, media.Attachments{
		Front: &media.Attachment{Field: media.FieldCardFront, ContentType: "image/png", Data: []byte{1}},
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Zero(t, up.calls)
	assert.Zero(t, repo.updates)
}

func TestUpdate_EmptyRequiredField(t *testing.T) {
	svc, repo, _, _ := newPersonService()

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), expomodels.PersonTypeCustomer,
		&expodto.PersonInput{Name: strPtr("  ")}, media.Attachments{})
	require.Error(t, err)
	assert.Equal(t, "name cannot be empty", err.Error())
	assert.Zero(t, repo.updates)
}

func TestGetAndDelete_MalformedID(t *testing.T) {
	svc, _, _, _ := newPersonService()

	_, err := svc.Get(context.Background(), "123")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "zzz"), common.ErrNotFound)
}

func TestList_HidesCardsAndSortsNewestFirst(t *testing.T) {
	svc, repo, _, _ := newPersonService()
	repo.found = []expomodels.PersonRecord{{Name: "A"}, {Name: "B"}}

	page, err := svc.List(context.Background(), expodto.PersonQuery{Search: "asha", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(1), page.Pagination().Pages)

	require.NotNil(t, repo.lastOpts)
	assert.Equal(t, listProjection, repo.lastOpts.Projection)
	assert.Equal(t, newestFirst, repo.lastOpts.Sort)
	assert.Contains(t, repo.lastFilter.(bson.M), "$or")
}

func TestListLeads_IgnoresSearch(t *testing.T) {
	svc, repo, _, _ := newPersonService()

	_, err := svc.ListLeads(context.Background(), expodto.PersonQuery{Search: "x", Priority: "Urgent"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"priority": "Urgent"}, repo.lastFilter)
	assert.Nil(t, repo.lastOpts.Projection)
}

func TestSearch(t *testing.T) {
	svc, repo, _, _ := newPersonService()

	_, err := svc.Search(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, "Search query is required", err.Error())

	_, err = svc.Search(context.Background(), "98+")
	require.NoError(t, err)
	filter := repo.lastFilter.(bson.M)
	or := filter["$or"].(bson.A)
	require.Len(t, or, 3)
	assert.Equal(t, bson.M{"whatsappNumber": primitive.Regex{Pattern: `98\+`, Options: "i"}}, or[2])
}

func TestBuildListFilter(t *testing.T) {
	tests := []struct {
		name  string
		query expodto.PersonQuery
		want  bson.M
	}{
		{"empty", expodto.PersonQuery{}, bson.M{}},
		{"All ignored", expodto.PersonQuery{Priority: "All", City: "All", ExhibitionName: "All", Type: "All"}, bson.M{}},
		{"city case-insensitive exact", expodto.PersonQuery{City: "new delhi"},
			bson.M{"city": primitive.Regex{Pattern: `^new delhi$`, Options: "i"}}},
		{"type and exhibition", expodto.PersonQuery{Type: "Lead", ExhibitionName: "Build Expo Delhi"},
			bson.M{"type": expomodels.PersonTypeLead, "exhibitionName": "Build Expo Delhi"}},
		{"unknown type ignored", expodto.PersonQuery{Type: "Visitor"}, bson.M{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildListFilter(tt.query, true))
		})
	}

	withSearch := BuildListFilter(expodto.PersonQuery{Search: "a.b"}, true)
	or := withSearch["$or"].(bson.A)
	assert.Len(t, or, 4)
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: `a\.b`, Options: "i"}}, or[0])
	assert.NotContains(t, BuildListFilter(expodto.PersonQuery{Search: "a"}, false), "$or")
}
