package exposvc

import (
	"regexp"
	"strings"

	expodto "expo_leads/internal/api/expo/dto"
	expomodels "expo_leads/internal/api/expo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listProjection hides the card images from list results
var listProjection = bson.M{"cardFront": 0, "cardBack": 0}

// newestFirst sorts by createdAt descending
var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func isFilterValue(v string) bool {
	return v != "" && v != expomodels.FilterAll
}

// exactFold matches v case-insensitively as a whole value
func exactFold(v string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"}
}

// containsFold matches v case-insensitively anywhere in the value
func containsFold(v string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
}

// BuildListFilter turns the list query into a Mongo filter.
// search is only honoured when withSearch is set.
func BuildListFilter(q expodto.PersonQuery, withSearch bool) bson.M {
	filter := bson.M{}

	if p := strings.TrimSpace(q.Priority); isFilterValue(p) {
		filter["priority"] = p
	}
	if city := strings.TrimSpace(q.City); isFilterValue(city) {
		filter["city"] = exactFold(city)
	}
	if name := strings.TrimSpace(q.ExhibitionName); isFilterValue(name) {
		filter["exhibitionName"] = name
	}
	if t := expomodels.PersonType(strings.TrimSpace(q.Type)); t.Valid() {
		filter["type"] = t
	}
	if s := strings.TrimSpace(q.Search); withSearch && s != "" {
		rx := containsFold(s)
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"companyName": rx},
			bson.M{"mobileNumber": rx},
			bson.M{"email": rx},
		}
	}
	return filter
}

// searchFilter matches query inside the contact fields
func searchFilter(query string) bson.M {
	rx := containsFold(query)
	return bson.M{"$or": bson.A{
		bson.M{"email": rx},
		bson.M{"mobileNumber": rx},
		bson.M{"whatsappNumber": rx},
	}}
}

func listOptions(hideCards bool) *options.FindOptions {
	opts := options.Find().SetSort(newestFirst)
	if hideCards {
		opts.SetProjection(listProjection)
	}
	return opts
}
