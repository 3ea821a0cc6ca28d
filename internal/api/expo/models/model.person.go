package expomodels

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultCity           = "Mumbai"           // City used when neither the request nor the exhibition has one
	DefaultExhibitionName = "Tech Expo Mumbai" // Exhibition assumed when the form leaves it blank
	FilterAll             = "All"              // Client value meaning "no filter"
)

// PersonType discriminates the two variants stored in the person collection
type PersonType string

const (
	PersonTypeCustomer PersonType = "Customer"
	PersonTypeLead     PersonType = "Lead"
)

// Valid reports whether t is a known variant
func (t PersonType) Valid() bool {
	return t == PersonTypeCustomer || t == PersonTypeLead
}

// Priority of a visitor as judged at the stand
type Priority string

const (
	PriorityNormal  Priority = "Normal"
	PriorityImp     Priority = "Imp"
	PriorityMostImp Priority = "Most Imp"
	PriorityUrgent  Priority = "Urgent"
)

// Priorities lists the accepted priority values
var Priorities = []Priority{PriorityNormal, PriorityImp, PriorityMostImp, PriorityUrgent}

// Valid reports whether p is one of Priorities
func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Requirement values a visitor can tick
const (
	RequirementEMS   = "EMS"
	RequirementBMS   = "BMS"
	RequirementOther = "Other"
)

// RequirementValues lists the accepted requirement members
var RequirementValues = []string{RequirementEMS, RequirementBMS, RequirementOther}

// ValidRequirement reports whether v is an accepted requirement member
func ValidRequirement(v string) bool {
	for _, r := range RequirementValues {
		if v == r {
			return true
		}
	}
	return false
}

// Requirements is the requirement set of a person record.
// Older documents stored a single string; both shapes decode.
type Requirements []string

// ParseRequirements splits a comma separated form value, dropping blanks and duplicates
func ParseRequirements(values ...string) Requirements {
	out := Requirements{}
	seen := map[string]bool{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// UnmarshalBSONValue accepts a string, an array of strings or null
func (r *Requirements) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*r = nil
	case bsontype.String:
		s, _ := raw.StringValueOK()
		parsed := ParseRequirements(s)
		if len(parsed) == 0 {
			*r = nil
			return nil
		}
		*r = parsed
	case bsontype.Array:
		var items []string
		if err := raw.Unmarshal(&items); err != nil {
			return fmt.Errorf("decode requirement array: %w", err)
		}
		*r = items
	default:
		return fmt.Errorf("cannot decode %s into requirement", t)
	}
	return nil
}

// UnmarshalJSON accepts "EMS,BMS", ["EMS","BMS"] or null
func (r *Requirements) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ParseRequirements(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("requirement must be a string or a list of strings")
	}
	*r = ParseRequirements(items...)
	return nil
}

// PersonRecord is the unified document behind both Customer and Lead
type PersonRecord struct {
	ID                     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Type                   PersonType         `json:"type" bson:"type" index:"single:1"`
	Name                   string             `json:"name" bson:"name"`
	CompanyName            string             `json:"companyName,omitempty" bson:"companyName,omitempty"`
	Email                  string             `json:"email" bson:"email" index:"single:1"`
	MobileNumber           string             `json:"mobileNumber" bson:"mobileNumber" index:"single:1"`
	WhatsappNumber         string             `json:"whatsappNumber,omitempty" bson:"whatsappNumber,omitempty"`
	CardFront              string             `json:"cardFront,omitempty" bson:"cardFront,omitempty"` // Media host URL
	CardBack               string             `json:"cardBack,omitempty" bson:"cardBack,omitempty"`   // Media host URL
	PhotoURL               string             `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`   // Legacy mirror of cardFront
	Requirement            Requirements       `json:"requirement,omitempty" bson:"requirement,omitempty"`
	RequirementDescription string             `json:"requirementDescription,omitempty" bson:"requirementDescription,omitempty"`
	OtherRequirement       string             `json:"otherRequirement,omitempty" bson:"otherRequirement,omitempty"`
	Priority               Priority           `json:"priority" bson:"priority" default:"Normal"`
	VisitDate              time.Time          `json:"visitDate" bson:"visitDate,omitempty"`
	ExhibitionName         string             `json:"exhibitionName" bson:"exhibitionName" default:"Tech Expo Mumbai" index:"single:1"` // References Exhibition.Name
	City                   string             `json:"city" bson:"city" default:"Mumbai" index:"single:1"`
	CreatedAt              time.Time          `json:"createdAt" bson:"createdAt,omitempty" index:"single,order:-1"`
	UpdatedAt              time.Time          `json:"updatedAt" bson:"updatedAt,omitempty"`
}
