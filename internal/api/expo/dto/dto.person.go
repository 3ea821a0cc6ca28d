// Package expodto holds the request shapes of the lead, customer and exhibition routes
package expodto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/common"
	"expo_leads/internal/global"
	"expo_leads/internal/utility"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	MsgLeadFieldsMissing     = "Name, email, and mobile number are required."
	MsgCustomerFieldsMissing = "Required text fields are missing."
)

// PersonInput is the body of create and update for both leads and customers.
// A nil field was not sent; an empty string was sent empty.
type PersonInput struct {
	Name                   *string                  `json:"name" form:"name" validate:"omitempty,max=200,no_xss"`
	Email                  *string                  `json:"email" form:"email" validate:"omitempty,max=254,no_xss"`
	MobileNumber           *string                  `json:"mobileNumber" form:"mobileNumber" validate:"omitempty,max=32,no_xss"`
	CompanyName            *string                  `json:"companyName" form:"companyName" validate:"omitempty,max=200,no_xss"`
	WhatsappNumber         *string                  `json:"whatsappNumber" form:"whatsappNumber" validate:"omitempty,max=32,no_xss"`
	Priority               *string                  `json:"priority" form:"priority" validate:"omitempty,priority"`
	City                   *string                  `json:"city" form:"city" validate:"omitempty,max=100,no_xss"`
	ExhibitionName         *string                  `json:"exhibitionName" form:"exhibitionName" validate:"omitempty,max=200,no_xss"`
	Requirement            *expomodels.Requirements `json:"requirement" form:"requirement" validate:"omitempty,dive,requirement"`
	RequirementDescription *string                  `json:"requirementDescription" form:"requirementDescription" validate:"omitempty,max=2000,no_xss"`
	OtherRequirement       *string                  `json:"otherRequirement" form:"otherRequirement" validate:"omitempty,max=500,no_xss"`
	VisitDateText          *string                  `json:"visitDate" form:"visitDate"` // RFC3339, YYYY-MM-DD or D/M/YYYY
}

// PersonInputFromJSON decodes a JSON body. An empty body is an empty input.
func PersonInputFromJSON(body []byte) (*PersonInput, error) {
	in := &PersonInput{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(body, in); err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "Malformed JSON body", common.StatusBadRequest, err)
	}
	return in, nil
}

// PersonInputFromForm reads multipart or urlencoded values.
// requirement may be repeated, sent as requirement[] or comma separated.
func PersonInputFromForm(values map[string][]string) *PersonInput {
	str := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		s := v[0]
		return &s
	}

	in := &PersonInput{
		Name:                   str("name"),
		Email:                  str("email"),
		MobileNumber:           str("mobileNumber"),
		CompanyName:            str("companyName"),
		WhatsappNumber:         str("whatsappNumber"),
		Priority:               str("priority"),
		City:                   str("city"),
		ExhibitionName:         str("exhibitionName"),
		RequirementDescription: str("requirementDescription"),
		OtherRequirement:       str("otherRequirement"),
		VisitDateText:          str("visitDate"),
	}

	var reqs []string
	found := false
	for _, key := range []string{"requirement", "requirement[]"} {
		if v, ok := values[key]; ok {
			found = true
			reqs = append(reqs, v...)
		}
	}
	if found {
		r := expomodels.ParseRequirements(reqs...)
		in.Requirement = &r
	}
	return in
}

// Normalize trims text fields, lower-cases email and drops an empty priority
func (in *PersonInput) Normalize() {
	for _, f := range []*string{
		in.Name, in.MobileNumber, in.CompanyName, in.WhatsappNumber, in.City,
		in.ExhibitionName, in.RequirementDescription, in.OtherRequirement, in.VisitDateText,
	} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if in.Email != nil {
		*in.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Priority != nil {
		*in.Priority = strings.TrimSpace(*in.Priority)
		if *in.Priority == "" {
			in.Priority = nil
		}
	}
}

func blank(s *string) bool {
	return s == nil || *s == ""
}

// requiredFields lists the fields a variant cannot store empty
func (in *PersonInput) requiredFields(t expomodels.PersonType) map[string]*string {
	fields := map[string]*string{
		"name":         in.Name,
		"email":        in.Email,
		"mobileNumber": in.MobileNumber,
	}
	if t == expomodels.PersonTypeCustomer {
		fields["companyName"] = in.CompanyName
	}
	return fields
}

// MissingFieldsMessage is the create error for a variant with a required field missing
func MissingFieldsMessage(t expomodels.PersonType) string {
	if t == expomodels.PersonTypeCustomer {
		return MsgCustomerFieldsMissing
	}
	return MsgLeadFieldsMissing
}

// ValidateCreate checks the variant's required fields, then the field rules
func (in *PersonInput) ValidateCreate(t expomodels.PersonType) error {
	for _, v := range in.requiredFields(t) {
		if blank(v) {
			return common.ValidationError(MissingFieldsMessage(t))
		}
	}
	return in.validateFields()
}

// ValidateUpdate rejects required fields that are sent empty, then checks the field rules
func (in *PersonInput) ValidateUpdate(t expomodels.PersonType) error {
	for _, name := range []string{"name", "email", "mobileNumber", "companyName"} {
		v, ok := in.requiredFields(t)[name]
		if ok && v != nil && *v == "" {
			return common.ValidationError(fmt.Sprintf("%s cannot be empty", name))
		}
	}
	return in.validateFields()
}

func (in *PersonInput) validateFields() error {
	if err := global.ValidateStruct(in); err != nil {
		return err
	}
	if _, _, err := in.VisitDate(); err != nil {
		return err
	}
	return nil
}

// VisitDate parses visitDate; ok is false when it was not sent or sent empty
func (in *PersonInput) VisitDate() (t time.Time, ok bool, err error) {
	if blank(in.VisitDateText) {
		return time.Time{}, false, nil
	}
	t, err = utility.ParseVisitDate(*in.VisitDateText)
	if err != nil {
		return time.Time{}, false, common.ValidationError(fmt.Sprintf("Invalid visitDate: %s", *in.VisitDateText))
	}
	return t, true, nil
}

// CityProvided reports whether city names a real city rather than blank or All
func (in *PersonInput) CityProvided() bool {
	return !blank(in.City) && *in.City != expomodels.FilterAll
}

// ToRecord maps the provided fields onto a new record of type t
func (in *PersonInput) ToRecord(t expomodels.PersonType) (expomodels.PersonRecord, error) {
	var rec expomodels.PersonRecord
	if err := copier.CopyWithOption(&rec, in, copier.Option{IgnoreEmpty: true}); err != nil {
		return rec, common.NewError(common.ErrCodeValidationFormat, "Malformed payload", common.StatusBadRequest, err)
	}
	rec.Type = t
	if !in.CityProvided() {
		rec.City = ""
	}
	if rec.Requirement != nil && len(rec.Requirement) == 0 {
		rec.Requirement = nil
	}
	if visit, ok, err := in.VisitDate(); err != nil {
		return rec, err
	} else if ok {
		rec.VisitDate = visit
	}
	return rec, nil
}

// UpdateFields is the $set document for the provided fields. Nothing is derived.
func (in *PersonInput) UpdateFields() (bson.M, error) {
	set := bson.M{}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("name", in.Name)
	put("email", in.Email)
	put("mobileNumber", in.MobileNumber)
	put("companyName", in.CompanyName)
	put("whatsappNumber", in.WhatsappNumber)
	put("requirementDescription", in.RequirementDescription)
	put("otherRequirement", in.OtherRequirement)

	if in.Priority != nil {
		set["priority"] = expomodels.Priority(*in.Priority)
	}
	if in.CityProvided() {
		set["city"] = *in.City
	}
	if !blank(in.ExhibitionName) {
		set["exhibitionName"] = *in.ExhibitionName
	}
	if in.Requirement != nil {
		reqs := *in.Requirement
		if reqs == nil {
			reqs = expomodels.Requirements{}
		}
		set["requirement"] = reqs
	}

	visit, ok, err := in.VisitDate()
	if err != nil {
		return nil, err
	}
	if ok {
		set["visitDate"] = visit
	}
	return set, nil
}
