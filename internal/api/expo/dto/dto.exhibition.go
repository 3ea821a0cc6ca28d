package expodto

import "strings"

// ExhibitionCreateInput is the body of POST /exhibitions
type ExhibitionCreateInput struct {
	Name        string `json:"name" form:"name" validate:"max=200,no_xss"`
	Location    string `json:"location" form:"location" validate:"max=200,no_xss"`
	City        string `json:"city" form:"city" validate:"max=100,no_xss"`
	Date        string `json:"date" form:"date" validate:"max=50,no_xss"`
	Description string `json:"description" form:"description" validate:"max=2000,no_xss"`
}

// Normalize trims every field
func (in *ExhibitionCreateInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.City = strings.TrimSpace(in.City)
	in.Date = strings.TrimSpace(in.Date)
	in.Description = strings.TrimSpace(in.Description)
}

// PersonQuery carries the list filters. Empty or "All" means no filter.
type PersonQuery struct {
	Priority       string
	City           string
	ExhibitionName string
	Type           string
	Search         string
	Page           int64
	Limit          int64
}
