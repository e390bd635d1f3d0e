package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Income ranges offered by the recommendation form.
const (
	IncomeBelow27000   = "below-27000"
	Income27000To1Lakh = "27000-1lakh"
	IncomeAbove1Lakh   = "above-1lakh"
	unspecifiedIncome  = 99999999
)

// IncomeRanges lists the selectable income ranges in display order.
func IncomeRanges() []string {
	return []string{IncomeBelow27000, Income27000To1Lakh, IncomeAbove1Lakh}
}

// SchemeProfile is the government-scheme recommendation form as entered.
type SchemeProfile struct {
	Age            string
	Gender         string
	Caste          string
	Income         string
	Occupation     string
	Disability     string
	MaritalStatus  string
	Religion       string
	State          string
	Education      string
	MinorityStatus string
	ForOrphans     string
}

// SchemeRequest is the payload sent to the recommendation endpoint.
type SchemeRequest struct {
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	Caste              []string `json:"caste"`
	Income             int      `json:"income"`
	Occupation         []string `json:"occupation"`
	DisabilityRequired string   `json:"disability_required"`
	MaritalStatus      string   `json:"marital_status"`
	Religion           string   `json:"religion"`
	State              string   `json:"state"`
	EducationRequired  string   `json:"education_required"`
	MinorityStatus     string   `json:"minority_status"`
	ForOrphans         string   `json:"for_orphans"`
}

// SchemeRecommendation is one recommended scheme as returned by the backend.
type SchemeRecommendation map[string]any

// Name returns the scheme name if the backend provided one.
func (r SchemeRecommendation) Name() string {
	for _, key := range []string{"scheme_name", "name", "title"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
	}
	return "Unnamed scheme"
}

// MapIncomeRange converts a form income range into the amount sent to the
// backend. Blank or unknown ranges map to a sentinel that matches any scheme.
func MapIncomeRange(r string) int {
	switch r {
	case IncomeBelow27000:
		return 25000
	case Income27000To1Lakh:
		return 80000
	case IncomeAbove1Lakh:
		return 200000
	default:
		return unspecifiedIncome
	}
}

// NormaliseOccupations splits a comma separated list, trimming and
// lower-casing entries and dropping blanks.
func NormaliseOccupations(s string) []string {
	out := make([]string, 0)
	for _, word := range strings.Split(s, ",") {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			out = append(out, word)
		}
	}
	return out
}

// ToRequest maps the form into the backend payload.
func (p SchemeProfile) ToRequest() (SchemeRequest, error) {
	age, err := strconv.Atoi(strings.TrimSpace(p.Age))
	if err != nil || age < 0 {
		return SchemeRequest{}, fmt.Errorf("%w: age must be a whole number", ErrInvalidInput)
	}
	return SchemeRequest{
		Age:                age,
		Gender:             p.Gender,
		Caste:              []string{p.Caste},
		Income:             MapIncomeRange(p.Income),
		Occupation:         NormaliseOccupations(p.Occupation),
		DisabilityRequired: p.Disability,
		MaritalStatus:      p.MaritalStatus,
		Religion:           p.Religion,
		State:              p.State,
		EducationRequired:  p.Education,
		MinorityStatus:     p.MinorityStatus,
		ForOrphans:         p.ForOrphans,
	}, nil
}
