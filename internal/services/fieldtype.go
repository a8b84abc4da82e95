package services

import (
	"regexp"
	"strings"
)

// Field type tags produced by DetectFieldType. The date tags gate memory
// cache validity and select date sub-attributes during group resolution.
const (
	FieldTypeDateMonth   = "date_month"
	FieldTypeDateYear    = "date_year"
	FieldTypeCompany     = "company"
	FieldTypeTitle       = "title"
	FieldTypeLocation    = "location"
	FieldTypeDescription = "description"
	FieldTypeEmail       = "email"
	FieldTypePhone       = "phone"
	FieldTypeName        = "name"
	FieldTypeUnknown     = "unknown"
)

type datePattern struct {
	re        *regexp.Regexp
	fieldType string
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`date.*month|month.*date`), FieldTypeDateMonth},
	{regexp.MustCompile(`startdate.*month|start.*month`), FieldTypeDateMonth},
	{regexp.MustCompile(`enddate.*month|end.*month`), FieldTypeDateMonth},
	{regexp.MustCompile(`month.*input`), FieldTypeDateMonth},
	{regexp.MustCompile(`date.*year|year.*date`), FieldTypeDateYear},
	{regexp.MustCompile(`startdate.*year|start.*year`), FieldTypeDateYear},
	{regexp.MustCompile(`enddate.*year|end.*year`), FieldTypeDateYear},
	{regexp.MustCompile(`year.*input`), FieldTypeDateYear},
}

// Ordered: email and phone come before location so that "Email Address"
// resolves as email rather than tripping the location bucket's "address".
var keywordBuckets = []struct {
	fieldType string
	keywords  []string
}{
	{FieldTypeCompany, []string{"company", "employer", "organization"}},
	{FieldTypeTitle, []string{"title", "position", "role", "job"}},
	{FieldTypeEmail, []string{"email", "mail"}},
	{FieldTypePhone, []string{"phone", "telephone", "mobile"}},
	{FieldTypeLocation, []string{"location", "city", "address"}},
	{FieldTypeDescription, []string{"description", "responsibilities", "duties"}},
	{FieldTypeName, []string{"name"}},
}

// DetectFieldType classifies a field into a semantic type from its label and
// structural field id. Date month/year detection runs first since those ids
// often also contain bucket keywords ("startDate-month" contains "date").
func DetectFieldType(label, fieldID string) string {
	labelLower := strings.ToLower(label)
	fieldIDLower := strings.ToLower(fieldID)

	for _, p := range datePatterns {
		if p.re.MatchString(fieldIDLower) || p.re.MatchString(labelLower) {
			return p.fieldType
		}
	}

	for _, bucket := range keywordBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(labelLower, kw) {
				return bucket.fieldType
			}
		}
	}

	return FieldTypeUnknown
}
