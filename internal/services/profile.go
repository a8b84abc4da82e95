package services

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"applyflow/autofill-engine/internal/models"
)

// MaxExperienceSlots is the number of experience slots materialized in a
// flattened profile (exp_0..exp_14). Surviving experiences beyond the cap
// are dropped silently.
const MaxExperienceSlots = 15

var experienceSubFields = []string{
	"company", "title", "location", "description",
	"start_date", "end_date",
	"start_month", "start_year", "end_month", "end_year",
}

var scalarProfileKeys = []string{
	"first_name", "last_name", "email", "phone", "location",
	"linkedin", "github", "website", "summary", "skills",
	"education_school", "degree",
	"current_company", "current_title",
	"previous_company", "previous_title",
	"experience_years",
}

// FlattenProfile turns a structured profile into a flat attribute map keyed
// by canonical attribute name. Every slot key exists in the map even when
// empty, so downstream lookups never miss on key absence.
func FlattenProfile(profile models.ProfileData) map[string]string {
	userProfile := make(map[string]string, len(scalarProfileKeys)+MaxExperienceSlots*len(experienceSubFields))

	for _, key := range scalarProfileKeys {
		userProfile[key] = ""
	}
	for i := 0; i < MaxExperienceSlots; i++ {
		for _, sub := range experienceSubFields {
			userProfile[fmt.Sprintf("exp_%d_%s", i, sub)] = ""
		}
	}

	firstName, lastName := splitFullName(profile.FullName)
	userProfile["first_name"] = firstName
	userProfile["last_name"] = lastName
	userProfile["email"] = strings.TrimSpace(profile.Email)
	userProfile["phone"] = strings.TrimSpace(profile.Phone)
	userProfile["location"] = strings.TrimSpace(profile.Location)
	userProfile["linkedin"] = strings.TrimSpace(profile.LinkedIn)
	userProfile["github"] = strings.TrimSpace(profile.GitHub)
	userProfile["website"] = strings.TrimSpace(profile.Portfolio)
	userProfile["summary"] = strings.TrimSpace(profile.Summary)
	userProfile["skills"] = strings.Join(profile.Skills, ", ")

	if len(profile.Education) > 0 {
		userProfile["education_school"] = strings.TrimSpace(profile.Education[0].School)
		userProfile["degree"] = strings.TrimSpace(profile.Education[0].Degree)
	}

	experiences := normalizeExperiences(profile.Experience)
	for i, exp := range experiences {
		if i >= MaxExperienceSlots {
			break
		}
		userProfile[fmt.Sprintf("exp_%d_company", i)] = exp.Company
		userProfile[fmt.Sprintf("exp_%d_title", i)] = exp.Position
		userProfile[fmt.Sprintf("exp_%d_location", i)] = exp.Location
		userProfile[fmt.Sprintf("exp_%d_description", i)] = exp.Description
		userProfile[fmt.Sprintf("exp_%d_start_date", i)] = exp.StartDate
		userProfile[fmt.Sprintf("exp_%d_end_date", i)] = exp.EndDate

		if exp.StartDate != "" {
			start := ParseDate(exp.StartDate)
			userProfile[fmt.Sprintf("exp_%d_start_month", i)] = start.Month
			userProfile[fmt.Sprintf("exp_%d_start_year", i)] = start.Year
		}
		if exp.EndDate != "" {
			end := ParseDate(exp.EndDate)
			userProfile[fmt.Sprintf("exp_%d_end_month", i)] = end.Month
			userProfile[fmt.Sprintf("exp_%d_end_year", i)] = end.Year
		}
	}

	if len(experiences) > 0 {
		userProfile["current_company"] = experiences[0].Company
		userProfile["current_title"] = experiences[0].Position
		userProfile["experience_years"] = strconv.Itoa(len(experiences))
	}
	if len(experiences) > 1 {
		userProfile["previous_company"] = experiences[1].Company
		userProfile["previous_title"] = experiences[1].Position
	}

	return userProfile
}

// normalizeExperiences deduplicates and ranks experience items: exact
// duplicates (same company, position and dates) collapse to the first
// occurrence; partial duplicates (same company and position) keep the item
// with date information; distinct date ranges for the same role are kept as
// separate stints. Survivors are ordered most-recent first by end date.
func normalizeExperiences(items []models.ExperienceItem) []models.ExperienceItem {
	var unique []models.ExperienceItem
	seen := make(map[string]bool)

	for _, raw := range items {
		exp := models.ExperienceItem{
			Company:     strings.TrimSpace(raw.Company),
			Position:    strings.TrimSpace(raw.Position),
			StartDate:   strings.TrimSpace(raw.StartDate),
			EndDate:     strings.TrimSpace(raw.EndDate),
			Location:    strings.TrimSpace(raw.Location),
			Description: strings.TrimSpace(raw.Description),
		}

		if exp.Company == "" && exp.Position == "" {
			continue
		}

		comboKey := strings.ToLower(exp.Company) + "|" + strings.ToLower(exp.Position) + "|" +
			strings.ToLower(exp.StartDate) + "|" + strings.ToLower(exp.EndDate)
		if seen[comboKey] {
			log.Printf("  SKIP exact duplicate: %s - %s (%s to %s)\n", exp.Company, exp.Position, exp.StartDate, exp.EndDate)
			continue
		}

		existingIdx := -1
		for i, existing := range unique {
			if strings.EqualFold(existing.Company, exp.Company) && strings.EqualFold(existing.Position, exp.Position) {
				existingIdx = i
				break
			}
		}

		if existingIdx >= 0 {
			existing := unique[existingIdx]
			currentHasDates := exp.StartDate != "" || exp.EndDate != ""
			existingHasDates := existing.StartDate != "" || existing.EndDate != ""

			switch {
			case currentHasDates && !existingHasDates:
				// Current item carries better date information.
				unique = append(unique[:existingIdx], unique[existingIdx+1:]...)
				log.Printf("  REPLACE with dated entry: %s - %s\n", exp.Company, exp.Position)
			case existingHasDates && !currentHasDates:
				log.Printf("  SKIP (existing has dates): %s - %s\n", exp.Company, exp.Position)
				continue
			case currentHasDates && existingHasDates:
				if exp.StartDate == existing.StartDate && exp.EndDate == existing.EndDate {
					log.Printf("  SKIP (same time period): %s - %s\n", exp.Company, exp.Position)
					continue
				}
				// Different date ranges describe distinct stints.
			default:
				log.Printf("  SKIP (no dates): %s - %s\n", exp.Company, exp.Position)
				continue
			}
		}

		seen[comboKey] = true
		unique = append(unique, exp)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return endDateSortKey(unique[i].EndDate).After(endDateSortKey(unique[j].EndDate))
	})

	return unique
}

func splitFullName(fullName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", ""
	}

	parts := strings.SplitN(fullName, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
