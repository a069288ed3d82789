// Package itr determines which return form a taxpayer's financial profile
// requires and manages the determination lifecycle. A determination must be
// locked before a filing case can be opened against it.
package itr

import (
	"strings"

	"veritax.org/internal/models"
)

// Income categories that force the business return form.
var businessCategories = map[string]bool{
	"BUSINESS":   true,
	"PROFESSION": true,
	"FREELANCE":  true,
}

// Classify maps a year's financial entries to a form type. Business or
// professional income forces ITR-3. Salary combined with any other income
// source requires ITR-2. A salary-only profile files ITR-1.
func Classify(entries []*models.FinancialEntry) (itrType, reason string) {
	hasSalary := false
	otherSources := 0
	for _, e := range entries {
		if e.EntryType != models.EntryIncome {
			continue
		}
		category := strings.ToUpper(strings.TrimSpace(e.Category))
		if businessCategories[category] {
			return models.ITRType3, "Business or professional income present"
		}
		if category == "SALARY" {
			hasSalary = true
		} else {
			otherSources++
		}
	}
	if hasSalary && otherSources > 0 {
		return models.ITRType2, "Salary combined with additional income sources"
	}
	return models.ITRType1, "Salary income only"
}
