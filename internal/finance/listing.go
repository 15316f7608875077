package finance

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hokuto/construction-finance-api/internal/models"
)

// SortKey selects the contractor ordering within a project view.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByValue SortKey = "value"
)

// StatusFilter narrows contractors by their budget classification.
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterActive    StatusFilter = "active"
	StatusFilterCompleted StatusFilter = "completed"
	StatusFilterOverdue   StatusFilter = "overdue"
)

// ContractorQuery holds the search, filter and sort settings for a
// contractor listing.
type ContractorQuery struct {
	Search string
	Status StatusFilter
	SortBy SortKey
}

// ContractorView pairs a contractor with its computed metrics and badge.
type ContractorView struct {
	Contractor models.Contractor
	Metrics    ContractorMetrics
	Status     BudgetStatus
}

// OverBilledAlert surfaces a contractor whose invoiced total exceeds its
// contract value, along with the last invoice in loaded order.
type OverBilledAlert struct {
	Contractor    models.Contractor
	OverageAmount float64
	LatestInvoice *models.Invoice
}

// FilterContractors produces the ordered, filtered contractor view for a
// project. Search matches name, email and phone substrings
// case-insensitively; the status filter reuses the three-way budget
// classification; sorting is stable so ties keep input order.
func FilterContractors(contractors []models.Contractor, changeOrders []models.ChangeOrder, invoices []models.Invoice, query ContractorQuery) []ContractorView {
	search := strings.ToLower(strings.TrimSpace(query.Search))

	views := make([]ContractorView, 0, len(contractors))
	for _, contractor := range contractors {
		if search != "" && !matchesSearch(contractor, search) {
			continue
		}

		metrics := CalculateContractorMetrics(contractor, changeOrders, invoices)
		status := Classify(metrics.RemainingBalance)

		switch query.Status {
		case StatusFilterOverdue:
			if status != BudgetStatusOverBudget {
				continue
			}
		case StatusFilterActive:
			if status != BudgetStatusActive {
				continue
			}
		case StatusFilterCompleted:
			if status != BudgetStatusCompleted {
				continue
			}
		}

		views = append(views, ContractorView{
			Contractor: contractor,
			Metrics:    metrics,
			Status:     status,
		})
	}

	switch query.SortBy {
	case SortByValue:
		// Highest total contract value first
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Metrics.TotalContractValue > views[j].Metrics.TotalContractValue
		})
	default:
		coll := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(views, func(i, j int) bool {
			return coll.CompareString(views[i].Contractor.Name, views[j].Contractor.Name) < 0
		})
	}

	return views
}

// OverBilledContractors returns an alert for every contractor whose
// remaining balance is negative.
func OverBilledContractors(contractors []models.Contractor, changeOrders []models.ChangeOrder, invoices []models.Invoice) []OverBilledAlert {
	var alerts []OverBilledAlert
	for _, contractor := range contractors {
		metrics := CalculateContractorMetrics(contractor, changeOrders, invoices)
		if metrics.RemainingBalance >= -balanceTolerance {
			continue
		}

		var latest *models.Invoice
		for i := range invoices {
			if invoices[i].ContractorID == contractor.ID {
				latest = &invoices[i]
			}
		}

		alerts = append(alerts, OverBilledAlert{
			Contractor:    contractor,
			OverageAmount: -metrics.RemainingBalance,
			LatestInvoice: latest,
		})
	}
	return alerts
}

func matchesSearch(contractor models.Contractor, search string) bool {
	if strings.Contains(strings.ToLower(contractor.Name), search) {
		return true
	}
	if contractor.Email != nil && strings.Contains(strings.ToLower(*contractor.Email), search) {
		return true
	}
	if contractor.Phone != nil && strings.Contains(strings.ToLower(*contractor.Phone), search) {
		return true
	}
	return false
}
