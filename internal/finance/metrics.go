// Package finance computes the derived financial rollups for projects and
// contractors. Everything here is a pure function over the in-memory record
// sets loaded for a request; nothing is cached between calls.
package finance

import (
	"github.com/hokuto/construction-finance-api/internal/models"
)

// BudgetStatus is the three-way classification of a remaining balance.
type BudgetStatus string

const (
	BudgetStatusActive     BudgetStatus = "active"
	BudgetStatusCompleted  BudgetStatus = "completed"
	BudgetStatusOverBudget BudgetStatus = "over_budget"
)

// balanceTolerance treats balances within half a cent of zero as settled.
// Exact floating equality would almost never classify a contractor as
// completed once fractional amounts accumulate.
const balanceTolerance = 0.005

// ContractorMetrics is the rollup for a single contractor within the
// currently loaded change orders and invoices.
type ContractorMetrics struct {
	OriginalContractValue float64 `json:"original_contract_value"`
	TotalChangeOrders     float64 `json:"total_change_orders"`
	TotalContractValue    float64 `json:"total_contract_value"`
	TotalInvoiced         float64 `json:"total_invoiced"`
	RemainingBalance      float64 `json:"remaining_balance"`
}

// ProjectMetrics is the project-level rollup.
type ProjectMetrics struct {
	TotalChangeOrders  float64 `json:"total_change_orders"`
	TotalContractValue float64 `json:"total_contract_value"`
	TotalInvoiced      float64 `json:"total_invoiced"`
	RemainingBalance   float64 `json:"remaining_balance"`
	Profit             float64 `json:"profit"`
	ProfitPercentage   float64 `json:"profit_percentage"`
}

// CalculateContractorMetrics sums the contractor side of every change order
// and every invoice amount for the contractor. No status filtering is
// applied: pending, approved and rejected change orders all contribute.
func CalculateContractorMetrics(contractor models.Contractor, changeOrders []models.ChangeOrder, invoices []models.Invoice) ContractorMetrics {
	var totalChangeOrders float64
	for _, co := range changeOrders {
		if co.ContractorID == contractor.ID {
			totalChangeOrders += co.ContractorAmount
		}
	}

	var totalInvoiced float64
	for _, inv := range invoices {
		if inv.ContractorID == contractor.ID {
			totalInvoiced += inv.Amount
		}
	}

	totalContractValue := contractor.ContractValue + totalChangeOrders

	return ContractorMetrics{
		OriginalContractValue: contractor.ContractValue,
		TotalChangeOrders:     totalChangeOrders,
		TotalContractValue:    totalContractValue,
		TotalInvoiced:         totalInvoiced,
		RemainingBalance:      totalContractValue - totalInvoiced,
	}
}

// CalculateProjectMetrics sums the project side of the change orders and all
// invoice amounts for the project. Credits carry negative amounts and
// subtract from the invoiced total.
func CalculateProjectMetrics(project models.Project, changeOrders []models.ChangeOrder, invoices []models.Invoice) ProjectMetrics {
	var totalChangeOrders float64
	for _, co := range changeOrders {
		if co.ProjectID == project.ID {
			totalChangeOrders += co.ProjectAmount
		}
	}

	var totalInvoiced float64
	for _, inv := range invoices {
		if inv.ProjectID == project.ID {
			totalInvoiced += inv.Amount
		}
	}

	totalValue := project.ContractValue + totalChangeOrders
	profit := totalValue - totalInvoiced

	var profitPercentage float64
	if totalValue > 0 {
		profitPercentage = profit / totalValue * 100
	}

	return ProjectMetrics{
		TotalChangeOrders:  totalChangeOrders,
		TotalContractValue: totalValue,
		TotalInvoiced:      totalInvoiced,
		RemainingBalance:   profit,
		Profit:             profit,
		ProfitPercentage:   profitPercentage,
	}
}

// Classify maps a remaining balance onto the status badge shown for a
// contractor or project.
func Classify(remainingBalance float64) BudgetStatus {
	switch {
	case remainingBalance < -balanceTolerance:
		return BudgetStatusOverBudget
	case remainingBalance <= balanceTolerance:
		return BudgetStatusCompleted
	default:
		return BudgetStatusActive
	}
}
