package finance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hokuto/construction-finance-api/internal/models"
)

func TestCalculateContractorMetrics_NoActivity(t *testing.T) {
	contractor := models.Contractor{ID: 1, Name: "Acme Plumbing", ContractValue: 2500}

	metrics := CalculateContractorMetrics(contractor, nil, nil)

	require.Equal(t, 2500.0, metrics.TotalContractValue)
	require.Equal(t, 0.0, metrics.TotalInvoiced)
	require.Equal(t, 2500.0, metrics.RemainingBalance)
	require.Equal(t, BudgetStatusActive, Classify(metrics.RemainingBalance))
}

func TestCalculateContractorMetrics_ZeroContractValue(t *testing.T) {
	contractor := models.Contractor{ID: 1, Name: "New Vendor", ContractValue: 0}

	metrics := CalculateContractorMetrics(contractor, nil, nil)

	require.Equal(t, 0.0, metrics.RemainingBalance)
	require.Equal(t, BudgetStatusCompleted, Classify(metrics.RemainingBalance))
}

func TestCalculateContractorMetrics_OverBudget(t *testing.T) {
	contractor := models.Contractor{ID: 7, Name: "Steelworks", ContractValue: 1000}
	changeOrders := []models.ChangeOrder{
		{ID: 1, ProjectID: 1, ContractorID: 7, ContractorAmount: 200, ProjectAmount: 50, Status: models.ChangeOrderStatusPending},
		{ID: 2, ProjectID: 1, ContractorID: 99, ContractorAmount: 9999},
	}
	invoices := []models.Invoice{
		{ID: 1, ProjectID: 1, ContractorID: 7, Amount: 900},
		{ID: 2, ProjectID: 1, ContractorID: 7, Amount: 600},
		{ID: 3, ProjectID: 1, ContractorID: 99, Amount: 5},
	}

	metrics := CalculateContractorMetrics(contractor, changeOrders, invoices)

	require.Equal(t, 1200.0, metrics.TotalContractValue)
	require.Equal(t, 1500.0, metrics.TotalInvoiced)
	require.Equal(t, -300.0, metrics.RemainingBalance)
	require.Equal(t, BudgetStatusOverBudget, Classify(metrics.RemainingBalance))
}

func TestCalculateContractorMetrics_ChangeOrderStatusIgnored(t *testing.T) {
	contractor := models.Contractor{ID: 3, ContractValue: 100}
	changeOrders := []models.ChangeOrder{
		{ID: 1, ContractorID: 3, ContractorAmount: 10, Status: models.ChangeOrderStatusPending},
		{ID: 2, ContractorID: 3, ContractorAmount: 20, Status: models.ChangeOrderStatusApproved},
		{ID: 3, ContractorID: 3, ContractorAmount: 30, Status: models.ChangeOrderStatusRejected},
	}

	metrics := CalculateContractorMetrics(contractor, changeOrders, nil)

	require.Equal(t, 60.0, metrics.TotalChangeOrders)
	require.Equal(t, 160.0, metrics.TotalContractValue)
}

func TestCalculateContractorMetrics_CreditSubtracts(t *testing.T) {
	contractor := models.Contractor{ID: 4, ContractValue: 1000}
	invoices := []models.Invoice{
		{ID: 1, ContractorID: 4, Amount: 400},
		{ID: 2, ContractorID: 4, Amount: -150},
	}

	metrics := CalculateContractorMetrics(contractor, nil, invoices)

	require.Equal(t, 250.0, metrics.TotalInvoiced)
	require.Equal(t, 750.0, metrics.RemainingBalance)
}

func TestCalculateProjectMetrics_ZeroProfit(t *testing.T) {
	project := models.Project{ID: 1, ContractValue: 5000}
	changeOrders := []models.ChangeOrder{
		{ID: 1, ProjectID: 1, ContractorID: 2, ProjectAmount: 250, ContractorAmount: 99},
		{ID: 2, ProjectID: 1, ContractorID: 2, ProjectAmount: -250},
	}
	invoices := []models.Invoice{
		{ID: 1, ProjectID: 1, ContractorID: 2, Amount: 3000},
		{ID: 2, ProjectID: 1, ContractorID: 2, Amount: 2000},
	}

	metrics := CalculateProjectMetrics(project, changeOrders, invoices)

	require.Equal(t, 0.0, metrics.TotalChangeOrders)
	require.Equal(t, 5000.0, metrics.TotalContractValue)
	require.Equal(t, 5000.0, metrics.TotalInvoiced)
	require.Equal(t, 0.0, metrics.Profit)
	require.Equal(t, 0.0, metrics.ProfitPercentage)
}

func TestCalculateProjectMetrics_ZeroContractValue(t *testing.T) {
	project := models.Project{ID: 2, ContractValue: 0}
	invoices := []models.Invoice{
		{ID: 1, ProjectID: 2, ContractorID: 1, Amount: 100},
	}

	metrics := CalculateProjectMetrics(project, nil, invoices)

	require.Equal(t, -100.0, metrics.Profit)
	require.Equal(t, 0.0, metrics.ProfitPercentage, "zero denominator must not produce a non-finite percentage")
}

func TestCalculateProjectMetrics_ProfitPercentage(t *testing.T) {
	project := models.Project{ID: 3, ContractValue: 1000}
	invoices := []models.Invoice{
		{ID: 1, ProjectID: 3, ContractorID: 1, Amount: 750},
	}

	metrics := CalculateProjectMetrics(project, nil, invoices)

	require.InDelta(t, 25.0, metrics.ProfitPercentage, 1e-9)
}

func TestClassify_Tolerance(t *testing.T) {
	require.Equal(t, BudgetStatusCompleted, Classify(0))
	require.Equal(t, BudgetStatusCompleted, Classify(0.004))
	require.Equal(t, BudgetStatusCompleted, Classify(-0.004))
	require.Equal(t, BudgetStatusActive, Classify(0.01))
	require.Equal(t, BudgetStatusOverBudget, Classify(-0.01))
}
