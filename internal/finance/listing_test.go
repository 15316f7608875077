package finance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hokuto/construction-finance-api/internal/models"
)

func strPtr(s string) *string { return &s }

func listingFixture() ([]models.Contractor, []models.ChangeOrder, []models.Invoice) {
	contractors := []models.Contractor{
		{ID: 1, Name: "Zenith Electric", Email: strPtr("crew@zenith.example"), ContractValue: 1000},
		{ID: 2, Name: "anderson drywall", Phone: strPtr("555-0100"), ContractValue: 3000},
		{ID: 3, Name: "Mason & Sons", ContractValue: 500},
	}
	changeOrders := []models.ChangeOrder{
		{ID: 1, ContractorID: 1, ContractorAmount: 500},
	}
	invoices := []models.Invoice{
		{ID: 1, ContractorID: 3, InvoiceNumber: "M-1", Amount: 400},
		{ID: 2, ContractorID: 3, InvoiceNumber: "M-2", Amount: 300},
		{ID: 3, ContractorID: 2, InvoiceNumber: "A-1", Amount: 3000},
	}
	return contractors, changeOrders, invoices
}

func TestFilterContractors_SearchMatchesNameEmailPhone(t *testing.T) {
	contractors, changeOrders, invoices := listingFixture()

	byName := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{Search: "zenith"})
	require.Len(t, byName, 1)
	require.Equal(t, uint64(1), byName[0].Contractor.ID)

	byEmail := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{Search: "CREW@"})
	require.Len(t, byEmail, 1)
	require.Equal(t, uint64(1), byEmail[0].Contractor.ID)

	byPhone := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{Search: "555-01"})
	require.Len(t, byPhone, 1)
	require.Equal(t, uint64(2), byPhone[0].Contractor.ID)
}

func TestFilterContractors_StatusFilter(t *testing.T) {
	contractors, changeOrders, invoices := listingFixture()

	// Contractor 1: 1500 remaining (active); 2: 0 remaining (completed);
	// 3: -200 remaining (over budget).
	active := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{Status: StatusFilterActive})
	require.Len(t, active, 1)
	require.Equal(t, uint64(1), active[0].Contractor.ID)

	completed := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{Status: StatusFilterCompleted})
	require.Len(t, completed, 1)
	require.Equal(t, uint64(2), completed[0].Contractor.ID)

	overdue := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{Status: StatusFilterOverdue})
	require.Len(t, overdue, 1)
	require.Equal(t, uint64(3), overdue[0].Contractor.ID)
	require.Equal(t, BudgetStatusOverBudget, overdue[0].Status)
}

func TestFilterContractors_SortByNameIsCaseInsensitive(t *testing.T) {
	contractors, changeOrders, invoices := listingFixture()

	views := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{SortBy: SortByName})

	require.Len(t, views, 3)
	require.Equal(t, "anderson drywall", views[0].Contractor.Name)
	require.Equal(t, "Mason & Sons", views[1].Contractor.Name)
	require.Equal(t, "Zenith Electric", views[2].Contractor.Name)
}

func TestFilterContractors_SortByValueDescending(t *testing.T) {
	contractors, changeOrders, invoices := listingFixture()

	views := FilterContractors(contractors, changeOrders, invoices, ContractorQuery{SortBy: SortByValue})

	require.Len(t, views, 3)
	require.Equal(t, uint64(2), views[0].Contractor.ID) // 3000
	require.Equal(t, uint64(1), views[1].Contractor.ID) // 1500 after change order
	require.Equal(t, uint64(3), views[2].Contractor.ID) // 500
}

func TestFilterContractors_SortByValueStableOnTies(t *testing.T) {
	contractors := []models.Contractor{
		{ID: 10, Name: "First", ContractValue: 100},
		{ID: 11, Name: "Second", ContractValue: 100},
		{ID: 12, Name: "Third", ContractValue: 100},
	}

	views := FilterContractors(contractors, nil, nil, ContractorQuery{SortBy: SortByValue})

	require.Equal(t, uint64(10), views[0].Contractor.ID)
	require.Equal(t, uint64(11), views[1].Contractor.ID)
	require.Equal(t, uint64(12), views[2].Contractor.ID)
}

func TestOverBilledContractors(t *testing.T) {
	contractors, changeOrders, invoices := listingFixture()

	alerts := OverBilledContractors(contractors, changeOrders, invoices)

	require.Len(t, alerts, 1)
	require.Equal(t, uint64(3), alerts[0].Contractor.ID)
	require.Equal(t, 200.0, alerts[0].OverageAmount)
	require.NotNil(t, alerts[0].LatestInvoice)
	// Last invoice in loaded order, not a chronological latest.
	require.Equal(t, "M-2", alerts[0].LatestInvoice.InvoiceNumber)
}

func TestOverBilledContractors_NoneWhenWithinBudget(t *testing.T) {
	contractors := []models.Contractor{{ID: 1, ContractValue: 100}}

	alerts := OverBilledContractors(contractors, nil, nil)

	require.Empty(t, alerts)
}
