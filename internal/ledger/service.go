package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/model"
	"github.com/akfinance/ledger/internal/service"
)

// Service is the ledger engine. It owns no state beyond its storage handle;
// every operation is computed fresh, synchronously, per call.
type Service struct {
	store service.Storage
}

// New creates a ledger service backed by the given storage.
func New(store service.Storage) *Service {
	return &Service{store: store}
}

// CategoryBreakdown is one slice of the dashboard's expense distribution.
type CategoryBreakdown struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
}

// BudgetPreview is the condensed budget line shown on the dashboard.
type BudgetPreview struct {
	CategoryName    string          `json:"categoryName"`
	LimitAmount     decimal.Decimal `json:"limitAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	ProgressPercent float64         `json:"progressPercent"`
}

// DashboardSummary aggregates one month of a user's ledger.
type DashboardSummary struct {
	TotalIncome   decimal.Decimal     `json:"totalIncome"`
	TotalExpense  decimal.Decimal     `json:"totalExpense"`
	Balance       decimal.Decimal     `json:"balance"`
	TopCategories []CategoryBreakdown `json:"topCategories"`
	Budgets       []BudgetPreview     `json:"budgets"`
}

// CategoryView is the category projection embedded in responses.
type CategoryView struct {
	ID    string                `json:"id"`
	Name  string                `json:"name"`
	Type  model.TransactionType `json:"type"`
	Icon  string                `json:"icon,omitempty"`
	Color string                `json:"color,omitempty"`
}

// BudgetWithProgress is a budget joined with its period spend.
type BudgetWithProgress struct {
	ID              string          `json:"id"`
	Category        CategoryView    `json:"category"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	LimitAmount     decimal.Decimal `json:"limitAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	Currency        string          `json:"currency"`
	ProgressPercent float64         `json:"progressPercent"`
}

// TransactionView is a transaction with its category resolved for display.
type TransactionView struct {
	OccurredAt time.Time             `json:"occurredAt"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	ID         string                `json:"id"`
	Type       model.TransactionType `json:"type"`
	Currency   string                `json:"currency"`
	Note       string                `json:"note,omitempty"`
	Category   *CategoryView         `json:"category,omitempty"`
	Amount     decimal.Decimal       `json:"amount"`
}

// TransactionPage is one page of search results plus paging metadata.
type TransactionPage struct {
	Items  []TransactionView `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func categoryView(cat *model.Category) *CategoryView {
	if cat == nil {
		return nil
	}
	return &CategoryView{
		ID:    cat.ID,
		Name:  cat.Name,
		Type:  cat.Type,
		Icon:  cat.Icon,
		Color: cat.Color,
	}
}
