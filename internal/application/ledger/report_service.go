package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// ReportService builds monthly summaries from posted transactions
type ReportService struct {
	scope LedgerScope
}

// NewReportService creates a new ReportService
func NewReportService(scope LedgerScope) *ReportService {
	return &ReportService{scope: scope}
}

// MonthlyReportResponse represents one month's totals
type MonthlyReportResponse struct {
	Year               int                      `json:"year"`
	Month              int                      `json:"month"`
	TotalIncome        decimal.Decimal          `json:"total_income"`
	TotalExpense       decimal.Decimal          `json:"total_expense"`
	Net                decimal.Decimal          `json:"net"`
	ExpensesByAccount  []ReportAccountSummary  `json:"expenses_by_account"`
	ExpensesByCategory []ReportCategorySummary `json:"expenses_by_category"`
}

// ReportAccountSummary is an expense total grouped by account
type ReportAccountSummary struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountName string          `json:"account_name"`
	Total       decimal.Decimal `json:"total"`
}

// ReportCategorySummary is an expense total grouped by category
type ReportCategorySummary struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// Monthly builds the report for one calendar month
func (s *ReportService) Monthly(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyReportResponse, error) {
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Year must be between 2000 and 2100")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	report := &MonthlyReportResponse{Year: year, Month: month}

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		income, err := repos.Transactions().SumByType(ctx, userID, ledger.TransactionTypeIncome, from, to)
		if err != nil {
			return err
		}
		expense, err := repos.Transactions().SumByType(ctx, userID, ledger.TransactionTypeExpense, from, to)
		if err != nil {
			return err
		}

		byAccount, err := repos.Transactions().SumExpensesByAccount(ctx, userID, from, to)
		if err != nil {
			return err
		}
		byCategory, err := repos.Transactions().SumExpensesByCategory(ctx, userID, from, to)
		if err != nil {
			return err
		}

		report.TotalIncome = income.Amount()
		report.TotalExpense = expense.Amount()
		report.Net = income.Amount().Sub(expense.Amount())
		report.ExpensesByAccount = make([]ReportAccountSummary, len(byAccount))
		for i, row := range byAccount {
			report.ExpensesByAccount[i] = ReportAccountSummary{
				AccountID:   row.AccountID,
				AccountName: row.AccountName,
				Total:       row.Total.Amount(),
			}
		}
		report.ExpensesByCategory = make([]ReportCategorySummary, len(byCategory))
		for i, row := range byCategory {
			report.ExpensesByCategory[i] = ReportCategorySummary{
				CategoryID:   row.CategoryID,
				CategoryName: row.CategoryName,
				Total:        row.Total.Amount(),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
