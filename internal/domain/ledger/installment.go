package ledger

import (
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// MaxInstallments bounds how many installments a card purchase may be
// split into.
const MaxInstallments = 120

// SplitInstallments divides a total into n installment amounts that sum
// exactly to the total. Each installment is the total divided by n
// truncated to cents; the last one absorbs the rounding remainder.
func SplitInstallments(total valueobject.Money, n int) ([]valueobject.Money, error) {
	if n < 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Installment count must be at least 1")
	}
	if n > MaxInstallments {
		return nil, shared.NewDomainError("INVALID_INPUT", "Installment count cannot exceed 120")
	}
	parts, err := total.Split(n)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return parts, nil
}
