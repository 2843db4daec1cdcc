package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/domain/shared/valueobject"
)

// PaymentMethodType represents how a transaction is settled
type PaymentMethodType string

const (
	PaymentMethodTypePix    PaymentMethodType = "PIX"
	PaymentMethodTypeCash   PaymentMethodType = "CASH"
	PaymentMethodTypeDebit  PaymentMethodType = "DEBIT"
	PaymentMethodTypeCard   PaymentMethodType = "CARD"
	PaymentMethodTypeBoleto PaymentMethodType = "BOLETO"
)

// String returns the string representation of PaymentMethodType
func (t PaymentMethodType) String() string {
	return string(t)
}

// IsValid returns true if the payment method type is valid
func (t PaymentMethodType) IsValid() bool {
	switch t {
	case PaymentMethodTypePix, PaymentMethodTypeCash, PaymentMethodTypeDebit,
		PaymentMethodTypeCard, PaymentMethodTypeBoleto:
		return true
	}
	return false
}

// IsCard returns true for credit card methods. Card spending settles
// through a monthly invoice instead of hitting the account directly.
func (t PaymentMethodType) IsCard() bool {
	return t == PaymentMethodTypeCard
}

// PaymentMethod represents a way of paying linked to an account. Credit
// card methods carry a billing cycle configuration (closing day, due day,
// credit limit).
type PaymentMethod struct {
	shared.OwnedAggregateRoot
	AccountID   uuid.UUID
	Name        string
	Type        PaymentMethodType
	IsDefault   bool
	ClosingDay  *int
	DueDay      *int
	CreditLimit *valueobject.Money
}

// NewPaymentMethod creates a new payment method.
// Card methods require a closing day, due day (both 1-31) and a
// non-negative credit limit.
func NewPaymentMethod(
	userID uuid.UUID,
	accountID uuid.UUID,
	name string,
	methodType PaymentMethodType,
	closingDay, dueDay *int,
	creditLimit *valueobject.Money,
) (*PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment method name cannot be empty")
	}
	if !methodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid payment method type")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account ID cannot be empty")
	}

	m := &PaymentMethod{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		AccountID:          accountID,
		Name:               name,
		Type:               methodType,
		ClosingDay:         closingDay,
		DueDay:             dueDay,
		CreditLimit:        creditLimit,
	}
	if err := m.validateBilling(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PaymentMethod) validateBilling() error {
	if m.Type.IsCard() {
		if m.ClosingDay == nil || m.DueDay == nil {
			return shared.NewDomainError("INVALID_INPUT", "Card methods require closing day and due day")
		}
		if *m.ClosingDay < 1 || *m.ClosingDay > 31 {
			return shared.NewDomainError("INVALID_INPUT", "Closing day must be between 1 and 31")
		}
		if *m.DueDay < 1 || *m.DueDay > 31 {
			return shared.NewDomainError("INVALID_INPUT", "Due day must be between 1 and 31")
		}
		if m.CreditLimit != nil && m.CreditLimit.IsNegative() {
			return shared.NewDomainError("INVALID_INPUT", "Credit limit cannot be negative")
		}
		return nil
	}
	// Billing configuration only makes sense on cards.
	m.ClosingDay = nil
	m.DueDay = nil
	m.CreditLimit = nil
	return nil
}

// HasBillingCycle returns true when the method can resolve invoice periods
func (m *PaymentMethod) HasBillingCycle() bool {
	return m.Type.IsCard() && m.ClosingDay != nil && m.DueDay != nil
}

// Update applies new settings to the method
func (m *PaymentMethod) Update(name string, methodType PaymentMethodType, closingDay, dueDay *int, creditLimit *valueobject.Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Payment method name cannot be empty")
	}
	if !methodType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid payment method type")
	}
	m.Name = name
	m.Type = methodType
	m.ClosingDay = closingDay
	m.DueDay = dueDay
	m.CreditLimit = creditLimit
	if err := m.validateBilling(); err != nil {
		return err
	}
	m.Touch()
	return nil
}

// MarkDefault flags this method as the account default
func (m *PaymentMethod) MarkDefault() {
	m.IsDefault = true
	m.Touch()
}

// UnmarkDefault removes the default flag
func (m *PaymentMethod) UnmarkDefault() {
	m.IsDefault = false
	m.Touch()
}
