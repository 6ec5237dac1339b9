package domain

// AccountType defines the fundamental accounting type of an account, which
// determines its normal balance side.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountRole marks accounts the posting engine needs to locate directly:
// the payable/receivable control accounts, discount contra accounts, and
// bank accounts payments settle against.
type AccountRole string

const (
	RoleNone               AccountRole = ""
	RoleAccountsPayable    AccountRole = "ACCOUNTS_PAYABLE"
	RoleAccountsReceivable AccountRole = "ACCOUNTS_RECEIVABLE"
	RolePurchaseDiscount   AccountRole = "PURCHASE_DISCOUNT"
	RoleSalesDiscount      AccountRole = "SALES_DISCOUNT"
	RoleBankAccount        AccountRole = "BANK_ACCOUNT"
)

// Account represents a chart-of-accounts node. Bank accounts carry the
// currency of the underlying bank balance; everything else is posted in the
// company default currency.
type Account struct {
	AccountID       string      `json:"accountID"`
	CompanyID       string      `json:"companyID"`
	CFID            string      `json:"cfid"` // Customer Facing ID (optional, user-defined)
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	Role            AccountRole `json:"role"`
	CurrencyCode    string      `json:"currencyCode"`
	ParentAccountID string      `json:"parentAccountID"` // Nullable
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// NormalBalanceIsDebit reports whether the account's normal balance sits on
// the debit side.
func (a Account) NormalBalanceIsDebit() bool {
	switch a.AccountType {
	case Asset, Expense:
		return true
	case Liability, Equity, Revenue:
		return false
	default:
		return false
	}
}
