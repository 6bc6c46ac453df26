package accounts

import (
	"strings"

	"github.com/test/userapp/users"
)

type AccountService interface {
	AccountNumber(userID int) string
}

type (
	// Ledger is not a component.
	Ledger struct{}
)

// CheckingAccount numbers accounts after the user name.
// @component
type CheckingAccount struct {
	users users.UserService
}

func NewCheckingAccount(userService users.UserService) *CheckingAccount {
	return &CheckingAccount{users: userService}
}

func (a *CheckingAccount) AccountNumber(userID int) string {
	return "CHK-" + strings.ToUpper(a.users.UserName(userID))
}

// @component
type SavingsAccount struct{}

func NewSavingsAccount() (*SavingsAccount, error) {
	return &SavingsAccount{}, nil
}

func (a *SavingsAccount) AccountNumber(userID int) string {
	return "SAV-42"
}
