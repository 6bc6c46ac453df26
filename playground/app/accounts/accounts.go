package accounts

import "hash/fnv"

type AccountService interface {
	AccountNumber(userName string) int64
}

// CheckingAccount derives the account number from the user name.
//
// @component
type CheckingAccount struct{}

func NewCheckingAccount() *CheckingAccount {
	return &CheckingAccount{}
}

func (a *CheckingAccount) AccountNumber(userName string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userName))
	return int64(h.Sum32())
}

// SavingsAccount numbers accounts from a fixed branch.
//
// @component
type SavingsAccount struct {
	branch int64
}

func NewSavingsAccount() (*SavingsAccount, error) {
	return &SavingsAccount{branch: 4_200_000}, nil
}

func (a *SavingsAccount) AccountNumber(userName string) int64 {
	return a.branch + int64(len(userName))
}
