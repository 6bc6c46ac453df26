package client

import (
	"fmt"
	"io"

	"github.com/a-peyrard/jamocha/playground/app/accounts"
	"github.com/a-peyrard/jamocha/playground/app/users"
)

// UserAccountClient displays the accounts of the current user.
//
// @component
type UserAccountClient struct {
	userService users.UserService
	savings     accounts.AccountService
	checking    accounts.AccountService
}

// NewUserAccountClient gets the savings account through its parameter name, and the
// checking one through its qualifier.
func NewUserAccountClient(
	userService users.UserService,
	savingsAccount accounts.AccountService,
	checking accounts.AccountService, // @qualifier named="checkingAccount"
) *UserAccountClient {
	return &UserAccountClient{
		userService: userService,
		savings:     savingsAccount,
		checking:    checking,
	}
}

func (c *UserAccountClient) DisplayUserAccount(w io.Writer) error {
	userName := c.userService.UserName()
	_, err := fmt.Fprintf(
		w,
		"\n\tUser Name: %s\n\tSavings Account Number: %d\n\tChecking Account Number: %d\n",
		userName,
		c.savings.AccountNumber(userName),
		c.checking.AccountNumber(userName),
	)
	return err
}
