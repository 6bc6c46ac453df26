package client

import (
	"fmt"

	"github.com/test/userapp/accounts"
	"github.com/test/userapp/users"
)

type (
	Printer interface {
		Print(userID int) string
	}

	Marker interface{}
)

// UserAccountClient prints the account of a user.
// @component
type UserAccountClient struct {
	users   users.UserService
	account accounts.AccountService
}

func NewUserAccountClient(
	userService users.UserService,
	account accounts.AccountService, // @qualifier named="savingsAccount"
) (*UserAccountClient, error) {
	return &UserAccountClient{users: userService, account: account}, nil
}

func (c *UserAccountClient) Print(userID int) string {
	return fmt.Sprintf("%s: %s", c.users.UserName(userID), c.account.AccountNumber(userID))
}
