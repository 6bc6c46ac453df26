package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/a-peyrard/jamocha"
	"github.com/a-peyrard/jamocha/playground/app/accounts"
	"github.com/a-peyrard/jamocha/playground/app/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterComponents(t *testing.T) {
	t.Run("it should wire the user account client", func(t *testing.T) {
		// GIVEN
		container := jamocha.New(RegisterComponents(jamocha.NewStaticScanner()), jamocha.WithParallelism(2))
		require.NoError(t, container.Start(appNamespace))

		// WHEN
		userAccountClient, err := jamocha.Get[*client.UserAccountClient](container)
		require.NoError(t, err)
		var out bytes.Buffer
		err = userAccountClient.DisplayUserAccount(&out)

		// THEN
		require.NoError(t, err)
		assert.Contains(t, out.String(), "User Name: John Doe")
		assert.Contains(t, out.String(), "Savings Account Number: 4200008")
		checking, err := jamocha.GetTagged[accounts.AccountService](container, "checkingAccount")
		require.NoError(t, err)
		assert.IsType(t, &accounts.CheckingAccount{}, checking)
		assert.Contains(t, out.String(), fmt.Sprintf("Checking Account Number: %d", checking.AccountNumber("John Doe")))
	})
}
