package loginflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/loginflow"
)

func TestValidateEmail(t *testing.T) {
	t.Run("accepts local@domain.tld shapes", func(t *testing.T) {
		for _, email := range []string{
			"a@b.co",
			"john.doe@example.com",
			"user+tag@sub.example.org",
		} {
			require.NoError(t, loginflow.ValidateEmail(email), email)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, email := range []string{
			"not-an-email",
			"",
			"missing-domain@",
			"@missing-local.com",
			"no-tld@domain",
			"two@@example.com",
			"spaces in@example.com",
		} {
			err := loginflow.ValidateEmail(email)
			require.Error(t, err, email)

			var validationErr *loginflow.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, "email", validationErr.Field)
		}
	})
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, loginflow.ValidatePassword("secret", loginflow.MinLoginPasswordLength))
	require.Error(t, loginflow.ValidatePassword("short", loginflow.MinLoginPasswordLength))

	// Registration applies the stricter policy.
	require.Error(t, loginflow.ValidateRegistration("a@b.co", "seven77"))
	require.NoError(t, loginflow.ValidateRegistration("a@b.co", "eight888"))
	require.Error(t, loginflow.ValidateRegistration("not-an-email", "eight888"))
}

func TestSanitizeCode(t *testing.T) {
	require.Equal(t, "1234", loginflow.SanitizeCode("12a34b"))
	require.Equal(t, "123456", loginflow.SanitizeCode("12345678"))
	require.Equal(t, "123456", loginflow.SanitizeCode("12 34-56"))
	require.Equal(t, "", loginflow.SanitizeCode("abcdef"))
	require.Equal(t, "987654", loginflow.SanitizeCode("987654"))
}
