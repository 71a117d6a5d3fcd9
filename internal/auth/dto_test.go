// AngelaMos | 2026
// dto_test.go

package auth

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameValidation(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	require.NoError(t, RegisterValidations(v))

	valid := []string{"stargazer", "StarGazer", "ALICE", "star_gazer_42"}
	for _, username := range valid {
		req := RegisterRequest{
			Username:        username,
			Email:           "stargazer@example.com",
			Password:        "orbital-mechanics-1",
			ConfirmPassword: "orbital-mechanics-1",
		}
		assert.NoError(t, v.Struct(req), "username %q should pass", username)
	}

	invalid := []string{"star gazer", "star-gazer", "ästro", "a!b"}
	for _, username := range invalid {
		req := RegisterRequest{
			Username:        username,
			Email:           "stargazer@example.com",
			Password:        "orbital-mechanics-1",
			ConfirmPassword: "orbital-mechanics-1",
		}
		assert.Error(t, v.Struct(req), "username %q should fail", username)
	}
}
