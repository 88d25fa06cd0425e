package common

import (
	"context"
	"testing"

	"gymstack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	userID := uuid.New()
	perms := models.PermissionBundle{CanViewPayments: true}

	ctx := context.WithValue(context.Background(), UserIDKey, userID)
	ctx = context.WithValue(ctx, UsernameKey, "jdoe")
	ctx = context.WithValue(ctx, RoleKey, models.RoleAdmin)
	ctx = context.WithValue(ctx, PermissionsKey, perms)

	gotID, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, gotID)

	username, ok := GetUsernameFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "jdoe", username)

	role, ok := GetRoleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, models.RoleAdmin, role)

	gotPerms, ok := GetPermissionsFromContext(ctx)
	assert.True(t, ok)
	assert.True(t, gotPerms.CanViewPayments)
}

func TestContextLookup_EmptyContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)
	_, ok = GetRoleFromContext(ctx)
	assert.False(t, ok)
}

func TestValidateUUID(t *testing.T) {
	id := uuid.New()

	parsed, err := ValidateUUID(id.String(), "plan ID")
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ValidateUUID("  ", "plan ID")
	assert.EqualError(t, err, "plan ID is required")

	_, err = ValidateUUID("not-a-uuid", "plan ID")
	assert.ErrorContains(t, err, "plan ID has invalid format")
}

func TestValidateGender(t *testing.T) {
	for _, gender := range []string{"Male", "Female", "Other"} {
		assert.NoError(t, ValidateGender(gender))
	}
	assert.Error(t, ValidateGender("male"))
	assert.Error(t, ValidateGender(""))
}

func TestValidatePositiveFloat(t *testing.T) {
	assert.NoError(t, ValidatePositiveFloat(49.99, "price", 1_000_000))
	assert.Error(t, ValidatePositiveFloat(-1, "price", 1_000_000))
	assert.Error(t, ValidatePositiveFloat(2_000_000, "price", 1_000_000))
}

func TestValidatePositiveInteger(t *testing.T) {
	assert.NoError(t, ValidatePositiveInteger(30, "duration", 3650))
	assert.Error(t, ValidatePositiveInteger(0, "duration", 3650))
	assert.Error(t, ValidatePositiveInteger(5000, "duration", 3650))
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, -5)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(9999, 20)
	assert.Equal(t, 500, limit)
	assert.Equal(t, 20, offset)
}

func TestSanitizeHTMLElement(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", SanitizeHTMLElement("<b>hi</b>"))
	assert.Equal(t, "plain text", SanitizeHTMLElement("plain text"))
}
