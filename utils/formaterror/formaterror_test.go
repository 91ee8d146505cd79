package formaterror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(`pq: duplicate key value violates unique constraint "users_username_key"`))
	assert.True(t, IsUniqueViolation("UNIQUE constraint failed: users.email"))
	assert.False(t, IsUniqueViolation("record not found"))
	assert.False(t, IsUniqueViolation("connection refused"))
}

func TestFormatErrorMapsFields(t *testing.T) {
	out := FormatError("UNIQUE constraint failed: users.username")
	assert.Equal(t, "Username Already Taken", out["Taken_username"])

	out = FormatError(`pq: duplicate key value violates unique constraint "users_email_key"`)
	assert.Equal(t, "Email Already Taken", out["Taken_email"])

	out = FormatError("something unexpected")
	assert.Equal(t, "Incorrect Details", out["Incorrect_details"])
}
