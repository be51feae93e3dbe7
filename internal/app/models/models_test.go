package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleTeacher, NormalizeRole("teacher"))
	assert.Equal(t, RoleTeacher, NormalizeRole("TEACHER"))
	assert.Equal(t, RoleStudent, NormalizeRole("student"))
	assert.Equal(t, RoleStudent, NormalizeRole(""))
	assert.Equal(t, RoleStudent, NormalizeRole("admin"))
}
