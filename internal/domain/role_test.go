package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{"Admin", RoleAdmin, true},
		{"MANAGER", RoleManager, true},
		{"  staff  ", RoleStaff, true},
		{"Customer", RoleCustomer, true},
		{"", "", false},
		{"root", "", false},
		{"administrator", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestParseRoleIdempotent(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleStaff, RoleCustomer} {
		again, ok := ParseRole(string(role))
		require.True(t, ok)
		assert.Equal(t, role, again)
	}
}

func TestRoleElevated(t *testing.T) {
	assert.True(t, RoleAdmin.Elevated())
	assert.True(t, RoleManager.Elevated())
	assert.False(t, RoleStaff.Elevated())
	assert.False(t, RoleCustomer.Elevated())
}

func TestRoleEmployeeRole(t *testing.T) {
	assert.True(t, RoleAdmin.EmployeeRole())
	assert.True(t, RoleManager.EmployeeRole())
	assert.True(t, RoleStaff.EmployeeRole())
	assert.False(t, RoleCustomer.EmployeeRole())
}
