package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

func TestUser_PermisosDeLicenciasPorRol(t *testing.T) {
	cases := []struct {
		role          string
		edit, approve bool
	}{
		{entity.RoleAdmin, true, true},
		{entity.RoleHSEManager, true, true},
		{entity.RoleHSEOfficer, true, false},
		{entity.RoleViewer, false, false},
		{"auditor_externo", false, false},
	}
	for _, tc := range cases {
		u := &entity.User{Role: tc.role}
		assert.Equal(t, tc.edit, u.CanEditLicenses(), "rol %s", tc.role)
		assert.Equal(t, tc.approve, u.CanApproveLicenses(), "rol %s", tc.role)
	}
}

func TestUser_ActorUsaNombreOEmail(t *testing.T) {
	assert.Equal(t, "Laura Gómez", (&entity.User{Name: "Laura Gómez", Email: "laura@planta.co"}).Actor())
	assert.Equal(t, "laura@planta.co", (&entity.User{Email: "laura@planta.co"}).Actor())
}
