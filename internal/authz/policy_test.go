package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/entities"
)

var (
	regular = Actor{ID: 1, Active: true}
	admin   = Actor{ID: 2, Active: true, IsAdmin: true}
)

func TestDefaultPolicy_ViewIsOpenMutationsAreAdmin(t *testing.T) {
	p := DefaultPolicy(AnyAuthenticated)

	for _, res := range AllResources {
		assert.True(t, p.Can(regular, Perm(res, View)), res)
		assert.True(t, p.Can(admin, Perm(res, View)), res)

		for _, action := range []Action{Update, Delete} {
			assert.False(t, p.Can(regular, Perm(res, action)), "%s:%s", res, action)
			assert.True(t, p.Can(admin, Perm(res, action)), "%s:%s", res, action)
		}
	}
	assert.False(t, p.Can(regular, Perm(Devices, Create)))
	assert.False(t, p.Can(regular, Perm(Maintenance, Update)))
	assert.True(t, p.Can(admin, Perm(Maintenance, Update)))
}

func TestDefaultPolicy_OperationsCreateFollowsConfiguration(t *testing.T) {
	open := DefaultPolicy(AnyAuthenticated)
	assert.True(t, open.Can(regular, Perm(Operations, Create)))

	strict := DefaultPolicy(AdminOnly)
	assert.False(t, strict.Can(regular, Perm(Operations, Create)))
	assert.True(t, strict.Can(admin, Perm(Operations, Create)))

	assert.False(t, open.Can(regular, Perm(Operations, Update)))
	assert.False(t, open.Can(regular, Perm(Operations, Delete)))
}

func TestPolicy_DeniesUnknownAndInactive(t *testing.T) {
	p := DefaultPolicy(AnyAuthenticated)

	assert.False(t, p.Can(admin, Perm("reports", View)))
	assert.False(t, p.Can(Actor{ID: 3, IsAdmin: true}, Perm(Devices, View)))
	assert.False(t, p.Can(Actor{Active: true, IsAdmin: true}, Perm(Devices, View)))
}

func TestParseRequirement(t *testing.T) {
	req, err := ParseRequirement("regular")
	require.NoError(t, err)
	assert.Equal(t, AnyAuthenticated, req)

	req, err = ParseRequirement("admin")
	require.NoError(t, err)
	assert.Equal(t, AdminOnly, req)

	_, err = ParseRequirement("root")
	assert.Error(t, err)
}

func TestActorFromAccount(t *testing.T) {
	staff := &entities.Account{ID: 5, UserType: entities.UserTypeRegular, IsStaff: true, IsActive: true}
	assert.Equal(t, Actor{ID: 5, IsAdmin: true, Active: true}, ActorFromAccount(staff))

	plain := &entities.Account{ID: 6, UserType: entities.UserTypeRegular, IsActive: true}
	assert.False(t, ActorFromAccount(plain).IsAdmin)
}
