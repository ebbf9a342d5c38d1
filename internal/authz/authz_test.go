// AngelaMos | 2026
// authz_test.go

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalChecks(t *testing.T) {
	t.Run("nil principal is anonymous", func(t *testing.T) {
		var p *Principal
		assert.False(t, p.IsAuthenticated())
		assert.False(t, p.IsAdmin())
		assert.False(t, p.IsModerator())
	})

	t.Run("superuser counts as admin regardless of role", func(t *testing.T) {
		p := &Principal{ID: "u1", Role: RoleUser, Superuser: true}
		assert.True(t, p.IsAdmin())
		assert.False(t, p.IsModerator())
	})

	t.Run("moderator is not admin", func(t *testing.T) {
		p := &Principal{ID: "u1", Role: RoleModerator}
		assert.False(t, p.IsAdmin())
		assert.True(t, p.IsModerator())
	})
}

func TestCanManageCatalog(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		want      bool
	}{
		{"anonymous", nil, false},
		{"plain user", &Principal{ID: "u1", Role: RoleUser}, false},
		{"moderator", &Principal{ID: "u1", Role: RoleModerator}, false},
		{"admin", &Principal{ID: "u1", Role: RoleAdmin}, true},
		{"superuser", &Principal{ID: "u1", Role: RoleUser, Superuser: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanManageCatalog(tt.principal))
			assert.Equal(t, tt.want, CanManageUsers(tt.principal))
		})
	}
}

func TestCanCreateContent(t *testing.T) {
	assert.False(t, CanCreateContent(nil))
	assert.True(t, CanCreateContent(&Principal{ID: "u1", Role: RoleUser}))
}

func TestCanModifyContent(t *testing.T) {
	const authorID = "author-1"

	tests := []struct {
		name      string
		principal *Principal
		want      bool
	}{
		{
			name:      "anonymous cannot modify",
			principal: nil,
			want:      false,
		},
		{
			name:      "author modifies own content",
			principal: &Principal{ID: authorID, Role: RoleUser},
			want:      true,
		},
		{
			name:      "other user cannot modify",
			principal: &Principal{ID: "someone-else", Role: RoleUser},
			want:      false,
		},
		{
			name:      "moderator modifies anyone's content",
			principal: &Principal{ID: "mod-1", Role: RoleModerator},
			want:      true,
		},
		{
			name:      "admin modifies anyone's content",
			principal: &Principal{ID: "adm-1", Role: RoleAdmin},
			want:      true,
		},
		{
			name:      "superuser with plain role modifies anyone's content",
			principal: &Principal{ID: "su-1", Role: RoleUser, Superuser: true},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyContent(tt.principal, authorID))
		})
	}
}
