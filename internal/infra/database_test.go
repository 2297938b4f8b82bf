package infra

import (
	"testing"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Foreign keys must be enforced on every connection: an item pointing at a
// policy that does not exist has to be rejected, or the cascade guarantees
// are fiction.
func TestDatabaseEnforcesForeignKeys(t *testing.T) {
	db, err := NewDatabase("file::memory:")
	require.NoError(t, err)

	orphan := &model.PolicyItem{
		PolicyID:    uuid.New(),
		ProductName: "孤兒附約",
		Category:    "其他",
	}
	assert.Error(t, db.Create(orphan).Error)
}

// A DSN that already carries query parameters must keep them.
func TestDatabaseDSNWithExistingQuery(t *testing.T) {
	db, err := NewDatabase("file::memory:?cache=shared")
	require.NoError(t, err)

	user := &model.User{Username: "agent1", Role: model.RoleUser}
	assert.NoError(t, db.Create(user).Error)
}
