package repository

import (
	"context"
	"testing"

	"github.com/ken6921-byte/zuinsurance-app/internal/infra"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory SQLite database with the production
// pragmas and schema, so cascade behavior matches the real store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewDatabase("file::memory:")
	require.NoError(t, err)
	return db
}

func seedCustomerWithPolicy(t *testing.T, db *gorm.DB) (*model.Customer, *model.Policy) {
	t.Helper()
	ctx := context.Background()

	customers := NewCustomerRepository(db)
	policies := NewPolicyRepository(db)

	customer := &model.Customer{Name: "王小明", IDNo: "A123456789", Phone: "0912-000-111"}
	require.NoError(t, customers.Create(ctx, customer))

	policy := &model.Policy{
		CustomerID:       customer.ID,
		PolicyGroupName:  "安心人生組合",
		Insurer:          "國泰人壽",
		TotalPremiumYear: 52340,
		CreatedBy:        "agent1",
		Items: []model.PolicyItem{
			{ContractType: "主約", ProductName: "新終身壽險", Premium: 32000, Category: "壽險"},
			{ContractType: "附約", ProductName: "住院醫療日額附約", Premium: 10129, Category: "醫療"},
		},
	}
	require.NoError(t, policies.Create(ctx, policy))
	return customer, policy
}

func TestPolicyCreateInsertsItems(t *testing.T) {
	db := newTestDB(t)
	_, policy := seedCustomerWithPolicy(t, db)
	ctx := context.Background()

	loaded, err := NewPolicyRepository(db).FindByID(ctx, policy.ID)
	assert.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
	assert.Equal(t, "壽險", loaded.Items[0].Category)
}

func TestDeletePolicyCascadesToItems(t *testing.T) {
	db := newTestDB(t)
	_, policy := seedCustomerWithPolicy(t, db)
	ctx := context.Background()
	policies := NewPolicyRepository(db)

	require.NoError(t, policies.Delete(ctx, policy.ID))

	items, err := policies.ListAllItems(ctx)
	assert.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestDeleteCustomerCascadesToPoliciesAndItems(t *testing.T) {
	db := newTestDB(t)
	customer, _ := seedCustomerWithPolicy(t, db)
	ctx := context.Background()

	require.NoError(t, NewCustomerRepository(db).Delete(ctx, customer.ID))

	policies := NewPolicyRepository(db)
	all, err := policies.ListAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 0)
	items, err := policies.ListAllItems(ctx)
	assert.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestCustomerFindByIdentity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	customers := NewCustomerRepository(db)

	created := &model.Customer{Name: "林美麗", IDNo: "B987654321"}
	require.NoError(t, customers.Create(ctx, created))

	byBoth, err := customers.FindByIdentity(ctx, "林美麗", "B987654321")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, byBoth.ID)

	byName, err := customers.FindByIdentity(ctx, "林美麗", "")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = customers.FindByIdentity(ctx, "林美麗", "C000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCustomerSearch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	customers := NewCustomerRepository(db)

	require.NoError(t, customers.Create(ctx, &model.Customer{Name: "王小明", Phone: "0912-000-111"}))
	require.NoError(t, customers.Create(ctx, &model.Customer{Name: "林美麗", Phone: "0933-444-555"}))

	byName, err := customers.Search(ctx, "小明")
	assert.NoError(t, err)
	assert.Len(t, byName, 1)

	byPhone, err := customers.Search(ctx, "0933")
	assert.NoError(t, err)
	assert.Len(t, byPhone, 1)
	assert.Equal(t, "林美麗", byPhone[0].Name)

	all, err := customers.Search(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUsageIncrementUpserts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	usage := NewUsageRepository(db)

	// First increment creates the row, later ones accumulate.
	require.NoError(t, usage.Increment(ctx, "2026-03-14", "agent1", 1, 0))
	require.NoError(t, usage.Increment(ctx, "2026-03-14", "agent1", 1, 0))
	require.NoError(t, usage.Increment(ctx, "2026-03-14", "agent1", 0, 1))

	row, err := usage.GetOrCreate(ctx, "2026-03-14", "agent1")
	assert.NoError(t, err)
	assert.Equal(t, 2, row.ImageCalls)
	assert.Equal(t, 1, row.TextCalls)

	var count int64
	require.NoError(t, db.Model(&model.UsageDaily{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUsageResetDayLeavesOtherDays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	usage := NewUsageRepository(db)

	require.NoError(t, usage.Increment(ctx, "2026-03-13", "agent1", 5, 0))
	require.NoError(t, usage.Increment(ctx, "2026-03-14", "agent1", 3, 0))

	require.NoError(t, usage.ResetDay(ctx, "2026-03-14"))

	today, err := usage.GetOrCreate(ctx, "2026-03-14", "agent1")
	assert.NoError(t, err)
	assert.Equal(t, 0, today.ImageCalls)

	yesterday, err := usage.GetOrCreate(ctx, "2026-03-13", "agent1")
	assert.NoError(t, err)
	assert.Equal(t, 5, yesterday.ImageCalls)
}

func TestUserUpsertLoginOverwritesRole(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	first, err := users.UpsertLogin(ctx, "agent1", model.RoleUser)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, first.Role)

	promoted, err := users.UpsertLogin(ctx, "agent1", model.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
	assert.Equal(t, first.ID, promoted.ID)

	list, err := users.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReportQueries(t *testing.T) {
	db := newTestDB(t)
	seedCustomerWithPolicy(t, db)
	ctx := context.Background()
	reports := NewReportRepository(db)

	overview, err := reports.CustomerOverview(ctx)
	assert.NoError(t, err)
	if assert.Len(t, overview, 1) {
		assert.Equal(t, "王小明", overview[0].Name)
		assert.Equal(t, 1, overview[0].PolicyCount)
		assert.Equal(t, 52340, overview[0].TotalPremium)
	}

	stats, err := reports.CategoryStats(ctx)
	assert.NoError(t, err)
	assert.Len(t, stats, 2)
}

func TestWipeDataKeepsUsersAndUsage(t *testing.T) {
	db := newTestDB(t)
	seedCustomerWithPolicy(t, db)
	ctx := context.Background()

	users := NewUserRepository(db)
	_, err := users.UpsertLogin(ctx, "agent1", model.RoleUser)
	require.NoError(t, err)
	usage := NewUsageRepository(db)
	require.NoError(t, usage.Increment(ctx, "2026-03-14", "agent1", 1, 0))

	require.NoError(t, NewAdminRepository(db).WipeData(ctx))

	var customerCount, policyCount, itemCount int64
	require.NoError(t, db.Model(&model.Customer{}).Count(&customerCount).Error)
	require.NoError(t, db.Model(&model.Policy{}).Count(&policyCount).Error)
	require.NoError(t, db.Model(&model.PolicyItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 0, customerCount)
	assert.EqualValues(t, 0, policyCount)
	assert.EqualValues(t, 0, itemCount)

	userList, err := users.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, userList, 1)
	row, err := usage.GetOrCreate(ctx, "2026-03-14", "agent1")
	assert.NoError(t, err)
	assert.Equal(t, 1, row.ImageCalls)
}
