package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdir/internal/domain"
	"staffdir/internal/repos"
	"staffdir/internal/services"
)

const (
	adminID   = "adm-1"
	managerID = "mgr-1"
	eveID     = "emp-1"
	noahID    = "emp-2"
)

func fixtureUsers() []domain.User {
	return []domain.User{
		{
			ID: adminID, Role: domain.RoleAdmin,
			FirstName: "Grace", LastName: "Okafor",
			Email: "grace@example.test", Phone: "1", Password: "x",
		},
		{
			ID: managerID, Role: domain.RoleEmployee,
			FirstName: "Mia", LastName: "Stone",
			Email: "mia@example.test", Phone: "2", Password: "x",
		},
		{
			ID: eveID, Role: domain.RoleEmployee,
			FirstName: "Eve", LastName: "Laurent",
			Email: "eve@example.test", Phone: "3", Password: "x",
			Department: "Support",
			Manager:    &domain.Manager{ID: managerID, FirstName: "Mia", LastName: "Stone"},
			Visa:       []domain.Visa{{IssuingCountry: "FR", Type: "work", StartDate: 100, EndDate: 200}},
		},
		{
			ID: noahID, Role: domain.RoleEmployee,
			FirstName: "Noah", LastName: "Reed",
			Email: "noah@example.test", Phone: "4", Password: "x",
		},
	}
}

func newFixtureStore(t *testing.T) *repos.UserStore {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	store := repos.NewUserStore(db)
	require.NoError(t, store.Persist(fixtureUsers()))
	return store
}

func mustFind(t *testing.T, store *repos.UserStore, id string) domain.User {
	t.Helper()
	users, err := store.Load()
	require.NoError(t, err)
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	t.Fatalf("user %s not in store", id)
	return domain.User{}
}

var (
	adminCaller   = domain.Caller{ID: adminID, Role: domain.RoleAdmin}
	managerCaller = domain.Caller{ID: managerID, Role: domain.RoleEmployee}
)

func TestApplyUnknownTarget(t *testing.T) {
	svc := &services.UpdateService{Store: newFixtureStore(t)}

	_, err := svc.Apply("ghost", adminCaller, map[string]any{"department": "QA"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestApplyDeniesUnrelatedCaller(t *testing.T) {
	store := newFixtureStore(t)
	svc := &services.UpdateService{Store: store}

	_, err := svc.Apply(eveID, domain.Caller{ID: noahID, Role: domain.RoleEmployee}, map[string]any{"department": "QA"})
	assert.ErrorIs(t, err, services.ErrNoPermission)
	assert.Equal(t, "Support", mustFind(t, store, eveID).Department)
}

func TestApplyDeniesCallerWithoutRole(t *testing.T) {
	svc := &services.UpdateService{Store: newFixtureStore(t)}

	// Matching manager id is not enough without an asserted role.
	_, err := svc.Apply(eveID, domain.Caller{ID: managerID}, map[string]any{"department": "QA"})
	assert.ErrorIs(t, err, services.ErrNoPermission)
}

func TestApplyManagerCanEditSubordinate(t *testing.T) {
	store := newFixtureStore(t)
	svc := &services.UpdateService{Store: store}

	updated, err := svc.Apply(eveID, managerCaller, map[string]any{"department": "Platform"})
	require.NoError(t, err)
	assert.Equal(t, "Platform", updated.Department)
	assert.Equal(t, "Platform", mustFind(t, store, eveID).Department)
}

func TestApplyAdminCanEditAnyone(t *testing.T) {
	svc := &services.UpdateService{Store: newFixtureStore(t)}

	updated, err := svc.Apply(noahID, adminCaller, map[string]any{"desk_number": "C-4"})
	require.NoError(t, err)
	assert.Equal(t, "C-4", updated.DeskNumber)
}

func TestApplyGenericMergeKeepsManagerAndVisa(t *testing.T) {
	store := newFixtureStore(t)
	svc := &services.UpdateService{Store: store}
	before := mustFind(t, store, eveID)

	updated, err := svc.Apply(eveID, adminCaller, map[string]any{"department": "QA", "building": "A"})
	require.NoError(t, err)
	assert.Equal(t, before.Manager, updated.Manager)
	assert.Equal(t, before.Visa, updated.Visa)
	assert.Equal(t, "QA", updated.Department)
	assert.Equal(t, "A", updated.Building)
}

func TestApplyIDStaysImmutable(t *testing.T) {
	svc := &services.UpdateService{Store: newFixtureStore(t)}

	updated, err := svc.Apply(eveID, adminCaller, map[string]any{"_id": "hax", "room": "12"})
	require.NoError(t, err)
	assert.Equal(t, eveID, updated.ID)
}

func TestApplyManagerReassignPromotesAndSnapshots(t *testing.T) {
	store := newFixtureStore(t)
	svc := &services.UpdateService{Store: store}

	updated, err := svc.Apply(eveID, adminCaller, map[string]any{"manager": noahID})
	require.NoError(t, err)

	require.NotNil(t, updated.Manager)
	assert.Equal(t, domain.Manager{ID: noahID, FirstName: "Noah", LastName: "Reed"}, *updated.Manager)
	assert.Equal(t, domain.RoleHR, mustFind(t, store, noahID).Role)
}

func TestApplyManagerReassignOverwritesAdminRole(t *testing.T) {
	store := newFixtureStore(t)
	svc := &services.UpdateService{Store: store}

	_, err := svc.Apply(eveID, adminCaller, map[string]any{"manager": adminID})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHR, mustFind(t, store, adminID).Role)
}

func TestApplyManagerReassignUnknownAppliesNothing(t *testing.T) {
	store := newFixtureStore(t)
	svc := &services.UpdateService{Store: store}

	_, err := svc.Apply(eveID, adminCaller, map[string]any{"manager": "ghost", "department": "QA"})
	assert.ErrorIs(t, err, services.ErrNotFound)

	after := mustFind(t, store, eveID)
	assert.Equal(t, "Support", after.Department)
	assert.Equal(t, managerID, after.Manager.ID)
}

func TestVisaEndDateOnlyMergesWithExisting(t *testing.T) {
	svc := &services.UpdateService{Store: newFixtureStore(t)}

	updated, err := svc.Apply(eveID, adminCaller, map[string]any{"end_date": float64(300)})
	require.NoError(t, err)
	require.Len(t, updated.Visa, 1)
	assert.Equal(t, domain.Visa{IssuingCountry: "FR", Type: "work", StartDate: 100, EndDate: 300}, updated.Visa[0])
}

func TestVisaStartDateOnlyWithExistingVisa(t *testing.T) {
	svc := &services.UpdateService{Store: newFixtureStore(t)}

	updated, err := svc.Apply(eveID, adminCaller, map[string]any{"start_date": float64(150)})
	require.NoError(t, err)
	require.Len(t, updated.Visa, 1)
	assert.Equal(t, domain.Visa{IssuingCountry: "FR", Type: "work", StartDate: 150, EndDate: 200}, updated.Visa[0])
}

func TestVisaStartDateOnlyWithoutVisaWritesNothing(t *testing.T) {
	store := newFixtureStore(t)
	svc := &services.UpdateService{Store: store}

	updated, err := svc.Apply(noahID, adminCaller, map[string]any{"start_date": float64(50)})
	require.NoError(t, err)
	assert.Empty(t, updated.Visa)
	assert.Empty(t, mustFind(t, store, noahID).Visa)
}

func TestVisaTypeAloneCreatesVisa(t *testing.T) {
	svc := &services.UpdateService{Store: newFixtureStore(t)}

	updated, err := svc.Apply(noahID, adminCaller, map[string]any{"visa_type": "work"})
	require.NoError(t, err)
	require.Len(t, updated.Visa, 1)
	assert.Equal(t, domain.Visa{Type: "work"}, updated.Visa[0])
}
