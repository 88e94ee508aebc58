package db

import (
	"context"
	"testing"
	"time"

	"radio_rental_tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func availableNos(t *testing.T, r *Repo) []string {
	t.Helper()
	units, _, err := r.ListAvailableUnits(context.Background())
	require.NoError(t, err)
	nos := make([]string, 0, len(units))
	for _, u := range units {
		nos = append(nos, u.UnitNo)
	}
	return nos
}

func TestClaimAndReturnRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 3)

	// claim No.1 and No.2 for Ops
	outcomes, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1", "No.2"})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	for _, oc := range outcomes {
		require.NotNil(t, oc.Entry, "unit %s", oc.UnitNo)
		assert.Equal(t, models.StatusRented, oc.Entry.Status)
		assert.Equal(t, "Ops", oc.Entry.Dept)
	}
	assert.Equal(t, "000001", outcomes[0].Entry.SerialNo)

	assert.Equal(t, []string{"No.3"}, availableNos(t, r))

	// return serial 000001
	res, err := r.ReturnUnits(ctx, "Ops", ReturnerInfo{Name: "Jordan Lee", Phone: "01012345678"}, []string{"000001"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Returned)
	assert.Empty(t, res.Skipped)

	var entry models.RentalEntry
	require.NoError(t, r.DB.Where("unit_no = ?", "No.1").First(&entry).Error)
	assert.Equal(t, models.StatusReturned, entry.Status)
	assert.NotEmpty(t, entry.EndDate)

	var logs []models.ReturnLogEntry
	require.NoError(t, r.DB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].RentalID)
	assert.Equal(t, models.MethodReturn, logs[0].Method)
	assert.Equal(t, "Ops", logs[0].Dept)

	assert.Equal(t, []string{"No.1", "No.3"}, availableNos(t, r))
}

func TestReturnIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 1)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1"})
	require.NoError(t, err)

	first, err := r.ReturnUnits(ctx, "Ops", ReturnerInfo{Name: "Jordan Lee"}, []string{"000001"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Returned)

	// second submission closes nothing and writes no second audit row
	second, err := r.ReturnUnits(ctx, "Ops", ReturnerInfo{Name: "Jordan Lee"}, []string{"000001"})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Returned)
	assert.Equal(t, []string{"000001"}, second.Skipped)

	var n int64
	require.NoError(t, r.DB.Model(&models.ReturnLogEntry{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestClaimDoubleAllocation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 3)

	first, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.3"})
	require.NoError(t, err)
	require.NotNil(t, first[0].Entry)

	// a second claim for the same unit loses, the invariant holds
	second, err := r.ClaimUnits(ctx, testRenter("Sales"), []string{"No.3"})
	require.NoError(t, err)
	assert.Nil(t, second[0].Entry)
	assert.Equal(t, ErrDoubleAllocation.Error(), second[0].Error)

	assert.Len(t, openStatuses(t, r, "No.3"), 1)
}

func TestClaimMatchingIsCaseAndSpaceInsensitive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 1)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1"})
	require.NoError(t, err)

	outcomes, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"  no.1 "})
	require.NoError(t, err)
	assert.Nil(t, outcomes[0].Entry)
	assert.Equal(t, ErrDoubleAllocation.Error(), outcomes[0].Error)
}

func TestClaimBatchPartialSuccess(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 2)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.2"})
	require.NoError(t, err)

	// No.2 fails, No.1 still claims: siblings are independent
	outcomes, err := r.ClaimUnits(ctx, testRenter("Sales"), []string{"No.2", "No.1"})
	require.NoError(t, err)
	assert.Nil(t, outcomes[0].Entry)
	require.NotNil(t, outcomes[1].Entry)
	assert.Equal(t, "Sales", outcomes[1].Entry.Dept)
}

func TestClaimToleratesOrphanUnit(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	outcomes, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.99"})
	require.NoError(t, err)
	require.NotNil(t, outcomes[0].Entry)
	assert.Equal(t, "Unknown-No.99", outcomes[0].Entry.SerialNo)
}

func TestMixedCaseStatusRowStaysOpenEverywhere(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 1)

	// a row written by older tooling with mixed-case status
	require.NoError(t, r.DB.Create(&models.RentalEntry{
		UserName: "Jordan Lee", Dept: "Ops", UnitNo: "No.1", SerialNo: "000001",
		Qty: 1, Status: "Rented", RentalAt: time.Now(),
	}).Error)

	// hidden from the available set
	available, _, err := r.ListAvailableUnits(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)

	// and equally visible to the claim guard: no second open row
	outcomes, err := r.ClaimUnits(ctx, testRenter("Sales"), []string{"No.1"})
	require.NoError(t, err)
	assert.Nil(t, outcomes[0].Entry)
	assert.Equal(t, ErrDoubleAllocation.Error(), outcomes[0].Error)
	assert.Len(t, openStatuses(t, r, "No.1"), 1)

	// the delete guard sees it and the return flow can still close it
	assert.ErrorIs(t, r.DeleteUnit(ctx, "No.1"), ErrUnitRented)
	res, err := r.ReturnUnits(ctx, "Ops", ReturnerInfo{Name: "Jordan Lee"}, []string{"000001"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Returned)
	assert.Empty(t, openStatuses(t, r, "No.1"))
}

func TestOpenRowIndexBackstop(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 1)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1"})
	require.NoError(t, err)

	// a second open row written behind the guard's back trips the partial
	// unique index and comes back as a duplicated-key error, the same
	// condition claimOne maps to ErrDoubleAllocation for the race loser
	err = r.DB.Create(&models.RentalEntry{
		UserName: "X", Dept: "Sales", UnitNo: " NO.1 ", SerialNo: "000001",
		Qty: 1, Status: models.StatusRented, RentalAt: time.Now(),
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Len(t, openStatuses(t, r, "No.1"), 1)
}

func TestAvailabilityComplement(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 5)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.2", "No.4"})
	require.NoError(t, err)

	available, total, err := r.ListAvailableUnits(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)

	open := map[string]bool{}
	var entries []models.RentalEntry
	require.NoError(t, r.DB.Where("status = ?", models.StatusRented).Find(&entries).Error)
	for _, e := range entries {
		open[e.UnitNo] = true
	}

	// disjoint, and together they cover the registry
	for _, u := range available {
		assert.False(t, open[u.UnitNo], "unit %s both open and available", u.UnitNo)
	}
	assert.Equal(t, 5, len(available)+len(open))
}

func TestOpenEntriesByDeptNewestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 3)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1"})
	require.NoError(t, err)
	_, err = r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.2"})
	require.NoError(t, err)
	_, err = r.ClaimUnits(ctx, testRenter("Sales"), []string{"No.3"})
	require.NoError(t, err)

	entries, err := r.OpenEntriesByDept(ctx, "Ops")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "No.2", entries[0].UnitNo)
	assert.Equal(t, "No.1", entries[1].UnitNo)
}

func TestReturnScopedToDepartment(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 1)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1"})
	require.NoError(t, err)

	// wrong department: silently skipped, row stays open
	res, err := r.ReturnUnits(ctx, "Sales", ReturnerInfo{Name: "X"}, []string{"000001"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Returned)
	assert.Len(t, openStatuses(t, r, "No.1"), 1)
}

func TestReturnMatchesUnitNoToo(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 1)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1"})
	require.NoError(t, err)

	res, err := r.ReturnUnits(ctx, "Ops", ReturnerInfo{Name: "Jordan Lee"}, []string{" NO.1 "})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Returned)
}

func TestPurgeOpenEntriesWritesAudit(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBundle(t, r, 2)

	_, err := r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.1"})
	require.NoError(t, err)

	res, err := r.PurgeOpenEntries(ctx, []string{"000001", "000002"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Purged)
	assert.Equal(t, []string{"000002"}, res.Skipped) // never rented, nothing to purge

	// ledger row is gone, unit stays registered, audit row tagged
	assert.Empty(t, openStatuses(t, r, "No.1"))
	units, err := r.ListUnits(ctx)
	require.NoError(t, err)
	assert.Len(t, units, 2)

	var logs []models.ReturnLogEntry
	require.NoError(t, r.DB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.MethodAdminPurge, logs[0].Method)

	// purge does not touch returned rows
	_, err = r.ClaimUnits(ctx, testRenter("Ops"), []string{"No.2"})
	require.NoError(t, err)
	_, err = r.ReturnUnits(ctx, "Ops", ReturnerInfo{Name: "Jordan Lee"}, []string{"000002"})
	require.NoError(t, err)
	res, err = r.PurgeOpenEntries(ctx, []string{"000002"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Purged)
}
