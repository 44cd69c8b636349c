package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/crmlite/internal/clock"
	departmentdomain "github.com/smallbiznis/crmlite/internal/department/domain"
	"github.com/smallbiznis/crmlite/internal/presale/domain"
	"github.com/smallbiznis/crmlite/internal/presale/repository"
	reportdomain "github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reportsMock struct {
	mock.Mock
}

func (m *reportsMock) BuildReport(ctx context.Context, groupID int64) (*reportdomain.Artifact, error) {
	args := m.Called(ctx, groupID)
	artifact, _ := args.Get(0).(*reportdomain.Artifact)
	return artifact, args.Error(1)
}

func (m *reportsMock) BuildReportAs(ctx context.Context, groupID int64, format reportdomain.Format) (*reportdomain.Artifact, error) {
	args := m.Called(ctx, groupID, format)
	artifact, _ := args.Get(0).(*reportdomain.Artifact)
	return artifact, args.Error(1)
}

type fixture struct {
	db      *gorm.DB
	svc     domain.Service
	clock   *clock.FakeClock
	reports *reportsMock
	node    *snowflake.Node
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&departmentdomain.Department{},
		&domain.Status{},
		&domain.Result{},
		&domain.Region{},
		&domain.GroupStatus{},
		&domain.Group{},
		&domain.PreSale{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2024, time.March, 7, 8, 0, 0, 0, time.UTC))
	reports := &reportsMock{}
	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repository.Provide(),
		Clock:   fc,
		Reports: reports,
	})

	require.NoError(t, db.Create(&[]domain.Status{{ID: 1, Name: "В работе"}, {ID: 2, Name: "Не интересно"}}).Error)
	require.NoError(t, db.Create(&[]domain.Result{{ID: 11, Name: "Успешно"}}).Error)
	require.NoError(t, db.Create(&[]domain.Region{{ID: 21, Name: "Урал"}, {ID: 22, Name: "Сибирь"}}).Error)
	require.NoError(t, db.Create(&[]domain.GroupStatus{{ID: 31, Name: "Активна"}}).Error)
	require.NoError(t, db.Create(&departmentdomain.Department{ID: 5, Name: "Продажи"}).Error)

	return &fixture{db: db, svc: svc, clock: fc, reports: reports, node: node}
}

func (f *fixture) createGroup(t *testing.T, name string) *domain.GroupResponse {
	t.Helper()
	group, err := f.svc.CreateGroup(context.Background(), domain.GroupRequest{Name: name, StatusID: "31"})
	require.NoError(t, err)
	return group
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetPreSale(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "Весна")

	created, err := f.svc.Create(ctx, domain.Request{
		GroupID:      group.ID,
		StatusID:     "1",
		ResultID:     "11",
		RegionID:     strPtr("21"),
		Organization: "  ООО Ромашка ",
	})
	require.NoError(t, err)
	assert.Equal(t, "ООО Ромашка", created.Organization)
	assert.Equal(t, created.CreatedAt, created.ChangedAt)
	require.NotNil(t, created.RegionID)
	assert.Equal(t, "21", *created.RegionID)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, group.ID, got.GroupID)

	exists, err := f.svc.Exists(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreatePreSaleValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "g")

	cases := []struct {
		name string
		req  domain.Request
		err  error
	}{
		{"organization", domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11"}, domain.ErrInvalidOrganization},
		{"group", domain.Request{StatusID: "1", ResultID: "11", Organization: "x"}, domain.ErrInvalidGroup},
		{"unknown group", domain.Request{GroupID: "999", StatusID: "1", ResultID: "11", Organization: "x"}, domain.ErrInvalidGroup},
		{"status", domain.Request{GroupID: group.ID, ResultID: "11", Organization: "x"}, domain.ErrInvalidStatus},
		{"result", domain.Request{GroupID: group.ID, StatusID: "1", Organization: "x"}, domain.ErrInvalidResult},
		{"region", domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "x", RegionID: strPtr("abc")}, domain.ErrInvalidID},
		{"unknown status", domain.Request{GroupID: group.ID, StatusID: "999", ResultID: "11", Organization: "x"}, domain.ErrInvalidStatus},
		{"unknown result", domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "999", Organization: "x"}, domain.ErrInvalidResult},
		{"unknown region", domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "x", RegionID: strPtr("999")}, domain.ErrInvalidRegion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestUpdatePreSale(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "g")

	created, err := f.svc.Create(ctx, domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "a"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	updated, err := f.svc.Update(ctx, created.ID, domain.Request{
		ID:           created.ID,
		GroupID:      group.ID,
		StatusID:     "2",
		ResultID:     "11",
		Organization: "b",
	})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Organization)
	assert.Equal(t, "2", updated.StatusID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, time.Hour, updated.ChangedAt.Sub(created.CreatedAt))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Organization)
}

func TestUpdatePreSaleErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "g")

	created, err := f.svc.Create(ctx, domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "a"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, domain.Request{ID: "123", GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "a"})
	assert.ErrorIs(t, err, domain.ErrIDMismatch)

	_, err = f.svc.Update(ctx, "777", domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Update(ctx, "nope", domain.Request{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestDeletePreSale(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "g")

	created, err := f.svc.Create(ctx, domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "a"})
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := f.svc.Exists(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListByGroup(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first := f.createGroup(t, "first")
	second := f.createGroup(t, "second")

	for _, org := range []string{"a", "b"} {
		_, err := f.svc.Create(ctx, domain.Request{GroupID: first.ID, StatusID: "1", ResultID: "11", Organization: org})
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, domain.Request{GroupID: second.ID, StatusID: "1", ResultID: "11", Organization: "c"})
	require.NoError(t, err)

	items, err := f.svc.ListByGroup(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, first.ID, item.GroupID)
	}

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCategoryLists(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	statuses, err := f.svc.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryResponse{{ID: "1", Name: "В работе"}, {ID: "2", Name: "Не интересно"}}, statuses)

	results, err := f.svc.ListResults(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	regions, err := f.svc.ListRegions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryResponse{{ID: "22", Name: "Сибирь"}, {ID: "21", Name: "Урал"}}, regions)

	groupStatuses, err := f.svc.ListGroupStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryResponse{{ID: "31", Name: "Активна"}}, groupStatuses)
}

func TestGroupLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CreateGroup(ctx, domain.GroupRequest{Name: " ", StatusID: "31"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	_, err = f.svc.CreateGroup(ctx, domain.GroupRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	group, err := f.svc.CreateGroup(ctx, domain.GroupRequest{Name: "Весна", StatusID: "31", DepartmentID: strPtr("5")})
	require.NoError(t, err)
	require.NotNil(t, group.DepartmentID)
	assert.Equal(t, "5", *group.DepartmentID)

	updated, err := f.svc.UpdateGroup(ctx, group.ID, domain.GroupRequest{ID: group.ID, Name: "Лето", StatusID: "31"})
	require.NoError(t, err)
	assert.Equal(t, "Лето", updated.Name)
	assert.Nil(t, updated.DepartmentID)

	_, err = f.svc.UpdateGroup(ctx, group.ID, domain.GroupRequest{ID: "1", Name: "x", StatusID: "31"})
	assert.ErrorIs(t, err, domain.ErrIDMismatch)
	_, err = f.svc.UpdateGroup(ctx, "404", domain.GroupRequest{Name: "x", StatusID: "31"})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)

	groups, err := f.svc.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Лето", groups[0].Name)

	exists, err := f.svc.GroupExists(ctx, group.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := f.svc.DeleteGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, deleted.ID)

	_, err = f.svc.GetGroup(ctx, group.ID)
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestReportDelegatesToReportService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "g")
	groupID, err := snowflake.ParseString(group.ID)
	require.NoError(t, err)

	artifact := &reportdomain.Artifact{Bytes: []byte("x"), Filename: "r.pdf", Format: reportdomain.FormatPDF}
	f.reports.On("BuildReportAs", mock.Anything, groupID.Int64(), reportdomain.FormatPDF).Return(artifact, nil)

	got, err := f.svc.Report(ctx, group.ID, "PDF")
	require.NoError(t, err)
	assert.Same(t, artifact, got)
	f.reports.AssertExpectations(t)
}

func TestReportErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Report(ctx, "12345", "")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)

	_, err = f.svc.Report(ctx, "12345", "docx")
	assert.ErrorIs(t, err, reportdomain.ErrUnsupportedFormat)

	_, err = f.svc.Report(ctx, "abc", "xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	f.reports.AssertNotCalled(t, "BuildReportAs", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePreSaleRejectsUnknownStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "g")

	created, err := f.svc.Create(ctx, domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "a"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, domain.Request{GroupID: group.ID, StatusID: "404", ResultID: "11", Organization: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.StatusID)
}

func TestCreateGroupRejectsUnknownReferences(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CreateGroup(ctx, domain.GroupRequest{Name: "x", StatusID: "404"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.CreateGroup(ctx, domain.GroupRequest{Name: "x", StatusID: "31", DepartmentID: strPtr("404")})
	assert.ErrorIs(t, err, domain.ErrInvalidDepartment)

	groups, err := f.svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDeleteGroupWithRecordsIsRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	group := f.createGroup(t, "g")

	created, err := f.svc.Create(ctx, domain.Request{GroupID: group.ID, StatusID: "1", ResultID: "11", Organization: "a"})
	require.NoError(t, err)

	_, err = f.svc.DeleteGroup(ctx, group.ID)
	assert.ErrorIs(t, err, domain.ErrGroupInUse)

	exists, err := f.svc.GroupExists(ctx, group.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	items, err := f.svc.ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = f.svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.svc.DeleteGroup(ctx, group.ID)
	assert.NoError(t, err)
}
