package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() employee.EmployeeService {
	return NewEmployeeService(memory.NewEmployeeRepository(memory.NewStore()), Quota{Sick: 12, Personal: 0})
}

func validRequest(badge, email string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		BadgeID:       badge,
		Name:          "Asha Rao",
		Email:         email,
		EmployeeCode:  "EMP-" + badge,
		Designation:   "engineer",
		Department:    "Platform",
		Mobile:        "+62 812 3456 7890",
		Gender:        "female",
		MaritalStatus: "single",
		DateOfBirth:   "1994-02-11",
		JoiningDate:   "2022-08-01",
		Address:       "Jl. Merdeka 1",
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	got, err := svc.Create(ctx, validRequest("B001", "asha@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 12, got.SickLeave)
	assert.Equal(t, 0, got.PersonalLeave)
	assert.Equal(t, "1994-02-11", got.DateOfBirth)

	_, err = svc.Create(ctx, validRequest("B001", "other@example.com"))
	assert.ErrorIs(t, err, employee.ErrBadgeExists)

	_, err = svc.Create(ctx, validRequest("B002", "ASHA@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	bad := validRequest("B003", "not-an-email")
	bad.DateOfBirth = "11/02/1994"
	_, err = svc.Create(ctx, bad)
	var verr validator.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.ToMap(), "email")
	assert.Contains(t, verr.ToMap(), "dob")
}

func TestGetListUpdateDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	asha, err := svc.Create(ctx, validRequest("B001", "asha@example.com"))
	require.NoError(t, err)
	bala := validRequest("B002", "bala@example.com")
	bala.Name = "Bala"
	bala.Department = "Sales"
	_, err = svc.Create(ctx, bala)
	require.NoError(t, err)

	byBadge, err := svc.GetByBadge(ctx, "B001")
	require.NoError(t, err)
	assert.Equal(t, asha.ID, byBadge.ID)

	sales, err := svc.List(ctx, employee.Filter{Department: "sales"})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Bala", sales[0].Name)

	updated, err := svc.Update(ctx, employee.UpdateEmployeeRequest{ID: asha.ID, Designation: ptr("admin"), SickLeave: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Designation)
	assert.Equal(t, 5, updated.SickLeave)
	assert.Equal(t, "Asha Rao", updated.Name)

	_, err = svc.Update(ctx, employee.UpdateEmployeeRequest{ID: asha.ID, BadgeID: ptr("B002")})
	assert.ErrorIs(t, err, employee.ErrBadgeExists)

	_, err = svc.Update(ctx, employee.UpdateEmployeeRequest{ID: asha.ID, BadgeID: ptr("B001")})
	assert.NoError(t, err, "keeping its own badge is not a conflict")

	require.NoError(t, svc.Delete(ctx, asha.ID))
	_, err = svc.Get(ctx, asha.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, asha.ID), employee.ErrEmployeeNotFound)
}
