package reconcile

import (
	"math"
	"regexp"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

// Quota is a pair of per-type day counts.
type Quota struct {
	Sick     int
	Personal int
}

// DefaultEntitlement is granted to every employee.
var DefaultEntitlement = Quota{Sick: employee.DefaultSickLeave, Personal: employee.DefaultPersonalLeave}

type Balance struct {
	Entitlement Quota
	Taken       Quota
	Available   Quota
}

// Bucket is the quota a leave type draws from.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketSick
	BucketPersonal
)

var (
	sickPattern     = regexp.MustCompile(`(?i)sick`)
	personalPattern = regexp.MustCompile(`(?i)personal`)
)

// QuotaBucket matches type names loosely so "Sick Leave" and "sick" both
// draw from the sick quota.
func QuotaBucket(t leave.Type) Bucket {
	switch {
	case sickPattern.MatchString(string(t)):
		return BucketSick
	case personalPattern.MatchString(string(t)):
		return BucketPersonal
	default:
		return BucketNone
	}
}

// InclusiveDays counts the calendar days a span consumes:
// ceil((to - from) / 24h) + 1. A nil to is a single day; a span ending before
// it starts consumes nothing.
func InclusiveDays(from time.Time, to *time.Time) int {
	if to == nil {
		return 1
	}
	diff := to.Sub(from)
	if diff < 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours()/24)) + 1
}

// Deduction is the quota an approved leave consumes.
func Deduction(l leave.Leave) employee.QuotaDeduction {
	if l.From == nil {
		return employee.QuotaDeduction{}
	}
	days := InclusiveDays(*l.From, l.To)
	switch QuotaBucket(l.Type) {
	case BucketSick:
		return employee.QuotaDeduction{Sick: days}
	case BucketPersonal:
		return employee.QuotaDeduction{Personal: days}
	default:
		return employee.QuotaDeduction{}
	}
}

// CalculateBalance recomputes consumption from the approved leaves of one
// employee. Available never goes below zero.
func CalculateBalance(leaves []leave.Leave, entitlement Quota) Balance {
	b := Balance{Entitlement: entitlement}
	for _, l := range leaves {
		if !l.IsApproved() {
			continue
		}
		d := Deduction(l)
		b.Taken.Sick += d.Sick
		b.Taken.Personal += d.Personal
	}
	b.Available = Quota{
		Sick:     max(0, entitlement.Sick-b.Taken.Sick),
		Personal: max(0, entitlement.Personal-b.Taken.Personal),
	}
	return b
}
