package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidAvailability = errors.New("invalid availability status")

// User is a team member who can be assigned tasks.
type User struct {
	ID     int64
	Name   string
	Email  string
	Avatar string
}

// Skill is an entry of the team skill catalog.
type Skill struct {
	ID       int64
	Name     string
	Category string
}

// MinProficiency and MaxProficiency bound UserSkill.Proficiency.
const (
	MinProficiency = 1
	MaxProficiency = 5
)

// UserSkill links a user to a skill with a 1-5 proficiency.
type UserSkill struct {
	UserID      int64
	SkillID     int64
	Proficiency int
}

// AvailabilityStatus is a user's current capacity to take work.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityLimited     AvailabilityStatus = "LIMITED"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
)

// ParseAvailabilityStatus creates an AvailabilityStatus from a string.
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch st := AvailabilityStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case AvailabilityAvailable, AvailabilityLimited, AvailabilityUnavailable:
		return st, nil
	default:
		return "", ErrInvalidAvailability
	}
}

func (s AvailabilityStatus) String() string { return string(s) }

// Availability is the current availability record of a user.
type Availability struct {
	UserID int64
	Status AvailabilityStatus
}

// IsAvailable reports whether the record is AVAILABLE. A nil record is not.
func (a *Availability) IsAvailable() bool {
	return a != nil && a.Status == AvailabilityAvailable
}

// AnalyticMetric names a recorded user metric.
type AnalyticMetric string

const (
	MetricPerformance AnalyticMetric = "PERFORMANCE"
	MetricFocus       AnalyticMetric = "FOCUS"
)

// UserAnalytic is one recorded 0-100 metric value for a user.
type UserAnalytic struct {
	UserID     int64
	Metric     AnalyticMetric
	Value      float64
	RecordedAt time.Time
}

// IsPerformanceSignal reports whether the metric feeds cognitive fit.
func (a UserAnalytic) IsPerformanceSignal() bool {
	return a.Metric == MetricPerformance || a.Metric == MetricFocus
}

// LatestPerformanceSignal returns the most recently recorded PERFORMANCE or
// FOCUS analytic. Equal timestamps keep the earlier entry.
func LatestPerformanceSignal(analytics []UserAnalytic) (UserAnalytic, bool) {
	var latest UserAnalytic
	found := false
	for _, a := range analytics {
		if !a.IsPerformanceSignal() {
			continue
		}
		if !found || a.RecordedAt.After(latest.RecordedAt) {
			latest = a
			found = true
		}
	}
	return latest, found
}
