package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

const (
	defaultRole       = "Team Member"
	overloadThreshold = 5
	minSkillBreadth   = 2
	workloadPerTask   = 15
)

// roleTable maps exact lowercase skill names to roles. A member's skills are
// walked by descending proficiency and the first one found here wins.
var roleTable = map[string]string{
	"ui/ux design":         "UX Designer",
	"graphic design":       "Visual Designer",
	"frontend development": "Frontend Developer",
	"backend development":  "Backend Developer",
	"mobile development":   "Mobile Developer",
	"devops":               "DevOps Engineer",
	"data analysis":        "Data Analyst",
	"machine learning":     "ML Engineer",
	"project management":   "Project Manager",
	"quality assurance":    "QA Specialist",
	"user research":        "UX Researcher",
	"technical writing":    "Technical Writer",
}

// roleFallbacks apply, in order, when no skill name is in roleTable.
var roleFallbacks = []struct {
	fragment string
	role     string
}{
	{"design", "Designer"},
	{"develop", "Developer"},
	{"test", "QA Specialist"},
}

const (
	overloadInsight      = "Carrying more than five active tasks; redistribute work to protect focus time."
	crossTrainingInsight = "Narrow skill coverage; pairing on work outside current expertise would broaden task eligibility."
)

var positiveInsights = []string{
	"Consistent delivery on recent tasks; a good fit for high-priority work.",
	"Balanced workload leaves room to mentor teammates.",
	"Strong focus patterns; schedule complex work during peak hours.",
	"Steady collaboration signals across recent tasks.",
}

// DeriveRole picks a display role from skill names ordered by relevance.
func DeriveRole(skillNames []string) string {
	for _, name := range skillNames {
		if role, ok := roleTable[strings.ToLower(strings.TrimSpace(name))]; ok {
			return role
		}
	}
	for _, name := range skillNames {
		lower := strings.ToLower(name)
		for _, fb := range roleFallbacks {
			if strings.Contains(lower, fb.fragment) {
				return fb.role
			}
		}
	}
	return defaultRole
}

// TeamMember is a user enriched for dashboard display.
type TeamMember struct {
	User         domain.User
	Role         string
	Skills       []string
	ActiveTasks  int
	Availability domain.AvailabilityStatus // empty when no record exists
	Workload     int                       // 0-100 percent
	Insight      string
}

// MemberResult is the outcome of enriching one user.
type MemberResult struct {
	UserID int64
	Member *TeamMember
	Err    error
}

// TeamMembersResult holds enriched members and the per-user outcomes.
type TeamMembersResult struct {
	Members []TeamMember
	Results []MemberResult
}

// Failed returns the outcomes whose enrichment failed.
func (r *TeamMembersResult) Failed() []MemberResult {
	var failed []MemberResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// GenerateTeamMembers enriches every user with role, insight and workload.
// A member that cannot be enriched is logged and left out of Members; the
// rest of the list is still returned.
//
// Draws per successful member: one insight pick (only when neither the
// overload nor the cross-training rule applies), then one workload draw.
func (a *InsightAggregator) GenerateTeamMembers(ctx context.Context) (*TeamMembersResult, error) {
	users, err := a.dataSource.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := &TeamMembersResult{
		Members: make([]TeamMember, 0, len(users)),
		Results: make([]MemberResult, 0, len(users)),
	}
	for _, u := range users {
		member, err := a.buildMember(ctx, u)
		result.Results = append(result.Results, MemberResult{UserID: u.ID, Member: member, Err: err})
		if err != nil {
			a.logger.WarnContext(ctx, "skipping team member", "user_id", u.ID, observability.ErrorKey, err)
			continue
		}
		result.Members = append(result.Members, *member)
	}
	return result, nil
}

func (a *InsightAggregator) buildMember(ctx context.Context, u domain.User) (*TeamMember, error) {
	skills, err := a.dataSource.GetUserSkills(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skills: %w", err)
	}
	tasks, err := a.dataSource.GetTasksByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	availability, err := a.dataSource.GetUserAvailability(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	ordered := slices.Clone(skills)
	slices.SortStableFunc(ordered, func(x, y domain.UserSkill) int {
		return cmp.Compare(y.Proficiency, x.Proficiency)
	})
	names := make([]string, 0, len(ordered))
	for _, us := range ordered {
		skill, err := a.dataSource.GetSkill(ctx, us.SkillID)
		if err != nil {
			return nil, fmt.Errorf("failed to get skill %d: %w", us.SkillID, err)
		}
		names = append(names, skill.Name)
	}

	member := &TeamMember{
		User:        u,
		Role:        DeriveRole(names),
		Skills:      names,
		ActiveTasks: domain.CountActive(tasks),
	}
	if availability != nil {
		member.Availability = availability.Status
	}
	member.Insight = a.memberInsight(len(skills), member.ActiveTasks)
	member.Workload = min(100, member.ActiveTasks*workloadPerTask+BoundedRandomMetric(a.rng, 40, 15))
	return member, nil
}

func (a *InsightAggregator) memberInsight(skillCount, activeTasks int) string {
	switch {
	case activeTasks > overloadThreshold:
		return overloadInsight
	case skillCount < minSkillBreadth:
		return crossTrainingInsight
	default:
		i := int(a.rng.Float64() * float64(len(positiveInsights)))
		return positiveInsights[min(i, len(positiveInsights)-1)]
	}
}
