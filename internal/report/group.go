package report

import "github.com/wipdash/wipdash/internal/api"

// GroupMode selects the outer/inner key pair for nesting the table.
type GroupMode string

const (
	GroupFlat      GroupMode = "flat"
	GroupByClient  GroupMode = "client"       // client -> job
	GroupByJobType GroupMode = "jobType"      // job type -> client
	GroupByJobName GroupMode = "jobName"      // job name -> client
	GroupByTeam    GroupMode = "teamMember"   // team member -> client
	GroupByPurpose GroupMode = "timeCategory" // purpose -> client
)

// GroupModes lists the supported modes in menu order.
var GroupModes = []GroupMode{
	GroupFlat, GroupByClient, GroupByJobType, GroupByJobName,
	GroupByTeam, GroupByPurpose,
}

// Label returns the menu text for a mode.
func (m GroupMode) Label() string {
	switch m {
	case GroupByClient:
		return "By client"
	case GroupByJobType:
		return "By job type"
	case GroupByJobName:
		return "By job"
	case GroupByTeam:
		return "By team member"
	case GroupByPurpose:
		return "By purpose"
	}
	return "All entries"
}

const (
	flatOuterKey = "All Entries"
	flatInnerKey = "All Jobs"
)

// keys maps one log to its (outer, inner) bucket labels. Adding a grouping
// mode means adding a case here; the engine below never changes.
func (m GroupMode) keys(log api.TimeLog) (string, string) {
	switch m {
	case GroupByClient:
		return orDash(log.ClientName), orDash(log.JobName)
	case GroupByJobType:
		return orDash(log.JobTypeName), orDash(log.ClientName)
	case GroupByJobName:
		return orDash(log.JobName), orDash(log.ClientName)
	case GroupByTeam:
		return orDash(log.TeamMemberName), orDash(log.ClientName)
	case GroupByPurpose:
		return orDash(log.PurposeName), orDash(log.ClientName)
	}
	return flatOuterKey, flatInnerKey
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// Bucket is an inner grouping: the logs sharing both keys, in arrival
// order.
type Bucket struct {
	Key  string
	Logs []api.TimeLog
}

// Group is an outer grouping of ordered buckets.
type Group struct {
	Key     string
	Buckets []Bucket
}

// Logs returns every log in the group, bucket by bucket.
func (g Group) Logs() []api.TimeLog {
	var all []api.TimeLog
	for _, b := range g.Buckets {
		all = append(all, b.Logs...)
	}
	return all
}

// GroupLogs partitions logs into ordered two-level buckets. Keys appear in
// first-seen order; every input log lands in exactly one leaf bucket, so
// the union of all buckets reconstructs the input. An explicit sort step,
// not the grouping, decides ordering within a bucket.
func GroupLogs(logs []api.TimeLog, mode GroupMode) []Group {
	var groups []Group
	outerIdx := make(map[string]int)
	innerIdx := make(map[string]map[string]int)

	for _, log := range logs {
		outer, inner := mode.keys(log)

		gi, ok := outerIdx[outer]
		if !ok {
			gi = len(groups)
			outerIdx[outer] = gi
			innerIdx[outer] = make(map[string]int)
			groups = append(groups, Group{Key: outer})
		}

		bi, ok := innerIdx[outer][inner]
		if !ok {
			bi = len(groups[gi].Buckets)
			innerIdx[outer][inner] = bi
			groups[gi].Buckets = append(groups[gi].Buckets, Bucket{Key: inner})
		}

		groups[gi].Buckets[bi].Logs = append(groups[gi].Buckets[bi].Logs, log)
	}

	return groups
}

// SortGrouped applies spec to each leaf bucket independently, keeping the
// group and bucket label order intact.
func SortGrouped(groups []Group, spec SortSpec) {
	for gi := range groups {
		for bi := range groups[gi].Buckets {
			SortLogs(groups[gi].Buckets[bi].Logs, spec)
		}
	}
}
