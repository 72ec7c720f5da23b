package model

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusError    Status = "error"
)

// Status is the health tier assigned to one job in one evaluation pass.
type Status string

var severity = map[Status]int{
	StatusOK:       0,
	StatusWarning:  1,
	StatusCritical: 2,
	StatusError:    2, // same tier as critical; error means the job record is missing
}

var icons = map[Status]string{
	StatusOK:       "🟢",
	StatusWarning:  "🟡",
	StatusCritical: "🔴",
	StatusError:    "🔴",
}

func IsKnownStatus(status Status) bool {
	_, ok := severity[status]
	return ok
}

// Severity orders statuses ok < warning < critical == error. Unknown
// statuses rank as ok.
func (s Status) Severity() int {
	return severity[s]
}

func (s Status) Icon() string {
	return icons[s]
}

// Worse reports whether s outranks other.
func (s Status) Worse(other Status) bool {
	return s.Severity() > other.Severity()
}
