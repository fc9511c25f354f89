package domain

// SyncReport summarizes one suite's catalog reconciliation.
type SyncReport struct {
	Suite         string
	Created       int
	Updated       int
	Deactivated   int
	TotalInSource int
}

// Unchanged reports whether the run produced no catalog changes.
// A second run over identical source data must be unchanged.
func (r SyncReport) Unchanged() bool {
	return r.Created == 0 && r.Updated == 0 && r.Deactivated == 0
}
