package progress

import (
	"time"

	"github.com/google/uuid"
)

// StepID identifies a pipeline step.
type StepID string

const (
	StepNginx        StepID = "nginx"
	StepCertbot      StepID = "certbot"
	StepNginxConfig  StepID = "nginx_config"
	StepNginxRestart StepID = "nginx_restart"
)

// Steps lists the pipeline steps in execution order.
var Steps = []StepID{StepNginx, StepCertbot, StepNginxConfig, StepNginxRestart}

// Label returns the human-readable label of a step.
func (id StepID) Label() string {
	switch id {
	case StepNginx:
		return "Starting Nginx container"
	case StepCertbot:
		return "Requesting Let's Encrypt certificate"
	case StepNginxConfig:
		return "Updating Nginx configuration"
	case StepNginxRestart:
		return "Restarting Nginx container"
	default:
		return string(id)
	}
}

// Status is the state of a single step.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailure
}

// Step is the record of one pipeline step.
type Step struct {
	ID        StepID    `json:"id"`
	Label     string    `json:"label"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Result is the run-level outcome. Both fields are zero while the run is in progress.
type Result struct {
	Complete bool   `json:"complete"`
	Error    string `json:"error,omitempty"`
}

// Certificate describes the certificate issued during the run.
type Certificate struct {
	Subject   string    `json:"subject"`
	DNSNames  []string  `json:"dns_names,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
}

// Snapshot is a consistent, read-only copy of a tracker.
type Snapshot struct {
	RunID       uuid.UUID    `json:"run_id"`
	Domain      string       `json:"domain"`
	Steps       []Step       `json:"steps"`
	Active      StepID       `json:"active,omitempty"`
	Result      Result       `json:"result"`
	Certificate *Certificate `json:"certificate,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  *time.Time   `json:"finished_at,omitempty"`
}

// Terminal reports whether the run has finished, successfully or not.
func (s Snapshot) Terminal() bool {
	return s.Result.Complete || s.Result.Error != ""
}

// Step returns the record for id.
func (s Snapshot) Step(id StepID) (Step, bool) {
	for _, st := range s.Steps {
		if st.ID == id {
			return st, true
		}
	}
	return Step{}, false
}

// Transition is one applied status change, kept in order by the tracker.
type Transition struct {
	Step StepID    `json:"step"`
	From Status    `json:"from"`
	To   Status    `json:"to"`
	At   time.Time `json:"at"`
}
