package domain

import (
	"sort"
	"strconv"
	"time"
)

// Registry is the durable source of truth for who holds which test instance
// and how far along the workflow each participant is. It is persisted as a
// single versioned document; stores serialize updates (see infra packages),
// so the type itself carries no locking.
type Registry struct {
	// Version is the optimistic concurrency stamp bumped on every save.
	Version      int                           `json:"version"`
	Participants map[string]*ParticipantRecord `json:"participants"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Participants: make(map[string]*ParticipantRecord)}
}

// Assign allocates sequential instance ids starting at firstInstanceID, one
// per participant, in the order given. The ordering is caller-determined and
// the allocation is reproducible for a given input ordering. Existing records
// keep their email; a re-assignment overwrites the instance id.
func (r *Registry) Assign(participantIDs []string, firstInstanceID int) map[string]string {
	assigned := make(map[string]string, len(participantIDs))
	next := firstInstanceID
	for _, id := range participantIDs {
		rec, ok := r.Participants[id]
		if !ok {
			rec = &ParticipantRecord{ID: id}
			r.Participants[id] = rec
		}
		rec.InstanceID = strconv.Itoa(next)
		assigned[id] = rec.InstanceID
		next++
	}
	return assigned
}

// SetEmail stores the contact address for a participant, creating the record
// if needed.
func (r *Registry) SetEmail(participantID, email string) {
	rec, ok := r.Participants[participantID]
	if !ok {
		rec = &ParticipantRecord{ID: participantID}
		r.Participants[participantID] = rec
	}
	rec.Email = email
}

// RecordSent marks the assignment email as delivered.
func (r *Registry) RecordSent(participantID string, ts time.Time) error {
	rec, ok := r.Participants[participantID]
	if !ok {
		return ErrParticipantNotFound
	}
	rec.AssignmentSentAt = &ts
	return nil
}

// RecordReceived marks the submission webhook as having fired.
func (r *Registry) RecordReceived(participantID string, ts time.Time) error {
	rec, ok := r.Participants[participantID]
	if !ok {
		return ErrParticipantNotFound
	}
	rec.ResponseReceivedAt = &ts
	return nil
}

// RecordGraded stores the score report. Re-grading a participant overwrites
// the previous report rather than duplicating it, and clears the notified
// timestamp so the new result gets delivered.
func (r *Registry) RecordGraded(participantID string, report ScoreReport, ts time.Time) error {
	rec, ok := r.Participants[participantID]
	if !ok {
		return ErrParticipantNotFound
	}
	rec.Report = &report
	rec.GradedAt = &ts
	rec.GradedNotifiedAt = nil
	return nil
}

// RecordNotified marks the graded-result email as delivered.
func (r *Registry) RecordNotified(participantID string, ts time.Time) error {
	rec, ok := r.Participants[participantID]
	if !ok {
		return ErrParticipantNotFound
	}
	rec.GradedNotifiedAt = &ts
	return nil
}

// Get returns the record for a participant.
func (r *Registry) Get(participantID string) (*ParticipantRecord, bool) {
	rec, ok := r.Participants[participantID]
	return rec, ok
}

// ByInstance finds the participant holding a given instance id.
func (r *Registry) ByInstance(instanceID string) (*ParticipantRecord, bool) {
	for _, rec := range r.Participants {
		if rec.InstanceID == instanceID {
			return rec, true
		}
	}
	return nil, false
}

// ParticipantIDs returns all known participant ids in sorted order, for
// stable iteration in bulk operations.
func (r *Registry) ParticipantIDs() []string {
	ids := make([]string, 0, len(r.Participants))
	for id := range r.Participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone deep-copies the registry so optimistic stores can mutate a scratch
// copy without racing readers.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		Version:      r.Version,
		Participants: make(map[string]*ParticipantRecord, len(r.Participants)),
	}
	for id, rec := range r.Participants {
		cp := *rec
		if rec.Report != nil {
			report := *rec.Report
			report.Lines = append([]ReportLine(nil), rec.Report.Lines...)
			cp.Report = &report
		}
		out.Participants[id] = &cp
	}
	return out
}
