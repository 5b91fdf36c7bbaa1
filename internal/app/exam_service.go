// Package app contains the test workflow use cases: assigning instances,
// sending assignments, and grading inbound submissions.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"repeater-test-service/internal/domain"
	"repeater-test-service/internal/grading"
	"repeater-test-service/internal/normalize"
)

// SolutionKeys resolves an instance id to its part-one solution key.
// Implementations are pure reads over an immutable, load-once solution set.
type SolutionKeys interface {
	Key(ctx context.Context, instanceID string) (domain.SolutionKey, error)
}

// RegistryStore persists the assignment registry. Update must serialize
// read-modify-write cycles (mutex, advisory lock, or version CAS) so two
// near-simultaneous grading passes cannot clobber each other's records.
type RegistryStore interface {
	Load(ctx context.Context) (*domain.Registry, error)
	Update(ctx context.Context, fn func(*domain.Registry) error) error
}

// AuditLog records one summary line per grading pass, append-only.
type AuditLog interface {
	Append(ctx context.Context, line string) error
}

// Message is the email collaborator contract: the collaborator owns delivery,
// retries, and provider specifics.
type Message struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer delivers a message or reports failure. Delivery failures are never
// fatal to grading.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Links holds the URL templates embedded in assignment emails. Templates use
// {mapId} and {participantId} placeholders.
type Links struct {
	MapURLTemplate  string
	FormURLTemplate string
	FromAddress     string
}

// ExamService wires the grading pipeline: normalize, resolve instance, score,
// persist, audit, notify. Solution data is immutable after construction; all
// registry mutations go through the store's serialized Update.
type ExamService struct {
	catalog    *domain.Catalog
	scenarios  domain.ScenarioSolutionSet
	keys       SolutionKeys
	registry   RegistryStore
	normalizer *normalize.Normalizer
	grader     *grading.Grader
	audit      AuditLog
	mailer     Mailer
	feed       *ResultFeed
	links      Links
	logger     *slog.Logger
	clock      func() time.Time
}

// Options carries the optional collaborators of the service.
type Options struct {
	Audit  AuditLog
	Mailer Mailer
	Links  Links
	Logger *slog.Logger
	Clock  func() time.Time
}

func NewExamService(catalog *domain.Catalog, policy grading.Policy, scenarios domain.ScenarioSolutionSet, keys SolutionKeys, registry RegistryStore, opts Options) *ExamService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &ExamService{
		catalog:    catalog,
		scenarios:  scenarios,
		keys:       keys,
		registry:   registry,
		normalizer: normalize.New(catalog),
		grader:     grading.New(catalog, policy),
		audit:      opts.Audit,
		mailer:     opts.Mailer,
		feed:       NewResultFeed(),
		links:      opts.Links,
		logger:     opts.Logger,
		clock:      opts.Clock,
	}
}

// Feed exposes the live results feed for transport subscribers.
func (s *ExamService) Feed() *ResultFeed { return s.feed }

// Catalog exposes the immutable catalog for transports and commands.
func (s *ExamService) Catalog() *domain.Catalog { return s.catalog }

// Registry returns the current registry snapshot.
func (s *ExamService) Registry(ctx context.Context) (*domain.Registry, error) {
	return s.registry.Load(ctx)
}

// HandleSubmission runs one grading pass over a raw webhook payload.
// Any stage failure aborts the pass before anything is persisted; a graded
// result that cannot be emailed is still persisted, with the missing
// notification timestamp as the redelivery signal.
func (s *ExamService) HandleSubmission(ctx context.Context, rawFields map[string]string) (domain.GradedResult, error) {
	fields := normalize.StripFieldPrefixes(rawFields)
	participantID := strings.TrimSpace(fields[normalize.FieldParticipant])
	instanceID := strings.TrimSpace(fields[normalize.FieldInstance])
	if participantID == "" {
		return domain.GradedResult{}, &domain.MalformedResponseError{Part: normalize.FieldParticipant}
	}
	if instanceID == "" {
		return domain.GradedResult{}, &domain.MalformedResponseError{Part: normalize.FieldInstance}
	}

	resp, err := s.normalizer.Normalize(fields)
	if err != nil {
		return domain.GradedResult{}, err
	}

	key, err := s.keys.Key(ctx, instanceID)
	if err != nil {
		return domain.GradedResult{}, err
	}

	report := s.grader.Grade(instanceID, resp, key, s.scenarios)
	now := s.clock()

	err = s.registry.Update(ctx, func(reg *domain.Registry) error {
		if _, ok := reg.Get(participantID); !ok {
			// Submissions from participants outside the roster are graded
			// and recorded; the registry is the audit trail either way.
			reg.Participants[participantID] = &domain.ParticipantRecord{ID: participantID, InstanceID: instanceID}
		}
		if err := reg.RecordReceived(participantID, now); err != nil {
			return err
		}
		return reg.RecordGraded(participantID, report, now)
	})
	if err != nil {
		return domain.GradedResult{}, fmt.Errorf("persist grading for %s: %w", participantID, err)
	}

	result := domain.GradedResult{
		ParticipantID:  participantID,
		InstanceID:     instanceID,
		PartOnePercent: report.PartOnePercent,
		PartTwoPercent: report.PartTwoPercent,
		GradedAt:       now,
	}

	if s.audit != nil {
		line := fmt.Sprintf("%s participant=%s instance=%s partOne=%d%% partTwo=%d%%",
			now.UTC().Format(time.RFC3339), participantID, instanceID,
			report.PartOnePercent, report.PartTwoPercent)
		if err := s.audit.Append(ctx, line); err != nil {
			s.logger.Error("audit append failed", "participant", participantID, "error", err)
		}
	}

	s.feed.Publish(result)
	s.notifyGraded(ctx, participantID, report)

	return result, nil
}

// notifyGraded emails the rendered report. Failure is logged and leaves the
// notified timestamp unset.
func (s *ExamService) notifyGraded(ctx context.Context, participantID string, report domain.ScoreReport) {
	if s.mailer == nil {
		return
	}
	reg, err := s.registry.Load(ctx)
	if err != nil {
		s.logger.Error("load registry for notification", "error", err)
		return
	}
	rec, ok := reg.Get(participantID)
	if !ok || rec.Email == "" {
		s.logger.Warn("no email on file, skipping result notification", "participant", participantID)
		return
	}

	msg := Message{
		From:     s.links.FromAddress,
		To:       []string{rec.Email},
		Subject:  fmt.Sprintf("Repeater Test Results for Map ID %s", report.InstanceID),
		HTMLBody: "<pre>" + grading.Render(report) + "</pre>",
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("result notification failed", "participant", participantID, "error", err)
		return
	}
	now := s.clock()
	if err := s.registry.Update(ctx, func(reg *domain.Registry) error {
		return reg.RecordNotified(participantID, now)
	}); err != nil {
		s.logger.Error("record notification timestamp", "participant", participantID, "error", err)
	}
}

// Assign allocates sequential instance ids to the roster, in roster order.
func (s *ExamService) Assign(ctx context.Context, roster []domain.RosterEntry, firstInstanceID int) (map[string]string, error) {
	var assigned map[string]string
	err := s.registry.Update(ctx, func(reg *domain.Registry) error {
		ids := make([]string, len(roster))
		for i, entry := range roster {
			ids[i] = entry.ID
			if entry.Email != "" {
				reg.SetEmail(entry.ID, entry.Email)
			}
		}
		assigned = reg.Assign(ids, firstInstanceID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("assign instances: %w", err)
	}
	return assigned, nil
}

// SendAssignments emails each participant their map link, instance id, and
// prefilled form link. Participants with no email or no instance are logged
// and skipped; one bad record must not block the rest of the roster.
func (s *ExamService) SendAssignments(ctx context.Context, participantIDs []string) error {
	if s.mailer == nil {
		return fmt.Errorf("no mailer configured")
	}
	reg, err := s.registry.Load(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if len(participantIDs) == 0 {
		participantIDs = reg.ParticipantIDs()
	}

	for _, id := range participantIDs {
		rec, ok := reg.Get(id)
		if !ok {
			s.logger.Error("participant has no registry entry", "participant", id)
			continue
		}
		if rec.InstanceID == "" {
			s.logger.Error("participant has no assigned instance", "participant", id)
			continue
		}
		if rec.Email == "" {
			s.logger.Error("participant has no email address", "participant", id)
			continue
		}

		mapLink := s.expandLink(s.links.MapURLTemplate, id, rec.InstanceID)
		formLink := s.expandLink(s.links.FormURLTemplate, id, rec.InstanceID)
		msg := Message{
			From:     s.links.FromAddress,
			To:       []string{rec.Email},
			Subject:  fmt.Sprintf("Repeater Locations Test: Your Map ID is %s", rec.InstanceID),
			HTMLBody: fmt.Sprintf(
				`1. Your customized repeater test map PDF: <a href="%s">Click Here</a><br>`+
					`2. Your Map ID: %s<br>`+
					`3. The test: <a href="%s">Click Here</a>`,
				mapLink, rec.InstanceID, formLink),
		}
		s.logger.Info("sending assignment", "participant", id, "instance", rec.InstanceID)
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Error("assignment email failed", "participant", id, "error", err)
			continue
		}
		now := s.clock()
		if err := s.registry.Update(ctx, func(reg *domain.Registry) error {
			return reg.RecordSent(id, now)
		}); err != nil {
			s.logger.Error("record assignment sent", "participant", id, "error", err)
		}
	}
	return nil
}

func (s *ExamService) expandLink(template, participantID, instanceID string) string {
	link := strings.ReplaceAll(template, "{participantId}", participantID)
	return strings.ReplaceAll(link, "{mapId}", instanceID)
}
