package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	svix "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/tidwall/gjson"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/botdetection"
	"github.com/caseyos/caseyos/pkg/crypto"
	"github.com/caseyos/caseyos/pkg/logger"
)

// IngestResult reports what an accepted webhook produced.
type IngestResult struct {
	SignalID  string `json:"signal_id"`
	Duplicate bool   `json:"duplicate"`
	Artifact  string `json:"artifact,omitempty"`
}

// IngestService verifies, dedupes, and classifies inbound signals. Every
// accepted signal becomes exactly one downstream artifact: a workflow, a
// queue item, or an outcome record.
type IngestService struct {
	logger         logger.Logger
	signalRepo     domain.SignalRepository
	workflowRepo   domain.WorkflowRepository
	taskRepo       domain.TaskRepository
	queueRepo      domain.CommandQueueRepository
	outcomeService *OutcomeService
	signingSecrets map[string]string

	backpressureThreshold int
}

func NewIngestService(
	log logger.Logger,
	signalRepo domain.SignalRepository,
	workflowRepo domain.WorkflowRepository,
	taskRepo domain.TaskRepository,
	queueRepo domain.CommandQueueRepository,
	outcomeService *OutcomeService,
	signingSecrets map[string]string,
	backpressureThreshold int,
) *IngestService {
	return &IngestService{
		logger:                log,
		signalRepo:            signalRepo,
		workflowRepo:          workflowRepo,
		taskRepo:              taskRepo,
		queueRepo:             queueRepo,
		outcomeService:        outcomeService,
		signingSecrets:        signingSecrets,
		backpressureThreshold: backpressureThreshold,
	}
}

// VerifySignature checks the webhook payload against the per-source secret.
// Standard-webhooks headers are verified with the svix library; sources that
// sign with a bare HMAC hex digest use X-Signature.
func (s *IngestService) VerifySignature(source domain.SignalSource, payload []byte, headers http.Header) error {
	secret, ok := s.signingSecrets[string(source)]
	if !ok || secret == "" {
		// unsigned sources (manual) are accepted as-is
		return nil
	}

	if headers.Get("webhook-signature") != "" {
		wh, err := svix.NewWebhook(secret)
		if err != nil {
			return &domain.AuthError{Message: "invalid webhook signing secret"}
		}
		if err := wh.Verify(payload, headers); err != nil {
			return &domain.AuthError{Message: "webhook signature verification failed"}
		}
		return nil
	}

	signature := headers.Get("X-Signature")
	if signature == "" {
		return &domain.AuthError{Message: "missing webhook signature"}
	}
	if !crypto.VerifyHMAC256(secret, payload, signature) {
		return &domain.AuthError{Message: "webhook signature mismatch"}
	}
	return nil
}

// Overloaded reports whether non-essential sources should be rejected with
// a 503. Form and CRM signals are always admitted.
func (s *IngestService) Overloaded(ctx context.Context, source domain.SignalSource) (bool, error) {
	if source.Essential() || s.backpressureThreshold <= 0 {
		return false, nil
	}
	depth, err := s.taskRepo.CountRunnable(ctx)
	if err != nil {
		return false, err
	}
	return depth >= s.backpressureThreshold, nil
}

// Ingest stores the signal (dedupe on (source, dedupe_hash)) and routes it.
func (s *IngestService) Ingest(ctx context.Context, source domain.SignalSource, kind string, payload []byte) (*IngestResult, error) {
	if kind == "" {
		kind = gjson.GetBytes(payload, "event_type").String()
	}
	if kind == "" {
		kind = "unknown"
	}

	var payloadMap domain.JSONMap
	if err := payloadMap.Scan(append([]byte(nil), payload...)); err != nil {
		return nil, domain.NewValidationError("webhook payload is not a JSON object")
	}

	signal := &domain.Signal{
		Source:     source,
		Kind:       kind,
		DedupeHash: domain.DedupeHash(source, kind, payload),
		Payload:    payloadMap,
		ReceivedAt: time.Now().UTC(),
	}

	stored, inserted, err := s.signalRepo.InsertIfAbsent(ctx, signal)
	if err != nil {
		return nil, err
	}
	if !inserted {
		s.logger.WithFields(map[string]interface{}{
			"signal_id": stored.ID,
			"source":    source,
		}).Info("Duplicate signal ignored")
		return &IngestResult{SignalID: stored.ID, Duplicate: true}, nil
	}

	artifact, err := s.route(ctx, stored)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"signal_id": stored.ID,
		"source":    source,
		"kind":      kind,
		"artifact":  artifact,
	}).Info("Signal ingested")

	return &IngestResult{SignalID: stored.ID, Artifact: artifact}, nil
}

// ProcessStored routes a stored signal that never produced its artifact,
// used by the catch-up task. Already-processed signals complete immediately.
func (s *IngestService) ProcessStored(ctx context.Context, signalID string) error {
	signal, err := s.signalRepo.Get(ctx, signalID)
	if err != nil {
		return err
	}
	if signal.ProcessedAt != nil {
		return nil
	}
	_, err = s.route(ctx, signal)
	return err
}

// route classifies the signal into its single downstream artifact.
func (s *IngestService) route(ctx context.Context, signal *domain.Signal) (string, error) {
	switch signal.Source {
	case domain.SignalSourceEmail:
		// delivery events feed outcomes and suppression, not new drafts;
		// replies spawn a draft workflow
		if signal.Kind == "reply" || signal.Kind == "inbound_reply" {
			return s.spawnWorkflow(ctx, signal)
		}
		return s.recordEmailOutcome(ctx, signal)

	case domain.SignalSourceForm, domain.SignalSourceCRM, domain.SignalSourceManual:
		return s.spawnWorkflow(ctx, signal)

	case domain.SignalSourceSocial, domain.SignalSourceCalendar:
		return s.createQueueItem(ctx, signal)

	default:
		return "", domain.NewValidationError("unroutable signal source: " + string(signal.Source))
	}
}

// spawnWorkflow creates the workflow row and enqueues the pipeline task in
// one transaction, so a crash cannot orphan either side.
func (s *IngestService) spawnWorkflow(ctx context.Context, signal *domain.Signal) (string, error) {
	workflow := &domain.Workflow{
		SignalID: signal.ID,
		State:    domain.WorkflowStateTriggered,
	}

	err := s.taskRepo.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.workflowRepo.CreateTx(ctx, tx, workflow); err != nil {
			return err
		}

		task := &domain.Task{
			Name:    domain.TaskRunWorkflow,
			Payload: domain.JSONMap{"workflow_id": workflow.ID},
		}
		if err := s.taskRepo.CreateTx(ctx, tx, task); err != nil {
			return err
		}
		workflow.TaskID = &task.ID

		return s.signalRepo.MarkProcessedTx(ctx, tx, signal.ID, &workflow.ID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to spawn workflow: %w", err)
	}

	// persist the task id outside the hot path; a failure here only loses
	// the back-reference
	if err := s.workflowRepo.Update(ctx, workflow); err != nil {
		s.logger.WithField("workflow_id", workflow.ID).Warn("Failed to record workflow task id")
	}

	return "workflow:" + workflow.ID, nil
}

// createQueueItem scores the signal directly onto the command queue. Social
// and calendar signals are operator work, not draft pipelines.
func (s *IngestService) createQueueItem(ctx context.Context, signal *domain.Signal) (string, error) {
	actionType := domain.ActionEngageSocial
	queueDomain := domain.QueueDomainMarketing
	if signal.Source == domain.SignalSourceCalendar {
		actionType = domain.ActionBookMeeting
		queueDomain = domain.QueueDomainSales
	}

	components := ScoreAPS(APSInput{
		SignalAt:   signal.ReceivedAt,
		Now:        time.Now().UTC(),
		ActionType: actionType,
	})

	item := &domain.CommandQueueItem{
		Domain:     queueDomain,
		ActionType: actionType,
		ActionContext: domain.JSONMap{
			"signal_id": signal.ID,
			"payload":   map[string]interface{}(signal.Payload),
		},
		APSScore:   components.Score,
		Reasoning:  components.Reasoning(),
		SignalIDs:  domain.StringList{signal.ID},
		ReceivedAt: signal.ReceivedAt,
	}
	if err := s.queueRepo.Create(ctx, item); err != nil {
		return "", err
	}
	if err := s.signalRepo.MarkProcessed(ctx, signal.ID, nil); err != nil {
		return "", err
	}
	return "queue_item:" + item.ID, nil
}

// emailEventOutcomes maps provider delivery events onto the outcome taxonomy.
var emailEventOutcomes = map[string]domain.OutcomeKind{
	"delivered":   domain.OutcomeEmailDelivered,
	"open":        domain.OutcomeEmailOpened,
	"opened":      domain.OutcomeEmailOpened,
	"click":       domain.OutcomeEmailClicked,
	"clicked":     domain.OutcomeEmailClicked,
	"bounce":      domain.OutcomeEmailBounced,
	"bounced":     domain.OutcomeEmailBounced,
	"complaint":   domain.OutcomeEmailUnsubscribed,
	"unsubscribe": domain.OutcomeEmailUnsubscribed,
}

// recordEmailOutcome turns a delivery event into an outcome record with its
// feedback effects (suppression, reply whitelisting).
func (s *IngestService) recordEmailOutcome(ctx context.Context, signal *domain.Signal) (string, error) {
	kind, ok := emailEventOutcomes[signal.Kind]
	if !ok {
		// unknown delivery events are stored as signals but produce nothing
		if err := s.signalRepo.MarkProcessed(ctx, signal.ID, nil); err != nil {
			return "", err
		}
		return "ignored", nil
	}

	// opens and clicks from link scanners are not engagement
	if kind == domain.OutcomeEmailOpened || kind == domain.OutcomeEmailClicked {
		ua := signal.Payload.String("user_agent")
		if ua != "" && botdetection.IsBotUserAgent(ua) {
			if err := s.signalRepo.MarkProcessed(ctx, signal.ID, nil); err != nil {
				return "", err
			}
			return "ignored", nil
		}
	}

	recipient := signal.Payload.String("recipient")
	if recipient == "" {
		recipient = signal.Payload.String("email")
	}

	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectContact,
		SubjectID:   recipient,
		Kind:        kind,
		Source:      domain.OutcomeSourceAuto,
		DetectedAt:  signal.ReceivedAt,
		Details:     domain.JSONMap{"signal_id": signal.ID},
	}
	if draftID := signal.Payload.String("draft_id"); draftID != "" {
		record.SubjectKind = domain.SubjectDraft
		record.SubjectID = draftID
	}

	if err := s.outcomeService.Record(ctx, record); err != nil {
		return "", err
	}
	if err := s.signalRepo.MarkProcessed(ctx, signal.ID, nil); err != nil {
		return "", err
	}
	return "outcome:" + record.ID, nil
}
