package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/osteele/liquid"
	"golang.org/x/sync/errgroup"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/logger"
)

const (
	// stepTimeout bounds any single pipeline step.
	stepTimeout = 60 * time.Second

	// followUpLeadDays is how far out the CRM reminder task is due.
	followUpLeadDays = 2

	// threadContextLimit caps how many prior threads are considered.
	threadContextLimit = 10
)

// draftPromptTemplate renders the generation prompt. Liquid keeps the
// template editable without recompiling.
const draftPromptTemplate = `You are drafting a short outbound sales email.

Recipient: {{ contact_name }} <{{ recipient }}>{% if contact_title != "" %}, {{ contact_title }}{% endif %}
Company: {{ company_name }}{% if industry != "" %} ({{ industry }}){% endif %}
Trigger: {{ trigger }}
Primary call to action: {{ cta }}
Next step plan: {{ plan }}
{% if thread_summary != "" %}Prior conversation: {{ thread_summary }}{% endif %}
{% if patterns != "" %}What has worked before: {{ patterns }}{% endif %}
{% if assets != "" %}Reference material you may link: {{ assets }}{% endif %}
{% if slots != "" %}Offer these meeting times: {{ slots }}{% endif %}

Tone: {{ tone }}
Sign off with: {{ sign_off }}

Write the email as plain text. First line is the subject prefixed "Subject: ",
then a blank line, then the body. Keep it under 150 words. Do not invent
facts not present above.`

var (
	// piiPatterns block a draft outright when matched in generated text.
	ssnPattern        = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	cardPattern       = regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)
	emDashReplacer    = strings.NewReplacer("\u2014", "-", "\u2013", "-")
	whitespaceCleaner = regexp.MustCompile(`[ \t]+\n`)
)

// OrchestratorService runs the signal-to-draft pipeline. It produces draft
// artifacts only; it never sends email.
type OrchestratorService struct {
	logger          logger.Logger
	workflowRepo    domain.WorkflowRepository
	signalRepo      domain.SignalRepository
	contactRepo     domain.ContactRepository
	companyRepo     domain.CompanyRepository
	draftRepo       domain.DraftRepository
	queueRepo       domain.CommandQueueRepository
	settingRepo     domain.SettingRepository
	outcomeRepo     domain.OutcomeRepository
	connectors      *domain.ConnectorRegistry
	approvalService *ApprovalService
	liquidEngine    *liquid.Engine
}

func NewOrchestratorService(
	log logger.Logger,
	workflowRepo domain.WorkflowRepository,
	signalRepo domain.SignalRepository,
	contactRepo domain.ContactRepository,
	companyRepo domain.CompanyRepository,
	draftRepo domain.DraftRepository,
	queueRepo domain.CommandQueueRepository,
	settingRepo domain.SettingRepository,
	outcomeRepo domain.OutcomeRepository,
	connectors *domain.ConnectorRegistry,
	approvalService *ApprovalService,
) *OrchestratorService {
	return &OrchestratorService{
		logger:          log,
		workflowRepo:    workflowRepo,
		signalRepo:      signalRepo,
		contactRepo:     contactRepo,
		companyRepo:     companyRepo,
		draftRepo:       draftRepo,
		queueRepo:       queueRepo,
		settingRepo:     settingRepo,
		outcomeRepo:     outcomeRepo,
		connectors:      connectors,
		approvalService: approvalService,
		liquidEngine:    liquid.NewEngine(),
	}
}

// pipelineState accumulates what the steps gather. Fields are written by at
// most one step; the fan-out steps each own a distinct field.
type pipelineState struct {
	signal  *domain.Signal
	contact *domain.Contact
	company *domain.Company

	dealAmount    float64
	threadRefs    []domain.EmailThreadRef
	threadSummary string
	patterns      string
	assets        []domain.AssetRef
	slots         []domain.TimeRange
	cta           string
	plan          string

	subject string
	body    string
	draft   *domain.DraftEmail
}

// Run executes the pipeline for one workflow. Completed steps recorded in
// the step log are skipped, so a retried task resumes where it failed.
// Returns (false, err) for transient failures so the task runtime retries.
func (s *OrchestratorService) Run(ctx context.Context, workflowID string) (bool, error) {
	workflow, err := s.workflowRepo.Get(ctx, workflowID)
	if err != nil {
		return false, err
	}
	if workflow.Cancelled || workflow.State == domain.WorkflowStateDead {
		return true, nil
	}

	signal, err := s.signalRepo.Get(ctx, workflow.SignalID)
	if err != nil {
		return false, err
	}

	if workflow.State == domain.WorkflowStateTriggered {
		now := time.Now().UTC()
		workflow.State = domain.WorkflowStateProcessing
		workflow.StartedAt = &now
		if err := s.workflowRepo.Update(ctx, workflow); err != nil {
			return false, err
		}
	}

	state := &pipelineState{signal: signal}

	// resume: reload artifacts produced by already-completed steps
	if workflow.StepLog.Completed(domain.StepResolveContact) {
		if err := s.reloadContact(ctx, state); err != nil {
			return false, err
		}
	}

	steps := []struct {
		name domain.StepName
		run  func(context.Context, *domain.Workflow, *pipelineState) error
	}{
		{domain.StepValidatePayload, s.stepValidatePayload},
		{domain.StepResolveContact, s.stepResolveContact},
		// steps 3-7 run as one fan-out block keyed on StepSearchThreads
		{domain.StepSearchThreads, s.stepGatherContext},
		{domain.StepPlanNextStep, s.stepPlanNextStep},
		{domain.StepWriteDraft, s.stepWriteDraft},
		{domain.StepCreateDraft, s.stepCreateExternalDraft},
		{domain.StepFollowUpTask, s.stepCreateFollowUpTask},
	}

	for _, step := range steps {
		if workflow.Cancelled {
			return s.finish(ctx, workflow, domain.WorkflowStateDead)
		}
		if workflow.StepLog.Completed(step.name) {
			continue
		}

		stepCtx, cancel := context.WithTimeout(ctx, stepTimeout)
		err := step.run(stepCtx, workflow, state)
		cancel()

		if err != nil {
			return s.handleStepError(ctx, workflow, step.name, err)
		}

		// the gather block logs its own sub-steps
		if workflow.StepLog.LastStatus(step.name) == nil {
			workflow.AppendStep(step.name, domain.StepStatusOK, "", false)
		}
		if err := s.workflowRepo.Update(ctx, workflow); err != nil {
			return false, err
		}

		// a suppressed recipient ends the pipeline without a draft; the
		// workflow still completes
		if entry := workflow.StepLog.LastStatus(step.name); entry != nil && entry.Status == domain.StepStatusSkipped &&
			step.name == domain.StepResolveContact {
			return s.finish(ctx, workflow, domain.WorkflowStateCompleted)
		}

		// refresh the cancellation flag between steps
		fresh, err := s.workflowRepo.Get(ctx, workflow.ID)
		if err == nil {
			workflow.Cancelled = fresh.Cancelled
		}
	}

	if state.draft != nil {
		if err := s.publish(ctx, workflow, state); err != nil {
			return false, err
		}
	}

	return s.finish(ctx, workflow, domain.WorkflowStateCompleted)
}

// handleStepError records the failure and maps it onto the retry policy:
// transient errors pause the task for another attempt, permanent ones kill
// the workflow. A bad payload can never become valid, so a validation
// failure sends the workflow straight to dead.
func (s *OrchestratorService) handleStepError(ctx context.Context, workflow *domain.Workflow, step domain.StepName, stepErr error) (bool, error) {
	transient := false
	if connErr, ok := domain.AsConnectorError(stepErr); ok {
		transient = connErr.Retryable()
	}
	if errors.Is(stepErr, context.DeadlineExceeded) {
		transient = true
	}
	if step == domain.StepValidatePayload {
		transient = false
	}

	workflow.AppendStep(step, domain.StepStatusFailed, stepErr.Error(), transient)
	if updateErr := s.workflowRepo.Update(ctx, workflow); updateErr != nil {
		s.logger.WithField("workflow_id", workflow.ID).Error("Failed to persist step failure")
	}

	if transient {
		return false, fmt.Errorf("step %s failed: %w", step, stepErr)
	}

	terminal := domain.WorkflowStateFailed
	if step == domain.StepValidatePayload {
		terminal = domain.WorkflowStateDead
	}

	s.compensate(ctx, workflow)
	if _, err := s.finish(ctx, workflow, terminal); err != nil {
		return false, err
	}
	return true, fmt.Errorf("step %s failed permanently: %w", step, stepErr)
}

// compensate rolls back external artifacts after a permanent failure,
// bounded by the rollback window.
func (s *OrchestratorService) compensate(ctx context.Context, workflow *domain.Workflow) {
	draft, err := s.draftRepo.GetByWorkflowID(ctx, workflow.ID)
	if err != nil {
		return
	}
	if time.Since(draft.CreatedAt) > domain.RollbackWindow {
		return
	}
	if draft.ExternalDraftID != "" {
		if err := s.connectors.Email.DeleteDraft(ctx, draft.ExternalDraftID); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"draft_id": draft.ID,
				"error":    err.Error(),
			}).Warn("Failed to delete external draft during compensation")
		}
	}
	if _, err := s.draftRepo.UpdateStatus(ctx, draft.ID, domain.DraftStatusFailed, "workflow failed"); err != nil {
		s.logger.WithField("draft_id", draft.ID).Warn("Failed to mark draft failed during compensation")
	}
}

func (s *OrchestratorService) finish(ctx context.Context, workflow *domain.Workflow, state domain.WorkflowState) (bool, error) {
	now := time.Now().UTC()
	workflow.State = state
	workflow.CompletedAt = &now
	if workflow.Cancelled {
		workflow.State = domain.WorkflowStateDead
	}
	if err := s.workflowRepo.Update(ctx, workflow); err != nil {
		return false, err
	}
	return true, nil
}

// --- steps ---

// stepValidatePayload checks the signal carries a usable email address. A
// missing or malformed address is permanent: retrying the same payload
// cannot fix it.
func (s *OrchestratorService) stepValidatePayload(_ context.Context, _ *domain.Workflow, state *pipelineState) error {
	email := strings.ToLower(strings.TrimSpace(state.signal.Payload.String("email")))
	if email == "" {
		return domain.NewValidationError("signal carries no email address")
	}
	candidate := &domain.Contact{Email: email}
	if err := candidate.Validate(); err != nil {
		return domain.NewValidationError("invalid email address: " + email)
	}
	return nil
}

// stepResolveContact upserts the contact, enriches it from the CRM, and
// loads the company with its open deal value. Suppressed contacts stop the
// pipeline here.
func (s *OrchestratorService) stepResolveContact(ctx context.Context, workflow *domain.Workflow, state *pipelineState) error {
	payload := state.signal.Payload
	contact := &domain.Contact{
		Email:   payload.String("email"),
		Name:    payload.String("name"),
		Company: payload.String("company"),
		Title:   payload.String("title"),
	}

	if crmContact, err := s.connectors.CRM.FindContactByEmail(ctx, contact.Email); err == nil {
		if contact.Name == "" {
			contact.Name = crmContact.Name
		}
		if contact.Company == "" {
			contact.Company = crmContact.Company
		}
		if contact.Title == "" {
			contact.Title = crmContact.Title
		}
		contact.ExternalIDs = domain.StringMap{"crm": crmContact.ID}

		if assoc, err := s.connectors.CRM.Associations(ctx, crmContact.ID); err == nil {
			for _, deal := range assoc.Deals {
				state.dealAmount += deal.Amount
			}
		}
		s.connectors.RecordSuccess("crm")
	} else if connErr, ok := domain.AsConnectorError(err); ok && connErr.Retryable() {
		s.connectors.RecordError("crm", err)
		return err
	}

	if err := s.contactRepo.Upsert(ctx, contact); err != nil {
		return err
	}

	stored, err := s.contactRepo.GetByEmail(ctx, contact.Email)
	if err != nil {
		return err
	}
	state.contact = stored

	if stored.IsSuppressed() {
		workflow.AppendStep(domain.StepResolveContact, domain.StepStatusSkipped,
			fmt.Sprintf("contact suppressed (%s), no draft", stored.Suppressed), false)
		return nil
	}

	if emailDomain := stored.EmailDomain(); emailDomain != "" {
		company := &domain.Company{Domain: emailDomain, Name: stored.Company}
		if crmCompany, err := s.connectors.CRM.FindCompanyByDomain(ctx, emailDomain); err == nil {
			company.Name = crmCompany.Name
			company.Industry = crmCompany.Industry
			if crmCompany.ICPScore > 0 {
				score := crmCompany.ICPScore
				company.ICPScore = &score
			}
		}
		if err := s.companyRepo.Upsert(ctx, company); err != nil {
			return err
		}
		state.company = company
	}

	return nil
}

// stepGatherContext fans out the five independent context steps. They share
// nothing but the read-only contact, so they run concurrently and join
// before planning. Each failure is recorded per step; only transient email
// search failures abort, everything else degrades to skipped.
func (s *OrchestratorService) stepGatherContext(ctx context.Context, workflow *domain.Workflow, state *pipelineState) error {
	group, groupCtx := errgroup.WithContext(ctx)

	type stepResult struct {
		step      domain.StepName
		status    domain.StepStatus
		detail    string
		transient bool
	}
	results := make([]stepResult, 5)

	group.Go(func() error {
		refs, err := s.connectors.Email.SearchThreads(groupCtx, state.contact.Email, threadContextLimit)
		if err != nil {
			if connErr, ok := domain.AsConnectorError(err); ok && connErr.Retryable() {
				s.connectors.RecordError("email", err)
				results[0] = stepResult{domain.StepSearchThreads, domain.StepStatusFailed, err.Error(), true}
				return err
			}
			results[0] = stepResult{domain.StepSearchThreads, domain.StepStatusSkipped, err.Error(), false}
			return nil
		}
		s.connectors.RecordSuccess("email")
		state.threadRefs = refs
		results[0] = stepResult{domain.StepSearchThreads, domain.StepStatusOK, fmt.Sprintf("%d threads", len(refs)), false}
		return nil
	})

	group.Go(func() error {
		// depends only on the search result ordering at render time, so it
		// re-runs the search result lazily after the join when needed; here
		// it reads the newest thread directly when the mailbox supports it
		refs, err := s.connectors.Email.SearchThreads(groupCtx, state.contact.Email, 1)
		if err != nil || len(refs) == 0 {
			results[1] = stepResult{domain.StepReadThread, domain.StepStatusSkipped, "no prior thread", false}
			return nil
		}
		thread, err := s.connectors.Email.GetThread(groupCtx, refs[0].ID)
		if err != nil {
			results[1] = stepResult{domain.StepReadThread, domain.StepStatusSkipped, err.Error(), false}
			return nil
		}
		summary, err := s.summarizeThread(groupCtx, thread)
		if err != nil {
			results[1] = stepResult{domain.StepReadThread, domain.StepStatusSkipped, err.Error(), false}
			return nil
		}
		state.threadSummary = summary
		results[1] = stepResult{domain.StepReadThread, domain.StepStatusOK, "", false}
		return nil
	})

	group.Go(func() error {
		outcomes, err := s.outcomeRepo.ListBySubject(groupCtx, domain.SubjectContact, state.contact.Email)
		if err != nil || len(outcomes) == 0 {
			results[2] = stepResult{domain.StepRecallPatterns, domain.StepStatusSkipped, "no outcome history", false}
			return nil
		}
		state.patterns = describeOutcomes(outcomes)
		results[2] = stepResult{domain.StepRecallPatterns, domain.StepStatusOK, "", false}
		return nil
	})

	group.Go(func() error {
		query := state.contact.Company
		if state.company != nil && state.company.Industry != "" {
			query = state.company.Industry
		}
		if query == "" {
			results[3] = stepResult{domain.StepHuntAssets, domain.StepStatusSkipped, "nothing to search for", false}
			return nil
		}
		allowlist, _ := s.settingRepo.GetStrings(groupCtx, "asset_allowlist")
		assets, err := s.connectors.Assets.Search(groupCtx, query, allowlist)
		if err != nil || len(assets) == 0 {
			results[3] = stepResult{domain.StepHuntAssets, domain.StepStatusSkipped, "no assets found", false}
			return nil
		}
		state.assets = assets
		results[3] = stepResult{domain.StepHuntAssets, domain.StepStatusOK, fmt.Sprintf("%d assets", len(assets)), false}
		return nil
	})

	group.Go(func() error {
		timezone := state.contact.Timezone
		if timezone == "" {
			timezone = "UTC"
		}
		slots, err := s.connectors.Calendar.ProposeSlots(groupCtx, domain.SlotRequest{
			Duration:    30 * time.Minute,
			Count:       3,
			Timezone:    timezone,
			MinLeadDays: 1,
			MaxLeadDays: 3,
		})
		if err != nil || len(slots) == 0 {
			results[4] = stepResult{domain.StepProposeSlots, domain.StepStatusSkipped, "no slots available", false}
			return nil
		}
		state.slots = slots
		results[4] = stepResult{domain.StepProposeSlots, domain.StepStatusOK, fmt.Sprintf("%d slots", len(slots)), false}
		return nil
	})

	groupErr := group.Wait()

	for _, result := range results {
		if result.step == "" {
			continue
		}
		workflow.AppendStep(result.step, result.status, result.detail, result.transient)
	}

	return groupErr
}

// summarizeThread strips HTML from the thread and asks the LLM for a short
// summary.
func (s *OrchestratorService) summarizeThread(ctx context.Context, thread *domain.EmailThread) (string, error) {
	var builder strings.Builder
	for _, message := range thread.Messages {
		body := message.Body
		if message.IsHTML {
			if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
				doc.Find("script, style").Remove()
				body = strings.TrimSpace(doc.Text())
			}
		}
		fmt.Fprintf(&builder, "From %s on %s:\n%s\n\n", message.From, message.Date.Format("2006-01-02"), body)
	}
	return s.connectors.LLM.Summarize(ctx, builder.String())
}

// describeOutcomes renders outcome history into prompt-sized prose.
func describeOutcomes(outcomes []*domain.OutcomeRecord) string {
	counts := make(map[domain.OutcomeKind]int)
	for _, outcome := range outcomes {
		counts[outcome.Kind]++
	}
	parts := make([]string, 0, len(counts))
	for kind, count := range counts {
		parts = append(parts, fmt.Sprintf("%s x%d", kind, count))
	}
	return strings.Join(parts, ", ")
}

// ctaPlans maps each call to action onto the plan line fed to the writer.
var ctaPlans = map[string]string{
	"book_meeting":   "Offer the proposed meeting times and ask for a booking.",
	"reply_for_info": "Reply on the existing thread and ask for the missing details.",
	"share_asset":    "Share the most relevant asset and invite questions.",
	"nurture":        "Send a short introduction email and keep the conversation warm.",
}

// stepPlanNextStep picks the primary call to action from the gathered
// context. The choice is a fixed rule over the context, never a model call,
// so the same workflow always plans the same step: an open thread means we
// reply, a strong-fit company gets a meeting ask, otherwise share material
// or nurture.
func (s *OrchestratorService) stepPlanNextStep(_ context.Context, _ *domain.Workflow, state *pipelineState) error {
	switch {
	case len(state.threadRefs) > 0:
		state.cta = "reply_for_info"
	case state.company != nil && state.company.ICPScore != nil && *state.company.ICPScore >= domain.HighICPThreshold:
		state.cta = "book_meeting"
	case len(state.assets) > 0:
		state.cta = "share_asset"
	default:
		state.cta = "nurture"
	}
	state.plan = ctaPlans[state.cta]
	return nil
}

// stepWriteDraft renders the prompt, generates the email, and sanitizes it.
// A safety violation is permanent: the draft is never produced.
func (s *OrchestratorService) stepWriteDraft(ctx context.Context, _ *domain.Workflow, state *pipelineState) error {
	voice := s.loadVoiceProfile(ctx)

	bindings := map[string]interface{}{
		"contact_name":   state.contact.Name,
		"recipient":      state.contact.Email,
		"contact_title":  state.contact.Title,
		"company_name":   state.contact.Company,
		"industry":       "",
		"trigger":        fmt.Sprintf("%s signal: %s", state.signal.Source, state.signal.Kind),
		"cta":            state.cta,
		"plan":           state.plan,
		"thread_summary": state.threadSummary,
		"patterns":       state.patterns,
		"assets":         describeAssets(state.assets),
		"slots":          describeSlots(state.slots),
		"tone":           voice.Tone,
		"sign_off":       voice.SignOff,
	}
	if state.company != nil {
		bindings["industry"] = state.company.Industry
		if bindings["company_name"] == "" {
			bindings["company_name"] = state.company.Name
		}
	}

	prompt, renderErr := s.liquidEngine.ParseAndRenderString(draftPromptTemplate, bindings)
	if renderErr != nil {
		return fmt.Errorf("failed to render draft prompt: %w", renderErr)
	}

	generated, err := s.connectors.LLM.Generate(ctx, prompt, domain.LLMOptions{MaxTokens: 600})
	if err != nil {
		return err
	}

	subject, body := splitSubject(generated)
	body = sanitizeDraftText(body, voice.BannedPhrases)
	subject = sanitizeDraftText(subject, voice.BannedPhrases)

	if err := scanForPII(body); err != nil {
		return err
	}
	if subject == "" || body == "" {
		return domain.NewValidationError("generated draft is empty")
	}

	state.subject = subject
	state.body = body
	return nil
}

// stepCreateExternalDraft creates the provider draft and persists our
// durable draft row pointing at it.
func (s *OrchestratorService) stepCreateExternalDraft(ctx context.Context, workflow *domain.Workflow, state *pipelineState) error {
	outbound := domain.OutboundEmail{
		To:       state.contact.Email,
		Subject:  state.subject,
		BodyText: state.body,
	}

	externalDraftID, err := s.connectors.Email.CreateDraft(ctx, outbound)
	if err != nil {
		s.connectors.RecordError("email", err)
		return err
	}
	s.connectors.RecordSuccess("email")

	voice := s.loadVoiceProfile(ctx)
	draft := &domain.DraftEmail{
		WorkflowID:      workflow.ID,
		ContactID:       state.contact.ID,
		Recipient:       state.contact.Email,
		Subject:         state.subject,
		BodyText:        state.body,
		Status:          domain.DraftStatusPending,
		ExternalDraftID: externalDraftID,
		Metadata: domain.JSONMap{
			"signal_id": state.signal.ID,
			"cta":       state.cta,
			"plan":      state.plan,
		},
	}
	if voice.ID != "" {
		draft.VoiceProfileID = &voice.ID
	}

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		// compensate the external artifact right away
		if deleteErr := s.connectors.Email.DeleteDraft(ctx, externalDraftID); deleteErr != nil {
			s.logger.WithField("external_draft_id", externalDraftID).Warn("Failed to delete orphaned external draft")
		}
		return err
	}

	state.draft = draft
	return nil
}

// stepCreateFollowUpTask sets a CRM reminder. Failures degrade to skipped:
// a missing reminder never blocks the draft.
func (s *OrchestratorService) stepCreateFollowUpTask(ctx context.Context, workflow *domain.Workflow, state *pipelineState) error {
	crmID := ""
	if state.contact.ExternalIDs != nil {
		crmID = state.contact.ExternalIDs["crm"]
	}
	if crmID == "" {
		workflow.AppendStep(domain.StepFollowUpTask, domain.StepStatusSkipped, "contact has no crm id", false)
		return nil
	}

	dueAt := addBusinessDays(time.Now().UTC(), followUpLeadDays)
	title := fmt.Sprintf("Follow up with %s", state.contact.Email)
	taskID, err := s.connectors.CRM.CreateTask(ctx, crmID, title, dueAt)
	if err != nil {
		workflow.AppendStep(domain.StepFollowUpTask, domain.StepStatusSkipped, err.Error(), false)
		return nil
	}

	if state.draft != nil {
		state.draft.Metadata["crm_task_id"] = taskID
		if err := s.draftRepo.Update(ctx, state.draft); err != nil {
			return err
		}
	}
	return nil
}

// publish creates the scored queue item referencing the draft, then runs
// the auto-approval evaluation.
func (s *OrchestratorService) publish(ctx context.Context, workflow *domain.Workflow, state *pipelineState) error {
	icpScore := 0.0
	strategic := false
	if state.company != nil && state.company.ICPScore != nil {
		icpScore = *state.company.ICPScore
	}
	if state.company != nil {
		accounts, _ := s.settingRepo.GetStrings(ctx, domain.SettingStrategicAccounts)
		for _, account := range accounts {
			if strings.EqualFold(account, state.company.Domain) {
				strategic = true
				break
			}
		}
	}

	targetSegment := false
	if segments, err := s.settingRepo.GetStrings(ctx, domain.SettingTargetSegments); err == nil {
		for _, segment := range segments {
			for _, contactSegment := range state.contact.Segments {
				if strings.EqualFold(segment, contactSegment) {
					targetSegment = true
				}
			}
		}
	}

	impact, err := s.outcomeRepo.SumImpactForContact(ctx, state.contact.ID)
	if err != nil {
		impact = 0
	}

	components := ScoreAPS(APSInput{
		DealAmount:    state.dealAmount,
		SignalAt:      state.signal.ReceivedAt,
		Now:           time.Now().UTC(),
		ActionType:    domain.ActionSendEmail,
		Source:        state.signal.Source,
		ICPScore:      icpScore,
		Strategic:     strategic,
		TargetSegment: targetSegment,
		OutcomeImpact: impact,
	})

	item := &domain.CommandQueueItem{
		Domain:     domain.QueueDomainSales,
		ActionType: domain.ActionSendEmail,
		ActionContext: domain.JSONMap{
			"draft_id":  state.draft.ID,
			"recipient": state.contact.Email,
			"subject":   state.subject,
		},
		APSScore:   components.Score,
		Reasoning:  components.Reasoning(),
		SignalIDs:  domain.StringList{state.signal.ID},
		ReceivedAt: state.signal.ReceivedAt,
	}
	if err := s.queueRepo.Create(ctx, item); err != nil {
		return err
	}

	if _, err := s.approvalService.Evaluate(ctx, state.draft); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"draft_id": state.draft.ID,
			"error":    err.Error(),
		}).Error("Auto-approval evaluation failed")
	}

	return nil
}

// --- helpers ---

func (s *OrchestratorService) loadVoiceProfile(ctx context.Context) domain.VoiceProfile {
	profile := domain.VoiceProfile{
		Tone:    "direct, warm, no fluff",
		SignOff: "Best,\nCasey",
	}
	setting, err := s.settingRepo.Get(ctx, domain.SettingVoiceProfile)
	if err != nil {
		return profile
	}
	if id := setting.Value.String("id"); id != "" {
		profile.ID = id
	}
	if tone := setting.Value.String("tone"); tone != "" {
		profile.Tone = tone
	}
	if signOff := setting.Value.String("sign_off"); signOff != "" {
		profile.SignOff = signOff
	}
	if raw, ok := setting.Value["banned_phrases"].([]interface{}); ok {
		for _, v := range raw {
			if phrase, ok := v.(string); ok {
				profile.BannedPhrases = append(profile.BannedPhrases, phrase)
			}
		}
	}
	return profile
}

// splitSubject separates the "Subject: ..." first line from the body.
func splitSubject(generated string) (string, string) {
	generated = strings.TrimSpace(generated)
	lines := strings.SplitN(generated, "\n", 2)
	subject := strings.TrimSpace(strings.TrimPrefix(lines[0], "Subject:"))
	body := ""
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}
	return subject, body
}

// sanitizeDraftText normalizes generated text: em-dashes become hyphens,
// banned phrases are removed, trailing whitespace is cleaned.
func sanitizeDraftText(text string, bannedPhrases []string) string {
	text = emDashReplacer.Replace(text)
	for _, phrase := range bannedPhrases {
		if phrase == "" {
			continue
		}
		text = strings.ReplaceAll(text, phrase, "")
	}
	text = whitespaceCleaner.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// scanForPII blocks drafts containing SSN or card-like digit runs.
func scanForPII(text string) error {
	if ssnPattern.MatchString(text) {
		return &domain.SafetyViolation{Reason: "draft contains an SSN-like pattern"}
	}
	if cardPattern.MatchString(text) {
		return &domain.SafetyViolation{Reason: "draft contains a card-like digit run"}
	}
	return nil
}

func describeAssets(assets []domain.AssetRef) string {
	if len(assets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(assets))
	for _, asset := range assets {
		parts = append(parts, fmt.Sprintf("%s (%s)", asset.Title, asset.URL))
	}
	return strings.Join(parts, "; ")
}

func describeSlots(slots []domain.TimeRange) string {
	if len(slots) == 0 {
		return ""
	}
	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		parts = append(parts, slot.Start.Format("Mon Jan 2 15:04 MST"))
	}
	return strings.Join(parts, "; ")
}

// addBusinessDays advances a date by n weekdays.
func addBusinessDays(from time.Time, days int) time.Time {
	current := from
	for added := 0; added < days; {
		current = current.AddDate(0, 0, 1)
		if current.Weekday() != time.Saturday && current.Weekday() != time.Sunday {
			added++
		}
	}
	return current
}

// reloadContact restores pipeline state on resume.
func (s *OrchestratorService) reloadContact(ctx context.Context, state *pipelineState) error {
	email := state.signal.Payload.String("email")
	if email == "" {
		return nil
	}
	contact, err := s.contactRepo.GetByEmail(ctx, email)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	state.contact = contact
	if emailDomain := contact.EmailDomain(); emailDomain != "" {
		if company, err := s.companyRepo.GetByDomain(ctx, emailDomain); err == nil {
			state.company = company
		}
	}
	return nil
}
