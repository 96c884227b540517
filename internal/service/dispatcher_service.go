package service

import (
	"context"
	"regexp"
	"strings"

	"mueen-assist/internal/models"
	"mueen-assist/internal/nlp"

	"go.uber.org/zap"
)

// SessionRecorder appends one message to the durable session log.
type SessionRecorder interface {
	Append(ctx context.Context, sessionID string, role models.MessageRole, text string) error
}

var (
	bareIntRe    = regexp.MustCompile(`^[0-9]+$`)
	dottedRe     = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
	bareLetterRe = regexp.MustCompile(`^[A-Za-z]$`)
	letterIntRe  = regexp.MustCompile(`^[A-Za-z][0-9]+$`)
)

// maxResumeDepth bounds interrupted-request resumption to one explicit
// re-entry per turn.
const maxResumeDepth = 1

// Dispatcher routes each incoming turn through a fixed priority ladder:
// armed address states first, then armed field collection, then lead
// confirmation, safety, menu selections, service-keyword requests, and
// finally the FAQ path. The order is load-bearing; an armed state always
// consumes the turn before free-text interpretation runs.
type Dispatcher struct {
	text     TextService
	faq      *FAQService
	catalog  *CatalogService
	profile  *ProfileService
	lead     *LeadService
	recorder SessionRecorder
	logger   *zap.Logger
}

func NewDispatcher(text TextService, faq *FAQService, catalog *CatalogService, profile *ProfileService, lead *LeadService, recorder SessionRecorder, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		text:     text,
		faq:      faq,
		catalog:  catalog,
		profile:  profile,
		lead:     lead,
		recorder: recorder,
		logger:   logger,
	}
}

// Handle resolves one user turn into one reply, logging both sides of the
// exchange best-effort.
func (d *Dispatcher) Handle(ctx context.Context, sessionID, message string) string {
	d.record(ctx, sessionID, models.RoleUser, message)
	reply := d.route(ctx, message, 0)
	d.record(ctx, sessionID, models.RoleBot, reply)
	return reply
}

func (d *Dispatcher) route(ctx context.Context, message string, depth int) string {
	profile, err := d.profile.Get()
	if err != nil {
		d.logger.Error("Failed to load profile", zap.Error(err))
		return msgTryLater
	}

	normalized := nlp.Normalize(message)

	// 1. Armed address states consume the turn unconditionally.
	switch profile.Phase {
	case models.PhaseAwaitingHousing:
		reply, _, err := d.profile.SubmitHousing(ctx, message)
		if err != nil {
			d.logger.Error("Housing step failed", zap.Error(err))
			return msgTryLater
		}
		return reply
	case models.PhaseAwaitingHouseNo:
		reply, err := d.profile.SubmitHouseNo(message)
		if err != nil {
			d.logger.Error("House number step failed", zap.Error(err))
			return msgTryLater
		}
		return reply
	case models.PhaseAwaitingAddressNotes:
		return d.finishAddressNotes(ctx, message, depth)
	}

	// 2. Armed field collection consumes the turn unless the user pivots to
	// a fresh service request.
	if profile.PendingField != "" && !nlp.ContainsServiceKeyword(normalized) {
		return d.consumeField(ctx, message, depth)
	}

	// 3. Lead confirmation.
	if profile.Phase == models.PhaseAwaitingConfirmation {
		switch normalized {
		case "نعم":
			return d.lead.SubmitLead(ctx)
		case "لا":
			return d.lead.CancelLead()
		}
	}

	// 4. Safety screen.
	if !d.text.IsSafe(ctx, message) {
		return msgUnsafe
	}

	// 5. Pure numeric selections. Latin letters do not survive selection
	// normalization, so a letter-prefixed pick like "B1" is checked against
	// the digit-folded raw input and left for the funnel steps.
	selection := nlp.NormalizeSelection(message)
	lettered := strings.TrimSpace(nlp.FoldDigits(message))
	if (bareIntRe.MatchString(selection) || dottedRe.MatchString(selection)) && !letterIntRe.MatchString(lettered) {
		if !d.catalog.HasListed() {
			if dottedRe.MatchString(selection) {
				return msgCatalogFirstDotted
			}
			return msgCatalogFirstBare
		}
		return d.applySelection(ctx, d.catalog.ResolveSelection(ctx, selection))
	}

	// 6. Lettered funnel selections, only while the funnel is that far
	// along.
	if bareLetterRe.MatchString(lettered) && d.catalog.ServiceSelected() {
		return d.catalog.SelectNationality(ctx, lettered)
	}
	if letterIntRe.MatchString(lettered) && d.catalog.NationalitySelected() {
		reply, completed := d.catalog.SelectShift(ctx, lettered)
		if completed {
			return d.afterFunnel(ctx, reply)
		}
		return reply
	}

	// 7. Service-keyword requests.
	if nlp.ContainsServiceKeyword(normalized) {
		prompt, needed, err := d.profile.StartCollection(models.ActionServices, message)
		if err != nil {
			d.logger.Error("Failed to arm profile collection", zap.Error(err))
			return msgTryLater
		}
		if needed {
			return prompt
		}
		return d.catalog.ListSectors(ctx)
	}

	// 8. Free text: greeting, translation boundary, FAQ.
	return d.answerFreeText(ctx, message)
}

// consumeField feeds the turn into field collection and, on completion,
// resumes whatever the collection interrupted.
func (d *Dispatcher) consumeField(ctx context.Context, message string, depth int) string {
	reply, done, err := d.profile.SubmitField(ctx, message)
	if err != nil {
		d.logger.Error("Field collection failed", zap.Error(err))
		return msgTryLater
	}
	if !done {
		return reply
	}

	profile, err := d.profile.Get()
	if err != nil {
		d.logger.Error("Failed to reload profile", zap.Error(err))
		return msgTryLater
	}

	switch profile.PendingAction {
	case models.ActionServices:
		if _, err := d.profile.Update(func(p *models.UserProfile) {
			p.PendingAction = models.ActionNone
			p.PendingQuery = ""
		}); err != nil {
			d.logger.Error("Failed to clear pending action", zap.Error(err))
		}
		return msgProfileSaved + d.catalog.ListSectors(ctx)
	case models.ActionLead:
		prompt, err := d.profile.StartAddress(ctx)
		if err != nil {
			d.logger.Error("Failed to arm address collection", zap.Error(err))
			return msgTryLater
		}
		return msgProfileSaved + prompt
	}

	if profile.PendingQuery != "" && depth < maxResumeDepth {
		pending := profile.PendingQuery
		if _, err := d.profile.Update(func(p *models.UserProfile) {
			p.PendingQuery = ""
		}); err != nil {
			d.logger.Error("Failed to clear pending query", zap.Error(err))
		}
		return msgProfileSaved + d.route(ctx, pending, depth+1)
	}
	return strings.TrimRight(msgProfileSaved, "\n")
}

// finishAddressNotes closes the address sub-flow. A pending lead moves to
// confirmation; anything else resumes the interrupted request.
func (d *Dispatcher) finishAddressNotes(ctx context.Context, message string, depth int) string {
	profile, err := d.profile.SubmitAddressNotes(message)
	if err != nil {
		d.logger.Error("Address notes step failed", zap.Error(err))
		return msgTryLater
	}

	if profile.PendingAction == models.ActionLead {
		if _, err := d.profile.Update(func(p *models.UserProfile) {
			p.Phase = models.PhaseAwaitingConfirmation
		}); err != nil {
			d.logger.Error("Failed to arm confirmation", zap.Error(err))
			return msgTryLater
		}
		return msgAddressSaved + msgConfirmOrder
	}

	if profile.PendingQuery != "" && depth < maxResumeDepth {
		pending := profile.PendingQuery
		if _, err := d.profile.Update(func(p *models.UserProfile) {
			p.PendingQuery = ""
		}); err != nil {
			d.logger.Error("Failed to clear pending query", zap.Error(err))
		}
		return msgAddressSaved + d.route(ctx, pending, depth+1)
	}
	return strings.TrimRight(msgAddressSaved, "\n")
}

// applySelection reacts to a resolved menu selection: the escape hatch arms
// the lead flow, a completed funnel hands off to address submission.
func (d *Dispatcher) applySelection(ctx context.Context, outcome SelectionOutcome) string {
	if outcome.StartLead {
		prompt, needed, err := d.profile.StartCollection(models.ActionLead, "طلب خدمة أخرى")
		if err != nil {
			d.logger.Error("Failed to arm lead collection", zap.Error(err))
			return msgTryLater
		}
		if needed {
			return prompt
		}
		addressPrompt, err := d.profile.StartAddress(ctx)
		if err != nil {
			d.logger.Error("Failed to arm address collection", zap.Error(err))
			return msgTryLater
		}
		if _, err := d.profile.Update(func(p *models.UserProfile) {
			p.PendingAction = models.ActionLead
		}); err != nil {
			d.logger.Error("Failed to record pending lead", zap.Error(err))
		}
		return addressPrompt
	}
	if outcome.ShiftCompleted {
		return d.afterFunnel(ctx, outcome.Reply)
	}
	return outcome.Reply
}

// afterFunnel runs the best-effort address hand-off once the funnel
// completes. Failure never changes the package reply.
func (d *Dispatcher) afterFunnel(ctx context.Context, reply string) string {
	if d.lead.SubmitAddress(ctx) {
		return msgAddressSaved + reply
	}
	return reply
}

// answerFreeText is the FAQ path: greeting short-circuit, translation into
// Arabic for non-Arabic turns, retrieval, write-back and translation of the
// answer back out.
func (d *Dispatcher) answerFreeText(ctx context.Context, message string) string {
	greeting, isGreeting, language := d.text.DetectGreeting(ctx, message)
	if isGreeting {
		return greeting
	}

	query := message
	if language != "" && language != "Arabic" {
		translated, err := d.text.Translate(ctx, message, "Arabic")
		if err != nil {
			d.logger.Warn("Inbound translation failed", zap.String("language", language), zap.Error(err))
		} else if translated != "" {
			query = translated
		}
	}

	answer, found := d.faq.Answer(ctx, query)
	if !found {
		return d.translateBack(ctx, msgNoAnswer, language)
	}

	if err := d.faq.SaveOrUpdate(ctx, query, answer); err != nil {
		d.logger.Warn("Corpus write-back failed", zap.Error(err))
	}

	reply := d.translateBack(ctx, answer, language)

	profile, err := d.profile.Get()
	if err == nil && len(profile.MissingFields()) > 0 {
		if prompt, needed, serr := d.profile.StartCollection(models.ActionNone, ""); serr == nil && needed {
			reply += msgCompleteProfileSuffix + "\n" + prompt
		}
	}
	return reply
}

func (d *Dispatcher) translateBack(ctx context.Context, text, language string) string {
	if language == "" || language == "Arabic" {
		return text
	}
	translated, err := d.text.Translate(ctx, text, language)
	if err != nil || translated == "" {
		return text
	}
	return translated
}

func (d *Dispatcher) record(ctx context.Context, sessionID string, role models.MessageRole, text string) {
	if d.recorder == nil || sessionID == "" {
		return
	}
	if err := d.recorder.Append(ctx, sessionID, role, text); err != nil {
		d.logger.Warn("Failed to record session message", zap.String("role", string(role)), zap.Error(err))
	}
}
