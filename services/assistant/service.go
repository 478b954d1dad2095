// File: services/assistant/service.go
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"jetset/models"
	"jetset/services/booking"
	"jetset/utils"

	"go.uber.org/zap"
)

// ProcessMessage runs one turn of the dialogue: recall, understand, act on
// the booking core, answer, remember.
func (s *DefaultAssistantService) ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	logger := utils.GetLogger()
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return &models.ChatResponse{Reply: emptyText, Intent: IntentChat}, nil
	}

	// 1) Load the conversation window.
	history, err := s.memory.History(ctx, req.UserID)
	if err != nil {
		logger.Warn("conversation history unavailable", zap.String("userID", req.UserID), zap.Error(err))
	}

	// 2) Language-understanding step.
	ex, err := s.extractor.Extract(ctx, history, text)
	if err != nil {
		logger.Error("intent extraction failed", zap.String("userID", req.UserID), zap.Error(err))
		ex = &Extraction{Intent: IntentChat}
	}

	// 3) Act on it.
	resp := s.dispatch(ctx, req.UserID, ex)

	// 4) Remember both sides of the exchange.
	now := time.Now()
	if err := s.memory.Append(ctx, req.UserID,
		models.Turn{Role: "user", Text: text, At: now},
		models.Turn{Role: "assistant", Text: resp.Reply, At: now},
	); err != nil {
		logger.Warn("conversation memory write failed", zap.String("userID", req.UserID), zap.Error(err))
	}
	return resp, nil
}

func (s *DefaultAssistantService) dispatch(ctx context.Context, userID string, ex *Extraction) *models.ChatResponse {
	switch ex.Intent {
	case IntentGreeting:
		return &models.ChatResponse{Reply: greetingText, Intent: ex.Intent}
	case IntentHelp:
		return &models.ChatResponse{Reply: helpText, Intent: ex.Intent}
	case IntentPackages:
		pkgs, err := s.kb.Packages(ctx)
		if err != nil {
			utils.GetLogger().Warn("package listing failed", zap.Error(err))
		}
		return &models.ChatResponse{Reply: renderPackages(pkgs), Intent: ex.Intent}
	case IntentLocation:
		return &models.ChatResponse{Reply: renderLocation(s.kb.Location()), Intent: ex.Intent}
	case IntentFAQ:
		return &models.ChatResponse{Reply: renderFAQ(s.kb.FAQ()), Intent: ex.Intent}
	case IntentAbout:
		return &models.ChatResponse{Reply: renderAbout(s.kb.About()), Intent: ex.Intent}
	case IntentSummary:
		return s.handleSummary(userID)
	case IntentCancel:
		return s.handleCancel(userID)
	case IntentPrice:
		return s.priceReply(ctx, userID, nil)
	case IntentConfirm:
		return s.handleConfirm(ctx, userID)
	case IntentBook:
		return s.handleBooking(ctx, userID, ex)
	}
	// Plain chat that still carries booking details is booking.
	if len(ex.Updates) > 0 || ex.DateExpression != "" {
		return s.handleBooking(ctx, userID, ex)
	}
	return &models.ChatResponse{Reply: helpText, Intent: IntentChat}
}

// handleBooking applies extracted field updates one by one and asks the
// single next missing detail, or quotes when the draft is complete.
func (s *DefaultAssistantService) handleBooking(ctx context.Context, userID string, ex *Extraction) *models.ChatResponse {
	logger := utils.GetLogger()

	draft, err := s.bookSvc.GetOrCreate(userID)
	if err != nil {
		logger.Error("get or create draft failed", zap.String("userID", userID), zap.Error(err))
		return &models.ChatResponse{Reply: fallbackText, Intent: IntentBook}
	}

	var notes []string
	updates := ex.Updates

	if ex.DateExpression != "" {
		resolved, rerr := s.clock.ResolveRelative(ex.DateExpression, s.clock.NowLocal())
		if rerr != nil {
			reply := joinLines(append(notes,
				"I couldn't pin down that date. "+askFor(models.FieldDateTime, draft.Activity)))
			return &models.ChatResponse{Reply: reply, Intent: IntentBook, Ask: models.FieldDateTime, Draft: s.snapshot(userID)}
		}
		updates = append(updates, models.FieldUpdate{
			Field: models.FieldDateTime,
			Value: resolved.Format("2006-01-02 15:04"),
		})
		notes = append(notes, renderDateEcho(resolved))
	}

	curActivity := draft.Activity
	var last *booking.UpdateResult
	for _, upd := range updates {
		field := upd.Field
		value := strings.TrimSpace(upd.Value)
		if field == "" || value == "" {
			continue
		}
		// A seat count names a buggy model wherever the extractor filed it.
		// Quads keep it as quantity so the core can explain the mixup.
		if field == models.FieldQuantity && booking.LooksLikeSeatDescriptor(value) && curActivity != models.ActivityQuad {
			field = models.FieldVehicleModel
		}

		res, uerr := s.bookSvc.Update(userID, field, value)
		if uerr != nil {
			msg, ask := s.renderUpdateError(uerr, curActivity)
			return &models.ChatResponse{
				Reply:  joinLines(append(notes, msg)),
				Intent: IntentBook,
				Ask:    ask,
				Draft:  s.snapshot(userID),
			}
		}
		last = res
		curActivity = res.Draft.Activity
		if res.Change.Previous != "" && res.Change.Previous != res.Change.Current {
			notes = append(notes, renderChange(res.Change))
		}
	}

	if last == nil {
		// Booking talk with nothing usable in it; ask where we left off.
		if next, more := booking.NextMissingField(draft); more {
			return &models.ChatResponse{
				Reply:  joinLines(append(notes, askFor(next, draft.Activity))),
				Intent: IntentBook,
				Ask:    next,
				Draft:  s.snapshot(userID),
			}
		}
		return s.priceReply(ctx, userID, notes)
	}

	if last.Complete {
		return s.priceReply(ctx, userID, notes)
	}
	return &models.ChatResponse{
		Reply:  joinLines(append(notes, askFor(last.NextMissing, curActivity))),
		Intent: IntentBook,
		Ask:    last.NextMissing,
		Draft:  s.snapshot(userID),
	}
}

// priceReply quotes the draft, running the knowledge-base fallback when the
// static catalog has no price for the combination.
func (s *DefaultAssistantService) priceReply(ctx context.Context, userID string, notes []string) *models.ChatResponse {
	logger := utils.GetLogger()

	_, err := s.bookSvc.ComputePrice(userID)
	if err != nil {
		var np *booking.NeedsPricing
		var verr *booking.ValidationError
		var serr *booking.StateError
		switch {
		case errors.As(err, &np):
			base, kerr := s.kb.LookupPrice(ctx, np.Activity, np.VehicleModel, np.DurationMin)
			if kerr != nil {
				logger.Warn("knowledge base had no price",
					zap.String("activity", string(np.Activity)),
					zap.String("model", np.VehicleModel),
					zap.Int("durationMin", np.DurationMin),
					zap.Error(kerr))
				return &models.ChatResponse{
					Reply:  joinLines(append(notes, s.steerToListedPackages(ctx, np))),
					Intent: IntentPrice,
					Draft:  s.snapshot(userID),
				}
			}
			if _, err := s.bookSvc.ComputePriceWithBase(userID, base); err != nil {
				logger.Error("pricing with resupplied base failed", zap.String("userID", userID), zap.Error(err))
				return &models.ChatResponse{Reply: fallbackText, Intent: IntentPrice}
			}
		case errors.As(err, &verr) && verr.Kind == booking.KindIncomplete:
			activity := models.Activity("")
			if d, derr := s.bookSvc.GetOrCreate(userID); derr == nil {
				activity = d.Activity
			}
			return &models.ChatResponse{
				Reply:  joinLines(append(notes, askFor(verr.Missing, activity))),
				Intent: IntentBook,
				Ask:    verr.Missing,
				Draft:  s.snapshot(userID),
			}
		case errors.As(err, &serr) && serr.Kind == booking.KindNoActiveDraft:
			return &models.ChatResponse{
				Reply:  "You don't have a booking in progress. Tell me what you'd like to book!",
				Intent: IntentPrice,
			}
		case errors.As(err, &serr) && serr.Kind == booking.KindAlreadyConfirmed:
			return &models.ChatResponse{
				Reply:  "That booking is already confirmed. Say \"book\" to start a new one.",
				Intent: IntentPrice,
			}
		default:
			logger.Error("compute price failed", zap.String("userID", userID), zap.Error(err))
			return &models.ChatResponse{Reply: fallbackText, Intent: IntentPrice}
		}
	}

	snap := s.snapshot(userID)
	return &models.ChatResponse{
		Reply:  joinLines(append(notes, renderBreakdown(snap))),
		Intent: IntentPrice,
		Draft:  snap,
	}
}

// steerToListedPackages keeps the conversation moving when even the knowledge
// base has no rate: offer the closest ready-to-book combinations instead of a
// dead end.
func (s *DefaultAssistantService) steerToListedPackages(ctx context.Context, np *booking.NeedsPricing) string {
	pkgs, err := s.kb.Packages(ctx)
	if err == nil {
		var matching []models.TourPackage
		for _, p := range pkgs {
			if p.Activity == np.Activity && (np.VehicleModel == "" || p.VehicleModel == np.VehicleModel) {
				matching = append(matching, p)
			}
		}
		if len(matching) > 0 {
			var sb strings.Builder
			sb.WriteString("For that one our team confirms the rate personally. These are ready to book right now:\n")
			for _, p := range matching {
				sb.WriteString("- ")
				if p.VehicleModel != "" {
					sb.WriteString(p.VehicleModel + ", ")
				}
				sb.WriteString(booking.FormatDuration(p.DurationMin))
				sb.WriteString(": ")
				sb.WriteString(p.Price.String())
				sb.WriteString("\n")
			}
			sb.WriteString("Would one of these durations work?")
			return sb.String()
		}
	}
	return "For that combination our team confirms the rate personally. Would you like to adjust the duration, or should I list our packages?"
}

func (s *DefaultAssistantService) handleConfirm(ctx context.Context, userID string) *models.ChatResponse {
	conf, err := s.bookSvc.Confirm(userID)
	if err != nil {
		var serr *booking.StateError
		if errors.As(err, &serr) {
			switch serr.Kind {
			case booking.KindNotPriced:
				// Quote first; the user confirms against a price they saw.
				return s.priceReply(ctx, userID, nil)
			case booking.KindAlreadyConfirmed:
				return &models.ChatResponse{
					Reply:  "That booking is already confirmed. Say \"book\" to start a new one.",
					Intent: IntentConfirm,
				}
			case booking.KindNoActiveDraft:
				return &models.ChatResponse{
					Reply:  "You don't have a booking in progress. Tell me what you'd like to book!",
					Intent: IntentConfirm,
				}
			}
		}
		utils.GetLogger().Error("confirm failed", zap.String("userID", userID), zap.Error(err))
		return &models.ChatResponse{Reply: fallbackText, Intent: IntentConfirm}
	}
	return &models.ChatResponse{Reply: renderConfirmation(conf), Intent: IntentConfirm}
}

func (s *DefaultAssistantService) handleCancel(userID string) *models.ChatResponse {
	err := s.bookSvc.Cancel(userID)
	if err != nil {
		var serr *booking.StateError
		if errors.As(err, &serr) {
			switch serr.Kind {
			case booking.KindNoActiveDraft:
				return &models.ChatResponse{
					Reply:  "Nothing to cancel, you don't have a booking in progress. Want to start one?",
					Intent: IntentCancel,
				}
			case booking.KindAlreadyConfirmed:
				return &models.ChatResponse{
					Reply:  "That booking is already confirmed; our team at the camp can help with changes.",
					Intent: IntentCancel,
				}
			}
		}
		utils.GetLogger().Error("cancel failed", zap.String("userID", userID), zap.Error(err))
		return &models.ChatResponse{Reply: fallbackText, Intent: IntentCancel}
	}
	return &models.ChatResponse{
		Reply:  "Done, your booking draft is cancelled. I'm here whenever you want to plan another tour!",
		Intent: IntentCancel,
	}
}

func (s *DefaultAssistantService) handleSummary(userID string) *models.ChatResponse {
	snap, err := s.bookSvc.Describe(userID)
	if err != nil {
		return &models.ChatResponse{
			Reply:  "You don't have a booking in progress. Tell me what you'd like to book!",
			Intent: IntentSummary,
		}
	}
	reply := renderSummary(snap)
	if snap.Status == models.StatusCollecting {
		if draft, derr := s.bookSvc.GetOrCreate(userID); derr == nil {
			if next, more := booking.NextMissingField(draft); more {
				reply += "\n" + askFor(next, draft.Activity)
				return &models.ChatResponse{Reply: reply, Intent: IntentSummary, Ask: next, Draft: snap}
			}
		}
	}
	return &models.ChatResponse{Reply: reply, Intent: IntentSummary, Draft: snap}
}

// renderUpdateError maps a rejected update to wording plus the field to
// re-ask.
func (s *DefaultAssistantService) renderUpdateError(err error, activity models.Activity) (string, models.Field) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return renderValidationError(verr, activity), verr.Field
	}
	var serr *booking.StateError
	if errors.As(err, &serr) && serr.Kind == booking.KindAlreadyConfirmed {
		return "That booking is already confirmed. Say \"book\" to start a new one.", ""
	}
	utils.GetLogger().Error("update failed", zap.Error(err))
	return fallbackText, ""
}

func (s *DefaultAssistantService) snapshot(userID string) *models.DraftSnapshot {
	snap, err := s.bookSvc.Describe(userID)
	if err != nil {
		return nil
	}
	return snap
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
