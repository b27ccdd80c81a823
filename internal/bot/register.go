package bot

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/crewcheck/crewcheck/internal/eligibility"
	"github.com/crewcheck/crewcheck/internal/model"
)

// regStep is one prompt of the linear registration dialogue. The leave
// step collects both interval columns from a single message.
type regStep struct {
	prompt string
	fields []model.FieldID
}

var regSteps = []regStep{
	{prompt: model.FieldFIO.Prompt(), fields: []model.FieldID{model.FieldFIO}},
	{prompt: model.FieldRank.Prompt(), fields: []model.FieldID{model.FieldRank}},
	{prompt: model.FieldQualRank.Prompt(), fields: []model.FieldID{model.FieldQualRank}},
	{
		prompt: "Отпуск (ДД.ММ.ГГГГ - ДД.ММ.ГГГГ)",
		fields: []model.FieldID{model.FieldVacationStart, model.FieldVacationEnd},
	},
	{prompt: model.FieldVLK.Prompt(), fields: []model.FieldID{model.FieldVLK}},
	{prompt: model.FieldUMO.Prompt(), fields: []model.FieldID{model.FieldUMO}},
	{prompt: model.FieldKBP4MDM.Prompt(), fields: []model.FieldID{model.FieldKBP4MDM}},
	{prompt: model.FieldKBP7MDM.Prompt(), fields: []model.FieldID{model.FieldKBP7MDM}},
	{prompt: model.FieldKBP4MD90A.Prompt(), fields: []model.FieldID{model.FieldKBP4MD90A}},
	{prompt: model.FieldKBP7MD90A.Prompt(), fields: []model.FieldID{model.FieldKBP7MD90A}},
	{prompt: model.FieldJumps.Prompt(), fields: []model.FieldID{model.FieldJumps}},
}

// normalizeFieldInput validates one field's raw input and returns its
// canonical stored form.
func normalizeFieldInput(f model.FieldID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if !f.IsDate() {
		if text == "" {
			return "", eris.New("bot: empty value")
		}
		return text, nil
	}
	v, err := eligibility.ValidateInput(text, f.AllowsExempt())
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// splitLeaveInterval parses "start - end" into two validated dates.
func splitLeaveInterval(text string) (start, end string, err error) {
	parts := strings.SplitN(text, "-", 2)
	if len(parts) != 2 {
		return "", "", eris.New("bot: expected interval as ДД.ММ.ГГГГ - ДД.ММ.ГГГГ")
	}
	sv, err := eligibility.ValidateInput(strings.TrimSpace(parts[0]), false)
	if err != nil {
		return "", "", err
	}
	ev, err := eligibility.ValidateInput(strings.TrimSpace(parts[1]), false)
	if err != nil {
		return "", "", err
	}
	return sv.String(), ev.String(), nil
}

// handleRegistrationStep consumes one answer of the registration dialogue
// and advances to the next prompt, or finishes the registration with an
// immediate readiness verdict.
func (b *Bot) handleRegistrationStep(ctx context.Context, chatID int64, sess *Session, text string) error {
	step := regSteps[sess.Step]

	if len(step.fields) == 2 {
		start, end, err := splitLeaveInterval(text)
		if err != nil {
			return b.sendText(ctx, chatID, "Не понял. "+step.prompt)
		}
		if err := b.store.SetField(ctx, chatID, step.fields[0], start); err != nil {
			return eris.Wrap(err, "bot: save leave start")
		}
		if err := b.store.SetField(ctx, chatID, step.fields[1], end); err != nil {
			return eris.Wrap(err, "bot: save leave end")
		}
	} else {
		f := step.fields[0]
		value, err := normalizeFieldInput(f, text)
		if err != nil {
			return b.sendText(ctx, chatID, "Не понял. "+f.Prompt())
		}
		if err := b.store.SetField(ctx, chatID, f, value); err != nil {
			return eris.Wrapf(err, "bot: save %s", f.Column())
		}
	}

	sess.Step++
	if sess.Step < len(regSteps) {
		return b.sendText(ctx, chatID, regSteps[sess.Step].prompt)
	}

	// Dialogue complete.
	if err := b.store.SetRegistered(ctx, chatID); err != nil {
		return eris.Wrap(err, "bot: mark registered")
	}
	b.sessions.Reset(chatID)

	p, err := b.store.GetPerson(ctx, chatID)
	if err != nil {
		return eris.Wrap(err, "bot: reload person")
	}
	rep := eligibility.Evaluate(p, b.now())
	return b.sendText(ctx, chatID, "Учет завершен.\n\n"+renderVerdict(rep))
}

// startRegistration begins the dialogue from the first prompt.
func (b *Bot) startRegistration(ctx context.Context, chatID int64, sess *Session) error {
	sess.State = StateRegistering
	sess.Step = 0
	return b.sendText(ctx, chatID, "Заполним карточку. "+regSteps[0].prompt)
}

// handleFieldEdit consumes the replacement value for the field being
// edited and re-renders the profile.
func (b *Bot) handleFieldEdit(ctx context.Context, chatID int64, sess *Session, text string) error {
	f := sess.EditField
	value, err := normalizeFieldInput(f, text)
	if err != nil {
		return b.sendText(ctx, chatID, "Не понял. "+f.Prompt())
	}
	if err := b.store.SetField(ctx, chatID, f, value); err != nil {
		return eris.Wrapf(err, "bot: edit %s", f.Column())
	}
	b.sessions.Reset(chatID)
	return b.showProfile(ctx, chatID)
}

// handleLeaveEdit consumes a replacement leave interval.
func (b *Bot) handleLeaveEdit(ctx context.Context, chatID int64, sess *Session, text string) error {
	start, end, err := splitLeaveInterval(text)
	if err != nil {
		return b.sendText(ctx, chatID, "Не понял. Отпуск (ДД.ММ.ГГГГ - ДД.ММ.ГГГГ)")
	}
	if err := b.store.SetField(ctx, chatID, model.FieldVacationStart, start); err != nil {
		return eris.Wrap(err, "bot: edit leave start")
	}
	if err := b.store.SetField(ctx, chatID, model.FieldVacationEnd, end); err != nil {
		return eris.Wrap(err, "bot: edit leave end")
	}
	b.sessions.Reset(chatID)
	return b.showProfile(ctx, chatID)
}
