package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/crewcheck/crewcheck/internal/eligibility"
)

func (b *Bot) openAdminPanel(ctx context.Context, chatID int64) error {
	ok, err := b.isAdmin(ctx, chatID)
	if err != nil {
		return err
	}
	if !ok {
		return b.sendText(ctx, chatID, "Нет доступа.")
	}
	b.sessions.Reset(chatID)
	return b.sendMenu(ctx, chatID, "🛠 Админ-панель", adminKeyboard())
}

func (b *Bot) handleAdminCallback(ctx context.Context, chatID int64, sess *Session, data string) error {
	ok, err := b.isAdmin(ctx, chatID)
	if err != nil {
		return err
	}
	if !ok {
		return b.sendText(ctx, chatID, "Нет доступа.")
	}

	switch data {
	case cbAdmList:
		return b.showRoster(ctx, chatID)
	case cbAdmStats:
		return b.showStats(ctx, chatID)
	case cbAdmAdmins:
		return b.showAdmins(ctx, chatID)
	case cbAdmAdd:
		sess.State = StateAdminAdd
		return b.sendText(ctx, chatID, "ID нового админа:")
	case cbAdmRemove:
		sess.State = StateAdminRemove
		return b.sendText(ctx, chatID, "ID админа для снятия:")
	case cbAdmSearch:
		sess.State = StateAdminSearch
		return b.sendText(ctx, chatID, "Фамилия:")
	case cbInfoAdd:
		sess.State = StateInfoAddKeyword
		return b.sendText(ctx, chatID, "Ключевое слово справки:")
	case cbInfoDelete:
		sess.State = StateInfoDelete
		return b.sendText(ctx, chatID, "ID записи для удаления:")
	default:
		return nil
	}
}

// showRoster lists every registered person with the dot summary and the
// count of hard blocks.
func (b *Bot) showRoster(ctx context.Context, chatID int64) error {
	persons, err := b.store.ListRegistered(ctx)
	if err != nil {
		return eris.Wrap(err, "bot: list roster")
	}
	if len(persons) == 0 {
		return b.sendText(ctx, chatID, "На учете никого нет.")
	}
	now := b.now()
	lines := make([]string, 0, len(persons)+1)
	lines = append(lines, fmt.Sprintf("👥 На учете: %d", len(persons)))
	for i := range persons {
		rep := eligibility.Evaluate(&persons[i], now)
		lines = append(lines, renderRosterLine(&persons[i], rep))
	}
	return b.sendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (b *Bot) showStats(ctx context.Context, chatID int64) error {
	st, err := b.store.CountPersonnel(ctx)
	if err != nil {
		return eris.Wrap(err, "bot: stats")
	}
	persons, err := b.store.ListRegistered(ctx)
	if err != nil {
		return eris.Wrap(err, "bot: stats roster")
	}
	now := b.now()
	var grounded int
	for i := range persons {
		if !eligibility.Evaluate(&persons[i], now).Cleared() {
			grounded++
		}
	}
	return b.sendText(ctx, chatID, fmt.Sprintf(
		"📊 Всего: %d\nНа учете: %d\nОтстранено: %d",
		st.Total, st.Registered, grounded,
	))
}

func (b *Bot) showAdmins(ctx context.Context, chatID int64) error {
	ids, err := b.store.ListAdmins(ctx)
	if err != nil {
		return eris.Wrap(err, "bot: list admins")
	}
	lines := []string{fmt.Sprintf("👤 Владелец: %d", b.ownerID)}
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("Админ: %d", id))
	}
	return b.sendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (b *Bot) handleAdminAdd(ctx context.Context, chatID int64, text string) error {
	b.sessions.Reset(chatID)
	id, err := parseUserID(text)
	if err != nil {
		return b.sendText(ctx, chatID, "Нужен числовой ID.")
	}
	if err := b.store.AddAdmin(ctx, id, chatID); err != nil {
		return eris.Wrap(err, "bot: add admin")
	}
	return b.sendText(ctx, chatID, fmt.Sprintf("Админ %d добавлен.", id))
}

func (b *Bot) handleAdminRemove(ctx context.Context, chatID int64, text string) error {
	b.sessions.Reset(chatID)
	id, err := parseUserID(text)
	if err != nil {
		return b.sendText(ctx, chatID, "Нужен числовой ID.")
	}
	if id == b.ownerID {
		return b.sendText(ctx, chatID, "Владельца снять нельзя.")
	}
	if err := b.store.RemoveAdmin(ctx, id); err != nil {
		return b.sendText(ctx, chatID, fmt.Sprintf("Админа %d нет в списке.", id))
	}
	return b.sendText(ctx, chatID, fmt.Sprintf("Админ %d снят.", id))
}

func (b *Bot) handleInfoAdd(ctx context.Context, chatID int64, sess *Session, content string) error {
	keyword := sess.InfoKeyword
	b.sessions.Reset(chatID)
	e, err := b.store.AddInfo(ctx, keyword, content)
	if err != nil {
		return eris.Wrap(err, "bot: add info")
	}
	return b.sendText(ctx, chatID, fmt.Sprintf("Справка сохранена (id %s).", e.ID))
}

func (b *Bot) handleInfoDelete(ctx context.Context, chatID int64, text string) error {
	b.sessions.Reset(chatID)
	id := strings.TrimSpace(text)
	if err := b.store.DeleteInfo(ctx, id); err != nil {
		return b.sendText(ctx, chatID, "Записи с таким ID нет.")
	}
	return b.sendText(ctx, chatID, "Запись удалена.")
}
