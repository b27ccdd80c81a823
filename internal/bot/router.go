// Package bot implements the conversational record-keeping front end:
// long-poll update loop, per-chat dialogue sessions, registration and edit
// flows, search, the reference info base and the admin panel.
package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/crewcheck/crewcheck/internal/eligibility"
	"github.com/crewcheck/crewcheck/internal/infobase"
	"github.com/crewcheck/crewcheck/internal/model"
	"github.com/crewcheck/crewcheck/internal/store"
	"github.com/crewcheck/crewcheck/pkg/telegram"
)

const helpText = `Команды:
/start — карточка учета
/profile — мой профиль
/cancel — отменить текущий ввод
/admin — админ-панель
/help — эта справка`

// Bot routes incoming updates to dialogue handlers.
type Bot struct {
	api         telegram.API
	store       store.Store
	ownerID     int64
	pollTimeout int
	sessions    *Sessions
	now         func() time.Time
}

// New creates the bot router.
func New(api telegram.API, st store.Store, ownerID int64, pollTimeoutSecs int) *Bot {
	return &Bot{
		api:         api,
		store:       st,
		ownerID:     ownerID,
		pollTimeout: pollTimeoutSecs,
		sessions:    NewSessions(),
		now:         time.Now,
	}
}

// Run long-polls for updates until the context is canceled. Handler
// errors are logged, never fatal: one broken chat must not stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			zap.L().Warn("get updates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}
		for _, u := range updates {
			offset = u.ID + 1
			if err := b.HandleUpdate(ctx, u); err != nil {
				zap.L().Error("handle update failed",
					zap.Int64("update_id", u.ID), zap.Error(err))
			}
		}
	}
}

// HandleUpdate dispatches one update.
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) error {
	switch {
	case u.Message != nil:
		return b.handleMessage(ctx, u.Message)
	case u.CallbackQuery != nil:
		return b.handleCallback(ctx, u.CallbackQuery)
	default:
		return nil
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	sess := b.sessions.Get(chatID)

	switch text {
	case "/start":
		return b.handleStart(ctx, msg)
	case "/profile":
		b.sessions.Reset(chatID)
		return b.showProfile(ctx, chatID)
	case "/cancel":
		b.sessions.Reset(chatID)
		return b.showMainMenu(ctx, chatID, "Отменено.")
	case "/admin":
		return b.openAdminPanel(ctx, chatID)
	case "/help":
		return b.sendText(ctx, chatID, helpText)
	}

	switch sess.State {
	case StateRegistering:
		return b.handleRegistrationStep(ctx, chatID, sess, text)
	case StateEditingField:
		return b.handleFieldEdit(ctx, chatID, sess, text)
	case StateEditingLeave:
		return b.handleLeaveEdit(ctx, chatID, sess, text)
	case StateSearching, StateAdminSearch:
		return b.handleSearch(ctx, chatID, sess, text)
	case StateInfoSearch:
		return b.handleInfoSearch(ctx, chatID, sess, text)
	case StateInfoAddKeyword:
		sess.InfoKeyword = text
		sess.State = StateInfoAddContent
		return b.sendText(ctx, chatID, "Текст справки:")
	case StateInfoAddContent:
		return b.handleInfoAdd(ctx, chatID, sess, text)
	case StateInfoDelete:
		return b.handleInfoDelete(ctx, chatID, text)
	case StateAdminAdd:
		return b.handleAdminAdd(ctx, chatID, text)
	case StateAdminRemove:
		return b.handleAdminRemove(ctx, chatID, text)
	default:
		return b.sendText(ctx, chatID, "Не понял. /help — список команд.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *telegram.Message) error {
	chatID := msg.Chat.ID
	var username string
	if msg.From != nil {
		username = msg.From.Username
	}
	if err := b.store.UpsertPerson(ctx, chatID, username); err != nil {
		return eris.Wrap(err, "bot: upsert on /start")
	}

	p, err := b.store.GetPerson(ctx, chatID)
	if err != nil {
		return eris.Wrap(err, "bot: load on /start")
	}
	if p != nil && p.Registered {
		return b.showMainMenu(ctx, chatID, "С возвращением.")
	}
	return b.startRegistration(ctx, chatID, b.sessions.Get(chatID))
}

func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) error {
	if err := b.api.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
		zap.L().Warn("answer callback failed", zap.Error(err))
	}
	chatID := cb.From.ID
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
	}
	sess := b.sessions.Get(chatID)

	switch {
	case cb.Data == cbProfile:
		return b.showProfile(ctx, chatID)
	case cb.Data == cbSearch:
		sess.State = StateSearching
		return b.sendText(ctx, chatID, "Фамилия для поиска:")
	case cb.Data == cbInfo:
		sess.State = StateInfoSearch
		return b.sendText(ctx, chatID, "Ключевое слово (аэродром, позывной...):")
	case cb.Data == cbAdmin:
		return b.openAdminPanel(ctx, chatID)
	case cb.Data == cbEditMenu:
		return b.sendMenu(ctx, chatID, "Что изменить?", editMenuKeyboard())
	case cb.Data == cbEditLeave:
		sess.State = StateEditingLeave
		return b.sendText(ctx, chatID, "Отпуск (ДД.ММ.ГГГГ - ДД.ММ.ГГГГ)")
	case strings.HasPrefix(cb.Data, cbEditPrefix):
		f, err := model.ParseFieldID(strings.TrimPrefix(cb.Data, cbEditPrefix))
		if err != nil {
			return b.sendText(ctx, chatID, "Неизвестное поле.")
		}
		sess.State = StateEditingField
		sess.EditField = f
		return b.sendText(ctx, chatID, f.Prompt())
	case cb.Data == cbBack:
		b.sessions.Reset(chatID)
		return b.showMainMenu(ctx, chatID, "Меню")
	case strings.HasPrefix(cb.Data, "adm:") || cb.Data == cbInfoAdd || cb.Data == cbInfoDelete:
		return b.handleAdminCallback(ctx, chatID, sess, cb.Data)
	default:
		return nil
	}
}

func (b *Bot) showProfile(ctx context.Context, chatID int64) error {
	p, err := b.store.GetPerson(ctx, chatID)
	if err != nil {
		return eris.Wrap(err, "bot: load profile")
	}
	if p == nil || !p.Registered {
		return b.sendText(ctx, chatID, "Карточки еще нет. /start — завести.")
	}
	rep := eligibility.Evaluate(p, b.now())
	return b.sendMenu(ctx, chatID, renderProfile(p, rep), profileKeyboard())
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64, text string) error {
	isAdm, err := b.isAdmin(ctx, chatID)
	if err != nil {
		return err
	}
	return b.sendMenu(ctx, chatID, text, mainMenuKeyboard(isAdm))
}

// handleSearch answers a surname query with terse roster lines. A repeat
// of the same query is acknowledged without re-listing.
func (b *Bot) handleSearch(ctx context.Context, chatID int64, sess *Session, query string) error {
	if query == sess.LastQuery {
		b.sessions.Reset(chatID)
		return b.sendText(ctx, chatID, "Запрос не изменился.")
	}
	persons, err := b.store.SearchByName(ctx, query)
	if err != nil {
		return eris.Wrap(err, "bot: search by name")
	}
	sess.LastQuery = query
	b.sessions.Reset(chatID)

	if len(persons) == 0 {
		return b.sendText(ctx, chatID, "Никого не нашел.")
	}
	now := b.now()
	var lines []string
	for i := range persons {
		rep := eligibility.Evaluate(&persons[i], now)
		lines = append(lines, renderRosterLine(&persons[i], rep))
	}
	return b.sendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (b *Bot) handleInfoSearch(ctx context.Context, chatID int64, sess *Session, query string) error {
	b.sessions.Reset(chatID)
	entries, err := b.store.SearchInfo(ctx, query)
	if err != nil {
		return eris.Wrap(err, "bot: search info")
	}
	if len(entries) == 0 {
		return b.sendText(ctx, chatID, "По запросу ничего нет.")
	}
	var parts []string
	for _, e := range entries {
		parts = append(parts, infobase.Annotate(e.Keyword, e.Content))
	}
	return b.sendText(ctx, chatID, strings.Join(parts, "\n\n"))
}

func (b *Bot) isAdmin(ctx context.Context, userID int64) (bool, error) {
	if userID == b.ownerID {
		return true, nil
	}
	ok, err := b.store.IsAdmin(ctx, userID)
	if err != nil {
		return false, eris.Wrap(err, "bot: admin lookup")
	}
	return ok, nil
}

func parseUserID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, eris.Errorf("bot: bad user id %q", text)
	}
	return id, nil
}

// sendText sends a plain message without touching menu bookkeeping.
func (b *Bot) sendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.SendMessage(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: text})
	return eris.Wrap(err, "bot: send message")
}

// sendMenu replaces the previous menu-style message so chats do not pile
// up stale keyboards.
func (b *Bot) sendMenu(ctx context.Context, chatID int64, text string, kb *telegram.InlineKeyboardMarkup) error {
	sess := b.sessions.Get(chatID)
	if sess.LastBotMsg != 0 {
		if err := b.api.DeleteMessage(ctx, chatID, sess.LastBotMsg); err != nil {
			zap.L().Debug("delete old menu failed", zap.Error(err))
		}
		sess.LastBotMsg = 0
	}
	msg, err := b.api.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID: chatID, Text: text, ReplyMarkup: kb,
	})
	if err != nil {
		return eris.Wrap(err, "bot: send menu")
	}
	sess.LastBotMsg = msg.ID
	return nil
}
