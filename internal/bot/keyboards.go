package bot

import (
	"github.com/crewcheck/crewcheck/internal/model"
	"github.com/crewcheck/crewcheck/pkg/telegram"
)

// Callback data values. Field edits use the "edit:" prefix with the field
// id; everything else is a fixed token.
const (
	cbProfile    = "menu:profile"
	cbSearch     = "menu:search"
	cbInfo       = "menu:info"
	cbAdmin      = "menu:admin"
	cbEditMenu   = "edit"
	cbEditPrefix = "edit:"
	cbEditLeave  = "edit:leave"
	cbBack       = "back"
	cbAdmList    = "adm:list"
	cbAdmStats   = "adm:stats"
	cbAdmAdmins  = "adm:admins"
	cbAdmAdd     = "adm:add"
	cbAdmRemove  = "adm:remove"
	cbAdmSearch  = "adm:search"
	cbInfoAdd    = "info:add"
	cbInfoDelete = "info:del"
)

func mainMenuKeyboard(isAdmin bool) *telegram.InlineKeyboardMarkup {
	rows := [][]telegram.InlineKeyboardButton{
		telegram.Row(telegram.Button("📋 Мой профиль", cbProfile)),
		telegram.Row(
			telegram.Button("🔍 Поиск", cbSearch),
			telegram.Button("ℹ️ Инфо", cbInfo),
		),
	}
	if isAdmin {
		rows = append(rows, telegram.Row(telegram.Button("🛠 Админ-панель", cbAdmin)))
	}
	return telegram.Keyboard(rows...)
}

func profileKeyboard() *telegram.InlineKeyboardMarkup {
	return telegram.Keyboard(
		telegram.Row(telegram.Button("✏️ Изменить", cbEditMenu)),
		telegram.Row(telegram.Button("⬅️ Назад", cbBack)),
	)
}

// editMenuKeyboard lists every editable field in record order. The leave
// interval is one button covering both columns.
func editMenuKeyboard() *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	for _, f := range model.AllFields {
		if f == model.FieldVacationStart {
			rows = append(rows, telegram.Row(telegram.Button("Отпуск", cbEditLeave)))
			continue
		}
		if f == model.FieldVacationEnd {
			continue
		}
		rows = append(rows, telegram.Row(telegram.Button(f.Label(), cbEditPrefix+string(f))))
	}
	rows = append(rows, telegram.Row(telegram.Button("⬅️ Назад", cbBack)))
	return telegram.Keyboard(rows...)
}

func adminKeyboard() *telegram.InlineKeyboardMarkup {
	return telegram.Keyboard(
		telegram.Row(telegram.Button("👥 Личный состав", cbAdmList)),
		telegram.Row(
			telegram.Button("📊 Статистика", cbAdmStats),
			telegram.Button("🔍 По фамилии", cbAdmSearch),
		),
		telegram.Row(
			telegram.Button("👤 Админы", cbAdmAdmins),
			telegram.Button("➕ Админ", cbAdmAdd),
			telegram.Button("➖ Админ", cbAdmRemove),
		),
		telegram.Row(
			telegram.Button("📝 Добавить инфо", cbInfoAdd),
			telegram.Button("🗑 Удалить инфо", cbInfoDelete),
		),
		telegram.Row(telegram.Button("⬅️ Назад", cbBack)),
	)
}
