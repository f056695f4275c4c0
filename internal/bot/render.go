package bot

import (
	"fmt"

	"zapisbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	welcomeText = "👋 Добро пожаловать!\n\n" +
		"Я помогу вам быстро и удобно записаться на услуги косметолога.\n\n" +
		"1️⃣ Выберите услугу\n" +
		"2️⃣ Выберите дату и время\n" +
		"3️⃣ Введите имя и телефон\n" +
		"4️⃣ Подтвердите запись\n\n" +
		"В любой момент вы можете вернуться назад или отменить запись.\n" +
		"\nВыберите услугу:"

	selectServiceText = "Выберите услугу:"

	emptyNameText    = "Пожалуйста, введите ваше имя. Это поле не может быть пустым! 😊"
	phonePromptText  = "Пожалуйста, введите ваш номер телефона (например, +79991234567):"
	emptyPhoneText   = "Пожалуйста, введите номер телефона. Это поле не может быть пустым! 📱"
	invalidPhoneText = "Похоже, номер телефона введён некорректно. Пример: +79991234567 или 89991234567. Попробуйте ещё раз!"

	confirmButtonsText = "Пожалуйста, используйте кнопки ниже для подтверждения или отмены записи!"

	successText       = "🎉 Спасибо! Ваша запись принята. Мы свяжемся с вами для подтверждения.\n\nХотите записаться ещё?"
	persistFailedText = "😔 Не удалось сохранить запись, попробуйте подтвердить ещё раз чуть позже."

	cancelledShortText = "Запись отменена."
	cancelledText      = "Запись отменена. Если захотите записаться снова — напишите /start"

	slotBusyText      = "Этот слот уже занят. Пожалуйста, выберите другой!"
	slotJustTakenText = "Этот слот только что заняли. Пожалуйста, выберите другой!"

	sessionExpiredText = "Диалог устарел. Отправьте /start, чтобы начать запись заново."
	rateLimitText      = "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного."
)

func serviceKeyboard(catalog models.Catalog) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, service := range catalog.Services() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(service.Name, cbServicePrefix+service.Name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Отмена", cbCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// slotKeyboard помечает занятые слоты и заменяет их callback-данные,
// чтобы нажатие не выбирало слот.
func slotKeyboard(slots []string, booked map[string]struct{}) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, slot := range slots {
		if _, busy := booked[slot]; busy {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(slot+" ❌ Занято", cbSlotBusy),
			))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(slot, cbSlotPrefix+slot),
			))
		}
	}
	rows = append(rows, backCancelRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func backCancelRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Назад", cbBack),
		tgbotapi.NewInlineKeyboardButtonData("Отмена", cbCancel),
	)
}

func backCancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backCancelRow())
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Подтвердить", cbConfirm)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Отмена", cbCancel)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Назад", cbBack)),
	)
}

func restartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Записаться ещё раз", cbRestart),
		),
	)
}

func slotMenuText(service string) string {
	return fmt.Sprintf("Вы выбрали: %s\n\nВыберите дату и время:", service)
}

func askNameText(service, slot string) string {
	return fmt.Sprintf("Вы выбрали: %s\nДата и время: %s\n\nПожалуйста, введите ваше имя:", service, slot)
}

func summaryText(session *models.Session) string {
	return fmt.Sprintf(
		"Проверьте данные:\nУслуга: %s\nДата и время: %s\nИмя: %s\nТелефон: %s\n\nВсё верно?",
		session.Service, session.Slot, session.Name, session.Phone,
	)
}
