package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"zapisbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// handleExport отдаёт оператору Excel-файл со всеми записями.
func (b *Bot) handleExport(ctx context.Context, ev Event) {
	if !b.isOperator(ev.UserID) {
		return
	}

	filePath, err := b.exportToExcel(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("export bookings")
		b.send(ev.ChatID, "❌ Не удалось сформировать экспорт. Попробуйте позже.", nil)
		return
	}

	doc := tgbotapi.NewDocument(ev.ChatID, tgbotapi.FilePath(filePath))
	doc.Caption = "Экспорт записей"
	if _, err := b.tgService.Send(doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("send export document")
		b.send(ev.ChatID, "❌ Не удалось отправить файл экспорта.", nil)
	}
}

// handleStats показывает оператору количество записей по услугам.
func (b *Bot) handleStats(ctx context.Context, ev Event) {
	if !b.isOperator(ev.UserID) {
		return
	}

	bookings, err := b.store.ListBookings(ctx, "")
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list bookings for stats")
		b.send(ev.ChatID, "❌ Не удалось получить статистику. Попробуйте позже.", nil)
		return
	}

	b.send(ev.ChatID, statsText(b.catalog, bookings), nil)
}

func statsText(catalog models.Catalog, bookings []models.Booking) string {
	counts := make(map[string]int)
	for _, booking := range bookings {
		counts[booking.Service]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Всего записей: %d\n", len(bookings)))

	// Сначала услуги каталога в его порядке, затем снятые с продажи.
	seen := make(map[string]bool)
	for _, svc := range catalog.Services() {
		sb.WriteString(fmt.Sprintf("%s: %d\n", svc.Name, counts[svc.Name]))
		seen[svc.Name] = true
	}

	var rest []string
	for name := range counts {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		sb.WriteString(fmt.Sprintf("%s: %d\n", name, counts[name]))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// exportToExcel создает Excel файл с данными о записях
func (b *Bot) exportToExcel(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	bookings, err := b.store.ListBookings(ctx, "")
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Записи"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Имя", "Телефон", "Услуга", "Дата и время", "Telegram ID", "Создано"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, booking := range bookings {
		row := i + 2
		values := []interface{}{
			booking.Name,
			booking.Phone,
			booking.Service,
			booking.Slot,
			booking.UserID,
			booking.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "F", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	b.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}
