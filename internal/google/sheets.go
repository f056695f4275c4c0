package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"zapisbot/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const timeLayout = "2006-01-02 15:04:05"

// SheetsService хранит записи в одной Google-таблице. Каждая запись —
// строка вида [имя, телефон, услуга, слот, telegram id, создано].
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	sheetTab      string
}

func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID, sheetTab string) (*SheetsService, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetTab:      sheetTab,
	}, nil
}

// TestConnection проверяет доступ к таблице на старте.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetTab+"!A1").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта — его
// нужно добавить в доступ к таблице, пишем в лог на старте.
func GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// AppendBooking добавляет запись новой строкой в конец листа.
func (s *SheetsService) AppendBooking(ctx context.Context, booking *models.Booking) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(booking)},
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetTab+"!A:F", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append booking row: %w", err)
	}
	return nil
}

// ListBookings читает все записи листа. Пустой service означает
// без фильтра. Первая строка зарезервирована под заголовки.
func (s *SheetsService) ListBookings(ctx context.Context, service string) ([]models.Booking, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetTab+"!A2:F").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read bookings: %w", err)
	}

	var bookings []models.Booking
	for _, row := range resp.Values {
		booking, ok := bookingFromRow(row)
		if !ok {
			continue
		}
		if service != "" && booking.Service != service {
			continue
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func bookingRowValues(booking *models.Booking) []interface{} {
	return []interface{}{
		booking.Name,
		booking.Phone,
		booking.Service,
		booking.Slot,
		booking.UserID,
		booking.CreatedAt.Format(timeLayout),
	}
}

// bookingFromRow восстанавливает запись из строки листа. Строки без
// услуги или слота пропускаются: по ним нельзя судить о занятости.
func bookingFromRow(row []interface{}) (models.Booking, bool) {
	var booking models.Booking

	get := func(i int) string {
		if i >= len(row) {
			return ""
		}
		switch v := row[i].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatInt(int64(v), 10)
		default:
			return fmt.Sprintf("%v", v)
		}
	}

	booking.Name = get(0)
	booking.Phone = get(1)
	booking.Service = get(2)
	booking.Slot = get(3)
	if booking.Service == "" || booking.Slot == "" {
		return models.Booking{}, false
	}

	if id, err := strconv.ParseInt(get(4), 10, 64); err == nil {
		booking.UserID = id
	}
	if ts, err := time.Parse(timeLayout, get(5)); err == nil {
		booking.CreatedAt = ts
	}

	return booking, true
}
