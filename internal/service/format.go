package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/linemk/impnet/internal/domain/models"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize форматирует размер в степенях 1024 с двумя знаками: 2048 -> "2.00 KB"
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[i])
}

// FileIcon подбирает значок по MIME-типу
func FileIcon(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "🖼️"
	case strings.HasPrefix(mimeType, "application/pdf"):
		return "📄"
	case strings.HasPrefix(mimeType, "application/msword"), strings.Contains(mimeType, "wordprocessingml"):
		return "📝"
	case strings.HasPrefix(mimeType, "application/vnd.ms-excel"), strings.Contains(mimeType, "spreadsheetml"):
		return "📊"
	default:
		return "📁"
	}
}

// RoleLoadingLabel показывается, пока список ролей не получен
const RoleLoadingLabel = "Загружается..."

// RoleLabel ищет роль пользователя по role_id; display_name, иначе name
func RoleLabel(roles []models.Role, roleID string) string {
	for _, r := range roles {
		if r.ID != roleID {
			continue
		}
		if r.DisplayName != "" {
			return r.DisplayName
		}
		return r.Name
	}
	return RoleLoadingLabel
}

// FormatAmount - сумма с двумя знаками и символом рубля
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f ₽", amount)
}

// FormatDate - дата в локальной зоне в формате ДД.ММ.ГГГГ
func FormatDate(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format("02.01.2006")
}

// FormatDateTime - дата и время в локальной зоне
func FormatDateTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format("02.01.2006 15:04")
}

// IsImage - документ можно использовать как фото паспорта
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
