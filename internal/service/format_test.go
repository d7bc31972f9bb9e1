package service_test

import (
	"testing"
	"time"

	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		0:                  "0 Bytes",
		512:                "512.00 Bytes",
		2048:               "2.00 KB",
		1536:               "1.50 KB",
		5 * 1024 * 1024:    "5.00 MB",
		3 << 30:            "3.00 GB",
		1 << 40:            "1024.00 GB",
	}
	for in, want := range cases {
		assert.Equal(t, want, service.FormatSize(in), in)
	}
}

func TestFileIcon(t *testing.T) {
	assert.Equal(t, "📄", service.FileIcon("application/pdf"))
	assert.Equal(t, "🖼️", service.FileIcon("image/png"))
	assert.Equal(t, "📝", service.FileIcon("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.Equal(t, "📊", service.FileIcon("application/vnd.ms-excel"))
	assert.Equal(t, "📁", service.FileIcon(""))
}

func TestRoleLabel(t *testing.T) {
	roles := []models.Role{
		{ID: "r1", Name: "citizen", DisplayName: "Гражданин"},
		{ID: "r2", Name: "custom"},
	}
	assert.Equal(t, "Гражданин", service.RoleLabel(roles, "r1"))
	assert.Equal(t, "custom", service.RoleLabel(roles, "r2"))
	assert.Equal(t, service.RoleLoadingLabel, service.RoleLabel(roles, "r3"))
	assert.Equal(t, service.RoleLoadingLabel, service.RoleLabel(nil, "r1"))
}

func TestFormatAmountAndDate(t *testing.T) {
	assert.Equal(t, "1000.00 ₽", service.FormatAmount(1000))
	assert.Equal(t, "", service.FormatDate(models.Timestamp{}))

	ts := models.Timestamp{Time: time.Date(2024, 3, 8, 12, 0, 0, 0, time.Local)}
	assert.Equal(t, "08.03.2024", service.FormatDate(ts))
	assert.Equal(t, "08.03.2024 12:00", service.FormatDateTime(ts))
}
