package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miralteam/funnelbot/internal/content"
	"github.com/miralteam/funnelbot/internal/lead"
)

func TestFormatLeadsEmpty(t *testing.T) {
	assert.Equal(t, "Заявок пока нет.", formatLeads(nil))
}

func TestFormatLeadsEscapesHTML(t *testing.T) {
	out := formatLeads([]lead.Lead{{
		RequestType: "Консультация",
		Name:        "<b>Иван</b>",
		Contact:     "@ivan",
		Comment:     "a & b",
		UserID:      42,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}})
	assert.Contains(t, out, "&lt;b&gt;Иван&lt;/b&gt;")
	assert.Contains(t, out, "a &amp; b")
	assert.Contains(t, out, "01.06.2025 12:00")
	assert.NotContains(t, out, "<b>Иван</b>")
}

func TestBuildMarkup(t *testing.T) {
	m := buildMarkup([][]content.Button{
		{{Label: "Получить видео", Key: content.BtnGetVideo}},
		{{Label: "Получить презентацию (PDF файл)", Key: content.BtnGetPresentation}},
	})
	require.NotNil(t, m)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, "Получить видео", m.InlineKeyboard[0][0].Text)
	assert.Nil(t, buildMarkup(nil))
}

func TestGatewayAssetPath(t *testing.T) {
	g := NewTelegramGateway("")
	assert.Empty(t, g.assetPath("welcome.jpg"), "no assets dir disables media")

	g = NewTelegramGateway(t.TempDir())
	assert.Empty(t, g.assetPath("welcome.jpg"), "missing file falls back to text")
}
