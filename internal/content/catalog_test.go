package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHasAllKeys(t *testing.T) {
	c := New()
	keys := []string{
		KeyWelcome, KeyWelcomeFallback, KeyVideo, KeyVideoFollowup,
		KeyVideoCase, KeyPresentation, KeyPresentationCase,
		KeyFirstFollowup, KeyCase, KeyConsultationIntro,
		KeyCalculationIntro, KeyAuditIntro, KeyAskName, KeyAskContact,
		KeyAskComment, KeyConfirmation, KeyUnrecognized,
	}
	for _, k := range keys {
		m, ok := c.Get(k)
		require.True(t, ok, "missing key %q", k)
		assert.NotEmpty(t, m.Text, "empty text for %q", k)
		assert.Equal(t, k, m.Key)
	}
}

func TestWelcomeButtons(t *testing.T) {
	c := New()
	m := c.MustGet(KeyWelcome)
	require.Len(t, m.Buttons, 2)
	assert.Equal(t, BtnGetVideo, m.Buttons[0][0].Key)
	assert.Equal(t, BtnGetPresentation, m.Buttons[1][0].Key)
	assert.Equal(t, "welcome.jpg", m.MediaKey)
}

func TestCaseMessagesCarrySeparateCaption(t *testing.T) {
	c := New()
	for _, k := range []string{KeyVideoCase, KeyPresentationCase} {
		m := c.MustGet(k)
		assert.NotEmpty(t, m.MediaKey, k)
		assert.NotEmpty(t, m.MediaCaption, k)
		assert.NotEmpty(t, m.Buttons, k)
	}
}

func TestFormPromptsArePlain(t *testing.T) {
	c := New()
	for _, k := range []string{KeyAskName, KeyAskContact, KeyAskComment, KeyConfirmation} {
		m := c.MustGet(k)
		assert.Empty(t, m.Buttons, k)
		assert.Empty(t, m.MediaKey, k)
	}
}

func TestMustGetPanicsOnUnknownKey(t *testing.T) {
	c := New()
	assert.Panics(t, func() { c.MustGet("nope") })
}
