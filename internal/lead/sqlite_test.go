package lead

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	s, err := NewSQLiteSink("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSaveAndRecent(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.Save(ctx, Lead{
			RequestType: "Консультация",
			Name:        "Иван",
			Contact:     "@ivan",
			Comment:     "тест",
			UserID:      int64(100 + i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	leads, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	// Newest first.
	assert.Equal(t, int64(102), leads[0].UserID)
	assert.Equal(t, int64(101), leads[1].UserID)
}

func TestSQLiteRecentDefaultLimit(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Lead{
		RequestType: "Аудит звонков",
		Name:        "Анна",
		Contact:     "+79990000000",
		Comment:     "отдел из 6 менеджеров",
		UserID:      7,
		CreatedAt:   time.Now().UTC(),
	}))

	leads, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Аудит звонков", leads[0].RequestType)
	assert.Equal(t, "Анна", leads[0].Name)
}

func TestSQLiteRecentEmpty(t *testing.T) {
	s := openTestSink(t)
	leads, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, leads)
}
