package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoment(t *testing.T) {
	day := time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC)
	cases := map[string]string{
		"YYYY-MM-DD":               "2024-03-07",
		"YYYY/MM/YYYY-MM-DD":       "2024/03/2024-03-07",
		"D MMM YY":                 "7 Mar 24",
		"dddd, MMMM D":             "Thursday, March 7",
		"[Week of] YYYY-MM-DD":     "Week of 2024-03-07",
		"HH:mm:ss":                 "09:05:03",
		"ddd M/D":                  "Thu 3/7",
		"[unterminated YYYY":       "[unterminated 2024",
	}
	for format, want := range cases {
		assert.Equalf(t, want, FormatMoment(format, day), "format %q", format)
	}
}

func TestDailyNotePath(t *testing.T) {
	day := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

	plain := openVault(t, map[string]string{"a.md": ""})
	assert.Equal(t, "2024-01-01.md", plain.DailyNotePath(day))

	configured := openVault(t, map[string]string{
		".obsidian/daily-notes.json": `{"folder": "/Daily/", "format": "YYYY/MM-DD"}`,
	})
	assert.Equal(t, "Daily/2024/01-01.md", configured.DailyNotePath(day))
}

func TestOpenTodayCreatesFromTemplate(t *testing.T) {
	v := openVault(t, map[string]string{
		".obsidian/daily-notes.json": `{"folder": "Daily", "template": "Templates/day"}`,
		"Templates/day.md":           "# {{title}}\ncreated {{date}} {{time}}\n",
	})
	now := time.Date(2024, time.January, 2, 14, 30, 0, 0, time.UTC)

	f, err := v.OpenToday(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, "Daily/2024-01-02.md", f.Path)

	body, err := os.ReadFile(filepath.Join(v.Root(), "Daily", "2024-01-02.md"))
	require.NoError(t, err)
	assert.Equal(t, "# 2024-01-02\ncreated 2024-01-02 14:30\n", string(body))
}

func TestOpenTodayKeepsExistingNote(t *testing.T) {
	v := openVault(t, map[string]string{"2024-01-03.md": "already here"})
	now := time.Date(2024, time.January, 3, 7, 0, 0, 0, time.UTC)

	f, err := v.OpenToday(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03.md", f.Path)

	body, err := os.ReadFile(filepath.Join(v.Root(), "2024-01-03.md"))
	require.NoError(t, err)
	assert.Equal(t, "already here", string(body))
}

func TestOpenTodayMissingTemplateCreatesEmptyNote(t *testing.T) {
	v := openVault(t, map[string]string{
		".obsidian/daily-notes.json": `{"template": "Templates/missing"}`,
	})
	now := time.Date(2024, time.January, 4, 7, 0, 0, 0, time.UTC)

	f, err := v.OpenToday(context.Background(), now)
	require.NoError(t, err)

	info, err := os.Stat(v.AbsPath(f))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
