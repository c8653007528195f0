package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const defaultDailyFormat = "YYYY-MM-DD"

// DailyNoteSettings mirrors daily-notes.json.
type DailyNoteSettings struct {
	Folder   string `json:"folder"`
	Format   string `json:"format"`
	Template string `json:"template"`
}

func (v *Vault) DailyNoteSettings() DailyNoteSettings {
	var s DailyNoteSettings
	if err := v.readConfigJSON("daily-notes.json", &s); err != nil && !errors.Is(err, fs.ErrNotExist) {
		v.log.WithError(err).Warn("cannot read daily note settings")
	}
	if strings.TrimSpace(s.Format) == "" {
		s.Format = defaultDailyFormat
	}
	s.Folder = strings.Trim(strings.TrimSpace(s.Folder), "/")
	return s
}

// DailyNotePath returns the vault-relative path of the note for day.
func (v *Vault) DailyNotePath(day time.Time) string {
	s := v.DailyNoteSettings()
	name := FormatMoment(s.Format, day) + ".md"
	if s.Folder == "" {
		return name
	}
	return path.Join(s.Folder, name)
}

// OpenToday returns today's daily note, creating it from the configured
// template when it does not exist yet.
func (v *Vault) OpenToday(ctx context.Context, now time.Time) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	rel := v.DailyNotePath(now)
	if f, ok := v.Resolve(rel); ok {
		return f, nil
	}

	body, err := v.dailyTemplate(now, rel)
	if err != nil {
		v.log.WithError(err).Warn("daily note template unavailable")
		body = ""
	}

	abs := filepath.Join(v.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return File{}, fmt.Errorf("create daily note folder: %w", err)
	}
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return newFile(rel), nil
		}
		return File{}, fmt.Errorf("create daily note: %w", err)
	}
	if _, err := f.WriteString(body); err != nil {
		_ = f.Close()
		return File{}, fmt.Errorf("write daily note: %w", err)
	}
	if err := f.Close(); err != nil {
		return File{}, fmt.Errorf("write daily note: %w", err)
	}
	v.log.WithField("path", rel).Info("created daily note")
	return newFile(rel), nil
}

func (v *Vault) dailyTemplate(now time.Time, rel string) (string, error) {
	tmpl := strings.TrimSpace(v.DailyNoteSettings().Template)
	if tmpl == "" {
		return "", nil
	}
	if !strings.HasSuffix(strings.ToLower(tmpl), ".md") {
		tmpl += ".md"
	}
	clean, ok := v.cleanRel(tmpl)
	if !ok {
		return "", fmt.Errorf("template %q: %w", tmpl, ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(v.root, filepath.FromSlash(clean)))
	if err != nil {
		return "", fmt.Errorf("template %q: %w", tmpl, err)
	}
	return expandTemplate(string(data), newFile(rel).Basename, now), nil
}

func expandTemplate(body, title string, now time.Time) string {
	r := strings.NewReplacer(
		"{{title}}", title,
		"{{date}}", FormatMoment(defaultDailyFormat, now),
		"{{time}}", FormatMoment("HH:mm", now),
	)
	return r.Replace(body)
}

var momentTokens = []string{"YYYY", "MMMM", "dddd", "MMM", "ddd", "YY", "MM", "DD", "HH", "mm", "ss", "M", "D"}

// FormatMoment renders t using moment.js style tokens. Text inside [...] is
// copied literally and unknown characters pass through.
func FormatMoment(format string, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			if end := strings.IndexByte(format[i+1:], ']'); end >= 0 {
				b.WriteString(format[i+1 : i+1+end])
				i += end + 2
				continue
			}
		}
		matched := false
		for _, tok := range momentTokens {
			if strings.HasPrefix(format[i:], tok) {
				b.WriteString(momentValue(tok, t))
				i += len(tok)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

func momentValue(tok string, t time.Time) string {
	switch tok {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		return fmt.Sprintf("%d", int(t.Month()))
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return fmt.Sprintf("%d", t.Day())
	case "dddd":
		return t.Weekday().String()
	case "ddd":
		return t.Weekday().String()[:3]
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	}
	return tok
}
