package bot

import (
	"strings"
	"testing"
)

func TestSplitMessageShort(t *testing.T) {
	parts := splitMessage("короткий текст", 100)
	if len(parts) != 1 || parts[0] != "короткий текст" {
		t.Fatalf("short text must stay in one part, got %v", parts)
	}
}

func TestSplitMessageByLines(t *testing.T) {
	lines := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		lines = append(lines, strings.Repeat("а", 30))
	}
	text := strings.Join(lines, "\n")

	parts := splitMessage(text, 200)
	if len(parts) < 2 {
		t.Fatalf("expected text to be split, got %d part(s)", len(parts))
	}
	for i, part := range parts {
		if len(part) > 200 {
			t.Fatalf("part %d exceeds limit: %d bytes", i, len(part))
		}
	}
	if strings.Join(parts, "\n") != text {
		t.Fatal("split must not lose content")
	}
}

func TestOptionsKeyboardLayout(t *testing.T) {
	kb := optionsKeyboard([]string{"-", "+", "Статистика", "Назад"})

	if !kb.ResizeKeyboard {
		t.Fatal("keyboard must be resizable")
	}
	if len(kb.Keyboard) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(kb.Keyboard))
	}
	if len(kb.Keyboard[0]) != 2 || kb.Keyboard[0][0].Text != "-" || kb.Keyboard[0][1].Text != "+" {
		t.Fatalf("unexpected first row: %+v", kb.Keyboard[0])
	}
	if len(kb.Keyboard[1]) != 1 || kb.Keyboard[1][0].Text != "Статистика" {
		t.Fatalf("unexpected second row: %+v", kb.Keyboard[1])
	}
	last := kb.Keyboard[len(kb.Keyboard)-1]
	if len(last) != 1 || last[0].Text != "Назад" {
		t.Fatalf("Назад must be alone on the last row, got %+v", last)
	}
}

func TestOptionsKeyboardBackInMiddle(t *testing.T) {
	kb := optionsKeyboard([]string{"Удалить по ID", "Назад", "Обнулить статистику"})

	last := kb.Keyboard[len(kb.Keyboard)-1]
	if len(last) != 1 || last[0].Text != "Назад" {
		t.Fatalf("Назад must always end up last, got %+v", last)
	}
	if len(kb.Keyboard) != 2 || len(kb.Keyboard[0]) != 2 {
		t.Fatalf("other options must pair up, got %+v", kb.Keyboard)
	}
}
