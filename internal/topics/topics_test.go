package topics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/starford/gebo/internal/apperr"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Plain Title", "Plain Title"},
		{`What is REST/HTTP?`, "What is REST_HTTP_"},
		{`a<b>c:d"e`, "a_b_c_d_e"},
		{`back\slash|pipe*star`, "back_slash_pipe_star"},
		{"  .trimmed.  ", "trimmed"},
		{"...", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeCapsLength(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := Sanitize(long)
	if len(got) != 100 {
		t.Errorf("len = %d, want 100", len(got))
	}
}

func TestSanitizeCapsOnRuneBoundary(t *testing.T) {
	// 40 three-byte runes; a byte cut at 100 would land mid-rune.
	long := strings.Repeat("日", 40)
	got := Sanitize(long)
	if !utf8.ValidString(got) {
		t.Fatalf("result is not valid UTF-8: %q", got)
	}
	if len(got) != 99 {
		t.Errorf("len = %d, want 99", len(got))
	}
}

func TestNormalizeDeduplicates(t *testing.T) {
	got := Normalize([]string{"Go", "Go", "go", "Go", ""})
	want := []string{"Go", "Go 2", "go", "Go 3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeCollapsesToSame(t *testing.T) {
	// Two raw titles that sanitize to the same string must still come out
	// distinct, otherwise two notes would fight over one file.
	got := Normalize([]string{"A/B", "A_B"})
	if len(got) != 2 || got[0] == got[1] {
		t.Errorf("got %v, want two distinct titles", got)
	}
}

func TestTemplateExpanderDeterministic(t *testing.T) {
	e := TemplateExpander{}
	a, err := e.Expand(context.Background(), "Rust", 25)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	b, _ := e.Expand(context.Background(), "Rust", 25)
	if len(a) != 25 || len(b) != 25 {
		t.Fatalf("lengths = %d, %d, want 25", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("titles differ at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestTemplateExpanderMainTopicFirst(t *testing.T) {
	got, err := TemplateExpander{}.Expand(context.Background(), "Distributed Systems", 10)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got[0] != "Distributed Systems" {
		t.Errorf("first title = %q, want the main topic", got[0])
	}
}

func TestTemplateExpanderUnique(t *testing.T) {
	// 40 titles forces the extension vocabulary to cycle.
	got, err := TemplateExpander{}.Expand(context.Background(), "Kubernetes", 40)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(got) != 40 {
		t.Fatalf("len = %d, want 40", len(got))
	}
	seen := make(map[string]struct{}, len(got))
	for _, title := range got {
		if _, dup := seen[title]; dup {
			t.Errorf("duplicate title %q", title)
		}
		seen[title] = struct{}{}
		if title != Sanitize(title) {
			t.Errorf("title %q is not filename-safe", title)
		}
	}
}

func TestTemplateExpanderTooFew(t *testing.T) {
	_, err := TemplateExpander{}.Expand(context.Background(), "Go", 1)
	if !errors.Is(err, apperr.ErrInsufficientTopics) {
		t.Errorf("err = %v, want ErrInsufficientTopics", err)
	}
}

func TestTemplateExpanderSanitizesTopic(t *testing.T) {
	got, err := TemplateExpander{}.Expand(context.Background(), "C/C++", 5)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	for _, title := range got {
		if strings.ContainsAny(title, invalidChars) {
			t.Errorf("title %q contains reserved characters", title)
		}
	}
}
