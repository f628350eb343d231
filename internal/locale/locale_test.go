package locale

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNew(t *testing.T) {
	c, err := New("ru")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	langs := c.Languages()
	if len(langs) != 2 || langs[0] != language.Russian || langs[1] != language.English {
		t.Errorf("Languages() = %v, want [ru en]", langs)
	}

	if _, err := New("de"); err == nil {
		t.Error("New(de) should fail without a message file")
	}
	if _, err := New("not a tag!"); err == nil {
		t.Error("New() should reject an invalid tag")
	}
}

func TestMatch(t *testing.T) {
	c := MustNew("ru")

	tests := []struct {
		accept string
		want   language.Tag
	}{
		{"", language.Russian},
		{"en-US,en;q=0.9", language.English},
		{"ru-RU,ru;q=0.9,en;q=0.8", language.Russian},
		{"de-DE,en;q=0.5", language.English},
		{"de", language.Russian},
		{";;garbage", language.Russian},
	}

	for _, tt := range tests {
		if got := c.Match(tt.accept); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.accept, got, tt.want)
		}
	}
}

func TestNotFound(t *testing.T) {
	c := MustNew("ru")

	tests := []struct {
		lang       language.Tag
		suggestion string
		want       NotFoundText
	}{
		{
			lang:       language.English,
			suggestion: "/dashboard",
			want: NotFoundText{
				Lang:       language.English,
				Heading:    "Page not found",
				Body:       "There is nothing at /dashbord.",
				Suggestion: "Did you mean /dashboard?",
				Home:       "Go to sign in",
			},
		},
		{
			lang: language.Russian,
			want: NotFoundText{
				Lang:    language.Russian,
				Heading: "Страница не найдена",
				Body:    "По адресу /dashbord ничего нет.",
				Home:    "Перейти ко входу",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.lang.String(), func(t *testing.T) {
			got, err := c.NotFound(tt.lang, "/dashbord", tt.suggestion)
			if err != nil {
				t.Fatalf("NotFound() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NotFound() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocalizeUnknownMessage(t *testing.T) {
	if _, err := MustNew("en").Localize(language.English, "NoSuchMessage", nil); err == nil {
		t.Error("expected error for unknown message id")
	}
}
