package media

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "dotted path", in: "mod1.scenes.A", want: "mod1-scenes-a"},
		{name: "spaces and punctuation", in: "My Maps!.Scene Pack.The Cave (Night)", want: "my-maps-scene-pack-the-cave-night"},
		{name: "runs collapse", in: "a -- b__c", want: "a-b-c"},
		{name: "leading and trailing trimmed", in: "  ...Hello...  ", want: "hello"},
		{name: "digits kept", in: "Level 12.Room 3", want: "level-12-room-3"},
		{name: "accents transliterated", in: "Höhle.Café", want: "hohle-cafe"},
		{name: "only symbols", in: "!!!", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugIsFilesystemSafe(t *testing.T) {
	inputs := []string{"a/b\\c", "../../etc/passwd", "x:y*z?", "名前", "tab\there"}
	for _, in := range inputs {
		got := Slug(in)
		for _, r := range got {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
				t.Errorf("Slug(%q) = %q contains %q", in, got, r)
			}
		}
		if len(got) > 0 && (got[0] == '-' || got[len(got)-1] == '-') {
			t.Errorf("Slug(%q) = %q has an edge hyphen", in, got)
		}
	}
}

func TestThumbnailName(t *testing.T) {
	if got := ThumbnailName("mod1", "scenes", "A", ".png"); got != "mod1-scenes-a.png" {
		t.Errorf("ThumbnailName() = %q, want %q", got, "mod1-scenes-a.png")
	}
	if got := ThumbnailName("", "", "???", ".jpg"); got != "thumbnail.jpg" {
		t.Errorf("ThumbnailName() of an empty slug = %q, want %q", got, "thumbnail.jpg")
	}
}
