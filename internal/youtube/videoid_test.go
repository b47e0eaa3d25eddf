package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "watch url", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url v not first", input: "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", want: "dQw4w9WgXcQ"},
		{name: "mobile host", input: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "music host", input: "https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=RD", want: "dQw4w9WgXcQ"},
		{name: "short link", input: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link with time", input: "https://youtu.be/dQw4w9WgXcQ?t=10", want: "dQw4w9WgXcQ"},
		{name: "embed", input: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "nocookie embed", input: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "shorts", input: "https://youtube.com/shorts/abc_DEF-123", want: "abc_DEF-123"},
		{name: "legacy v path", input: "http://www.youtube.com/v/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "no scheme", input: "youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "surrounding whitespace", input: "  https://youtu.be/dQw4w9WgXcQ \n", want: "dQw4w9WgXcQ"},
		{name: "bare id", input: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "empty", input: "", wantErr: true},
		{name: "id too short", input: "https://youtu.be/short", wantErr: true},
		{name: "id too long", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQX", wantErr: true},
		{name: "foreign host", input: "https://example.com/watch?v=dQw4w9WgXcQ", wantErr: true},
		{name: "lookalike host", input: "https://youtube.com.evil.io/watch?v=dQw4w9WgXcQ", wantErr: true},
		{name: "channel page", input: "https://www.youtube.com/@somechannel", wantErr: true},
		{name: "watch without v", input: "https://www.youtube.com/watch?list=PL123", wantErr: true},
		{name: "bad characters", input: "https://youtu.be/dQw4w9W$XcQ", wantErr: true},
		{name: "ftp scheme", input: "ftp://youtu.be/dQw4w9WgXcQ", wantErr: true},
		{name: "not a url", input: "hello world", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if tt.wantErr {
				if err != ErrInvalidURL {
					t.Errorf("ExtractVideoID(%q) error = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) unexpected error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
