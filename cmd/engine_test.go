package cmd

import "testing"

func TestParsePullRef(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		wantSlug   string
		wantNumber int
		wantErr    bool
	}{
		{
			name:       "slug form",
			ref:        "octocat/hello#42",
			wantSlug:   "octocat/hello",
			wantNumber: 42,
		},
		{
			name:       "https url",
			ref:        "https://github.com/octocat/hello/pull/42",
			wantSlug:   "octocat/hello",
			wantNumber: 42,
		},
		{
			name:       "url with trailing files path",
			ref:        "https://github.com/octocat/hello/pull/42/files",
			wantSlug:   "octocat/hello",
			wantNumber: 42,
		},
		{
			name:    "issue url",
			ref:     "https://github.com/octocat/hello/issues/42",
			wantErr: true,
		},
		{
			name:    "slug without number",
			ref:     "octocat/hello",
			wantErr: true,
		},
		{
			name:    "zero number",
			ref:     "octocat/hello#0",
			wantErr: true,
		},
		{
			name:    "missing owner",
			ref:     "hello#42",
			wantErr: true,
		},
		{
			name:    "empty",
			ref:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, number, err := parsePullRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePullRef(%q) expected error, got (%q, %d)", tt.ref, slug, number)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePullRef(%q) unexpected error: %v", tt.ref, err)
			}
			if slug != tt.wantSlug || number != tt.wantNumber {
				t.Errorf("parsePullRef(%q) = (%q, %d), want (%q, %d)",
					tt.ref, slug, number, tt.wantSlug, tt.wantNumber)
			}
		})
	}
}
