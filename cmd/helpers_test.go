package cmd

import (
	"context"
	"testing"
)

func TestResolveFileIDWithPrefix(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr bool
	}{
		{
			name: "raw file ID",
			arg:  "id:1a2b3c4d",
			want: "1a2b3c4d",
		},
		{
			name: "ID containing colon",
			arg:  "id:abc:def",
			want: "abc:def",
		},
		{
			name:    "empty ID",
			arg:     "id:",
			wantErr: true,
		},
	}

	// A nil client is fine here: id-prefixed arguments never touch
	// the resolver.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFileID(context.Background(), nil, tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolveFileID(%q) expected error, got %q", tt.arg, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveFileID(%q) unexpected error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("resolveFileID(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRootCommandRegistration(t *testing.T) {
	expected := []string{
		"auth", "ls", "search", "stat", "mkdir", "upload", "download",
		"export", "rm", "mv", "cp", "rename", "update", "share", "revisions",
		"labels", "quota", "watch", "serve", "version",
	}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("command %q is not registered on the root command", name)
		}
	}
}

func TestWatchSubcommands(t *testing.T) {
	watch := newWatchCmd()
	expected := []string{"changes", "file", "stop", "poll"}

	registered := make(map[string]bool)
	for _, c := range watch.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("watch subcommand %q is not registered", name)
		}
	}
}
