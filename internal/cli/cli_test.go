package cli

import "testing"

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want CLIArgs
	}{
		{
			name: "no flags",
			args: nil,
			want: CLIArgs{},
		},
		{
			name: "all flags",
			args: []string{"-config", "/etc/audit.yaml", "-addr", ":9090", "-db", "/var/lib/audit.db"},
			want: CLIArgs{ConfigPath: "/etc/audit.yaml", ListenAddr: ":9090", DBPath: "/var/lib/audit.db"},
		},
		{
			name: "addr only",
			args: []string{"-addr", ":8081"},
			want: CLIArgs{ListenAddr: ":8081"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs: %v", err)
			}
			if got.ConfigPath != tt.want.ConfigPath || got.ListenAddr != tt.want.ListenAddr || got.DBPath != tt.want.DBPath {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if len(got.RawArgs) != len(tt.args) {
				t.Errorf("RawArgs = %v, want the original slice", got.RawArgs)
			}
		})
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"-bogus"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
