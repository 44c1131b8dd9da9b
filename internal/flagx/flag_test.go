package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-a", "http://api:5001/api", "-x", "1"},
			allowedFlags: []string{"-a", "-t"},
			want:         []string{"-a", "http://api:5001/api"},
		},
		{
			name:         "equals form",
			args:         []string{"-t=5s", "-x", "1"},
			allowedFlags: []string{"-a", "-t"},
			want:         []string{"-t=5s"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-a"},
			want:         []string{},
		},
		{
			name:         "dangling flag kept",
			args:         []string{"-a"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a"},
		},
		{
			name:         "value that looks like a flag is not consumed",
			args:         []string{"-a", "-t", "3s"},
			allowedFlags: []string{"-a", "-t"},
			want:         []string{"-a", "-t", "3s"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJSONConfigPath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short", func(t *testing.T) {
		os.Args = []string{"vendordesk", "-c", "/etc/vd.json"}
		assert.Equal(t, "/etc/vd.json", JSONConfigPath())
	})

	t.Run("long", func(t *testing.T) {
		os.Args = []string{"vendordesk", "-config", "/etc/vd.json"}
		assert.Equal(t, "/etc/vd.json", JSONConfigPath())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"vendordesk", "-a", "http://x"}
		assert.Empty(t, JSONConfigPath())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"vendordesk", "-c", "/1.json", "-config", "/2.json"}
		assert.Equal(t, "/2.json", JSONConfigPath())
	})
}
