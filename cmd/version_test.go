package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(out.String(), "shelfexam ") {
		t.Errorf("output = %q, want shelfexam prefix", out.String())
	}
}

func TestResolvedVersionPrefersLdflags(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v1.4.0"
	if got := resolvedVersion(); got != "v1.4.0" {
		t.Errorf("resolvedVersion = %q, want v1.4.0", got)
	}
}
