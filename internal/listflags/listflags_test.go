package listflags

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestAddAllFlagBindsTarget(t *testing.T) {
	var all bool
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, &all)

	if err := cmd.ParseFlags([]string{"-a"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !all {
		t.Fatal("expected -a to set the target")
	}
}

func TestAddAllFlagWithoutTarget(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, nil)

	if err := cmd.ParseFlags([]string{"--all"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	got, err := cmd.Flags().GetBool("all")
	if err != nil {
		t.Fatalf("get flag: %v", err)
	}
	if !got {
		t.Fatal("expected --all to be set")
	}
}
