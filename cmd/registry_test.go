package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegister_Apply_ExecutesCommand(t *testing.T) {
	out := &bytes.Buffer{}
	Register(&cobra.Command{
		Use:   "shift:recount",
		Short: "Recompute a register day's totals",
		Run: func(c *cobra.Command, args []string) {
			out.WriteString("recounted")
		},
	})
	Apply()

	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"shift:recount"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "recounted") {
		t.Errorf("output = %q, want recounted", out.String())
	}
}

func TestApply_UnknownCommandFails(t *testing.T) {
	Apply()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"no:such:command"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("unknown command should error")
	}
}
