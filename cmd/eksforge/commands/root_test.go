package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_HasExpectedSubcommands(t *testing.T) {
	root := Root()

	want := []string{"init", "validate", "render", "apply", "destroy", "version", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestApply_Flags(t *testing.T) {
	cmd := Apply()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)

	require.NotNil(t, cmd.Flags().Lookup("no-tui"))
	require.NotNil(t, cmd.Flags().Lookup("refresh-instances"))
}

func TestDestroy_Flags(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd.Flags().Lookup("config"))
	require.NotNil(t, cmd.Flags().Lookup("no-tui"))

	flag := cmd.Flags().Lookup("yes")
	require.NotNil(t, flag)
	assert.Equal(t, "y", flag.Shorthand)
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	flag := cmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)

	require.NotNil(t, cmd.Flags().Lookup("defaults"))
	require.NotNil(t, cmd.Flags().Lookup("full"))
}

func TestValidate_Flags(t *testing.T) {
	cmd := Validate()

	require.NotNil(t, cmd.Flags().Lookup("config"))
	require.NotNil(t, cmd.Flags().Lookup("refresh-instances"))
}

func TestRender_Flags(t *testing.T) {
	cmd := Render()

	require.NotNil(t, cmd.Flags().Lookup("config"))
	require.NotNil(t, cmd.Flags().Lookup("output-dir"))
	require.NotNil(t, cmd.Flags().Lookup("only"))
}

func TestVersion_Output(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	cmd := Version()
	assert.Equal(t, "version", cmd.Name())
}
