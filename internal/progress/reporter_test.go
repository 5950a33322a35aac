package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf, Label: "Importing specs"}

	r.Start(2)
	r.Update(1, "core.json")
	r.Update(2, "snomed.yaml")
	r.Finish()

	assert.Equal(t, "Importing specs: 2 files\n[1/2] core.json\n[2/2] snomed.yaml\nImporting specs: done\n", buf.String())
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	r := NewReporter("Importing specs")
	ci, ok := r.(*CIReporter)
	if assert.True(t, ok) {
		assert.Equal(t, "Importing specs", ci.Label)
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	_, ok := NewReporter("Importing specs").(*TerminalReporter)
	assert.True(t, ok)
}

func TestNop(t *testing.T) {
	var r Reporter = Nop{}
	r.Start(3)
	r.Update(1, "ignored")
	r.Finish()
}
