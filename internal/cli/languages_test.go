package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/retab/pkg/language"
)

func TestLanguagesCommand_FormatFlag(t *testing.T) {
	cmd := newLanguagesCommand()
	flag := cmd.Flags().Lookup("format")
	assert.NotNil(t, flag)
}

func TestIndentSignals(t *testing.T) {
	patterned, err := language.Compile(language.Config{
		ID: "example",
		Indent: language.IndentPatterns{
			Increase: `\{$`,
			Decrease: `^\}`,
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "increase,decrease", indentSignals(patterned))

	bracketed, err := language.Compile(language.Config{
		ID: "braces",
		Brackets: []language.BracketPair{
			{Open: "{", Close: "}"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "brackets", indentSignals(bracketed))

	bare, err := language.Compile(language.Config{ID: "plain"})
	assert.NoError(t, err)
	assert.Equal(t, "none", indentSignals(bare))
}
