package render

import (
	"iter"
	"strings"
	"testing"

	"github.com/bsthun/gut"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/crank/utility/code"
)

func sequence(modules []*code.Module, failure error) iter.Seq2[*code.Module, error] {
	return func(yield func(*code.Module, error) bool) {
		for _, module := range modules {
			if !yield(module, nil) {
				return
			}
		}
		if failure != nil {
			yield(nil, failure)
		}
	}
}

func TestModule(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	blocks, err := renderer.Module(&code.Module{
		Name: "string_ops",
		Functions: []*code.Function{
			{Name: "len", Description: "Length of a string.\n\nCounts characters."},
			{Name: "rev"},
			{
				Name:      "pad",
				Arguments: []*code.Argument{{Name: "width", Description: "target width"}},
				Returns:   gut.Ptr("the padded string"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	expected := strings.TrimSpace(dedent.Dedent(`
		## String Ops

		### ` + "`len`" + `

		Length of a string.

		Counts characters.

		### ` + "`rev`" + `

		### ` + "`pad`" + `

		- ` + "`width`" + `: target width

		Returns the padded string
	`))
	assert.Equal(t, expected, blocks[0])
}

func TestModuleSubmodulesNest(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	blocks, err := renderer.Module(&code.Module{
		Name: "api",
		Submodules: []*code.Module{
			{Name: "base", Functions: []*code.Function{{Name: "str", Description: "Converts to string."}}},
			{Name: "math"},
		},
	})
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "## Api", blocks[0])
	assert.Equal(t, "### Base\n\n#### `str`\n\nConverts to string.", blocks[1])
	assert.Equal(t, "### Math", blocks[2])
}

func TestHeadingDepthIsCapped(t *testing.T) {
	assert.Equal(t, "##", heading(2))
	assert.Equal(t, "######", heading(9))
}

func TestLines(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	lines, err := renderer.Lines(sequence([]*code.Module{
		{Name: "base", Functions: []*code.Function{{Name: "foo", Description: "Does a thing."}}},
		{Name: "math"},
	}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"",
		"## Base",
		"",
		"### `foo`",
		"",
		"Does a thing.",
		"",
		"## Math",
		"",
	}, lines)
}

func TestLinesPropagatesScrapeError(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	failure := assert.AnError
	_, err = renderer.Lines(sequence([]*code.Module{{Name: "base"}}, failure))
	assert.ErrorIs(t, err, failure)
}

func TestLinesEmpty(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	lines, err := renderer.Lines(sequence(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, lines)
}

func TestTerminal(t *testing.T) {
	output, err := Terminal("## Base\n\nDoes a thing.", 80)
	require.NoError(t, err)
	assert.Contains(t, output, "Base")
	assert.Contains(t, output, "Does a thing.")
}
