package terminal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestCommandsPrefixFilter(t *testing.T) {
	c := NewCommandCompleter()

	got := c.suggestCommands([]string{"ge"})
	require.Len(t, got, 1)
	assert.Equal(t, "get", got[0].Text)

	got = c.suggestCommands([]string{"c"})
	var texts []string
	for _, s := range got {
		texts = append(texts, s.Text)
	}
	assert.ElementsMatch(t, []string{"close", "cd", "clear"}, texts)
}

func TestSuggestCommandsEmptyReturnsAll(t *testing.T) {
	c := NewCommandCompleter()
	got := c.suggestCommands(nil)
	assert.Len(t, got, 12)
}

func TestSuggestRemoteSkipsHiddenFiles(t *testing.T) {
	c := NewCommandCompleter()
	c.UpdateRemoteFiles([]string{"report.pdf", ".hidden", "readme.txt"}, nil)

	got := c.suggestArguments([]string{"get", "r"})
	var texts []string
	for _, s := range got {
		texts = append(texts, s.Text)
	}
	assert.ElementsMatch(t, []string{"report.pdf", "readme.txt"}, texts)

	got = c.suggestArguments([]string{"get", "."})
	require.Len(t, got, 1)
	assert.Equal(t, ".hidden", got[0].Text)
}

func TestSuggestRemoteDirsForCd(t *testing.T) {
	c := NewCommandCompleter()
	c.UpdateRemoteFiles([]string{"file.bin"}, []string{"uploads", "archive"})

	got := c.suggestArguments([]string{"cd", "a"})
	require.Len(t, got, 1)
	assert.Equal(t, "archive", got[0].Text)
	assert.Equal(t, "Remote directory", got[0].Description)
}

func TestSuggestThemeArguments(t *testing.T) {
	c := NewCommandCompleter()

	got := c.suggestArguments([]string{"theme", "d"})
	var texts []string
	for _, s := range got {
		texts = append(texts, s.Text)
	}
	assert.ElementsMatch(t, []string{"dark", "light"}, texts)
}

func TestClearCacheDropsSuggestions(t *testing.T) {
	c := NewCommandCompleter()
	c.UpdateRemoteFiles([]string{"file.bin"}, []string{"dir"})
	c.ClearCache()

	assert.Empty(t, c.remoteFiles)
	assert.Empty(t, c.remoteDirs)
	assert.True(t, c.lastUpdate.Equal(time.Time{}))
}
