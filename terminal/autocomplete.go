package terminal

import (
	"os"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/jlaffaye/ftp"
)

// FTPClient is the subset of the client state the completer needs; an
// interface keeps the terminal package free of a dependency on main.
type FTPClient interface {
	List(path string) ([]*ftp.Entry, error)
	IsConnected() bool
	GetCurrentDir() string
}

// CommandCompleter handles command and argument completion
type CommandCompleter struct {
	commands     []prompt.Suggest
	remoteFiles  []string
	remoteDirs   []string
	lastUpdate   time.Time
	ftpClient    FTPClient
	cacheTimeout time.Duration
}

// NewCommandCompleter creates a completer for the client commands
func NewCommandCompleter() *CommandCompleter {
	return &CommandCompleter{
		commands: []prompt.Suggest{
			{Text: "open", Description: "Connect to an FTP server"},
			{Text: "close", Description: "Disconnect from the FTP server"},
			{Text: "ls", Description: "List files on the FTP server"},
			{Text: "lls", Description: "List local files"},
			{Text: "cd", Description: "Change remote directory"},
			{Text: "pwd", Description: "Show current remote directory"},
			{Text: "get", Description: "Download a file from the FTP server"},
			{Text: "fetch", Description: "Download a file from an HTTP or FTP URL"},
			{Text: "theme", Description: "Change terminal theme"},
			{Text: "clear", Description: "Clear terminal screen"},
			{Text: "help", Description: "Show help information"},
			{Text: "quit", Description: "Exit the client"},
		},
		cacheTimeout: 15 * time.Second,
	}
}

// SetFTPClient sets the FTP client used for remote completion
func (c *CommandCompleter) SetFTPClient(client FTPClient) {
	c.ftpClient = client
}

// UpdateRemoteFiles updates the cached remote files and directories
func (c *CommandCompleter) UpdateRemoteFiles(files, dirs []string) {
	c.remoteFiles = files
	c.remoteDirs = dirs
	c.lastUpdate = time.Now()
}

// ClearCache drops all cached remote suggestions
func (c *CommandCompleter) ClearCache() {
	c.remoteFiles = nil
	c.remoteDirs = nil
	c.lastUpdate = time.Time{}
}

// Completer returns suggestions for the current input
func (c *CommandCompleter) Completer(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	words := strings.Fields(text)

	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(text, " ")) {
		return c.suggestCommands(words)
	}
	return c.suggestArguments(words)
}

func (c *CommandCompleter) suggestCommands(words []string) []prompt.Suggest {
	if len(words) == 0 {
		return c.commands
	}

	prefix := strings.ToLower(words[0])
	var filtered []prompt.Suggest
	for _, s := range c.commands {
		if strings.HasPrefix(s.Text, prefix) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func (c *CommandCompleter) suggestArguments(words []string) []prompt.Suggest {
	cmd := strings.ToLower(words[0])
	lastWord := words[len(words)-1]
	if lastWord == "" {
		return nil
	}

	switch cmd {
	case "cd":
		return c.suggestRemote(c.remoteDirs, lastWord, "Remote directory")
	case "get":
		return c.suggestRemote(c.remoteFiles, lastWord, "Remote file")
	case "ls":
		suggestions := c.suggestRemote(c.remoteDirs, lastWord, "Remote directory")
		return append(suggestions, c.suggestRemote(c.remoteFiles, lastWord, "Remote file")...)
	case "lls":
		return c.suggestLocalDirs(lastWord)
	case "theme":
		return []prompt.Suggest{
			{Text: "dark", Description: "Dark theme"},
			{Text: "light", Description: "Light theme"},
		}
	default:
		return nil
	}
}

func (c *CommandCompleter) suggestRemote(names []string, prefix, description string) []prompt.Suggest {
	if time.Since(c.lastUpdate) > c.cacheTimeout {
		c.refreshRemoteCache()
	}

	var suggestions []prompt.Suggest
	for _, name := range names {
		// hidden entries only when asked for explicitly
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			suggestions = append(suggestions, prompt.Suggest{Text: name, Description: description})
		}
	}
	return suggestions
}

func (c *CommandCompleter) suggestLocalDirs(prefix string) []prompt.Suggest {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	entries, err := os.ReadDir(cwd)
	if err != nil {
		return nil
	}

	var suggestions []prompt.Suggest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			suggestions = append(suggestions, prompt.Suggest{Text: name, Description: "Local directory"})
		}
	}
	return suggestions
}

func (c *CommandCompleter) refreshRemoteCache() {
	if c.ftpClient == nil || !c.ftpClient.IsConnected() {
		return
	}

	currentDir := c.ftpClient.GetCurrentDir()
	if currentDir == "" {
		currentDir = "/"
	}

	entries, err := c.ftpClient.List(currentDir)
	if err != nil {
		// keep whatever cache we have
		return
	}

	var files, dirs []string
	for _, entry := range entries {
		if entry.Type == ftp.EntryTypeFolder {
			dirs = append(dirs, entry.Name)
		} else {
			files = append(files, entry.Name)
		}
	}
	c.UpdateRemoteFiles(files, dirs)
}
