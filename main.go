package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/jlaffaye/ftp"
	"github.com/sirupsen/logrus"

	"ftpget/config"
	"ftpget/stream"
	"ftpget/terminal"
	"ftpget/transfer"
)

// FTPConnection represents the client's FTP connection state
type FTPConnection struct {
	client           *ftp.ServerConn
	connected        bool
	server           string
	currentRemoteDir string
	login            config.LoginConfig
}

// FTPClientWrapper adapts FTPConnection to the terminal.FTPClient interface
type FTPClientWrapper struct {
	conn *FTPConnection
}

func (w *FTPClientWrapper) List(path string) ([]*ftp.Entry, error) {
	if !w.conn.connected {
		return nil, fmt.Errorf("not connected")
	}
	return w.conn.client.List(path)
}

func (w *FTPClientWrapper) IsConnected() bool {
	return w.conn.connected
}

func (w *FTPClientWrapper) GetCurrentDir() string {
	return w.conn.currentRemoteDir
}

var (
	ftpConn          = &FTPConnection{}
	themeManager     *terminal.ThemeManager
	commandCompleter *terminal.CommandCompleter
	tableFormatter   *terminal.TableFormatter
)

func main() {
	logrus.SetLevel(logrus.WarnLevel)
	if os.Getenv("FTPGET_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	var err error
	themeManager, err = terminal.NewThemeManager()
	if err != nil {
		fmt.Printf("Warning: Failed to initialize theme manager: %v\n", err)
	}

	commandCompleter = terminal.NewCommandCompleter()
	tableFormatter = terminal.NewTableFormatter()
	commandCompleter.SetFTPClient(&FTPClientWrapper{conn: ftpConn})

	// graceful shutdown on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT)
	go func() {
		<-sigChan
		if ftpConn.connected {
			fmt.Println("\nDisconnecting from FTP server...")
			disconnectFTP()
		}
		fmt.Println("\nExiting...")
		os.Exit(0)
	}()

	themeManager.GetPromptColor().Println("ftpget - asynchronous FTP/HTTP downloader")
	themeManager.GetTextColor().Println("Type 'help' for available commands")
	fmt.Println()

	p := prompt.New(
		executor,
		commandCompleter.Completer,
		prompt.OptionTitle("ftpget"),
		prompt.OptionLivePrefix(func() (string, bool) {
			if ftpConn.connected {
				return "[" + ftpConn.server + " " + ftpConn.currentRemoteDir + "]> ", true
			}
			return "ftpget> ", true
		}),
		prompt.OptionPrefixTextColor(prompt.Green),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionCompletionWordSeparator(" "),
		prompt.OptionAddKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(buf *prompt.Buffer) {
				if ftpConn.connected {
					disconnectFTP()
				}
				fmt.Println("\nExiting...")
				os.Exit(0)
			},
		}),
	)

	p.Run()
}

// executor dispatches one line of input
func executor(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	args := strings.Fields(input)
	cmd := strings.ToLower(args[0])
	args = args[1:]

	switch cmd {
	case "open":
		cmdOpen(args)
	case "close":
		cmdClose()
	case "ls":
		cmdList(args)
	case "lls":
		cmdLocalList(args)
	case "cd":
		cmdChangeDir(args)
	case "pwd":
		cmdPwd()
	case "get":
		cmdGet(args)
	case "fetch":
		cmdFetch(args)
	case "theme":
		cmdTheme(args)
	case "clear":
		fmt.Print("\033[2J\033[H")
	case "help":
		printHelp()
	case "quit", "exit":
		cmdClose()
		fmt.Println("Goodbye!")
		os.Exit(0)
	default:
		themeManager.GetErrorColor().Printf("Unknown command: %s (type 'help')\n", cmd)
	}
}

func cmdOpen(args []string) {
	if len(args) < 1 {
		themeManager.GetErrorColor().Println("Usage: open host[:port] [username] [password]")
		return
	}
	if ftpConn.connected {
		disconnectFTP()
	}

	addr := args[0]
	if !strings.Contains(addr, ":") {
		addr = addr + ":21"
	}
	login := config.Default().Login
	login.Address = addr
	if len(args) > 1 {
		login.Username = args[1]
	}
	if len(args) > 2 {
		login.Password = args[2]
	}

	client, err := ftp.Dial(addr, ftp.DialWithTimeout(login.Timeout))
	if err != nil {
		themeManager.GetErrorColor().Printf("Failed to connect to %s: %v\n", addr, err)
		return
	}
	if err := client.Login(login.Username, login.Password); err != nil {
		client.Quit()
		themeManager.GetErrorColor().Printf("Login failed: %v\n", err)
		return
	}

	dir, err := client.CurrentDir()
	if err != nil {
		dir = "/"
	}

	ftpConn.client = client
	ftpConn.connected = true
	ftpConn.server = addr
	ftpConn.currentRemoteDir = dir
	ftpConn.login = login
	commandCompleter.ClearCache()

	themeManager.GetSuccessColor().Printf("Connected to %s\n", addr)
}

func cmdClose() {
	if !ftpConn.connected {
		return
	}
	disconnectFTP()
	themeManager.GetInfoColor().Println("Disconnected")
}

func disconnectFTP() {
	if ftpConn.client != nil {
		if err := ftpConn.client.Quit(); err != nil {
			logrus.WithField("error", err.Error()).Warn("failed to quit FTP connection")
		}
	}
	ftpConn.client = nil
	ftpConn.connected = false
	ftpConn.server = ""
	ftpConn.currentRemoteDir = ""
	commandCompleter.ClearCache()
}

func cmdList(args []string) {
	if !requireConnection() {
		return
	}
	path := ftpConn.currentRemoteDir
	if len(args) > 0 {
		path = args[0]
	}
	entries, err := ftpConn.client.List(path)
	if err != nil {
		themeManager.GetErrorColor().Printf("Failed to list %s: %v\n", path, err)
		return
	}
	if err := tableFormatter.FormatRemoteDirectory(entries); err != nil {
		themeManager.GetErrorColor().Printf("Failed to render listing: %v\n", err)
	}
}

func cmdLocalList(args []string) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	if err := tableFormatter.FormatLocalDirectory(path); err != nil {
		themeManager.GetErrorColor().Printf("Failed to list %s: %v\n", path, err)
	}
}

func cmdChangeDir(args []string) {
	if !requireConnection() {
		return
	}
	if len(args) < 1 {
		themeManager.GetErrorColor().Println("Usage: cd <directory>")
		return
	}
	if err := ftpConn.client.ChangeDir(args[0]); err != nil {
		themeManager.GetErrorColor().Printf("Failed to change directory: %v\n", err)
		return
	}
	if dir, err := ftpConn.client.CurrentDir(); err == nil {
		ftpConn.currentRemoteDir = dir
	}
	commandCompleter.ClearCache()
}

func cmdPwd() {
	if !requireConnection() {
		return
	}
	themeManager.GetTextColor().Println(ftpConn.currentRemoteDir)
}

// cmdGet downloads a file over the live FTP connection. The REPL goroutine
// acts as the event loop that drives the transfer to completion.
func cmdGet(args []string) {
	if !requireConnection() {
		return
	}
	if len(args) < 1 {
		themeManager.GetErrorColor().Println("Usage: get <remote-file> [local-path]")
		return
	}

	remote := args[0]
	local := filepath.Base(remote)
	if len(args) > 1 {
		local = args[1]
	}

	reader := stream.NewFTPHandle(ftpConn.client, remote)
	start := time.Now()
	if err := transfer.DownloadFrom(reader, remote, local, config.Default()); err != nil {
		themeManager.GetErrorColor().Printf("Download failed: %v\n", err)
		return
	}
	themeManager.GetSuccessColor().Printf("Saved %s in %s\n", local, time.Since(start).Round(time.Millisecond))
}

// cmdFetch downloads from a full URL (http://, https:// or ftp://) on a
// connection of its own.
func cmdFetch(args []string) {
	if len(args) < 1 {
		themeManager.GetErrorColor().Println("Usage: fetch <url> [local-path]")
		return
	}

	source := args[0]
	local := filepath.Base(strings.TrimRight(source, "/"))
	if len(args) > 1 {
		local = args[1]
	}
	if local == "" || local == "." {
		themeManager.GetErrorColor().Println("Cannot derive a local file name from the URL; pass one explicitly")
		return
	}

	start := time.Now()
	if err := transfer.Download(source, local, config.Default()); err != nil {
		themeManager.GetErrorColor().Printf("Download failed: %v\n", err)
		return
	}
	themeManager.GetSuccessColor().Printf("Saved %s in %s\n", local, time.Since(start).Round(time.Millisecond))
}

func cmdTheme(args []string) {
	if len(args) < 1 {
		themeManager.GetTextColor().Printf("Current theme: %s\n", themeManager.GetThemeName())
		return
	}
	if err := themeManager.SetTheme(args[0]); err != nil {
		themeManager.GetErrorColor().Printf("%v\n", err)
		return
	}
	themeManager.GetSuccessColor().Printf("Theme set to %s\n", args[0])
}

func requireConnection() bool {
	if !ftpConn.connected {
		themeManager.GetErrorColor().Println("Not connected. Use: open host[:port] [username] [password]")
		return false
	}
	return true
}

func printHelp() {
	text := themeManager.GetTextColor()
	text.Println("Available commands:")
	text.Println("  open host[:port] [user] [pass]  Connect to an FTP server (anonymous by default)")
	text.Println("  close                           Disconnect from the FTP server")
	text.Println("  ls [path]                       List a remote directory")
	text.Println("  lls [path]                      List a local directory")
	text.Println("  cd <dir>                        Change the remote directory")
	text.Println("  pwd                             Show the remote directory")
	text.Println("  get <remote> [local]            Download a file over the open connection")
	text.Println("  fetch <url> [local]             Download from an ftp:// or http(s):// URL")
	text.Println("  theme [dark|light]              Show or change the color theme")
	text.Println("  clear                           Clear the screen")
	text.Println("  quit                            Exit")
}
