package config

import "time"

// LoginConfig holds FTP connection credentials and settings.
type LoginConfig struct {
	Address  string // Example: "ftp.gnu.org:21"
	Username string
	Password string
	Timeout  time.Duration
}

// TransferConfig controls how a download runs.
type TransferConfig struct {
	// BufferSize is the transfer buffer capacity in bytes; zero selects the
	// transfer package default.
	BufferSize int

	// Login is used for ftp:// sources that carry no credentials in the URL.
	Login LoginConfig

	// Quiet suppresses progress output.
	Quiet bool
}

// Default returns a TransferConfig with anonymous FTP login and a 10 second
// dial timeout.
func Default() *TransferConfig {
	return &TransferConfig{
		Login: LoginConfig{
			Username: "anonymous",
			Password: "anonymous",
			Timeout:  10 * time.Second,
		},
	}
}
