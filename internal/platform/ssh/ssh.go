package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/rookctl/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 5
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte
	// Passphrase decrypts an encrypted PrivateKey.
	Passphrase []byte

	// KnownHostsFile enables host key verification against an OpenSSH
	// known_hosts file. Ignored when HostKeyCallback is set.
	KnownHostsFile string

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection retry attempts.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification. If nil and no
	// KnownHostsFile is given, host keys are not verified.
	HostKeyCallback ssh.HostKeyCallback
}

// CommandError is returned when a remote command exits unsuccessfully.
type CommandError struct {
	Host     string
	Command  string
	Output   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed on %s (exit %d): %v", e.Command, e.Host, e.ExitCode, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client executes commands on a remote server via SSH.
// It parses the private key once during construction and dials on the
// first Execute call.
type Client struct {
	config *Config
	signer ssh.Signer

	mu   sync.Mutex
	conn *ssh.Client
}

// NewClient creates a new SSH client and validates the private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		callback, err := hostKeyCallback(configCopy.KnownHostsFile)
		if err != nil {
			return nil, err
		}
		configCopy.HostKeyCallback = callback
	}

	signer, err := parseKey(configCopy.PrivateKey, configCopy.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

func hostKeyCallback(knownHostsFile string) (ssh.HostKeyCallback, error) {
	if knownHostsFile == "" {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // opt-in verification via KnownHostsFile
	}
	callback, err := knownhosts.New(knownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts %s: %w", knownHostsFile, err)
	}
	return callback, nil
}

func parseKey(key, passphrase []byte) (ssh.Signer, error) {
	if len(passphrase) > 0 {
		return ssh.ParsePrivateKeyWithPassphrase(key, passphrase)
	}
	return ssh.ParsePrivateKey(key)
}

// Host returns the configured host name.
func (c *Client) Host() string {
	return c.config.Host
}

// Execute runs command on the remote host and returns its combined output.
// Cancelling ctx kills the remote command.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	conn, err := c.connection(ctx)
	if err != nil {
		return "", err
	}

	session, err := conn.NewSession()
	if err != nil {
		// The connection may have dropped between commands; redial once.
		c.reset(conn)
		if conn, err = c.connection(ctx); err != nil {
			return "", err
		}
		if session, err = conn.NewSession(); err != nil {
			return "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
		}
	}
	defer func() { _ = session.Close() }()

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(command)
		done <- result{output: out, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return "", fmt.Errorf("command %q on %s: %w", command, c.config.Host, ctx.Err())
	case res := <-done:
		output := string(res.output)
		if res.err == nil {
			return output, nil
		}
		cmdErr := &CommandError{Host: c.config.Host, Command: command, Output: output, ExitCode: -1, Err: res.err}
		var exitErr *ssh.ExitError
		if errors.As(res.err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitStatus()
		}
		return output, cmdErr
	}
}

// Close closes the underlying connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) reset(conn *ssh.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == conn {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// connection returns the cached connection, dialing with retry when needed.
func (c *Client) connection(ctx context.Context) (*ssh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}

	config := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(c.signer)},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	var conn *ssh.Client
	err := retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		conn, dialErr = dial(ctx, addr, config)
		if isAuthError(dialErr) {
			return retry.Fatal(dialErr)
		}
		return dialErr
	},
		retry.WithMaxRetries(c.config.MaxRetries),
		retry.WithInitialDelay(c.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	c.conn = conn
	return conn, nil
}

func dial(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	d := net.Dialer{Timeout: config.Timeout}
	netConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, config)
	if err != nil {
		_ = netConn.Close()
		return nil, err
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// isAuthError reports handshake failures that a retry cannot fix.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return true
	}
	var revoked *knownhosts.RevokedError
	if errors.As(err, &revoked) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "no supported methods remain")
}
