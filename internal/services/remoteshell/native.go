package remoteshell

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// SSHClient wraps ssh.Client for mocking.
type SSHClient interface {
	NewSession() (SSHSession, error)
	Close() error
}

// SSHSession wraps ssh.Session for mocking.
type SSHSession interface {
	CombinedOutput(cmd string) ([]byte, error)
	Close() error
}

// ClientFactory creates SSH clients.
type ClientFactory interface {
	NewClient(network, addr string, config *ssh.ClientConfig) (SSHClient, error)
}

// DefaultClientFactory is the default SSH client factory.
type DefaultClientFactory struct{}

// NewClient creates a new SSH client.
func (f *DefaultClientFactory) NewClient(network, addr string, config *ssh.ClientConfig) (SSHClient, error) {
	client, err := ssh.Dial(network, addr, config)
	if err != nil {
		return nil, err
	}
	return &defaultSSHClient{client: client}, nil
}

type defaultSSHClient struct {
	client *ssh.Client
}

func (c *defaultSSHClient) NewSession() (SSHSession, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, err
	}
	return &defaultSSHSession{session: session}, nil
}

func (c *defaultSSHClient) Close() error {
	return c.client.Close()
}

type defaultSSHSession struct {
	session *ssh.Session
}

func (s *defaultSSHSession) CombinedOutput(cmd string) ([]byte, error) {
	return s.session.CombinedOutput(cmd)
}

func (s *defaultSSHSession) Close() error {
	return s.session.Close()
}

// NativeShell runs remote commands over an in-process SSH connection
// with private-key authentication.
type NativeShell struct {
	cfg           models.SSHConfig
	clientFactory ClientFactory
	logger        zerolog.Logger
}

// NewNativeShell creates a shell backed by golang.org/x/crypto/ssh.
func NewNativeShell(logger zerolog.Logger, cfg models.SSHConfig) *NativeShell {
	return &NativeShell{
		cfg:           cfg,
		clientFactory: &DefaultClientFactory{},
		logger:        logger,
	}
}

// NewNativeShellWithFactory creates a NativeShell with a custom client factory (for testing).
func NewNativeShellWithFactory(logger zerolog.Logger, cfg models.SSHConfig, factory ClientFactory) *NativeShell {
	shell := NewNativeShell(logger, cfg)
	shell.clientFactory = factory
	return shell
}

func (s *NativeShell) buildClientConfig() (*ssh.ClientConfig, error) {
	key, err := os.ReadFile(s.cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("reading private key from %s: %w", s.cfg.KeyFile, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	return &ssh.ClientConfig{
		User: s.cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // homelab environment
		Timeout:         s.cfg.Timeout,
	}, nil
}

// Run executes command on host over SSH. The connection and session
// are scoped to this call; a non-zero remote exit status becomes a
// *models.CommandError with the same shape ExecShell produces.
func (s *NativeShell) Run(ctx context.Context, host, command string) (string, error) {
	sshConfig, err := s.buildClientConfig()
	if err != nil {
		return "", err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(s.cfg.Port))

	client, err := s.dial(ctx, addr, sshConfig)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	defer func() { _ = session.Close() }()

	s.logger.Debug().Str("addr", addr).Str("command", command).Msg("executing remote command")

	type runResult struct {
		output []byte
		err    error
	}
	resultChan := make(chan runResult, 1)

	go func() {
		output, err := session.CombinedOutput(command)
		resultChan <- runResult{output, err}
	}()

	select {
	case <-ctx.Done():
		// Closing the client unblocks CombinedOutput.
		_ = client.Close()
		return "", ctx.Err()
	case res := <-resultChan:
		if res.err != nil {
			var exitErr *ssh.ExitError
			if errors.As(res.err, &exitErr) {
				return string(res.output), &models.CommandError{
					Command:  []string{"ssh", fmt.Sprintf("%s@%s", s.cfg.User, addr), command},
					ExitCode: exitErr.ExitStatus(),
					Output:   string(res.output),
				}
			}
			return string(res.output), fmt.Errorf("remote command failed: %w", res.err)
		}
		return string(res.output), nil
	}
}

// dial connects under the caller's context so a stuck TCP handshake
// cannot outlive the request.
func (s *NativeShell) dial(ctx context.Context, addr string, config *ssh.ClientConfig) (SSHClient, error) {
	type dialResult struct {
		client SSHClient
		err    error
	}
	resultChan := make(chan dialResult, 1)

	go func() {
		client, err := s.clientFactory.NewClient("tcp", addr, config)
		resultChan <- dialResult{client, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			// Reap the connection if the dial eventually succeeds.
			if res := <-resultChan; res.err == nil {
				_ = res.client.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", addr, res.err)
		}
		return res.client, nil
	}
}
