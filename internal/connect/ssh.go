package connect

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/halcyonsync/filesync/internal/stream"
)

// SSHOpts configures how SSH connects and what it runs once connected.
// RemoteCommand is the peer-side binary invocation that speaks the sync
// protocol over its stdin/stdout, analogous to how `adb sync` runs
// `sync` on the far end of its transport.
type SSHOpts struct {
	Port          int
	KeyFile       string
	Password      string
	RemoteCommand string
}

// SSH returns a stream.Connector that dials host over SSH as userName,
// then execs RemoteCommand and wraps its stdin/stdout as the session
// stream. Auth is tried in the order the reference implementation uses:
// agent, then key file(s), then password.
func SSH(host, userName string, opts SSHOpts) stream.Connector {
	return func() (stream.Stream, error) {
		client, err := dialSSH(host, userName, opts)
		if err != nil {
			return nil, err
		}

		sess, err := client.NewSession()
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("open ssh session: %w", err)
		}

		stdin, err := sess.StdinPipe()
		if err != nil {
			sess.Close()
			client.Close()
			return nil, fmt.Errorf("ssh stdin pipe: %w", err)
		}
		stdout, err := sess.StdoutPipe()
		if err != nil {
			sess.Close()
			client.Close()
			return nil, fmt.Errorf("ssh stdout pipe: %w", err)
		}

		cmd := opts.RemoteCommand
		if cmd == "" {
			cmd = "filesync daemon"
		}
		if err := sess.Start(cmd); err != nil {
			sess.Close()
			client.Close()
			return nil, fmt.Errorf("start remote command %q: %w", cmd, err)
		}

		return &sshStream{sess: sess, client: client, r: stdout, w: stdin}, nil
	}
}

// sshStream composes a remote command's stdio pipes into one stream.Stream,
// closing the SSH session and client on Close.
type sshStream struct {
	sess   *ssh.Session
	client *ssh.Client
	r      io.Reader
	w      io.WriteCloser
}

func (s *sshStream) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s *sshStream) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *sshStream) Close() error {
	s.w.Close()
	err := s.sess.Close()
	if cerr := s.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func dialSSH(host, userName string, opts SSHOpts) (*ssh.Client, error) {
	if userName == "" {
		u, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("determine current user: %w", err)
		}
		userName = u.Username
	}

	port := opts.Port
	if port == 0 {
		port = 22
	}

	authMethods := buildAuthMethods(opts)
	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no SSH auth methods available (set SSH_AUTH_SOCK, provide a key, or password)")
	}

	hostKeyCallback, err := defaultHostKeyCallback()
	if err != nil {
		//nolint:gosec // fallback for systems without a known_hosts file
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	config := &ssh.ClientConfig{
		User:            userName,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", addr, err)
	}
	return client, nil
}

func buildAuthMethods(opts SSHOpts) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			agentClient := agent.NewClient(conn)
			methods = append(methods, ssh.PublicKeysCallback(agentClient.Signers))
		}
	}

	if opts.KeyFile != "" {
		if m := keyFileAuth(opts.KeyFile); m != nil {
			methods = append(methods, m)
		}
	} else {
		for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
			home, err := os.UserHomeDir()
			if err != nil {
				continue
			}
			if m := keyFileAuth(filepath.Join(home, ".ssh", name)); m != nil {
				methods = append(methods, m)
			}
		}
	}

	if opts.Password != "" {
		methods = append(methods, ssh.Password(opts.Password))
	}

	return methods
}

func keyFileAuth(path string) ssh.AuthMethod {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil
	}
	return ssh.PublicKeys(signer)
}

func defaultHostKeyCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return knownhosts.New(filepath.Join(home, ".ssh", "known_hosts"))
}
