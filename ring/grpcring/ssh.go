// Copyright (C) 2023 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package grpcring

import (
	"context"
	"fmt"
	"io/ioutil"
	"net"
	"os"

	"github.com/google/venus/core/log"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"google.golang.org/grpc"
)

// SSHConfiguration describes an SSH connection to the machine running the
// renderer. The SSH agent is first used to attempt connection, followed by
// the given Keyfile.
type SSHConfiguration struct {
	// The hostname to connect to
	Host string
	// User is the username to use for login
	User string
	// Which port should be used
	Port int16
	// The pem encoded private key file to use for the connection.
	Keyfile string
	// The known_hosts file to use for authentication.
	KnownHosts string
}

// getSSHAgent returns a connection to a local SSH agent, if one exists.
func getSSHAgent() ssh.AuthMethod {
	if sshAgent, err := net.Dial("unix", os.Getenv("SSH_AUTH_SOCK")); err == nil {
		return ssh.PublicKeysCallback(agent.NewClient(sshAgent).Signers)
	}
	return nil
}

// This returns an SSH auth for the given private key.
// It will fail if the private key was encrypted.
func getPrivateKeyAuth(path string) (ssh.AuthMethod, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(bytes)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

// DialSSH opens an SSH connection described by c.
func DialSSH(ctx context.Context, c SSHConfiguration) (*ssh.Client, error) {
	ctx = log.Enter(ctx, "DialSSH")
	auths := []ssh.AuthMethod{}
	if agent := getSSHAgent(); agent != nil {
		auths = append(auths, agent)
	}
	if c.Keyfile != "" {
		if auth, err := getPrivateKeyAuth(c.Keyfile); err == nil {
			auths = append(auths, auth)
		} else {
			log.W(ctx, "Ignoring key file %v: %v", c.Keyfile, err)
		}
	}
	if len(auths) == 0 {
		return nil, log.Errf(ctx, nil, "No valid authentication method for SSH connection to %s", c.Host)
	}

	hosts, err := knownhosts.New(c.KnownHosts)
	if err != nil {
		return nil, log.Err(ctx, err, "Could not read known hosts")
	}

	sshConfig := &ssh.ClientConfig{
		User:            c.User,
		Auth:            auths,
		HostKeyCallback: hosts,
	}
	conn, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", c.Host, c.Port), sshConfig)
	if err != nil {
		return nil, log.Err(ctx, err, "SSH dial")
	}
	return conn, nil
}

// WithSSHTunnel returns a dial option that reaches the gRPC target through
// conn. The target address is resolved on the remote machine.
func WithSSHTunnel(conn *ssh.Client) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
		return conn.Dial("tcp", addr)
	})
}
