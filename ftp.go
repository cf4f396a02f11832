package main

import (
	"crypto/subtle"
	"crypto/tls"
	"errors"

	ftpserver "github.com/fclairamb/ftpserverlib"
	log "github.com/fclairamb/go-log"
	"github.com/spf13/afero"
)

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errNoTLS              = errors.New("TLS is not configured")
)

// FTPServer is the ftpserverlib main driver. Every authenticated client
// gets the same file system.
type FTPServer struct {
	Settings   *ftpserver.Settings
	FileSystem afero.Fs
	Logger     log.Logger

	// Anonymous access is allowed when Username is empty.
	Username string
	Password string
}

var _ ftpserver.MainDriver = (*FTPServer)(nil)

func (s *FTPServer) GetSettings() (*ftpserver.Settings, error) {
	return s.Settings, nil
}

func (s *FTPServer) ClientConnected(cc ftpserver.ClientContext) (string, error) {
	s.Logger.Info("Client connected", "clientId", cc.ID(), "remoteAddr", cc.RemoteAddr())
	return "diskio raw volume export", nil
}

func (s *FTPServer) ClientDisconnected(cc ftpserver.ClientContext) {
	s.Logger.Info("Client disconnected", "clientId", cc.ID())
}

func (s *FTPServer) AuthUser(cc ftpserver.ClientContext, user, pass string) (ftpserver.ClientDriver, error) {
	if s.Username != "" {
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.Password)) == 1
		if !userOK || !passOK {
			return nil, errInvalidCredentials
		}
	}
	return s.FileSystem, nil
}

func (s *FTPServer) GetTLSConfig() (*tls.Config, error) {
	return nil, errNoTLS
}
