package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/OffBroadway/diskio/pkg/medium"
	"github.com/OffBroadway/diskio/pkg/volume"
	"github.com/fclairamb/go-log/noop"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	gologrus "github.com/fclairamb/go-log/logrus"
)

func newTestVolume() *volume.Volume {
	devices := map[diskio.Drive]diskio.Medium{
		diskio.DriveSD: diskio.NewMetricsMedium(medium.NewMemory(512, 8), "sd"),
	}
	return volume.New(diskio.NewAdapter(devices), map[string]diskio.Drive{"sd": diskio.DriveSD}, nil)
}

func TestHandler(t *testing.T) {
	server := httptest.NewServer(newHandler(newTestVolume(), noop.NewNoOpLogger(), io.Discard))
	defer server.Close()

	resp, err := http.Get(server.URL + "/mount/sd.img")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, bytes.Repeat([]byte{0xff}, 8*512), data)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	data, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(data), `diskio_medium_operations_started_total{name="sd",operation="ReadBlocks"}`)

	resp, err = http.Get(server.URL + "/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFTPServerAuthUser(t *testing.T) {
	vol := newTestVolume()

	t.Run("Anonymous", func(t *testing.T) {
		s := &FTPServer{FileSystem: vol, Logger: noop.NewNoOpLogger()}
		driver, err := s.AuthUser(nil, "anonymous", "")
		require.NoError(t, err)
		require.Equal(t, vol, driver)
	})

	t.Run("Credentials", func(t *testing.T) {
		s := &FTPServer{FileSystem: vol, Logger: noop.NewNoOpLogger(), Username: "sd", Password: "card"}
		_, err := s.AuthUser(nil, "sd", "wrong")
		require.Equal(t, errInvalidCredentials, err)
		_, err = s.AuthUser(nil, "root", "card")
		require.Equal(t, errInvalidCredentials, err)
		driver, err := s.AuthUser(nil, "sd", "card")
		require.NoError(t, err)
		require.Equal(t, vol, driver)
	})

	t.Run("Settings", func(t *testing.T) {
		s := &FTPServer{}
		_, err := s.GetTLSConfig()
		require.Equal(t, errNoTLS, err)
	})
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func TestCloseAll(t *testing.T) {
	logrusLogger, hook := test.NewNullLogger()
	closed := 0
	closeAll([]io.Closer{
		closerFunc(func() error {
			closed++
			return errors.New("disk full")
		}),
		closerFunc(func() error {
			closed++
			return nil
		}),
	}, gologrus.NewWrap(logrusLogger))

	// A failure does not prevent the remaining media from being closed.
	require.Equal(t, 2, closed)
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
