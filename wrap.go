package main

import (
	"io"
	"net/http"

	"github.com/OffBroadway/diskio/pkg/volume"
	log "github.com/fclairamb/go-log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/webdav"
)

const webdavPrefix = "/mount"

func newWebDAVHandler(vol *volume.Volume, logger log.Logger) http.Handler {
	return &webdav.Handler{
		Prefix:     webdavPrefix,
		FileSystem: volume.AsWebDAV(vol),
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				logger.Warn("WebDAV request failed", "method", r.Method, "path", r.URL.Path, "err", err)
			}
		},
	}
}

// newHandler serves the volume over WebDAV under /mount/ and Prometheus
// metrics under /metrics. Requests are logged to accessLog in Apache
// Common Log Format.
func newHandler(vol *volume.Volume, logger log.Logger, accessLog io.Writer) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix(webdavPrefix + "/").Handler(newWebDAVHandler(vol, logger))
	return handlers.LoggingHandler(accessLog, router)
}
