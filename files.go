/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// soundURL is where the public screen fetches the file of a cue.
func soundURL(cfg *Config, tag string) string {
	return cfg.prefix + "/sound/" + tag + "." + cfg.soundExt
}

// serveSounds serves cue files from --sound-dir. Lookups cannot escape the
// directory.
func serveSounds(cfg *Config, errs chan<- error) (httprouter.Handle, error) {
	root, err := os.OpenRoot(cfg.soundDir)
	if err != nil {
		return nil, fmt.Errorf("open sound directory: %w", err)
	}

	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		name := strings.TrimPrefix(path.Clean("/"+p.ByName("filepath")), "/")

		f, err := root.Open(name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs <- err
			}
			http.NotFound(w, r)

			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		http.ServeContent(w, r, name, info.ModTime(), f)

		logf(cfg, "SERVE: Sound %s (%s) to %s in %s",
			name,
			humanReadableSize(info.Size()),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}, nil
}
