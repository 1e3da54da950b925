package server

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/wikikit/internal/dom"
)

// LiveReloadMeta names the <meta> element that points pages at the reload
// socket.
const LiveReloadMeta = "wikikit-live-reload"

// staticHandler serves the built site. With live reload on, HTML pages get
// the reload hook added to their head on the way out.
func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.Dir))
	if !s.cfg.LiveReload {
		return files
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/") {
			name = path.Join(name, "index.html")
		}
		if path.Ext(name) != ".html" {
			files.ServeHTTP(w, r)
			return
		}

		full := filepath.Join(s.cfg.Dir, filepath.FromSlash(name))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("stat page", zap.String("path", full), zap.Error(err))
			}
			files.ServeHTTP(w, r)
			return
		}
		src, err := os.ReadFile(full)
		if err != nil {
			http.Error(w, "reading page", http.StatusInternalServerError)
			return
		}
		out, err := injectReloadHook(src, ReloadPath)
		if err != nil {
			s.logger.Warn("injecting reload hook", zap.String("path", full), zap.Error(err))
			out = src
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeContent(w, r, name, info.ModTime(), bytes.NewReader(out))
	})
}

// injectReloadHook adds <meta name="wikikit-live-reload"> to the page head
// unless it is already there.
func injectReloadHook(src []byte, socketPath string) ([]byte, error) {
	doc, err := dom.Parse(src)
	if err != nil {
		return nil, err
	}
	if dom.MetaContent(doc, LiveReloadMeta) != "" {
		return src, nil
	}
	head := dom.Head(doc)
	if head == nil {
		return src, nil
	}
	dom.Append(head, dom.Element("meta", "name", LiveReloadMeta, "content", socketPath))
	out, err := dom.Render(doc)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
