package res

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultHTTPTimeout bounds a single remote fetch, body included
const DefaultHTTPTimeout = 30 * time.Second

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeFont is a font or font collection
	ResourceTypeFont
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Loader reads resources from local paths, search directories, data URLs
// and http(s) URLs. Loaded resources are cached by the requested name; the
// cache is safe for concurrent use.
type Loader struct {
	// Base path or URL for resolving relative names
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL:     baseURL,
		cache:       make(map[string]*Resource),
		searchPaths: []string{},
		client:      &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// SetHTTPTimeout changes the limit for remote fetches
func (l *Loader) SetHTTPTimeout(d time.Duration) {
	l.client.Timeout = d
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.cacheLock.Lock()
	defer l.cacheLock.Unlock()
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(name string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[name]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var (
		res *Resource
		err error
	)
	switch {
	case strings.HasPrefix(name, "data:"):
		res, err = parseDataURL(name)
	case isRemote(name):
		res, err = l.loadRemote(name)
	default:
		res, err = l.loadLocal(l.resolvePath(name))
	}
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[name] = res
	l.cacheLock.Unlock()

	return res, nil
}

// LoadFont loads a font resource
func (l *Loader) LoadFont(name string) (*Resource, error) {
	res, err := l.Load(name)
	if err != nil {
		return nil, err
	}

	if res.Type != ResourceTypeFont {
		return nil, fmt.Errorf("resource is not a font: %s", name)
	}

	return res, nil
}

func isRemote(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// parseDataURL parses a data URL (RFC 2397), e.g.
//
//	data:font/ttf;base64,<base64>
func parseDataURL(u string) (*Resource, error) {
	parts := strings.SplitN(strings.TrimPrefix(u, "data:"), ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URL")
	}
	meta, payload := parts[0], parts[1]

	mime := "application/octet-stream"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mime = comps[0]
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = decoded
	} else if d, err := url.QueryUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}

	return &Resource{URL: u, Data: data, MimeType: mime, Type: determineResourceType(mime, "")}, nil
}

// resolvePath joins relative names onto the directory of BaseURL
func (l *Loader) resolvePath(name string) string {
	if filepath.IsAbs(name) || l.BaseURL == "" || isRemote(l.BaseURL) {
		return name
	}
	return filepath.Join(filepath.Dir(l.BaseURL), name)
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(urlStr string) (*Resource, error) {
	resp, err := l.client.Get(urlStr)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	res := &Resource{
		URL:      urlStr,
		Data:     data,
		MimeType: resp.Header.Get("Content-Type"),
	}
	res.Type = determineResourceType(res.MimeType, urlStr)
	return res, nil
}

// loadLocal loads a resource from a local file, then from the search paths
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}
	return newLocalResource(path, data), nil
}

// loadFromSearchPaths looks for the base name of filename in each search path
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	base := filepath.Base(filename)

	l.cacheLock.RLock()
	paths := append([]string(nil), l.searchPaths...)
	l.cacheLock.RUnlock()

	for _, dir := range paths {
		path := filepath.Join(dir, base)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return newLocalResource(path, data), nil
	}

	return nil, fmt.Errorf("resource not found: %s: %w", filename, os.ErrNotExist)
}

func newLocalResource(path string, data []byte) *Resource {
	mime := determineMimeType(path)
	return &Resource{
		URL:      path,
		Data:     data,
		MimeType: mime,
		Type:     determineResourceType(mime, path),
	}
}

// determineMimeType determines the MIME type of a file
func determineMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".ttc":
		return "font/collection"
	default:
		return "application/octet-stream"
	}
}

// determineResourceType determines the type of a resource
func determineResourceType(mimeType, path string) ResourceType {
	if strings.HasPrefix(mimeType, "font/") || strings.HasPrefix(mimeType, "application/font") ||
		strings.HasPrefix(mimeType, "application/x-font") {
		return ResourceTypeFont
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc":
		return ResourceTypeFont
	}

	return ResourceTypeOther
}

// GetReader returns a reader for a resource
func (r *Resource) GetReader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}
