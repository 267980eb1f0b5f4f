package assets

import (
	"sync"
)

// Loader decodes models and images from disk. Decoded images are cached
// by path so a texture shared by several objects is decoded once; each
// object still uploads its own GPU copy.
type Loader struct {
	mu     sync.RWMutex
	images map[string]*Image
}

func NewLoader() *Loader {
	return &Loader{images: make(map[string]*Image)}
}

func (l *Loader) LoadModel(path string) (*Model, error) {
	return LoadModel(path)
}

// LoadImage returns the cached decode of path, decoding it on first use.
// Callers must treat the returned pixels as read-only.
func (l *Loader) LoadImage(path string) (*Image, error) {
	l.mu.RLock()
	if img, ok := l.images[path]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double check locking
	if img, ok := l.images[path]; ok {
		return img, nil
	}

	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	l.images[path] = img
	return img, nil
}

// Purge drops all cached images. The viewer calls it once every object
// has been uploaded.
func (l *Loader) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.images)
}
