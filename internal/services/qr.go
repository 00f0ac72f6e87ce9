package services

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/skip2/go-qrcode"
)

const (
	qrSize = 256
	// qrCacheSize bounds the cache; the URL can come from the Host header.
	qrCacheSize = 8
)

// QRService renders URLs as PNG QR codes and keeps the most recently used ones.
type QRService struct {
	mu    sync.Mutex
	cache map[string]string
	order []string // oldest first
}

func NewQRService() *QRService {
	return &QRService{cache: make(map[string]string, qrCacheSize)}
}

// DataURI returns the QR code for url as a data:image/png;base64 URI.
func (s *QRService) DataURI(url string) (string, error) {
	s.mu.Lock()
	uri, ok := s.cache[url]
	if ok {
		s.touchLocked(url)
	}
	s.mu.Unlock()
	if ok {
		return uri, nil
	}

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	uri = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[url]; ok {
		s.touchLocked(url)
		return uri, nil
	}
	if len(s.order) >= qrCacheSize {
		delete(s.cache, s.order[0])
		s.order = s.order[1:]
	}
	s.cache[url] = uri
	s.order = append(s.order, url)
	return uri, nil
}

// Len returns the number of cached codes.
func (s *QRService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

func (s *QRService) touchLocked(url string) {
	for i, u := range s.order {
		if u == url {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.order = append(s.order, url)
}
