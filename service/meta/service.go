package meta

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads YAML assets from any afs supported location
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// Download returns the asset content with ${env.KEY} expressions expanded
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	location := s.location(URL)
	data, err := s.fs.DownloadWithURL(ctx, location, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", location, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// Load decodes a YAML asset into target
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", s.location(URL), err)
	}
	return nil
}

func (s *Service) location(URL string) string {
	if s.baseURL == "" || !url.IsRelative(URL) {
		return URL
	}
	return url.Join(s.baseURL, URL)
}

// New creates a meta service; relative URLs are resolved against baseURL
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
