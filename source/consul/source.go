package consul

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/source"
)

// Source reads packages stored as values below a Consul KV prefix.
//
// Consul limits values to 512KB by default, so this source is mostly useful
// for small language and patch packages.
type Source struct {
	kv     *api.KV
	config *Config
}

// Config contains configuration options for the Consul source
type Config struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string

	// Token for Consul ACL authentication (optional)
	Token string

	// Datacenter to use (optional)
	Datacenter string

	// Prefix that acts as package directory (default: "packfs")
	Prefix string
}

func New(config *Config) (*Source, error) {
	if config == nil {
		config = &Config{}
	}

	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}
	if config.Prefix == "" {
		config.Prefix = "packfs"
	}

	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	if config.Token != "" {
		clientConfig.Token = config.Token
	}
	if config.Datacenter != "" {
		clientConfig.Datacenter = config.Datacenter
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	return &Source{
		kv:     client.KV(),
		config: config,
	}, nil
}

// Name returns the identifier name defined for this source
func (*Source) Name() string {
	return "consul"
}

// List returns the direct children of the prefix. Sizes are not reported.
func (s *Source) List(ctx context.Context) ([]*source.Entry, error) {
	prefix := s.prefix()

	opts := (&api.QueryOptions{}).WithContext(ctx)
	keys, _, err := s.kv.Keys(prefix, "/", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list prefix '%s': %w", prefix, err)
	}

	entries := make([]*source.Entry, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimPrefix(key, prefix)
		isDir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		if name == "" {
			continue
		}

		entries = append(entries, &source.Entry{
			Name:  name,
			IsDir: isDir,
		})
	}

	return entries, nil
}

// Open reads the whole value into memory.
func (s *Source) Open(ctx context.Context, name string) (source.File, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("failed to open '%s': %w", name, data.ErrInvalidPath)
	}

	key := s.prefix() + name
	opts := (&api.QueryOptions{}).WithContext(ctx)
	pair, _, err := s.kv.Get(key, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	if pair == nil {
		return nil, fmt.Errorf("failed to get key '%s': %w", key, data.ErrNotExist)
	}

	return &value{Reader: bytes.NewReader(pair.Value)}, nil
}

// prefix returns the configured prefix without leading and with a trailing slash.
func (s *Source) prefix() string {
	prefix := strings.Trim(s.config.Prefix, "/")
	if prefix == "" {
		return ""
	}

	return prefix + "/"
}

type value struct {
	*bytes.Reader
}

func (*value) Close() error {
	return nil
}
