// Package address creates sources from address strings.
package address

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/source"
	"github.com/mwantia/packfs/source/consul"
	"github.com/mwantia/packfs/source/local"
	"github.com/mwantia/packfs/source/s3"
)

// Parse creates the source described by address. Addresses without a
// protocol are treated as local directories.
func Parse(address string) (source.Source, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("failed to parse address: %w", data.ErrInvalidPath)
	}

	switch {
	// local://<path>
	case strings.HasPrefix(address, "local://"):
		return parseLocalAddress(strings.TrimPrefix(address, "local://"))
	case strings.HasPrefix(address, "file://"):
		return parseLocalAddress(strings.TrimPrefix(address, "file://"))
	// s3://<endpoint>/<bucket>/<prefix>?access_key=&secret_key=&ssl=
	case strings.HasPrefix(address, "s3://"):
		return parseS3Address(strings.TrimPrefix(address, "s3://"))
	case strings.HasPrefix(address, "minio://"):
		return parseS3Address(strings.TrimPrefix(address, "minio://"))
	// consul://<address>/<prefix>?token=&datacenter=
	case strings.HasPrefix(address, "consul://"):
		return parseConsulAddress(strings.TrimPrefix(address, "consul://"))
	}

	if strings.Contains(address, "://") {
		return nil, fmt.Errorf("failed to parse address '%s': unknown protocol", address)
	}

	return parseLocalAddress(address)
}

func parseLocalAddress(address string) (source.Source, error) {
	if address == "" {
		return nil, fmt.Errorf("failed to parse local address: %w", data.ErrInvalidPath)
	}

	return local.New(address), nil
}

func parseS3Address(address string) (source.Source, error) {
	u, err := url.Parse("s3://" + address)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s3 address '%s': %w", address, err)
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if u.Host == "" || parts[0] == "" {
		return nil, fmt.Errorf("failed to parse s3 address '%s': endpoint and bucket required", address)
	}

	bucket, prefix := parts[0], ""
	if len(parts) == 2 {
		prefix = parts[1]
	}

	query := u.Query()
	useSsl := false
	if ssl := query.Get("ssl"); ssl != "" {
		useSsl, err = strconv.ParseBool(ssl)
		if err != nil {
			return nil, fmt.Errorf("failed to parse s3 address '%s': invalid ssl value: %w", address, err)
		}
	}

	return s3.New(u.Host, bucket, prefix, query.Get("access_key"), query.Get("secret_key"), useSsl)
}

func parseConsulAddress(address string) (source.Source, error) {
	u, err := url.Parse("consul://" + address)
	if err != nil {
		return nil, fmt.Errorf("failed to parse consul address '%s': %w", address, err)
	}

	query := u.Query()
	return consul.New(&consul.Config{
		Address:    u.Host,
		Token:      query.Get("token"),
		Datacenter: query.Get("datacenter"),
		Prefix:     strings.Trim(u.Path, "/"),
	})
}
