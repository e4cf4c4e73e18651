// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultOpenSearchImage is the OpenSearch image used for integration tests.
	DefaultOpenSearchImage = "opensearchproject/opensearch:2.17.1"

	// DefaultOpenSearchPort is the REST port.
	DefaultOpenSearchPort = "9200"
)

// OpenSearchContainer is a running single-node cluster with security disabled.
type OpenSearchContainer struct {
	testcontainers.Container
	URL string
}

// OpenSearchOption configures the container.
type OpenSearchOption func(*openSearchConfig)

type openSearchConfig struct {
	image        string
	startTimeout time.Duration
}

// WithOpenSearchImage overrides the image.
func WithOpenSearchImage(image string) OpenSearchOption {
	return func(c *openSearchConfig) { c.image = image }
}

// WithStartTimeout sets how long to wait for the cluster to come up.
func WithStartTimeout(timeout time.Duration) OpenSearchOption {
	return func(c *openSearchConfig) { c.startTimeout = timeout }
}

// NewOpenSearchContainer starts a cluster and waits for _cluster/health.
//
//	os, err := testinfra.NewOpenSearchContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, os)
func NewOpenSearchContainer(ctx context.Context, opts ...OpenSearchOption) (*OpenSearchContainer, error) {
	cfg := &openSearchConfig{
		image:        DefaultOpenSearchImage,
		startTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultOpenSearchPort + "/tcp"},
		Env: map[string]string{
			"discovery.type":              "single-node",
			"DISABLE_SECURITY_PLUGIN":     "true",
			"DISABLE_INSTALL_DEMO_CONFIG": "true",
			"OPENSEARCH_JAVA_OPTS":        "-Xms512m -Xmx512m",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultOpenSearchPort+"/tcp"),
			wait.ForHTTP("/_cluster/health").WithPort(DefaultOpenSearchPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultOpenSearchPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &OpenSearchContainer{
		Container: container,
		URL:       fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}
