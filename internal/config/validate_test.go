package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rookctl/internal/topology"
)

func validConfig() *Config {
	cfg := &Config{
		Rook: RookConfig{Version: "1.5.12"},
		Ceph: CephConfig{
			Nodes: []NodeConfig{{Name: "n1", Metadata: "/dev/sdb", Volumes: []string{"/dev/sdc"}}},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Ceph.Mode = "ZFS" },
			wantErr: []string{`ceph.mode "ZFS" must be one of`},
		},
		{
			name:    "negative osds",
			mutate:  func(c *Config) { c.Ceph.OSDsPerDevice = -1 },
			wantErr: []string{"ceph.osdsPerDevice must be >= 0"},
		},
		{
			name:    "unnamed node",
			mutate:  func(c *Config) { c.Ceph.Nodes = append(c.Ceph.Nodes, NodeConfig{Volumes: []string{"/dev/sdc"}}) },
			wantErr: []string{"ceph.nodes[1].name is required"},
		},
		{
			name:    "empty volume",
			mutate:  func(c *Config) { c.Ceph.Nodes[0].Volumes = []string{""} },
			wantErr: []string{"ceph.nodes[0].volumes[0] is required"},
		},
		{
			name:    "unknown executor",
			mutate:  func(c *Config) { c.Rook.Executor = "helm" },
			wantErr: []string{`rook.executor "helm" must be one of: kubectl client`},
		},
		{
			name:    "bad url",
			mutate:  func(c *Config) { c.Rook.Source.URL = "not a url" },
			wantErr: []string{"rook.source.url"},
		},
		{
			name: "several sources",
			mutate: func(c *Config) {
				c.Rook.Source.URL = "https://mirror.example.com/rook"
				c.Rook.Source.Dir = "/srv/rook"
			},
			wantErr: []string{"only one of url, dir and s3 may be set, got 2"},
		},
		{
			name:    "bucket without region",
			mutate:  func(c *Config) { c.Rook.Source.S3.Bucket = "mirror" },
			wantErr: []string{"rook.source.s3.region is required"},
		},
		{
			name: "all problems reported",
			mutate: func(c *Config) {
				c.Ceph.Mode = "ZFS"
				c.Ceph.OSDsPerDevice = -2
			},
			wantErr: []string{"ceph.mode", "ceph.osdsPerDevice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, topology.ErrInvalidSpec))
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestValidateDeploy(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.ValidateDeploy())

	cfg.Rook.Version = ""
	err := cfg.ValidateDeploy()
	require.Error(t, err)
	assert.ErrorIs(t, err, topology.ErrInvalidSpec)
	assert.Contains(t, err.Error(), "rook.version is required")

	cfg.Rook.Version = "v1.5.12"
	err = cfg.ValidateDeploy()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leading v")
}

func TestYAMLPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ceph.nodes[1].name", yamlPath("Config.Ceph.Nodes[1].Name"))
	assert.Equal(t, "rook.source.s3.endpoint", yamlPath("Config.Rook.Source.S3.Endpoint"))
}
