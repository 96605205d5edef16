package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rookctl/internal/topology"
)

const fullConfig = `
rook:
  version: 1.5.12
  stagingDir: /var/tmp/rook
  executor: client
ceph:
  image:
    user: kerryeon
    version: 15.2.7
  mode: lvm
  osdsPerDevice: 3
  forceCleanup: true
  nodes:
    - name: n1
      metadata: /dev/sdb
      volumes: [/dev/sdc, /dev/sdd]
    - name: n2
      metadata: /dev/sdb
      volumes: []
`

func TestLoadBytes_Full(t *testing.T) {
	t.Parallel()

	cfg, err := LoadBytes([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "1.5.12", cfg.Rook.Version)
	assert.Equal(t, "/var/tmp/rook", cfg.Rook.StagingDir)
	assert.Equal(t, ExecutorClient, cfg.Rook.Executor)
	assert.Equal(t, "LVM", cfg.Ceph.Mode)
	assert.Equal(t, 3, cfg.Ceph.OSDsPerDevice)
	assert.True(t, cfg.Ceph.ForceCleanup)
	require.Len(t, cfg.Ceph.Nodes, 2)
	assert.Equal(t, NodeConfig{Name: "n1", Metadata: "/dev/sdb", Volumes: []string{"/dev/sdc", "/dev/sdd"}}, cfg.Ceph.Nodes[0])
	assert.Empty(t, cfg.Ceph.Nodes[1].Volumes)

	require.NoError(t, cfg.ValidateDeploy())
}

func TestLoadBytes_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadBytes([]byte("rook:\n  version: 1.5.12\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultStagingDir, cfg.Rook.StagingDir)
	assert.Equal(t, ExecutorKubectl, cfg.Rook.Executor)
	assert.Equal(t, "LVM", cfg.Ceph.Mode)
	assert.Equal(t, topology.DefaultOSDsPerDevice, cfg.Ceph.OSDsPerDevice)
	assert.Equal(t, DefaultImageUser, cfg.Ceph.Image.User)
	assert.Empty(t, cfg.Ceph.Nodes)
	assert.False(t, cfg.Ceph.ForceCleanup)
}

func TestLoadBytes_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := LoadBytes(nil)
	require.NoError(t, err, "an empty file is valid for reset")
	assert.Error(t, cfg.ValidateDeploy())
}

func TestLoadBytes_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := LoadBytes([]byte("ceph:\n  osds: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "osds")
}

func TestLoadBytes_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadBytes([]byte("rook: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kerryeon", cfg.Ceph.Image.User)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestFromMap_WeakTyping(t *testing.T) {
	t.Parallel()

	cfg, err := FromMap(map[string]interface{}{
		"rook": map[string]interface{}{"version": "1.5.12"},
		"ceph": map[string]interface{}{
			"osdsPerDevice": "4",
			"forceCleanup":  "true",
			"nodes": []interface{}{
				map[string]interface{}{"name": "n1", "volumes": []interface{}{"sdc"}},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Ceph.OSDsPerDevice)
	assert.True(t, cfg.Ceph.ForceCleanup)
	assert.Equal(t, []string{"sdc"}, cfg.Ceph.Nodes[0].Volumes)
}

func TestFromMap_JSONNumbers(t *testing.T) {
	t.Parallel()

	cfg, err := FromMap(map[string]interface{}{
		"ceph": map[string]interface{}{"osdsPerDevice": float64(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Ceph.OSDsPerDevice)
}

func TestMarshal_OmitsCredentials(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.Rook.Version = "1.5.12"
	cfg.Rook.Source.S3 = S3Config{Bucket: "mirror", Region: "eu", AccessKey: "AKIA", SecretKey: "secret"}

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bucket: mirror")
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "AKIA")

	back, err := LoadBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "mirror", back.Rook.Source.S3.Bucket)
}
